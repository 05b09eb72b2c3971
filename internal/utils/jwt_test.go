package utils

import (
    "testing"

    "github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenClaims(t *testing.T) {
    at, err := NewAccessToken("s3cret", "ops", "ADMIN", 15)
    if err != nil {
        t.Fatalf("NewAccessToken: %v", err)
    }
    tok, err := jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) { return []byte("s3cret"), nil })
    if err != nil || !tok.Valid {
        t.Fatalf("parse: %v", err)
    }
    claims := tok.Claims.(jwt.MapClaims)
    if sub, _ := claims.GetSubject(); sub != "ops" {
        t.Fatalf("sub = %q", sub)
    }
    if claims["role"] != "ADMIN" {
        t.Fatalf("role = %v", claims["role"])
    }
    exp, _ := claims.GetExpirationTime()
    if exp == nil || exp.Unix() != at.Exp.Unix() {
        t.Fatalf("exp = %v, want %v", exp, at.Exp)
    }
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
    at, _ := NewAccessToken("a", "ops", "ADMIN", 1)
    if _, err := jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) { return []byte("b"), nil }); err == nil {
        t.Fatal("expected signature error")
    }
}
