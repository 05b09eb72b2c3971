package middleware

// identity.go holds the caller-identity helper shared by the rate limiter.
// JWTAuth stores the token subject under "user_id"; unauthenticated requests
// are keyed as "anon".

import (
    "github.com/labstack/echo/v4"
)

func currentUserID(c echo.Context) string {
    if s, ok := c.Get("user_id").(string); ok && s != "" {
        return s
    }
    return "anon"
}
