// Command admintoken prints an ADMIN access token for the show API, signed
// with JWT_SECRET from the environment or .env.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/iliyamo/quickshow/internal/router"
	"github.com/iliyamo/quickshow/internal/utils"
)

func main() {
	_ = godotenv.Load()
	sub := flag.String("sub", "admin", "token subject")
	ttl := flag.Int("ttl", 0, "lifetime in minutes (default ADMIN_TOKEN_TTL_MIN or 60)")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("missing required env var: JWT_SECRET")
	}
	minutes := *ttl
	if minutes <= 0 {
		if _, err := fmt.Sscanf(os.Getenv("ADMIN_TOKEN_TTL_MIN"), "%d", &minutes); err != nil || minutes <= 0 {
			minutes = 60
		}
	}
	tok, err := utils.NewAccessToken(secret, *sub, router.AdminRole, minutes)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format("2006-01-02T15:04:05Z07:00"))
}
