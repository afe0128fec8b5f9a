// Command admintoken prints a signed admin token for the review routes.
//
//	ADMIN_JWT_SECRET=... go run ./cmd/admintoken -subject ops
package main

import (
	"flag"
	"fmt"
	"os"

	"hrportal-backend/internal/auth"
	"hrportal-backend/internal/config"
)

func main() {
	subject := flag.String("subject", "admin", "token subject (admin name)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	issuer, err := auth.NewIssuer(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create issuer: %v\n", err)
		os.Exit(1)
	}

	token, err := issuer.GenerateToken(*subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
