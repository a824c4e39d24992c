// Command devtoken prints a bearer token for a local wallet ledger server.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"walletledger/internal/config"
	"walletledger/internal/middleware"
)

func main() {
	config.LoadEnv()

	if config.IsProduction() {
		log.Fatal("devtoken is disabled when ENV=production")
	}

	userID := os.Getenv("DEV_USER_ID")
	if len(os.Args) > 1 {
		userID = os.Args[1]
	}
	if userID == "" {
		log.Fatal("usage: devtoken <user-id> (or set DEV_USER_ID)")
	}

	ttl := config.GetDurationEnv("DEV_TOKEN_TTL", time.Hour)
	role := os.Getenv("DEV_ROLE")
	token, err := middleware.IssueTokenWithRole(config.Load().Auth.JWTSecret, userID, role, ttl, time.Now())
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}
	fmt.Println(token)
}
