// Command token mints a bearer token for local testing against the API.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spec-kit/maintenance-service/internal/auth"
	"github.com/spec-kit/maintenance-service/internal/config"
	"github.com/spec-kit/maintenance-service/internal/domain"
)

func main() {
	name := flag.String("name", "", "display name carried in the token")
	role := flag.String("role", string(domain.SubjectRoleProduction), "PRODUCTION, MAINTENANCE or ADMIN")
	flag.Parse()

	subject := domain.SubjectRole(strings.ToUpper(*role))
	if strings.TrimSpace(*name) == "" || !subject.Valid() {
		log.Fatalf("usage: token -name <name> -role PRODUCTION|MAINTENANCE|ADMIN")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTLMinutes)
	token, expires, err := tokens.GenerateToken(strings.TrimSpace(*name), subject)
	if err != nil {
		log.Fatalf("failed to mint token: %v", err)
	}
	fmt.Println(token)
	log.Printf("expires %s", expires.Format(time.RFC3339))
}
