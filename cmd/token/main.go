// Command token mints a bearer token for the chat adapter using the same
// configuration as the api server.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joefazee/wagerbook/app"
	"github.com/joefazee/wagerbook/internal/security"
)

func main() {
	userID := flag.String("user", "", "user id carried by the token")
	ttl := flag.Duration("ttl", 0, "token lifetime, defaults to SECURITY_TOKEN_DURATION")
	flag.Parse()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	token, err := mint(&cfg.Security, *userID, *ttl)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Fprintln(os.Stdout, token)
}

func mint(cfg *app.SecurityConfig, userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("-user is required")
	}
	if ttl <= 0 {
		ttl = cfg.TokenDuration
	}
	maker, err := security.NewPasetoMaker(cfg.SymmetricKey)
	if err != nil {
		return "", fmt.Errorf("cannot create token maker: %w", err)
	}
	token, _, err := maker.CreateToken(userID, ttl)
	return token, err
}
