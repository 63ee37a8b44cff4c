// Command token prints an API token for a client of the game service.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iamasit07/four-in-a-row-bot/internal/config"
	"github.com/iamasit07/four-in-a-row-bot/pkg/auth"
	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadEnvFiles()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	client := flag.String("client", "", "client name to embed in the token")
	ttl := flag.Duration("ttl", cfg.TokenTTL, "token lifetime")
	flag.Parse()

	if *client == "" {
		fmt.Fprintln(os.Stderr, "usage: token -client <name> [-ttl 720h]")
		os.Exit(2)
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, *client, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate token")
	}
	fmt.Println(token)
}
