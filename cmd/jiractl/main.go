package main

import (
	"os"

	"github.com/andyle182810/jiraclient/internal/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
)

func main() {
	app := newApp(os.Stdout, os.Stderr, config.New)

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("jiractl exited with an error")
	}
}
