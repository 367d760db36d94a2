package main

import (
	"flag"
	"os"
	"strings"

	"github.com/hawthwind/tierbank"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg tierbank.Config
	cfp := flag.String("config", "config.yml", "path to configuration file")
	emails := flag.String("emails", "", "comma-separated emails to seed demo accounts for")
	flag.Parse()
	cfgfl, err := os.Open(*cfp)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening config file")
	}
	if err = yaml.NewDecoder(cfgfl).Decode(&cfg); err != nil {
		logger.Fatal().Err(err).Msg("error decoding config file")
	}

	lh, err := tierbank.NewLocalHelper(&cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting local helper")
	}
	if _, err = lh.InitDB(); err != nil {
		logger.Fatal().Err(err).Msg("error initializing database")
	}
	if *emails != "" {
		numbers, err := lh.SeedAccounts(strings.Split(*emails, ",")...)
		if err != nil {
			logger.Fatal().Err(err).Msg("error seeding accounts")
		}
		for email, number := range numbers {
			logger.Info().Str("email", email).Str("number", number).Msg("account seeded")
		}
	}
}
