package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hawthwind/tierbank"
	"github.com/sony/gobreaker/v2"
	"gopkg.in/yaml.v3"

	"github.com/rs/zerolog"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg tierbank.Config
	cfp := flag.String("config", "config.yml", "path to configuration file")
	flag.Parse()
	cfgfl, err := os.Open(*cfp)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening config file")
	}
	if err = yaml.NewDecoder(cfgfl).Decode(&cfg); err != nil {
		logger.Fatal().Err(err).Msg("error decoding config file")
	}

	pgendpt, err := tierbank.NewPostgresEndpoint(cfg.Database.ConnectionString, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting database")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting ID node")
	}

	svc, err := tierbank.NewService(pgendpt, node, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting service")
	}

	maxInFlight := cfg.Shedding.MaxInFlight
	if maxInFlight == 0 {
		maxInFlight = 64
	}
	acquireTimeout := cfg.Shedding.AcquireTimeout
	if acquireTimeout == 0 {
		acquireTimeout = 3 * time.Second
	}

	var wrapped tierbank.Service = svc
	wrapped = tierbank.NewValidationMiddleware(pgendpt)(wrapped)
	wrapped = tierbank.NewLimitMiddleware(tierbank.NewServiceLimits(maxInFlight), acquireTimeout)(wrapped)
	wrapped = tierbank.NewCircuitBreakMiddleware(tierbank.NewServiceBreaker(gobreaker.Settings{Name: "tierbank"}))(wrapped)

	hndlr := tierbank.NewHTTPHandler(wrapped, &logger)

	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":3000"
	}
	logger.Info().Str("addr", addr).Msg("listening")
	if err = http.ListenAndServe(addr, hndlr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
