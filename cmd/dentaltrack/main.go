package main

import (
	"os"

	"github.com/rs/zerolog"

	"dentaltrack/internal/config"
	"dentaltrack/internal/gateway"
	"dentaltrack/internal/migration"
)

func main() {
	cfg := config.Load()
	log := newLogger(cfg.LogLevel)

	gw := gateway.New(cfg, log)
	if err := gw.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize persistence")
	}
	defer gw.Close()

	if gw.UsingFallback() {
		log.Warn().Msg("running on the fallback store")
	}

	if err := migration.New(gw, log).Run(); err != nil {
		log.Fatal().Err(err).Msg("legacy data migration failed")
	}

	log.Info().Msg("persistence ready")
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(parsed).With().Timestamp().Logger()
}
