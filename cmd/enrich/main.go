package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/quibly/quibly/internal/company"
	"github.com/quibly/quibly/internal/config"
	"github.com/quibly/quibly/internal/database"
	"github.com/quibly/quibly/internal/meta"
	"github.com/quibly/quibly/internal/request"
	"github.com/rs/zerolog"
)

func main() {
	limit := flag.Int("limit", 50, "max number of requests to enrich")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall time budget")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	logger.Info().Msg("enriching company requests from their websites")
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to load config")
	}
	conn, err := database.GetDbConn(
		cfg.DatabaseUser,
		cfg.DatabasePassword,
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseName,
		cfg.DatabaseSSLMode,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to connect to postgres")
	}
	defer database.CloseDbConn(conn)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	n, err := company.NewEnricher(nil, logger).Run(ctx, request.NewRepository(conn), *limit)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to enrich company requests")
	}
	if err := meta.NewRepository(conn).Touch(meta.KeyLastCompanyEnrichment); err != nil {
		logger.Error().Err(err).Msg("unable to record enrichment run")
	}
	logger.Info().Int("saved", n).Msg("done")
}
