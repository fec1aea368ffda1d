// Package main provides the platocmp CLI for running the ICU telemetry
// compressor over job files describing one buffer (compress) or many
// (batch).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog/v2"
	"github.com/urfave/cli/v3"

	"github.com/mycophonic/platocmp/version"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	handler := slogzerolog.Option{Level: slog.LevelInfo, Logger: &logger}.NewZerologHandler()
	slog.SetDefault(slog.New(handler))

	ctx := context.Background()

	appl := &cli.Command{
		Name:    version.Name(),
		Usage:   "PLATO-class ICU telemetry compressor",
		Version: version.Version() + " (" + version.Commit() + " - " + version.Date() + ")",
		Commands: []*cli.Command{
			compressCommand(&logger),
			batchCommand(&logger),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("platocmp failed")

		os.Exit(1)
	}
}

func usageError(msg string) error {
	return fmt.Errorf("platocmp: %s", msg) //nolint:err113 // CLI-level usage message, not a sentinel
}
