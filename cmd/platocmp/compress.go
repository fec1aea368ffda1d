package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/mycophonic/platocmp"
	"github.com/mycophonic/platocmp/layout"
	"github.com/mycophonic/platocmp/perr"
)

func compressCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "compress",
		Usage:     "Compress one buffer described by a job file",
		ArgsUsage: "<job.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "-",
				Usage:   "output file path (- for stdout)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return usageError(fmt.Sprintf("expected exactly one argument: job file, got %d", cmd.NArg()))
			}

			return runCompress(logger, cmd.Args().First(), cmd.String("output"))
		},
	}
}

// runCompress loads a job file, runs Compress, and writes the result.
// The output buffer is sized as buffer_length * 4 bytes per layout
// field, plus room for a collection header: the capacity Compress
// derives from buffer_length.
func runCompress(logger *zerolog.Logger, jobPath, outputPath string) error {
	job, err := loadJob(jobPath)
	if err != nil {
		return err
	}

	output := make([]byte, job.BufferLength*4*len(layout.Defs[dataTypes[job.DataType]].Fields)+16)

	cfg, err := buildConfig(job, output)
	if err != nil {
		return err
	}

	bits, err := platocmp.Compress(cfg)

	event := logger.Info()
	if err != nil {
		event = logger.Error().Int("result_code", int(perr.ResultCode(err)))
	}

	event.
		Str("data_type", job.DataType).
		Str("mode", job.Mode).
		Int("samples", job.Samples).
		Int("bits", bits).
		Msg("compress")

	if err != nil {
		return fmt.Errorf("compress: %w", err)
	}

	outBytes := outputByteCount(cfg.Mode, bits)

	return writeOutput(outputPath, output[:outBytes])
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("writing to stdout: %w", err)
		}

		return nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec,mnd // CLI tool writes user-specified output files
		return fmt.Errorf("writing output file: %w", err)
	}

	return nil
}
