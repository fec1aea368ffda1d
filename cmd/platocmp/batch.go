package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/mycophonic/platocmp"
	"github.com/mycophonic/platocmp/layout"
)

func batchCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Compress many independently-configured buffers concurrently",
		ArgsUsage: "<job.json> [job.json ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output-dir",
				Value: ".",
				Usage: "directory to write one <job>.bin per job file",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Value: 4, //nolint:mnd // reasonable CLI default, not a protocol constant
				Usage: "maximum number of buffers compressed at once",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 {
				return usageError("expected at least one job file")
			}

			return runBatch(ctx, logger, cmd.Args().Slice(), cmd.String("output-dir"), cmd.Int("concurrency"))
		},
	}
}

// runBatch compresses each job file's buffer concurrently. Spec section
// 5 sanctions concurrent encoders over independent buffers; each
// Compress call here stays internally single-threaded, as the source
// requires.
func runBatch(ctx context.Context, logger *zerolog.Logger, jobPaths []string, outputDir string, concurrency int) error {
	batchID := uuid.New()
	batchLog := logger.With().Str("batch_id", batchID.String()).Logger()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for _, jobPath := range jobPaths {
		group.Go(func() error {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			default:
			}

			return runBatchJob(&batchLog, jobPath, outputDir)
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	return nil
}

func runBatchJob(logger *zerolog.Logger, jobPath, outputDir string) error {
	jobID := uuid.New()
	jobLog := logger.With().Str("job_id", jobID.String()).Str("job_path", jobPath).Logger()

	job, err := loadJob(jobPath)
	if err != nil {
		jobLog.Error().Err(err).Msg("load job")

		return err
	}

	output := make([]byte, job.BufferLength*4*len(layout.Defs[dataTypes[job.DataType]].Fields)+16)

	cfg, err := buildConfig(job, output)
	if err != nil {
		jobLog.Error().Err(err).Msg("build config")

		return err
	}

	bits, err := platocmp.Compress(cfg)
	if err != nil {
		jobLog.Error().Err(err).Msg("compress")

		return fmt.Errorf("%s: %w", jobPath, err)
	}

	jobLog.Info().Int("bits", bits).Msg("compress")

	outBytes := outputByteCount(cfg.Mode, bits)
	outPath := filepath.Join(outputDir, filepath.Base(jobPath)+".bin")

	return writeOutput(outPath, output[:outBytes])
}
