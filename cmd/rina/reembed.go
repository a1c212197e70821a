package main

import (
	"fmt"
	"os"
	"time"

	"github.com/poiesic/rina/reembed"
	"github.com/urfave/cli/v2"
)

func reembedCommand() *cli.Command {
	return &cli.Command{
		Name:   "reembed",
		Usage:  "Recompute embeddings for every stored listing",
		Action: runReembed,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Number of listings to process in each batch",
				Value: reembed.DefaultBatchSize,
			},
			&cli.IntFlag{
				Name:  "report-interval",
				Usage: "Report progress every N listings",
				Value: reembed.DefaultBatchSize,
			},
			&cli.IntFlag{
				Name:  "max-attempts",
				Usage: "Embedding attempts per batch",
				Value: 2,
			},
			&cli.DurationFlag{
				Name:  "retry-delay",
				Usage: "Base delay for exponential backoff",
				Value: 1 * time.Second,
			},
			&cli.BoolFlag{
				Name:  "resume",
				Usage: "Continue after the last checkpointed listing",
			},
		},
	}
}

func runReembed(c *cli.Context) error {
	cfg := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxAttempts:    c.Int("max-attempts"),
		RetryDelay:     c.Duration("retry-delay"),
		Resume:         c.Bool("resume"),
	}
	if cfg.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	a, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.NewReembedder(reembed.WithConfig(cfg), reembed.WithProgress(os.Stderr))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n\n", c.String("embedding-model"))

	summary, err := r.Run(c.Context)
	if err != nil {
		return fmt.Errorf("reembedding failed after %d listings (rerun with --resume): %w", summary.Processed, err)
	}
	if summary.Total > 0 {
		fmt.Fprintf(os.Stderr, "Re-embedded %d listings in %v\n", summary.Processed, summary.Elapsed.Round(time.Millisecond))
	}
	return nil
}
