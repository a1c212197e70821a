package main

import (
	"fmt"

	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/ingestion"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"
)

func ingestCommand() *cli.Command {
	return &cli.Command{
		Name:   "ingest",
		Usage:  "Embed and store listings from a JSON or YAML seed file",
		Action: runIngest,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Seed file (.json, .yaml, .yml); built-in sample listings when omitted",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Listings embedded per call",
				Value: ingestion.DefaultBatchSize,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent embedding workers",
				Value: 2,
			},
			&cli.DurationFlag{
				Name:  "call-interval",
				Usage: "Minimum spacing between embedding calls",
				Value: ingestion.DefaultCallInterval,
			},
		},
	}
}

func runIngest(c *cli.Context) error {
	var (
		listings []*core.Listing
		err      error
	)
	if path := c.String("file"); path != "" {
		if listings, err = ingestion.LoadFile(path); err != nil {
			return err
		}
	} else {
		listings = demoListings()
	}

	a, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := []ingestion.Option{
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithPoolSize(c.Int("workers")),
	}
	if d := c.Duration("call-interval"); d > 0 {
		opts = append(opts, ingestion.WithRateLimit(rate.Every(d), 1))
	}
	pipeline, err := a.NewIngestionPipeline(opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	result, err := pipeline.Ingest(c.Context, listings)
	fmt.Printf("Stored %d, skipped %d, failed %d\n", result.Stored, result.Skipped, result.Failed)
	if err != nil {
		return fmt.Errorf("ingestion incomplete: %w", err)
	}
	return nil
}
