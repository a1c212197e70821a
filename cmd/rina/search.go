package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/search"
	"github.com/urfave/cli/v2"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Retrieve and rerank listings for a free-text query",
		ArgsUsage: "<query>",
		Action:    runSearch,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "top",
				Usage: "Number of results",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Print retrieval steps and extracted constraints",
			},
		},
	}
}

func runSearch(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("a query is required")
	}
	topK := c.Int("top")
	if topK <= 0 {
		return fmt.Errorf("top must be greater than 0")
	}

	a, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer a.Close()

	var monitor search.RetrievalMonitor
	if c.Bool("verbose") {
		monitor = &verboseMonitor{out: os.Stderr}
	}

	constraints := search.ExtractConstraints(query)
	if c.Bool("verbose") {
		printConstraints(os.Stderr, constraints)
	}

	results, err := a.Retriever().RetrieveWithMonitor(c.Context, query, topK, monitor)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	ranked := search.Rerank(results, constraints, topK)
	fmt.Printf("Found %d listings\n", len(ranked))
	for i, r := range ranked {
		fmt.Printf("%d: %s [%s] sim=%.3f score=%.3f\n", i+1, r.Listing.Title, r.Listing.ID, r.Similarity, r.Score)
	}
	return nil
}

// verboseMonitor prints each retrieval step.
type verboseMonitor struct {
	out io.Writer
}

func (m *verboseMonitor) Start(query string, truncated bool) {
	fmt.Fprintf(m.out, "query: %q", query)
	if truncated {
		fmt.Fprint(m.out, " (truncated)")
	}
	fmt.Fprintln(m.out)
}

func (m *verboseMonitor) AfterEmbedding(dimensions int) {
	fmt.Fprintf(m.out, "embedded query: %d dimensions\n", dimensions)
}

func (m *verboseMonitor) Finish(results []core.RetrievalResult, err error) {
	if err != nil {
		fmt.Fprintf(m.out, "retrieval failed: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "retrieved %d candidates\n", len(results))
}

func printConstraints(out io.Writer, c core.Constraints) {
	if c.IsZero() {
		fmt.Fprintln(out, "constraints: none")
		return
	}
	var parts []string
	if c.PropertyType != "" {
		parts = append(parts, "type="+c.PropertyType)
	}
	if c.MaxPrice != nil {
		parts = append(parts, fmt.Sprintf("max_price=%.0f", *c.MaxPrice))
	}
	if c.Furnishing != "" {
		parts = append(parts, "furnishing="+c.Furnishing)
	}
	fmt.Fprintf(out, "constraints: %s\n", strings.Join(parts, " "))
}
