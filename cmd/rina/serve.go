package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/poiesic/rina"
	"github.com/poiesic/rina/ratelimit"
	"github.com/urfave/cli/v2"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the chat API and messaging webhook over HTTP",
		Action: runServe,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on",
				Value:   "8000",
				EnvVars: []string{"PORT"},
			},
			&cli.StringFlag{
				Name:    "admin-key",
				Usage:   "Bearer key for POST /api/listings (empty disables the route)",
				EnvVars: []string{"ADMIN_API_KEY"},
			},
			&cli.IntFlag{
				Name:    "rate-limit",
				Usage:   "Messages allowed per identity per window",
				Value:   ratelimit.DefaultLimit,
				EnvVars: []string{"RATE_LIMIT_MAX"},
			},
			&cli.DurationFlag{
				Name:    "rate-window",
				Usage:   "Rate limit window",
				Value:   ratelimit.DefaultWindow,
				EnvVars: []string{"RATE_LIMIT_WINDOW"},
			},
			&cli.DurationFlag{
				Name:  "call-timeout",
				Usage: "Timeout for each model call made while answering a message",
				Value: 15 * time.Second,
			},
		},
	}
}

func runServe(c *cli.Context) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	a, err := openAssistant(c,
		rina.WithRateLimit(c.Int("rate-limit"), c.Duration("rate-window")),
		rina.WithCallTimeout(c.Duration("call-timeout")),
	)
	if err != nil {
		return err
	}
	defer a.Close()

	pipeline, err := a.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	s, err := a.NewServer(pipeline, c.String("admin-key"))
	if err != nil {
		return err
	}
	srv := s.NewHTTPServer(net.JoinHostPort("", c.String("port")))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "listing_upload", c.String("admin-key") != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
