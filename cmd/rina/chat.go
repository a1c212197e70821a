package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/rina"
	"github.com/poiesic/rina/chat"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/storage"
	"github.com/urfave/cli/v2"
)

func chatCommand() *cli.Command {
	return &cli.Command{
		Name:   "chat",
		Usage:  "Chat with the assistant on the terminal (no rate limit)",
		Action: runChat,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "Identity to chat as",
				Value:   "cli-user",
			},
			&cli.IntFlag{
				Name:  "history",
				Usage: "Print the last N exchanges for the user before starting",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "Record a reasoning trace for every message and print its ID",
			},
		},
	}
}

func runChat(c *cli.Context) error {
	a, err := openAssistant(c, rina.WithoutRateLimit())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := c.Context
	user := c.String("user")
	if n := c.Int("history"); n > 0 {
		if err := printHistory(ctx, os.Stdout, a.Store().Chats, user, n); err != nil {
			return err
		}
	}
	return chatLoop(ctx, os.Stdin, os.Stdout, a.Orchestrator(), user, c.Bool("trace"))
}

// chatLoop answers each line of in until EOF or "exit".
func chatLoop(ctx context.Context, in io.Reader, out io.Writer, o *chat.Orchestrator, user string, traced bool) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			break
		}

		msg := core.NewMessage(user, line)
		if traced {
			reply, t := o.HandleTraced(ctx, msg)
			fmt.Fprintln(out, reply.Text)
			if t != nil {
				fmt.Fprintf(out, "  [trace %s, %s/%s]\n", t.TraceID, reply.Branch, reply.Outcome)
			}
		} else {
			fmt.Fprintln(out, o.Handle(ctx, msg).Text)
		}
		fmt.Fprint(out, "> ")
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

// printHistory prints the user's recent exchanges oldest first.
func printHistory(ctx context.Context, out io.Writer, chats storage.ChatRepository, user string, n int) error {
	recent, err := chats.RecentChats(ctx, user, n)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(recent) == 0 {
		fmt.Fprintf(out, "No history for %s\n", user)
		return nil
	}
	for i := len(recent) - 1; i >= 0; i-- {
		ex := recent[i]
		fmt.Fprintf(out, "[%s] you: %s\n", ex.CreatedAt.Local().Format("2006-01-02 15:04"), ex.UserMessage)
		fmt.Fprintf(out, "        rina: %s\n", ex.BotResponse)
	}
	fmt.Fprintln(out)
	return nil
}
