package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/Zachkp/devfolio/internal/config"
	"github.com/Zachkp/devfolio/internal/content"
	"github.com/Zachkp/devfolio/internal/terminal"
	"github.com/Zachkp/devfolio/internal/view"
)

var termLatency time.Duration

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Use the portfolio terminal from your shell",
	Long: `Starts an interactive session on the same command router the website
uses. Arrow keys walk the history, Tab completes verbs and Ctrl+C cancels a
running command. Ctrl+C at an empty prompt, Ctrl+D or 'exit' at the top
level quits.`,
	Args: cobra.NoArgs,
	RunE: runTerm,
}

func init() {
	termCmd.Flags().DurationVar(&termLatency, "latency", -1, "Simulated network latency (default MOCK_LATENCY)")
}

func runTerm(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	latency := cfg.MockLatency
	if termLatency >= 0 {
		latency = termLatency
	}
	a, err := newApp(cfg, latency)
	if err != nil {
		return err
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	historyFile := termHistoryFile()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.OpenFile(historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
		line.Close()
	}()

	sess := terminal.NewSession(time.Now())
	line.SetCompleter(func(input string) []string {
		return a.term.Complete(sess, input)
	})

	out := cmd.OutOrStdout()
	color.New(color.Bold).Fprintf(out, "%s, %s\n", content.Owner, content.Role)
	color.New(color.Faint).Fprintln(out, "Type 'help' for available commands or 'features' to explore.")

	for {
		input, err := line.Prompt(a.term.Prompt(sess) + " ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if sess.Feature == "" && (input == "exit" || input == "quit") {
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		ctx = terminal.WithClientIP(ctx, "127.0.0.1")
		resp := a.term.Execute(ctx, sess, input)
		stop()

		if err := printResponse(out, resp); err != nil {
			return err
		}
	}
}

func termHistoryFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	} else {
		dir = filepath.Join(dir, "devfolio")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			dir = os.TempDir()
		}
	}
	return filepath.Join(dir, "term_history")
}

var lineColors = map[terminal.Kind]*color.Color{
	terminal.KindInfo:    color.New(color.Reset),
	terminal.KindSuccess: color.New(color.FgGreen),
	terminal.KindError:   color.New(color.FgRed),
	terminal.KindMuted:   color.New(color.Faint),
	terminal.KindCommand: color.New(color.FgCyan),
}

// printResponse writes a response the way the browser shows it: lines
// first, then the editor document.
func printResponse(w io.Writer, resp *terminal.Response) error {
	if resp.Clear && !color.NoColor {
		fmt.Fprint(w, "\033[H\033[2J")
	}
	for _, l := range resp.Lines {
		c, ok := lineColors[l.Kind]
		if !ok {
			c = lineColors[terminal.KindInfo]
		}
		if _, err := c.Fprintln(w, l.Text); err != nil {
			return err
		}
	}
	if resp.Tab != nil {
		fmt.Fprintln(w)
		return view.RenderText(w, *resp.Tab)
	}
	return nil
}
