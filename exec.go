package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zachkp/devfolio/internal/config"
	"github.com/Zachkp/devfolio/internal/terminal"
)

var (
	execHTML    bool
	execLatency time.Duration
)

var execCmd = &cobra.Command{
	Use:   "exec <command...>",
	Short: "Run one terminal command and print the result",
	Long: `Runs a single command against a fresh session. Use it to check fixture
content without starting the server.

Examples:
  devfolio exec about
  devfolio exec git show a1f3
  devfolio exec --html database table users`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().BoolVar(&execHTML, "html", false, "Print the editor document as HTML")
	execCmd.Flags().DurationVar(&execLatency, "latency", 0, "Simulated network latency")
}

func runExec(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, execLatency)
	if err != nil {
		return err
	}

	sess := terminal.NewSession(time.Now())
	ctx := terminal.WithClientIP(cmd.Context(), "127.0.0.1")

	// "exec git log" starts the feature first, then runs the rest inside it.
	if len(args) > 1 {
		if f := findFeature(a.term, args[0]); f != nil {
			a.term.Execute(ctx, sess, "start "+f.Name())
			args = args[1:]
		}
	}
	resp := a.term.Execute(ctx, sess, strings.Join(args, " "))

	out := cmd.OutOrStdout()
	if execHTML {
		if resp.Tab == nil {
			return fmt.Errorf("%q does not open anything in the editor", strings.Join(args, " "))
		}
		html, err := a.renderer.Render(*resp.Tab)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, html)
	} else if err := printResponse(out, resp); err != nil {
		return err
	}

	if resp.Failed() {
		return errCommandFailed
	}
	return nil
}

func findFeature(t *terminal.Terminal, name string) terminal.Feature {
	for _, f := range t.Features() {
		if strings.EqualFold(f.Name(), name) {
			return f
		}
	}
	return nil
}
