package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Zachkp/devfolio/internal/config"
	"github.com/Zachkp/devfolio/internal/content"
	"github.com/Zachkp/devfolio/internal/feature"
	"github.com/Zachkp/devfolio/internal/store"
	"github.com/Zachkp/devfolio/internal/terminal"
	"github.com/Zachkp/devfolio/internal/view"
	"github.com/Zachkp/devfolio/internal/web"
)

// errCommandFailed makes `exec` exit non-zero without printing anything else.
var errCommandFailed = errors.New("command failed")

var rootCmd = &cobra.Command{
	Use:   "devfolio",
	Short: "Developer portfolio with an in-browser terminal",
	Long: `devfolio serves a portfolio site built around a simulated terminal.
Visitors explore coding challenges, API docs, a database browser, git
history, a CI/CD pipeline, IDE settings and project demos by typing
commands. The same terminal can be driven locally with 'term' and 'exec'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.AddCommand(serveCmd, termCmd, execCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errCommandFailed) {
			fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		}
		os.Exit(1)
	}
}

// app is the terminal stack shared by every subcommand.
type app struct {
	term     *terminal.Terminal
	inbox    *web.Inbox
	renderer *view.Renderer
}

func newApp(cfg config.Config, latency time.Duration) (*app, error) {
	catalog, err := content.Load()
	if err != nil {
		return nil, err
	}
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	var notifier web.Notifier
	if cfg.SMTP.Enabled() {
		notifier = web.NewSMTPNotifier(cfg.SMTP, cfg.ToEmail)
	} else {
		log.Println("SMTP credentials not set; message notifications disabled")
	}
	inbox := web.NewInbox(store.NewMessageLog(cfg.MessagesFile, cfg.MessageMaxLen), notifier)

	shell, features := feature.Build(feature.Deps{
		Catalog:  catalog,
		Messages: inbox,
		Latency:  latency,
	})
	return &app{
		term:     terminal.New(shell, features, terminal.WithHistoryLimit(cfg.HistoryLimit)),
		inbox:    inbox,
		renderer: renderer,
	}, nil
}
