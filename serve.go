package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Zachkp/devfolio/internal/config"
	"github.com/Zachkp/devfolio/internal/session"
	"github.com/Zachkp/devfolio/internal/store"
	"github.com/Zachkp/devfolio/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, cfg.MockLatency)
	if err != nil {
		return err
	}

	sessions, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	var visitors *store.VisitorLog
	if cfg.VisitorDB != "" {
		visitors, err = store.OpenVisitorLog(cfg.VisitorDB)
		if err != nil {
			return err
		}
		defer visitors.Close()
		go cleanupVisitors(ctx, visitors, cfg.VisitorRetention)
	}

	if cfg.AdminPassword == "admin123" && gin.Mode() == gin.DebugMode {
		log.Println("WARNING: Using default admin password. Set ADMIN_PASSWORD environment variable.")
	}

	srv, err := web.New(web.Options{
		Config:   cfg,
		Terminal: a.term,
		Sessions: sessions,
		Inbox:    a.inbox,
		Visitors: visitors,
		Renderer: a.renderer,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

// openSessions picks redis when REDIS_URL is set, memory otherwise.
func openSessions(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	if cfg.RedisURL == "" {
		log.Println("Sessions: in-memory store")
		return session.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	}
	rs, err := session.DialRedis(ctx, cfg.RedisURL, cfg.SessionTTL)
	if err != nil {
		return nil, nil, err
	}
	log.Println("Sessions: redis store")
	return rs, func() {
		if err := rs.Close(); err != nil {
			log.Printf("Error closing redis: %v", err)
		}
	}, nil
}

// cleanupVisitors enforces the retention window at startup and once a day.
func cleanupVisitors(ctx context.Context, visitors *store.VisitorLog, retention time.Duration) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		if _, err := visitors.Cleanup(ctx, retention); err != nil {
			log.Printf("Error cleaning up visitor data: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
