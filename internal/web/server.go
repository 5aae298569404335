// Package web serves the site: the terminal page, its JSON and HTMX
// endpoints, the contact API and the admin area.
package web

import (
	"context"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/Zachkp/devfolio/internal/config"
	"github.com/Zachkp/devfolio/internal/session"
	"github.com/Zachkp/devfolio/internal/store"
	"github.com/Zachkp/devfolio/internal/terminal"
	"github.com/Zachkp/devfolio/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options wires the server's collaborators.
type Options struct {
	Config   config.Config
	Terminal *terminal.Terminal
	Sessions session.Store
	Inbox    *Inbox
	// Visitors is optional; nil disables tracking and visitor stats.
	Visitors *store.VisitorLog
	Renderer *view.Renderer
}

// Server owns the gin engine.
type Server struct {
	cfg         config.Config
	term        *terminal.Terminal
	sessions    session.Store
	inbox       *Inbox
	visitors    *store.VisitorLog
	renderer    *view.Renderer
	adminSecret []byte
	limiter     *ipLimiter
	engine      *gin.Engine
}

// New builds the engine and registers every route.
func New(opts Options) (*Server, error) {
	if opts.Terminal == nil || opts.Sessions == nil || opts.Inbox == nil || opts.Renderer == nil {
		return nil, errors.New("web: terminal, sessions, inbox and renderer are required")
	}

	secret := opts.Config.AdminSecret
	if secret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("generate admin secret: %w", err)
		}
		secret = hex.EncodeToString(b)
	}

	s := &Server{
		cfg:         opts.Config,
		term:        opts.Terminal,
		sessions:    opts.Sessions,
		inbox:       opts.Inbox,
		visitors:    opts.Visitors,
		renderer:    opts.Renderer,
		adminSecret: []byte(secret),
		limiter:     newIPLimiter(opts.Config.MessageRatePerMin),
	}

	tmpl, err := template.New("web").Funcs(template.FuncMap{
		"ago": humanize.Time,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse web templates: %w", err)
	}

	r := gin.Default()
	var proxies []string
	if len(opts.Config.TrustedProxies) > 0 {
		proxies = opts.Config.TrustedProxies
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	r.Use(securityHeaders())
	if s.visitors != nil {
		r.Use(s.visitorTracking())
	}

	r.Static("/static", opts.Config.StaticDir)
	r.Static("/images", opts.Config.ImagesDir)

	r.GET("/", s.index)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/terminal", s.terminalFragment)

	api := r.Group("/api")
	api.POST("/terminal", s.terminalJSON)
	api.GET("/complete", s.complete)
	api.GET("/features", s.features)
	api.POST("/send-message", s.limiter.middleware(), s.sendMessage)

	s.setupAdminRoutes(r)
	s.engine = r
	return s, nil
}

// Handler exposes the engine, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("Shutting down server...")
		return srv.Shutdown(shutdownCtx)
	}
}
