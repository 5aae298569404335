// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable of the site. Values come from the process
// environment; a .env file is autoloaded by the binary before parsing.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is
	// honored. Empty means the peer address is always the client IP.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	StaticDir string `env:"STATIC_DIR" envDefault:"./static"`
	ImagesDir string `env:"IMAGES_DIR" envDefault:"./images"`

	MessagesFile      string `env:"MESSAGES_FILE" envDefault:"messages.json"`
	MessageMaxLen     int    `env:"MESSAGE_MAX_LEN" envDefault:"2000"`
	MessageRatePerMin int    `env:"MESSAGE_RATE_PER_MIN" envDefault:"5"`

	// VisitorDB is the sqlite file for visitor tracking. Empty disables tracking.
	VisitorDB        string        `env:"VISITOR_DB" envDefault:"visitors.db"`
	VisitorRetention time.Duration `env:"VISITOR_RETENTION" envDefault:"8760h"`

	// MockLatency paces the simulated network calls (api try, deploy, demo).
	MockLatency time.Duration `env:"MOCK_LATENCY" envDefault:"1500ms"`

	RedisURL     string        `env:"REDIS_URL"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	HistoryLimit int           `env:"HISTORY_LIMIT" envDefault:"50"`

	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	// AdminSecret signs admin cookies. A random secret is generated when empty.
	AdminSecret string `env:"ADMIN_SECRET"`

	SMTP    SMTP   `envPrefix:"SMTP_"`
	ToEmail string `env:"TO_EMAIL"`
}

// SMTP configures the optional email notification for new messages.
type SMTP struct {
	Host string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port string `env:"PORT" envDefault:"587"`
	User string `env:"USER"`
	Pass string `env:"PASS"`
}

// Enabled reports whether credentials are present.
func (s SMTP) Enabled() bool {
	return s.User != "" && s.Pass != ""
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.MessageMaxLen <= 0 {
		return fmt.Errorf("MESSAGE_MAX_LEN must be positive, got %d", c.MessageMaxLen)
	}
	if c.MessageRatePerMin <= 0 {
		return fmt.Errorf("MESSAGE_RATE_PER_MIN must be positive, got %d", c.MessageRatePerMin)
	}
	if c.MockLatency < 0 {
		return fmt.Errorf("MOCK_LATENCY must not be negative, got %s", c.MockLatency)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	return nil
}
