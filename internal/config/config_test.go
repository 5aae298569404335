package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "messages.json", cfg.MessagesFile)
	assert.Equal(t, 1500*time.Millisecond, cfg.MockLatency)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.False(t, cfg.SMTP.Enabled())
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MOCK_LATENCY", "0s")
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("TO_EMAIL", "inbox@example.com")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,172.16.0.0/12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Zero(t, cfg.MockLatency)
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, "inbox@example.com", cfg.ToEmail)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.TrustedProxies)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"unparseable duration", "MOCK_LATENCY", "soon", "parse env:"},
		{"negative latency", "MOCK_LATENCY", "-1s", "MOCK_LATENCY"},
		{"zero max len", "MESSAGE_MAX_LEN", "0", "MESSAGE_MAX_LEN"},
		{"zero rate", "MESSAGE_RATE_PER_MIN", "0", "MESSAGE_RATE_PER_MIN"},
		{"zero history", "HISTORY_LIMIT", "0", "HISTORY_LIMIT"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
