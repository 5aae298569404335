// Package feature holds the terminal's tool simulations. Each feature pairs
// a fixed dataset with a small vocabulary of verbs; nothing is executed for
// real.
package feature

import (
	"context"
	"strings"
	"time"

	"github.com/Zachkp/devfolio/internal/content"
	"github.com/Zachkp/devfolio/internal/store"
	"github.com/Zachkp/devfolio/internal/terminal"
)

// MessageSink receives messages typed with `message <text>`.
type MessageSink interface {
	Append(ctx context.Context, text, ip string) (store.Message, error)
}

// Deps are the collaborators shared by all features.
type Deps struct {
	Catalog  *content.Catalog
	Messages MessageSink
	// Evaluator decides challenge test outcomes. Defaults to ReferenceEvaluator.
	Evaluator Evaluator
	// Latency delays the simulated network calls. Zero in tests.
	Latency time.Duration
	Now     func() time.Time
}

// Build returns the base shell vocabulary and every feature, in menu order.
func Build(d Deps) ([]terminal.Route, []terminal.Feature) {
	if d.Evaluator == nil {
		d.Evaluator = ReferenceEvaluator{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	c := d.Catalog
	features := []terminal.Feature{
		NewChallenges(c.Challenges, d.Evaluator),
		NewAPIDocs(c.Endpoints, d.Latency),
		NewDatabase(c.Database),
		NewGit(c.Git, d.Now),
		NewBuildTools(c.Build, d.Latency),
		NewIDE(c.IDE),
		NewProjects(c.Projects, d.Latency),
	}
	return NewShell(c.IDE.Themes, d.Messages, d.Now).Routes(), features
}

// Names lists the feature names without building them.
func Names() []string {
	return []string{"challenges", "api", "database", "git", "build", "ide", "projects"}
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func canceled() *terminal.Response {
	return terminal.Errorf("Request canceled.")
}

// find looks an item up by case-insensitive key.
func find[T any](items []T, key string, id func(T) string) (T, bool) {
	for _, it := range items {
		if strings.EqualFold(id(it), key) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
