// Package content holds the literal datasets behind every terminal feature.
// Fixtures are embedded YAML documents decoded once at startup and treated
// as read-only afterwards.
package content

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtures embed.FS

var (
	// ErrDuplicateID is returned when two fixtures in one dataset share an ID.
	ErrDuplicateID = errors.New("duplicate fixture id")
	// ErrMissingID is returned when a fixture has an empty ID.
	ErrMissingID = errors.New("fixture id is required")
)

// Catalog bundles every dataset.
type Catalog struct {
	Challenges []Challenge
	Endpoints  []Endpoint
	Database   Database
	Git        GitHistory
	Build      Build
	IDE        IDE
	Projects   []Project
}

// Challenge is a coding exercise with starter code, a reference solution and
// the test cases shown when the visitor runs `test`.
type Challenge struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Difficulty  string     `yaml:"difficulty"`
	Language    string     `yaml:"language"`
	Description string     `yaml:"description"`
	Starter     string     `yaml:"starter"`
	Solution    string     `yaml:"solution"`
	Hints       []string   `yaml:"hints"`
	Tests       []TestCase `yaml:"tests"`
}

// TestCase is one input/expected pair of a challenge.
type TestCase struct {
	Name     string `yaml:"name"`
	Input    string `yaml:"input"`
	Expected string `yaml:"expected"`
}

// Endpoint documents one route of the portfolio's showcase API.
type Endpoint struct {
	ID          string   `yaml:"id"`
	Method      string   `yaml:"method"`
	Path        string   `yaml:"path"`
	Summary     string   `yaml:"summary"`
	Params      []Param  `yaml:"params"`
	RequestBody string   `yaml:"request_body"`
	Response    Response `yaml:"response"`
}

type Param struct {
	Name        string `yaml:"name"`
	In          string `yaml:"in"`
	Type        string `yaml:"type"`
	Required    bool   `yaml:"required"`
	Description string `yaml:"description"`
}

type Response struct {
	Status int    `yaml:"status"`
	Body   string `yaml:"body"`
}

// Database is the mock schema browsed by the database viewer.
type Database struct {
	Name    string  `yaml:"name"`
	Engine  string  `yaml:"engine"`
	Tables  []Table `yaml:"tables"`
	Queries []Query `yaml:"queries"`
}

type Table struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Columns     []Column   `yaml:"columns"`
	Rows        [][]string `yaml:"rows"`
}

type Column struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Key      string `yaml:"key"`
	Nullable bool   `yaml:"nullable"`
}

// Query is a canned SQL statement with its canned result set.
type Query struct {
	Title   string     `yaml:"title"`
	SQL     string     `yaml:"sql"`
	Columns []string   `yaml:"columns"`
	Rows    [][]string `yaml:"rows"`
}

// GitHistory is the mock repository shown by the git viewer.
type GitHistory struct {
	Repo         string        `yaml:"repo"`
	Commits      []Commit      `yaml:"commits"`
	Branches     []Branch      `yaml:"branches"`
	PullRequests []PullRequest `yaml:"pull_requests"`
	Status       []string      `yaml:"status"`
}

type Commit struct {
	SHA     string   `yaml:"sha"`
	Author  string   `yaml:"author"`
	Message string   `yaml:"message"`
	Date    string   `yaml:"date"`
	Branch  string   `yaml:"branch"`
	Files   []string `yaml:"files"`
}

type Branch struct {
	Name    string `yaml:"name"`
	Head    string `yaml:"head"`
	Ahead   int    `yaml:"ahead"`
	Behind  int    `yaml:"behind"`
	Current bool   `yaml:"current"`
}

type PullRequest struct {
	ID          int      `yaml:"id"`
	Title       string   `yaml:"title"`
	Author      string   `yaml:"author"`
	Status      string   `yaml:"status"`
	Source      string   `yaml:"source"`
	Target      string   `yaml:"target"`
	Description string   `yaml:"description"`
	Reviews     []Review `yaml:"reviews"`
}

type Review struct {
	Reviewer string `yaml:"reviewer"`
	State    string `yaml:"state"`
	Comment  string `yaml:"comment"`
}

// Build is the mock CI/CD setup shown by the build tools.
type Build struct {
	Config       string        `yaml:"config"`
	Stages       []Stage       `yaml:"stages"`
	Tests        []TestSuite   `yaml:"tests"`
	Environments []Environment `yaml:"environments"`
}

type Stage struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

type Step struct {
	Name     string `yaml:"name"`
	Duration string `yaml:"duration"`
	Status   string `yaml:"status"`
}

type TestSuite struct {
	Name     string `yaml:"name"`
	Passed   int    `yaml:"passed"`
	Failed   int    `yaml:"failed"`
	Skipped  int    `yaml:"skipped"`
	Duration string `yaml:"duration"`
}

type Environment struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Version  string `yaml:"version"`
	Approval bool   `yaml:"approval"`
}

// IDE is the set of editor tools: extensions, shortcuts, themes and settings.
type IDE struct {
	Extensions []Extension `yaml:"extensions"`
	Shortcuts  []Shortcut  `yaml:"shortcuts"`
	Themes     []Theme     `yaml:"themes"`
	Settings   []Setting   `yaml:"settings"`
}

type Setting struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

type Extension struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Publisher   string `yaml:"publisher"`
	Description string `yaml:"description"`
	Installed   bool   `yaml:"installed"`
}

type Shortcut struct {
	Keys   string `yaml:"keys"`
	Action string `yaml:"action"`
}

type Theme struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Project is a portfolio project with a scripted demo run.
type Project struct {
	ID      string     `yaml:"id"`
	Name    string     `yaml:"name"`
	Summary string     `yaml:"summary"`
	Stack   []string   `yaml:"stack"`
	Repo    string     `yaml:"repo"`
	Demo    []DemoStep `yaml:"demo"`
}

type DemoStep struct {
	Command string `yaml:"command"`
	Output  string `yaml:"output"`
}

// Load decodes the embedded fixtures.
func Load() (*Catalog, error) {
	var c Catalog
	files := []struct {
		name   string
		target any
	}{
		{"challenges.yaml", &c.Challenges},
		{"api.yaml", &c.Endpoints},
		{"database.yaml", &c.Database},
		{"git.yaml", &c.Git},
		{"build.yaml", &c.Build},
		{"ide.yaml", &c.IDE},
		{"projects.yaml", &c.Projects},
	}
	for _, f := range files {
		raw, err := fixtures.ReadFile("fixtures/" + f.name)
		if err != nil {
			return nil, fmt.Errorf("read fixture %s: %w", f.name, err)
		}
		if err := yaml.Unmarshal(raw, f.target); err != nil {
			return nil, fmt.Errorf("decode fixture %s: %w", f.name, err)
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// MustLoad is Load for callers that cannot proceed without fixtures.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) validate() error {
	check := func(dataset string, ids []string) error {
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			key := strings.ToLower(strings.TrimSpace(id))
			if key == "" {
				return fmt.Errorf("%s: %w", dataset, ErrMissingID)
			}
			if seen[key] {
				return fmt.Errorf("%s %q: %w", dataset, id, ErrDuplicateID)
			}
			seen[key] = true
		}
		return nil
	}

	sets := map[string][]string{
		"challenge": collect(c.Challenges, func(ch Challenge) string { return ch.ID }),
		"endpoint":  collect(c.Endpoints, func(e Endpoint) string { return e.ID }),
		"table":     collect(c.Database.Tables, func(t Table) string { return t.Name }),
		"commit":    collect(c.Git.Commits, func(cm Commit) string { return cm.SHA }),
		"branch":    collect(c.Git.Branches, func(b Branch) string { return b.Name }),
		"pr":        collect(c.Git.PullRequests, func(p PullRequest) string { return fmt.Sprint(p.ID) }),
		"env":       collect(c.Build.Environments, func(e Environment) string { return e.Name }),
		"extension": collect(c.IDE.Extensions, func(e Extension) string { return e.ID }),
		"theme":     collect(c.IDE.Themes, func(t Theme) string { return t.Name }),
		"project":   collect(c.Projects, func(p Project) string { return p.ID }),
	}
	for dataset, ids := range sets {
		if err := check(dataset, ids); err != nil {
			return err
		}
	}
	return nil
}

func collect[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = id(item)
	}
	return out
}
