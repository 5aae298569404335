package feature

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Zachkp/devfolio/internal/content"
	"github.com/Zachkp/devfolio/internal/terminal"
	"github.com/Zachkp/devfolio/internal/view"
)

// minSHAPrefix is the shortest prefix `show` accepts.
const minSHAPrefix = 4

// Git is a read-only viewer over a mock repository history.
type Git struct {
	repo content.GitHistory
	now  func() time.Time
}

func NewGit(repo content.GitHistory, now func() time.Time) *Git {
	return &Git{repo: repo, now: now}
}

func (g *Git) Name() string    { return "git" }
func (g *Git) Title() string   { return "Git Viewer" }
func (g *Git) Summary() string { return "Browse commits, branches and pull requests" }

func (g *Git) Enter(sess *terminal.Session) *terminal.Response {
	return g.log(context.Background(), sess, terminal.Command{})
}

func (g *Git) Routes() []terminal.Route {
	return []terminal.Route{
		{Verb: "log", Summary: "Show commit history", Handler: g.log},
		{Verb: "show", Usage: "show <sha>", Summary: "Show one commit", MinArgs: 1, Handler: g.show},
		{Verb: "branches", Aliases: []string{"branch"}, Summary: "List branches", Handler: g.branches},
		{Verb: "prs", Summary: "List pull requests", Handler: g.pullRequests},
		{Verb: "pr", Usage: "pr <id>", Summary: "Show a pull request", MinArgs: 1, Handler: g.pullRequest},
		{Verb: "status", Summary: "Show working tree status", Handler: g.status},
	}
}

func (g *Git) age(date string) string {
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return date
	}
	return humanize.RelTime(t, g.now(), "ago", "from now")
}

func (g *Git) log(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	items := make([]view.Item, len(g.repo.Commits))
	for i, c := range g.repo.Commits {
		items[i] = view.Item{
			Title: c.SHA + " " + c.Message,
			Meta:  c.Author + ", " + g.age(c.Date),
			Badge: &view.Badge{Text: c.Branch, Tone: view.ToneInfo},
		}
	}
	doc := view.Doc{
		ID:       "git-log",
		Title:    "git log: " + g.repo.Repo,
		Subtitle: fmt.Sprintf("%d commits", len(g.repo.Commits)),
		Blocks:   []view.Block{{Items: items}},
	}
	return terminal.Open(doc, "Type 'show <sha>' to inspect a commit.")
}

func (g *Git) show(_ context.Context, _ *terminal.Session, cmd terminal.Command) *terminal.Response {
	prefix := strings.ToLower(cmd.Arg(0))
	if len(prefix) < minSHAPrefix {
		return terminal.Errorf("SHA prefix must be at least %d characters.", minSHAPrefix)
	}
	var matches []content.Commit
	for _, c := range g.repo.Commits {
		if strings.HasPrefix(strings.ToLower(c.SHA), prefix) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return terminal.Errorf("Commit '%s' not found. Type 'log' to see commits.", cmd.Arg(0))
	case 1:
	default:
		return terminal.Errorf("SHA prefix '%s' is ambiguous (%d commits).", cmd.Arg(0), len(matches))
	}

	c := matches[0]
	files := make([]view.Item, len(c.Files))
	for i, f := range c.Files {
		files[i] = view.Item{Title: f}
	}
	doc := view.Doc{
		ID:    "commit:" + c.SHA,
		Title: c.Message,
		Blocks: []view.Block{
			{Fields: []view.Field{
				{Name: "commit", Value: c.SHA},
				{Name: "author", Value: c.Author},
				{Name: "date", Value: c.Date + " (" + g.age(c.Date) + ")"},
				{Name: "branch", Value: c.Branch},
			}},
			{Heading: fmt.Sprintf("%d files changed", len(c.Files)), Items: files},
		},
	}
	return terminal.Open(doc, "commit %s", c.SHA)
}

func (g *Git) branches(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	rows := make([][]string, len(g.repo.Branches))
	resp := &terminal.Response{}
	for i, b := range g.repo.Branches {
		marker := ""
		if b.Current {
			marker = "*"
			resp.Info("* %s", b.Name)
		} else {
			resp.Info("  %s", b.Name)
		}
		rows[i] = []string{marker, b.Name, b.Head, strconv.Itoa(b.Ahead), strconv.Itoa(b.Behind)}
	}
	resp.Tab = &view.Doc{
		ID:     "git-branches",
		Title:  "Branches",
		Blocks: []view.Block{{Table: &view.Table{Columns: []string{"", "branch", "head", "ahead", "behind"}, Rows: rows}}},
	}
	return resp
}

func (g *Git) pullRequests(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	items := make([]view.Item, len(g.repo.PullRequests))
	for i, pr := range g.repo.PullRequests {
		items[i] = view.Item{
			Title: fmt.Sprintf("#%d %s", pr.ID, pr.Title),
			Meta:  pr.Source + " → " + pr.Target + " by " + pr.Author,
			Badge: &view.Badge{Text: pr.Status, Tone: view.ToneFor(pr.Status)},
		}
	}
	doc := view.Doc{ID: "git-prs", Title: "Pull requests", Blocks: []view.Block{{Items: items}}}
	return terminal.Open(doc, "Type 'pr <id>' to open one.")
}

func (g *Git) pullRequest(_ context.Context, _ *terminal.Session, cmd terminal.Command) *terminal.Response {
	id := strings.TrimPrefix(cmd.Arg(0), "#")
	pr, ok := find(g.repo.PullRequests, id, func(p content.PullRequest) string { return strconv.Itoa(p.ID) })
	if !ok {
		return terminal.Errorf("Pull request #%s not found. Type 'prs' to list pull requests.", id)
	}

	reviews := make([]view.Step, len(pr.Reviews))
	for i, r := range pr.Reviews {
		reviews[i] = view.Step{Label: r.Reviewer, Detail: r.Comment, Status: strings.ReplaceAll(r.State, "_", " "), Tone: view.ToneFor(r.State)}
	}
	doc := view.Doc{
		ID:       fmt.Sprintf("pr:%d", pr.ID),
		Title:    fmt.Sprintf("#%d %s", pr.ID, pr.Title),
		Subtitle: pr.Author + " wants to merge " + pr.Source + " into " + pr.Target,
		Badges:   []view.Badge{{Text: pr.Status, Tone: view.ToneFor(pr.Status)}},
		Blocks: []view.Block{
			{Heading: "Description", Text: pr.Description},
			{Heading: "Reviews", Steps: reviews},
		},
	}
	return terminal.Open(doc, "Pull request #%d (%s).", pr.ID, pr.Status)
}

func (g *Git) status(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	resp := &terminal.Response{}
	for _, line := range g.repo.Status {
		resp.Print(terminal.KindInfo, line)
	}
	return resp
}
