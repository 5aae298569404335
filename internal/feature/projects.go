package feature

import (
	"context"
	"strings"
	"time"

	"github.com/Zachkp/devfolio/internal/content"
	"github.com/Zachkp/devfolio/internal/terminal"
	"github.com/Zachkp/devfolio/internal/view"
)

// Projects showcases portfolio projects with scripted demo runs.
type Projects struct {
	list    []content.Project
	latency time.Duration
}

func NewProjects(list []content.Project, latency time.Duration) *Projects {
	return &Projects{list: list, latency: latency}
}

func (p *Projects) Name() string    { return "projects" }
func (p *Projects) Title() string   { return "Project Demos" }
func (p *Projects) Summary() string { return "See what I've built and watch demos" }

func (p *Projects) Enter(sess *terminal.Session) *terminal.Response {
	return p.listing(context.Background(), sess, terminal.Command{})
}

func (p *Projects) Routes() []terminal.Route {
	return []terminal.Route{
		{Verb: "list", Aliases: []string{"ls"}, Summary: "List projects", Handler: p.listing},
		{Verb: "show", Usage: "show <id>", Summary: "Show project details", MinArgs: 1, Handler: p.show},
		{Verb: "demo", Usage: "demo <id>", Summary: "Run a project demo", MinArgs: 1, Handler: p.demo},
	}
}

func (p *Projects) listing(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	items := make([]view.Item, len(p.list))
	for i, pr := range p.list {
		items[i] = view.Item{
			Title: pr.ID + ": " + pr.Name,
			Meta:  strings.Join(pr.Stack, ", "),
			Body:  pr.Summary,
			Link:  pr.Repo,
		}
	}
	doc := view.Doc{ID: "projects", Title: "Projects", Blocks: []view.Block{{Items: items}}}
	return terminal.Open(doc, "Type 'show <id>' for details or 'demo <id>' to see it run.")
}

func (p *Projects) lookup(id string) (content.Project, *terminal.Response) {
	pr, ok := find(p.list, id, func(pr content.Project) string { return pr.ID })
	if !ok {
		return pr, terminal.Errorf("Project '%s' not found. Type 'list' to see available projects.", id)
	}
	return pr, nil
}

func (p *Projects) show(_ context.Context, _ *terminal.Session, cmd terminal.Command) *terminal.Response {
	pr, errResp := p.lookup(cmd.Arg(0))
	if errResp != nil {
		return errResp
	}
	badges := make([]view.Badge, len(pr.Stack))
	for i, s := range pr.Stack {
		badges[i] = view.Badge{Text: s, Tone: view.ToneInfo}
	}
	doc := view.Doc{
		ID:     "project:" + pr.ID,
		Title:  pr.Name,
		Badges: badges,
		Blocks: []view.Block{
			{Text: pr.Summary},
			{Fields: []view.Field{{Name: "Repository", Value: pr.Repo}}},
		},
	}
	return terminal.Open(doc, "Showing %s.", pr.Name)
}

func (p *Projects) demo(ctx context.Context, _ *terminal.Session, cmd terminal.Command) *terminal.Response {
	pr, errResp := p.lookup(cmd.Arg(0))
	if errResp != nil {
		return errResp
	}
	if err := wait(ctx, p.latency); err != nil {
		return canceled()
	}

	var session strings.Builder
	for _, step := range pr.Demo {
		session.WriteString("$ " + step.Command + "\n" + step.Output + "\n")
	}
	doc := view.Doc{
		ID:       "demo:" + pr.ID,
		Title:    pr.Name + " demo",
		Subtitle: pr.Summary,
		Blocks:   []view.Block{{Code: &view.Code{Language: "console", Source: session.String()}}},
	}
	resp := terminal.Open(doc, "Starting %s demo...", pr.Name)
	resp.Success("Demo finished (%d steps).", len(pr.Demo))
	return resp
}
