package feature

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Zachkp/devfolio/internal/content"
	"github.com/Zachkp/devfolio/internal/terminal"
	"github.com/Zachkp/devfolio/internal/view"
)

// APIDocs browses and "calls" the showcase API. Calls return canned
// responses after the configured latency.
type APIDocs struct {
	endpoints []content.Endpoint
	latency   time.Duration
}

func NewAPIDocs(endpoints []content.Endpoint, latency time.Duration) *APIDocs {
	return &APIDocs{endpoints: endpoints, latency: latency}
}

func (a *APIDocs) Name() string    { return "api" }
func (a *APIDocs) Title() string   { return "API Explorer" }
func (a *APIDocs) Summary() string { return "Browse and try the REST API docs" }

func (a *APIDocs) Enter(sess *terminal.Session) *terminal.Response {
	return a.listing(context.Background(), sess, terminal.Command{})
}

func (a *APIDocs) Routes() []terminal.Route {
	return []terminal.Route{
		{Verb: "list", Aliases: []string{"ls", "endpoints"}, Summary: "List endpoints", Handler: a.listing},
		{Verb: "show", Usage: "show <id>", Summary: "Show endpoint documentation", MinArgs: 1, Handler: a.show},
		{Verb: "try", Aliases: []string{"test", "call"}, Usage: "try <id>", Summary: "Send a sample request", MinArgs: 1, Handler: a.try},
	}
}

func (a *APIDocs) listing(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	rows := make([][]string, len(a.endpoints))
	for i, e := range a.endpoints {
		rows[i] = []string{e.ID, e.Method, e.Path, e.Summary}
	}
	doc := view.Doc{
		ID:       "api",
		Title:    "API Endpoints",
		Subtitle: fmt.Sprintf("%d endpoints", len(a.endpoints)),
		Blocks:   []view.Block{{Table: &view.Table{Columns: []string{"id", "method", "path", "summary"}, Rows: rows}}},
	}
	return terminal.Open(doc, "Type 'show <id>' for details or 'try <id>' to send a request.")
}

func (a *APIDocs) lookup(id string) (content.Endpoint, *terminal.Response) {
	e, ok := find(a.endpoints, id, func(e content.Endpoint) string { return e.ID })
	if !ok {
		return e, terminal.Errorf("Endpoint '%s' not found. Type 'list' to see available endpoints.", id)
	}
	return e, nil
}

func (a *APIDocs) show(_ context.Context, _ *terminal.Session, cmd terminal.Command) *terminal.Response {
	e, errResp := a.lookup(cmd.Arg(0))
	if errResp != nil {
		return errResp
	}

	blocks := []view.Block{{Text: e.Summary}}
	if len(e.Params) > 0 {
		rows := make([][]string, len(e.Params))
		for i, p := range e.Params {
			required := "no"
			if p.Required {
				required = "yes"
			}
			rows[i] = []string{p.Name, p.In, p.Type, required, p.Description}
		}
		blocks = append(blocks, view.Block{
			Heading: "Parameters",
			Table:   &view.Table{Columns: []string{"name", "in", "type", "required", "description"}, Rows: rows},
		})
	}
	if e.RequestBody != "" {
		blocks = append(blocks, view.Block{Heading: "Request body", Code: &view.Code{Language: "json", Source: e.RequestBody}})
	}
	blocks = append(blocks, view.Block{
		Heading: fmt.Sprintf("Response %d %s", e.Response.Status, http.StatusText(e.Response.Status)),
		Code:    &view.Code{Language: "json", Source: e.Response.Body},
	})

	doc := view.Doc{
		ID:     "api:" + e.ID,
		Title:  e.Method + " " + e.Path,
		Badges: []view.Badge{{Text: e.Method, Tone: methodTone(e.Method)}},
		Blocks: blocks,
	}
	return terminal.Open(doc, "Showing %s %s.", e.Method, e.Path)
}

func (a *APIDocs) try(ctx context.Context, _ *terminal.Session, cmd terminal.Command) *terminal.Response {
	e, errResp := a.lookup(cmd.Arg(0))
	if errResp != nil {
		return errResp
	}
	if err := wait(ctx, a.latency); err != nil {
		return canceled()
	}

	request := e.Method + " " + e.Path + " HTTP/1.1\nHost: api.zach.dev\nAccept: application/json"
	if e.RequestBody != "" {
		request += "\nContent-Type: application/json\n\n" + strings.TrimSpace(e.RequestBody)
	}
	status := fmt.Sprintf("%d %s", e.Response.Status, http.StatusText(e.Response.Status))
	doc := view.Doc{
		ID:     "api-response:" + e.ID,
		Title:  "Response: " + e.Method + " " + e.Path,
		Badges: []view.Badge{{Text: status, Tone: statusTone(e.Response.Status)}},
		Blocks: []view.Block{
			{Heading: "Request", Code: &view.Code{Language: "http", Source: request}},
			{Heading: "Response", Fields: []view.Field{
				{Name: "Status", Value: status},
				{Name: "Time", Value: a.latency.String()},
			}, Code: &view.Code{Language: "json", Source: e.Response.Body}},
		},
	}
	resp := terminal.Open(doc, "→ %s %s", e.Method, e.Path)
	if e.Response.Status < 400 {
		resp.Success("← %s (%s)", status, a.latency)
	} else {
		resp.Error("← %s (%s)", status, a.latency)
	}
	return resp
}

func methodTone(method string) view.Tone {
	switch strings.ToUpper(method) {
	case "GET":
		return view.ToneGood
	case "POST", "PUT", "PATCH":
		return view.ToneInfo
	case "DELETE":
		return view.ToneBad
	}
	return view.ToneNeutral
}

func statusTone(status int) view.Tone {
	switch {
	case status >= 500:
		return view.ToneBad
	case status >= 400:
		return view.ToneWarn
	default:
		return view.ToneGood
	}
}
