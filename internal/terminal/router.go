package terminal

import (
	"context"
	"fmt"
	"strings"
)

// Handler runs one command against a session.
type Handler func(ctx context.Context, sess *Session, cmd Command) *Response

// Route binds a verb to its handler.
type Route struct {
	Verb    string
	Aliases []string
	// Usage is shown in help and when fewer than MinArgs args are given.
	Usage   string
	Summary string
	MinArgs int
	Handler Handler
}

// Router maps verbs and aliases to routes, preserving registration order
// for help output.
type Router struct {
	routes []Route
	index  map[string]int
}

// NewRouter builds a router. A verb or alias registered twice is a
// programming error and panics.
func NewRouter(routes ...Route) *Router {
	r := &Router{index: make(map[string]int)}
	for _, rt := range routes {
		r.add(rt)
	}
	return r
}

func (r *Router) add(rt Route) {
	if rt.Usage == "" {
		rt.Usage = rt.Verb
	}
	pos := len(r.routes)
	r.routes = append(r.routes, rt)
	for _, name := range append([]string{rt.Verb}, rt.Aliases...) {
		name = strings.ToLower(name)
		if _, dup := r.index[name]; dup {
			panic(fmt.Sprintf("terminal: verb %q registered twice", name))
		}
		r.index[name] = pos
	}
}

// Lookup finds the route for verb or alias.
func (r *Router) Lookup(verb string) (Route, bool) {
	pos, ok := r.index[strings.ToLower(verb)]
	if !ok {
		return Route{}, false
	}
	return r.routes[pos], true
}

// Routes returns routes in registration order.
func (r *Router) Routes() []Route {
	return append([]Route(nil), r.routes...)
}

// Dispatch runs the route matching cmd.Verb. The second result is false
// when no route matches.
func (r *Router) Dispatch(ctx context.Context, sess *Session, cmd Command) (*Response, bool) {
	rt, ok := r.Lookup(cmd.Verb)
	if !ok {
		return nil, false
	}
	if len(cmd.Args) < rt.MinArgs {
		return Errorf("usage: %s", rt.Usage), true
	}
	resp := rt.Handler(ctx, sess, cmd)
	if resp == nil {
		resp = &Response{}
	}
	return resp, true
}

// Help lists the routes as aligned "usage  summary" lines.
func (r *Router) Help() []Line {
	width := 0
	for _, rt := range r.routes {
		width = max(width, len(rt.Usage))
	}
	lines := make([]Line, 0, len(r.routes))
	for _, rt := range r.routes {
		lines = append(lines, Line{
			Text: fmt.Sprintf("  %-*s  %s", width, rt.Usage, rt.Summary),
			Kind: KindInfo,
		})
	}
	return lines
}

// Verbs returns every verb and alias, for completion.
func (r *Router) Verbs() []string {
	out := make([]string, 0, len(r.index))
	for _, rt := range r.routes {
		out = append(out, rt.Verb)
		out = append(out, rt.Aliases...)
	}
	return out
}
