package terminal

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"
)

// Feature is one self-contained tool simulation with its own vocabulary.
type Feature interface {
	// Name is the identifier used with `start`.
	Name() string
	Title() string
	Summary() string
	Routes() []Route
	// Enter runs when the feature becomes active.
	Enter(sess *Session) *Response
}

// Terminal routes input either to the base shell or, while a feature is
// active, to that feature's router.
type Terminal struct {
	shell        *Router
	features     []Feature
	byName       map[string]Feature
	routers      map[string]*Router
	historyLimit int
	now          func() time.Time
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithHistoryLimit bounds the per-session command history.
func WithHistoryLimit(n int) Option {
	return func(t *Terminal) { t.historyLimit = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Terminal) { t.now = now }
}

// New builds a terminal from the base shell vocabulary and the features.
func New(shell []Route, features []Feature, opts ...Option) *Terminal {
	t := &Terminal{
		features:     features,
		byName:       make(map[string]Feature, len(features)),
		routers:      make(map[string]*Router, len(features)),
		historyLimit: 50,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	for _, f := range features {
		t.byName[f.Name()] = f
		t.routers[f.Name()] = NewRouter(f.Routes()...)
	}
	t.shell = NewRouter(append(t.coreRoutes(), shell...)...)
	return t
}

func (t *Terminal) coreRoutes() []Route {
	return []Route{
		{Verb: "help", Aliases: []string{"?"}, Summary: "Show available commands", Handler: t.help},
		{Verb: "features", Aliases: []string{"ls"}, Summary: "List the tools you can start", Handler: t.listFeatures},
		{Verb: "start", Usage: "start <feature>", Summary: "Open a tool, e.g. 'start challenges'", MinArgs: 1, Handler: t.start},
		{Verb: "history", Summary: "Show recent commands", Handler: history},
		{Verb: "clear", Aliases: []string{"cls"}, Summary: "Clear the terminal", Handler: clearScreen},
		{Verb: "exit", Summary: "Leave the active tool", Handler: func(context.Context, *Session, Command) *Response {
			return new(Response).Muted("Nothing to exit. Type 'features' to explore.")
		}},
	}
}

// Features returns the registered features in order.
func (t *Terminal) Features() []Feature {
	return append([]Feature(nil), t.features...)
}

// Execute parses and runs one line of input.
func (t *Terminal) Execute(ctx context.Context, sess *Session, input string) *Response {
	cmd := Parse(input)
	if cmd.Verb == "" {
		return &Response{}
	}
	sess.Remember(cmd.Raw, t.historyLimit)
	sess.UpdatedAt = t.now()

	resp := t.dispatch(ctx, sess, cmd)
	if resp.Tab != nil {
		sess.LastTab = resp.Tab.ID
	}
	return resp
}

func (t *Terminal) dispatch(ctx context.Context, sess *Session, cmd Command) *Response {
	if sess.Feature != "" {
		f, ok := t.byName[sess.Feature]
		if !ok {
			sess.Feature = ""
			return t.dispatch(ctx, sess, cmd)
		}
		return t.dispatchFeature(ctx, sess, f, cmd)
	}

	if resp, ok := t.shell.Dispatch(ctx, sess, cmd); ok {
		return resp
	}
	if f, ok := t.byName[cmd.Verb]; ok {
		return t.enter(sess, f)
	}
	return notFound(cmd.Verb)
}

func (t *Terminal) dispatchFeature(ctx context.Context, sess *Session, f Feature, cmd Command) *Response {
	if cmd.Verb == "exit" || cmd.Verb == "quit" {
		sess.Feature = ""
		return Successf("Exited %s.", f.Title())
	}
	if resp, ok := t.routers[f.Name()].Dispatch(ctx, sess, cmd); ok {
		return resp
	}
	switch cmd.Verb {
	case "help", "?":
		return t.featureHelp(f)
	case "clear", "cls":
		return clearScreen(ctx, sess, cmd)
	case "history":
		return history(ctx, sess, cmd)
	}
	return notFound(cmd.Verb)
}

func notFound(verb string) *Response {
	return Errorf("command not found: %s. Type 'help' for available commands.", verb)
}

func (t *Terminal) enter(sess *Session, f Feature) *Response {
	sess.Feature = f.Name()
	resp := f.Enter(sess)
	if resp == nil {
		resp = &Response{}
	}
	resp.Lines = append([]Line{{Text: "Started " + f.Title() + ". Type 'help' for commands, 'exit' to leave.", Kind: KindSuccess}}, resp.Lines...)
	return resp
}

// Prompt is the prompt shown before the cursor.
func (t *Terminal) Prompt(sess *Session) string {
	if sess.Feature == "" {
		return "visitor@devfolio:~$"
	}
	return "visitor@devfolio:~/" + sess.Feature + "$"
}

// Complete returns the verbs available in the session's mode that start
// with prefix, sorted.
func (t *Terminal) Complete(sess *Session, prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var verbs []string
	if r, ok := t.routers[sess.Feature]; ok {
		verbs = append(r.Verbs(), "help", "clear", "history", "exit")
	} else {
		verbs = t.shell.Verbs()
		for _, f := range t.features {
			verbs = append(verbs, f.Name())
		}
	}

	var out []string
	for _, v := range verbs {
		if strings.HasPrefix(v, prefix) && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func (t *Terminal) help(context.Context, *Session, Command) *Response {
	resp := Infof("Available commands:")
	resp.Lines = append(resp.Lines, t.shell.Help()...)
	resp.Muted("Type 'features' to see the tools, then 'start <feature>'.")
	return resp
}

func (t *Terminal) featureHelp(f Feature) *Response {
	r := t.routers[f.Name()]
	resp := Infof("%s commands:", f.Title())
	resp.Lines = append(resp.Lines, r.Help()...)
	resp.Muted("Type 'exit' to return to the main terminal.")
	return resp
}

func (t *Terminal) listFeatures(context.Context, *Session, Command) *Response {
	resp := Infof("Available tools:")
	width := 0
	for _, f := range t.features {
		width = max(width, len(f.Name()))
	}
	for _, f := range t.features {
		resp.Info("  %-*s  %s", width, f.Name(), f.Summary())
	}
	resp.Muted("Type 'start <feature>' or just the feature name.")
	return resp
}

func (t *Terminal) start(_ context.Context, sess *Session, cmd Command) *Response {
	name := strings.ToLower(cmd.Arg(0))
	f, ok := t.byName[name]
	if !ok {
		return Errorf("Unknown feature '%s'. Type 'features' to list them.", cmd.Arg(0))
	}
	return t.enter(sess, f)
}

func history(_ context.Context, sess *Session, _ Command) *Response {
	if len(sess.History) == 0 {
		return new(Response).Muted("No commands yet.")
	}
	resp := &Response{}
	for i, h := range sess.History {
		resp.Info("%4d  %s", i+1, h)
	}
	return resp
}

func clearScreen(context.Context, *Session, Command) *Response {
	return &Response{Clear: true}
}
