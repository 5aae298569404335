package feature

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/Zachkp/devfolio/internal/content"
	"github.com/Zachkp/devfolio/internal/store"
	"github.com/Zachkp/devfolio/internal/terminal"
	"github.com/Zachkp/devfolio/internal/view"
)

// Shell is the base vocabulary available when no tool is active.
type Shell struct {
	themes   []content.Theme
	messages MessageSink
	now      func() time.Time
}

func NewShell(themes []content.Theme, messages MessageSink, now func() time.Time) *Shell {
	return &Shell{themes: themes, messages: messages, now: now}
}

func (s *Shell) Routes() []terminal.Route {
	return []terminal.Route{
		{Verb: "about", Summary: "Who I am", Handler: s.about},
		{Verb: "skills", Summary: "What I work with", Handler: s.skills},
		{Verb: "contact", Summary: "How to reach me", Handler: s.contact},
		{Verb: "message", Usage: "message <text>", Summary: "Leave me a message", MinArgs: 1, Handler: s.message},
		{Verb: "theme", Usage: "theme [name]", Summary: "Show or switch the color theme", Handler: s.theme},
		{Verb: "whoami", Summary: "Print the current user", Handler: s.whoami},
		{Verb: "date", Summary: "Print the date", Handler: s.date},
	}
}

func (s *Shell) about(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	blocks := []view.Block{{Text: content.AboutMe}}
	blocks = append(blocks, view.Block{Heading: "Experience", Items: positions(content.Experience)})
	blocks = append(blocks, view.Block{Heading: "Education", Items: positions(content.Education)})
	doc := view.Doc{
		ID:       "about",
		Title:    content.Owner,
		Subtitle: content.Role,
		Blocks:   blocks,
	}
	return terminal.Open(doc, "Hi, I'm %s, a %s.", content.Owner, strings.ToLower(content.Role))
}

func positions(list []content.Position) []view.Item {
	items := make([]view.Item, len(list))
	for i, p := range list {
		items[i] = view.Item{
			Title: p.Title + " @ " + p.Company,
			Meta:  p.Start + " - " + p.End,
			Body:  strings.Join(p.Bullets, " "),
		}
	}
	return items
}

func (s *Shell) skills(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	fields := make([]view.Field, 0, len(content.SkillOrder))
	for _, group := range content.SkillOrder {
		fields = append(fields, view.Field{Name: group, Value: strings.Join(content.Skills[group], ", ")})
	}
	doc := view.Doc{ID: "skills", Title: "Skills", Blocks: []view.Block{{Fields: fields}}}
	return terminal.Open(doc, "Opened skills.")
}

func (s *Shell) contact(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	resp := &terminal.Response{}
	for _, l := range content.Contact {
		resp.Info("%-8s %s", l.Label, l.URL)
	}
	resp.Muted("Or type 'message <text>' to leave me a note right here.")
	return resp
}

func (s *Shell) message(ctx context.Context, _ *terminal.Session, cmd terminal.Command) *terminal.Response {
	if s.messages == nil {
		return terminal.Errorf("Messaging is not available right now.")
	}
	_, err := s.messages.Append(ctx, cmd.Text(), terminal.ClientIP(ctx))
	switch {
	case err == nil:
		return terminal.Successf("Message sent. Thanks for reaching out!")
	case errors.Is(err, store.ErrEmptyMessage), errors.Is(err, store.ErrMessageTooLong):
		return terminal.Errorf("Message not sent: %v.", err)
	default:
		log.Printf("Error saving terminal message: %v", err)
		return terminal.Errorf("Failed to send message. Please try again later.")
	}
}

func (s *Shell) theme(_ context.Context, sess *terminal.Session, cmd terminal.Command) *terminal.Response {
	if len(cmd.Args) == 0 {
		return themeList(s.themes, sess)
	}
	return setTheme(s.themes, sess, cmd.Arg(0))
}

func (s *Shell) whoami(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	return terminal.Infof("visitor")
}

func (s *Shell) date(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	return terminal.Infof("%s", s.now().Format(time.RFC1123))
}
