package feature

import (
	"context"
	"fmt"

	"github.com/Zachkp/devfolio/internal/content"
	"github.com/Zachkp/devfolio/internal/terminal"
	"github.com/Zachkp/devfolio/internal/view"
)

// Challenges is the coding challenge runner.
type Challenges struct {
	list []content.Challenge
	eval Evaluator
}

func NewChallenges(list []content.Challenge, eval Evaluator) *Challenges {
	return &Challenges{list: list, eval: eval}
}

func (c *Challenges) Name() string    { return "challenges" }
func (c *Challenges) Title() string   { return "Coding Challenges" }
func (c *Challenges) Summary() string { return "Solve coding problems in the editor" }

func (c *Challenges) Enter(sess *terminal.Session) *terminal.Response {
	return c.listing(context.Background(), sess, terminal.Command{})
}

func (c *Challenges) Routes() []terminal.Route {
	return []terminal.Route{
		{Verb: "list", Aliases: []string{"ls"}, Summary: "List all challenges", Handler: c.listing},
		{Verb: "show", Usage: "show <id>", Summary: "Read a challenge without starting it", MinArgs: 1, Handler: c.show},
		{Verb: "select", Usage: "select <id>", Summary: "Start a challenge in the editor", MinArgs: 1, Handler: c.selectChallenge},
		{Verb: "test", Aliases: []string{"run"}, Summary: "Run the tests against the editor code", Handler: c.test},
		{Verb: "hint", Summary: "Reveal the next hint", Handler: c.hint},
		{Verb: "solution", Summary: "Load the reference solution", Handler: c.solution},
		{Verb: "reset", Summary: "Restore the starter code", Handler: c.reset},
	}
}

func (c *Challenges) listing(context.Context, *terminal.Session, terminal.Command) *terminal.Response {
	items := make([]view.Item, len(c.list))
	for i, ch := range c.list {
		items[i] = view.Item{
			Title: ch.ID + ": " + ch.Title,
			Meta:  ch.Language,
			Body:  firstLine(ch.Description),
			Badge: &view.Badge{Text: ch.Difficulty, Tone: view.ToneFor(ch.Difficulty)},
		}
	}
	doc := view.Doc{
		ID:       "challenges",
		Title:    "Coding Challenges",
		Subtitle: fmt.Sprintf("%d challenges available", len(c.list)),
		Blocks:   []view.Block{{Items: items}},
	}
	return terminal.Open(doc, "Type 'select <id>' to start a challenge.")
}

func (c *Challenges) lookup(id string) (content.Challenge, bool) {
	return find(c.list, id, func(ch content.Challenge) string { return ch.ID })
}

func notFoundChallenge(id string) *terminal.Response {
	return terminal.Errorf("Challenge '%s' not found. Type 'list' to see available challenges.", id)
}

func (c *Challenges) show(_ context.Context, _ *terminal.Session, cmd terminal.Command) *terminal.Response {
	ch, ok := c.lookup(cmd.Arg(0))
	if !ok {
		return notFoundChallenge(cmd.Arg(0))
	}
	return terminal.Open(c.detailDoc(ch, ch.Starter, "Starter code"), "Showing %s. Type 'select %s' to start it.", ch.Title, ch.ID)
}

func (c *Challenges) selectChallenge(_ context.Context, sess *terminal.Session, cmd terminal.Command) *terminal.Response {
	ch, ok := c.lookup(cmd.Arg(0))
	if !ok {
		return notFoundChallenge(cmd.Arg(0))
	}
	sess.Challenge = terminal.ChallengeState{Selected: ch.ID}
	resp := terminal.Open(c.editorDoc(ch, ch.Starter), "Selected challenge: %s (%s).", ch.Title, ch.Difficulty)
	resp.Muted("Type 'test' to run the tests, 'hint' for help or 'solution' to give up.")
	return resp
}

// selected returns the session's challenge, or a response to send instead.
func (c *Challenges) selected(sess *terminal.Session) (content.Challenge, *terminal.Response) {
	if sess.Challenge.Selected != "" {
		if ch, ok := c.lookup(sess.Challenge.Selected); ok {
			return ch, nil
		}
		sess.Challenge = terminal.ChallengeState{}
	}
	return content.Challenge{}, terminal.Errorf("No challenge selected. Use 'select <id>' first.")
}

func (c *Challenges) source(sess *terminal.Session, ch content.Challenge) string {
	if sess.Challenge.SolutionLoaded {
		return ch.Solution
	}
	return ch.Starter
}

func (c *Challenges) test(ctx context.Context, sess *terminal.Session, _ terminal.Command) *terminal.Response {
	ch, errResp := c.selected(sess)
	if errResp != nil {
		return errResp
	}

	results := c.eval.Evaluate(ctx, ch, c.source(sess, ch))
	steps := make([]view.Step, len(results))
	passed := 0
	for i, r := range results {
		status := "failed"
		if r.Passed {
			status = "passed"
			passed++
		}
		steps[i] = view.Step{
			Label:  r.Case.Name + " (" + r.Case.Input + ")",
			Detail: r.Detail,
			Status: status,
			Tone:   view.ToneFor(status),
		}
	}

	doc := view.Doc{
		ID:       "challenge-tests:" + ch.ID,
		Title:    ch.Title + ": test results",
		Subtitle: fmt.Sprintf("%d/%d passed", passed, len(results)),
		Blocks:   []view.Block{{Steps: steps}},
	}
	resp := terminal.Open(doc, "Running %d tests for %s...", len(results), ch.Title)
	if passed == len(results) {
		resp.Success("All %d tests passed!", len(results))
	} else {
		resp.Error("%d/%d tests passed. Type 'hint' for a nudge.", passed, len(results))
	}
	return resp
}

func (c *Challenges) hint(_ context.Context, sess *terminal.Session, _ terminal.Command) *terminal.Response {
	ch, errResp := c.selected(sess)
	if errResp != nil {
		return errResp
	}
	if sess.Challenge.HintsShown >= len(ch.Hints) {
		return new(terminal.Response).Muted("No more hints available.")
	}
	n := sess.Challenge.HintsShown
	sess.Challenge.HintsShown++
	return terminal.Infof("Hint %d/%d: %s", n+1, len(ch.Hints), ch.Hints[n])
}

func (c *Challenges) solution(_ context.Context, sess *terminal.Session, _ terminal.Command) *terminal.Response {
	ch, errResp := c.selected(sess)
	if errResp != nil {
		return errResp
	}
	sess.Challenge.SolutionLoaded = true
	resp := terminal.Open(c.editorDoc(ch, ch.Solution), "Solution loaded into the editor.")
	resp.Muted("Type 'test' to run it or 'reset' to start over.")
	return resp
}

func (c *Challenges) reset(_ context.Context, sess *terminal.Session, _ terminal.Command) *terminal.Response {
	ch, errResp := c.selected(sess)
	if errResp != nil {
		return errResp
	}
	sess.Challenge = terminal.ChallengeState{Selected: ch.ID}
	return terminal.Open(c.editorDoc(ch, ch.Starter), "Challenge reset to starter code.")
}

func (c *Challenges) editorDoc(ch content.Challenge, source string) view.Doc {
	doc := c.detailDoc(ch, source, "Editor")
	doc.ID = "challenge-editor:" + ch.ID
	return doc
}

func (c *Challenges) detailDoc(ch content.Challenge, source, codeHeading string) view.Doc {
	rows := make([][]string, len(ch.Tests))
	for i, tc := range ch.Tests {
		rows[i] = []string{tc.Name, tc.Input, tc.Expected}
	}
	return view.Doc{
		ID:    "challenge:" + ch.ID,
		Title: ch.Title,
		Badges: []view.Badge{
			{Text: ch.Difficulty, Tone: view.ToneFor(ch.Difficulty)},
			{Text: ch.Language, Tone: view.ToneInfo},
		},
		Blocks: []view.Block{
			{Heading: "Description", Text: ch.Description},
			{Heading: "Examples", Table: &view.Table{Columns: []string{"case", "input", "expected"}, Rows: rows}},
			{Heading: codeHeading, Code: &view.Code{Language: ch.Language, Source: source}},
		},
	}
}
