// Package view renders editor documents. Features describe what to show as
// a Doc made of blocks; the renderer turns it into escaped HTML for the
// browser or plain text for a real terminal.
package view

// Doc is the content of one editor tab.
type Doc struct {
	ID       string
	Title    string
	Subtitle string
	Badges   []Badge
	Blocks   []Block
}

// Badge is a short colored label next to the title.
type Badge struct {
	Text string
	Tone Tone
}

// Tone selects the color of badges and step statuses.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneGood    Tone = "good"
	ToneWarn    Tone = "warn"
	ToneBad     Tone = "bad"
	ToneInfo    Tone = "info"
)

// Block is one section of a Doc. Every non-empty part is rendered in
// field order: heading, text, fields, code, table, items, steps.
type Block struct {
	Heading string
	Text    string
	Fields  []Field
	Code    *Code
	Table   *Table
	Items   []Item
	Steps   []Step
}

type Field struct {
	Name  string
	Value string
}

// Code is a source snippet highlighted by language.
type Code struct {
	Language string
	Source   string
}

type Table struct {
	Columns []string
	Rows    [][]string
}

// Item is one card in a listing.
type Item struct {
	Title string
	Meta  string
	Body  string
	Badge *Badge
	Link  string
}

// Step is one line of a progress log, such as a pipeline step or a test case.
type Step struct {
	Label  string
	Detail string
	Status string
	Tone   Tone
}

// ToneFor maps common status words to a tone.
func ToneFor(status string) Tone {
	switch status {
	case "passed", "pass", "ok", "merged", "approved", "installed", "success", "deployed", "easy":
		return ToneGood
	case "failed", "fail", "error", "closed", "changes_requested", "hard":
		return ToneBad
	case "running", "pending", "open", "skipped", "medium":
		return ToneWarn
	default:
		return ToneNeutral
	}
}
