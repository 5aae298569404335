package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() Doc {
	return Doc{
		ID:       "sample",
		Title:    "Sample <tab>",
		Subtitle: "subtitle",
		Badges:   []Badge{{Text: "easy", Tone: ToneGood}},
		Blocks: []Block{
			{Heading: "Description", Text: "<script>alert(1)</script>"},
			{Fields: []Field{{Name: "Method", Value: "GET"}}},
			{Code: &Code{Language: "go", Source: "func main() {}\n"}},
			{Table: &Table{Columns: []string{"id", "name"}, Rows: [][]string{{"1", "Ada"}}}},
			{Items: []Item{{Title: "Mailbox", Meta: "Go", Body: "email", Link: "https://example.com"}}},
			{Steps: []Step{{Label: "go test", Status: "passed", Tone: ToneGood}}},
		},
	}
}

func TestRenderEscapesText(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	out, err := r.Render(sampleDoc())
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "Sample &lt;tab&gt;")
	assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, `class="badge badge-good"`)
	assert.Contains(t, html, "<th>name</th>")
	assert.Contains(t, html, `href="https://example.com"`)
	assert.Contains(t, html, `class="chroma"`)
}

func TestRenderIsDeterministic(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	first, err := r.Render(sampleDoc())
	require.NoError(t, err)
	second, err := r.Render(sampleDoc())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHighlightEscapesSource(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	out := string(r.highlight(&Code{Language: "no-such-language", Source: "<b>bold</b>"}))
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "&lt;b&gt;")
	assert.Empty(t, r.highlight(nil))
}

func TestCSS(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	assert.Contains(t, string(r.CSS()), ".chroma")
}

func TestRenderText(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, sampleDoc()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Sample <tab> [easy]"))
	assert.Contains(t, out, "func main() {}")
	assert.Contains(t, out, "Method")
	assert.Contains(t, out, "• Mailbox")
	assert.Contains(t, out, "go test")
}

func TestRenderTextUnsetTone(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	doc := Doc{
		Title:  "Untoned",
		Badges: []Badge{{Text: "plain"}},
		Blocks: []Block{
			{Items: []Item{{Title: "item", Badge: &Badge{Text: "tag", Tone: "mauve"}}}},
			{Steps: []Step{{Label: "lint", Status: "queued"}}},
		},
	}

	var buf bytes.Buffer
	require.NotPanics(t, func() { require.NoError(t, RenderText(&buf, doc)) })
	out := buf.String()
	assert.Contains(t, out, "plain")
	assert.Contains(t, out, "tag")
	assert.Contains(t, out, "lint")
}

func TestToneFor(t *testing.T) {
	assert.Equal(t, ToneGood, ToneFor("merged"))
	assert.Equal(t, ToneBad, ToneFor("failed"))
	assert.Equal(t, ToneWarn, ToneFor("open"))
	assert.Equal(t, ToneNeutral, ToneFor("whatever"))
}
