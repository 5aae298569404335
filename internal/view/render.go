package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultStyle is the chroma style used for code blocks.
const DefaultStyle = "monokai"

// Renderer turns Docs into HTML. It is safe for concurrent use.
type Renderer struct {
	tmpl      *template.Template
	style     *chroma.Style
	formatter *chromahtml.Formatter

	cssOnce sync.Once
	css     template.CSS
}

// NewRenderer parses the embedded tab templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		formatter: chromahtml.New(chromahtml.WithClasses(true), chromahtml.TabWidth(4)),
	}
	r.style = styles.Get(DefaultStyle)
	if r.style == nil {
		r.style = styles.Fallback
	}

	tmpl, err := template.New("view").Funcs(template.FuncMap{
		"highlight": r.highlight,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse view templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Render produces the HTML of a whole tab.
func (r *Renderer) Render(doc Doc) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "doc.html", doc); err != nil {
		return "", fmt.Errorf("render %q: %w", doc.ID, err)
	}
	return template.HTML(buf.String()), nil
}

// CSS returns the stylesheet for highlighted code.
func (r *Renderer) CSS() template.CSS {
	r.cssOnce.Do(func() {
		var buf bytes.Buffer
		if err := r.formatter.WriteCSS(&buf, r.style); err == nil {
			r.css = template.CSS(buf.String())
		}
	})
	return r.css
}

// highlight renders code through chroma, which escapes the source itself.
// On any lexer or formatter error it falls back to an escaped <pre>.
func (r *Renderer) highlight(code *Code) template.HTML {
	if code == nil {
		return ""
	}
	source := strings.TrimRight(code.Source, "\n")
	iterator, err := lexerFor(code).Tokenise(nil, source)
	if err == nil {
		var buf bytes.Buffer
		if err = r.formatter.Format(&buf, r.style, iterator); err == nil {
			return template.HTML(buf.String())
		}
	}
	return template.HTML("<pre class=\"chroma\">" + template.HTMLEscapeString(source) + "</pre>")
}

func lexerFor(code *Code) chroma.Lexer {
	lexer := lexers.Get(code.Language)
	if lexer == nil {
		lexer = lexers.Analyse(code.Source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}
