package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/fatih/color"
)

var toneColors = map[Tone]*color.Color{
	ToneGood:    color.New(color.FgGreen),
	ToneWarn:    color.New(color.FgYellow),
	ToneBad:     color.New(color.FgRed, color.Bold),
	ToneInfo:    color.New(color.FgCyan),
	ToneNeutral: color.New(color.FgWhite),
}

var heading = color.New(color.FgMagenta, color.Bold)

// toneColor falls back to neutral for unset or unknown tones.
func toneColor(t Tone) *color.Color {
	if c, ok := toneColors[t]; ok {
		return c
	}
	return toneColors[ToneNeutral]
}

// RenderText writes a Doc for a real terminal.
func RenderText(w io.Writer, doc Doc) error {
	title := heading.Sprint(doc.Title)
	for _, b := range doc.Badges {
		title += " " + toneColor(b.Tone).Sprintf("[%s]", b.Text)
	}
	fmt.Fprintln(w, title)
	if doc.Subtitle != "" {
		fmt.Fprintln(w, doc.Subtitle)
	}

	for _, b := range doc.Blocks {
		fmt.Fprintln(w)
		if err := renderTextBlock(w, b); err != nil {
			return err
		}
	}
	return nil
}

func renderTextBlock(w io.Writer, b Block) error {
	if b.Heading != "" {
		heading.Fprintln(w, b.Heading)
	}
	if b.Text != "" {
		fmt.Fprintln(w, b.Text)
	}
	if len(b.Fields) > 0 {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, f := range b.Fields {
			fmt.Fprintf(tw, "  %s\t%s\n", f.Name, f.Value)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if b.Code != nil {
		if err := highlightTerminal(w, b.Code); err != nil {
			return err
		}
	}
	if b.Table != nil {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(b.Table.Columns, "\t"))
		for _, row := range b.Table.Rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	for _, it := range b.Items {
		line := "• " + it.Title
		if it.Badge != nil {
			line += " " + toneColor(it.Badge.Tone).Sprintf("[%s]", it.Badge.Text)
		}
		if it.Meta != "" {
			line += "  " + it.Meta
		}
		fmt.Fprintln(w, line)
		if it.Body != "" {
			fmt.Fprintln(w, "  "+it.Body)
		}
	}
	for _, s := range b.Steps {
		line := fmt.Sprintf("  %s %s", toneColor(s.Tone).Sprintf("%-8s", s.Status), s.Label)
		if s.Detail != "" {
			line += "  " + s.Detail
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func highlightTerminal(w io.Writer, code *Code) error {
	source := strings.TrimRight(code.Source, "\n")
	if color.NoColor {
		_, err := fmt.Fprintln(w, source)
		return err
	}
	iterator, err := lexerFor(code).Tokenise(nil, source)
	if err != nil {
		_, err = fmt.Fprintln(w, source)
		return err
	}
	style := styles.Get(DefaultStyle)
	if err := formatters.Get("terminal256").Format(w, style, iterator); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}
