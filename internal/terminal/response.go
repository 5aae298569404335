package terminal

import (
	"fmt"

	"github.com/Zachkp/devfolio/internal/view"
)

// Kind styles a terminal output line.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindMuted   Kind = "muted"
	KindCommand Kind = "command"
)

type Line struct {
	Text string `json:"text"`
	Kind Kind   `json:"kind"`
}

// Response is what one command produces: lines for the terminal and
// optionally a document for the editor panel.
type Response struct {
	Lines []Line
	Tab   *view.Doc
	// Clear asks the client to wipe the terminal before printing Lines.
	Clear bool
}

// Infof starts a response with one info line.
func Infof(format string, args ...any) *Response {
	return new(Response).Info(format, args...)
}

// Errorf starts a response with one error line.
func Errorf(format string, args ...any) *Response {
	return new(Response).Error(format, args...)
}

// Successf starts a response with one success line.
func Successf(format string, args ...any) *Response {
	return new(Response).Success(format, args...)
}

// Open starts a response that shows doc in the editor.
func Open(doc view.Doc, format string, args ...any) *Response {
	r := Infof(format, args...)
	r.Tab = &doc
	return r
}

func (r *Response) add(kind Kind, format string, args []any) *Response {
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	r.Lines = append(r.Lines, Line{Text: text, Kind: kind})
	return r
}

// Print appends text verbatim.
func (r *Response) Print(kind Kind, text string) *Response {
	r.Lines = append(r.Lines, Line{Text: text, Kind: kind})
	return r
}

func (r *Response) Info(format string, args ...any) *Response {
	return r.add(KindInfo, format, args)
}

func (r *Response) Error(format string, args ...any) *Response {
	return r.add(KindError, format, args)
}

func (r *Response) Success(format string, args ...any) *Response {
	return r.add(KindSuccess, format, args)
}

func (r *Response) Muted(format string, args ...any) *Response {
	return r.add(KindMuted, format, args)
}

// Failed reports whether any line is an error.
func (r *Response) Failed() bool {
	for _, l := range r.Lines {
		if l.Kind == KindError {
			return true
		}
	}
	return false
}
