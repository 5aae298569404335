// Package terminal implements the fake shell: it parses typed input, keeps
// per-visitor session state and routes commands to feature vocabularies.
package terminal

import (
	"strings"
	"unicode"
)

// Command is one parsed line of input.
type Command struct {
	Raw  string
	Verb string
	Args []string
}

// Parse splits input on whitespace. The verb is lowercased, args keep their case.
func Parse(input string) Command {
	raw := strings.TrimSpace(input)
	fields := strings.Fields(raw)
	cmd := Command{Raw: raw}
	if len(fields) == 0 {
		return cmd
	}
	cmd.Verb = strings.ToLower(fields[0])
	if len(fields) > 1 {
		cmd.Args = fields[1:]
	}
	return cmd
}

// Arg returns the i-th argument or "".
func (c Command) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// Rest joins all arguments back together with single spaces.
func (c Command) Rest() string {
	return strings.Join(c.Args, " ")
}

// Text is everything typed after the verb, with inner spacing kept as typed.
func (c Command) Text() string {
	i := strings.IndexFunc(c.Raw, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(c.Raw[i:])
}
