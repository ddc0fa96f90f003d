package flagvalue

import (
	"flag"
	"strings"

	"braces.dev/errtrace"
)

// Pair is a flag value in the form "name=value".
type Pair struct {
	Name  string
	Value string
}

var _ flag.Getter = (*Pair)(nil)

// Get returns the Pair itself.
func (p *Pair) Get() any { return *p }

// String returns the pair in its "name=value" form.
func (p *Pair) String() string {
	if p == nil || (p.Name == "" && p.Value == "") {
		return ""
	}
	return p.Name + "=" + p.Value
}

// Set parses a "name=value" argument.
// Both sides must be non-empty.
func (p *Pair) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if !ok || name == "" || value == "" {
		return errtrace.Errorf("expected NAME=VALUE, got %q", s)
	}
	p.Name, p.Value = name, value
	return nil
}
