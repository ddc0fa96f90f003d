package markup

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"braces.dev/errtrace"
	"github.com/yuin/goldmark/parser"
)

// Level is the severity of a [Problem].
type Level int

// Severity levels, from least to most severe.
const (
	Info Level = iota + 1
	Warning
	Error
	Severe
)

var _levelNames = map[Level]string{
	Info:    "info",
	Warning: "warning",
	Error:   "error",
	Severe:  "severe",
}

var _ flag.Getter = (*Level)(nil)

// String returns the lower case name of the level.
func (l Level) String() string {
	if name, ok := _levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Get returns the level.
func (l *Level) Get() any { return *l }

// Set parses a level from its name or number.
// Names are case insensitive.
func (l *Level) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for lvl, name := range _levelNames {
		if s == name || s == fmt.Sprint(int(lvl)) {
			*l = lvl
			return nil
		}
	}
	return errtrace.Errorf("unknown level %q: use info, warning, error, or severe", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(b []byte) error {
	return errtrace.Wrap(l.Set(string(b)))
}

// Problem is a diagnostic about a role or directive
// that could not be applied.
//
// Roles and directives may return a *Problem as their error
// to control the level of the reported message.
type Problem struct {
	Level Level

	// Line is the 1-based line in the source
	// where the role or directive starts,
	// or zero if unknown.
	Line int

	Message string
}

// Error returns the message with the line number, if known.
func (p *Problem) Error() string {
	if p.Line > 0 {
		return fmt.Sprintf("line %d: %s", p.Line, p.Message)
	}
	return p.Message
}

var _problemsKey = parser.NewContextKey()

func addProblem(pc parser.Context, p *Problem) {
	ps, _ := pc.Get(_problemsKey).([]*Problem)
	pc.Set(_problemsKey, append(ps, p))
}

// Problems returns the problems recorded while parsing a document
// with the given context, ordered by line.
//
//	pc := parser.NewContext()
//	doc := md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))
//	for _, p := range markup.Problems(pc) {
//		// ...
//	}
func Problems(pc parser.Context) []*Problem {
	ps, _ := pc.Get(_problemsKey).([]*Problem)
	if len(ps) == 0 {
		return nil
	}
	out := make([]*Problem, len(ps))
	copy(out, ps)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Line < out[j].Line
	})
	return out
}
