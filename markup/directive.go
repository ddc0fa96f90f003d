package markup

import (
	"fmt"
	"strconv"
	"strings"

	"braces.dev/errtrace"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
)

// Directive interprets an explicit markup block.
type Directive interface {
	// Spec describes the arguments, options, and content
	// accepted by the directive.
	// Blocks that don't match it are reported
	// without calling Run.
	Spec() DirectiveSpec

	// Run returns the nodes that replace the directive
	// in the document.
	//
	// Returning an error reports a problem
	// and replaces the directive with a system message.
	// Use a *Problem to pick the severity.
	Run(*DirectiveCall) ([]ast.Node, error)
}

// DirectiveSpec describes the shape of a directive block.
type DirectiveSpec struct {
	// RequiredArguments is the number of required arguments.
	RequiredArguments int

	// OptionalArguments is the number of optional arguments
	// that may follow the required ones.
	OptionalArguments int

	// FinalArgumentWhitespace allows the final argument
	// to contain whitespace.
	FinalArgumentWhitespace bool

	// Options maps supported option names to their converters.
	Options map[string]OptionConverter

	// HasContent reports whether the directive accepts content.
	HasContent bool
}

type directiveFunc struct {
	spec DirectiveSpec
	run  func(*DirectiveCall) ([]ast.Node, error)
}

// DirectiveFunc builds a Directive from a spec and a function.
func DirectiveFunc(spec DirectiveSpec, run func(*DirectiveCall) ([]ast.Node, error)) Directive {
	return &directiveFunc{spec: spec, run: run}
}

func (d *directiveFunc) Spec() DirectiveSpec { return d.spec }

func (d *directiveFunc) Run(call *DirectiveCall) ([]ast.Node, error) {
	return d.run(call)
}

// DirectiveCall holds information about a single use of a directive.
type DirectiveCall struct {
	// Name of the directive, normalized.
	Name string

	// Arguments to the directive, split per its spec.
	Arguments []string

	// Options holds converted option values by name.
	Options map[string]any

	// Content lines with the common indentation removed.
	// Leading and trailing blank lines are dropped.
	Content []string

	// Line is the 1-based line number of the directive in the source.
	Line int

	// Escape reports whether text from the document
	// should be HTML-escaped before it's placed in raw output.
	Escape bool
}

// HTML prepares document text for inclusion in raw HTML output.
// It returns s unchanged unless the extension escapes text.
func (c *DirectiveCall) HTML(s string) string {
	return escapeIf(c.Escape, s)
}

// AssertHasContent reports an error if the directive has no content.
func (c *DirectiveCall) AssertHasContent() error {
	if len(c.Content) > 0 {
		return nil
	}
	return errtrace.Wrap(&Problem{
		Level:   Error,
		Line:    c.Line,
		Message: fmt.Sprintf("Content block expected for the %q directive; none found.", c.Name),
	})
}

func escapeIf(escape bool, s string) string {
	if !escape {
		return s
	}
	return string(util.EscapeHTML([]byte(s)))
}

// OptionConverter validates and converts the value of a directive option.
// value is the option text with surrounding whitespace removed.
type OptionConverter func(value string) (any, error)

// Flag is an option that doesn't accept a value.
// Its converted value is nil.
func Flag(value string) (any, error) {
	if value != "" {
		return nil, errtrace.Errorf("no argument is allowed; %q supplied", value)
	}
	return nil, nil
}

// Unchanged accepts any value, including none, as a string.
func Unchanged(value string) (any, error) {
	return value, nil
}

// UnchangedRequired accepts any non-empty value as a string.
func UnchangedRequired(value string) (any, error) {
	if value == "" {
		return nil, errtrace.New("argument required but none supplied")
	}
	return value, nil
}

// Class accepts a whitespace-separated list of class names.
// Its converted value is a []string of lower case names.
func Class(value string) (any, error) {
	if value == "" {
		return nil, errtrace.New("argument required but none supplied")
	}
	var classes []string
	for _, name := range strings.Fields(value) {
		classes = append(classes, strings.ToLower(name))
	}
	return classes, nil
}

// NonNegativeInt accepts an integer that is zero or more.
// Its converted value is an int.
func NonNegativeInt(value string) (any, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, errtrace.Errorf("invalid integer: %q", value)
	}
	if n < 0 {
		return nil, errtrace.New("negative value; must be positive or zero")
	}
	return n, nil
}
