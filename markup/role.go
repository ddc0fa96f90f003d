package markup

import "github.com/yuin/goldmark/ast"

// Role interprets the text of an inline role.
type Role interface {
	// Apply returns the inline nodes that replace the role
	// in the document.
	//
	// Returning an error reports a problem for the role
	// and renders its source text as problematic.
	// Use a *Problem to pick the severity.
	Apply(*RoleCall) ([]ast.Node, error)
}

// RoleFunc is a Role backed by a function.
type RoleFunc func(*RoleCall) ([]ast.Node, error)

var _ Role = RoleFunc(nil)

// Apply calls the function.
func (f RoleFunc) Apply(call *RoleCall) ([]ast.Node, error) {
	return f(call)
}

// RoleCall holds information about a single use of a role.
type RoleCall struct {
	// Name of the role as written in the source, normalized.
	Name string

	// RawText is the complete role markup, e.g. ":name:`text`".
	RawText string

	// Text is the interpreted text with backslash escapes resolved.
	Text string

	// Line is the 1-based line number of the role in the source.
	Line int

	// Escape reports whether text from the document
	// should be HTML-escaped before it's placed in raw output.
	Escape bool
}

// HTML prepares document text for inclusion in raw HTML output.
// It returns s unchanged unless the extension escapes text.
func (c *RoleCall) HTML(s string) string {
	return escapeIf(c.Escape, s)
}
