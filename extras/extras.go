// Package extras provides a few roles and a directive
// for styled HTML spans.
//
// Importing this package registers them with [markup.Default]:
//
//	import _ "go.abhg.dev/rolemark/extras"
//
// The following roles are available:
//
//	:centered:`text`  <span class="centered">text</span>
//	:emphasis:`text`  <span class="emphasis">text</span>
//	:subtitle:`text`  <span class="subtitle">text</span><br/>
//	:br:`text`        text<br/>
//
// The centered directive joins its content lines with line breaks
// inside a centered span.
//
//	.. centered::
//
//	   first line
//	   second line
package extras

import (
	"fmt"
	"strings"

	"braces.dev/errtrace"
	"github.com/yuin/goldmark/ast"
	"go.abhg.dev/rolemark/markup"
)

// Names under which the roles and directives are registered.
const (
	CenteredName = "centered"
	EmphasisName = "emphasis"
	SubtitleName = "subtitle"
	BreakName    = "br"
)

var (
	// CenteredRole wraps its text in a span with the "centered" class.
	CenteredRole = StyleRole("centered")

	// EmphasisRole wraps its text in a span with the "emphasis" class.
	EmphasisRole = StyleRole("emphasis")

	// SubtitleRole wraps its text in a span with the "subtitle" class
	// and follows it with a line break.
	SubtitleRole markup.Role = markup.RoleFunc(func(call *markup.RoleCall) ([]ast.Node, error) {
		return rawHTML(`<span class="subtitle">%s</span><br/>`, call.HTML(call.Text)), nil
	})

	// BreakRole follows its text with a line break.
	BreakRole markup.Role = markup.RoleFunc(func(call *markup.RoleCall) ([]ast.Node, error) {
		return rawHTML(`%s<br/>`, call.HTML(call.Text)), nil
	})

	// CenteredDirective renders its content lines
	// separated by line breaks inside a span with the "centered" class.
	// It requires content.
	CenteredDirective markup.Directive = centeredDirective{}
)

// StyleRole builds a role that wraps its text in a span
// with the given class.
func StyleRole(class string) markup.Role {
	return markup.RoleFunc(func(call *markup.RoleCall) ([]ast.Node, error) {
		return rawHTML(`<span class="%s">%s</span>`, class, call.HTML(call.Text)), nil
	})
}

func rawHTML(format string, args ...any) []ast.Node {
	return []ast.Node{
		markup.NewRaw(markup.FormatHTML, fmt.Appendf(nil, format, args...)),
	}
}

type centeredDirective struct{}

func (centeredDirective) Spec() markup.DirectiveSpec {
	return markup.DirectiveSpec{
		FinalArgumentWhitespace: true,
		HasContent:              true,
	}
}

func (centeredDirective) Run(call *markup.DirectiveCall) ([]ast.Node, error) {
	if err := call.AssertHasContent(); err != nil {
		return nil, errtrace.Wrap(err)
	}

	lines := make([]string, len(call.Content))
	for i, line := range call.Content {
		lines[i] = call.HTML(line)
	}
	content := fmt.Sprintf(`<span class="centered">%s</span>`, strings.Join(lines, "<br/>"))
	return []ast.Node{
		markup.NewRawBlock(markup.FormatHTML, []byte(content)),
	}, nil
}

// Register registers the roles and directives of this package
// with the given registry.
func Register(reg *markup.Registry) error {
	roles := []struct {
		name string
		role markup.Role
	}{
		{CenteredName, CenteredRole},
		{EmphasisName, EmphasisRole},
		{SubtitleName, SubtitleRole},
		{BreakName, BreakRole},
	}
	for _, r := range roles {
		if err := reg.RegisterRole(r.name, r.role); err != nil {
			return errtrace.Wrap(err)
		}
	}

	return errtrace.Wrap(reg.RegisterDirective(CenteredName, CenteredDirective))
}

func init() {
	if err := Register(markup.Default); err != nil {
		panic(fmt.Sprintf("register extras: %v", err))
	}
}
