package document

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var _extensions = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// Extension looks up a named goldmark extension.
// Names are case-insensitive.
func Extension(name string) (goldmark.Extender, bool) {
	ext, ok := _extensions[strings.ToLower(strings.TrimSpace(name))]
	return ext, ok
}

// ExtensionNames lists the names accepted by [Extension].
func ExtensionNames() []string {
	names := make([]string, 0, len(_extensions))
	for name := range _extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewMarkdown builds a goldmark instance with the given extensions.
// Raw HTML in the source is passed through
// so that roles and directives can emit it.
func NewMarkdown(exts ...goldmark.Extender) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}
