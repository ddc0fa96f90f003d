package document

import (
	"bytes"
	"path/filepath"
	"strings"

	"braces.dev/errtrace"
	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/rolemark/markup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Document is a rendered source file.
type Document struct {
	// Name of the source file.
	Name string

	Title       string
	Description string
	Draft       bool

	// Params holds all front matter keys, including the ones above.
	Params map[string]any

	// Body is the rendered HTML.
	Body []byte

	// Problems reported while rendering,
	// with line numbers relative to the start of the source file.
	Problems []*markup.Problem
}

// MaxLevel returns the highest level of the problems in this document,
// or zero if there are none.
func (d *Document) MaxLevel() markup.Level {
	var lvl markup.Level
	for _, p := range d.Problems {
		lvl = max(lvl, p.Level)
	}
	return lvl
}

// Parser parses and renders source files.
type Parser struct {
	// Markdown renders the body of each file.
	// It should include the markup extension.
	Markdown goldmark.Markdown // required
}

// Parse renders the given source file.
// name is used for error messages and the fallback title.
func (p *Parser) Parse(name string, src []byte) (*Document, error) {
	var params map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(src), &params)
	if err != nil {
		return nil, errtrace.Errorf("%v: front matter: %w", name, err)
	}
	lineOffset := bytes.Count(src, []byte{'\n'}) - bytes.Count(body, []byte{'\n'})

	pc := parser.NewContext()
	root := p.Markdown.Parser().Parse(text.NewReader(body), parser.WithContext(pc))

	var out bytes.Buffer
	if err := p.Markdown.Renderer().Render(&out, body, root); err != nil {
		return nil, errtrace.Errorf("%v: render: %w", name, err)
	}

	doc := Document{
		Name:        name,
		Title:       stringParam(params, "title"),
		Description: stringParam(params, "description"),
		Draft:       boolParam(params, "draft"),
		Params:      params,
		Body:        out.Bytes(),
	}
	if doc.Title == "" {
		doc.Title = headingTitle(root, body)
	}
	if doc.Title == "" {
		doc.Title = fileTitle(name)
	}

	for _, prob := range markup.Problems(pc) {
		prob := *prob
		if prob.Line > 0 {
			prob.Line += lineOffset
		}
		doc.Problems = append(doc.Problems, &prob)
	}

	return &doc, nil
}

func stringParam(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return strings.TrimSpace(s)
}

func boolParam(params map[string]any, key string) bool {
	b, _ := params[key].(bool)
	return b
}

// headingTitle returns the text of the first level 1 heading.
func headingTitle(root ast.Node, src []byte) string {
	var title string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			if h.Level == 1 {
				title = plainText(h, src)
				return ast.WalkStop, nil
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(title)
}

func plainText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		case *markup.Raw, *markup.Problematic:
			// Markup output is HTML, not title text.
		default:
			sb.WriteString(plainText(c, src))
		}
	}
	return sb.String()
}

// fileTitle builds a title from a file name:
// "getting-started.md" becomes "Getting Started".
func fileTitle(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return cases.Title(language.English).String(strings.TrimSpace(base))
}
