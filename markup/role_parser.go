package markup

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// :name:`
var _roleStart = regexp.MustCompile("^:(" + _simpleName + "):`")

type roleParser struct{ ext *Extension }

var _ parser.InlineParser = (*roleParser)(nil)

func (*roleParser) Trigger() []byte {
	return []byte{':'}
}

func (p *roleParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	if !isOpeningBoundary(block.PrecendingCharacter()) {
		return nil
	}

	line, segment := block.PeekLine()
	m := _roleStart.FindSubmatchIndex(line)
	if m == nil {
		return nil
	}

	start := m[1]
	end := closingBackquote(line, start)
	if end <= start {
		return nil // unterminated or empty
	}
	if isBlank(line[start]) || isBlank(line[end-1]) {
		return nil
	}
	if end+1 < len(line) {
		if r, _ := utf8.DecodeRune(line[end+1:]); !isClosingBoundary(r) {
			return nil
		}
	}

	call := &RoleCall{
		Name:    normalizeName(string(line[m[2]:m[3]])),
		RawText: string(line[:end+1]),
		Text:    unescape(string(line[start:end])),
		Line:    lineNumber(block.Source(), segment.Start),
		Escape:  p.ext.EscapeText,
	}
	block.Advance(end + 1)
	return p.ext.applyRole(pc, call)
}

func (e *Extension) applyRole(pc parser.Context, call *RoleCall) ast.Node {
	fail := func(p *Problem) ast.Node {
		addProblem(pc, p)
		return &Problematic{RawText: call.RawText, Problem: p}
	}

	role, ok := e.registry().Role(call.Name)
	if !ok {
		return fail(&Problem{
			Level:   Error,
			Line:    call.Line,
			Message: fmt.Sprintf("Unknown interpreted text role %q.", call.Name),
		})
	}

	nodes, err := role.Apply(call)
	if err != nil {
		return fail(problemFrom(err, call.Line))
	}
	if len(nodes) == 1 {
		return nodes[0]
	}

	frag := &Fragment{Role: call.Name}
	for _, n := range nodes {
		frag.AppendChild(frag, n)
	}
	return frag
}

// closingBackquote returns the index of the first unescaped backquote
// in line at or after start, or -1 if the line has none.
func closingBackquote(line []byte, start int) int {
	for i := start; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '`':
			return i
		case '\n', '\r':
			return -1
		}
	}
	return -1
}

// unescape resolves backslash escapes.
// An escaped whitespace character is removed entirely.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		if !isBlank(s[i]) {
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isOpeningBoundary(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func isClosingBoundary(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func lineNumber(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}
