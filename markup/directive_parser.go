package markup

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"braces.dev/errtrace"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const _simpleName = `[A-Za-z0-9]+(?:[-_.+:][A-Za-z0-9]+)*`

var (
	// .. name:: argument
	_directiveMarker = regexp.MustCompile(`^\.\.[ \t]+(` + _simpleName + `)[ \t]*::(?:[ \t]+(.*))?$`)

	// :name: value
	_fieldMarker = regexp.MustCompile(`^:([^:\s][^:]*):(?:[ \t]+(.*))?$`)
)

type directiveParser struct{ ext *Extension }

var _ parser.BlockParser = (*directiveParser)(nil)

func (*directiveParser) Trigger() []byte {
	return []byte{'.'}
}

func (p *directiveParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos >= len(line) {
		return nil, parser.NoChildren
	}

	marker := util.TrimRightSpace(line[pos:])
	m := _directiveMarker.FindSubmatch(marker)
	if m == nil {
		return nil, parser.NoChildren
	}

	node := &DirectiveBlock{
		Name:     normalizeName(string(m[1])),
		Argument: strings.TrimSpace(string(m[2])),
		Line:     lineNumber(reader.Source(), segment.Start),
		indent:   pc.BlockIndent(),
		marker:   string(marker),
	}
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (p *directiveParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*DirectiveBlock)
	line, segment := reader.PeekLine()
	if util.IsBlank(line) {
		n.Lines().Append(segment)
		return parser.Continue | parser.NoChildren
	}

	// The block ends at the first line
	// that isn't indented past the marker.
	if w, _ := util.IndentWidth(line, reader.LineOffset()); w <= n.indent {
		return parser.Close
	}

	n.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (p *directiveParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	n := node.(*DirectiveBlock)
	source := reader.Source()

	lines := make([]string, 0, n.Lines().Len())
	for i := 0; i < n.Lines().Len(); i++ {
		seg := n.Lines().At(i)
		lines = append(lines, strings.TrimRight(string(seg.Value(source)), "\r\n"))
	}

	for _, child := range p.ext.runDirective(pc, n, lines) {
		n.AppendChild(n, child)
	}
}

func (*directiveParser) CanInterruptParagraph() bool { return false }

func (*directiveParser) CanAcceptIndentedLine() bool { return false }

// runDirective runs the directive for a closed block
// and returns the nodes that should replace it.
func (e *Extension) runDirective(pc parser.Context, n *DirectiveBlock, lines []string) []ast.Node {
	fail := func(p *Problem) []ast.Node {
		addProblem(pc, p)
		literal := n.marker
		if len(lines) > 0 {
			literal += "\n" + strings.Join(lines, "\n")
		}
		return []ast.Node{&SystemMessage{
			Problem: p,
			Literal: strings.TrimRight(literal, " \t\n"),
		}}
	}

	d, ok := e.registry().Directive(n.Name)
	if !ok {
		return fail(&Problem{
			Level:   Error,
			Line:    n.Line,
			Message: fmt.Sprintf("Unknown directive type %q.", n.Name),
		})
	}

	call, err := newDirectiveCall(n.Name, d.Spec(), n.Argument, lines)
	if err != nil {
		return fail(&Problem{
			Level:   Error,
			Line:    n.Line,
			Message: fmt.Sprintf("Error in %q directive:\n%v.", n.Name, err),
		})
	}
	call.Line = n.Line
	call.Escape = e.EscapeText

	nodes, err := d.Run(call)
	if err != nil {
		return fail(problemFrom(err, n.Line))
	}
	return nodes
}

// problemFrom turns an error returned by a role or directive
// into a Problem.
func problemFrom(err error, line int) *Problem {
	if p := new(Problem); errors.As(err, &p) {
		out := *p
		if out.Line == 0 {
			out.Line = line
		}
		if out.Level == 0 {
			out.Level = Error
		}
		return &out
	}
	return &Problem{Level: Error, Line: line, Message: err.Error()}
}

// newDirectiveCall splits a directive block into
// arguments, options, and content according to spec.
//
// argument is the text that followed "::" on the marker line,
// and lines are the remaining lines of the block, as written.
func newDirectiveCall(name string, spec DirectiveSpec, argument string, lines []string) (*DirectiveCall, error) {
	indented := append([]string{argument}, dedent(lines)...)
	if strings.TrimSpace(indented[0]) == "" {
		indented = indented[1:]
	}

	takesArgs := spec.RequiredArguments > 0 || spec.OptionalArguments > 0

	var argBlock, rest, content []string
	if len(indented) > 0 && (takesArgs || len(spec.Options) > 0) {
		i := 0
		for i < len(indented) && strings.TrimSpace(indented[i]) != "" {
			i++
		}
		argBlock, rest = indented[:i], indented[i:]
		if i < len(indented) {
			content = indented[i+1:]
		}
	} else {
		content = indented
	}

	options := make(map[string]any)
	if len(spec.Options) > 0 {
		var err error
		options, argBlock, err = parseOptions(spec.Options, argBlock)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
	}

	if len(argBlock) > 0 && !takesArgs {
		// Without arguments, the text before the options
		// is the start of the content.
		content = make([]string, 0, len(argBlock)+len(rest))
		content = append(content, argBlock...)
		content = append(content, rest...)
		argBlock = nil
	}
	content = trimBlankLines(content)

	var args []string
	if takesArgs {
		var err error
		args, err = parseArguments(spec, argBlock)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
	}

	if len(content) > 0 && !spec.HasContent {
		return nil, errtrace.New("no content permitted")
	}

	return &DirectiveCall{
		Name:      name,
		Arguments: args,
		Options:   options,
		Content:   content,
	}, nil
}

func parseArguments(spec DirectiveSpec, argBlock []string) ([]string, error) {
	required := spec.RequiredArguments
	total := required + spec.OptionalArguments

	argText := strings.Join(argBlock, "\n")
	args := strings.Fields(argText)
	switch {
	case len(args) < required:
		return nil, errtrace.Errorf("%d argument(s) required, %d supplied", required, len(args))
	case len(args) > total:
		if !spec.FinalArgumentWhitespace {
			return nil, errtrace.Errorf("maximum %d argument(s) allowed, %d supplied", total, len(args))
		}
		args = splitN(argText, total)
	}
	return args, nil
}

// splitN splits s on whitespace into at most n fields.
// The last field holds the rest of s, trimmed.
func splitN(s string, n int) []string {
	var out []string
	s = strings.TrimSpace(s)
	for len(out) < n-1 {
		idx := strings.IndexAny(s, " \t\n")
		if idx < 0 {
			break
		}
		out = append(out, s[:idx])
		s = strings.TrimLeft(s[idx:], " \t\n")
	}
	return append(out, s)
}

// parseOptions extracts the option list from the end of an argument block.
// It returns the converted options and the remaining argument lines.
func parseOptions(spec map[string]OptionConverter, block []string) (map[string]any, []string, error) {
	start := len(block)
	for i, line := range block {
		if _fieldMarker.MatchString(line) {
			start = i
			break
		}
	}
	argBlock, optBlock := block[:start], block[start:]

	type field struct{ name, value string }
	var fields []*field
	for _, line := range optBlock {
		if m := _fieldMarker.FindStringSubmatch(line); m != nil {
			fields = append(fields, &field{name: strings.TrimSpace(m[1]), value: m[2]})
			continue
		}
		// Continuation of the previous option's value.
		last := fields[len(fields)-1]
		last.value = strings.TrimSpace(last.value + " " + strings.TrimSpace(line))
	}

	options := make(map[string]any, len(fields))
	for _, f := range fields {
		name := strings.ToLower(f.name)
		convert, ok := spec[name]
		if !ok {
			return nil, nil, errtrace.Errorf("unknown option: %q", name)
		}
		if _, dup := options[name]; dup {
			return nil, nil, errtrace.Errorf("duplicate option %q", name)
		}

		value := strings.TrimSpace(f.value)
		v, err := convert(value)
		if err != nil {
			return nil, nil, errtrace.Errorf("invalid option value: (option: %q; value: %q)\n%v", name, value, err)
		}
		options[name] = v
	}
	return options, argBlock, nil
}

// dedent removes the common leading indentation from lines.
// Blank lines don't count towards the common indentation
// and come out empty.
func dedent(lines []string) []string {
	out := make([]string, len(lines))
	minIndent := -1
	for i, line := range lines {
		line = expandTabs(line)
		out[i] = line
		if strings.TrimSpace(line) == "" {
			out[i] = ""
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " "))
		if minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
	}
	for i, line := range out {
		if line != "" {
			out[i] = strings.TrimRight(line[minIndent:], " ")
		}
	}
	return out
}

const _tabWidth = 8

func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := _tabWidth - col%_tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col++
	}
	return sb.String()
}

func trimBlankLines(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil
	}
	return lines
}
