package markup

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
)

// FormatHTML is the format name for raw HTML output.
const FormatHTML = "html"

// KindRaw is the NodeKind of [Raw].
var KindRaw = ast.NewNodeKind("Raw")

// Raw is an inline node whose value is written to the output as-is
// if the output format matches Format.
type Raw struct {
	ast.BaseInline

	// Format is the output format this value is meant for.
	Format string

	// Value is written verbatim.
	Value []byte
}

var _ ast.Node = (*Raw)(nil)

// NewRaw builds a Raw node for the given format.
func NewRaw(format string, value []byte) *Raw {
	return &Raw{Format: format, Value: value}
}

// Kind reports [KindRaw].
func (*Raw) Kind() ast.NodeKind { return KindRaw }

// Dump dumps the node to stdout for debugging.
func (n *Raw) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Format": n.Format,
		"Value":  string(n.Value),
	}, nil)
}

// KindRawBlock is the NodeKind of [RawBlock].
var KindRawBlock = ast.NewNodeKind("RawBlock")

// RawBlock is the block-level counterpart of [Raw].
type RawBlock struct {
	ast.BaseBlock

	Format string
	Value  []byte
}

var _ ast.Node = (*RawBlock)(nil)

// NewRawBlock builds a RawBlock node for the given format.
func NewRawBlock(format string, value []byte) *RawBlock {
	return &RawBlock{Format: format, Value: value}
}

// Kind reports [KindRawBlock].
func (*RawBlock) Kind() ast.NodeKind { return KindRawBlock }

// IsRaw reports true: RawBlock has no inline children.
func (*RawBlock) IsRaw() bool { return true }

// Dump dumps the node to stdout for debugging.
func (n *RawBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Format": n.Format,
		"Value":  string(n.Value),
	}, nil)
}

// KindFragment is the NodeKind of [Fragment].
var KindFragment = ast.NewNodeKind("Fragment")

// Fragment groups the inline nodes produced by a single role.
// It renders only its children.
type Fragment struct {
	ast.BaseInline

	// Role is the name of the role that produced this fragment.
	Role string
}

// Kind reports [KindFragment].
func (*Fragment) Kind() ast.NodeKind { return KindFragment }

// Dump dumps the node to stdout for debugging.
func (n *Fragment) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Role": n.Role}, nil)
}

// KindProblematic is the NodeKind of [Problematic].
var KindProblematic = ast.NewNodeKind("Problematic")

// Problematic marks role source text that could not be interpreted.
// The original text is rendered, escaped, in place of the role output.
type Problematic struct {
	ast.BaseInline

	// RawText is the role as written in the source.
	RawText string

	// Problem explains why the role failed.
	Problem *Problem
}

// Kind reports [KindProblematic].
func (*Problematic) Kind() ast.NodeKind { return KindProblematic }

// Dump dumps the node to stdout for debugging.
func (n *Problematic) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"RawText": n.RawText,
		"Problem": n.Problem.Message,
	}, nil)
}

// KindSystemMessage is the NodeKind of [SystemMessage].
var KindSystemMessage = ast.NewNodeKind("SystemMessage")

// SystemMessage is a block that reports a problem in the document
// in place of the directive that caused it.
type SystemMessage struct {
	ast.BaseBlock

	Problem *Problem

	// Literal is the offending source, if any.
	Literal string
}

// Kind reports [KindSystemMessage].
func (*SystemMessage) Kind() ast.NodeKind { return KindSystemMessage }

// IsRaw reports true: SystemMessage has no inline children.
func (*SystemMessage) IsRaw() bool { return true }

// Dump dumps the node to stdout for debugging.
func (n *SystemMessage) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Level":   n.Problem.Level.String(),
		"Line":    strconv.Itoa(n.Problem.Line),
		"Message": n.Problem.Message,
	}, nil)
}

// KindDirectiveBlock is the NodeKind of [DirectiveBlock].
var KindDirectiveBlock = ast.NewNodeKind("DirectiveBlock")

// DirectiveBlock is the block opened for an explicit markup directive.
// Once the block is closed, its children are the nodes
// produced by the directive,
// or a [SystemMessage] if the directive failed.
type DirectiveBlock struct {
	ast.BaseBlock

	// Name of the directive, normalized.
	Name string

	// Argument is the text following "::" on the first line.
	Argument string

	// Line is the 1-based line number of the directive in the source.
	Line int

	// Indentation of the explicit markup start.
	// Lines indented at most this much end the block.
	indent int

	// Text of the first line, used to report failures.
	marker string
}

// Kind reports [KindDirectiveBlock].
func (*DirectiveBlock) Kind() ast.NodeKind { return KindDirectiveBlock }

// IsRaw reports true.
// Directive content is interpreted by the directive, not by goldmark.
func (*DirectiveBlock) IsRaw() bool { return true }

// Dump dumps the node to stdout for debugging.
func (n *DirectiveBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name":     n.Name,
		"Argument": n.Argument,
		"Line":     strconv.Itoa(n.Line),
	}, nil)
}
