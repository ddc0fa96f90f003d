package markup

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Priorities of the parsers and renderers added by Extension.
const (
	_roleParserPriority      = 150
	_directiveParserPriority = 150
	_nodeRendererPriority    = 500
)

// Extension is a goldmark extension that adds roles and directives.
//
//	md := goldmark.New(
//		goldmark.WithExtensions(markup.New()),
//	)
type Extension struct {
	// Registry to look roles and directives up in.
	// Defaults to [Default].
	//
	// Lookups happen while parsing,
	// so roles registered after the extension was built are visible.
	Registry *Registry

	// ReportLevel is the minimum level of problems
	// that are rendered into the output.
	// Problems below this level are still recorded.
	// Defaults to Warning.
	ReportLevel Level

	// EscapeText requests that roles and directives
	// HTML-escape document text before placing it in raw output.
	EscapeText bool
}

var _ goldmark.Extender = (*Extension)(nil)

// Option configures an Extension.
type Option func(*Extension)

// WithRegistry sets the registry used by the extension.
func WithRegistry(r *Registry) Option {
	return func(e *Extension) {
		e.Registry = r
	}
}

// WithReportLevel sets the minimum level of problems
// rendered into the output.
func WithReportLevel(lvl Level) Option {
	return func(e *Extension) {
		e.ReportLevel = lvl
	}
}

// WithTextEscaping makes roles and directives escape document text.
func WithTextEscaping() Option {
	return func(e *Extension) {
		e.EscapeText = true
	}
}

// New builds a new Extension.
func New(opts ...Option) *Extension {
	var e Extension
	for _, opt := range opts {
		opt(&e)
	}
	return &e
}

func (e *Extension) registry() *Registry {
	if e.Registry != nil {
		return e.Registry
	}
	return Default
}

func (e *Extension) reportLevel() Level {
	if e.ReportLevel == 0 {
		return Warning
	}
	return e.ReportLevel
}

// Extend adds the role parser, the directive parser,
// and renderers for this package's nodes to m.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(&roleParser{ext: e}, _roleParserPriority),
		),
		parser.WithBlockParsers(
			util.Prioritized(&directiveParser{ext: e}, _directiveParserPriority),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&nodeRenderer{ext: e}, _nodeRendererPriority),
		),
	)
}
