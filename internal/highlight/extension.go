package highlight

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Renderers registered with a lower priority value win.
// goldmark's own HTML renderer uses 1000.
const _rendererPriority = 200

// Extension is a goldmark extension that renders code blocks
// with a Highlighter.
type Extension struct {
	Highlighter *Highlighter
}

var _ goldmark.Extender = (*Extension)(nil)

// Extend registers the code block renderers with m.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&codeRenderer{h: e.Highlighter}, _rendererPriority),
		),
	)
}

type codeRenderer struct{ h *Highlighter }

func (r *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
}

func (r *codeRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	return ast.WalkSkipChildren, r.h.Highlight(w, string(n.Language(source)), lines(n, source))
}

func (r *codeRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	return ast.WalkSkipChildren, r.h.Highlight(w, "", lines(node, source))
}

func lines(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	ls := n.Lines()
	for i := 0; i < ls.Len(); i++ {
		seg := ls.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.Bytes()
}
