package markup

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// nodeRenderer renders the nodes defined in this package to HTML.
type nodeRenderer struct{ ext *Extension }

var _ renderer.NodeRenderer = (*nodeRenderer)(nil)

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindRaw, r.renderRaw)
	reg.Register(KindRawBlock, r.renderRawBlock)
	reg.Register(KindFragment, r.renderContainer)
	reg.Register(KindDirectiveBlock, r.renderContainer)
	reg.Register(KindProblematic, r.renderProblematic)
	reg.Register(KindSystemMessage, r.renderSystemMessage)
}

func (r *nodeRenderer) renderRaw(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Raw)
	if strings.EqualFold(n.Format, FormatHTML) {
		_, _ = w.Write(n.Value)
	}
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderRawBlock(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*RawBlock)
	if strings.EqualFold(n.Format, FormatHTML) && len(n.Value) > 0 {
		_, _ = w.Write(n.Value)
		if n.Value[len(n.Value)-1] != '\n' {
			_ = w.WriteByte('\n')
		}
	}
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderContainer(util.BufWriter, []byte, ast.Node, bool) (ast.WalkStatus, error) {
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderProblematic(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Problematic)
	_, _ = w.WriteString(`<span class="problematic">`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.RawText)))
	_, _ = w.WriteString(`</span>`)
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderSystemMessage(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*SystemMessage)
	p := n.Problem
	if p.Level < r.ext.reportLevel() {
		return ast.WalkSkipChildren, nil
	}

	_, _ = w.WriteString(`<div class="system-message">` + "\n")
	_, _ = fmt.Fprintf(w, `<p class="system-message-title">System Message: %s/%d (<tt>line %d</tt>)</p>`+"\n",
		strings.ToUpper(p.Level.String()), int(p.Level), p.Line)
	_, _ = w.WriteString("<p>")
	_, _ = w.Write(util.EscapeHTML([]byte(p.Message)))
	_, _ = w.WriteString("</p>\n")
	if len(n.Literal) > 0 {
		_, _ = w.WriteString(`<pre class="literal-block">`)
		_, _ = w.Write(util.EscapeHTML([]byte(n.Literal)))
		_, _ = w.WriteString("</pre>\n")
	}
	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}
