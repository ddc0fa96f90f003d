package highlight

import (
	"fmt"
	"io"
	"sync"

	"braces.dev/errtrace"
	chroma "github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Highlighter turns source code into HTML.
type Highlighter struct {
	// Style used for syntax highlighting of code.
	Style *chroma.Style

	// UseClasses specifies whether the highlighter
	// uses inline 'style' attributes for highlighting,
	// or classes, assuming use of an appropriate style sheet.
	UseClasses bool

	once      sync.Once
	formatter *chromahtml.Formatter
}

func (h *Highlighter) init() {
	h.once.Do(func() {
		h.formatter = chromahtml.New(
			chromahtml.PreventSurroundingPre(true),
			chromahtml.WithClasses(h.UseClasses),
		)
		if h.Style == nil {
			h.Style = PlainStyle
		}
	})
}

// WriteCSS writes the style classes for this highlighter to writer.
// If this highlighter is not using classes, WriteCSS is a no-op.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	h.init()

	if !h.UseClasses {
		return nil
	}

	return errtrace.Wrap(h.formatter.WriteCSS(w, h.Style))
}

// Highlight renders src as a code block in the given language.
// Code in unknown languages, or with no language, is not highlighted.
func (h *Highlighter) Highlight(w io.Writer, lang string, src []byte) error {
	h.init()

	tokens, err := chroma.Tokenise(lexer(lang), nil, string(src))
	if err != nil {
		return errtrace.Errorf("highlight %q: %w", lang, err)
	}

	if h.UseClasses {
		_, err = fmt.Fprintf(w, "<pre class=%q>", chroma.StandardTypes[chroma.PreWrapper])
	} else {
		style := chromahtml.StyleEntryToCSS(h.Style.Get(chroma.PreWrapper))
		_, err = fmt.Fprintf(w, "<pre style=%q>", style)
	}
	if err != nil {
		return errtrace.Wrap(err)
	}

	if err := h.formatter.Format(w, h.Style, chroma.Literator(tokens...)); err != nil {
		return errtrace.Wrap(err)
	}

	_, err = io.WriteString(w, "</pre>\n")
	return errtrace.Wrap(err)
}

func lexer(lang string) chroma.Lexer {
	var l chroma.Lexer
	if lang != "" {
		l = lexers.Get(lang)
	}
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}
