// Package html renders rendered documents and directory listings
// into complete HTML pages.
package html

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	ttemplate "text/template"

	"braces.dev/errtrace"
	"go.abhg.dev/rolemark/internal/relative"
)

// StaticDir is the directory under the output root
// that holds static assets.
const StaticDir = "_"

var (
	//go:embed tmpl/*.html
	_tmplFS embed.FS

	//go:embed static/**
	_staticFS embed.FS

	// Unusable function references at parse time,
	// and then Clone and replace at render time.
	// This way, template validity is still
	// verified at init.
	_pageTmpl = template.Must(
		template.New("page.html").
			Funcs((*render)(nil).FuncMap()).
			ParseFS(_tmplFS, "tmpl/page.html", "tmpl/layout.html"),
	)

	_indexTmpl = template.Must(
		template.New("index.html").
			Funcs((*render)(nil).FuncMap()).
			ParseFS(_tmplFS, "tmpl/index.html", "tmpl/layout.html"),
	)
)

// Highlighter writes the style sheet for highlighted code blocks.
type Highlighter interface {
	WriteCSS(io.Writer) error
}

// Renderer renders pages into HTML.
type Renderer struct {
	// Path to the home page of the generated site
	// relative to the output root.
	Home string

	// Whether we're in embedded mode.
	// In this mode, output will only contain the document body
	// and will not generate complete, stylized HTML pages.
	Embedded bool

	// FrontMatter to include at the top of each file, if any.
	FrontMatter *ttemplate.Template

	// Highlighter used for code blocks, if any.
	Highlighter Highlighter

	// Pagefind reports whether pages should link to
	// the pagefind search UI.
	Pagefind bool
}

func (r *Renderer) templateName() string {
	if r.Embedded {
		return "Body"
	}
	return "Page"
}

// WriteStatic dumps the contents of static/ into the given directory.
//
// This is a no-op if the renderer is running in embedded mode.
func (r *Renderer) WriteStatic(dir string) error {
	if r.Embedded {
		return nil
	}

	dir = filepath.Join(dir, StaticDir)
	static, err := fs.Sub(_staticFS, "static")
	if err != nil {
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == "." {
			return err
		}

		outPath := filepath.Join(dir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(outPath, 0o1755)
		}

		bs, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}

		if path == "css/main.css" && r.Highlighter != nil {
			buff := bytes.NewBuffer(bs)
			buff.WriteString("\n")
			if err := r.Highlighter.WriteCSS(buff); err != nil {
				return err
			}
			bs = buff.Bytes()
		}

		return os.WriteFile(outPath, bs, 0o644)
	}))
}

type frontmatterData struct {
	Path        string
	Basename    string
	Title       string
	Description string
	NumChildren int
	Params      map[string]any
}

func (r *Renderer) renderFrontmatter(w io.Writer, d frontmatterData) error {
	if r.FrontMatter == nil {
		return nil
	}

	var buff bytes.Buffer
	if err := r.FrontMatter.Execute(&buff, d); err != nil {
		return errtrace.Wrap(err)
	}

	bs := bytes.TrimSpace(buff.Bytes())
	if len(bs) == 0 {
		return nil
	}
	bs = append(bs, '\n', '\n')

	_, err := w.Write(bs)
	return errtrace.Wrap(err)
}

// Breadcrumb holds information about parents of a page
// so that we can leave a trail up for navigation.
type Breadcrumb struct {
	// Text for the crumb.
	Text string

	// Path to the crumb's page from the root of the output.
	Path string
}

// PageInfo specifies a document that should be rendered.
type PageInfo struct {
	// Path to the output file from the root of the output,
	// e.g. "guide/install.html".
	Path string

	Title       string
	Description string

	// Params holds extra front matter of the document.
	Params map[string]any

	// Body is the rendered HTML of the document.
	Body template.HTML

	Breadcrumbs []Breadcrumb
}

// RenderPage renders a single document.
func (r *Renderer) RenderPage(w io.Writer, info *PageInfo) error {
	err := r.renderFrontmatter(w, frontmatterData{
		Path:        info.Path,
		Basename:    basename(info.Path),
		Title:       info.Title,
		Description: info.Description,
		Params:      info.Params,
	})
	if err != nil {
		return err
	}

	render := render{
		Home:     r.Home,
		Dir:      path.Dir(info.Path),
		Pagefind: r.Pagefind,
	}
	return errtrace.Wrap(template.Must(_pageTmpl.Clone()).
		Funcs(render.FuncMap()).
		ExecuteTemplate(w, r.templateName(), info))
}

// Index holds information about a directory listing.
type Index struct {
	// Path to the index file from the root of the output,
	// e.g. "guide/index.html".
	Path string

	// Title of the listing.
	// Defaults to the directory name.
	Title string

	Description string

	Pages       []PageLink
	Breadcrumbs []Breadcrumb
}

// PageLink is an entry in a directory listing.
type PageLink struct {
	// Path to the linked page from the root of the output.
	Path string

	Title       string
	Description string

	// Dir reports whether this links to another listing.
	Dir bool
}

// Dir is the directory this index lists,
// or an empty string for the top level directory.
func (idx *Index) Dir() string {
	if d := path.Dir(idx.Path); d != "." {
		return d
	}
	return ""
}

// Heading is the title shown for this index.
func (idx *Index) Heading() string {
	switch {
	case idx.Title != "":
		return idx.Title
	case idx.Dir() != "":
		return path.Base(idx.Dir())
	default:
		return "Index"
	}
}

// RenderIndex renders the list of pages in a directory as HTML.
func (r *Renderer) RenderIndex(w io.Writer, idx *Index) error {
	fmdata := frontmatterData{
		Path:        idx.Path,
		Basename:    basename(idx.Dir()),
		Title:       idx.Heading(),
		Description: idx.Description,
		NumChildren: len(idx.Pages),
	}
	if err := r.renderFrontmatter(w, fmdata); err != nil {
		return err
	}

	render := render{
		Home:     r.Home,
		Dir:      idx.Dir(),
		Pagefind: r.Pagefind,
	}
	return errtrace.Wrap(template.Must(_indexTmpl.Clone()).
		Funcs(render.FuncMap()).
		ExecuteTemplate(w, r.templateName(), idx))
}

type render struct {
	Home string

	// Directory holding the page being rendered.
	Dir string

	Pagefind bool
}

func (r *render) FuncMap() template.FuncMap {
	return template.FuncMap{
		"static":       r.static,
		"relativePath": r.relativePath,
		"pagefind":     func() bool { return r.Pagefind },
	}
}

func (r *render) relativePath(p string) string {
	dir := r.Dir
	if dir == "." {
		dir = ""
	}
	return relative.Path(dir, p)
}

func (r *render) static(p string) string {
	return r.relativePath(path.Join(path.Dir(r.Home), StaticDir, p))
}

func basename(p string) string {
	if p == "" {
		return ""
	}
	return strings.TrimSuffix(path.Base(p), ".html")
}
