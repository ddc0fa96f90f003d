package main

import (
	"html/template"
	"io"
	"os"
	"path"
	"path/filepath"

	"braces.dev/errtrace"
	"go.abhg.dev/rolemark/internal/document"
	"go.abhg.dev/rolemark/internal/errdefer"
	"go.abhg.dev/rolemark/internal/html"
	"go.abhg.dev/rolemark/internal/sitetree"
	"go.abhg.dev/rolemark/markup"
	"go.uber.org/zap"
)

const (
	_indexName = "index"
	_homeText  = "Home"
)

// Parser renders a source file into a document.
type Parser interface {
	Parse(name string, src []byte) (*document.Document, error)
}

var _ Parser = (*document.Parser)(nil)

// Renderer renders documents and directory listings to HTML.
type Renderer interface {
	WriteStatic(string) error
	RenderPage(io.Writer, *html.PageInfo) error
	RenderIndex(io.Writer, *html.Index) error
}

var _ Renderer = (*html.Renderer)(nil)

// Generator renders a tree of documents into a static site.
//
// In terms of code organization,
// Generator's purpose is to add a separation between main
// and the program's core logic to aid in testability.
type Generator struct {
	Logger   *zap.Logger
	Parser   Parser
	Renderer Renderer
	OutDir   string

	// Drafts includes documents marked as drafts.
	Drafts bool
}

// Stats summarizes a Generate run.
type Stats struct {
	Pages   int // documents rendered
	Indexes int // directory listings generated
	Drafts  int // drafts skipped

	// Problems is the number of problems reported across all documents.
	Problems int

	// MaxLevel is the highest level of any reported problem,
	// or zero if there were none.
	MaxLevel markup.Level
}

type page struct {
	Source *document.Source
	Doc    *document.Document
}

type pageTree = sitetree.Snapshot[page]

// Generate renders the given sources into OutDir.
func (g *Generator) Generate(srcs []*document.Source) (*Stats, error) {
	if err := g.Renderer.WriteStatic(g.OutDir); err != nil {
		return nil, errtrace.Wrap(err)
	}

	var (
		stats Stats
		root  sitetree.Root[page]
	)
	for _, src := range srcs {
		doc, err := g.parse(src)
		if err != nil {
			return nil, err
		}
		if doc.Draft && !g.Drafts {
			g.Logger.Info("Skipping draft", zap.String("file", src.File))
			// Problems in skipped drafts don't count towards -halt.
			for _, p := range doc.Problems {
				g.Logger.Debug(p.Message, problemFields(src.File, p)...)
			}
			stats.Drafts++
			continue
		}

		logProblems(g.Logger, src.File, doc.Problems)
		stats.Problems += len(doc.Problems)
		stats.MaxLevel = max(stats.MaxLevel, doc.MaxLevel())
		root.Set(src.Path, page{Source: src, Doc: doc})
	}

	trees := root.Snapshot()
	if err := g.renderTrees(nil, trees, &stats); err != nil {
		return nil, err
	}

	if !hasIndexPage(trees) {
		idx := html.Index{
			Path:  _indexName + ".html",
			Pages: pageLinks(trees),
		}
		if err := g.renderIndex(&idx); err != nil {
			return nil, err
		}
		stats.Indexes++
	}

	return &stats, nil
}

func (g *Generator) parse(src *document.Source) (*document.Document, error) {
	g.Logger.Debug("Parsing", zap.String("file", src.File), zap.String("path", src.Path))

	bs, err := os.ReadFile(src.File)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	doc, err := g.Parser.Parse(src.File, bs)
	return doc, errtrace.Wrap(err)
}

func (g *Generator) renderTrees(crumbs []html.Breadcrumb, trees []pageTree, stats *Stats) error {
	for _, t := range trees {
		if err := g.renderTree(crumbs, t, stats); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) renderTree(crumbs []html.Breadcrumb, t pageTree, stats *Stats) error {
	if t.Value != nil {
		if err := g.renderPage(crumbs, t); err != nil {
			return err
		}
		stats.Pages++
	}

	if !t.IsDir() {
		return nil
	}

	// Copy so that sibling subtrees don't share a backing array.
	crumbs = append(crumbs[:len(crumbs):len(crumbs)], html.Breadcrumb{
		Text: t.Name,
		Path: path.Join(t.Path, _indexName+".html"),
	})
	if err := g.renderTrees(crumbs, t.Children, stats); err != nil {
		return err
	}

	if hasIndexPage(t.Children) {
		return nil
	}

	idx := html.Index{
		Path:        path.Join(t.Path, _indexName+".html"),
		Pages:       pageLinks(t.Children),
		Breadcrumbs: crumbs[:len(crumbs)-1],
	}
	if t.Value != nil {
		idx.Title = t.Value.Doc.Title
		idx.Description = t.Value.Doc.Description
	}
	if err := g.renderIndex(&idx); err != nil {
		return err
	}
	stats.Indexes++
	return nil
}

func (g *Generator) renderPage(crumbs []html.Breadcrumb, t pageTree) (err error) {
	doc := t.Value.Doc
	outPath := t.Path + ".html"
	g.Logger.Info("Rendering", zap.String("file", t.Value.Source.File), zap.String("out", outPath))

	f, err := g.create(outPath)
	if err != nil {
		return err
	}
	defer errdefer.Close(&err, f)

	info := html.PageInfo{
		Path:        outPath,
		Title:       doc.Title,
		Description: doc.Description,
		Params:      doc.Params,
		Body:        template.HTML(doc.Body),
		Breadcrumbs: withHome(crumbs),
	}
	if err := g.Renderer.RenderPage(f, &info); err != nil {
		return errtrace.Errorf("render %v: %w", t.Value.Source.File, err)
	}
	return nil
}

func (g *Generator) renderIndex(idx *html.Index) (err error) {
	g.Logger.Info("Rendering index", zap.String("out", idx.Path))

	f, err := g.create(idx.Path)
	if err != nil {
		return err
	}
	defer errdefer.Close(&err, f)

	if idx.Dir() != "" {
		idx.Breadcrumbs = withHome(idx.Breadcrumbs)
	}
	if err := g.Renderer.RenderIndex(f, idx); err != nil {
		return errtrace.Errorf("render index %v: %w", idx.Path, err)
	}
	return nil
}

func (g *Generator) create(outPath string) (*os.File, error) {
	p := filepath.Join(g.OutDir, filepath.FromSlash(outPath))
	if err := os.MkdirAll(filepath.Dir(p), 0o1755); err != nil {
		return nil, errtrace.Wrap(err)
	}
	f, err := os.Create(p)
	return f, errtrace.Wrap(err)
}

// withHome prefixes the trail with a link to the top level index.
func withHome(crumbs []html.Breadcrumb) []html.Breadcrumb {
	out := make([]html.Breadcrumb, 0, len(crumbs)+1)
	out = append(out, html.Breadcrumb{Text: _homeText, Path: _indexName + ".html"})
	return append(out, crumbs...)
}

func hasIndexPage(trees []pageTree) bool {
	for _, t := range trees {
		if t.Name == _indexName && t.Value != nil {
			return true
		}
	}
	return false
}

// pageLinks lists the entries of a directory.
// A document and a directory with the same name get an entry each.
func pageLinks(trees []pageTree) []html.PageLink {
	links := make([]html.PageLink, 0, len(trees))
	for _, t := range trees {
		if t.Value != nil {
			links = append(links, html.PageLink{
				Path:        t.Path + ".html",
				Title:       t.Value.Doc.Title,
				Description: t.Value.Doc.Description,
			})
		}
		if t.IsDir() {
			links = append(links, html.PageLink{
				Path:  path.Join(t.Path, _indexName+".html"),
				Title: t.Name,
				Dir:   true,
			})
		}
	}
	return links
}

// logProblems reports problems at a zap level matching their severity.
func logProblems(log *zap.Logger, file string, probs []*markup.Problem) {
	for _, p := range probs {
		lvl := zap.WarnLevel
		switch p.Level {
		case markup.Info:
			lvl = zap.InfoLevel
		case markup.Error, markup.Severe:
			lvl = zap.ErrorLevel
		}
		log.Log(lvl, p.Message, problemFields(file, p)...)
	}
}

func problemFields(file string, p *markup.Problem) []zap.Field {
	return []zap.Field{
		zap.String("file", file),
		zap.Int("line", p.Line),
		zap.Stringer("level", p.Level),
	}
}
