// rolemark renders Markdown documents that use reStructuredText-style
// roles and directives into HTML.
//
// See -help for usage.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"io"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	ttemplate "text/template"

	"braces.dev/errtrace"
	"github.com/yuin/goldmark"
	"go.abhg.dev/rolemark/extras"
	"go.abhg.dev/rolemark/internal/document"
	"go.abhg.dev/rolemark/internal/flagvalue"
	"go.abhg.dev/rolemark/internal/highlight"
	"go.abhg.dev/rolemark/internal/html"
	"go.abhg.dev/rolemark/internal/pagefind"
	"go.abhg.dev/rolemark/markup"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	cmd := mainCmd{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	exitCode := cmd.Run(ctx, os.Args[1:])
	stop()
	os.Exit(exitCode)
}

// errProblems is reported when documents have problems
// at or above the -halt level.
var errProblems = errors.New("problems found")

// mainCmd is the actual entry point to the program.
type mainCmd struct {
	Stdin  io.Reader // == os.Stdin
	Stdout io.Writer // == os.Stdout
	Stderr io.Writer // == os.Stderr
}

func (cmd *mainCmd) Run(ctx context.Context, args []string) (exitCode int) {
	opts, err := (&cliParser{
		Stdout: cmd.Stdout,
		Stderr: cmd.Stderr,
	}).Parse(args)
	if err != nil {
		// '$cmd -h' should exit with zero.
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		// No need to print anything.
		// Parse prints messages.
		return 1
	}

	logger, closeLog, err := newLogger(cmd.Stderr, &opts.Debug)
	if err != nil {
		fmt.Fprintf(cmd.Stderr, "rolemark: %v\n", err)
		return 1
	}
	defer func() { _ = closeLog() }()

	if err := cmd.run(ctx, logger, opts); err != nil {
		if !errors.Is(err, errProblems) {
			logger.Error("rolemark failed", zap.Error(err))
		}
		return 1
	}
	return 0
}

// newLogger builds the program's logger.
// Messages at info level and above go to stderr.
// If debug is set, debug messages go to its destination as well.
func newLogger(stderr io.Writer, debug *flagvalue.FileSwitch) (_ *zap.Logger, close func() error, _ error) {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	enc := zapcore.NewConsoleEncoder(encCfg)

	debugOut, closeDebug, err := debug.Sink(stderr)
	if err != nil {
		return nil, nil, errtrace.Errorf("open debug log: %w", err)
	}

	errOut := zapcore.AddSync(stderr)
	core := zapcore.NewTee(
		zapcore.NewCore(enc, errOut, zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.InfoLevel
		})),
		zapcore.NewCore(enc.Clone(), debugOut, zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			// Info and above already reached stderr.
			return lvl < zapcore.InfoLevel
		})),
	)

	logger := zap.New(core)
	return logger, func() error {
		_ = logger.Sync() // fails for terminals on some systems
		return errtrace.Wrap(closeDebug())
	}, nil
}

func (cmd *mainCmd) run(ctx context.Context, logger *zap.Logger, opts *params) error {
	reg := markup.Default.Clone()
	for _, sr := range opts.StyleRoles {
		if err := reg.RegisterRole(sr.Name, extras.StyleRole(sr.Value)); err != nil {
			return errtrace.Errorf("style role %q: %w", sr.Name, err)
		}
	}
	logger.Debug("Registered markup",
		zap.Strings("roles", reg.Roles()),
		zap.Strings("directives", reg.Directives()),
	)

	style, _ := highlight.Style(opts.Highlight) // validated by Parse
	hl := &highlight.Highlighter{
		Style:      style,
		UseClasses: opts.HighlightClasses,
	}

	markupOpts := []markup.Option{
		markup.WithRegistry(reg),
		markup.WithReportLevel(opts.Report),
	}
	if opts.Escape {
		markupOpts = append(markupOpts, markup.WithTextEscaping())
	}

	exts := []goldmark.Extender{
		markup.New(markupOpts...),
		&highlight.Extension{Highlighter: hl},
	}
	for _, name := range opts.Extensions {
		ext, _ := document.Extension(string(name)) // validated by Parse
		exts = append(exts, ext)
	}
	parser := &document.Parser{Markdown: document.NewMarkdown(exts...)}

	renderer := html.Renderer{
		Home:        "index.html",
		Embedded:    opts.Embed,
		Highlighter: hl,
		Pagefind:    opts.Pagefind.Bool() && !opts.Embed,
	}
	if opts.FrontMatter != "" {
		bs, err := os.ReadFile(opts.FrontMatter)
		if err != nil {
			return errtrace.Errorf("read front matter template: %w", err)
		}
		tmpl, err := ttemplate.New(filepath.Base(opts.FrontMatter)).Parse(string(bs))
		if err != nil {
			return errtrace.Errorf("bad front matter template: %w", err)
		}
		renderer.FrontMatter = tmpl
	}

	var maxLevel markup.Level
	if opts.Stdin() {
		lvl, err := cmd.renderStdin(logger, parser, &renderer)
		if err != nil {
			return err
		}
		maxLevel = lvl
	} else {
		srcs, err := document.Find(opts.Paths...)
		if err != nil {
			return errtrace.Wrap(err)
		}
		if len(srcs) == 0 {
			logger.Warn("No documents found", zap.Strings("paths", opts.Paths))
		}

		gen := Generator{
			Logger:   logger,
			Parser:   parser,
			Renderer: &renderer,
			OutDir:   opts.OutputDir,
			Drafts:   opts.Drafts,
		}
		stats, err := gen.Generate(srcs)
		if err != nil {
			return errtrace.Wrap(err)
		}
		logger.Info("Done",
			zap.Int("pages", stats.Pages),
			zap.Int("indexes", stats.Indexes),
			zap.Int("drafts", stats.Drafts),
			zap.Int("problems", stats.Problems),
		)
		maxLevel = stats.MaxLevel

		if renderer.Pagefind {
			cli := pagefind.CLI{Logger: logger}
			if exe := opts.Pagefind.String(); exe != "-" {
				cli.Pagefind = exe
			}
			err := cli.Index(ctx, pagefind.IndexRequest{
				SiteDir:     opts.OutputDir,
				AssetSubdir: path.Join(html.StaticDir, "pagefind"),
			})
			if err != nil {
				return errtrace.Wrap(err)
			}
		}
	}

	if maxLevel > 0 && maxLevel >= opts.Halt {
		logger.Error("Stopping: problems at or above halt level",
			zap.Stringer("level", maxLevel),
			zap.Stringer("halt", opts.Halt),
		)
		return errProblems
	}
	return nil
}

// renderStdin renders a single document from stdin to stdout.
func (cmd *mainCmd) renderStdin(logger *zap.Logger, parser *document.Parser, r *html.Renderer) (markup.Level, error) {
	src, err := io.ReadAll(cmd.Stdin)
	if err != nil {
		return 0, errtrace.Wrap(err)
	}

	doc, err := parser.Parse("stdin", src)
	if err != nil {
		return 0, errtrace.Wrap(err)
	}
	logProblems(logger, "<stdin>", doc.Problems)

	embedded := *r
	embedded.Embedded = true
	embedded.Pagefind = false
	err = embedded.RenderPage(cmd.Stdout, &html.PageInfo{
		Path:        "stdin.html",
		Title:       doc.Title,
		Description: doc.Description,
		Params:      doc.Params,
		Body:        template.HTML(doc.Body),
	})
	return doc.MaxLevel(), errtrace.Wrap(err)
}
