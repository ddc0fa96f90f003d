package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"braces.dev/errtrace"
	"github.com/peterbourgon/ff/v3"
	"go.abhg.dev/rolemark/internal/document"
	"go.abhg.dev/rolemark/internal/flagvalue"
	"go.abhg.dev/rolemark/internal/highlight"
	"go.abhg.dev/rolemark/markup"
)

const _envPrefix = "ROLEMARK"

var (
	errHelp             = flag.ErrHelp
	errInvalidArguments = errors.New("invalid arguments")
)

// params holds all arguments for rolemark.
type params struct {
	version bool
	help    Help
	config  string

	Debug flagvalue.FileSwitch

	OutputDir string

	Embed       bool
	FrontMatter string
	Drafts      bool
	Pagefind    flagvalue.FileSwitch

	Extensions []extensionName
	StyleRoles []flagvalue.Pair
	Escape     bool
	Report     markup.Level
	Halt       markup.Level

	Highlight        string
	HighlightClasses bool

	Paths []string
}

// Stdin reports whether the document should be read from stdin.
func (p *params) Stdin() bool {
	return len(p.Paths) == 1 && p.Paths[0] == "-"
}

// cliParser parses the command line arguments for rolemark.
type cliParser struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (cmd *cliParser) newFlagSet() (*params, *flag.FlagSet) {
	flag := flag.NewFlagSet("rolemark", flag.ContinueOnError)
	flag.SetOutput(cmd.Stderr)
	flag.Usage = func() {
		_ = DefaultHelp.Write(cmd.Stderr)
	}

	p := params{
		Report: markup.Warning,
		Halt:   markup.Severe,
	}

	// Filesystem:
	flag.StringVar(&p.OutputDir, "out", "_site", "")

	// HTML output:
	flag.BoolVar(&p.Embed, "embed", false, "")
	flag.StringVar(&p.FrontMatter, "frontmatter", "", "")
	flag.BoolVar(&p.Drafts, "drafts", false, "")
	flag.Var(&p.Pagefind, "pagefind", "")
	flag.StringVar(&p.Highlight, "highlight", "plain", "")
	flag.BoolVar(&p.HighlightClasses, "highlight-classes", false, "")

	// Markup:
	flag.Var(flagvalue.ListOf(&p.Extensions), "ext", "")
	flag.Var(flagvalue.ListOf(&p.StyleRoles), "style-role", "")
	flag.BoolVar(&p.Escape, "escape", false, "")
	flag.Var(&p.Report, "report", "")
	flag.Var(&p.Halt, "halt", "")

	// Program-level:
	flag.Var(&p.Debug, "debug", "")
	flag.StringVar(&p.config, "config", "", "")
	flag.BoolVar(&p.version, "version", false, "")
	flag.Var(&p.help, "help", "")
	flag.Var(&p.help, "h", "")

	return &p, flag
}

func (cmd *cliParser) Parse(args []string) (*params, error) {
	p, flag := cmd.newFlagSet()

	err := ff.Parse(flag, args,
		ff.WithEnvVars(),
		ff.WithEnvVarPrefix(_envPrefix),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	)
	if err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errtrace.Wrap(err)
	}
	args = flag.Args()

	if p.version {
		fmt.Fprintln(cmd.Stdout, "rolemark", _version)
		return nil, errHelp
	}

	if p.help == DefaultHelp && len(args) > 0 {
		// The user might have done "-h foo"
		// instead of "-h=foo".
		// If the argument is a known help topic,
		// take it.
		var h Help
		if err := h.Set(args[0]); err == nil && h.Known() {
			p.help = h
		}
	}

	switch p.help {
	case NoHelp:
		// proceed as usual
	default:
		if err := p.help.Write(cmd.Stderr); err != nil {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errHelp
	}

	if _, ok := highlight.Style(p.Highlight); !ok {
		fmt.Fprintf(cmd.Stderr, "Unknown highlight style %q.\n", p.Highlight)
		return nil, errInvalidArguments
	}

	p.Paths = args
	if len(p.Paths) == 0 {
		fmt.Fprintln(cmd.Stderr, "Please provide at least one path.")
		_ = UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	}
	for _, path := range p.Paths {
		if path == "-" && len(p.Paths) > 1 {
			fmt.Fprintln(cmd.Stderr, "'-' cannot be combined with other paths.")
			return nil, errInvalidArguments
		}
	}

	return p, nil
}

// extensionName is the name of a goldmark extension
// accepted by the -ext flag.
type extensionName string

var _ flag.Getter = (*extensionName)(nil)

func (e *extensionName) Get() any       { return *e }
func (e *extensionName) String() string { return string(*e) }

func (e *extensionName) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, ok := document.Extension(s); !ok {
		return errtrace.Errorf("unknown extension %q: valid values are %q",
			s, document.ExtensionNames())
	}
	*e = extensionName(s)
	return nil
}
