package markup

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"braces.dev/errtrace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

// newTestRegistry builds a registry with a few roles and directives
// that exercise the extension without depending on extras.
func newTestRegistry(t *testing.T) *Registry {
	reg := NewRegistry()

	require.NoError(t, reg.RegisterRole("upper", RoleFunc(func(call *RoleCall) ([]ast.Node, error) {
		return []ast.Node{NewRaw(FormatHTML, []byte(call.HTML(strings.ToUpper(call.Text))))}, nil
	})))

	require.NoError(t, reg.RegisterRole("pair", RoleFunc(func(call *RoleCall) ([]ast.Node, error) {
		v := []byte("[" + call.Text + "]")
		return []ast.Node{NewRaw(FormatHTML, v), NewRaw(FormatHTML, v)}, nil
	})))

	require.NoError(t, reg.RegisterRole("latex", RoleFunc(func(call *RoleCall) ([]ast.Node, error) {
		return []ast.Node{NewRaw("latex", []byte(call.Text))}, nil
	})))

	require.NoError(t, reg.RegisterRole("fail", RoleFunc(func(call *RoleCall) ([]ast.Node, error) {
		return nil, errtrace.New("great sadness")
	})))

	require.NoError(t, reg.RegisterDirective("box", DirectiveFunc(DirectiveSpec{
		RequiredArguments:       1,
		OptionalArguments:       1,
		FinalArgumentWhitespace: true,
		Options: map[string]OptionConverter{
			"class": Class,
			"width": NonNegativeInt,
		},
		HasContent: true,
	}, func(call *DirectiveCall) ([]ast.Node, error) {
		classes := []string{"box"}
		if cs, ok := call.Options["class"].([]string); ok {
			classes = append(classes, cs...)
		}
		width, _ := call.Options["width"].(int)
		html := fmt.Sprintf(`<div class="%s" title="%s" data-width="%d">%s</div>`,
			strings.Join(classes, " "),
			strings.Join(call.Arguments, "|"),
			width,
			call.HTML(strings.Join(call.Content, " ")),
		)
		return []ast.Node{NewRawBlock(FormatHTML, []byte(html))}, nil
	})))

	require.NoError(t, reg.RegisterDirective("lines", DirectiveFunc(DirectiveSpec{
		HasContent: true,
	}, func(call *DirectiveCall) ([]ast.Node, error) {
		if err := call.AssertHasContent(); err != nil {
			return nil, err
		}
		html := "<pre>" + strings.Join(call.Content, "|") + "</pre>"
		return []ast.Node{NewRawBlock(FormatHTML, []byte(html))}, nil
	})))

	require.NoError(t, reg.RegisterDirective("pick", DirectiveFunc(DirectiveSpec{
		RequiredArguments: 1,
	}, func(call *DirectiveCall) ([]ast.Node, error) {
		return []ast.Node{NewRawBlock(FormatHTML, []byte("<b>"+call.Arguments[0]+"</b>"))}, nil
	})))

	require.NoError(t, reg.RegisterDirective("note", DirectiveFunc(DirectiveSpec{
		HasContent: true,
	}, func(call *DirectiveCall) ([]ast.Node, error) {
		return nil, &Problem{Level: Info, Message: "just so you know"}
	})))

	return reg
}

func convert(t *testing.T, src string, opts ...Option) (string, []*Problem) {
	t.Helper()

	md := goldmark.New(goldmark.WithExtensions(New(opts...)))
	pc := parser.NewContext()

	var buff bytes.Buffer
	require.NoError(t, md.Convert([]byte(src), &buff, parser.WithContext(pc)))
	return buff.String(), Problems(pc)
}

func TestExtension_roles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give string
		opts []Option
		want string

		wantProblems []string
	}{
		{
			desc: "simple",
			give: "A :upper:`shout` here.\n",
			want: "<p>A SHOUT here.</p>\n",
		},
		{
			desc: "start of line",
			give: ":upper:`first`\n",
			want: "<p>FIRST</p>\n",
		},
		{
			desc: "inside punctuation",
			give: "(:upper:`aside`).\n",
			want: "<p>(ASIDE).</p>\n",
		},
		{
			desc: "name is case insensitive",
			give: ":UPPER:`x`\n",
			want: "<p>X</p>\n",
		},
		{
			desc: "escaped backquote",
			give: ":upper:`a\\`b`\n",
			want: "<p>A`B</p>\n",
		},
		{
			desc: "raw text is not escaped",
			give: ":upper:`<i>`\n",
			want: "<p><I></p>\n",
		},
		{
			desc: "text escaping",
			give: ":upper:`<i>`\n",
			opts: []Option{WithTextEscaping()},
			want: "<p>&lt;I&gt;</p>\n",
		},
		{
			desc: "preceded by a letter",
			give: "a:upper:`b`\n",
			want: "<p>a:upper:<code>b</code></p>\n",
		},
		{
			desc: "followed by a letter",
			give: ":upper:`a`b\n",
			want: "<p>:upper:<code>a</code>b</p>\n",
		},
		{
			desc: "unterminated",
			give: "see :upper:`oops\n",
			want: "<p>see :upper:`oops</p>\n",
		},
		{
			desc: "multiple nodes",
			give: ":pair:`x`\n",
			want: "<p>[x][x]</p>\n",
		},
		{
			desc: "other format",
			give: "a :latex:`\\LaTeX` b\n",
			want: "<p>a  b</p>\n",
		},
		{
			desc: "unknown role",
			give: "x :nope:`y` z\n",
			want: "<p>x <span class=\"problematic\">:nope:`y`</span> z</p>\n",
			wantProblems: []string{
				`line 1: Unknown interpreted text role "nope".`,
			},
		},
		{
			desc: "failing role",
			give: "first\n\nthen :fail:`<x>`\n",
			want: "<p>first</p>\n<p>then <span class=\"problematic\">:fail:`&lt;x&gt;`</span></p>\n",
			wantProblems: []string{
				"line 3: great sadness",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			opts := append([]Option{WithRegistry(newTestRegistry(t))}, tt.opts...)
			got, problems := convert(t, tt.give, opts...)
			assert.Equal(t, tt.want, got)

			var gotProblems []string
			for _, p := range problems {
				gotProblems = append(gotProblems, p.Error())
			}
			assert.Equal(t, tt.wantProblems, gotProblems)
		})
	}
}

func TestExtension_directives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give string
		opts []Option
		want string

		wantProblems []string
	}{
		{
			desc: "content",
			give: ".. lines::\n\n   one\n   two\n",
			want: "<pre>one|two</pre>\n",
		},
		{
			desc: "content on the marker line",
			give: ".. lines:: one\n   two\n",
			want: "<pre>one|two</pre>\n",
		},
		{
			desc: "interior blank lines",
			give: ".. lines::\n\n   one\n\n     two\n\n",
			want: "<pre>one||  two</pre>\n",
		},
		{
			desc: "followed by a paragraph",
			give: "Before.\n\n.. lines::\n\n   body\n\nAfter.\n",
			want: "<p>Before.</p>\n<pre>body</pre>\n<p>After.</p>\n",
		},
		{
			desc: "does not interrupt a paragraph",
			give: "Before.\n.. lines:: x\n",
			want: "<p>Before.\n.. lines:: x</p>\n",
		},
		{
			desc: "arguments and options",
			give: ".. box:: note  extra words\n" +
				"   :class: Wide Tall\n" +
				"   :width: 3\n" +
				"\n" +
				"   Body line\n",
			want: `<div class="box wide tall" title="note|extra words" data-width="3">Body line</div>` + "\n",
		},
		{
			desc: "text escaping",
			give: ".. box:: x\n\n   <b>\n",
			opts: []Option{WithTextEscaping()},
			want: `<div class="box" title="x" data-width="0">&lt;b&gt;</div>` + "\n",
		},
		{
			desc: "not a directive",
			give: ".. this is a comment\n",
			want: "<p>.. this is a comment</p>\n",
		},
		{
			desc: "unknown directive",
			give: ".. nope:: x\n\n   body\n",
			want: `<div class="system-message">` + "\n" +
				`<p class="system-message-title">System Message: ERROR/3 (<tt>line 1</tt>)</p>` + "\n" +
				`<p>Unknown directive type &quot;nope&quot;.</p>` + "\n" +
				`<pre class="literal-block">.. nope:: x` + "\n\n" + `   body</pre>` + "\n" +
				"</div>\n",
			wantProblems: []string{
				`line 1: Unknown directive type "nope".`,
			},
		},
		{
			desc: "missing content",
			give: "text\n\n.. lines::\n",
			wantProblems: []string{
				`line 3: Content block expected for the "lines" directive; none found.`,
			},
		},
		{
			desc: "too many arguments",
			give: ".. pick:: a b\n",
			wantProblems: []string{
				"line 1: Error in \"pick\" directive:\nmaximum 1 argument(s) allowed, 2 supplied.",
			},
		},
		{
			desc: "missing argument",
			give: ".. pick::\n",
			wantProblems: []string{
				"line 1: Error in \"pick\" directive:\n1 argument(s) required, 0 supplied.",
			},
		},
		{
			desc: "unexpected content",
			give: ".. pick:: a\n\n   body\n",
			wantProblems: []string{
				"line 1: Error in \"pick\" directive:\nno content permitted.",
			},
		},
		{
			desc: "unknown option",
			give: ".. box:: a\n   :color: red\n",
			wantProblems: []string{
				"line 1: Error in \"box\" directive:\nunknown option: \"color\".",
			},
		},
		{
			desc: "below report level",
			give: ".. note::\n\n   hi\n",
			want: "",
			wantProblems: []string{
				"line 1: just so you know",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			opts := append([]Option{WithRegistry(newTestRegistry(t))}, tt.opts...)
			got, problems := convert(t, tt.give, opts...)
			if tt.want != "" || len(tt.wantProblems) == 0 {
				assert.Equal(t, tt.want, got)
			}

			var gotProblems []string
			for _, p := range problems {
				gotProblems = append(gotProblems, p.Error())
			}
			assert.Equal(t, tt.wantProblems, gotProblems)
		})
	}
}

func TestExtension_reportLevel(t *testing.T) {
	t.Parallel()

	src := ".. note::\n\n   hi\n"

	t.Run("default", func(t *testing.T) {
		t.Parallel()

		got, _ := convert(t, src, WithRegistry(newTestRegistry(t)))
		assert.NotContains(t, got, "system-message")
	})

	t.Run("info", func(t *testing.T) {
		t.Parallel()

		got, _ := convert(t, src, WithRegistry(newTestRegistry(t)), WithReportLevel(Info))
		assert.Contains(t, got, "System Message: INFO/1")
		assert.Contains(t, got, "just so you know")
	})

	t.Run("errors hidden", func(t *testing.T) {
		t.Parallel()

		got, problems := convert(t, ".. nope::\n", WithRegistry(newTestRegistry(t)), WithReportLevel(Severe))
		assert.Empty(t, got)
		require.Len(t, problems, 1)
		assert.Equal(t, Error, problems[0].Level)
	})
}

func TestExtension_problemsInSourceOrder(t *testing.T) {
	t.Parallel()

	src := "para :nope:`a`\n\n.. nope::\n\nmore :nope:`b`\n"
	_, problems := convert(t, src, WithRegistry(newTestRegistry(t)))

	var lines []int
	for _, p := range problems {
		lines = append(lines, p.Line)
	}
	assert.Equal(t, []int{1, 3, 5}, lines)
}

func TestExtension_defaultRegistry(t *testing.T) {
	// Not parallel: writes to the Default registry.
	role := RoleFunc(func(call *RoleCall) ([]ast.Node, error) {
		return []ast.Node{NewRaw(FormatHTML, []byte("<q>"+call.Text+"</q>"))}, nil
	})
	require.NoError(t, RegisterRole("test-quote", role))

	got, problems := convert(t, "say :test-quote:`hi`\n")
	assert.Equal(t, "<p>say <q>hi</q></p>\n", got)
	assert.Empty(t, problems)
}
