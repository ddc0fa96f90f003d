// Package markup adds reStructuredText-style interpreted text roles
// and directives to goldmark.
//
// Roles are inline extensions written as
//
//	:name:`text`
//
// Directives are block extensions written as an explicit markup line
// followed by optional option lines and an indented content block.
//
//	.. name:: arguments
//	   :option: value
//
//	   content
//
// Roles and directives are looked up by name in a [Registry].
// Packages that provide them typically register into [Default]
// from an init function so that importing them is enough to use them:
//
//	import _ "go.abhg.dev/rolemark/extras"
//
//	md := goldmark.New(goldmark.WithExtensions(markup.New()))
//
// Roles and directives produce ordinary goldmark nodes.
// [Raw] and [RawBlock] nodes hold output that is written verbatim
// for a single output format.
package markup
