// Package document turns source files into rendered documents.
//
// A source file is Markdown with optional front matter
// (YAML between "---", TOML between "+++", or a JSON object).
// Roles and directives registered with the markup package
// are available inside the Markdown.
package document
