// Package highlight provides support to highlight source code blocks
// in rendered documents.
// It uses the Chroma library to do this work.
//
// [Extension] plugs a [Highlighter] into goldmark
// so that fenced and indented code blocks are highlighted
// based on their info string.
package highlight
