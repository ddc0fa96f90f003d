// Package relative builds relative links between pages
// of a generated site.
package relative

import (
	"fmt"
	"path"
	"strings"
)

// Path returns a path to dst, relative to the directory src.
// Both paths must be relative or both paths must be absolute,
// and they must both be /-separated.
//
// This operation relies on string manipulation exclusively,
// so it doesn't fail.
// It returns "." if src and dst are the same directory.
func Path(src, dst string) string {
	if path.IsAbs(src) != path.IsAbs(dst) {
		panic(fmt.Sprintf("Path(%q, %q): both must be absolute, or both must be relative", src, dst))
	}

	srcParts := split(strings.TrimSuffix(src, "/"))
	dstParts := split(dst)

	var common int
	for common < len(srcParts) && common < len(dstParts) &&
		srcParts[common] == dstParts[common] {
		common++
	}

	parts := make([]string, 0, len(srcParts)-common+len(dstParts)-common)
	for range srcParts[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, dstParts[common:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

func split(p string) []string {
	if len(p) == 0 {
		return nil
	}
	return strings.Split(p, "/")
}
