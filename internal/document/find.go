package document

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"braces.dev/errtrace"
)

// Extensions of files treated as documents
// when searching directories.
var _sourceExts = map[string]struct{}{
	".md":       {},
	".markdown": {},
	".rst":      {},
	".txt":      {},
}

// Source is a document source file found on disk.
type Source struct {
	// File is the path to the file on disk.
	File string

	// Path is the /-separated output path of the document
	// without an extension, e.g. "guide/install".
	Path string
}

// Find searches the given files and directories for document sources.
//
// Files passed in directly are used as-is regardless of extension
// and are placed at the top level of the output.
// Directories are walked recursively for files with known extensions,
// and their sources are placed relative to the directory.
// Hidden files and directories are skipped.
//
// It's an error for two sources to map to the same output path.
func Find(paths ...string) ([]*Source, error) {
	var (
		srcs []*Source
		seen = make(map[string]string) // output path -> file
	)
	add := func(file, rel string) error {
		p := strings.TrimSuffix(rel, path.Ext(rel))
		if prev, ok := seen[p]; ok {
			return errtrace.Errorf("%v and %v both render to %q", prev, file, p)
		}
		seen[p] = file
		srcs = append(srcs, &Source{File: file, Path: p})
		return nil
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}

		if !info.IsDir() {
			if err := add(root, filepath.Base(root)); err != nil {
				return nil, err
			}
			continue
		}

		err = filepath.WalkDir(root, func(file string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if file != root && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := _sourceExts[strings.ToLower(filepath.Ext(file))]; !ok {
				return nil
			}

			rel, err := filepath.Rel(root, file)
			if err != nil {
				return err
			}
			return add(file, filepath.ToSlash(rel))
		})
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
	}

	sort.Slice(srcs, func(i, j int) bool {
		return srcs[i].Path < srcs[j].Path
	})
	return srcs, nil
}
