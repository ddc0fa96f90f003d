// Package sitetree stores the pages of a generated site
// under their /-separated output paths
// so that directory listings can be built from them.
//
// Intermediate directories are created implicitly:
//
//	t.Set("guide/install", X)
//	t.Lookup("guide/install") // == X, true
//	t.Lookup("guide")         // == zero, false
//
// [Root.Snapshot] reports both pages and the directories holding them.
package sitetree

import (
	"sort"
	"strings"
)

const _sep = '/'

// Root is the starting point of the site tree.
// The zero-value of Root is an empty tree.
type Root[T any] struct {
	root node[T]
}

// Set adds a value to the tree under the given path.
// If this path already had a value specified, it will be overwritten.
func (r *Root[T]) Set(p string, v T) {
	r.root.set(p, &v)
}

// Lookup retrieves the value stored at exactly the given path.
// It reports false for paths that hold no value,
// including directories that only exist to hold other pages.
func (r *Root[T]) Lookup(p string) (v T, ok bool) {
	if n := r.root.find(p); n != nil && n.value != nil {
		return *n.value, true
	}
	return v, false
}

// Snapshot is a view of a node in the tree.
type Snapshot[T any] struct {
	// Value at this node,
	// or nil if this node is only a directory.
	Value *T

	// Path to this node.
	Path string

	// Name is the last component of Path.
	Name string

	// Children of this node, sorted by name.
	Children []Snapshot[T]
}

// IsDir reports whether this node holds other nodes.
func (s *Snapshot[T]) IsDir() bool {
	return len(s.Children) > 0
}

// Snapshot builds and returns a snapshot of all values in this tree.
//
// The returned slice holds nodes closest to root.
func (r *Root[T]) Snapshot() []Snapshot[T] {
	return r.root.snapshot(nil).Children
}

type node[T any] struct {
	name  string
	value *T

	// Sorted by name.
	children []*node[T]
}

func (n *node[T]) child(name string) (int, bool) {
	idx := sort.Search(len(n.children), func(i int) bool {
		return n.children[i].name >= name
	})
	return idx, idx < len(n.children) && n.children[idx].name == name
}

func (n *node[T]) set(p string, v *T) {
	if len(p) == 0 {
		n.value = v
		return
	}

	head, tail := split(p)
	idx, ok := n.child(head)
	if !ok {
		n.children = append(n.children, nil)
		copy(n.children[idx+1:], n.children[idx:])
		n.children[idx] = &node[T]{name: head}
	}
	n.children[idx].set(tail, v)
}

func (n *node[T]) find(p string) *node[T] {
	for len(p) > 0 {
		var head string
		head, p = split(p)
		idx, ok := n.child(head)
		if !ok {
			return nil
		}
		n = n.children[idx]
	}
	return n
}

func (n *node[T]) snapshot(path []string) Snapshot[T] {
	var children []Snapshot[T]
	if len(n.children) > 0 {
		children = make([]Snapshot[T], len(n.children))
		for i, c := range n.children {
			children[i] = c.snapshot(append(path, c.name))
		}
	}

	return Snapshot[T]{
		Value:    n.value,
		Path:     strings.Join(path, string(_sep)),
		Name:     n.name,
		Children: children,
	}
}

func split(p string) (head, tail string) {
	head, tail = p, ""
	if idx := strings.IndexByte(p, _sep); idx >= 0 {
		head, tail = p[:idx], p[idx+1:]
	}
	tail = strings.TrimLeft(tail, string(_sep))
	return head, tail
}
