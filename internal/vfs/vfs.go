// Package vfs is the read-only in-memory filesystem behind the portfolio terminal.
package vfs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a path does not resolve to a node.
var ErrNotFound = errors.New("not found")

// Node is either a directory with ordered children or a file with text content.
type Node struct {
	Name     string
	Content  string
	children []*Node
	dir      bool
}

// Dir builds a directory node. Children keep the order they are given in;
// a later child with a duplicate name is dropped.
func Dir(name string, children ...*Node) *Node {
	n := &Node{Name: name, dir: true}
	seen := make(map[string]bool, len(children))
	for _, c := range children {
		if c == nil || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		n.children = append(n.children, c)
	}
	return n
}

// File builds a file node.
func File(name, content string) *Node {
	return &Node{Name: name, Content: content}
}

func (n *Node) IsDir() bool { return n.dir }

// Child returns the direct child with the given name.
func (n *Node) Child(name string) (*Node, bool) {
	for _, c := range n.children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Names returns the child names in definition order.
func (n *Node) Names() []string {
	names := make([]string, 0, len(n.children))
	for _, c := range n.children {
		names = append(names, c.Name)
	}
	return names
}

// FS is an immutable tree rooted at an unnamed directory.
type FS struct {
	root *Node
}

// New wraps root. root must be a directory.
func New(root *Node) *FS {
	if root == nil || !root.dir {
		root = Dir("")
	}
	return &FS{root: root}
}

// Resolve walks path from the root. Every segment but the last must be a
// directory.
func (f *FS) Resolve(path []string) (*Node, error) {
	node := f.root
	for i, seg := range path {
		if !node.dir {
			return nil, fmt.Errorf("%s: %w", Join(path[:i+1]), ErrNotFound)
		}
		next, ok := node.Child(seg)
		if !ok {
			return nil, fmt.Errorf("%s: %w", Join(path[:i+1]), ErrNotFound)
		}
		node = next
	}
	return node, nil
}

// ResolveDir is Resolve restricted to directories.
func (f *FS) ResolveDir(path []string) (*Node, error) {
	n, err := f.Resolve(path)
	if err != nil {
		return nil, err
	}
	if !n.dir {
		return nil, fmt.Errorf("%s: not a directory: %w", Join(path), ErrNotFound)
	}
	return n, nil
}

// List returns the names under the directory at path.
func (f *FS) List(path []string) ([]string, error) {
	n, err := f.ResolveDir(path)
	if err != nil {
		return nil, err
	}
	return n.Names(), nil
}

// Join renders path the way pwd prints it.
func Join(path []string) string {
	return "/" + strings.Join(path, "/")
}
