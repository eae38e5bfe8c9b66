package ast

import "github.com/yaklabco/idiomlint/pkg/span"

// File is one compilation unit: its source text and its adapted tree.
type File struct {
	// Path is the source file path every span in the tree refers to.
	Path string

	// Language is the source language reported by the front end.
	Language string

	// Source is the original text with its line index.
	Source *span.Source

	// Root is the NodeFile at the top of the tree.
	Root *Node
}

// Snippet returns the source text covered by sp.
func (f *File) Snippet(sp span.Span) (string, bool) {
	if f == nil || f.Source == nil || sp.File != f.Path {
		return "", false
	}
	b, ok := f.Source.Snippet(sp)
	if !ok {
		return "", false
	}
	return string(b), true
}

// Content returns the raw source bytes, or nil.
func (f *File) Content() []byte {
	if f == nil || f.Source == nil {
		return nil
	}
	return f.Source.Content
}

// NodeCount returns the number of nodes in the tree.
func (f *File) NodeCount() int {
	count := 0
	//nolint:errcheck,revive // callback never fails
	Walk(f.Root, func(*Node) error {
		count++
		return nil
	})
	return count
}
