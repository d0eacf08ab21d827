// Package trie implements the path segment tree used by the router.
//
// Paths are split on '/' and every resulting segment, including the empty
// segments produced by a leading slash or by repeated slashes, is an exact
// key. There is no parameter or wildcard matching.
package trie

import "strings"

const separator = "/"

// Node is one segment of a registered path.
// A node with children and no value is an intermediate node.
type Node[V any] struct {
	children map[string]*Node[V]
	value    V
	hasValue bool
}

func newNode[V any]() *Node[V] {
	return &Node[V]{children: make(map[string]*Node[V])}
}

// Tree is a segment trie holding one value per exact path.
type Tree[V any] struct {
	root *Node[V]
}

// New returns an empty tree.
func New[V any]() *Tree[V] {
	return &Tree[V]{root: newNode[V]()}
}

// Insert stores v at the node reached by path, creating any missing
// segments on the way. A value already stored there is overwritten.
func (t *Tree[V]) Insert(path string, v V) {
	n := t.root

	for _, seg := range strings.Split(path, separator) {
		child, ok := n.children[seg]
		if !ok {
			child = newNode[V]()
			n.children[seg] = child
		}
		n = child
	}

	n.value = v
	n.hasValue = true
}

// Search returns the value stored for path.
// The second return value is false if any segment is missing or if the
// final node is only a prefix of other paths.
func (t *Tree[V]) Search(path string) (v V, ok bool) {
	n := t.root

	for _, seg := range strings.Split(path, separator) {
		child, found := n.children[seg]
		if !found {
			return v, false
		}
		n = child
	}

	if !n.hasValue {
		return v, false
	}

	return n.value, true
}
