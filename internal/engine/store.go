package engine

import "coclass/internal/models"

// Node is one level of the code trie, keyed by a single code character.
// The node a code ends on carries an Entry. CoClass codes nest (A, AB, ABC),
// so a node may hold an Entry and children at the same time.
type Node struct {
	entry *models.Entry

	// keys keeps children in first-seen order for deterministic output.
	keys     []string
	children map[string]*Node
}

func newNode() *Node {
	return &Node{children: make(map[string]*Node)}
}

func (n *Node) Entry() (models.Entry, bool) {
	if n.entry == nil {
		return models.Entry{}, false
	}
	return *n.entry, true
}

func (n *Node) Child(key string) (*Node, bool) {
	c, ok := n.children[key]
	return c, ok
}

// Keys returns the child keys in insertion order.
func (n *Node) Keys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Count returns the number of entries in the subtree rooted at n.
func (n *Node) Count() int {
	total := 0
	if n.entry != nil {
		total++
	}
	for _, k := range n.keys {
		total += n.children[k].Count()
	}
	return total
}

func (n *Node) empty() bool {
	return n.entry == nil && len(n.keys) == 0
}

func (n *Node) childOrCreate(key string) *Node {
	if c, ok := n.children[key]; ok {
		return c
	}
	c := newNode()
	n.keys = append(n.keys, key)
	n.children[key] = c
	return c
}

// CodeTree maps dimension names to the root of their code trie.
type CodeTree struct {
	dims  []string
	roots map[string]*Node
}

func NewCodeTree() *CodeTree {
	return &CodeTree{roots: make(map[string]*Node)}
}

// Dimensions returns dimension names in the order they were first seen.
func (t *CodeTree) Dimensions() []string {
	out := make([]string, len(t.dims))
	copy(out, t.dims)
	return out
}

func (t *CodeTree) Root(dimension string) (*Node, bool) {
	r, ok := t.roots[dimension]
	return r, ok
}

// Count returns the number of entries across all dimensions.
func (t *CodeTree) Count() int {
	total := 0
	for _, d := range t.dims {
		total += t.roots[d].Count()
	}
	return total
}

func (t *CodeTree) rootOrCreate(dimension string) *Node {
	if r, ok := t.roots[dimension]; ok {
		return r
	}
	r := newNode()
	t.dims = append(t.dims, dimension)
	t.roots[dimension] = r
	return r
}
