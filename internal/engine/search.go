package engine

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"coclass/internal/models"
)

// Lookup walks code from the dimension root, one character per level.
func (t *CodeTree) Lookup(dimension, code string) (*Node, bool) {
	node, ok := t.roots[dimension]
	if !ok {
		return nil, false
	}
	for _, c := range code {
		if node, ok = node.children[string(c)]; !ok {
			return nil, false
		}
	}
	return node, true
}

// Match is the result of a term search.
type Match struct {
	Dimension string
	// Code is the cumulative code of the matched node.
	Code   string
	Levels []models.Level
	Entry  models.Entry
}

// FindTerm searches depth first for an entry whose term equals term,
// ignoring case. At each child the term is tested before the search descends
// into it. Siblings are visited in the order the front end enumerates object
// keys: array-index keys ("0", "7", "12") ascending, then the rest in
// insertion order.
func (t *CodeTree) FindTerm(term string) (*Match, bool) {
	target := strings.ToLower(term)
	for _, d := range searchOrder(t.dims) {
		if m, ok := findIn(t.roots[d], target, nil); ok {
			m.Dimension = d
			return m, true
		}
	}
	return nil, false
}

func findIn(n *Node, target string, stack []models.Level) (*Match, bool) {
	for _, k := range searchOrder(n.keys) {
		child := n.children[k]
		level := models.Level{Code: k}
		if child.entry != nil {
			level.Term = child.entry.Term
			if strings.ToLower(child.entry.Term) == target {
				levels := append(append([]models.Level(nil), stack...), level)
				return &Match{
					Code:   cumulativeCode(levels),
					Levels: levels,
					Entry:  *child.entry,
				}, true
			}
		}
		if m, ok := findIn(child, target, append(stack, level)); ok {
			return m, true
		}
	}
	return nil, false
}

// searchOrder returns keys with array-index keys first, ascending, and the
// other keys after them in their original order.
func searchOrder(keys []string) []string {
	out := slices.Clone(keys)
	slices.SortStableFunc(out, func(a, b string) int {
		ai, aok := arrayIndex(a)
		bi, bok := arrayIndex(b)
		switch {
		case aok && bok:
			return cmp.Compare(ai, bi)
		case aok:
			return -1
		case bok:
			return 1
		}
		return 0
	})
	return out
}

// arrayIndex reports whether k is the canonical decimal form of an integer
// below 2^32-1.
func arrayIndex(k string) (uint64, bool) {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(k); i++ {
		if k[i] < '0' || k[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(k, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, false
	}
	return n, true
}

func cumulativeCode(levels []models.Level) string {
	var sb strings.Builder
	for _, l := range levels {
		sb.WriteString(l.Code)
	}
	return sb.String()
}

// PathString renders the match as "dimension >> A:term >> AB:term".
func (m *Match) PathString() string {
	var sb strings.Builder
	sb.WriteString(m.Dimension)
	code := ""
	for _, l := range m.Levels {
		code += l.Code
		sb.WriteString(" >> ")
		sb.WriteString(code)
		sb.WriteString(":")
		sb.WriteString(l.Term)
	}
	return sb.String()
}

// Synonyms returns the entry's synonyms in lower case. An entry whose first
// synonym is empty has none.
func (m *Match) Synonyms() []string {
	syns := m.Entry.Syns
	if len(syns) == 0 || syns[0] == "" {
		return []string{}
	}
	out := make([]string, len(syns))
	for i, s := range syns {
		out[i] = strings.ToLower(s)
	}
	return out
}

func (m *Match) View() models.TermMatch {
	return models.TermMatch{
		Dimension: m.Dimension,
		Code:      m.Code,
		Levels:    m.Levels,
		Entry:     m.Entry,
		Path:      m.PathString(),
		Synonyms:  m.Synonyms(),
	}
}

// View describes the node at code, including its child keys.
func (n *Node) View(dimension, code string) models.CodeView {
	v := models.CodeView{Dimension: dimension, Code: code, Children: n.Keys()}
	if e, ok := n.Entry(); ok {
		v.Entry = &e
	}
	return v
}
