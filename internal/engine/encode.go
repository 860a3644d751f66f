package engine

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// Separators of the generated document, the same as the classification
// front end has always been served.
const (
	itemSep = ", "
	keySep  = ": "
)

// MarshalJSON writes the tree as one object keyed by dimension. Dimensions
// and codes keep the order they were first seen in the input.
func (t *CodeTree) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 4096)
	buf = append(buf, '{')
	for i, d := range t.dims {
		if i > 0 {
			buf = append(buf, itemSep...)
		}
		var err error
		if buf, err = appendKey(buf, d); err != nil {
			return nil, err
		}
		if buf, err = t.roots[d].appendJSON(buf); err != nil {
			return nil, fmt.Errorf("dimension %q: %w", d, err)
		}
	}
	return append(buf, '}'), nil
}

// MarshalJSON writes the node alone. Encoders that compact Marshaler output
// drop the separator spaces; call it directly to keep them.
func (n *Node) MarshalJSON() ([]byte, error) {
	return n.appendJSON(nil)
}

// appendJSON writes the entry fields first, then children, mirroring the
// order in which a parent row precedes the rows nested under it.
func (n *Node) appendJSON(buf []byte) ([]byte, error) {
	var err error
	buf = append(buf, '{')
	first := true
	next := func() {
		if !first {
			buf = append(buf, itemSep...)
		}
		first = false
	}

	if n.entry != nil {
		for _, f := range [...]struct{ key, val string }{
			{"term", n.entry.Term},
			{"desc", n.entry.Desc},
		} {
			next()
			if buf, err = appendKey(buf, f.key); err != nil {
				return nil, err
			}
			if buf, err = appendString(buf, f.val); err != nil {
				return nil, err
			}
		}
		next()
		if buf, err = appendKey(buf, "syns"); err != nil {
			return nil, err
		}
		if buf, err = appendStrings(buf, n.entry.Syns); err != nil {
			return nil, err
		}
	}
	for _, k := range n.keys {
		next()
		if buf, err = appendKey(buf, k); err != nil {
			return nil, err
		}
		if buf, err = n.children[k].appendJSON(buf); err != nil {
			return nil, err
		}
	}
	return append(buf, '}'), nil
}

func appendKey(buf []byte, key string) ([]byte, error) {
	buf, err := appendString(buf, key)
	if err != nil {
		return nil, err
	}
	return append(buf, keySep...), nil
}

func appendStrings(buf []byte, ss []string) ([]byte, error) {
	var err error
	buf = append(buf, '[')
	for i, s := range ss {
		if i > 0 {
			buf = append(buf, itemSep...)
		}
		if buf, err = appendString(buf, s); err != nil {
			return nil, err
		}
	}
	return append(buf, ']'), nil
}

func appendString(buf []byte, s string) ([]byte, error) {
	b, err := json.MarshalNoEscape(s)
	if err != nil {
		return nil, err
	}
	return append(buf, b...), nil
}

// Encode serializes the tree. With ensureASCII every character outside
// printable ASCII is written as a \uXXXX escape (surrogate pairs above the
// BMP).
func Encode(t *CodeTree, ensureASCII bool) ([]byte, error) {
	b, err := t.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return rewriteEscapes(b, ensureASCII), nil
}

// EscapeNonASCII rewrites an encoded JSON document so that it is pure
// ASCII: DEL and non-ASCII characters become \uXXXX escapes.
func EscapeNonASCII(doc []byte) []byte {
	return rewriteEscapes(doc, true)
}

// rewriteEscapes uses the short forms \b and \f for backspace and form feed
// and, with ascii set, escapes DEL and everything above it. Outside strings
// valid JSON is pure ASCII, so the whole document is rewritten at once;
// existing escapes are copied through so an escaped backslash is never
// taken for the start of an escape.
func rewriteEscapes(doc []byte, ascii bool) []byte {
	out := make([]byte, 0, len(doc))
	for i := 0; i < len(doc); {
		c := doc[i]
		switch {
		case c == '\\' && i+1 < len(doc):
			if doc[i+1] == 'u' && i+6 <= len(doc) {
				switch {
				case bytes.EqualFold(doc[i:i+6], []byte(`\u0008`)):
					out = append(out, '\\', 'b')
				case bytes.EqualFold(doc[i:i+6], []byte(`\u000c`)):
					out = append(out, '\\', 'f')
				default:
					out = append(out, doc[i:i+6]...)
				}
				i += 6
				continue
			}
			out = append(out, doc[i:i+2]...)
			i += 2
		case c == 0x7F && ascii:
			out = appendEscape(out, rune(c))
			i++
		case c < utf8.RuneSelf || !ascii:
			out = append(out, c)
			i++
		default:
			r, size := utf8.DecodeRune(doc[i:])
			i += size
			if r > 0xFFFF {
				hi, lo := utf16.EncodeRune(r)
				out = appendEscape(out, hi)
				out = appendEscape(out, lo)
				continue
			}
			out = appendEscape(out, r)
		}
	}
	return out
}

func appendEscape(out []byte, r rune) []byte {
	hex := strconv.FormatInt(int64(r), 16)
	out = append(out, '\\', 'u')
	for i := len(hex); i < 4; i++ {
		out = append(out, '0')
	}
	return append(out, hex...)
}
