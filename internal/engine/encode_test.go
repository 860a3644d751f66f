package engine

import (
	"strings"
	"testing"

	"coclass/internal/models"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeExample(t *testing.T) {
	rows, err := LoadRows(strings.NewReader(
		"dimension;code;term;description;synonyms\n" +
			"Dim1;12;Term A;Desc A;syn1, syn2\n" +
			"Dim1;13;Term B;Desc B;\n"))
	require.NoError(t, err)

	tree, err := Build(rows, BuildOptions{})
	require.NoError(t, err)

	doc, err := Encode(tree, true)
	require.NoError(t, err)

	want := `{"Dim1": {"1": {"2": {"term": "Term A", "desc": "Desc A", "syns": ["syn1", "syn2"]}, "3": {"term": "Term B", "desc": "Desc B", "syns": [""]}}}}`
	assert.Equal(t, want, string(doc))
}

func TestEncodeKeepsInsertionOrder(t *testing.T) {
	tree, err := Build([]models.Row{
		row("Zeta", "B", "b", "", ""),
		row("Alpha", "9", "nine", "", ""),
		row("Zeta", "A", "a", "", ""),
		row("Zeta", "AC", "ac", "", ""),
	}, BuildOptions{})
	require.NoError(t, err)

	doc, err := Encode(tree, false)
	require.NoError(t, err)

	want := `{"Zeta": {"B": {"term": "b", "desc": "", "syns": [""]}, ` +
		`"A": {"term": "a", "desc": "", "syns": [""], "C": {"term": "ac", "desc": "", "syns": [""]}}}, ` +
		`"Alpha": {"9": {"term": "nine", "desc": "", "syns": [""]}}}`
	assert.Equal(t, want, string(doc))
}

func TestEncodeEmptyTree(t *testing.T) {
	doc, err := Encode(NewCodeTree(), true)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(doc))
}

func TestEncodeEnsureASCII(t *testing.T) {
	tree, err := Build([]models.Row{
		row("Funktionella system", "", "Värme <&>", "Kylsystem 😀", "ånga"),
	}, BuildOptions{})
	require.NoError(t, err)

	doc, err := Encode(tree, true)
	require.NoError(t, err)
	assert.Equal(t,
		`{"Funktionella system": {"1": {"term": "V\u00e4rme <&>", "desc": "Kylsystem \ud83d\ude00", "syns": ["\u00e5nga"]}}}`,
		string(doc))

	raw, err := Encode(tree, false)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Värme <&>")
	assert.JSONEq(t, string(raw), string(doc))
}

func TestEscapeNonASCII(t *testing.T) {
	assert.Equal(t, `"abc"`, string(EscapeNonASCII([]byte(`"abc"`))))
	assert.Equal(t, `"\u00f6"`, string(EscapeNonASCII([]byte(`"ö"`))))
	assert.Equal(t, `"\u20ac"`, string(EscapeNonASCII([]byte(`"€"`))))
	assert.Equal(t, `"\ud834\udd1e"`, string(EscapeNonASCII([]byte(`"𝄞"`))))
	assert.Equal(t, "\"a\\u007fb\"", string(EscapeNonASCII([]byte("\"a\x7fb\""))))
	assert.Equal(t, `"\b\f\u0001"`, string(EscapeNonASCII([]byte(`"\u0008\u000c\u0001"`))))
	// an escaped backslash followed by u0008 is text, not an escape
	assert.Equal(t, `"\\u0008"`, string(EscapeNonASCII([]byte(`"\\u0008"`))))
}

func TestEncodeControlCharacters(t *testing.T) {
	tree, err := Build([]models.Row{
		row("Dim", "A", "a\bb\x7f", "form\ffeed", "x\x01"),
	}, BuildOptions{})
	require.NoError(t, err)

	doc, err := Encode(tree, true)
	require.NoError(t, err)
	assert.Equal(t, `{"Dim": {"A": {"term": "a\bb\u007f", "desc": "form\ffeed", "syns": ["x\u0001"]}}}`, string(doc))

	raw, err := Encode(tree, false)
	require.NoError(t, err)
	assert.Equal(t, "{\"Dim\": {\"A\": {\"term\": \"a\\bb\x7f\", \"desc\": \"form\\ffeed\", \"syns\": [\"x\\u0001\"]}}}", string(raw))
}

func TestNodeMarshalJSON(t *testing.T) {
	tree, err := Build([]models.Row{
		row("Dim", "A", "Parent", "", "p"),
		row("Dim", "AB", "Child", "", ""),
	}, BuildOptions{})
	require.NoError(t, err)

	node, ok := tree.Lookup("Dim", "A")
	require.True(t, ok)

	b, err := node.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"term": "Parent", "desc": "", "syns": ["p"], "B": {"term": "Child", "desc": "", "syns": [""]}}`, string(b))

	// encoders compact Marshaler output; the content is unchanged
	compact, err := json.Marshal(node)
	require.NoError(t, err)
	assert.JSONEq(t, string(b), string(compact))
}
