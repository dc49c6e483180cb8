package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortedCompactKeys(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{
		"zeta":  1,
		"alpha": []any{"b", true, nil},
		"mid":   map[string]any{"y": Int(2), "x": Str("s")},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":["b",true,null],"mid":{"x":"s","y":2},"zeta":1}`, string(data))
}

func TestMarshalCanonical_NoHTMLEscape(t *testing.T) {
	data, err := MarshalCanonical("<a & b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(data))
}

func TestMarshalCanonical_RejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"f": 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")

	_, err = MarshalCanonical(Float(2))
	require.Error(t, err)
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// "e" + combining acute accent normalizes to the precomposed form.
	data, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(data))
}

func TestMarshalCanonical_LineSeparatorsNotEscaped(t *testing.T) {
	data, err := MarshalCanonical("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(data))
}

func TestMarshalCanonical_LiteralBackslashU2028Preserved(t *testing.T) {
	data, err := MarshalCanonical(`\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(data))
}

func TestMarshalCanonical_UTF16KeyOrder(t *testing.T) {
	// U+1F600 (surrogate pair D83D DE00) sorts before U+FF61 in UTF-16,
	// the reverse of their UTF-8 byte order.
	data, err := MarshalCanonical(map[string]any{"｡": 1, "\U0001F600": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"｡\":1}", string(data))
}

func TestMarshalCanonical_ListAndDictValues(t *testing.T) {
	d := NewDict()
	require.NoError(t, d.Set(Str("b"), NewList(Int(1), None)))
	require.NoError(t, d.Set(Str("a"), Bool(false)))

	data, err := MarshalCanonical(d)
	require.NoError(t, err)
	assert.Equal(t, `{"a":false,"b":[1,null]}`, string(data))
}

func TestMarshalCanonical_DictNonStringKey(t *testing.T) {
	d := NewDict()
	require.NoError(t, d.Set(Int(1), Int(1)))

	_, err := MarshalCanonical(d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "string keys")
}

func TestMarshalCanonical_Idempotent(t *testing.T) {
	in := map[string]any{"b": []any{1, "x"}, "a": "y"}
	first, err := MarshalCanonical(in)
	require.NoError(t, err)
	second, err := MarshalCanonical(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMarshalCanonical_RejectsCycles(t *testing.T) {
	l := NewList(Int(1))
	l.Items = append(l.Items, l)
	_, err := MarshalCanonical(l)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cyclic list")

	shared := NewList(Int(0))
	data, err := MarshalCanonical(NewList(shared, shared))
	require.NoError(t, err)
	assert.Equal(t, `[[0],[0]]`, string(data))
}
