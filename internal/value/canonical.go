package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 style canonical JSON.
//
// It is used for trace snapshots that must be byte-identical across runs:
//   - object keys sorted by UTF-16 code units (not UTF-8 bytes)
//   - no HTML escaping, no insignificant whitespace
//   - strings NFC normalized
//   - floats rejected (their text form is not stable enough for snapshots)
//   - lists and dicts that contain themselves rejected
//
// Accepts Values as well as plain Go strings, ints, bools, nil, []any and
// map[string]any.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	e := canonicalEncoder{buf: &buf}
	if err := e.write(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type canonicalEncoder struct {
	buf    *bytes.Buffer
	active map[Value]bool
}

// enter marks container v as being encoded; a container already on the
// path is a cycle.
func (e *canonicalEncoder) enter(v Value) error {
	if e.active[v] {
		return fmt.Errorf("cyclic %s cannot be encoded as canonical JSON", TypeName(v))
	}
	if e.active == nil {
		e.active = make(map[Value]bool)
	}
	e.active[v] = true
	return nil
}

func (e *canonicalEncoder) write(v any) error {
	buf := e.buf
	switch val := v.(type) {
	case nil, NoneType:
		buf.WriteString("null")
	case Bool:
		writeBool(buf, bool(val))
	case bool:
		writeBool(buf, val)
	case Int:
		fmt.Fprintf(buf, "%d", int64(val))
	case int:
		fmt.Fprintf(buf, "%d", val)
	case int64:
		fmt.Fprintf(buf, "%d", val)
	case Float, float32, float64:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	case Str:
		return writeCanonicalString(buf, string(val))
	case string:
		return writeCanonicalString(buf, val)
	case *List:
		if err := e.enter(val); err != nil {
			return err
		}
		defer delete(e.active, val)
		items := make([]any, len(val.Items))
		for i, item := range val.Items {
			items[i] = item
		}
		return e.writeArray(items)
	case []any:
		return e.writeArray(val)
	case *Dict:
		if err := e.enter(val); err != nil {
			return err
		}
		defer delete(e.active, val)
		obj := make(map[string]any, val.Len())
		for i, k := range val.keys {
			ks, ok := k.(Str)
			if !ok {
				return fmt.Errorf("canonical JSON requires string keys, got %s", TypeName(k))
			}
			obj[string(ks)] = val.vals[i]
		}
		return e.writeObject(obj)
	case map[string]any:
		return e.writeObject(val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

func writeBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteString("true")
	} else {
		buf.WriteString("false")
	}
}

// writeCanonicalString escapes only quote, backslash and control characters.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	out := bytes.TrimSuffix(tmp.Bytes(), []byte("\n"))
	buf.Write(unescapeLineSeparators(out))
	return nil
}

// unescapeLineSeparators undoes encoding/json's \u2028 and \u2029 escapes,
// leaving an escaped backslash followed by "u2028" untouched.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' {
			out = append(out, data[i])
			continue
		}
		if i+5 < len(data) && string(data[i+1:i+5]) == "u202" && (data[i+5] == '8' || data[i+5] == '9') {
			if data[i+5] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		// Copy any other escape as a pair so an escaped backslash never
		// combines with the bytes after it.
		out = append(out, data[i])
		if i+1 < len(data) {
			i++
			out = append(out, data[i])
		}
	}
	return out
}

func (e *canonicalEncoder) writeArray(items []any) error {
	buf := e.buf
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := e.write(item); err != nil {
			return fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

func (e *canonicalEncoder) writeObject(obj map[string]any) error {
	buf := e.buf
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonicalString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := e.write(obj[k]); err != nil {
			return fmt.Errorf("object[%q]: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// compareUTF16 orders strings by UTF-16 code units as RFC 8785 requires.
// Go's native string order is by UTF-8 bytes, which differs for
// supplementary-plane characters.
func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}
