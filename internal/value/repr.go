package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Repr returns the source-like representation of v, as used in
// assertion failure messages.
//
// A list or dict met again while it is still being printed is written as
// [...] or {...}.
func Repr(v Value) string {
	var p printer
	p.write(v)
	return p.sb.String()
}

// String returns the display form of v: strings print raw, everything
// else prints as Repr.
func String(v Value) string {
	if s, ok := v.(Str); ok {
		return string(s)
	}
	return Repr(v)
}

type printer struct {
	sb     strings.Builder
	active map[Value]bool
}

// enter marks container v as being printed. It returns false when v is
// already on the path.
func (p *printer) enter(v Value) bool {
	if p.active[v] {
		return false
	}
	if p.active == nil {
		p.active = make(map[Value]bool)
	}
	p.active[v] = true
	return true
}

func (p *printer) write(v Value) {
	sb := &p.sb
	switch val := v.(type) {
	case nil, NoneType:
		sb.WriteString("None")
	case Bool:
		if val {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case Int:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case Float:
		sb.WriteString(formatFloat(float64(val)))
	case Str:
		sb.WriteString(quote(string(val)))
	case *List:
		if !p.enter(val) {
			sb.WriteString("[...]")
			return
		}
		defer delete(p.active, v)
		sb.WriteByte('[')
		for i, item := range val.Items {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.write(item)
		}
		sb.WriteByte(']')
	case *Dict:
		if !p.enter(val) {
			sb.WriteString("{...}")
			return
		}
		defer delete(p.active, v)
		sb.WriteByte('{')
		for i, k := range val.keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.write(k)
			sb.WriteString(": ")
			p.write(val.vals[i])
		}
		sb.WriteByte('}')
	case *Builtin:
		fmt.Fprintf(sb, "<built-in function %s>", val.Name)
	case *Module:
		fmt.Fprintf(sb, "<module '%s'>", val.Name)
	default:
		fmt.Fprintf(sb, "<%T>", v)
	}
}

// formatFloat renders the shortest round-tripping form, switching to
// exponent notation outside [1e-4, 1e16) and always keeping a decimal
// point or exponent so floats stay distinguishable from ints.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	exp := int(math.Floor(math.Log10(math.Abs(f))))
	if exp < -4 || exp >= 16 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// quote prefers single quotes and switches to double quotes only when the
// text contains a single quote and no double quote.
func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var sb strings.Builder
	sb.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 0x20 || (r >= 0x7f && r < 0xa0):
			fmt.Fprintf(&sb, `\x%02x`, r)
		case !unicode.IsPrint(r) && r <= 0xffff:
			fmt.Fprintf(&sb, `\u%04x`, r)
		case !unicode.IsPrint(r):
			fmt.Fprintf(&sb, `\U%08x`, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}
