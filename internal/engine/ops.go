package engine

import (
	"math"
	"strings"

	"github.com/roach88/assertrun/internal/ast"
	"github.com/roach88/assertrun/internal/value"
)

// maxRepeat bounds the length of a sequence built by `*` repetition.
const maxRepeat = 1 << 24

// asInt views Int and Bool as int64. Floats are not ints.
func asInt(v value.Value) (int64, bool) {
	switch n := v.(type) {
	case value.Int:
		return int64(n), true
	case value.Bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func binaryOp(op ast.BinaryOp, a, b value.Value) (value.Value, error) {
	if ai, ok := asInt(a); ok {
		if bi, ok := asInt(b); ok {
			return intOp(op, ai, bi)
		}
	}
	if value.IsNumber(a) && value.IsNumber(b) {
		af, _ := value.ToFloat(a)
		bf, _ := value.ToFloat(b)
		return floatOp(op, af, bf)
	}

	switch op {
	case ast.Add:
		switch av := a.(type) {
		case value.Str:
			bv, ok := b.(value.Str)
			if !ok {
				return nil, newRuntimeError(KindTypeError, "can only concatenate str (not %q) to str", value.TypeName(b))
			}
			return av + bv, nil
		case *value.List:
			bv, ok := b.(*value.List)
			if !ok {
				return nil, newRuntimeError(KindTypeError, "can only concatenate list (not %q) to list", value.TypeName(b))
			}
			items := make([]value.Value, 0, len(av.Items)+len(bv.Items))
			items = append(items, av.Items...)
			items = append(items, bv.Items...)
			return value.NewList(items...), nil
		}
	case ast.Mult:
		if n, ok := asInt(b); ok {
			if v, ok, err := repeat(a, n); ok {
				return v, err
			}
		}
		if n, ok := asInt(a); ok {
			if v, ok, err := repeat(b, n); ok {
				return v, err
			}
		}
	}
	return nil, newRuntimeError(KindTypeError, "unsupported operand type(s) for %s: '%s' and '%s'",
		op, value.TypeName(a), value.TypeName(b))
}

// repeat implements sequence * int. ok is false when seq is not a sequence.
func repeat(seq value.Value, n int64) (value.Value, bool, error) {
	if n < 0 {
		n = 0
	}
	switch s := seq.(type) {
	case value.Str:
		if n > 0 && int64(len(s)) > maxRepeat/n {
			return nil, true, newRuntimeError(KindOverflowError, "repeated string is too long")
		}
		return value.Str(strings.Repeat(string(s), int(n))), true, nil
	case *value.List:
		if n > 0 && int64(len(s.Items)) > maxRepeat/n {
			return nil, true, newRuntimeError(KindOverflowError, "repeated list is too long")
		}
		items := make([]value.Value, 0, len(s.Items)*int(n))
		for range n {
			items = append(items, s.Items...)
		}
		return value.NewList(items...), true, nil
	}
	return nil, false, nil
}

func intOp(op ast.BinaryOp, a, b int64) (value.Value, error) {
	switch op {
	case ast.Add:
		if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
			return nil, errIntOverflow()
		}
		return value.Int(a + b), nil
	case ast.Sub:
		if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
			return nil, errIntOverflow()
		}
		return value.Int(a - b), nil
	case ast.Mult:
		if a == 0 || b == 0 {
			return value.Int(0), nil
		}
		r := a * b
		if r/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
			return nil, errIntOverflow()
		}
		return value.Int(r), nil
	case ast.Div:
		if b == 0 {
			return nil, newRuntimeError(KindZeroDivisionError, "division by zero")
		}
		return value.Float(float64(a) / float64(b)), nil
	case ast.FloorDiv:
		if b == 0 {
			return nil, newRuntimeError(KindZeroDivisionError, "integer division or modulo by zero")
		}
		if a == math.MinInt64 && b == -1 {
			return nil, errIntOverflow()
		}
		q := a / b
		if a%b != 0 && (a < 0) != (b < 0) {
			q--
		}
		return value.Int(q), nil
	case ast.Mod:
		if b == 0 {
			return nil, newRuntimeError(KindZeroDivisionError, "integer modulo by zero")
		}
		m := a % b
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return value.Int(m), nil
	}
	return nil, newRuntimeError(KindInternal, "unknown operator %q", op)
}

func errIntOverflow() *RuntimeError {
	return newRuntimeError(KindOverflowError, "integer result does not fit in 64 bits")
}

func floatOp(op ast.BinaryOp, a, b float64) (value.Value, error) {
	switch op {
	case ast.Add:
		return value.Float(a + b), nil
	case ast.Sub:
		return value.Float(a - b), nil
	case ast.Mult:
		return value.Float(a * b), nil
	case ast.Div:
		if b == 0 {
			return nil, newRuntimeError(KindZeroDivisionError, "float division by zero")
		}
		return value.Float(a / b), nil
	case ast.FloorDiv:
		if b == 0 {
			return nil, newRuntimeError(KindZeroDivisionError, "float floor division by zero")
		}
		return value.Float(math.Floor(a / b)), nil
	case ast.Mod:
		if b == 0 {
			return nil, newRuntimeError(KindZeroDivisionError, "float modulo")
		}
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return value.Float(m), nil
	}
	return nil, newRuntimeError(KindInternal, "unknown operator %q", op)
}

func unaryOp(op ast.UnaryOperator, x value.Value) (value.Value, error) {
	if op == ast.Not {
		return value.Bool(!value.Truthy(x)), nil
	}
	if n, ok := asInt(x); ok {
		if op == ast.UPlus {
			return value.Int(n), nil
		}
		if n == math.MinInt64 {
			return nil, errIntOverflow()
		}
		return value.Int(-n), nil
	}
	if f, ok := x.(value.Float); ok {
		if op == ast.UPlus {
			return f, nil
		}
		return -f, nil
	}
	return nil, newRuntimeError(KindTypeError, "bad operand type for unary %s: '%s'", op, value.TypeName(x))
}

// compareOp applies a single comparison operator.
func compareOp(op ast.CmpOp, a, b value.Value) (bool, error) {
	switch op {
	case ast.Eq:
		return value.Equal(a, b), nil
	case ast.NotEq:
		return !value.Equal(a, b), nil
	case ast.Is:
		return value.Identical(a, b), nil
	case ast.IsNot:
		return !value.Identical(a, b), nil
	case ast.In:
		return contains(b, a)
	case ast.NotIn:
		found, err := contains(b, a)
		return !found, err
	}

	c, ok := value.Compare(a, b)
	if !ok {
		return false, newRuntimeError(KindTypeError, "'%s' not supported between instances of '%s' and '%s'",
			op, value.TypeName(a), value.TypeName(b))
	}
	if c == 2 {
		return false, nil // NaN
	}
	switch op {
	case ast.Lt:
		return c < 0, nil
	case ast.LtE:
		return c <= 0, nil
	case ast.Gt:
		return c > 0, nil
	case ast.GtE:
		return c >= 0, nil
	}
	return false, newRuntimeError(KindInternal, "unknown comparison %q", op)
}

func contains(container, item value.Value) (bool, error) {
	switch c := container.(type) {
	case *value.List:
		for _, elt := range c.Items {
			if value.Equal(elt, item) {
				return true, nil
			}
		}
		return false, nil
	case value.Str:
		s, ok := item.(value.Str)
		if !ok {
			return false, newRuntimeError(KindTypeError, "'in <string>' requires string as left operand, not %s", value.TypeName(item))
		}
		return strings.Contains(string(c), string(s)), nil
	case *value.Dict:
		if !value.Hashable(item) {
			return false, newRuntimeError(KindTypeError, "unhashable type: '%s'", value.TypeName(item))
		}
		_, found := c.Get(item)
		return found, nil
	}
	return false, newRuntimeError(KindTypeError, "argument of type '%s' is not iterable", value.TypeName(container))
}

// iterate returns the items a for-loop or builtin visits: list elements,
// string characters, or dict keys. The list case returns the live slice.
func iterate(v value.Value) ([]value.Value, error) {
	switch c := v.(type) {
	case *value.List:
		return c.Items, nil
	case value.Str:
		items := make([]value.Value, 0, len(c))
		for _, r := range string(c) {
			items = append(items, value.Str(string(r)))
		}
		return items, nil
	case *value.Dict:
		return c.Keys(), nil
	}
	return nil, newRuntimeError(KindTypeError, "'%s' object is not iterable", value.TypeName(v))
}
