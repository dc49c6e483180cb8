package engine

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/roach88/assertrun/internal/value"
)

// maxRange bounds the list materialized by range().
const maxRange = 1 << 24

var assertEqualBuiltin = &value.Builtin{Name: AssertEqualName, Fn: assertEqual}

// assertEqual fails with "repr(a) != repr(b)" when a and b differ.
func assertEqual(args []value.Value) (value.Value, error) {
	if err := arity(AssertEqualName, args, 2); err != nil {
		return nil, err
	}
	a, b := args[0], args[1]
	if !value.Equal(a, b) {
		return nil, &AssertionFailure{
			Message:    value.Repr(a) + " != " + value.Repr(b),
			HasMessage: true,
		}
	}
	return value.None, nil
}

func arity(name string, args []value.Value, n int) error {
	if len(args) == n {
		return nil
	}
	switch n {
	case 0:
		return newRuntimeError(KindTypeError, "%s() takes no arguments (%d given)", name, len(args))
	case 1:
		return newRuntimeError(KindTypeError, "%s() takes exactly one argument (%d given)", name, len(args))
	}
	return newRuntimeError(KindTypeError, "%s() takes exactly %d arguments (%d given)", name, n, len(args))
}

func arityRange(name string, args []value.Value, lo, hi int) error {
	if len(args) < lo {
		return newRuntimeError(KindTypeError, "%s() expected at least %d arguments, got %d", name, lo, len(args))
	}
	if len(args) > hi {
		return newRuntimeError(KindTypeError, "%s() expected at most %d arguments, got %d", name, hi, len(args))
	}
	return nil
}

// newBuiltins returns the read-only table consulted after the environment.
// print writes to stdout.
func newBuiltins(stdout io.Writer) map[string]value.Value {
	table := map[string]value.Value{}
	add := func(name string, fn func([]value.Value) (value.Value, error)) {
		table[name] = &value.Builtin{Name: name, Fn: fn}
	}
	add("len", builtinLen)
	add("str", builtinStr)
	add("repr", builtinRepr)
	add("int", builtinInt)
	add("float", builtinFloat)
	add("bool", builtinBool)
	add("abs", builtinAbs)
	add("min", func(args []value.Value) (value.Value, error) { return extreme("min", args, -1) })
	add("max", func(args []value.Value) (value.Value, error) { return extreme("max", args, 1) })
	add("sorted", builtinSorted)
	add("range", builtinRange)
	add("print", func(args []value.Value) (value.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = value.String(a)
		}
		// print output is best effort, like the reporter's.
		_, _ = fmt.Fprintln(stdout, strings.Join(parts, " "))
		return value.None, nil
	})
	return table
}

func builtinLen(args []value.Value) (value.Value, error) {
	if err := arity("len", args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case value.Str:
		return value.Int(utf8.RuneCountInString(string(v))), nil
	case *value.List:
		return value.Int(len(v.Items)), nil
	case *value.Dict:
		return value.Int(v.Len()), nil
	}
	return nil, newRuntimeError(KindTypeError, "object of type '%s' has no len()", value.TypeName(args[0]))
}

func builtinStr(args []value.Value) (value.Value, error) {
	if err := arityRange("str", args, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return value.Str(""), nil
	}
	return value.Str(value.String(args[0])), nil
}

func builtinRepr(args []value.Value) (value.Value, error) {
	if err := arity("repr", args, 1); err != nil {
		return nil, err
	}
	return value.Str(value.Repr(args[0])), nil
}

func builtinInt(args []value.Value) (value.Value, error) {
	if err := arityRange("int", args, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return value.Int(0), nil
	}
	switch v := args[0].(type) {
	case value.Int:
		return v, nil
	case value.Bool:
		n, _ := asInt(v)
		return value.Int(n), nil
	case value.Float:
		f := float64(v)
		switch {
		case math.IsNaN(f):
			return nil, newRuntimeError(KindValueError, "cannot convert float NaN to integer")
		case math.IsInf(f, 0):
			return nil, newRuntimeError(KindOverflowError, "cannot convert float infinity to integer")
		case f >= math.MaxInt64 || f < math.MinInt64:
			return nil, errIntOverflow()
		}
		return value.Int(int64(f)), nil
	case value.Str:
		text := strings.TrimSpace(string(v))
		n, err := strconv.ParseInt(strings.ReplaceAll(text, "_", ""), 10, 64)
		if err != nil || strings.HasPrefix(text, "_") || strings.HasSuffix(text, "_") || strings.Contains(text, "__") {
			return nil, newRuntimeError(KindValueError, "invalid literal for int() with base 10: %s", value.Repr(v))
		}
		return value.Int(n), nil
	}
	return nil, newRuntimeError(KindTypeError, "int() argument must be a string or a number, not '%s'", value.TypeName(args[0]))
}

func builtinFloat(args []value.Value) (value.Value, error) {
	if err := arityRange("float", args, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return value.Float(0), nil
	}
	if f, ok := value.ToFloat(args[0]); ok {
		return value.Float(f), nil
	}
	if s, ok := args[0].(value.Str); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
		if err != nil {
			return nil, newRuntimeError(KindValueError, "could not convert string to float: %s", value.Repr(s))
		}
		return value.Float(f), nil
	}
	return nil, newRuntimeError(KindTypeError, "float() argument must be a string or a real number, not '%s'", value.TypeName(args[0]))
}

func builtinBool(args []value.Value) (value.Value, error) {
	if err := arityRange("bool", args, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return value.Bool(false), nil
	}
	return value.Bool(value.Truthy(args[0])), nil
}

func builtinAbs(args []value.Value) (value.Value, error) {
	if err := arity("abs", args, 1); err != nil {
		return nil, err
	}
	if n, ok := asInt(args[0]); ok {
		if n == math.MinInt64 {
			return nil, errIntOverflow()
		}
		if n < 0 {
			n = -n
		}
		return value.Int(n), nil
	}
	if f, ok := args[0].(value.Float); ok {
		return value.Float(math.Abs(float64(f))), nil
	}
	return nil, newRuntimeError(KindTypeError, "bad operand type for abs(): '%s'", value.TypeName(args[0]))
}

// extreme implements min (sign -1) and max (sign +1). With one argument it
// scans that iterable; with more it scans the arguments.
func extreme(name string, args []value.Value, sign int) (value.Value, error) {
	if len(args) == 0 {
		return nil, newRuntimeError(KindTypeError, "%s expected at least 1 argument, got 0", name)
	}
	items := args
	if len(args) == 1 {
		var err error
		if items, err = iterate(args[0]); err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, newRuntimeError(KindValueError, "%s() arg is an empty sequence", name)
		}
	}
	best := items[0]
	for _, v := range items[1:] {
		c, ok := value.Compare(v, best)
		if !ok {
			op := "<"
			if sign > 0 {
				op = ">"
			}
			return nil, newRuntimeError(KindTypeError, "'%s' not supported between instances of '%s' and '%s'",
				op, value.TypeName(v), value.TypeName(best))
		}
		if c != 2 && c*sign > 0 {
			best = v
		}
	}
	return best, nil
}

func builtinSorted(args []value.Value) (value.Value, error) {
	if err := arity("sorted", args, 1); err != nil {
		return nil, err
	}
	items, err := iterate(args[0])
	if err != nil {
		return nil, err
	}
	out := slices.Clone(items)
	var cmpErr error
	slices.SortStableFunc(out, func(a, b value.Value) int {
		c, ok := value.Compare(a, b)
		if !ok {
			if cmpErr == nil {
				cmpErr = newRuntimeError(KindTypeError, "'<' not supported between instances of '%s' and '%s'",
					value.TypeName(a), value.TypeName(b))
			}
			return 0
		}
		if c == 2 {
			return 0
		}
		return c
	})
	if cmpErr != nil {
		return nil, cmpErr
	}
	return value.NewList(out...), nil
}

// builtinRange materializes the range as a list.
func builtinRange(args []value.Value) (value.Value, error) {
	if err := arityRange("range", args, 1, 3); err != nil {
		return nil, err
	}
	bounds := make([]int64, len(args))
	for i, a := range args {
		n, ok := asInt(a)
		if !ok {
			return nil, newRuntimeError(KindTypeError, "'%s' object cannot be interpreted as an integer", value.TypeName(a))
		}
		bounds[i] = n
	}
	start, stop, step := int64(0), bounds[0], int64(1)
	if len(bounds) >= 2 {
		start, stop = bounds[0], bounds[1]
	}
	if len(bounds) == 3 {
		step = bounds[2]
	}
	if step == 0 {
		return nil, newRuntimeError(KindValueError, "range() arg 3 must not be zero")
	}

	var count float64
	if step > 0 && stop > start {
		count = math.Ceil((float64(stop) - float64(start)) / float64(step))
	} else if step < 0 && stop < start {
		count = math.Ceil((float64(start) - float64(stop)) / -float64(step))
	}
	if count > maxRange {
		return nil, newRuntimeError(KindOverflowError, "range() result has too many items")
	}

	items := make([]value.Value, 0, int(count))
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		items = append(items, value.Int(i))
		if len(items) == int(count) {
			break
		}
	}
	return value.NewList(items...), nil
}
