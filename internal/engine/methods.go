package engine

import (
	"strings"

	"github.com/roach88/assertrun/internal/value"
)

// getAttr resolves x.name: module attributes, or a small set of bound
// methods on lists, dicts and strings.
func getAttr(x value.Value, name string) (value.Value, error) {
	if m, ok := x.(*value.Module); ok {
		if v, found := m.Attrs[name]; found {
			return v, nil
		}
		return nil, newRuntimeError(KindAttributeError, "module '%s' has no attribute '%s'", m.Name, name)
	}
	if fn := boundMethod(x, name); fn != nil {
		return &value.Builtin{Name: value.TypeName(x) + "." + name, Fn: fn}, nil
	}
	return nil, newRuntimeError(KindAttributeError, "'%s' object has no attribute '%s'", value.TypeName(x), name)
}

func boundMethod(x value.Value, name string) func([]value.Value) (value.Value, error) {
	switch recv := x.(type) {
	case *value.List:
		return listMethod(recv, name)
	case *value.Dict:
		return dictMethod(recv, name)
	case value.Str:
		return strMethod(recv, name)
	}
	return nil
}

func listMethod(l *value.List, name string) func([]value.Value) (value.Value, error) {
	switch name {
	case "append":
		return func(args []value.Value) (value.Value, error) {
			if err := arity("append", args, 1); err != nil {
				return nil, err
			}
			l.Items = append(l.Items, args[0])
			return value.None, nil
		}
	case "index":
		return func(args []value.Value) (value.Value, error) {
			if err := arity("index", args, 1); err != nil {
				return nil, err
			}
			for i, item := range l.Items {
				if value.Equal(item, args[0]) {
					return value.Int(i), nil
				}
			}
			return nil, newRuntimeError(KindValueError, "%s is not in list", value.Repr(args[0]))
		}
	case "count":
		return func(args []value.Value) (value.Value, error) {
			if err := arity("count", args, 1); err != nil {
				return nil, err
			}
			n := 0
			for _, item := range l.Items {
				if value.Equal(item, args[0]) {
					n++
				}
			}
			return value.Int(n), nil
		}
	}
	return nil
}

func dictMethod(d *value.Dict, name string) func([]value.Value) (value.Value, error) {
	switch name {
	case "get":
		return func(args []value.Value) (value.Value, error) {
			if err := arityRange("get", args, 1, 2); err != nil {
				return nil, err
			}
			if !value.Hashable(args[0]) {
				return nil, newRuntimeError(KindTypeError, "unhashable type: '%s'", value.TypeName(args[0]))
			}
			if v, ok := d.Get(args[0]); ok {
				return v, nil
			}
			if len(args) == 2 {
				return args[1], nil
			}
			return value.None, nil
		}
	case "keys":
		return func(args []value.Value) (value.Value, error) {
			if err := arity("keys", args, 0); err != nil {
				return nil, err
			}
			return value.NewList(d.Keys()...), nil
		}
	case "values":
		return func(args []value.Value) (value.Value, error) {
			if err := arity("values", args, 0); err != nil {
				return nil, err
			}
			return value.NewList(d.Values()...), nil
		}
	}
	return nil
}

func strMethod(s value.Str, name string) func([]value.Value) (value.Value, error) {
	noArgs := func(f func(string) string) func([]value.Value) (value.Value, error) {
		return func(args []value.Value) (value.Value, error) {
			if err := arity(name, args, 0); err != nil {
				return nil, err
			}
			return value.Str(f(string(s))), nil
		}
	}
	affix := func(f func(string, string) bool) func([]value.Value) (value.Value, error) {
		return func(args []value.Value) (value.Value, error) {
			if err := arity(name, args, 1); err != nil {
				return nil, err
			}
			arg, ok := args[0].(value.Str)
			if !ok {
				return nil, newRuntimeError(KindTypeError, "%s arg must be str, not %s", name, value.TypeName(args[0]))
			}
			return value.Bool(f(string(s), string(arg))), nil
		}
	}
	switch name {
	case "upper":
		return noArgs(strings.ToUpper)
	case "lower":
		return noArgs(strings.ToLower)
	case "strip":
		return noArgs(strings.TrimSpace)
	case "startswith":
		return affix(strings.HasPrefix)
	case "endswith":
		return affix(strings.HasSuffix)
	case "split":
		return func(args []value.Value) (value.Value, error) {
			if err := arity("split", args, 0); err != nil {
				return nil, err
			}
			var items []value.Value
			for _, f := range strings.Fields(string(s)) {
				items = append(items, value.Str(f))
			}
			return value.NewList(items...), nil
		}
	}
	return nil
}
