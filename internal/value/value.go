package value

import (
	"fmt"
	"sort"
)

// Value is a sealed interface over every runtime value.
type Value interface {
	value() // Sealed - only this package implements it
}

// NoneType is the type of None.
type NoneType struct{}

func (NoneType) value() {}

// None is the single NoneType value.
var None = NoneType{}

// Bool is a boolean value.
type Bool bool

func (Bool) value() {}

// Int is an integer value. Arithmetic is 64-bit.
type Int int64

func (Int) value() {}

// Float is a floating point value.
type Float float64

func (Float) value() {}

// Str is an immutable string value.
type Str string

func (Str) value() {}

// List is a mutable ordered sequence.
type List struct {
	Items []Value
}

func (*List) value() {}

// NewList creates a list holding the given items.
func NewList(items ...Value) *List {
	if items == nil {
		items = []Value{}
	}
	return &List{Items: items}
}

// Dict is a mutable mapping that preserves insertion order.
// Keys must be hashable (see Hashable).
type Dict struct {
	keys []Value
	vals []Value
}

func (*Dict) value() {}

// NewDict creates an empty dict.
func NewDict() *Dict {
	return &Dict{}
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	return len(d.keys)
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []Value {
	out := make([]Value, len(d.keys))
	copy(out, d.keys)
	return out
}

// Values returns the values in insertion order.
func (d *Dict) Values() []Value {
	out := make([]Value, len(d.vals))
	copy(out, d.vals)
	return out
}

// Get looks up key k.
func (d *Dict) Get(k Value) (Value, bool) {
	if i := d.index(k); i >= 0 {
		return d.vals[i], true
	}
	return nil, false
}

// Set inserts or replaces the entry for key k.
// Returns an error if k is not hashable.
func (d *Dict) Set(k, v Value) error {
	if !Hashable(k) {
		return fmt.Errorf("unhashable type: '%s'", TypeName(k))
	}
	if i := d.index(k); i >= 0 {
		d.vals[i] = v
		return nil
	}
	d.keys = append(d.keys, k)
	d.vals = append(d.vals, v)
	return nil
}

func (d *Dict) index(k Value) int {
	for i, existing := range d.keys {
		if Equal(existing, k) {
			return i
		}
	}
	return -1
}

// Builtin is a function implemented in Go.
type Builtin struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (*Builtin) value() {}

// Module is a named namespace of attributes, produced by import.
type Module struct {
	Name  string
	Attrs map[string]Value
}

func (*Module) value() {}

// AttrNames returns the module attribute names in sorted order.
func (m *Module) AttrNames() []string {
	names := make([]string, 0, len(m.Attrs))
	for name := range m.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TypeName returns the user-facing type name of v.
func TypeName(v Value) string {
	switch v.(type) {
	case NoneType:
		return "NoneType"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Str:
		return "str"
	case *List:
		return "list"
	case *Dict:
		return "dict"
	case *Builtin:
		return "builtin_function_or_method"
	case *Module:
		return "module"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Hashable reports whether v may be used as a dict key.
func Hashable(v Value) bool {
	switch v.(type) {
	case NoneType, Bool, Int, Float, Str:
		return true
	default:
		return false
	}
}

// Truthy reports the truth value of v.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, NoneType:
		return false
	case Bool:
		return bool(val)
	case Int:
		return val != 0
	case Float:
		return val != 0
	case Str:
		return val != ""
	case *List:
		return len(val.Items) > 0
	case *Dict:
		return val.Len() > 0
	default:
		return true
	}
}
