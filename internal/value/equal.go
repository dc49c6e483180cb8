package value

import "math"

// Equal reports whether a and b are equal.
//
// Numbers (Int, Float, Bool) compare by numeric value. Lists compare
// element-wise, dicts compare as unordered key/value sets. Builtins and
// modules compare by identity. A container is always equal to itself, and
// self-referencing containers compare without looping.
func Equal(a, b Value) bool {
	return equal(a, b, nil)
}

// pair is a pair of containers under comparison.
type pair struct{ a, b Value }

// active holds the container pairs on the current comparison path.
type active map[pair]bool

// enter marks p as in progress. It returns false when p is already on the
// path, which means the walk has come back around a cycle.
func (s *active) enter(p pair) bool {
	if (*s)[p] {
		return false
	}
	if *s == nil {
		*s = make(active)
	}
	(*s)[p] = true
	return true
}

func (s active) leave(p pair) {
	delete(s, p)
}

func equal(a, b Value, seen active) bool {
	if an, ok := numeric(a); ok {
		bn, ok := numeric(b)
		if !ok {
			return false
		}
		return an.equal(bn)
	}

	switch av := a.(type) {
	case nil:
		return b == nil
	case NoneType:
		_, ok := b.(NoneType)
		return ok
	case Str:
		bv, ok := b.(Str)
		return ok && av == bv
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		if av == bv {
			return true
		}
		p := pair{av, bv}
		if !seen.enter(p) {
			// Both sides repeat the same way from here.
			return true
		}
		defer seen.leave(p)
		for i := range av.Items {
			if !equal(av.Items[i], bv.Items[i], seen) {
				return false
			}
		}
		return true
	case *Dict:
		bv, ok := b.(*Dict)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		if av == bv {
			return true
		}
		p := pair{av, bv}
		if !seen.enter(p) {
			return true
		}
		defer seen.leave(p)
		for i, k := range av.keys {
			other, found := bv.Get(k)
			if !found || !equal(av.vals[i], other, seen) {
				return false
			}
		}
		return true
	case *Builtin:
		bv, ok := b.(*Builtin)
		return ok && av == bv
	case *Module:
		bv, ok := b.(*Module)
		return ok && av == bv
	}
	return false
}

// Compare orders a and b. It returns -1, 0 or +1, or 2 when a float NaN
// makes the pair unordered. ok is false when the two values have no defined
// ordering at all (e.g. str vs int, dicts, or lists whose order depends on
// themselves).
func Compare(a, b Value) (int, bool) {
	return compare(a, b, nil)
}

func compare(a, b Value, seen active) (int, bool) {
	if an, ok := numeric(a); ok {
		bn, ok := numeric(b)
		if !ok {
			return 0, false
		}
		return an.compare(bn)
	}

	switch av := a.(type) {
	case Str:
		bv, ok := b.(Str)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true
	case *List:
		bv, ok := b.(*List)
		if !ok {
			return 0, false
		}
		p := pair{av, bv}
		if !seen.enter(p) {
			return 0, false
		}
		defer seen.leave(p)
		for i := 0; i < len(av.Items) && i < len(bv.Items); i++ {
			if Equal(av.Items[i], bv.Items[i]) {
				continue
			}
			return compare(av.Items[i], bv.Items[i], seen)
		}
		switch {
		case len(av.Items) < len(bv.Items):
			return -1, true
		case len(av.Items) > len(bv.Items):
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Identical implements the "is" operator: same object for lists, dicts,
// builtins and modules; equal value and type for scalars.
func Identical(a, b Value) bool {
	switch av := a.(type) {
	case *List:
		bv, ok := b.(*List)
		return ok && av == bv
	case *Dict:
		bv, ok := b.(*Dict)
		return ok && av == bv
	case *Builtin, *Module:
		return Equal(a, b)
	}
	if TypeName(a) != TypeName(b) {
		return false
	}
	return Equal(a, b)
}

// number is a numeric view used for mixed int/float arithmetic and comparison.
type number struct {
	isFloat bool
	i       int64
	f       float64
}

func numeric(v Value) (number, bool) {
	switch val := v.(type) {
	case Bool:
		if val {
			return number{i: 1}, true
		}
		return number{}, true
	case Int:
		return number{i: int64(val)}, true
	case Float:
		return number{isFloat: true, f: float64(val)}, true
	}
	return number{}, false
}

func (n number) float() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

func (n number) equal(o number) bool {
	switch {
	case !n.isFloat && !o.isFloat:
		return n.i == o.i
	case n.isFloat && o.isFloat:
		return n.f == o.f
	case n.isFloat:
		return intEqualsFloat(o.i, n.f)
	}
	return intEqualsFloat(n.i, o.f)
}

// intEqualsFloat compares exactly, without rounding i to float64.
func intEqualsFloat(i int64, f float64) bool {
	if f != math.Trunc(f) || f < -(1<<63) || f >= 1<<63 {
		return false
	}
	return int64(f) == i
}

func (n number) compare(o number) (int, bool) {
	if !n.isFloat && !o.isFloat {
		switch {
		case n.i < o.i:
			return -1, true
		case n.i > o.i:
			return 1, true
		}
		return 0, true
	}
	a, b := n.float(), o.float()
	if math.IsNaN(a) || math.IsNaN(b) {
		return 2, true
	}
	switch {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	}
	return 0, true
}

// IsNumber reports whether v is an Int, Float or Bool.
func IsNumber(v Value) bool {
	_, ok := numeric(v)
	return ok
}

// ToFloat converts a numeric value to float64.
func ToFloat(v Value) (float64, bool) {
	n, ok := numeric(v)
	if !ok {
		return 0, false
	}
	return n.float(), true
}
