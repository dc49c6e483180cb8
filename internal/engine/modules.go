package engine

import (
	"math"
	"math/rand/v2"

	"github.com/roach88/assertrun/internal/value"
)

// moduleLoader builds an importable module for one interpreter.
type moduleLoader func(in *interpreter) *value.Module

var moduleLoaders = map[string]moduleLoader{
	"random": newRandomModule,
	"math":   newMathModule,
}

func builtinModule(name string, attrs map[string]value.Value) *value.Module {
	return &value.Module{Name: name, Attrs: attrs}
}

func moduleFunc(module, name string, fn func([]value.Value) (value.Value, error)) *value.Builtin {
	return &value.Builtin{Name: module + "." + name, Fn: fn}
}

// newRandomModule exposes the interpreter's seeded PCG generator.
func newRandomModule(in *interpreter) *value.Module {
	src := in.rngSource
	rng := rand.New(src)
	fn := func(name string, f func([]value.Value) (value.Value, error)) *value.Builtin {
		return moduleFunc("random", name, f)
	}
	return builtinModule("random", map[string]value.Value{
		"randint": fn("randint", func(args []value.Value) (value.Value, error) {
			if err := arity("randint", args, 2); err != nil {
				return nil, err
			}
			lo, ok1 := asInt(args[0])
			hi, ok2 := asInt(args[1])
			if !ok1 || !ok2 {
				return nil, newRuntimeError(KindTypeError, "randint() arguments must be integers")
			}
			if lo > hi {
				return nil, newRuntimeError(KindValueError, "empty range in randint(%d, %d)", lo, hi)
			}
			span := uint64(hi - lo)
			if span == math.MaxUint64 {
				return value.Int(int64(rng.Uint64())), nil
			}
			return value.Int(lo + int64(rng.Uint64N(span+1))), nil
		}),
		"choice": fn("choice", func(args []value.Value) (value.Value, error) {
			if err := arity("choice", args, 1); err != nil {
				return nil, err
			}
			if _, ok := args[0].(*value.Dict); ok {
				return nil, newRuntimeError(KindTypeError, "choice() argument must be a sequence, not 'dict'")
			}
			items, err := iterate(args[0])
			if err != nil {
				return nil, err
			}
			if len(items) == 0 {
				return nil, newRuntimeError(KindIndexError, "Cannot choose from an empty sequence")
			}
			return items[rng.IntN(len(items))], nil
		}),
		"random": fn("random", func(args []value.Value) (value.Value, error) {
			if err := arity("random", args, 0); err != nil {
				return nil, err
			}
			return value.Float(rng.Float64()), nil
		}),
		"seed": fn("seed", func(args []value.Value) (value.Value, error) {
			if err := arity("seed", args, 1); err != nil {
				return nil, err
			}
			n, ok := asInt(args[0])
			if !ok {
				return nil, newRuntimeError(KindTypeError, "seed() argument must be an integer, not '%s'", value.TypeName(args[0]))
			}
			src.Seed(uint64(n), uint64(n))
			return value.None, nil
		}),
	})
}

func newMathModule(*interpreter) *value.Module {
	unary := func(name string, f func(float64) float64) *value.Builtin {
		return moduleFunc("math", name, func(args []value.Value) (value.Value, error) {
			if err := arity(name, args, 1); err != nil {
				return nil, err
			}
			x, ok := value.ToFloat(args[0])
			if !ok {
				return nil, newRuntimeError(KindTypeError, "must be real number, not %s", value.TypeName(args[0]))
			}
			return value.Float(f(x)), nil
		})
	}
	toInt := func(name string, f func(float64) float64) *value.Builtin {
		return moduleFunc("math", name, func(args []value.Value) (value.Value, error) {
			if err := arity(name, args, 1); err != nil {
				return nil, err
			}
			if n, ok := asInt(args[0]); ok {
				return value.Int(n), nil
			}
			x, ok := args[0].(value.Float)
			if !ok {
				return nil, newRuntimeError(KindTypeError, "must be real number, not %s", value.TypeName(args[0]))
			}
			return builtinInt([]value.Value{value.Float(f(float64(x)))})
		})
	}
	return builtinModule("math", map[string]value.Value{
		"pi":    value.Float(math.Pi),
		"e":     value.Float(math.E),
		"inf":   value.Float(math.Inf(1)),
		"nan":   value.Float(math.NaN()),
		"fabs":  unary("fabs", math.Abs),
		"floor": toInt("floor", math.Floor),
		"ceil":  toInt("ceil", math.Ceil),
		"sqrt": moduleFunc("math", "sqrt", func(args []value.Value) (value.Value, error) {
			if err := arity("sqrt", args, 1); err != nil {
				return nil, err
			}
			x, ok := value.ToFloat(args[0])
			if !ok {
				return nil, newRuntimeError(KindTypeError, "must be real number, not %s", value.TypeName(args[0]))
			}
			if x < 0 {
				return nil, newRuntimeError(KindValueError, "math domain error")
			}
			return value.Float(math.Sqrt(x)), nil
		}),
	})
}
