package engine

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/roach88/assertrun/internal/ast"
	"github.com/roach88/assertrun/internal/value"
)

// interpreter evaluates statements against one run's environment.
type interpreter struct {
	env       *Env
	builtins  map[string]value.Value
	modules   map[string]*value.Module // imported so far, by name
	rngSource *rand.PCG

	// Per-statement state, reset by the Executor.
	ctx   context.Context
	quota *QuotaEnforcer
}

func newInterpreter(env *Env, stdout io.Writer, seed uint64) *interpreter {
	return &interpreter{
		env:       env,
		builtins:  newBuiltins(stdout),
		modules:   make(map[string]*value.Module),
		rngSource: rand.NewPCG(seed, seed),
		ctx:       context.Background(),
		quota:     NewQuotaEnforcer(0),
	}
}

// ---- Statements ----

func (in *interpreter) exec(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Assert:
		return in.execAssert(n)
	case *ast.Assign:
		v, err := in.eval(n.Value)
		if err != nil {
			return err
		}
		return in.store(n.Target, v)
	case *ast.AugAssign:
		return in.execAugAssign(n)
	case *ast.ExprStmt:
		_, err := in.eval(n.X)
		return err
	case *ast.Import:
		for _, name := range n.Names {
			mod, err := in.importModule(name)
			if err != nil {
				return err
			}
			in.env.Set(name, mod)
		}
		return nil
	case *ast.If:
		test, err := in.eval(n.Test)
		if err != nil {
			return err
		}
		if value.Truthy(test) {
			return in.execBlock(n.Body)
		}
		return in.execBlock(n.Else)
	case *ast.For:
		return in.execFor(n)
	case *ast.Pass:
		return nil
	case *ast.Break:
		return errBreak
	case *ast.Continue:
		return errContinue
	}
	return newRuntimeError(KindInternal, "unknown statement %T", s)
}

func (in *interpreter) execBlock(block []ast.Stmt) error {
	for _, s := range block {
		if err := in.exec(s); err != nil {
			return err
		}
	}
	return nil
}

// execAssert evaluates the message only when the test fails.
func (in *interpreter) execAssert(s *ast.Assert) error {
	test, err := in.eval(s.Test)
	if err != nil {
		return err
	}
	if value.Truthy(test) {
		return nil
	}
	if s.Msg == nil {
		return &AssertionFailure{}
	}
	msg, err := in.eval(s.Msg)
	if err != nil {
		return err
	}
	return &AssertionFailure{Message: value.String(msg), HasMessage: true}
}

func (in *interpreter) execAugAssign(s *ast.AugAssign) error {
	switch t := s.Target.(type) {
	case *ast.Name:
		cur, err := in.lookup(t)
		if err != nil {
			return err
		}
		rhs, err := in.eval(s.Value)
		if err != nil {
			return err
		}
		v, err := augment(s.Op, cur, rhs)
		if err != nil {
			return err
		}
		in.env.Set(t.ID, v)
		return nil

	case *ast.Subscript:
		container, err := in.eval(t.X)
		if err != nil {
			return err
		}
		index, err := in.eval(t.Index)
		if err != nil {
			return err
		}
		cur, err := subscript(container, index)
		if err != nil {
			return err
		}
		rhs, err := in.eval(s.Value)
		if err != nil {
			return err
		}
		v, err := augment(s.Op, cur, rhs)
		if err != nil {
			return err
		}
		return setItem(container, index, v)

	case *ast.Attribute:
		obj, err := in.eval(t.X)
		if err != nil {
			return err
		}
		cur, err := getAttr(obj, t.Attr)
		if err != nil {
			return err
		}
		rhs, err := in.eval(s.Value)
		if err != nil {
			return err
		}
		v, err := augment(s.Op, cur, rhs)
		if err != nil {
			return err
		}
		return setAttr(obj, t.Attr, v)
	}
	return newRuntimeError(KindInternal, "invalid augmented assignment target %T", s.Target)
}

// augment applies op for `+=` and friends. Lists extend in place.
func augment(op ast.BinaryOp, cur, rhs value.Value) (value.Value, error) {
	if l, ok := cur.(*value.List); ok && op == ast.Add {
		items, err := iterate(rhs)
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, items...)
		return l, nil
	}
	return binaryOp(op, cur, rhs)
}

func (in *interpreter) execFor(s *ast.For) error {
	iter, err := in.eval(s.Iter)
	if err != nil {
		return err
	}
	items, err := iterate(iter)
	if err != nil {
		return err
	}
	list, live := iter.(*value.List)

	for i := 0; ; i++ {
		// A list may grow while it is iterated, so re-read its length.
		if live {
			items = list.Items
		}
		if i >= len(items) {
			return nil
		}
		if err := in.ctx.Err(); err != nil {
			return fmt.Errorf("loop interrupted: %w", err)
		}
		if err := in.quota.Check(); err != nil {
			return err
		}

		in.env.Set(s.Target.ID, items[i])
		err := in.execBlock(s.Body)
		switch err {
		case nil, errContinue:
		case errBreak:
			return nil
		default:
			return err
		}
	}
}

func (in *interpreter) store(target ast.Expr, v value.Value) error {
	switch t := target.(type) {
	case *ast.Name:
		in.env.Set(t.ID, v)
		return nil
	case *ast.Subscript:
		container, err := in.eval(t.X)
		if err != nil {
			return err
		}
		index, err := in.eval(t.Index)
		if err != nil {
			return err
		}
		return setItem(container, index, v)
	case *ast.Attribute:
		obj, err := in.eval(t.X)
		if err != nil {
			return err
		}
		return setAttr(obj, t.Attr, v)
	}
	return newRuntimeError(KindInternal, "invalid assignment target %T", target)
}

func (in *interpreter) importModule(name string) (*value.Module, error) {
	if mod, ok := in.modules[name]; ok {
		return mod, nil
	}
	load, ok := moduleLoaders[name]
	if !ok {
		return nil, newRuntimeError(KindImportError, "No module named '%s'", name)
	}
	mod := load(in)
	in.modules[name] = mod
	return mod, nil
}

// ---- Expressions ----

func (in *interpreter) eval(e ast.Expr) (value.Value, error) {
	switch n := e.(type) {
	case *ast.Constant:
		return n.Value, nil
	case *ast.Name:
		return in.lookup(n)
	case *ast.List:
		items := make([]value.Value, len(n.Elts))
		for i, elt := range n.Elts {
			v, err := in.eval(elt)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return value.NewList(items...), nil
	case *ast.Dict:
		d := value.NewDict()
		for i := range n.Keys {
			k, err := in.eval(n.Keys[i])
			if err != nil {
				return nil, err
			}
			v, err := in.eval(n.Values[i])
			if err != nil {
				return nil, err
			}
			if !value.Hashable(k) {
				return nil, newRuntimeError(KindTypeError, "unhashable type: '%s'", value.TypeName(k))
			}
			if err := d.Set(k, v); err != nil {
				return nil, newRuntimeError(KindTypeError, "%s", err)
			}
		}
		return d, nil
	case *ast.Attribute:
		x, err := in.eval(n.X)
		if err != nil {
			return nil, err
		}
		return getAttr(x, n.Attr)
	case *ast.Subscript:
		x, err := in.eval(n.X)
		if err != nil {
			return nil, err
		}
		index, err := in.eval(n.Index)
		if err != nil {
			return nil, err
		}
		return subscript(x, index)
	case *ast.Call:
		return in.evalCall(n)
	case *ast.UnaryOp:
		x, err := in.eval(n.X)
		if err != nil {
			return nil, err
		}
		return unaryOp(n.Op, x)
	case *ast.BinOp:
		left, err := in.eval(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := in.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return binaryOp(n.Op, left, right)
	case *ast.BoolOp:
		return in.evalBoolOp(n)
	case *ast.Compare:
		return in.evalCompare(n)
	}
	return nil, newRuntimeError(KindInternal, "unknown expression %T", e)
}

// lookup resolves a name in the environment, then the builtins table.
func (in *interpreter) lookup(n *ast.Name) (value.Value, error) {
	if v, ok := in.env.Get(n.ID); ok {
		return v, nil
	}
	if v, ok := in.builtins[n.ID]; ok {
		return v, nil
	}
	return nil, newRuntimeError(KindNameError, "name '%s' is not defined", n.ID)
}

func (in *interpreter) evalCall(n *ast.Call) (value.Value, error) {
	fn, err := in.eval(n.Func)
	if err != nil {
		return nil, err
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		if args[i], err = in.eval(a); err != nil {
			return nil, err
		}
	}
	b, ok := fn.(*value.Builtin)
	if !ok {
		return nil, newRuntimeError(KindTypeError, "'%s' object is not callable", value.TypeName(fn))
	}
	return b.Fn(args)
}

// evalBoolOp short-circuits and yields the deciding operand, not a bool.
func (in *interpreter) evalBoolOp(n *ast.BoolOp) (value.Value, error) {
	var v value.Value
	for _, x := range n.Values {
		var err error
		if v, err = in.eval(x); err != nil {
			return nil, err
		}
		truthy := value.Truthy(v)
		if (n.Op == ast.And && !truthy) || (n.Op == ast.Or && truthy) {
			return v, nil
		}
	}
	return v, nil
}

// evalCompare evaluates a chain a op1 b op2 c as (a op1 b) and (b op2 c),
// evaluating each operand at most once and stopping at the first false link.
func (in *interpreter) evalCompare(n *ast.Compare) (value.Value, error) {
	left, err := in.eval(n.Left)
	if err != nil {
		return nil, err
	}
	for i, op := range n.Ops {
		right, err := in.eval(n.Comparators[i])
		if err != nil {
			return nil, err
		}
		ok, err := compareOp(op, left, right)
		if err != nil {
			return nil, err
		}
		if !ok {
			return value.Bool(false), nil
		}
		left = right
	}
	return value.Bool(true), nil
}

// ---- Item and attribute access ----

func subscript(x, index value.Value) (value.Value, error) {
	switch c := x.(type) {
	case *value.List:
		i, err := seqIndex("list", index, len(c.Items))
		if err != nil {
			return nil, err
		}
		return c.Items[i], nil
	case value.Str:
		runes := []rune(string(c))
		i, err := seqIndex("string", index, len(runes))
		if err != nil {
			return nil, err
		}
		return value.Str(string(runes[i])), nil
	case *value.Dict:
		if !value.Hashable(index) {
			return nil, newRuntimeError(KindTypeError, "unhashable type: '%s'", value.TypeName(index))
		}
		v, ok := c.Get(index)
		if !ok {
			return nil, newRuntimeError(KindKeyError, "%s", value.Repr(index))
		}
		return v, nil
	}
	return nil, newRuntimeError(KindTypeError, "'%s' object is not subscriptable", value.TypeName(x))
}

// seqIndex normalizes a possibly negative index into [0, n).
func seqIndex(kind string, index value.Value, n int) (int, error) {
	i, ok := asInt(index)
	if !ok {
		return 0, newRuntimeError(KindTypeError, "%s indices must be integers, not %s", kind, value.TypeName(index))
	}
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, newRuntimeError(KindIndexError, "%s index out of range", kind)
	}
	return int(i), nil
}

func setItem(container, index, v value.Value) error {
	switch c := container.(type) {
	case *value.List:
		i, err := seqIndex("list", index, len(c.Items))
		if err != nil {
			if IsKind(err, KindIndexError) {
				return newRuntimeError(KindIndexError, "list assignment index out of range")
			}
			return err
		}
		c.Items[i] = v
		return nil
	case *value.Dict:
		if err := c.Set(index, v); err != nil {
			return newRuntimeError(KindTypeError, "%s", err)
		}
		return nil
	}
	return newRuntimeError(KindTypeError, "'%s' object does not support item assignment", value.TypeName(container))
}

func setAttr(obj value.Value, name string, v value.Value) error {
	if m, ok := obj.(*value.Module); ok {
		m.Attrs[name] = v
		return nil
	}
	return newRuntimeError(KindAttributeError, "'%s' object attribute '%s' is read-only", value.TypeName(obj), name)
}
