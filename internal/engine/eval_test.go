package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval_Expressions(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 + 2", "3"},
		{"7 // 2", "3"},
		{"-7 // 2", "-4"},
		{"-7 % 3", "2"},
		{"7 % -3", "-2"},
		{"7 / 2", "3.5"},
		{"1 / 4", "0.25"},
		{"2 * 3.0", "6.0"},
		{"-7.5 // 2", "-4.0"},
		{"5.5 % 2", "1.5"},
		{"True + 1", "2"},
		{"'ab' * 2", "'abab'"},
		{"2 * [0]", "[0, 0]"},
		{"[1] * -1", "[]"},
		{"[1] + [2]", "[1, 2]"},
		{"'a' + 'b'", "'ab'"},
		{"1e300 * 1e300", "inf"},
		{"not 0", "True"},
		{"-True", "-1"},
		{"+2.5", "2.5"},
		{"1 < 2 < 3", "True"},
		{"1 < 3 < 2", "False"},
		{"1 == 1.0", "True"},
		{"9007199254740993 == 9007199254740992.0", "False"},
		{"9007199254740992 == 9007199254740992.0", "True"},
		{"[1, [2]] == [1, [2]]", "True"},
		{"{'a': 1, 'b': 2} == {'b': 2, 'a': 1}", "True"},
		{"'b' in 'abc'", "True"},
		{"2 not in [1, 2]", "False"},
		{"'k' in {'k': 1}", "True"},
		{"None is None", "True"},
		{"[] is []", "False"},
		{"1 is not None", "True"},
		{"0 or 'x'", "'x'"},
		{"1 and 0", "0"},
		{"[] or []", "[]"},
		{"0 and undefined", "0"},
		{"len('héllo')", "5"},
		{"len({1: 2})", "1"},
		{"str(1.0)", "'1.0'"},
		{"str()", "''"},
		{"repr('a')", `"'a'"`},
		{"int('  42 ')", "42"},
		{"int('1_000')", "1000"},
		{"int(-3.9)", "-3"},
		{"int(True)", "1"},
		{"float('1.5')", "1.5"},
		{"float(2)", "2.0"},
		{"bool([])", "False"},
		{"bool('x')", "True"},
		{"abs(-3)", "3"},
		{"abs(-2.5)", "2.5"},
		{"min(3, 1, 2)", "1"},
		{"max([1, 5, 2])", "5"},
		{"max('abc')", "'c'"},
		{"sorted([3, 1, 2])", "[1, 2, 3]"},
		{"sorted('cab')", "['a', 'b', 'c']"},
		{"sorted({'b': 1, 'a': 2})", "['a', 'b']"},
		{"range(3)", "[0, 1, 2]"},
		{"range(5, 0, -2)", "[5, 3, 1]"},
		{"range(1, 1)", "[]"},
		{"range(2, 8, 3)", "[2, 5]"},
		{"{'a': 1}['a']", "1"},
		{"[1, 2, 3][-1]", "3"},
		{"'abc'[1]", "'b'"},
		{"{'a': 1}.get('b', 0)", "0"},
		{"{'a': 1}.get('b')", "None"},
		{"{'a': 1, 'b': 2}.keys()", "['a', 'b']"},
		{"{'a': 1, 'b': 2}.values()", "[1, 2]"},
		{"'Hi'.upper()", "'HI'"},
		{"' a b '.split()", "['a', 'b']"},
		{"'abc'.startswith('ab')", "True"},
		{"[1, 2, 1].count(1)", "2"},
		{"[1, 2, 3].index(3)", "2"},
		{"{1: 'a', True: 'b'}", "{1: 'b'}"},
		{"len", "<built-in function len>"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			out := runSource(t, "result = "+tt.expr+"\n")
			require.NoError(t, out.err)
			assert.Equal(t, tt.want, out.lookup(t, "result"))
		})
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		expr string
		kind RuntimeErrorKind
		msg  string
	}{
		{"undefined", KindNameError, "name 'undefined' is not defined"},
		{"1 + 'a'", KindTypeError, "unsupported operand type(s) for +: 'int' and 'str'"},
		{"'a' + 1", KindTypeError, `can only concatenate str (not "int") to str`},
		{"[1] + 'a'", KindTypeError, `can only concatenate list (not "str") to list`},
		{"'a' * 'b'", KindTypeError, "unsupported operand type(s) for *: 'str' and 'str'"},
		{"1 / 0", KindZeroDivisionError, "division by zero"},
		{"1 // 0", KindZeroDivisionError, "integer division or modulo by zero"},
		{"1 % 0", KindZeroDivisionError, "integer modulo by zero"},
		{"1.0 / 0", KindZeroDivisionError, "float division by zero"},
		{"[1][5]", KindIndexError, "list index out of range"},
		{"'ab'[-3]", KindIndexError, "string index out of range"},
		{"[1]['a']", KindTypeError, "list indices must be integers, not str"},
		{"{}['k']", KindKeyError, "'k'"},
		{"{}[[1]]", KindTypeError, "unhashable type: 'list'"},
		{"1 < 'a'", KindTypeError, "'<' not supported between instances of 'int' and 'str'"},
		{"1 in 2", KindTypeError, "argument of type 'int' is not iterable"},
		{"1 in 'abc'", KindTypeError, "'in <string>' requires string as left operand, not int"},
		{"len(1)", KindTypeError, "object of type 'int' has no len()"},
		{"len()", KindTypeError, "len() takes exactly one argument (0 given)"},
		{"int('x')", KindValueError, "invalid literal for int() with base 10: 'x'"},
		{"float('x')", KindValueError, "could not convert string to float: 'x'"},
		{"5()", KindTypeError, "'int' object is not callable"},
		{"'a'.nope", KindAttributeError, "'str' object has no attribute 'nope'"},
		{"{[1]: 2}", KindTypeError, "unhashable type: 'list'"},
		{"9223372036854775807 + 1", KindOverflowError, "integer result does not fit in 64 bits"},
		{"-'a'", KindTypeError, "bad operand type for unary -: 'str'"},
		{"min([])", KindValueError, "min() arg is an empty sequence"},
		{"range(1, 2, 0)", KindValueError, "range() arg 3 must not be zero"},
		{"range('a')", KindTypeError, "'str' object cannot be interpreted as an integer"},
		{"[1, 2].index(5)", KindValueError, "5 is not in list"},
		{"iter(1)", KindNameError, "name 'iter' is not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			out := runSource(t, "result = "+tt.expr+"\n")
			require.Error(t, out.err)
			var re *RuntimeError
			require.ErrorAs(t, out.err, &re)
			assert.Equal(t, tt.kind, re.Kind)
			assert.Equal(t, tt.msg, re.Message)
			assert.Equal(t, 1, re.Line)
		})
	}
}

func TestEval_SortedUnorderable(t *testing.T) {
	out := runSource(t, "result = sorted([1, 'a'])\n")
	assert.True(t, IsKind(out.err, KindTypeError))
}

func TestEval_AugmentedAssignment(t *testing.T) {
	src := "x = 1\n" +
		"x += 2\n" +
		"xs = [1]\n" +
		"ys = xs\n" +
		"xs += [2]\n" +
		"d = {'a': 1}\n" +
		"d['a'] *= 5\n" +
		"s = 'a'\n" +
		"s += 'b'\n" +
		"f = 7\n" +
		"f /= 2\n"
	out := runSource(t, src)

	require.NoError(t, out.err)
	assert.Equal(t, "3", out.lookup(t, "x"))
	assert.Equal(t, "[1, 2]", out.lookup(t, "ys"), "list += extends in place")
	assert.Equal(t, "{'a': 5}", out.lookup(t, "d"))
	assert.Equal(t, "'ab'", out.lookup(t, "s"))
	assert.Equal(t, "3.5", out.lookup(t, "f"))
}

func TestEval_ControlFlow(t *testing.T) {
	src := "total = 0\n" +
		"for i in range(10):\n" +
		"    if i % 2 == 0:\n" +
		"        continue\n" +
		"    elif i > 7:\n" +
		"        break\n" +
		"    total += i\n" +
		"chars = []\n" +
		"for c in 'hi':\n" +
		"    chars.append(c)\n" +
		"keys = []\n" +
		"for k in {'x': 1, 'y': 2}:\n" +
		"    keys.append(k)\n" +
		"if keys:\n" +
		"    branch = 'then'\n" +
		"else:\n" +
		"    branch = 'else'\n"
	out := runSource(t, src)

	require.NoError(t, out.err)
	assert.Equal(t, "16", out.lookup(t, "total"))
	assert.Equal(t, "9", out.lookup(t, "i"))
	assert.Equal(t, "['h', 'i']", out.lookup(t, "chars"))
	assert.Equal(t, "['x', 'y']", out.lookup(t, "keys"))
	assert.Equal(t, "'then'", out.lookup(t, "branch"))
}

func TestEval_ChainedComparisonShortCircuits(t *testing.T) {
	src := "calls = []\n" +
		"ok = 1 > 2 < calls.append(1)\n" +
		"both = 1 < 2 < len(calls) + 3\n"
	out := runSource(t, src)

	require.NoError(t, out.err)
	assert.Equal(t, "False", out.lookup(t, "ok"))
	assert.Equal(t, "[]", out.lookup(t, "calls"))
	assert.Equal(t, "True", out.lookup(t, "both"))
}

func TestEval_Imports(t *testing.T) {
	src := "import random\n" +
		"r1 = random\n" +
		"import random, math\n" +
		"same = r1 is random\n" +
		"root = math.sqrt(16)\n" +
		"low = math.floor(2.7)\n" +
		"math.tau = 6\n" +
		"tau = math.tau\n"
	out := runSource(t, src)

	require.NoError(t, out.err)
	assert.Equal(t, "True", out.lookup(t, "same"))
	assert.Equal(t, "4.0", out.lookup(t, "root"))
	assert.Equal(t, "2", out.lookup(t, "low"))
	assert.Equal(t, "6", out.lookup(t, "tau"))
	assert.Equal(t, "<module 'random'>", out.lookup(t, "random"))
}

func TestEval_ImportUnknownModule(t *testing.T) {
	out := runSource(t, "import os\n")
	var re *RuntimeError
	require.ErrorAs(t, out.err, &re)
	assert.Equal(t, KindImportError, re.Kind)
	assert.Equal(t, "No module named 'os'", re.Message)
	assert.Equal(t, "line 1: ModuleNotFoundError: No module named 'os'", re.Error())
}

func TestEval_RandomSeedResets(t *testing.T) {
	src := "import random\n" +
		"random.seed(42)\n" +
		"a = [random.randint(1, 1000000), random.random()]\n" +
		"random.seed(42)\n" +
		"b = [random.randint(1, 1000000), random.random()]\n" +
		"same = a == b\n"
	out := runSource(t, src)
	require.NoError(t, out.err)
	assert.Equal(t, "True", out.lookup(t, "same"))
}

func TestEval_RandomErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind RuntimeErrorKind
		msg  string
	}{
		{"random.randint(6, 1)", KindValueError, "empty range in randint(6, 1)"},
		{"random.choice([])", KindIndexError, "Cannot choose from an empty sequence"},
		{"random.seed('x')", KindTypeError, "seed() argument must be an integer, not 'str'"},
		{"random.nope", KindAttributeError, "module 'random' has no attribute 'nope'"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			out := runSource(t, "import random\n"+tt.src+"\n")
			var re *RuntimeError
			require.ErrorAs(t, out.err, &re)
			assert.Equal(t, tt.kind, re.Kind)
			assert.Equal(t, tt.msg, re.Message)
			assert.Equal(t, 2, re.Line)
		})
	}
}

func TestEval_ItemAssignment(t *testing.T) {
	out := runSource(t, "xs = [0, 0]\nxs[-1] = 5\nd = {}\nd['k'] = xs\n")
	require.NoError(t, out.err)
	assert.Equal(t, "[0, 5]", out.lookup(t, "xs"))
	assert.Equal(t, "{'k': [0, 5]}", out.lookup(t, "d"))

	out = runSource(t, "xs = []\nxs[0] = 1\n")
	var re *RuntimeError
	require.ErrorAs(t, out.err, &re)
	assert.Equal(t, KindIndexError, re.Kind)
	assert.Equal(t, "list assignment index out of range", re.Message)

	out = runSource(t, "s = 'ab'\ns[0] = 'c'\n")
	require.ErrorAs(t, out.err, &re)
	assert.Equal(t, "'str' object does not support item assignment", re.Message)
}
