package parser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/assertrun/internal/ast"
	"github.com/roach88/assertrun/internal/source"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "equality assert",
			input: "assert 1==2\n",
			want:  `1: (assert (compare (const 1) "==" (const 2)))` + "\n",
		},
		{
			name:  "chained comparison",
			input: `assert "a"<"b"<"c"`,
			want:  `1: (assert (compare (const 'a') "<" (const 'b') "<" (const 'c')))` + "\n",
		},
		{
			name:  "assert with message",
			input: "assert x, 'msg'\n",
			want:  `1: (assert (name x) (const 'msg'))` + "\n",
		},
		{
			name:  "precedence",
			input: "x = 1 + 2 * 3\n",
			want:  `1: (assign (name x) (binary "+" (const 1) (binary "*" (const 2) (const 3))))` + "\n",
		},
		{
			name:  "parentheses",
			input: "x = (1 + 2) * 3\n",
			want:  `1: (assign (name x) (binary "*" (binary "+" (const 1) (const 2)) (const 3)))` + "\n",
		},
		{
			name:  "left associative",
			input: "a - b - c\n",
			want:  `1: (expr (binary "-" (binary "-" (name a) (name b)) (name c)))` + "\n",
		},
		{
			name:  "not binds looser than comparison",
			input: "not a == b\n",
			want:  `1: (expr (unary "not" (compare (name a) "==" (name b))))` + "\n",
		},
		{
			name:  "and binds tighter than or",
			input: "a or b and c\n",
			want:  `1: (expr (or (name a) (and (name b) (name c))))` + "\n",
		},
		{
			name:  "flattened and",
			input: "a and b and c\n",
			want:  `1: (expr (and (name a) (name b) (name c)))` + "\n",
		},
		{
			name:  "not in",
			input: "x not in y\n",
			want:  `1: (expr (compare (name x) "not in" (name y)))` + "\n",
		},
		{
			name:  "is not",
			input: "x is not None\n",
			want:  `1: (expr (compare (name x) "is not" (const None)))` + "\n",
		},
		{
			name:  "postfix chain",
			input: "-a.b[0](1)\n",
			want:  `1: (expr (unary "-" (call (idx (attr (name a) b) (const 0)) (const 1))))` + "\n",
		},
		{
			name:  "import",
			input: "import random, math\n",
			want:  "1: (import random math)\n",
		},
		{
			name:  "augmented assignment",
			input: "x += 1\nd['k'] //= 2\n",
			want:  `1: (augassign "+=" (name x) (const 1))` + "\n" + `2: (augassign "//=" (idx (name d) (const 'k')) (const 2))` + "\n",
		},
		{
			name:  "semicolons",
			input: "a = 1; assert a == 1;\n",
			want:  "1: (assign (name a) (const 1))\n" + `1: (assert (compare (name a) "==" (const 1)))` + "\n",
		},
		{
			name:  "list with trailing comma",
			input: "x = [1, 'a', None,]\n",
			want:  "1: (assign (name x) (list (const 1) (const 'a') (const None)))\n",
		},
		{
			name:  "dict",
			input: "{'k': [1], 2: True}\n",
			want:  "1: (expr (dict ((const 'k') (list (const 1))) ((const 2) (const True))))\n",
		},
		{
			name:  "adjacent strings",
			input: `s = 'ab' "cd"` + "\n",
			want:  "1: (assign (name s) (const 'abcd'))\n",
		},
		{
			name:  "numbers",
			input: "x = [1.5e3, .5, 0xff, 1_000, 0o17, 0b101]\n",
			want:  "1: (assign (name x) (list (const 1500.0) (const 0.5) (const 255) (const 1000) (const 15) (const 5)))\n",
		},
		{
			name:  "escapes",
			input: `s = 'a\tb\x41\u00e9\q'` + "\n",
			want:  `1: (assign (name s) (const 'a\tbAé\\q'))` + "\n",
		},
		{
			name:  "raw string",
			input: `s = r'a\tb'` + "\n",
			want:  `1: (assign (name s) (const 'a\\tb'))` + "\n",
		},
		{
			name:  "identifiers are NFKC normalized",
			input: "\ufb01 = 1\n",
			want:  "1: (assign (name fi) (const 1))\n",
		},
		{
			name: "if elif else",
			input: "if x:\n" +
				"    a = 1\n" +
				"elif y:\n" +
				"    pass\n" +
				"else:\n" +
				"    b = 2\n",
			want: "1: (if (name x) (block (assign (name a) (const 1))) (block (if (name y) (block (pass)) (block (assign (name b) (const 2))))))\n",
		},
		{
			name: "for with inline if",
			input: "for i in range(3):\n" +
				"\tif i == 1: break\n" +
				"\tcontinue\n",
			want: `1: (for (name i) (call (name range) (const 3)) (block (if (compare (name i) "==" (const 1)) (block (break))) (continue)))` + "\n",
		},
		{
			name: "backslash continuation keeps first line",
			input: "assert \"A\" < \\\n" +
				"       \"B\" < \\\n" +
				"       \"C\"\n" +
				"x = 1\n",
			want: `1: (assert (compare (const 'A') "<" (const 'B') "<" (const 'C')))` + "\n" +
				"4: (assign (name x) (const 1))\n",
		},
		{
			name:  "implicit continuation in brackets",
			input: "x = [1,\n  2]\ny = 3\n",
			want:  "1: (assign (name x) (list (const 1) (const 2)))\n3: (assign (name y) (const 3))\n",
		},
		{
			name:  "docstring comments and blank lines",
			input: "#!/usr/bin/python3\n\"\"\"doc\nstring\"\"\"\n# c\n\nx = 1  # trailing\n",
			want:  "2: (expr (const 'doc\\nstring'))\n6: (assign (name x) (const 1))\n",
		},
		{
			name:  "no trailing newline",
			input: "pass",
			want:  "1: (pass)\n",
		},
		{
			name:  "empty file",
			input: "\n\n# only a comment\n",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := ParseString("test.py", tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ast.Dump(prog))
		})
	}
}

func TestParse_CRLFAndBOM(t *testing.T) {
	prog, err := Parse(source.New("crlf.py", "\ufeffx = 1\r\nassert x == 1\r\n"))
	require.NoError(t, err)
	require.Len(t, prog.Body, 2)
	assert.Equal(t, ast.Pos{Line: 1, Col: 1}, prog.Body[0].Position())
	assert.Equal(t, ast.Pos{Line: 2, Col: 1}, prog.Body[1].Position())
}

func TestParse_Positions(t *testing.T) {
	prog, err := ParseString("pos.py", "x = 1\n\nassert  x == 2\n")
	require.NoError(t, err)
	require.Len(t, prog.Body, 2)

	a, ok := prog.Body[1].(*ast.Assert)
	require.True(t, ok)
	assert.Equal(t, ast.Pos{Line: 3, Col: 1}, a.Pos)

	cmp, ok := a.Test.(*ast.Compare)
	require.True(t, ok)
	assert.Equal(t, ast.Pos{Line: 3, Col: 9}, cmp.Pos)
	assert.Equal(t, ast.Pos{Line: 3, Col: 14}, cmp.Comparators[0].Position())
}

func TestParse_LineNumbersNonDecreasing(t *testing.T) {
	src := "import random\n" +
		"d = random.randint(1, 6)\n" +
		"assert d == 1\n" +
		"if d > 3:\n" +
		"    assert d != 2\n" +
		"a = 1; b = 2\n" +
		"assert 'x' < \\\n  'y'\n"
	prog, err := ParseString("lines.py", src)
	require.NoError(t, err)

	last := 0
	for _, s := range prog.Body {
		line := s.Position().Line
		assert.GreaterOrEqual(t, line, last)
		last = line
	}
	assert.Equal(t, 7, last)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
		col   int
		msg   string
	}{
		{"missing operand", "assert 1 ==\n", 1, 12, "invalid syntax: unexpected newline"},
		{"unclosed paren", "x = (1\n", 1, 5, "'(' was never closed"},
		{"unmatched closer", "x = 1)\n", 1, 6, "unmatched ')'"},
		{"mismatched closer", "x = [1)\n", 1, 7, "closing parenthesis ')' does not match opening parenthesis '['"},
		{"unexpected indent", "  x = 1\n", 1, 3, "unexpected indent"},
		{"missing block", "if x:\npass\n", 2, 1, "expected an indented block"},
		{"bad dedent", "if x:\n    a\n  b\n", 3, 3, "unindent does not match any outer indentation level"},
		{"missing colon", "if x\n    pass\n", 1, 5, "expected ':' after if condition"},
		{"assign to literal", "1 = x\n", 1, 1, "cannot assign to literal"},
		{"assign to call", "f() = 1\n", 1, 1, "cannot assign to function call"},
		{"assign to None", "None = 1\n", 1, 1, "cannot assign to None"},
		{"break outside loop", "break\n", 1, 1, "'break' outside loop"},
		{"continue in if", "if x:\n    continue\n", 2, 5, "'continue' outside loop"},
		{"unterminated string", "s = 'abc\n", 1, 5, "unterminated string literal"},
		{"unterminated triple", "s = \"\"\"abc\n", 1, 5, "unterminated triple-quoted string literal"},
		{"leading zeros", "x = 012\n", 1, 5, "leading zeros in decimal integer literals are not permitted"},
		{"int too large", "x = 99999999999999999999\n", 1, 5, "integer literal 99999999999999999999 is too large"},
		{"invalid decimal", "x = 3abc\n", 1, 5, "invalid decimal literal"},
		{"invalid character", "x = $\n", 1, 5, "invalid character '$' (U+0024)"},
		{"lone bang", "a != b !\n", 1, 8, "invalid syntax"},
		{"tuple", "x = (1, 2)\n", 1, 7, "tuples are not supported"},
		{"set", "x = {1, 2}\n", 1, 7, "sets are not supported"},
		{"slice", "x = y[1:2]\n", 1, 8, "slices are not supported"},
		{"keyword argument", "f(x=1)\n", 1, 4, "keyword arguments are not supported"},
		{"chained assignment", "a = b = 1\n", 1, 7, "chained assignment is not supported"},
		{"bad continuation", "x = 1 \\ y\n", 1, 7, "unexpected character after line continuation character"},
		{"byte string", "x = b'a'\n", 1, 5, "b-prefixed strings are not supported"},
		{"dotted import", "import os.path\n", 1, 10, "dotted module names are not supported"},
		{"dangling else", "else:\n    pass\n", 1, 1, "invalid syntax: unexpected keyword \"else\""},
		{"truncated hex escape", `s = '\x4'` + "\n", 1, 6, "truncated \\x escape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := ParseString("bad.py", tt.input)
			require.Error(t, err)
			assert.Nil(t, prog)

			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, "bad.py", se.File)
			assert.Equal(t, tt.line, se.Line, "line")
			assert.Equal(t, tt.col, se.Col, "col")
			assert.Equal(t, tt.msg, se.Msg)
		})
	}
}

func TestSyntaxError_Error(t *testing.T) {
	err := &SyntaxError{File: "asserts.py", Line: 3, Col: 7, Msg: "invalid syntax"}
	assert.Equal(t, "asserts.py:3:7: invalid syntax", err.Error())

	anon := &SyntaxError{Line: 1, Col: 2, Msg: "oops"}
	assert.Equal(t, "line 1:2: oops", anon.Error())

	wrapped := fmt.Errorf("parse failed: %w", err)
	assert.True(t, IsSyntaxError(wrapped))
	assert.False(t, IsSyntaxError(fmt.Errorf("other")))
}

func TestTokenize(t *testing.T) {
	toks, err := Tokenize("t.py", "if x:\n  y\n")
	require.NoError(t, err)

	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []Kind{Keyword, Name, Op, Newline, Indent, Name, Newline, Dedent, EOF}, kinds)
	assert.Equal(t, ast.Pos{Line: 2, Col: 3}, toks[4].Pos)
}

func TestTokenize_BlankLinesInsideBlock(t *testing.T) {
	toks, err := Tokenize("t.py", "for i in xs:\n    a\n\n    # note\n    b\nc\n")
	require.NoError(t, err)

	var got []string
	for _, tok := range toks {
		got = append(got, tok.String())
	}
	assert.Equal(t, []string{
		`keyword "for"`, `name "i"`, `keyword "in"`, `name "xs"`, `operator ":"`, "newline",
		"indent", `name "a"`, "newline",
		`name "b"`, "newline",
		"dedent", `name "c"`, "newline",
		"end of file",
	}, got)
}
