package parser

import (
	"fmt"

	"github.com/roach88/assertrun/internal/ast"
	"github.com/roach88/assertrun/internal/value"
)

// Kind identifies a token class.
type Kind int

const (
	EOF Kind = iota
	Newline
	Indent
	Dedent
	Name
	Number
	String
	Op
	Keyword
)

var kindNames = [...]string{
	EOF:     "end of file",
	Newline: "newline",
	Indent:  "indent",
	Dedent:  "dedent",
	Name:    "name",
	Number:  "number",
	String:  "string",
	Op:      "operator",
	Keyword: "keyword",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one lexical token. Text is the normalized spelling for names,
// keywords and operators; Value holds the decoded literal for numbers and
// strings.
type Token struct {
	Kind  Kind
	Text  string
	Value value.Value
	Pos   ast.Pos
}

func (t Token) String() string {
	switch t.Kind {
	case Name, Op, Keyword:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	case Number, String:
		return fmt.Sprintf("%s %s", t.Kind, value.Repr(t.Value))
	default:
		return t.Kind.String()
	}
}

// is reports whether t is the operator or keyword spelled text.
func (t Token) is(text string) bool {
	return (t.Kind == Op || t.Kind == Keyword) && t.Text == text
}

var keywords = map[string]bool{
	"and":      true,
	"assert":   true,
	"break":    true,
	"continue": true,
	"elif":     true,
	"else":     true,
	"False":    true,
	"for":      true,
	"if":       true,
	"import":   true,
	"in":       true,
	"is":       true,
	"None":     true,
	"not":      true,
	"or":       true,
	"pass":     true,
	"True":     true,
}

// operators is ordered longest first so the lexer can take the first match.
var operators = []string{
	"//=",
	"==", "!=", "<=", ">=", "//", "+=", "-=", "*=", "/=", "%=",
	"<", ">", "=", "+", "-", "*", "/", "%",
	"(", ")", "[", "]", "{", "}", ",", ":", ".", ";",
}
