package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/assertrun/internal/ast"
	"github.com/roach88/assertrun/internal/value"
)

const tabWidth = 8

type lexer struct {
	file      string
	src       string
	pos       int
	line      int
	lineStart int

	indents []int
	open    []Token // unclosed brackets
	toks    []Token
}

// Tokenize splits src into tokens, synthesizing Newline, Indent and Dedent
// tokens from the line structure. The result always ends with EOF.
func Tokenize(file, src string) ([]Token, error) {
	lx := &lexer{
		file:    file,
		src:     src,
		line:    1,
		indents: []int{0},
	}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.toks, nil
}

func (lx *lexer) run() error {
	atLineStart := true
	for {
		if atLineStart && len(lx.open) == 0 {
			eof, err := lx.indentation()
			if err != nil {
				return err
			}
			if eof {
				break
			}
		}
		atLineStart = false
		if lx.pos >= len(lx.src) {
			break
		}

		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\f':
			lx.pos++
		case c == '#':
			lx.skipComment()
		case c == '\\':
			if err := lx.continuation(); err != nil {
				return err
			}
		case c == '\n':
			if len(lx.open) == 0 {
				lx.emit(Newline, "", nil, lx.here())
				atLineStart = true
			}
			lx.pos++
			lx.newline()
		case c == '\'' || c == '"':
			if err := lx.scanString(false, lx.here()); err != nil {
				return err
			}
		case isDigit(c) || (c == '.' && lx.pos+1 < len(lx.src) && isDigit(lx.src[lx.pos+1])):
			if err := lx.scanNumber(); err != nil {
				return err
			}
		default:
			r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
			if isIdentStart(r) {
				if err := lx.scanNameOrPrefixedString(); err != nil {
					return err
				}
				continue
			}
			if err := lx.scanOperator(); err != nil {
				return err
			}
		}
	}
	return lx.finish()
}

// indentation measures the leading whitespace of a logical line, skipping
// blank and comment-only lines, and emits Indent/Dedent tokens. It reports
// true when the input ends before any content.
func (lx *lexer) indentation() (bool, error) {
	for {
		width := 0
	scan:
		for ; lx.pos < len(lx.src); lx.pos++ {
			switch lx.src[lx.pos] {
			case ' ':
				width++
			case '\t':
				width = (width/tabWidth + 1) * tabWidth
			case '\f':
				width = 0
			default:
				break scan
			}
		}
		if lx.pos >= len(lx.src) {
			return true, nil
		}
		switch lx.src[lx.pos] {
		case '#':
			lx.skipComment()
			continue
		case '\n':
			lx.pos++
			lx.newline()
			continue
		}

		pos := lx.here()
		top := lx.indents[len(lx.indents)-1]
		switch {
		case width > top:
			lx.indents = append(lx.indents, width)
			lx.emit(Indent, "", nil, pos)
		case width < top:
			for width < lx.indents[len(lx.indents)-1] {
				lx.indents = lx.indents[:len(lx.indents)-1]
				lx.emit(Dedent, "", nil, pos)
			}
			if width != lx.indents[len(lx.indents)-1] {
				return false, lx.errorAt(pos, "unindent does not match any outer indentation level")
			}
		}
		return false, nil
	}
}

func (lx *lexer) finish() error {
	if len(lx.open) > 0 {
		tok := lx.open[len(lx.open)-1]
		return lx.errorAt(tok.Pos, "'%s' was never closed", tok.Text)
	}
	end := lx.here()
	if n := len(lx.toks); n > 0 && lx.toks[n-1].Kind != Newline && lx.toks[n-1].Kind != Dedent {
		lx.emit(Newline, "", nil, end)
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.emit(Dedent, "", nil, end)
	}
	lx.emit(EOF, "", nil, end)
	return nil
}

func (lx *lexer) emit(kind Kind, text string, v value.Value, pos ast.Pos) {
	lx.toks = append(lx.toks, Token{Kind: kind, Text: text, Value: v, Pos: pos})
}

func (lx *lexer) here() ast.Pos {
	return ast.Pos{
		Line: lx.line,
		Col:  utf8.RuneCountInString(lx.src[lx.lineStart:lx.pos]) + 1,
	}
}

// newline records that lx.pos is the first byte of a new physical line.
func (lx *lexer) newline() {
	lx.line++
	lx.lineStart = lx.pos
}

func (lx *lexer) errorAt(pos ast.Pos, format string, args ...any) *SyntaxError {
	return &SyntaxError{File: lx.file, Line: pos.Line, Col: pos.Col, Msg: fmt.Sprintf(format, args...)}
}

func (lx *lexer) skipComment() {
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
}

func (lx *lexer) continuation() error {
	pos := lx.here()
	if lx.pos+1 >= len(lx.src) {
		return lx.errorAt(pos, "unexpected end of file after line continuation character")
	}
	if lx.src[lx.pos+1] != '\n' {
		return lx.errorAt(pos, "unexpected character after line continuation character")
	}
	lx.pos += 2
	lx.newline()
	return nil
}

func (lx *lexer) scanNameOrPrefixedString() error {
	pos := lx.here()
	start := lx.pos
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !isIdentContinue(r) {
			break
		}
		lx.pos += size
	}
	text := lx.src[start:lx.pos]

	if lx.pos < len(lx.src) && (lx.src[lx.pos] == '\'' || lx.src[lx.pos] == '"') {
		switch text {
		case "r", "R":
			return lx.scanString(true, pos)
		case "u", "U":
			return lx.scanString(false, pos)
		case "b", "B", "f", "F", "rb", "br", "Rb", "bR", "RB", "BR", "rf", "fr":
			return lx.errorAt(pos, "%s-prefixed strings are not supported", text)
		}
	}

	text = norm.NFKC.String(text)
	if keywords[text] {
		lx.emit(Keyword, text, nil, pos)
	} else {
		lx.emit(Name, text, nil, pos)
	}
	return nil
}

func (lx *lexer) scanNumber() error {
	pos := lx.here()
	start := lx.pos
	src := lx.src

	if src[lx.pos] == '0' && lx.pos+1 < len(src) {
		base := 0
		switch src[lx.pos+1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			lx.pos += 2
			digits := lx.pos
			for lx.pos < len(src) && (isHexDigit(src[lx.pos]) || src[lx.pos] == '_') {
				lx.pos++
			}
			text := strings.ReplaceAll(src[digits:lx.pos], "_", "")
			n, err := strconv.ParseInt(text, base, 64)
			if err != nil {
				return lx.numberError(pos, src[start:lx.pos], err)
			}
			return lx.emitNumber(pos, value.Int(n))
		}
	}

	isFloat := false
	lx.digits()
	if lx.pos < len(src) && src[lx.pos] == '.' {
		isFloat = true
		lx.pos++
		lx.digits()
	}
	if lx.pos < len(src) && (src[lx.pos] == 'e' || src[lx.pos] == 'E') {
		save := lx.pos
		lx.pos++
		if lx.pos < len(src) && (src[lx.pos] == '+' || src[lx.pos] == '-') {
			lx.pos++
		}
		if lx.pos < len(src) && isDigit(src[lx.pos]) {
			isFloat = true
			lx.digits()
		} else {
			lx.pos = save
		}
	}

	literal := src[start:lx.pos]
	text := strings.ReplaceAll(literal, "_", "")
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return lx.numberError(pos, literal, err)
		}
		return lx.emitNumber(pos, value.Float(f))
	}
	if len(text) > 1 && text[0] == '0' && strings.Trim(text, "0") != "" {
		return lx.errorAt(pos, "leading zeros in decimal integer literals are not permitted")
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return lx.numberError(pos, literal, err)
	}
	return lx.emitNumber(pos, value.Int(n))
}

func (lx *lexer) digits() {
	for lx.pos < len(lx.src) && (isDigit(lx.src[lx.pos]) || lx.src[lx.pos] == '_') {
		lx.pos++
	}
}

func (lx *lexer) emitNumber(pos ast.Pos, v value.Value) error {
	if lx.pos < len(lx.src) {
		r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if isIdentContinue(r) {
			return lx.errorAt(pos, "invalid decimal literal")
		}
	}
	lx.emit(Number, "", v, pos)
	return nil
}

func (lx *lexer) numberError(pos ast.Pos, literal string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return lx.errorAt(pos, "integer literal %s is too large", literal)
	}
	return lx.errorAt(pos, "invalid number literal %q", literal)
}

// scanString reads a quoted literal starting at lx.pos. pos is the start of
// the token including any prefix.
func (lx *lexer) scanString(raw bool, pos ast.Pos) error {
	src := lx.src
	q := src[lx.pos]
	delim := string(q)
	if strings.HasPrefix(src[lx.pos:], strings.Repeat(delim, 3)) {
		delim = strings.Repeat(delim, 3)
	}
	triple := len(delim) == 3
	lx.pos += len(delim)

	var sb strings.Builder
	for {
		if lx.pos >= len(src) {
			if triple {
				return lx.errorAt(pos, "unterminated triple-quoted string literal")
			}
			return lx.errorAt(pos, "unterminated string literal")
		}
		if strings.HasPrefix(src[lx.pos:], delim) {
			lx.pos += len(delim)
			break
		}
		c := src[lx.pos]
		switch {
		case c == '\n':
			if !triple {
				return lx.errorAt(pos, "unterminated string literal")
			}
			sb.WriteByte('\n')
			lx.pos++
			lx.newline()
		case c == '\\' && raw:
			sb.WriteByte('\\')
			lx.pos++
			if lx.pos < len(src) {
				next := src[lx.pos]
				sb.WriteByte(next)
				lx.pos++
				if next == '\n' {
					lx.newline()
				}
			}
		case c == '\\':
			if err := lx.escape(&sb); err != nil {
				return err
			}
		default:
			sb.WriteByte(c)
			lx.pos++
		}
	}
	lx.emit(String, "", value.Str(sb.String()), pos)
	return nil
}

// escape decodes the escape sequence at lx.pos (which holds the backslash).
// Unknown escapes are kept verbatim.
func (lx *lexer) escape(sb *strings.Builder) error {
	pos := lx.here()
	src := lx.src
	lx.pos++
	if lx.pos >= len(src) {
		return lx.errorAt(pos, "unterminated string literal")
	}
	c := src[lx.pos]
	lx.pos++
	switch c {
	case '\n':
		lx.newline()
	case '\\', '\'', '"':
		sb.WriteByte(c)
	case 'a':
		sb.WriteByte('\a')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'v':
		sb.WriteByte('\v')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := int(c - '0')
		for i := 0; i < 2 && lx.pos < len(src) && src[lx.pos] >= '0' && src[lx.pos] <= '7'; i++ {
			n = n*8 + int(src[lx.pos]-'0')
			lx.pos++
		}
		sb.WriteRune(rune(n))
	case 'x', 'u', 'U':
		width := 2
		switch c {
		case 'u':
			width = 4
		case 'U':
			width = 8
		}
		if lx.pos+width > len(src) {
			return lx.errorAt(pos, "truncated \\%c escape", c)
		}
		n, err := strconv.ParseUint(src[lx.pos:lx.pos+width], 16, 32)
		if err != nil {
			return lx.errorAt(pos, "truncated \\%c escape", c)
		}
		if n > unicode.MaxRune {
			return lx.errorAt(pos, "illegal Unicode character")
		}
		lx.pos += width
		sb.WriteRune(rune(n))
	case 'N':
		return lx.errorAt(pos, "\\N{...} escapes are not supported")
	default:
		sb.WriteByte('\\')
		lx.pos--
	}
	return nil
}

func (lx *lexer) scanOperator() error {
	pos := lx.here()
	rest := lx.src[lx.pos:]
	for _, op := range operators {
		if !strings.HasPrefix(rest, op) {
			continue
		}
		lx.pos += len(op)
		tok := Token{Kind: Op, Text: op, Pos: pos}
		switch op {
		case "(", "[", "{":
			lx.open = append(lx.open, tok)
		case ")", "]", "}":
			if len(lx.open) == 0 {
				return lx.errorAt(pos, "unmatched '%s'", op)
			}
			opener := lx.open[len(lx.open)-1]
			if closerFor(opener.Text) != op {
				return lx.errorAt(pos, "closing parenthesis '%s' does not match opening parenthesis '%s'", op, opener.Text)
			}
			lx.open = lx.open[:len(lx.open)-1]
		}
		lx.toks = append(lx.toks, tok)
		return nil
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if r == '!' {
		return lx.errorAt(pos, "invalid syntax")
	}
	return lx.errorAt(pos, "invalid character '%c' (U+%04X)", r, r)
}

func closerFor(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	default:
		return "}"
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)
}
