// Package lexer turns Vela source text into tokens and prepares them for the
// parser.
//
// The pipeline has three pieces, used in order:
//
//	toks, err := lexer.New(src).Scan()                      // raw tokens
//	stream := lexer.NewTokenStream(toks, ast.COMMENT)       // hide comments
//	stream = lexer.InferEOLs(stream)                        // eol markers
//
// Scan produces the raw sequence including explicit whitespace tokens (their
// value is the scanned text, so the EOL pass can spot line breaks) and
// comment tokens. [InferEOLs] (eol.go) collapses the whitespace into
// statement terminators; the parser consumes the result through
// [TokenStream] (stream.go) and never sees whitespace or comments.
//
// Design notes:
//   - Single-pass, character-by-character scanning using a read position
//     cursor. No global state; every [Lexer] is independent.
//   - Token spans are half-open byte offsets into the input.
//   - Identifiers are scanned first and classified as keywords via
//     [ast.LookupName].
//   - Multi-character operators (:= -> <> <= >= ?=) need one character of
//     look-ahead, handled by peekChar.
//   - The only failure mode is an [IllegalCharError]: a byte no token can
//     start with, or an unterminated string.
package lexer

import (
	"fmt"

	"github.com/metaphox/vela-lang/ast"
)

// IllegalCharError reports a character the lexer could not start a token
// from, including the opening quote of a string that never closes.
type IllegalCharError struct {
	Offset int
	Char   byte
}

func (e *IllegalCharError) Error() string {
	return fmt.Sprintf("illegal character %q at offset %d", string(e.Char), e.Offset)
}

// Lexer holds all state required to tokenise a single source string.
// Create one with [New]; never copy a Lexer after first use.
type Lexer struct {
	input   string // the full source text
	pos     int    // current read position (index of ch)
	readPos int    // next read position (pos + 1)
	ch      byte   // current character under examination
}

// New creates a [Lexer] over the given input string.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar() // prime: set l.ch = input[0]
	return l
}

// Scan tokenises the whole input and returns the raw token sequence,
// whitespace and comment tokens included. It stops at the first illegal
// character.
func (l *Lexer) Scan() ([]ast.Token, error) {
	var toks []ast.Token
	for l.ch != 0 {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

// next scans a single token starting at the current character, which must
// not be the end-of-input sentinel.
func (l *Lexer) next() (ast.Token, error) {
	start := l.pos

	switch {
	case isSpace(l.ch):
		return l.readWhitespace(), nil
	case l.ch == '#':
		return l.readComment(), nil
	case l.ch == '"':
		return l.readString()
	case isLetter(l.ch):
		return l.readName(), nil
	case isDigit(l.ch):
		return l.readNumber(), nil
	case l.ch == '.' && isDigit(l.peekChar()):
		return l.readNumber(), nil
	}

	switch l.ch {
	case '(':
		return l.single(ast.LPAREN), nil
	case ')':
		return l.single(ast.RPAREN), nil
	case '[':
		return l.single(ast.LBRACKET), nil
	case ']':
		return l.single(ast.RBRACKET), nil
	case ',':
		return l.single(ast.COMMA), nil
	case '.':
		return l.single(ast.DOT), nil
	case '+':
		return l.single(ast.PLUS), nil
	case '*':
		return l.single(ast.ASTERISK), nil
	case '/':
		return l.single(ast.FSLASH), nil
	case '%':
		return l.single(ast.PERCENT), nil
	case '^':
		return l.single(ast.CARET), nil
	case '~':
		return l.single(ast.TILDE), nil
	case '\\':
		return l.single(ast.BSLASH), nil
	case '=':
		return l.single(ast.EQUAL), nil
	case ':':
		if l.peekChar() == '=' {
			return l.double(ast.COLON_EQUAL), nil
		}
		return l.single(ast.COLON), nil
	case '-':
		if l.peekChar() == '>' {
			return l.double(ast.ARROW), nil
		}
		return l.single(ast.DASH), nil
	case '<':
		switch l.peekChar() {
		case '=':
			return l.double(ast.LESS_EQUAL), nil
		case '>':
			return l.double(ast.DIAMOND), nil
		}
		return l.single(ast.LESS), nil
	case '>':
		if l.peekChar() == '=' {
			return l.double(ast.GREATER_EQUAL), nil
		}
		return l.single(ast.GREATER), nil
	case '?':
		if l.peekChar() == '=' {
			return l.double(ast.QUESTION_EQUAL), nil
		}
	}

	return ast.Token{}, &IllegalCharError{Offset: start, Char: l.ch}
}

// ── Internal helpers ──────────────────────────────────────────────────────────

// readChar advances the lexer by one character. When the input is exhausted
// l.ch is set to 0 (the null byte sentinel for end of input).
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar returns the next character without consuming it.
// Returns 0 when the end of input has been reached.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// single consumes the current character and emits a one-character token.
func (l *Lexer) single(tt ast.TokenType) ast.Token {
	start := l.pos
	l.readChar()
	return ast.Token{Span: ast.Span{Start: start, End: l.pos}, Type: tt}
}

// double consumes the current character and the one after it, emitting a
// two-character token.
func (l *Lexer) double(tt ast.TokenType) ast.Token {
	start := l.pos
	l.readChar()
	l.readChar()
	return ast.Token{Span: ast.Span{Start: start, End: l.pos}, Type: tt}
}

// readWhitespace scans a run of whitespace characters. The token value keeps
// the literal text: the EOL inference pass needs to see the line breaks.
func (l *Lexer) readWhitespace() ast.Token {
	start := l.pos
	for isSpace(l.ch) {
		l.readChar()
	}
	return ast.Token{
		Span:  ast.Span{Start: start, End: l.pos},
		Type:  ast.WHITESPACE,
		Value: l.input[start:l.pos],
	}
}

// readComment scans a # comment up to, but not including, the line break,
// so the break itself still reaches the EOL inference pass as whitespace.
func (l *Lexer) readComment() ast.Token {
	start := l.pos
	for l.ch != '\n' && l.ch != '\r' && l.ch != 0 {
		l.readChar()
	}
	return ast.Token{
		Span:  ast.Span{Start: start, End: l.pos},
		Type:  ast.COMMENT,
		Value: l.input[start:l.pos],
	}
}

// readName scans an identifier and classifies keywords. Only true
// identifiers keep their text; keyword tokens carry no value.
func (l *Lexer) readName() ast.Token {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	text := l.input[start:l.pos]
	tt := ast.LookupName(text)
	tok := ast.Token{Span: ast.Span{Start: start, End: l.pos}, Type: tt}
	if tt == ast.NAME {
		tok.Value = text
	}
	return tok
}

// readNumber scans an integer or float literal. Underscore separators are
// allowed after the first digit; a decimal point followed by a digit turns
// the token into a FLOAT. A leading point (.5) is also a FLOAT; next has
// already checked the character after the point.
func (l *Lexer) readNumber() ast.Token {
	start := l.pos
	tt := ast.INTEGER

	for isDigit(l.ch) || (l.ch == '_' && l.pos > start) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) || l.ch == '.' && l.pos == start {
		tt = ast.FLOAT
		l.readChar() // consume '.'
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}

	return ast.Token{
		Span:  ast.Span{Start: start, End: l.pos},
		Type:  tt,
		Value: l.input[start:l.pos],
	}
}

// readString scans a double-quoted string literal. The token value is the
// text between the quotes with escape sequences kept raw; decoding them is a
// later stage's concern. A string that never closes is an IllegalCharError
// pointing at the opening quote.
func (l *Lexer) readString() (ast.Token, error) {
	start := l.pos
	l.readChar() // skip opening '"'

	inEscape := false
	for l.ch != 0 {
		if !inEscape && l.ch == '"' {
			l.readChar() // consume closing '"'
			return ast.Token{
				Span:  ast.Span{Start: start, End: l.pos},
				Type:  ast.STRING,
				Value: l.input[start+1 : l.pos-1],
			}, nil
		}
		inEscape = !inEscape && l.ch == '\\'
		l.readChar()
	}
	return ast.Token{}, &IllegalCharError{Offset: start, Char: '"'}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// isLetter reports whether b can start or continue an identifier.
// Vela identifiers follow the pattern [a-zA-Z_][a-zA-Z0-9_]*.
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		b == '_'
}

// isDigit reports whether b is an ASCII decimal digit (0–9).
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
