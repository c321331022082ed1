// Package ast defines the token vocabulary and the AST node types for the
// Vela language.
//
// Tokens are the smallest meaningful units of a Vela source file. Every token
// carries its type, its half-open [Span] of character offsets into the source
// text, and, for tokens whose lexeme matters semantically (names, literals,
// whitespace runs), the scanned text itself. Punctuation and keyword tokens
// carry no value.
package ast

import "fmt"

// Span is a half-open (Start, End) character-offset interval locating a token
// or node in the original source text.
type Span struct {
	Start int
	End   int
}

// Merge combines two spans into the smallest span covering both.
func Merge(left, right Span) Span {
	s := left
	if right.Start < s.Start {
		s.Start = right.Start
	}
	if right.End > s.End {
		s.End = right.End
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// TokenType identifies the category of a scanned token.
// The set is closed: the lexer, the EOL inference pass, and the parser all
// dispatch on these tags and nothing else.
type TokenType int

const (
	// ── Structural ──────────────────────────────────────────────────────────

	// LPAREN is the left parenthesis: (
	LPAREN TokenType = iota
	// RPAREN is the right parenthesis: )
	RPAREN
	// LBRACKET is the left square bracket: [
	LBRACKET
	// RBRACKET is the right square bracket: ]
	RBRACKET
	// COMMA separates list elements, call arguments, and pair halves: ,
	COMMA
	// DOT is the field access operator: record.field
	DOT
	// COLON separates a name from its type annotation: x : Int
	COLON
	// COLON_EQUAL opens a block-bodied definition: let f(x) := ... end
	COLON_EQUAL
	// ARROW separates lambda parameters from the body and a parameter list
	// from a declared return type: \x -> x
	ARROW

	// ── Keywords ────────────────────────────────────────────────────────────

	// LET introduces a binding: let x = 42
	LET
	// IF begins a conditional expression: if p then c else a
	IF
	// THEN separates a conditional's predicate from its consequent.
	THEN
	// ELSE separates a conditional's consequent from its alternative.
	ELSE
	// END closes a block-bodied definition.
	END
	// IN is reserved for let ... in expressions.
	IN
	// NOT is the logical negation operator: not p
	NOT
	// AND is the logical conjunction operator: p and q
	AND
	// OR is the logical disjunction operator: p or q
	OR
	// TRUE is the boolean literal, written True.
	TRUE
	// FALSE is the boolean literal, written False.
	FALSE

	// ── Literals ────────────────────────────────────────────────────────────

	// INTEGER is a decimal integer literal, e.g. 0, 42, 1_000.
	INTEGER
	// FLOAT is a decimal floating-point literal, e.g. 3.14, .5.
	FLOAT
	// STRING is a double-quoted string literal; the token value excludes the
	// surrounding quotes.
	STRING
	// NAME is an identifier.
	NAME

	// ── Operators ───────────────────────────────────────────────────────────

	// EQUAL is both the equality operator and the binding operator: =
	EQUAL
	// QUESTION_EQUAL is the inequality operator: ?=
	QUESTION_EQUAL
	// GREATER is the greater-than operator: >
	GREATER
	// LESS is the less-than operator: <
	LESS
	// GREATER_EQUAL is the greater-or-equal operator: >=
	GREATER_EQUAL
	// LESS_EQUAL is the less-or-equal operator: <=
	LESS_EQUAL
	// PLUS is the addition operator: +
	PLUS
	// DASH is subtraction or unary negation: a - b  /  -x
	DASH
	// DIAMOND is the concatenation operator: <>
	DIAMOND
	// ASTERISK is the multiplication operator: *
	ASTERISK
	// FSLASH is the division operator: /
	FSLASH
	// PERCENT is the remainder operator: %
	PERCENT
	// CARET is the exponentiation operator: ^
	CARET
	// TILDE is the name of the unary negation function: ~
	TILDE
	// BSLASH opens a lambda expression: \x -> x
	BSLASH

	// ── Pipeline-only markers ───────────────────────────────────────────────

	// WHITESPACE is a run of whitespace characters. The token value carries
	// the literal text so the EOL inference pass can detect line breaks.
	// Whitespace tokens never reach the parser.
	WHITESPACE
	// COMMENT is a # comment running to the end of its line. Comment tokens
	// are placed in the token stream's ignore set before EOL inference.
	COMMENT
	// EOL is a statement terminator. It is synthetic: never produced by the
	// lexer, only by the EOL inference pass.
	EOL
)

// tokenNames maps every TokenType to the string used in diagnostics. For
// operator tokens this is the operator's lexeme, which is also the Name an
// operator desugars to in the AST.
var tokenNames = map[TokenType]string{
	LPAREN:         "(",
	RPAREN:         ")",
	LBRACKET:       "[",
	RBRACKET:       "]",
	COMMA:          ",",
	DOT:            ".",
	COLON:          ":",
	COLON_EQUAL:    ":=",
	ARROW:          "->",
	LET:            "let",
	IF:             "if",
	THEN:           "then",
	ELSE:           "else",
	END:            "end",
	IN:             "in",
	NOT:            "not",
	AND:            "and",
	OR:             "or",
	TRUE:           "True",
	FALSE:          "False",
	INTEGER:        "integer",
	FLOAT:          "float",
	STRING:         "string",
	NAME:           "name",
	EQUAL:          "=",
	QUESTION_EQUAL: "?=",
	GREATER:        ">",
	LESS:           "<",
	GREATER_EQUAL:  ">=",
	LESS_EQUAL:     "<=",
	PLUS:           "+",
	DASH:           "-",
	DIAMOND:        "<>",
	ASTERISK:       "*",
	FSLASH:         "/",
	PERCENT:        "%",
	CARET:          "^",
	TILDE:          "~",
	BSLASH:         "\\",
	WHITESPACE:     "whitespace",
	COMMENT:        "comment",
	EOL:            "<eol>",
}

// keywords maps the literal text of every Vela keyword to its TokenType.
// The lexer consults this map when it finishes scanning a name.
var keywords = map[string]TokenType{
	"let":   LET,
	"if":    IF,
	"then":  THEN,
	"else":  ELSE,
	"end":   END,
	"in":    IN,
	"not":   NOT,
	"and":   AND,
	"or":    OR,
	"True":  TRUE,
	"False": FALSE,
}

// LookupName checks whether ident is a reserved keyword and returns the
// corresponding TokenType. If ident is not a keyword, NAME is returned.
func LookupName(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return NAME
}

func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(tt))
}

// Token is a single lexical unit. Tokens are produced once and never mutated.
//
// Value is the empty string for tokens whose lexeme carries no semantic
// information (punctuation, keywords, the synthetic EOL marker).
type Token struct {
	Span  Span
	Type  TokenType
	Value string
}

// String returns a human-readable representation of the token, used in
// diagnostics and debug output.
func (t Token) String() string {
	if t.Value == "" {
		return fmt.Sprintf("[ %s %s ]", t.Span, t.Type)
	}
	return fmt.Sprintf("[ %s %s %q ]", t.Span, t.Type, t.Value)
}
