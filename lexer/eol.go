// EOL inference: turning physical line breaks into statement terminators.
//
// Vela has no statement separator character. Instead, the lexer emits raw
// whitespace tokens (carrying their text) and this pass decides, in a single
// forward sweep, which of them mark the end of a statement. A whitespace run
// becomes exactly one synthetic EOL token when all of these hold:
//
//   - the cursor is outside all brackets and parentheses,
//   - the run contains a line break,
//   - the previous forwarded token could legally end a statement, and
//   - the upcoming token (if any) could legally start one.
//
// Every other whitespace token is dropped. The decision is purely local
// (previous token, next token, bracket depth), so the pass needs no
// backtracking and no unbounded lookahead. Because EOL itself is not a valid
// ender, whitespace immediately following an inserted EOL can never trigger a
// second one: the output never holds two consecutive EOL tokens, which also
// makes the pass idempotent.
package lexer

import (
	"strings"

	"github.com/metaphox/vela-lang/ast"
)

var openers = map[ast.TokenType]bool{
	ast.LBRACKET: true,
	ast.LPAREN:   true,
}

var closers = map[ast.TokenType]bool{
	ast.RBRACKET: true,
	ast.RPAREN:   true,
}

// validEnders are the token types a statement may end on.
var validEnders = map[ast.TokenType]bool{
	ast.END:      true,
	ast.FALSE:    true,
	ast.FLOAT:    true,
	ast.INTEGER:  true,
	ast.NAME:     true,
	ast.RBRACKET: true,
	ast.RPAREN:   true,
	ast.STRING:   true,
	ast.TRUE:     true,
}

// validStarters are the token types a statement may start on.
var validStarters = map[ast.TokenType]bool{
	ast.BSLASH:   true,
	ast.END:      true,
	ast.FALSE:    true,
	ast.FLOAT:    true,
	ast.IF:       true,
	ast.INTEGER:  true,
	ast.LBRACKET: true,
	ast.LET:      true,
	ast.LPAREN:   true,
	ast.NOT:      true,
	ast.NAME:     true,
	ast.STRING:   true,
	ast.TILDE:    true,
	ast.TRUE:     true,
}

// canAddEOL decides whether the whitespace token ws marks a statement
// boundary, given the most recently forwarded token, the upcoming one (absent
// at end of input), and the current bracket depth.
func canAddEOL(prev, ws ast.Token, next ast.Token, hasNext bool, depth int) bool {
	return depth == 0 &&
		strings.ContainsAny(ws.Value, "\n\r") &&
		validEnders[prev.Type] &&
		(!hasNext || validStarters[next.Type])
}

// InferEOLs replaces the whitespace tokens in stream with zero-or-one EOL
// tokens per logical line break and returns a fresh stream over the result.
// The input stream must not surface comment tokens; put them in its ignore
// set. The input is consumed completely.
func InferEOLs(stream *TokenStream) *TokenStream {
	return NewTokenStream(insertEOLs(stream))
}

// insertEOLs is the single forward pass behind [InferEOLs]. The depth counter
// is deliberately allowed to go negative on unbalanced closers; it is only
// ever compared against zero, and the mismatch surfaces as a parse error
// later.
func insertEOLs(stream *TokenStream) []ast.Token {
	var out []ast.Token
	depth := 0
	// A source that begins with a declaration is treated as following an
	// implicit line break.
	prev := ast.Token{Span: ast.Span{Start: 0, End: 0}, Type: ast.EOL}
	for {
		tok, ok := stream.Next()
		if !ok {
			break
		}
		if tok.Type == ast.WHITESPACE {
			next, hasNext := stream.Preview()
			if canAddEOL(prev, tok, next, hasNext, depth) {
				eol := ast.Token{Span: tok.Span, Type: ast.EOL}
				prev = eol
				out = append(out, eol)
			}
			// Dropped whitespace never becomes prev.
			continue
		}

		if openers[tok.Type] {
			depth++
		} else if closers[tok.Type] {
			depth--
		}
		prev = tok
		out = append(out, tok)
	}

	// Close the final statement when the source doesn't end on a line break.
	if last := len(out) - 1; last >= 0 && out[last].Type != ast.EOL {
		end := out[last].Span.End
		out = append(out, ast.Token{
			Span: ast.Span{Start: end, End: end + 1},
			Type: ast.EOL,
		})
	}
	return out
}
