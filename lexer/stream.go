// TokenStream: a forward-only cursor over a token sequence.
//
// The stream is single-pass and destructive: a consumed token cannot be
// re-read, and only the token under the cursor is ever inspected. Token types
// in the ignore set (comments, typically) are skipped transparently before
// any read, so callers never see them.
package lexer

import "github.com/metaphox/vela-lang/ast"

// TokenStream wraps an ordered token sequence plus a set of token types that
// are transparently skipped on every read. Create one with [NewTokenStream];
// never rewind or reuse a stream after exhausting it.
type TokenStream struct {
	tokens []ast.Token
	pos    int
	ignore map[ast.TokenType]bool
}

// NewTokenStream creates a stream over tokens. Tokens whose type appears in
// ignore are invisible to every method.
func NewTokenStream(tokens []ast.Token, ignore ...ast.TokenType) *TokenStream {
	ignored := make(map[ast.TokenType]bool, len(ignore))
	for _, tt := range ignore {
		ignored[tt] = true
	}
	return &TokenStream{tokens: tokens, ignore: ignored}
}

// skipIgnored advances the cursor past any ignored tokens.
func (s *TokenStream) skipIgnored() {
	for s.pos < len(s.tokens) && s.ignore[s.tokens[s.pos].Type] {
		s.pos++
	}
}

// Empty reports whether the stream has no tokens left.
func (s *TokenStream) Empty() bool {
	s.skipIgnored()
	return s.pos >= len(s.tokens)
}

// Preview returns the next token without consuming it. At end of stream it
// returns a zero Token and false.
func (s *TokenStream) Preview() (ast.Token, bool) {
	s.skipIgnored()
	if s.pos >= len(s.tokens) {
		return ast.Token{}, false
	}
	return s.tokens[s.pos], true
}

// Peek reports whether the next token's type is one of types. It never
// errors; at end of stream it reports false.
func (s *TokenStream) Peek(types ...ast.TokenType) bool {
	tok, ok := s.Preview()
	if !ok {
		return false
	}
	for _, tt := range types {
		if tok.Type == tt {
			return true
		}
	}
	return false
}

// Next returns the next token and advances past it. It reports false when
// the stream is exhausted.
func (s *TokenStream) Next() (ast.Token, bool) {
	tok, ok := s.Preview()
	if !ok {
		return ast.Token{}, false
	}
	s.pos++
	return tok, true
}

// Consume returns the next token and advances past it if its type is one of
// types. A mismatch produces an [ast.UnexpectedTokenError] identifying the
// offending token and the full expected set; an exhausted stream produces an
// [ast.UnexpectedEOFError]. On error the stream does not advance.
func (s *TokenStream) Consume(types ...ast.TokenType) (ast.Token, error) {
	tok, ok := s.Preview()
	if !ok {
		return ast.Token{}, &ast.UnexpectedEOFError{}
	}
	for _, tt := range types {
		if tok.Type == tt {
			s.pos++
			return tok, nil
		}
	}
	return ast.Token{}, &ast.UnexpectedTokenError{Token: tok, Expected: types}
}

// ConsumeIf advances past the next token and reports true if its type is one
// of types; otherwise it leaves the stream untouched and reports false.
func (s *TokenStream) ConsumeIf(types ...ast.TokenType) bool {
	if !s.Peek(types...) {
		return false
	}
	s.pos++
	return true
}
