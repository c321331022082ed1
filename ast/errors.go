// Syntax error values.
//
// Parsing has exactly two failure modes and both are fatal to the current
// compilation unit: the stream held a token the grammar position cannot
// accept, or the stream ran out while a token was still required. Errors are
// returned, never panicked, and no fallback node is ever substituted.
package ast

import (
	"fmt"
	"strings"
)

// UnexpectedTokenError reports that the current token's type was not among
// the types a grammar position requires. It is produced both by failed
// consume calls and by prefix-handler lookups that come up empty (in which
// case Expected is nil).
type UnexpectedTokenError struct {
	Token    Token
	Expected []TokenType
}

func (e *UnexpectedTokenError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("unexpected %s token at %s", e.Token.Type, e.Token.Span)
	}
	names := make([]string, len(e.Expected))
	for i, tt := range e.Expected {
		names[i] = fmt.Sprintf("%q", tt.String())
	}
	return fmt.Sprintf(
		"unexpected %s token at %s, expected one of: %s",
		e.Token.Type, e.Token.Span, strings.Join(names, ", "),
	)
}

// UnexpectedEOFError reports that an expression or token was required but
// the stream had nothing left.
type UnexpectedEOFError struct{}

func (e *UnexpectedEOFError) Error() string {
	return "unexpected end of input"
}
