// Package parser implements the Vela expression parser.
//
// The parser reads a [lexer.TokenStream] (already run through EOL inference,
// so statement terminators are explicit) and builds an [ast.Node] tree.
// Expression parsing uses Pratt (top-down operator precedence): each token
// type that can start an expression has a prefix function, each token type
// that can continue one has an infix function, and an integer binding-power
// table decides when an infix operator captures the expression to its left.
//
// Usage:
//
//	toks, err := lexer.New(source).Scan()
//	stream := lexer.InferEOLs(lexer.NewTokenStream(toks, ast.COMMENT))
//	node, err := parser.Parse(stream)
//
// There is no error recovery: the first malformed token aborts the parse of
// the whole unit with an [ast.UnexpectedTokenError] or
// [ast.UnexpectedEOFError], and no partial tree is returned.
package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/metaphox/vela-lang/ast"
	"github.com/metaphox/vela-lang/lexer"
)

// Incomplete reports whether err means the source ended mid-expression
// rather than containing a malformed construct. The stream running dry is
// one form; the other is tripping over an eol marker, which only the final
// line break of a truncated source can produce. Interactive callers use this
// to keep reading lines instead of reporting the error.
func Incomplete(err error) bool {
	var eof *ast.UnexpectedEOFError
	if errors.As(err, &eof) {
		return true
	}
	var unexpected *ast.UnexpectedTokenError
	return errors.As(err, &unexpected) && unexpected.Token.Type == ast.EOL
}

// ── Operator binding powers ───────────────────────────────────────────────────

// precedences maps each operator token type to its binding power; higher
// binds tighter. Token types not in this map cannot continue an expression.
var precedences = map[ast.TokenType]int{
	ast.LET:            0,
	ast.COMMA:          10,
	ast.BSLASH:         20,
	ast.IF:             30,
	ast.AND:            40,
	ast.OR:             50,
	ast.NOT:            60,
	ast.GREATER:        70,
	ast.LESS:           70,
	ast.GREATER_EQUAL:  70,
	ast.LESS_EQUAL:     70,
	ast.QUESTION_EQUAL: 70,
	ast.EQUAL:          70,
	ast.PLUS:           80,
	ast.DASH:           80,
	ast.DIAMOND:        80,
	ast.FSLASH:         90,
	ast.ASTERISK:       90,
	ast.PERCENT:        90,
	ast.CARET:          100,
	ast.LPAREN:         110,
	ast.DOT:            120,
}

// scalarTokens are the token types a literal constant can be parsed from.
var scalarTokens = []ast.TokenType{
	ast.FALSE, ast.FLOAT, ast.INTEGER, ast.STRING, ast.TRUE,
}

// ── Parser ────────────────────────────────────────────────────────────────────

// prefixParseFn parses a primary or prefix form starting at the current
// token.
type prefixParseFn func() (ast.Node, error)

// infixParseFn extends the already-parsed left node with an operator and its
// right operand. It must consume the operator token itself.
type infixParseFn func(left ast.Node) (ast.Node, error)

// Parser holds all state needed to parse one token stream. Create one with
// [New] and call [Parser.Parse]; a Parser is single-use, like its stream.
type Parser struct {
	stream *lexer.TokenStream

	prefixFns map[ast.TokenType]prefixParseFn
	infixFns  map[ast.TokenType]infixParseFn

	// typeVars numbers the fresh type variables synthesised for unannotated
	// parameters. Owned per-parse so independent parses never share names.
	typeVars int
}

// Parse reads every token in stream and returns the root node of the unit:
// Unit for an empty stream, a single expression unwrapped, or a Block of two
// or more expressions in source order.
func Parse(stream *lexer.TokenStream) (ast.Node, error) {
	return New(stream).Parse()
}

// New creates a Parser over stream and registers all parse functions.
func New(stream *lexer.TokenStream) *Parser {
	p := &Parser{
		stream:    stream,
		prefixFns: make(map[ast.TokenType]prefixParseFn),
		infixFns:  make(map[ast.TokenType]infixParseFn),
	}

	// ── Prefix (nud) functions ────────────────────────────────────────────────
	p.prefixFns[ast.IF] = p.parseIf
	p.prefixFns[ast.BSLASH] = p.parseFunc
	p.prefixFns[ast.NAME] = p.parseName
	p.prefixFns[ast.LBRACKET] = p.parseList
	p.prefixFns[ast.LPAREN] = p.parseGroup
	p.prefixFns[ast.LET] = p.parseDefine
	p.prefixFns[ast.NOT] = p.parseNot
	p.prefixFns[ast.DASH] = p.parseNegate
	for _, tt := range scalarTokens {
		p.prefixFns[tt] = p.parseScalar
	}

	// ── Infix (led) functions ─────────────────────────────────────────────────
	for _, tt := range []ast.TokenType{
		ast.AND, ast.OR,
		ast.GREATER, ast.LESS, ast.GREATER_EQUAL, ast.LESS_EQUAL,
		ast.EQUAL, ast.QUESTION_EQUAL,
		ast.PLUS, ast.DASH, ast.DIAMOND,
		ast.ASTERISK, ast.PERCENT, ast.CARET,
	} {
		p.infixFns[tt] = p.infixOp(tt, false)
	}
	// Division is right-associative. Unusual, but it is part of the language
	// design, so 8 / 4 / 2 parses as 8 / (4 / 2).
	p.infixFns[ast.FSLASH] = p.infixOp(ast.FSLASH, true)
	p.infixFns[ast.LPAREN] = p.parseApply
	p.infixFns[ast.DOT] = p.parseDot
	p.infixFns[ast.COMMA] = p.parsePair

	return p
}

// Parse parses the whole stream as a top-level sequence of expressions, each
// terminated by an EOL token.
func (p *Parser) Parse() (ast.Node, error) {
	var exprs []ast.Node
	for !p.stream.Empty() {
		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.stream.Consume(ast.EOL); err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}

	switch len(exprs) {
	case 0:
		return ast.NewUnit(ast.Span{}), nil
	case 1:
		return exprs[0], nil
	}
	first, last := exprs[0].Span(), exprs[len(exprs)-1].Span()
	return ast.NewBlock(ast.Merge(first, last), exprs), nil
}

// ── Pratt driver ──────────────────────────────────────────────────────────────

// parseExpr is the precedence-climbing loop. minPower is the lowest binding
// power of operators the caller is willing to let capture the result; the
// loop stops at the first upcoming token that binds no tighter than that, has
// no table entry, or has no infix function.
func (p *Parser) parseExpr(minPower int) (ast.Node, error) {
	first, ok := p.stream.Preview()
	if !ok {
		return nil, &ast.UnexpectedEOFError{}
	}
	prefix := p.prefixFns[first.Type]
	if prefix == nil {
		return nil, &ast.UnexpectedTokenError{Token: first}
	}

	left, err := prefix()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.stream.Preview()
		if !ok {
			break
		}
		power, bound := precedences[op.Type]
		if !bound || power <= minPower {
			break
		}
		infix := p.infixFns[op.Type]
		if infix == nil {
			break
		}
		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// ── Prefix parse functions ────────────────────────────────────────────────────

func (p *Parser) parseName() (ast.Node, error) {
	tok, err := p.stream.Consume(ast.NAME)
	if err != nil {
		return nil, err
	}
	return ast.NewName(tok.Span, tok.Value), nil
}

func (p *Parser) parseScalar() (ast.Node, error) {
	tok, err := p.stream.Consume(scalarTokens...)
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case ast.TRUE:
		return ast.NewScalar(tok.Span, true), nil
	case ast.FALSE:
		return ast.NewScalar(tok.Span, false), nil
	case ast.INTEGER:
		value, err := strconv.ParseInt(strings.ReplaceAll(tok.Value, "_", ""), 10, 64)
		if err != nil {
			return nil, &ast.UnexpectedTokenError{Token: tok, Expected: []ast.TokenType{ast.INTEGER}}
		}
		return ast.NewScalar(tok.Span, value), nil
	case ast.FLOAT:
		value, err := strconv.ParseFloat(strings.ReplaceAll(tok.Value, "_", ""), 64)
		if err != nil {
			return nil, &ast.UnexpectedTokenError{Token: tok, Expected: []ast.TokenType{ast.FLOAT}}
		}
		return ast.NewScalar(tok.Span, value), nil
	}
	return ast.NewScalar(tok.Span, tok.Value), nil
}

// parseGroup parses ( expr ). An empty group is the Unit value. Either way
// the node's span is widened to cover both parentheses.
func (p *Parser) parseGroup() (ast.Node, error) {
	first, err := p.stream.Consume(ast.LPAREN)
	if err != nil {
		return nil, err
	}
	var expr ast.Node
	if p.stream.Peek(ast.RPAREN) {
		expr = ast.NewUnit(first.Span)
	} else {
		expr, err = p.parseExpr(0)
		if err != nil {
			return nil, err
		}
	}
	last, err := p.stream.Consume(ast.RPAREN)
	if err != nil {
		return nil, err
	}
	expr.SetSpan(ast.Merge(first.Span, last.Span))
	return expr, nil
}

// parseList parses [ e, e, ... ] with an optional trailing comma.
func (p *Parser) parseList() (ast.Node, error) {
	first, err := p.stream.Consume(ast.LBRACKET)
	if err != nil {
		return nil, err
	}
	elements, err := p.parseElements(ast.RBRACKET)
	if err != nil {
		return nil, err
	}
	last, err := p.stream.Consume(ast.RBRACKET)
	if err != nil {
		return nil, err
	}
	return ast.NewList(ast.Merge(first.Span, last.Span), elements), nil
}

// parseElements parses comma-separated expressions until one of the end
// token types comes up. Elements bind just above the comma so the commas
// stay separators instead of building pairs. A trailing comma is allowed.
func (p *Parser) parseElements(end ...ast.TokenType) ([]ast.Node, error) {
	power := precedences[ast.COMMA]
	var elements []ast.Node
	for !p.stream.Peek(end...) {
		element, err := p.parseExpr(power)
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
		if !p.stream.ConsumeIf(ast.COMMA) {
			break
		}
	}
	return elements, nil
}

func (p *Parser) parseNot() (ast.Node, error) {
	tok, err := p.stream.Consume(ast.NOT)
	if err != nil {
		return nil, err
	}
	operand, err := p.parseExpr(precedences[ast.NOT])
	if err != nil {
		return nil, err
	}
	span := ast.Merge(tok.Span, operand.Span())
	return ast.NewApply(span, ast.NewName(tok.Span, "not"), operand), nil
}

// parseNegate parses unary minus, which desugars to an application of the
// negation function ~.
func (p *Parser) parseNegate() (ast.Node, error) {
	tok, err := p.stream.Consume(ast.DASH)
	if err != nil {
		return nil, err
	}
	operand, err := p.parseExpr(precedences[ast.DASH])
	if err != nil {
		return nil, err
	}
	span := ast.Merge(tok.Span, operand.Span())
	return ast.NewApply(span, ast.NewName(tok.Span, "~"), operand), nil
}

func (p *Parser) parseIf() (ast.Node, error) {
	first, err := p.stream.Consume(ast.IF)
	if err != nil {
		return nil, err
	}
	power := precedences[ast.IF]
	pred, err := p.parseExpr(power)
	if err != nil {
		return nil, err
	}
	if _, err := p.stream.Consume(ast.THEN); err != nil {
		return nil, err
	}
	cons, err := p.parseExpr(power)
	if err != nil {
		return nil, err
	}
	if _, err := p.stream.Consume(ast.ELSE); err != nil {
		return nil, err
	}
	else_, err := p.parseExpr(power)
	if err != nil {
		return nil, err
	}
	return ast.NewCond(ast.Merge(first.Span, else_.Span()), pred, cons, else_), nil
}

// parseFunc parses a lambda: \ p1, p2, ... -> body.
func (p *Parser) parseFunc() (ast.Node, error) {
	first, err := p.stream.Consume(ast.BSLASH)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParameters()
	if err != nil {
		return nil, err
	}
	if _, err := p.stream.Consume(ast.ARROW); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(precedences[ast.BSLASH])
	if err != nil {
		return nil, err
	}
	return ast.Curry(ast.Merge(first.Span, body.Span()), params, body), nil
}

// parseParameters parses a non-empty comma-separated parameter list. Each
// parameter is a name with an optional : Type annotation.
func (p *Parser) parseParameters() ([]*ast.Name, error) {
	var params []*ast.Name
	for p.stream.Peek(ast.NAME) {
		tok, err := p.stream.Consume(ast.NAME)
		if err != nil {
			return nil, err
		}
		param := ast.NewName(tok.Span, tok.Value)
		if p.stream.ConsumeIf(ast.COLON) {
			paramType, err := p.parseType()
			if err != nil {
				return nil, err
			}
			param.Type = paramType
		}
		params = append(params, param)
		if !p.stream.ConsumeIf(ast.COMMA) {
			break
		}
	}

	if len(params) == 0 {
		// Force the error report for the missing parameter name.
		_, err := p.stream.Consume(ast.NAME)
		return nil, err
	}
	return params, nil
}

// parseDefine parses the let grammar:
//
//	let name = expr
//	let name : Type = expr
//	let name(params) = expr
//	let name(params) -> RetType = expr
//	let name(params) := block end        (and with -> RetType)
//
// A parenthesised parameter list curries the body into nested functions; a
// declared return type additionally records the function's type, with fresh
// type variables standing in for unannotated parameters.
func (p *Parser) parseDefine() (ast.Node, error) {
	first, err := p.stream.Consume(ast.LET)
	if err != nil {
		return nil, err
	}
	targetTok, err := p.stream.Consume(ast.NAME)
	if err != nil {
		return nil, err
	}
	target := ast.NewName(targetTok.Span, targetTok.Value)

	if p.stream.ConsumeIf(ast.LPAREN) {
		params, err := p.parseParameters()
		if err != nil {
			return nil, err
		}
		if _, err := p.stream.Consume(ast.RPAREN); err != nil {
			return nil, err
		}

		var funcType ast.TypeNode
		if p.stream.ConsumeIf(ast.ARROW) {
			retType, err := p.parseType()
			if err != nil {
				return nil, err
			}
			funcType = p.buildFuncType(params, retType)
			target.Type = p.freshTypeVar(targetTok.Span)
		}

		body, err := p.parseBodySection()
		if err != nil {
			return nil, err
		}
		value := ast.Curry(ast.Merge(targetTok.Span, body.Span()), params, body)
		def := ast.NewDefine(ast.Merge(first.Span, body.Span()), target, value)
		def.Type = funcType
		return def, nil
	}

	if p.stream.ConsumeIf(ast.COLON) {
		annotation, err := p.parseType()
		if err != nil {
			return nil, err
		}
		target.Type = annotation
	}

	body, err := p.parseBodySection()
	if err != nil {
		return nil, err
	}
	return ast.NewDefine(ast.Merge(first.Span, body.Span()), target, body), nil
}

// parseBodySection parses the value side of a definition: either = expr or a
// := block terminated by end.
func (p *Parser) parseBodySection() (ast.Node, error) {
	if p.stream.ConsumeIf(ast.EQUAL) {
		return p.parseExpr(0)
	}
	if _, err := p.stream.Consume(ast.COLON_EQUAL); err != nil {
		return nil, err
	}
	return p.parseBlock(ast.END)
}

// parseBlock parses eol-terminated expressions until one of the end token
// types is consumed. Zero expressions yield Unit, one yields the expression
// itself, two or more yield a Block in encounter order.
func (p *Parser) parseBlock(end ...ast.TokenType) (ast.Node, error) {
	var exprs []ast.Node
	for !p.stream.ConsumeIf(end...) {
		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.stream.Consume(ast.EOL); err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}

	switch len(exprs) {
	case 0:
		next, _ := p.stream.Preview()
		return ast.NewUnit(next.Span), nil
	case 1:
		return exprs[0], nil
	}
	first, last := exprs[0].Span(), exprs[len(exprs)-1].Span()
	return ast.NewBlock(ast.Merge(first, last), exprs), nil
}

// ── Infix parse functions ─────────────────────────────────────────────────────

// infixOp builds the infix function for a binary operator. The result is the
// curried application Apply(Apply(Name(op), left), right). Right-associative
// operators parse their right operand one power below their own so an equal
// operator on the right captures it.
func (p *Parser) infixOp(tt ast.TokenType, rightAssociative bool) infixParseFn {
	return func(left ast.Node) (ast.Node, error) {
		op, err := p.stream.Consume(tt)
		if err != nil {
			return nil, err
		}
		power := precedences[tt]
		if rightAssociative {
			power--
		}
		right, err := p.parseExpr(power)
		if err != nil {
			return nil, err
		}
		callee := ast.NewApply(
			ast.Merge(left.Span(), op.Span),
			ast.NewName(op.Span, tt.String()),
			left,
		)
		return ast.NewApply(ast.Merge(left.Span(), right.Span()), callee, right), nil
	}
}

// parseApply parses a call: f(a, b, c) folds left into nested
// single-argument applications. The result's span is widened to cover the
// whole call including the closing parenthesis.
func (p *Parser) parseApply(left ast.Node) (ast.Node, error) {
	if _, err := p.stream.Consume(ast.LPAREN); err != nil {
		return nil, err
	}
	args, err := p.parseElements(ast.RPAREN)
	if err != nil {
		return nil, err
	}
	last, err := p.stream.Consume(ast.RPAREN)
	if err != nil {
		return nil, err
	}

	result := left
	for _, arg := range args {
		result = ast.NewApply(ast.Merge(result.Span(), arg.Span()), result, arg)
	}
	result.SetSpan(ast.Merge(left.Span(), last.Span))
	return result, nil
}

// parseDot parses field access: record.field is the reversed application
// Apply(field, record), the accessor applied to the receiver.
func (p *Parser) parseDot(left ast.Node) (ast.Node, error) {
	if _, err := p.stream.Consume(ast.DOT); err != nil {
		return nil, err
	}
	tok, err := p.stream.Consume(ast.NAME)
	if err != nil {
		return nil, err
	}
	field := ast.NewName(tok.Span, tok.Value)
	return ast.NewApply(ast.Merge(left.Span(), field.Span()), field, left), nil
}

// parsePair parses the comma operator. The right side binds one power below
// the comma's own, so chains nest right-associatively: a, b, c is
// Pair(a, Pair(b, c)).
func (p *Parser) parsePair(left ast.Node) (ast.Node, error) {
	if _, err := p.stream.Consume(ast.COMMA); err != nil {
		return nil, err
	}
	right, err := p.parseExpr(precedences[ast.COMMA] - 1)
	if err != nil {
		return nil, err
	}
	return ast.NewPair(ast.Merge(left.Span(), right.Span()), left, right), nil
}

// ── Type annotations ──────────────────────────────────────────────────────────

// The type grammar is small enough that recursive descent reads better than
// a second Pratt table.
//
//	Type        := TupleType ('->' Type)?
//	TupleType   := '(' [Type (',' Type)*] ')' | GenericType
//	GenericType := name ('[' Type (',' Type)* ']')?

func (p *Parser) parseType() (ast.TypeNode, error) {
	left, err := p.parseTupleType()
	if err != nil {
		return nil, err
	}
	if p.stream.ConsumeIf(ast.ARROW) {
		right, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return ast.NewTypeFunc(ast.Merge(left.Span(), right.Span()), left, right), nil
	}
	return left, nil
}

func (p *Parser) parseTupleType() (ast.TypeNode, error) {
	if !p.stream.Peek(ast.LPAREN) {
		return p.parseGenericType()
	}
	first, err := p.stream.Consume(ast.LPAREN)
	if err != nil {
		return nil, err
	}
	var elements []ast.TypeNode
	for !p.stream.Peek(ast.RPAREN) {
		element, err := p.parseType()
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
		if !p.stream.ConsumeIf(ast.COMMA) {
			break
		}
	}
	last, err := p.stream.Consume(ast.RPAREN)
	if err != nil {
		return nil, err
	}

	span := ast.Merge(first.Span, last.Span)
	switch len(elements) {
	case 0:
		return ast.NewUnitType(span), nil
	case 1:
		// A parenthesised type keeps its own span.
		return elements[0], nil
	}
	return ast.NewTypeTuple(span, elements), nil
}

func (p *Parser) parseGenericType() (ast.TypeNode, error) {
	base, err := p.stream.Consume(ast.NAME)
	if err != nil {
		return nil, err
	}
	var result ast.TypeNode = ast.NewTypeName(base.Span, base.Value)
	if p.stream.ConsumeIf(ast.LBRACKET) {
		for !p.stream.Peek(ast.RBRACKET) {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			result = ast.NewTypeApply(ast.Merge(result.Span(), arg.Span()), result, arg)
			if !p.stream.ConsumeIf(ast.COMMA) {
				break
			}
		}
		if _, err := p.stream.Consume(ast.RBRACKET); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// buildFuncType assembles the curried function type for a definition with a
// declared return type. Parameters without annotations get fresh type
// variables for the inference engine to solve.
func (p *Parser) buildFuncType(params []*ast.Name, returnType ast.TypeNode) ast.TypeNode {
	result := returnType
	for i := len(params) - 1; i >= 0; i-- {
		argType := params[i].Type
		if argType == nil {
			argType = p.freshTypeVar(params[i].Span())
		}
		result = ast.NewTypeFunc(ast.Merge(argType.Span(), result.Span()), argType, result)
	}
	return result
}

// freshTypeVar mints a type variable unused anywhere else in this parse.
func (p *Parser) freshTypeVar(span ast.Span) *ast.TypeVar {
	p.typeVars++
	return ast.NewTypeVar(span, strconv.Itoa(p.typeVars))
}
