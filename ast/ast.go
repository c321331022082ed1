// AST node types for the Vela language.
//
// The hierarchy is:
//
//	Node (interface)
//	  Name, Scalar, Unit               — atoms
//	  Apply, Function, Define          — application and binding
//	  Cond, Block, List, Pair          — control and aggregation
//	  TypeNode (interface)             — type annotations (see types.go)
//
// Every node carries a source span readable via Span(). Spans are the merge
// (min of starts, max of ends) of the children's spans unless the parser
// explicitly overrides them: the only override sites are parenthesised
// groups and call expressions, which are widened to include the closing
// parenthesis.
//
// Nodes are immutable value trees constructed once during parsing: a parent
// exclusively owns its children, there is no sharing and no cycles, and later
// stages consume the tree read-only.
package ast

import (
	"fmt"
	"strings"
)

// Node is the root interface for every element of the Vela AST.
type Node interface {
	// Span returns the source range this node was parsed from.
	Span() Span
	// SetSpan overrides the node's span. Only the parser calls this, to widen
	// a node to its enclosing delimiters.
	SetSpan(Span)
	// String returns a compact, parenthesised representation of the node.
	// It is intended for debugging and test output, not pretty-printing.
	String() string
}

// spanned provides the span storage every node embeds.
type spanned struct {
	span Span
}

func (s *spanned) Span() Span        { return s.span }
func (s *spanned) SetSpan(span Span) { s.span = span }

// ── Atoms ─────────────────────────────────────────────────────────────────────

// Name is an identifier or operator-as-name reference.
// Type is the optional annotation attached by the surface syntax (nil when
// the type is left to inference).
type Name struct {
	spanned
	Value string
	Type  TypeNode
}

// NewName creates a Name node covering span.
func NewName(span Span, value string) *Name {
	return &Name{spanned: spanned{span}, Value: value}
}

// Equal reports whether two names refer to the same identifier.
// Equality is by value only; spans and annotations are ignored.
func (n *Name) Equal(other *Name) bool {
	return other != nil && n.Value == other.Value
}

func (n *Name) String() string { return n.Value }

// Scalar is a literal constant. Value holds one of bool, int64, float64, or
// string.
type Scalar struct {
	spanned
	Value any
}

// NewScalar creates a Scalar node covering span.
func NewScalar(span Span, value any) *Scalar {
	return &Scalar{spanned: spanned{span}, Value: value}
}

func (s *Scalar) String() string {
	if v, ok := s.Value.(string); ok {
		return fmt.Sprintf("%q", v)
	}
	return fmt.Sprintf("%v", s.Value)
}

// Unit is the nullary value, produced by empty groupings and empty blocks.
type Unit struct {
	spanned
}

// NewUnit creates a Unit node covering span.
func NewUnit(span Span) *Unit {
	return &Unit{spanned: spanned{span}}
}

func (u *Unit) String() string { return "()" }

// ── Application and binding ───────────────────────────────────────────────────

// Apply is a single-argument function application. Binary operators desugar
// into nested applications with an Apply(Name(op), left) callee.
type Apply struct {
	spanned
	Func Node
	Arg  Node
}

// NewApply creates an Apply node covering span.
func NewApply(span Span, fn, arg Node) *Apply {
	return &Apply{spanned: spanned{span}, Func: fn, Arg: arg}
}

func (a *Apply) String() string {
	return fmt.Sprintf("(%s %s)", a.Func, a.Arg)
}

// Function is a single-parameter lambda. Multi-parameter surface syntax is
// desugared through Curry.
type Function struct {
	spanned
	Param *Name
	Body  Node
}

// NewFunction creates a Function node covering span.
func NewFunction(span Span, param *Name, body Node) *Function {
	return &Function{spanned: spanned{span}, Param: param, Body: body}
}

// Curry rewrites a multi-parameter function into nested single-parameter
// ones: params [p0, p1, ..., pn] and body B become
// Function(p0, Function(p1, ... Function(pn, B))): the first parameter
// outermost, so applying arguments in declaration order peels the layers in
// the same order. params must not be empty; every layer gets span.
func Curry(span Span, params []*Name, body Node) Node {
	for i := len(params) - 1; i >= 0; i-- {
		body = NewFunction(span, params[i], body)
	}
	return body
}

func (f *Function) String() string {
	return fmt.Sprintf("(\\%s -> %s)", f.Param, f.Body)
}

// Define is a binding of a value to a name. Type is the function type built
// from a declared return type, when the surface syntax supplies one.
type Define struct {
	spanned
	Target *Name
	Value  Node
	Type   TypeNode
}

// NewDefine creates a Define node covering span.
func NewDefine(span Span, target *Name, value Node) *Define {
	return &Define{spanned: spanned{span}, Target: target, Value: value}
}

func (d *Define) String() string {
	return fmt.Sprintf("(let %s = %s)", d.Target, d.Value)
}

// ── Control and aggregation ───────────────────────────────────────────────────

// Cond is a conditional expression. All three branches are expressions; there
// is no statement/expression distinction.
type Cond struct {
	spanned
	Pred Node
	Cons Node
	Else Node
}

// NewCond creates a Cond node covering span.
func NewCond(span Span, pred, cons, else_ Node) *Cond {
	return &Cond{spanned: spanned{span}, Pred: pred, Cons: cons, Else: else_}
}

func (c *Cond) String() string {
	return fmt.Sprintf("(if %s then %s else %s)", c.Pred, c.Cons, c.Else)
}

// Block is an ordered sequence of at least two expressions evaluated in
// order. Sequences of zero or one expressions are never wrapped in a Block;
// they collapse to Unit or the single node respectively.
type Block struct {
	spanned
	Body []Node
}

// NewBlock creates a Block node covering span.
func NewBlock(span Span, body []Node) *Block {
	return &Block{spanned: spanned{span}, Body: body}
}

func (b *Block) String() string {
	parts := make([]string, len(b.Body))
	for i, expr := range b.Body {
		parts[i] = expr.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// List is a literal list.
type List struct {
	spanned
	Elements []Node
}

// NewList creates a List node covering span.
func NewList(span Span, elements []Node) *List {
	return &List{spanned: spanned{span}, Elements: elements}
}

func (l *List) String() string {
	parts := make([]string, len(l.Elements))
	for i, el := range l.Elements {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Pair is the binary pairing built by the comma operator. Chains nest
// right-associatively: a, b, c is Pair(a, Pair(b, c)).
type Pair struct {
	spanned
	First  Node
	Second Node
}

// NewPair creates a Pair node covering span.
func NewPair(span Span, first, second Node) *Pair {
	return &Pair{spanned: spanned{span}, First: first, Second: second}
}

func (p *Pair) String() string {
	return fmt.Sprintf("(%s, %s)", p.First, p.Second)
}
