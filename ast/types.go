// Type annotation nodes.
//
// The surface syntax lets a binding or parameter declare its type:
//
//	let x : Int = 1
//	let f(a : Int) -> Int = a
//	\pair : (Int, String) -> ...
//
// These nodes only record what the programmer wrote (plus the function types
// the parser assembles from declared return types); checking them is the type
// inference engine's job downstream.
package ast

import (
	"fmt"
	"strings"
)

// TypeNode is a Node that appears in type-annotation position.
type TypeNode interface {
	Node
	typeNode()
}

// TypeName is a named type such as Int or String.
type TypeName struct {
	spanned
	Value string
}

// NewTypeName creates a TypeName node covering span.
func NewTypeName(span Span, value string) *TypeName {
	return &TypeName{spanned: spanned{span}, Value: value}
}

// NewUnitType creates the type of the Unit value, written () in source.
func NewUnitType(span Span) *TypeName {
	return NewTypeName(span, "Unit")
}

func (t *TypeName) typeNode()      {}
func (t *TypeName) String() string { return t.Value }

// TypeVar is a type variable. The parser synthesises fresh type variables for
// parameters without annotations; their names come from a counter owned by
// the parser, so independent parses never share variables.
type TypeVar struct {
	spanned
	Value string
}

// NewTypeVar creates a TypeVar node covering span.
func NewTypeVar(span Span, value string) *TypeVar {
	return &TypeVar{spanned: spanned{span}, Value: value}
}

func (t *TypeVar) typeNode()      {}
func (t *TypeVar) String() string { return "'" + t.Value }

// TypeFunc is a single-argument function type: Arg -> Ret. Multi-argument
// function types are curried, mirroring Function in the value language.
type TypeFunc struct {
	spanned
	Arg TypeNode
	Ret TypeNode
}

// NewTypeFunc creates a TypeFunc node covering span.
func NewTypeFunc(span Span, arg, ret TypeNode) *TypeFunc {
	return &TypeFunc{spanned: spanned{span}, Arg: arg, Ret: ret}
}

func (t *TypeFunc) typeNode() {}
func (t *TypeFunc) String() string {
	return fmt.Sprintf("(%s -> %s)", t.Arg, t.Ret)
}

// TypeTuple is a tuple type: (Int, String).
type TypeTuple struct {
	spanned
	Elements []TypeNode
}

// NewTypeTuple creates a TypeTuple node covering span.
func NewTypeTuple(span Span, elements []TypeNode) *TypeTuple {
	return &TypeTuple{spanned: spanned{span}, Elements: elements}
}

func (t *TypeTuple) typeNode() {}
func (t *TypeTuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, el := range t.Elements {
		parts[i] = el.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// TypeApply is the application of a generic type to one argument. Generic
// types with several arguments nest: Map[K, V] is
// TypeApply(TypeApply(Map, K), V).
type TypeApply struct {
	spanned
	Base TypeNode
	Arg  TypeNode
}

// NewTypeApply creates a TypeApply node covering span.
func NewTypeApply(span Span, base, arg TypeNode) *TypeApply {
	return &TypeApply{spanned: spanned{span}, Base: base, Arg: arg}
}

func (t *TypeApply) typeNode() {}
func (t *TypeApply) String() string {
	return fmt.Sprintf("%s[%s]", t.Base, t.Arg)
}
