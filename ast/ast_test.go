package ast_test

import (
	"testing"

	"github.com/metaphox/vela-lang/ast"
)

func span(start, end int) ast.Span {
	return ast.Span{Start: start, End: end}
}

// TestCurry_ParameterOrder checks the first parameter ends up on the
// outermost function, so applying arguments in declaration order peels the
// layers in the same order.
func TestCurry_ParameterOrder(t *testing.T) {
	params := []*ast.Name{
		ast.NewName(span(1, 2), "a"),
		ast.NewName(span(4, 5), "b"),
		ast.NewName(span(7, 8), "c"),
	}
	body := ast.NewName(span(12, 13), "a")

	node := ast.Curry(span(0, 13), params, body)
	for _, want := range []string{"a", "b", "c"} {
		fn, ok := node.(*ast.Function)
		if !ok {
			t.Fatalf("expected *ast.Function for parameter %q, got %T", want, node)
		}
		if fn.Param.Value != want {
			t.Fatalf("parameter order: got %q, want %q", fn.Param.Value, want)
		}
		if fn.Span() != span(0, 13) {
			t.Errorf("layer %q span: got %s, want 0-13", want, fn.Span())
		}
		node = fn.Body
	}
	if node != body {
		t.Errorf("innermost body: got %s, want %s", node, body)
	}
}

func TestCurry_SingleParam(t *testing.T) {
	body := ast.NewScalar(span(6, 7), int64(1))
	node := ast.Curry(span(0, 7), []*ast.Name{ast.NewName(span(1, 2), "x")}, body)
	if got := node.String(); got != `(\x -> 1)` {
		t.Errorf("got %s", got)
	}
}

func TestName_Equal(t *testing.T) {
	a1 := ast.NewName(span(0, 1), "a")
	a2 := ast.NewName(span(9, 10), "a")
	b := ast.NewName(span(0, 1), "b")

	if !a1.Equal(a2) {
		t.Error("names with the same value must be equal regardless of span")
	}
	if a1.Equal(b) {
		t.Error("names with different values must not be equal")
	}
	if a1.Equal(nil) {
		t.Error("no name equals nil")
	}

	// Annotations do not take part in equality.
	a2.Type = ast.NewTypeName(span(12, 15), "Int")
	if !a1.Equal(a2) {
		t.Error("annotations must not affect name equality")
	}
}

func TestNode_Strings(t *testing.T) {
	x := func() *ast.Name { return ast.NewName(span(0, 1), "x") }
	one := func() *ast.Scalar { return ast.NewScalar(span(4, 5), int64(1)) }

	tests := []struct {
		node ast.Node
		want string
	}{
		{ast.NewUnit(span(0, 2)), "()"},
		{ast.NewScalar(span(0, 4), true), "true"},
		{ast.NewScalar(span(0, 5), "hi\n"), `"hi\n"`},
		{ast.NewScalar(span(0, 3), 2.5), "2.5"},
		{ast.NewApply(span(0, 5), x(), one()), "(x 1)"},
		{ast.NewFunction(span(0, 5), x(), one()), `(\x -> 1)`},
		{ast.NewDefine(span(0, 9), x(), one()), "(let x = 1)"},
		{ast.NewCond(span(0, 20), x(), one(), one()), "(if x then 1 else 1)"},
		{ast.NewBlock(span(0, 9), []ast.Node{x(), one()}), "{ x; 1 }"},
		{ast.NewList(span(0, 6), []ast.Node{x(), one()}), "[x, 1]"},
		{ast.NewList(span(0, 2), nil), "[]"},
		{ast.NewPair(span(0, 6), x(), one()), "(x, 1)"},
	}
	for _, tc := range tests {
		if got := tc.node.String(); got != tc.want {
			t.Errorf("String: got %s, want %s", got, tc.want)
		}
	}
}

func TestTypeNode_Strings(t *testing.T) {
	intT := ast.NewTypeName(span(0, 3), "Int")
	strT := ast.NewTypeName(span(5, 8), "Str")

	tests := []struct {
		node ast.TypeNode
		want string
	}{
		{intT, "Int"},
		{ast.NewUnitType(span(0, 2)), "Unit"},
		{ast.NewTypeVar(span(0, 1), "3"), "'3"},
		{ast.NewTypeFunc(span(0, 8), intT, strT), "(Int -> Str)"},
		{ast.NewTypeTuple(span(0, 10), []ast.TypeNode{intT, strT}), "(Int, Str)"},
		{ast.NewTypeApply(span(0, 8), ast.NewTypeName(span(0, 4), "List"), intT), "List[Int]"},
	}
	for _, tc := range tests {
		if got := tc.node.String(); got != tc.want {
			t.Errorf("String: got %s, want %s", got, tc.want)
		}
	}
}

func TestSetSpan(t *testing.T) {
	node := ast.NewUnit(span(1, 2))
	node.SetSpan(span(0, 4))
	if node.Span() != span(0, 4) {
		t.Errorf("span after SetSpan: got %s, want 0-4", node.Span())
	}
}
