// Package parser_test contains tests for the Vela expression parser.
//
// Each test parses a snippet through the full pipeline (scan, hide comments,
// infer eols) and inspects the returned tree, either through its compact
// String form for shape assertions or through type assertions when node
// fields matter.
//
// Test categories:
//   - Atoms:        scalars, names, unit, groups
//   - Operators:    precedence, associativity, desugaring to applications
//   - Functions:    lambdas, currying, calls, field access
//   - Definitions:  the whole let grammar, blocks, type annotations
//   - Aggregates:   lists, pairs
//   - Units:        empty input, multi-statement sources
//   - Spans:        override sites and the containment invariant
//   - Errors:       unexpected tokens and premature end of input
package parser_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/metaphox/vela-lang/ast"
	"github.com/metaphox/vela-lang/lexer"
	"github.com/metaphox/vela-lang/parser"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

// parse runs the full pipeline on input and fails the test on any error.
func parse(t *testing.T, input string) ast.Node {
	t.Helper()
	node, err := tryParse(input)
	if err != nil {
		t.Fatalf("parse(%q) failed: %v", input, err)
	}
	return node
}

// tryParse runs the full pipeline on input, surfacing errors to the caller.
func tryParse(input string) (ast.Node, error) {
	toks, err := lexer.New(input).Scan()
	if err != nil {
		return nil, err
	}
	stream := lexer.InferEOLs(lexer.NewTokenStream(toks, ast.COMMENT))
	return parser.Parse(stream)
}

// assertString parses input and compares the tree's compact form to want.
func assertString(t *testing.T, input, want string) {
	t.Helper()
	if got := parse(t, input).String(); got != want {
		t.Errorf("parse(%q): got %s, want %s", input, got, want)
	}
}

// ── Atoms ─────────────────────────────────────────────────────────────────────

func TestParse_Scalars(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"42", int64(42)},
		{"1_000_000", int64(1000000)},
		{"3.14", 3.14},
		{".5", 0.5},
		{"True", true},
		{"False", false},
		{`"hello"`, "hello"},
	}
	for _, tc := range tests {
		node := parse(t, tc.input)
		scalar, ok := node.(*ast.Scalar)
		if !ok {
			t.Fatalf("parse(%q): expected *ast.Scalar, got %T", tc.input, node)
		}
		if scalar.Value != tc.want {
			t.Errorf("parse(%q): got %v (%T), want %v (%T)",
				tc.input, scalar.Value, scalar.Value, tc.want, tc.want)
		}
	}
}

func TestParse_Name(t *testing.T) {
	node := parse(t, "banana")
	name, ok := node.(*ast.Name)
	if !ok {
		t.Fatalf("expected *ast.Name, got %T", node)
	}
	if name.Value != "banana" {
		t.Errorf("name value: got %q, want %q", name.Value, "banana")
	}
	if name.Span() != (ast.Span{Start: 0, End: 6}) {
		t.Errorf("name span: got %s, want 0-6", name.Span())
	}
}

func TestParse_Unit(t *testing.T) {
	node := parse(t, "()")
	if _, ok := node.(*ast.Unit); !ok {
		t.Fatalf("expected *ast.Unit, got %T", node)
	}
}

func TestParse_GroupIsTransparent(t *testing.T) {
	assertString(t, "(x)", "x")
	assertString(t, "((42))", "42")
}

// ── Operators ─────────────────────────────────────────────────────────────────

func TestParse_OperatorDesugaring(t *testing.T) {
	assertString(t, "a + b", "((+ a) b)")
	assertString(t, "a <> b", "((<> a) b)")
	assertString(t, "a ?= b", "((?= a) b)")
	assertString(t, "not x", "(not x)")
	assertString(t, "-x", "(~ x)")
}

func TestParse_Precedence(t *testing.T) {
	tests := []struct{ input, want string }{
		{"1 + 2 * 3", "((+ 1) ((* 2) 3))"},
		{"1 * 2 + 3", "((+ ((* 1) 2)) 3)"},
		{"2 ^ 3 * 4", "((* ((^ 2) 3)) 4)"},
		{"a + b < c", "((< ((+ a) b)) c)"},
		{"a < b and b < c", "((and ((< a) b)) ((< b) c))"},
		// or binds tighter than and.
		{"a and b or c", "((and a) ((or b) c))"},
		// not binds looser than the comparisons.
		{"not a = b", "(not ((= a) b))"},
		{"-a + b", "((+ (~ a)) b)"},
		{"-f(x)", "(~ (f x))"},
		{"a.b + c", "((+ (b a)) c)"},
	}
	for _, tc := range tests {
		assertString(t, tc.input, tc.want)
	}
}

func TestParse_Associativity(t *testing.T) {
	// Subtraction folds left.
	assertString(t, "8 - 4 - 2", "((- ((- 8) 4)) 2)")
	// Division folds right.
	assertString(t, "8 / 4 / 2", "((/ 8) ((/ 4) 2))")
}

// ── Functions ─────────────────────────────────────────────────────────────────

func TestParse_Lambda(t *testing.T) {
	assertString(t, `\x -> x + 1`, `(\x -> ((+ x) 1))`)
}

// TestParse_LambdaCurrying checks the first parameter ends up outermost.
func TestParse_LambdaCurrying(t *testing.T) {
	assertString(t, `\a, b, c -> a`, `(\a -> (\b -> (\c -> a)))`)
}

func TestParse_Call(t *testing.T) {
	assertString(t, "f(x)", "(f x)")
	assertString(t, "f(x, y, z)", "(((f x) y) z)")
	assertString(t, "f()", "f")
	assertString(t, "f(x)(y)", "((f x) y)")
	assertString(t, "f(x + 1, g(y))", "((f ((+ x) 1)) (g y))")
}

func TestParse_Dot(t *testing.T) {
	assertString(t, "point.x", "(x point)")
	assertString(t, "a.b.c", "(c (b a))")
	assertString(t, "f(p).x", "(x (f p))")
}

func TestParse_Cond(t *testing.T) {
	assertString(t, "if a < b then a else b", "(if ((< a) b) then a else b)")
	assertString(t,
		"if x then 1 else if y then 2 else 3",
		"(if x then 1 else (if y then 2 else 3))")
}

// ── Definitions ───────────────────────────────────────────────────────────────

func TestParse_Define(t *testing.T) {
	assertString(t, "let x = 1", "(let x = 1)")
	assertString(t, "let x = 1 + 2", "(let x = ((+ 1) 2))")
}

// TestParse_DefineFunction checks the sugared function form curries its
// parameters around the body.
func TestParse_DefineFunction(t *testing.T) {
	assertString(t, "let id(a) = a", `(let id = (\a -> a))`)
	assertString(t, "let fst(a, b) = a", `(let fst = (\a -> (\b -> a)))`)
}

func TestParse_DefineBlock(t *testing.T) {
	assertString(t,
		"let f(x) :=\n  let y = x + 1\n  y * 2\nend",
		`(let f = (\x -> { (let y = ((+ x) 1)); ((* y) 2) }))`)

	// A one-expression block is the expression itself, not a Block.
	assertString(t, "let f(x) := x\nend", `(let f = (\x -> x))`)

	// An empty block is Unit.
	assertString(t, "let f(x) :=\nend", `(let f = (\x -> ()))`)
}

func TestParse_DefineAnnotation(t *testing.T) {
	node := parse(t, "let x: Int = 1")
	def, ok := node.(*ast.Define)
	if !ok {
		t.Fatalf("expected *ast.Define, got %T", node)
	}
	if def.Target.Type == nil {
		t.Fatal("target annotation missing")
	}
	if got := def.Target.Type.String(); got != "Int" {
		t.Errorf("annotation: got %s, want Int", got)
	}
}

// TestParse_DefineReturnType checks a declared return type produces the full
// curried function type, with fresh type variables for unannotated
// parameters.
func TestParse_DefineReturnType(t *testing.T) {
	node := parse(t, "let min(a: Int, b) -> Int = if a < b then a else b")
	def, ok := node.(*ast.Define)
	if !ok {
		t.Fatalf("expected *ast.Define, got %T", node)
	}
	if def.Type == nil {
		t.Fatal("definition type missing")
	}
	if got := def.Type.String(); got != "(Int -> ('1 -> Int))" {
		t.Errorf("definition type: got %s, want (Int -> ('1 -> Int))", got)
	}
	if _, ok := def.Target.Type.(*ast.TypeVar); !ok {
		t.Errorf("target type: got %T, want *ast.TypeVar", def.Target.Type)
	}
}

func TestParse_TypeGrammar(t *testing.T) {
	tests := []struct{ annotation, want string }{
		{"Int", "Int"},
		{"()", "Unit"},
		{"(Int)", "Int"},
		{"(Int, Str)", "(Int, Str)"},
		{"Int -> Str", "(Int -> Str)"},
		{"Int -> Str -> Bool", "(Int -> (Str -> Bool))"},
		{"(Int -> Str) -> Bool", "((Int -> Str) -> Bool)"},
		{"List[Int]", "List[Int]"},
		{"Map[Str, Int]", "Map[Str][Int]"},
		{"List[Int] -> Int", "(List[Int] -> Int)"},
	}
	for _, tc := range tests {
		input := fmt.Sprintf("let x: %s = y", tc.annotation)
		def, ok := parse(t, input).(*ast.Define)
		if !ok {
			t.Fatalf("parse(%q): not a Define", input)
		}
		if got := def.Target.Type.String(); got != tc.want {
			t.Errorf("annotation %q: got %s, want %s", tc.annotation, got, tc.want)
		}
	}
}

// ── Aggregates ────────────────────────────────────────────────────────────────

func TestParse_List(t *testing.T) {
	assertString(t, "[]", "[]")
	assertString(t, "[1]", "[1]")
	assertString(t, "[1, 2, 3]", "[1, 2, 3]")
	assertString(t, "[1, 2, 3,]", "[1, 2, 3]")
	assertString(t, "[a + b, f(c)]", "[((+ a) b), (f c)]")
}

func TestParse_Pair(t *testing.T) {
	assertString(t, "(1, 2)", "(1, 2)")
	// The comma nests right-associatively.
	assertString(t, "(1, 2, 3)", "(1, (2, 3))")
	// Commas inside call arguments and lists separate, not pair.
	assertString(t, "f(1, 2)", "((f 1) 2)")
	assertString(t, "[1, 2]", "[1, 2]")
}

// TestParse_PairAcrossLines checks a line break inside parentheses is a
// continuation, so the pair survives it.
func TestParse_PairAcrossLines(t *testing.T) {
	assertString(t, "(1,\n 2)", "(1, 2)")
}

// ── Translation units ─────────────────────────────────────────────────────────

func TestParse_EmptyUnit(t *testing.T) {
	for _, input := range []string{"", "  \n \n", "# nothing here\n"} {
		node := parse(t, input)
		if _, ok := node.(*ast.Unit); !ok {
			t.Errorf("parse(%q): expected *ast.Unit, got %T", input, node)
		}
	}
}

func TestParse_SingleStatementUnwrapped(t *testing.T) {
	node := parse(t, "let x = 1\n")
	if _, ok := node.(*ast.Define); !ok {
		t.Errorf("expected *ast.Define, got %T", node)
	}
}

func TestParse_MultiStatementUnit(t *testing.T) {
	node := parse(t, "let x = 1\nlet y = 2\nx + y\n")
	block, ok := node.(*ast.Block)
	if !ok {
		t.Fatalf("expected *ast.Block, got %T", node)
	}
	if len(block.Body) != 3 {
		t.Fatalf("block length: got %d, want 3", len(block.Body))
	}
	if got := node.String(); got != "{ (let x = 1); (let y = 2); ((+ x) y) }" {
		t.Errorf("unit shape: got %s", got)
	}
}

// ── Spans ─────────────────────────────────────────────────────────────────────

// TestParse_SpanOverrides pins the two places the parser widens a node past
// its children: groups and calls, both out to the closing parenthesis.
func TestParse_SpanOverrides(t *testing.T) {
	input := "(x)"
	if got := parse(t, input).Span(); got != (ast.Span{Start: 0, End: 3}) {
		t.Errorf("group span: got %s, want 0-3", got)
	}

	input = "f(x, y)"
	if got := parse(t, input).Span(); got != (ast.Span{Start: 0, End: 7}) {
		t.Errorf("call span: got %s, want 0-7", got)
	}
}

// TestParse_SpanContainment walks a tree and checks every node's span
// contains all of its children's spans.
func TestParse_SpanContainment(t *testing.T) {
	input := "let area(r) -> Float = pi * r ^ 2\nif ok then area(1.0) else -1.0\n"
	var walk func(t *testing.T, node ast.Node)
	walk = func(t *testing.T, node ast.Node) {
		span := node.Span()
		for _, child := range children(node) {
			cs := child.Span()
			if cs.Start < span.Start || cs.End > span.End {
				t.Errorf("%s (%s) does not contain child %s (%s)",
					node, span, child, cs)
			}
			walk(t, child)
		}
	}
	walk(t, parse(t, input))
}

// children returns the direct child nodes of node. Type annotations are not
// part of the expression tree and are skipped.
func children(node ast.Node) []ast.Node {
	switch n := node.(type) {
	case *ast.Apply:
		return []ast.Node{n.Func, n.Arg}
	case *ast.Function:
		return []ast.Node{n.Param, n.Body}
	case *ast.Define:
		return []ast.Node{n.Target, n.Value}
	case *ast.Cond:
		return []ast.Node{n.Pred, n.Cons, n.Else}
	case *ast.Block:
		return n.Body
	case *ast.List:
		return n.Elements
	case *ast.Pair:
		return []ast.Node{n.First, n.Second}
	}
	return nil
}

// ── Errors ────────────────────────────────────────────────────────────────────

func TestParse_UnexpectedToken(t *testing.T) {
	tests := []struct {
		input    string
		wantType ast.TokenType
	}{
		{"let 1 = x", ast.INTEGER},  // target must be a name
		{"1 + then", ast.THEN},      // then cannot start an expression
		{"f(,)", ast.COMMA},         // empty argument slot
		{"let f() = 1", ast.RPAREN}, // empty parameter list
		{"(a))", ast.RPAREN},        // unbalanced close
	}
	for _, tc := range tests {
		_, err := tryParse(tc.input)
		var unexpected *ast.UnexpectedTokenError
		if !errors.As(err, &unexpected) {
			t.Errorf("tryParse(%q): expected UnexpectedTokenError, got %v", tc.input, err)
			continue
		}
		if unexpected.Token.Type != tc.wantType {
			t.Errorf("tryParse(%q): error token got %s, want %s",
				tc.input, unexpected.Token.Type, tc.wantType)
		}
	}
}

func TestParse_UnexpectedEOF(t *testing.T) {
	// An unterminated block runs the stream dry: every statement before the
	// missing end parses and terminates, then the next read hits nothing.
	_, err := tryParse("let f(x) := x")
	var eof *ast.UnexpectedEOFError
	if !errors.As(err, &eof) {
		t.Fatalf("expected UnexpectedEOFError, got %v", err)
	}
}

// TestParse_Incomplete checks the classification interactive callers rely on
// to keep reading lines: input cut off mid-expression is incomplete, while a
// malformed construct is a hard error.
func TestParse_Incomplete(t *testing.T) {
	incomplete := []string{
		"let x =",
		"if a then b",
		"(1 + 2",
		"[1, 2",
		`\x ->`,
		"let f(x) := x",
		"let f(x) :=",
	}
	for _, input := range incomplete {
		_, err := tryParse(input)
		if err == nil {
			t.Errorf("tryParse(%q): expected an error", input)
			continue
		}
		if !parser.Incomplete(err) {
			t.Errorf("Incomplete(%q): got false, want true (%v)", input, err)
		}
	}

	complete := []string{"let 1 = x", "(a))", "1 + then", "a b"}
	for _, input := range complete {
		_, err := tryParse(input)
		if err == nil {
			t.Errorf("tryParse(%q): expected an error", input)
			continue
		}
		if parser.Incomplete(err) {
			t.Errorf("Incomplete(%q): got true, want false (%v)", input, err)
		}
	}
}

// TestParse_NoErrorRecovery checks a failed parse returns no partial tree.
func TestParse_NoErrorRecovery(t *testing.T) {
	node, err := tryParse("let x = 1\nlet 2 = y\n")
	if err == nil {
		t.Fatal("expected an error")
	}
	if node != nil {
		t.Errorf("expected nil tree on error, got %s", node)
	}
}
