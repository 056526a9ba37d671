package smt

import "testing"

func TestCompileCompareStrictUsesOuterNot(t *testing.T) {
	th := NewTheory(DefaultConfig())
	c := NewCompiler(th)
	tt := th.Terms()

	x := tt.Intern("x", SortInt)
	five := tt.InternLiteral(RationalFromInt64(5), SortInt)
	lt := tt.Intern("<", SortBool, x, five) // x < 5

	normal, _ := c.Compile(lt)
	if normal.Symbol != "not" {
		t.Fatalf("strict comparison should compile to an outer not, got %s", normal)
	}
	inner := normal.Args[0]
	if inner.Symbol != "<=" {
		t.Fatalf("inner comparison should be <=, got %s", inner.Symbol)
	}
}

func TestCompileCompareNonStrictNoOuterNot(t *testing.T) {
	th := NewTheory(DefaultConfig())
	c := NewCompiler(th)
	tt := th.Terms()

	x := tt.Intern("x", SortInt)
	five := tt.InternLiteral(RationalFromInt64(5), SortInt)
	le := tt.Intern("<=", SortBool, x, five)

	normal, _ := c.Compile(le)
	if normal.Symbol == "not" {
		t.Fatalf("non-strict comparison should not gain an outer not, got %s", normal)
	}
	if normal.Symbol != "<=" {
		t.Fatalf("expected a <= atom, got %s", normal.Symbol)
	}
}

func TestCompileAndBecomesNotOr(t *testing.T) {
	th := NewTheory(DefaultConfig())
	c := NewCompiler(th)
	tt := th.Terms()

	p := tt.Intern("p", SortBool)
	q := tt.Intern("q", SortBool)
	andTerm := tt.Intern("and", SortBool, p, q)

	normal, _ := c.Compile(andTerm)
	if normal.Symbol != "not" {
		t.Fatalf("and should compile to (not (or ...)), got %s", normal)
	}
	inner := normal.Args[0]
	if inner.Symbol != "or" || len(inner.Args) != 2 {
		t.Fatalf("expected a binary or under the outer not, got %s", inner)
	}
	for _, arg := range inner.Args {
		if arg.Symbol != "not" {
			t.Fatalf("each disjunct should be a negated conjunct, got %s", arg)
		}
	}
}

func TestCompileArithCanonicalizesSum(t *testing.T) {
	th := NewTheory(DefaultConfig())
	c := NewCompiler(th)
	tt := th.Terms()

	x := tt.Intern("x", SortInt)
	// (x + 1) + 2 should canonicalize its constants together.
	one := tt.InternLiteral(RationalFromInt64(1), SortInt)
	two := tt.InternLiteral(RationalFromInt64(2), SortInt)
	inner := tt.Intern("+", SortInt, x, one)
	outer := tt.Intern("+", SortInt, inner, two)

	normal, _ := c.Compile(outer)
	affine := c.affineFromTerm(normal)
	if !affine.Constant().Equal(RationalFromInt64(3)) {
		t.Fatalf("canonicalized sum should fold constants to 3, got constant %s", affine.Constant())
	}
}
