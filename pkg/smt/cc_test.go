package smt

import "testing"

func TestCongruenceClosureMergeTransitive(t *testing.T) {
	tt := NewTermTable()
	sort := UninterpretedSort("U")
	a := tt.Intern("a", sort)
	b := tt.Intern("b", sort)
	c := tt.Intern("c", sort)

	cc := NewCongruenceClosure()
	cc.Merge(a, b, &Literal{})
	if cc.Equal(a, c) {
		t.Fatalf("a and c should not be equal before any merge involving c")
	}
	cc.Merge(b, c, &Literal{})
	if !cc.Equal(a, c) {
		t.Fatalf("a == b and b == c should imply a == c by transitivity")
	}
}

func TestCongruenceClosurePropagatesFunctionApplications(t *testing.T) {
	tt := NewTermTable()
	sort := UninterpretedSort("U")
	a := tt.Intern("a", sort)
	b := tt.Intern("b", sort)
	fa := tt.Intern("f", sort, a)
	fb := tt.Intern("f", sort, b)

	cc := NewCongruenceClosure()
	cc.RegisterApplication(fa)
	cc.RegisterApplication(fb)

	if cc.Equal(fa, fb) {
		t.Fatalf("f(a) and f(b) should not be equal before a == b is asserted")
	}
	cc.Merge(a, b, &Literal{})
	if !cc.Equal(fa, fb) {
		t.Fatalf("a == b should force f(a) == f(b) by congruence")
	}
}

func TestCongruenceClosureExplainPath(t *testing.T) {
	tt := NewTermTable()
	sort := UninterpretedSort("U")
	a := tt.Intern("a", sort)
	b := tt.Intern("b", sort)
	c := tt.Intern("c", sort)

	cc := NewCongruenceClosure()
	reasonAB := &Literal{Atom: &Atom{Kind: AtomCCEq, Term1: a, Term2: b}, Polarity: true}
	reasonBC := &Literal{Atom: &Atom{Kind: AtomCCEq, Term1: b, Term2: c}, Polarity: true}
	cc.Merge(a, b, reasonAB)
	cc.Merge(b, c, reasonBC)

	path := cc.ExplainPath(a, c)
	if len(path) == 0 {
		t.Fatalf("ExplainPath(a, c) should return a non-empty justification path")
	}
}
