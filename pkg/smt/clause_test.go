package smt

import "testing"

func TestLiteralNegate(t *testing.T) {
	a := &Atom{Kind: AtomPred}
	pos := &Literal{Atom: a, Polarity: true}
	neg := pos.Negate()
	if neg.Polarity {
		t.Fatalf("Negate() of a positive literal should be negative")
	}
	if neg.Atom != a {
		t.Fatalf("Negate() should keep the same atom")
	}
	if neg.Negate().Polarity != true {
		t.Fatalf("double negation should restore polarity")
	}
}

func TestClauseContains(t *testing.T) {
	a1 := &Atom{Kind: AtomPred}
	a2 := &Atom{Kind: AtomPred}
	cl := NewClause(&Literal{Atom: a1, Polarity: true}, &Literal{Atom: a2, Polarity: false})

	if !cl.Contains(&Literal{Atom: a1, Polarity: true}) {
		t.Fatalf("clause should contain (a1, true)")
	}
	if cl.Contains(&Literal{Atom: a1, Polarity: false}) {
		t.Fatalf("clause should not contain (a1, false)")
	}
	if !cl.Contains(&Literal{Atom: a2, Polarity: false}) {
		t.Fatalf("clause should contain (a2, false)")
	}
}

func TestClauseLiteralSetCollapsesDuplicates(t *testing.T) {
	a1 := &Atom{Kind: AtomPred}
	cl := NewClause(
		&Literal{Atom: a1, Polarity: true},
		&Literal{Atom: a1, Polarity: true},
	)
	set := cl.LiteralSet()
	if len(set) != 1 {
		t.Fatalf("LiteralSet should collapse duplicate (atom, polarity) pairs, got %d entries", len(set))
	}
}
