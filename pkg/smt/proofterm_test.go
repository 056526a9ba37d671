package smt

import "testing"

func hasLiteral(cl *Clause, atom *Atom, polarity bool) bool {
	return cl.Contains(&Literal{Atom: atom, Polarity: polarity})
}

func TestResCancelsPivotAndUnionsRest(t *testing.T) {
	p := &Atom{Kind: AtomPred}
	q := &Atom{Kind: AtomPred}
	r := &Atom{Kind: AtomPred}

	// main: (p or q)
	main := Asserted(NewClause(
		&Literal{Atom: p, Polarity: true},
		&Literal{Atom: q, Polarity: true},
	))
	// other: (not q) or r
	other := Asserted(NewClause(
		&Literal{Atom: q, Polarity: false},
		&Literal{Atom: r, Polarity: true},
	))

	resolved := Res(main, Pivot{Proof: other, Arg: &Literal{Atom: q, Polarity: false}})

	if hasLiteral(resolved.ProvedClause, q, true) || hasLiteral(resolved.ProvedClause, q, false) {
		t.Fatalf("resolvent should not mention the pivot atom q at all, got %s", resolved.ProvedClause)
	}
	if !hasLiteral(resolved.ProvedClause, p, true) {
		t.Fatalf("resolvent should keep p from main, got %s", resolved.ProvedClause)
	}
	if !hasLiteral(resolved.ProvedClause, r, true) {
		t.Fatalf("resolvent should keep r from the pivot clause, got %s", resolved.ProvedClause)
	}
}

func TestTransPanicsOnMismatchedMiddle(t *testing.T) {
	tt := NewTermTable()
	a := tt.Intern("a", SortInt)
	b := tt.Intern("b", SortInt)
	c := tt.Intern("c", SortInt)

	defer func() {
		if recover() == nil {
			t.Fatalf("Trans should panic when the middle terms of adjacent proofs do not match")
		}
	}()
	Trans(Refl(a), &ProofTerm{Kind: PRewrite, Eq: [2]*Term{b, c}, RuleName: ":x"})
}

func TestReflProvesIdentity(t *testing.T) {
	tt := NewTermTable()
	a := tt.Intern("a", SortInt)
	p := Refl(a)
	if p.Eq[0] != a || p.Eq[1] != a {
		t.Fatalf("Refl should prove a = a")
	}
}
