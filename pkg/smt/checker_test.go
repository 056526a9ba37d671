package smt

import "testing"

func TestCheckerAcceptsValidResolution(t *testing.T) {
	p := &Atom{Kind: AtomPred}
	q := &Atom{Kind: AtomPred}
	r := &Atom{Kind: AtomPred}

	main := Asserted(NewClause(&Literal{Atom: p, Polarity: true}, &Literal{Atom: q, Polarity: true}))
	other := Asserted(NewClause(&Literal{Atom: q, Polarity: false}, &Literal{Atom: r, Polarity: true}))
	resolved := Res(main, Pivot{Proof: other, Arg: &Literal{Atom: q, Polarity: false}})

	chk := NewChecker()
	if !chk.Check(resolved) {
		t.Fatalf("checker rejected a valid resolution proof: %v", chk.Errors())
	}
}

func TestCheckerRejectsTamperedResolvent(t *testing.T) {
	p := &Atom{Kind: AtomPred}
	q := &Atom{Kind: AtomPred}
	r := &Atom{Kind: AtomPred}

	main := Asserted(NewClause(&Literal{Atom: p, Polarity: true}, &Literal{Atom: q, Polarity: true}))
	other := Asserted(NewClause(&Literal{Atom: q, Polarity: false}, &Literal{Atom: r, Polarity: true}))
	resolved := Res(main, Pivot{Proof: other, Arg: &Literal{Atom: q, Polarity: false}})

	// Tamper with the declared resolvent so it no longer matches what Res
	// actually computed.
	resolved.ProvedClause = NewClause(&Literal{Atom: p, Polarity: true})

	chk := NewChecker()
	if chk.Check(resolved) {
		t.Fatalf("checker should reject a resolvent that drops a literal the recomputation still has")
	}
}

func TestCheckerContinuesPastOneBadRule(t *testing.T) {
	tt := NewTermTable()
	a := tt.Intern("a", SortInt)
	b := tt.Intern("b", SortInt)

	badRefl := &ProofTerm{Kind: PRefl, Eq: [2]*Term{a, b}} // a != b: should fail
	p := &Atom{Kind: AtomPred}
	badSplit := &ProofTerm{Kind: PSplit, RuleName: ":bogus", ProvedClause: NewClause(&Literal{Atom: p, Polarity: true})}

	chk := NewChecker()
	chk.visit(badRefl)
	chk.visit(badSplit)
	if len(chk.Errors()) != 2 {
		t.Fatalf("checker should record both failures instead of stopping at the first, got %d: %v", len(chk.Errors()), chk.Errors())
	}
}

func TestCheckSplitAcceptsEqualityHalves(t *testing.T) {
	v := newLinVar(1, "x", false)
	lowHalf := &Literal{Atom: &Atom{Kind: AtomBound, Var: v, Upper: true}, Polarity: true}
	highHalf := &Literal{Atom: &Atom{Kind: AtomBound, Var: v, Upper: false}, Polarity: true}

	lowSplit := Split(NewClause(lowHalf), ":=+1/2", lowHalf)
	chk := NewChecker()
	if !chk.Check(lowSplit) {
		t.Fatalf("checker rejected a valid :=+1/2 split: %v", chk.Errors())
	}

	highSplit := Split(NewClause(highHalf), ":=-1/2", highHalf)
	chk2 := NewChecker()
	if !chk2.Check(highSplit) {
		t.Fatalf("checker rejected a valid :=-1/2 split: %v", chk2.Errors())
	}
}

func TestCheckSplitRejectsWrongEqualityDirection(t *testing.T) {
	v := newLinVar(1, "x", false)
	// :=+1/2 should isolate the upper (x<=y) half, not the lower one.
	lowHalf := &Literal{Atom: &Atom{Kind: AtomBound, Var: v, Upper: false}, Polarity: true}
	split := Split(NewClause(lowHalf), ":=+1/2", lowHalf)

	chk := NewChecker()
	if chk.Check(split) {
		t.Fatalf("checker should reject an equality split whose target has the wrong bound direction")
	}
}

func TestCheckInternAcceptsStrictComparison(t *testing.T) {
	tt := NewTermTable()
	x := tt.Intern("x", SortReal)
	y := tt.Intern("y", SortReal)
	src := tt.Intern("<", SortBool, x, y)

	diff := tt.Intern("-", SortReal, x, y)
	atom := tt.Intern("<=", SortBool, diff, tt.InternLiteral(RationalZero(), SortReal))
	rhs := tt.Intern("not", SortBool, atom)

	chk := NewChecker()
	if !chk.Check(Intern(src, rhs)) {
		t.Fatalf("checker rejected a valid strict-comparison intern step: %v", chk.Errors())
	}
}

func TestCheckInternRejectsMissingNotOnStrictComparison(t *testing.T) {
	tt := NewTermTable()
	x := tt.Intern("x", SortReal)
	y := tt.Intern("y", SortReal)
	src := tt.Intern("<", SortBool, x, y)

	diff := tt.Intern("-", SortReal, x, y)
	// A strict "<" must wrap its <=.0 atom in "not"; this omits it.
	rhs := tt.Intern("<=", SortBool, diff, tt.InternLiteral(RationalZero(), SortReal))

	chk := NewChecker()
	if chk.Check(Intern(src, rhs)) {
		t.Fatalf("checker should reject a strict comparison intern step missing its outer not")
	}
}

func TestCheckSplitRejectsNonUnitClause(t *testing.T) {
	p := &Atom{Kind: AtomPred}
	q := &Atom{Kind: AtomPred}
	target := &Literal{Atom: p, Polarity: true}
	cl := NewClause(target, &Literal{Atom: q, Polarity: true})
	split := Split(cl, ":notOr", target)

	chk := NewChecker()
	if chk.Check(split) {
		t.Fatalf("checker should reject a split whose result is not a unit clause")
	}
}
