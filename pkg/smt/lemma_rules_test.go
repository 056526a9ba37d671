package smt

import "testing"

func TestCheckTrichotomyAcceptsSameSubject(t *testing.T) {
	v := newLinVar(1, "x", false)
	eqAtom := &Atom{Kind: AtomEq, Affine: AffineVar(v.id)}
	negAtom := &Atom{Kind: AtomBound, Var: v, Bound: RationalFromInt64(0), Upper: true, Strict: true}
	posAtom := &Atom{Kind: AtomBound, Var: v, Bound: RationalFromInt64(0), Upper: false, Strict: true}

	cl := NewClause(
		&Literal{Atom: eqAtom, Polarity: true},
		&Literal{Atom: negAtom, Polarity: true},
		&Literal{Atom: posAtom, Polarity: true},
	)
	if !checkTrichotomy(cl) {
		t.Fatalf("trichotomy over the same subject variable should be accepted")
	}
}

func TestCheckTrichotomyRejectsMismatchedSubject(t *testing.T) {
	v := newLinVar(1, "x", false)
	w := newLinVar(2, "y", false)
	eqAtom := &Atom{Kind: AtomEq, Affine: AffineVar(v.id)}
	negAtom := &Atom{Kind: AtomBound, Var: v, Bound: RationalFromInt64(0), Upper: true, Strict: true}
	// posAtom is over w, not v: this is not a real trichotomy instance.
	posAtom := &Atom{Kind: AtomBound, Var: w, Bound: RationalFromInt64(0), Upper: false, Strict: true}

	cl := NewClause(
		&Literal{Atom: eqAtom, Polarity: true},
		&Literal{Atom: negAtom, Polarity: true},
		&Literal{Atom: posAtom, Polarity: true},
	)
	if checkTrichotomy(cl) {
		t.Fatalf("trichotomy literals over different subjects must be rejected")
	}
}

// TestCheckWeakEquivalenceArrayClosure exercises the array weak-equivalence
// path a :read-over-weakeq lemma needs: reading a store at an index
// disequal from the store's own index agrees with reading the base array,
// closed here by a single weak-store edge between the two select terms.
func TestCheckWeakEquivalenceArrayClosure(t *testing.T) {
	tt := NewTermTable()
	elemSort := UninterpretedSort("Elem")
	arrSort := ArraySort(SortInt, elemSort)

	base := tt.Intern("base", arrSort)
	val := tt.Intern("val", elemSort)
	i := tt.Intern("i", SortInt)
	j := tt.Intern("j", SortInt)

	storeTerm := tt.Intern("store", arrSort, base, i, val)
	selStore := tt.Intern("select", elemSort, storeTerm, j)
	selBase := tt.Intern("select", elemSort, base, j)

	diseq := &Atom{Kind: AtomEq, Affine: indexAffine(i).Sub(indexAffine(j))}
	eqSelects := &Atom{Kind: AtomCCEq, Term1: selStore, Term2: selBase}

	cl := NewClause(
		&Literal{Atom: diseq, Polarity: true},
		&Literal{Atom: eqSelects, Polarity: true},
	)
	path := []CCEdge{{
		From:          selStore,
		To:            selBase,
		WeakStore:     true,
		IndexDisequal: &Literal{Atom: diseq, Polarity: false},
	}}

	if !checkWeakEquivalence(cl, path, selStore, selBase) {
		t.Fatalf("weak-store read-over-write step should validate against its own index disequality")
	}
}

func TestCheckWeakEquivalenceRejectsMissingDisequalityWitness(t *testing.T) {
	tt := NewTermTable()
	elemSort := UninterpretedSort("Elem")
	arrSort := ArraySort(SortInt, elemSort)

	base := tt.Intern("base", arrSort)
	val := tt.Intern("val", elemSort)
	i := tt.Intern("i", SortInt)
	j := tt.Intern("j", SortInt)
	k := tt.Intern("k", SortInt)

	storeTerm := tt.Intern("store", arrSort, base, i, val)
	selStore := tt.Intern("select", elemSort, storeTerm, j)
	selBase := tt.Intern("select", elemSort, base, j)

	// The witness literal names the wrong pair of terms (i, k instead of
	// i, j): it cannot justify this edge's read index.
	wrongDiseq := &Atom{Kind: AtomEq, Affine: indexAffine(i).Sub(indexAffine(k))}
	eqSelects := &Atom{Kind: AtomCCEq, Term1: selStore, Term2: selBase}
	cl := NewClause(
		&Literal{Atom: wrongDiseq, Polarity: true},
		&Literal{Atom: eqSelects, Polarity: true},
	)
	path := []CCEdge{{
		From:          selStore,
		To:            selBase,
		WeakStore:     true,
		IndexDisequal: &Literal{Atom: wrongDiseq, Polarity: false},
	}}

	if checkWeakEquivalence(cl, path, selStore, selBase) {
		t.Fatalf("a disequality witness over the wrong terms must not validate the edge")
	}
}
