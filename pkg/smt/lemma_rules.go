package smt

// checkLAFarkas validates a :LA lemma's Farkas certificate (§4.5 "@lemma
// :LA"): the coefficients must have the sign required by their literal's
// direction (positive for an asserted "<=", negative for its negation),
// and the weighted sum of the literals' affine forms must reduce to a
// positive constant, or a non-negative one if any contributing literal is
// strict.
func checkLAFarkas(cl *Clause, coeffs map[*Literal]Rational) bool {
	if len(coeffs) == 0 {
		return false
	}
	sum := NewAffineTerm()
	strict := false
	for lit, coeff := range coeffs {
		if !cl.Contains(lit.Negate()) {
			return false
		}
		a := lit.Atom
		if a.Kind != AtomBound && a.Kind != AtomEq {
			return false
		}
		wantPositive := lit.Polarity == a.Upper || a.Kind == AtomEq
		if wantPositive && coeff.Signum() <= 0 {
			return false
		}
		if !wantPositive && coeff.Signum() >= 0 {
			return false
		}
		// A literal contributes a strict inequality to the combination
		// whenever its polarity flips the atom's own strictness: a
		// negated non-strict atom ("not (x <= 0)") is the strict "x > 0",
		// and a positive strict atom ("x < 0") is strict as asserted.
		if a.Kind == AtomBound && a.Strict == lit.Polarity {
			strict = true
		}
		term := a.Affine
		if term == nil && a.Kind == AtomBound {
			// Reconstruct "var - bound <= 0" (if Upper) or its negation "bound
			// - var <= 0" (if !Upper) for an atom interned directly against a
			// LinVar rather than kept with its original surface AffineTerm.
			base := AffineVar(a.Var.id).AddTermThenSelf(a.Bound.Neg())
			if !a.Upper {
				base = base.Negate()
			}
			term = base
		} else if term == nil {
			term = AffineVar(a.Var.id).AddTermThenSelf(a.Bound.Neg())
		}
		sum = sum.Add(term.Scale(coeff))
	}
	if !sum.IsConstant() {
		return false
	}
	// Combining non-strict "<=0" facts contradicts only at a strictly
	// positive constant (0 itself is consistent with "<=0"); once any
	// contributing fact is strict, the combined inequality is strict too,
	// so a zero or positive constant already contradicts it.
	if strict {
		return sum.Constant().Signum() >= 0
	}
	return sum.Constant().Signum() > 0
}

// AddTermThenSelf is a tiny helper some lemma reconstruction paths use when
// an atom was built directly against a LinVar without a surviving Affine
// term (e.g. a bound atom whose subject is a slack variable): it returns
// the affine term "v + c", used here to rebuild "v <= bound" as "v - bound
// <= 0" for the Farkas sum.
func (a *AffineTerm) AddTermThenSelf(c Rational) *AffineTerm {
	r := a.Clone()
	r.AddConstant(c)
	return r
}

// checkCCPath validates a :CC (or array weak-equivalence) lemma's
// explanation path: every edge must be a known equality literal (with
// polarity flipped in the clause, i.e. its negation is present), a
// congruence step whose argument-wise equalities are other path
// endpoints, or a trivial identity (§4.5 "@lemma :CC").
func checkCCPath(cl *Clause, path []CCEdge) bool {
	if len(path) == 0 {
		return false
	}
	endpoints := make(map[[2]*Term]bool, len(path))
	for _, e := range path {
		endpoints[[2]*Term{e.From, e.To}] = true
		endpoints[[2]*Term{e.To, e.From}] = true
	}
	for _, e := range path {
		if e.From == e.To {
			continue
		}
		if e.Congruence {
			for _, pair := range e.ArgPairs {
				if pair[0] == pair[1] {
					continue
				}
				if !endpoints[[2]*Term{pair[0], pair[1]}] {
					return false
				}
			}
			continue
		}
		if e.WeakStore {
			// Shape and disequality-witness validity is checkWeakEquivalence's
			// job, since it alone knows the path's fixed read index; a bare
			// :CC path only needs the edge to actually connect a store term
			// to its base array.
			if _, _, _, ok := weakStoreShape(e); !ok {
				return false
			}
			continue
		}
		if e.Reason == nil {
			return false
		}
		if !cl.Contains(e.Reason.Negate()) {
			return false
		}
	}
	return true
}

// weakStoreShape recognizes a CCEdge's two valid weak-store forms: the
// store term linked directly to its base array, or a select through the
// store linked to the matching select through the base. It returns the
// store application, the store's own index, and the read index the edge
// is weak at (equal to the store index for the direct form, since there
// is no select to name a different one).
func weakStoreShape(e CCEdge) (storeTerm *Term, storeIndex, readIndex *Term, ok bool) {
	direct := func(store, base *Term) (*Term, *Term, *Term, bool) {
		if store.Symbol == "store" && len(store.Args) == 3 && store.Args[0] == base {
			return store, store.Args[1], store.Args[1], true
		}
		return nil, nil, nil, false
	}
	if s, i, r, ok := direct(e.From, e.To); ok {
		return s, i, r, true
	}
	if s, i, r, ok := direct(e.To, e.From); ok {
		return s, i, r, true
	}
	throughSelect := func(sel, baseSel *Term) (*Term, *Term, *Term, bool) {
		if sel.Symbol != "select" || len(sel.Args) != 2 {
			return nil, nil, nil, false
		}
		store := sel.Args[0]
		if store.Symbol != "store" || len(store.Args) != 3 {
			return nil, nil, nil, false
		}
		if baseSel.Symbol != "select" || len(baseSel.Args) != 2 {
			return nil, nil, nil, false
		}
		if baseSel.Args[0] != store.Args[0] || baseSel.Args[1] != sel.Args[1] {
			return nil, nil, nil, false
		}
		return store, store.Args[1], sel.Args[1], true
	}
	if s, i, r, ok := throughSelect(e.From, e.To); ok {
		return s, i, r, true
	}
	if s, i, r, ok := throughSelect(e.To, e.From); ok {
		return s, i, r, true
	}
	return nil, nil, nil, false
}

// disequalityWitnesses reports whether lit asserts exactly that a and b
// (in either order) are unequal.
func disequalityWitnesses(lit *Literal, a, b *Term) bool {
	if lit == nil || lit.Polarity {
		return false
	}
	at := lit.Atom
	switch at.Kind {
	case AtomCCEq:
		if at.Term1 == nil || at.Term2 == nil {
			return false
		}
		return (at.Term1 == a && at.Term2 == b) || (at.Term1 == b && at.Term2 == a)
	case AtomEq:
		// Index terms are ordinarily arithmetic-sorted, so their equality
		// atom is an AtomEq over the "a - b" affine difference (InternEqAtom),
		// not a Term1/Term2 pair — compare the normalized affine forms
		// up to sign instead.
		if at.Affine == nil {
			return false
		}
		want, _ := indexAffine(a).Sub(indexAffine(b)).GcdNormalize()
		got, _ := at.Affine.GcdNormalize()
		return want.Equal(got) || want.Equal(got.Negate())
	default:
		return false
	}
}

// indexAffine builds t's affine form the same way the compiler's
// affineFromTerm does (a literal is a constant, anything else is an opaque
// variable keyed by its own term id), without needing a live Compiler —
// this check only ever compares already-interned index terms, never builds
// new ones.
func indexAffine(t *Term) *AffineTerm {
	switch {
	case t.Literal != nil:
		return AffineConstant(*t.Literal)
	case t.Symbol == "+":
		sum := NewAffineTerm()
		for _, a := range t.Args {
			sum = sum.Add(indexAffine(a))
		}
		return sum
	case t.Symbol == "-":
		if len(t.Args) == 1 {
			return indexAffine(t.Args[0]).Negate()
		}
		diff := indexAffine(t.Args[0])
		for _, a := range t.Args[1:] {
			diff = diff.Sub(indexAffine(a))
		}
		return diff
	case t.Symbol == "*" && len(t.Args) == 2:
		l, r := t.Args[0], t.Args[1]
		if l.Literal != nil {
			return indexAffine(r).Scale(*l.Literal)
		}
		if r.Literal != nil {
			return indexAffine(l).Scale(*r.Literal)
		}
		return AffineVar(t.ID())
	default:
		return AffineVar(t.ID())
	}
}

// checkWeakEquivalence validates an array :read-over-weakeq / :weakeq-ext
// lemma: each edge is a strong equality already proved, a congruence step,
// or a weak-store step — a store term (or a select through it) linked to
// its base array, valid only because the store's own index is disequal
// from the step's read index, witnessed by a negative literal the clause
// resolves against. Every weak-store edge in the path must agree on the
// read index, since the lemma concerns a single fixed read.
func checkWeakEquivalence(cl *Clause, path []CCEdge, from, to *Term) bool {
	if len(path) == 0 {
		return false
	}
	if path[0].From != from || path[len(path)-1].To != to {
		return false
	}
	var readIndex *Term
	for _, e := range path {
		if e.From == e.To {
			continue
		}
		if !e.WeakStore {
			continue
		}
		_, storeIndex, idx, ok := weakStoreShape(e)
		if !ok {
			return false
		}
		if readIndex == nil {
			readIndex = idx
		} else if readIndex != idx {
			return false
		}
		if !disequalityWitnesses(e.IndexDisequal, storeIndex, idx) {
			return false
		}
		if !cl.Contains(e.IndexDisequal.Negate()) {
			return false
		}
	}
	return checkCCPath(cl, path)
}

// trichotomyAffine returns a's affine form for the purpose of comparing
// trichotomy literals: AtomEq always carries its own Affine, but AtomBound
// atoms interned through internAtomOn never do, so they must be rebuilt
// from their subject variable and bound the same way checkLAFarkas does.
func trichotomyAffine(a *Atom) *AffineTerm {
	if a.Affine != nil {
		return a.Affine
	}
	if a.Var == nil {
		return nil
	}
	base := AffineVar(a.Var.id).AddTermThenSelf(a.Bound.Neg())
	if a.Kind == AtomBound && !a.Upper {
		base = base.Negate()
	}
	return base
}

// checkTrichotomy validates a :trichotomy lemma: exactly three literals
// (= x 0), (< x 0), (< 0 x), all over the same affine subject up to sign
// and gcd-normalization.
func checkTrichotomy(cl *Clause) bool {
	if len(cl.Literals) != 3 {
		return false
	}
	var eqAtom, negAtom, posAtom *Atom
	for _, l := range cl.Literals {
		if !l.Polarity {
			return false
		}
		a := l.Atom
		switch a.Kind {
		case AtomEq:
			eqAtom = a
		case AtomBound:
			if a.Strict && a.Upper {
				negAtom = a
			} else if a.Strict && !a.Upper {
				posAtom = a
			}
		}
	}
	if eqAtom == nil || negAtom == nil || posAtom == nil {
		return false
	}
	eqAffine, negAffine, posAffine := trichotomyAffine(eqAtom), trichotomyAffine(negAtom), trichotomyAffine(posAtom)
	if eqAffine == nil || negAffine == nil || posAffine == nil {
		return false
	}
	subject, _ := eqAffine.GcdNormalize()
	neg, _ := negAffine.GcdNormalize()
	pos, _ := posAffine.GcdNormalize()
	sameSubject := func(other *AffineTerm) bool {
		return subject.Equal(other) || subject.Equal(other.Negate())
	}
	return sameSubject(neg) && sameSubject(pos)
}

// checkEQLemma validates a :EQ lemma: two literals, one positive equality
// and one disequality, whose affine forms coincide up to sign and
// gcd-normalization.
func checkEQLemma(cl *Clause) bool {
	if len(cl.Literals) != 2 {
		return false
	}
	var eqLit, neqLit *Literal
	for _, l := range cl.Literals {
		if l.Atom.Kind != AtomEq {
			return false
		}
		if l.Polarity {
			eqLit = l
		} else {
			neqLit = l
		}
	}
	if eqLit == nil || neqLit == nil {
		return false
	}
	n1, f1 := eqLit.Atom.Affine.GcdNormalize()
	n2, f2 := neqLit.Atom.Affine.GcdNormalize()
	if n1.Equal(n2) {
		return true
	}
	_ = f1
	_ = f2
	return n1.Equal(n2.Negate())
}

// checkLemma dispatches a :kind lemma annotation to the matching validator.
func checkLemma(p *ProofTerm) bool {
	switch p.RuleName {
	case ":LA":
		return checkLAFarkas(p.ProvedClause, p.LAFarkas)
	case ":CC":
		return checkCCPath(p.ProvedClause, p.CCPath)
	case ":read-over-weakeq", ":weakeq-ext":
		if len(p.CCPath) == 0 {
			return false
		}
		return checkWeakEquivalence(p.ProvedClause, p.CCPath, p.CCPath[0].From, p.CCPath[len(p.CCPath)-1].To)
	case ":trichotomy":
		return checkTrichotomy(p.ProvedClause)
	case ":EQ":
		return checkEQLemma(p.ProvedClause)
	default:
		return false
	}
}
