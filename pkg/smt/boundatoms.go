package smt

import "fmt"

// atomFactory interns bound and equality atoms onto the tableau's
// variables, sharing a single LinVar across every bound threshold asserted
// against the same underlying affine combination (§4.1's "list of
// generated bound constraints keyed by bound value") and a single Atom
// across repeated assertions of the same normalized (var, threshold,
// direction, strictness) tuple (the supplemented bound-constraint atom
// caching in SPEC_FULL.md).
type atomFactory struct {
	tableau   *Tableau
	level     int
	slackVars map[string]*LinVar // canonical variable-part key -> subject LinVar
	atoms     map[string]*Atom   // (subjectID, bound, upper, strict) key -> Atom
	eqAtoms   map[string]*Atom
	ccEqAtoms map[string]*Atom // unordered (Term1,Term2) id pair -> Atom
	predAtoms map[int]*Atom    // term id -> Atom, for bare Boolean-sorted predicate applications
	nextAtom  int
}

// SetLevel updates the assertion-stack level new slack variables are
// created at; dpll.go calls this before compiling each newly-pushed
// assertion so slack variables inherit the correct undo level.
func (f *atomFactory) SetLevel(level int) { f.level = level }

func newAtomFactory(t *Tableau) *atomFactory {
	return &atomFactory{
		tableau:   t,
		slackVars: make(map[string]*LinVar),
		atoms:     make(map[string]*Atom),
		eqAtoms:   make(map[string]*Atom),
		ccEqAtoms: make(map[string]*Atom),
		predAtoms: make(map[int]*Atom),
	}
}

// InternCCEqAtom returns the Atom for the uninterpreted-theory equality
// between a and b, shared across either argument order.
func (f *atomFactory) InternCCEqAtom(a, b *Term) *Atom {
	key := ccEqKey(a, b)
	if at, ok := f.ccEqAtoms[key]; ok {
		return at
	}
	at := &Atom{id: f.nextAtom, Kind: AtomCCEq, Term1: a, Term2: b}
	f.nextAtom++
	f.ccEqAtoms[key] = at
	return at
}

func ccEqKey(a, b *Term) string {
	if a.id <= b.id {
		return fmt.Sprintf("%d|%d", a.id, b.id)
	}
	return fmt.Sprintf("%d|%d", b.id, a.id)
}

// InternPredAtom returns the Atom for t used directly as a Boolean atom (an
// uninterpreted predicate application that the compiler left uninterpreted).
func (f *atomFactory) InternPredAtom(t *Term) *Atom {
	if at, ok := f.predAtoms[t.id]; ok {
		return at
	}
	at := &Atom{id: f.nextAtom, Kind: AtomPred, Term1: t}
	f.nextAtom++
	f.predAtoms[t.id] = at
	return at
}

// InternBoundAtom returns the Atom for "expr <= 0" (or "expr < 0" if
// strict), splitting expr into its variable part and constant, reducing the
// variable part to gcd-normalized canonical form, and reusing an existing
// subject LinVar (or a fresh slack variable standing for a multi-variable
// combination) plus an existing Atom when the same (subject, threshold,
// direction, strictness) tuple has already been asserted.
func (f *atomFactory) InternBoundAtom(expr *AffineTerm, strict bool, isInt bool) *Atom {
	varPart := NewAffineTerm()
	for _, v := range expr.Vars() {
		varPart.AddTerm(v, expr.Coeff(v))
	}
	constant := expr.Constant()

	if varPart.IsConstant() {
		// A fully-constant atom (e.g. "3 <= 0"); represent it with a
		// dedicated always-non-negative subject variable pinned at 0 so the
		// usual threshold machinery still applies uniformly.
		subject := f.internSlack("#const", map[int]Rational{})
		return f.internAtomOn(subject, constant.Neg(), true, strict)
	}

	normVar, factor := varPart.GcdNormalize()
	upper := factor.Signum() > 0
	threshold := constant.Neg().Div(factor)

	subject := f.subjectFor(normVar, isInt)
	return f.internAtomOn(subject, threshold, upper, strict)
}

// InternEqAtom returns the Atom for "expr == 0", using the same
// variable-part/constant split (equalities have no direction to normalize,
// only the gcd).
func (f *atomFactory) InternEqAtom(expr *AffineTerm, isInt bool) *Atom {
	varPart := NewAffineTerm()
	for _, v := range expr.Vars() {
		varPart.AddTerm(v, expr.Coeff(v))
	}
	constant := expr.Constant()
	if varPart.IsConstant() {
		subject := f.internSlack("#const", map[int]Rational{})
		key := fmt.Sprintf("%d|%s", subject.id, constant.Neg().String())
		if a, ok := f.eqAtoms[key]; ok {
			return a
		}
		a := &Atom{id: f.nextAtom, Kind: AtomEq, Affine: expr, Var: subject, Bound: constant.Neg()}
		f.nextAtom++
		f.eqAtoms[key] = a
		return a
	}
	normVar, factor := varPart.GcdNormalize()
	threshold := constant.Neg().Div(factor)
	subject := f.subjectFor(normVar, isInt)
	key := fmt.Sprintf("%d|%s", subject.id, threshold.String())
	if a, ok := f.eqAtoms[key]; ok {
		return a
	}
	a := &Atom{id: f.nextAtom, Kind: AtomEq, Affine: expr, Var: subject, Bound: threshold}
	f.nextAtom++
	f.eqAtoms[key] = a
	return a
}

func (f *atomFactory) internAtomOn(subject *LinVar, threshold Rational, upper, strict bool) *Atom {
	key := fmt.Sprintf("%d|%s|%v|%v", subject.id, threshold.String(), upper, strict)
	if a, ok := f.atoms[key]; ok {
		return a
	}
	a := &Atom{id: f.nextAtom, Kind: AtomBound, Var: subject, Bound: threshold, Upper: upper, Strict: strict}
	f.nextAtom++
	f.atoms[key] = a
	subject.boundAtoms[key] = append(subject.boundAtoms[key], a)
	return a
}

// subjectFor returns the LinVar representing normVar: if normVar is a
// single variable with unit coefficient, the variable itself (created at
// its term id on first use via EnsureVar); otherwise a cached slack
// variable equal to the linear combination.
func (f *atomFactory) subjectFor(normVar *AffineTerm, isInt bool) *LinVar {
	vars := normVar.Vars()
	if len(vars) == 1 && normVar.Coeff(vars[0]).Equal(RationalFromInt64(1)) {
		return f.tableau.EnsureVar(vars[0], "v", isInt, f.level)
	}
	key := slackKey(normVar)
	for _, id := range vars {
		f.tableau.EnsureVar(id, "v", isInt, f.level)
	}
	return f.internSlack(key, normVar.coeffsCopy())
}

func slackKey(a *AffineTerm) string {
	s := ""
	for _, v := range a.Vars() {
		s += fmt.Sprintf("%d:%s,", v, a.Coeff(v).String())
	}
	return s
}

func (f *atomFactory) internSlack(key string, terms map[int]Rational) *LinVar {
	if v, ok := f.slackVars[key]; ok {
		return v
	}
	v := f.tableau.NewVar("slack", false, f.level)
	f.tableau.MakeBasic(v, terms)
	f.slackVars[key] = v
	return v
}

func (a *AffineTerm) coeffsCopy() map[int]Rational {
	m := make(map[int]Rational, len(a.coeffs))
	for k, v := range a.coeffs {
		m[k] = v
	}
	return m
}
