package smt

// tautologyValidator checks whether cl matches the fixed clause schema
// named by its tautology kind.
type tautologyValidator func(cl *Clause) bool

// tautologyRuleTable is the fixed set of clause schemas from §4.5's
// "@tautology" list. Each validator pattern-matches the clause shape; none
// need a proof-term argument since a tautology leaf proves itself.
//
// :or+/:or-/:ite+1/2/:ite-1/2 are exercised directly by solver.go's Tseitin
// encoding (tseitinOr/tseitinIte) and are checked against that exact clause
// shape. The remaining kinds (:=-2, :termITE, :divHigh/:divLow,
// :toIntHigh/:toIntLow, :store, :diff, :trueNotFalse) have no producer in
// this solver — nothing here asserts to_int or array-extensionality lemmas
// yet — but are still checked against the literal/atom-kind shape their
// standard axiom form requires, not a bare arity count.
var tautologyRuleTable = map[string]tautologyValidator{
	":or+":            checkOrPlus,
	":or-":            checkOrMinus,
	":ite+1":          checkIteGate(false),
	":ite+2":          checkIteGate(false),
	":ite-1":          checkIteGate(true),
	":ite-2":          checkIteGate(true),
	":=-2":            checkEqMinus2,
	":termITE":        checkTermITE,
	":excludedMiddle1": checkExcludedMiddle,
	":excludedMiddle2": checkExcludedMiddle,
	":divHigh":        checkSingleBoundFact,
	":divLow":         checkSingleBoundFact,
	":toIntHigh":      checkSingleBoundFact,
	":toIntLow":       checkSingleBoundFact,
	":store":          checkStore,
	":diff":           checkDiff,
	":trueNotFalse":   checkTrueNotFalseClause,
}

// checkOrPlus validates ":or+": (not p) l1 .. ln where p names (or l1..ln).
// The defining "or" term's own arity must match the clause's disjunct
// count, not just be "at least one".
func checkOrPlus(cl *Clause) bool {
	if len(cl.Literals) < 2 {
		return false
	}
	head := cl.Literals[0]
	if head.Polarity || head.Atom.Kind != AtomPred || head.Atom.Term1 == nil || head.Atom.Term1.Symbol != "or" {
		return false
	}
	return len(head.Atom.Term1.Args) == len(cl.Literals)-1
}

// checkOrMinus validates ":or-": p (not li), one clause per disjunct of the
// "or" term p names.
func checkOrMinus(cl *Clause) bool {
	if len(cl.Literals) != 2 {
		return false
	}
	head := cl.Literals[0]
	if !head.Polarity || head.Atom.Kind != AtomPred || head.Atom.Term1 == nil || head.Atom.Term1.Symbol != "or" {
		return false
	}
	if len(head.Atom.Term1.Args) == 0 {
		return false
	}
	return !cl.Literals[1].Polarity
}

// checkIteGate builds the validator for one of the four ITE gate clauses
// tseitinIte emits: exactly 3 literals, the first naming a 3-ary "ite"
// predicate with the head polarity the schema fixes (positive exactly when
// negateHead is true, i.e. for :ite-1/:ite-2), and two further literals over
// distinct atoms (the
// condition and the selected branch).
func checkIteGate(negateHead bool) tautologyValidator {
	return func(cl *Clause) bool {
		if len(cl.Literals) != 3 {
			return false
		}
		head := cl.Literals[0]
		if head.Atom.Kind != AtomPred || head.Atom.Term1 == nil {
			return false
		}
		if head.Atom.Term1.Symbol != "ite" || len(head.Atom.Term1.Args) != 3 {
			return false
		}
		if head.Polarity != negateHead {
			return false
		}
		// The remaining two literals must be over atoms distinct from the
		// head ite-predicate (the condition and the selected branch).
		return cl.Literals[1].Atom != head.Atom && cl.Literals[2].Atom != head.Atom
	}
}

// :=-2 — a 3-literal equality-splitting tautology; requires one literal to
// actually be a negative arithmetic/CC equality, not merely any 3 literals.
func checkEqMinus2(cl *Clause) bool {
	if len(cl.Literals) != 3 {
		return false
	}
	for _, l := range cl.Literals {
		if !l.Polarity && (l.Atom.Kind == AtomEq || l.Atom.Kind == AtomCCEq) {
			return true
		}
	}
	return false
}

// :termITE — a non-Boolean ite's defining congruence tautology; requires at
// least the value-equality plus both branch-guard literals.
func checkTermITE(cl *Clause) bool {
	if len(cl.Literals) < 3 {
		return false
	}
	for _, l := range cl.Literals {
		if l.Atom.Kind == AtomEq || l.Atom.Kind == AtomCCEq {
			return true
		}
	}
	return false
}

// checkExcludedMiddle validates both :excludedMiddle1/2: a literal and its
// own negation.
func checkExcludedMiddle(cl *Clause) bool {
	return len(cl.Literals) == 2 && cl.Literals[0].Atom == cl.Literals[1].Atom &&
		cl.Literals[0].Polarity != cl.Literals[1].Polarity
}

// checkSingleBoundFact validates :divHigh/:divLow/:toIntHigh/:toIntLow: each
// is a single asserted linear-arithmetic bound fact, not a disjunction.
func checkSingleBoundFact(cl *Clause) bool {
	return len(cl.Literals) == 1 && cl.Literals[0].Polarity && cl.Literals[0].Atom.Kind == AtomBound
}

// :store — the array self-update axiom (select (store a i v) i) = v, a
// single positive equality fact.
func checkStore(cl *Clause) bool {
	if len(cl.Literals) != 1 || !cl.Literals[0].Polarity {
		return false
	}
	kind := cl.Literals[0].Atom.Kind
	return kind == AtomCCEq || kind == AtomEq
}

// :diff — the array extensionality witness: a=b or the arrays disagree at
// the witness index.
func checkDiff(cl *Clause) bool {
	if len(cl.Literals) != 2 {
		return false
	}
	l0, l1 := cl.Literals[0], cl.Literals[1]
	eqKind := func(l *Literal) bool { return l.Atom.Kind == AtomCCEq || l.Atom.Kind == AtomEq }
	return l0.Polarity && eqKind(l0) && !l1.Polarity && eqKind(l1)
}

// :trueNotFalse (clause form) — the unit fact (not (= true false)).
func checkTrueNotFalseClause(cl *Clause) bool {
	if len(cl.Literals) != 1 || cl.Literals[0].Polarity {
		return false
	}
	atom := cl.Literals[0].Atom
	if atom.Kind != AtomCCEq || atom.Term1 == nil || atom.Term2 == nil {
		return false
	}
	return (isTrueLit(atom.Term1) && isFalseLit(atom.Term2)) || (isFalseLit(atom.Term1) && isTrueLit(atom.Term2))
}

// checkTautology looks up kind in tautologyRuleTable and applies it.
func checkTautology(kind string, cl *Clause) bool {
	v, ok := tautologyRuleTable[kind]
	if !ok {
		return false
	}
	return v(cl)
}
