package smt

// Theory is the DPLL(T) integration layer: it owns the tableau, the
// congruence closure, the atom/slack-variable cache, and the trail of
// asserted literals, and exposes exactly the operations a SAT search loop
// needs to drive a theory (§4.3's set_literal / backtrack_literal /
// check_point / compute_conflict_clause / get_propagated_literal /
// get_suggestion, plus push/pop for the assertion stack). It does not run
// a SAT search itself — that belongs to the clausifier/solver driver
// (solver.go's Solver); Theory only answers the questions the driver
// would ask.
type Theory struct {
	tt      *TermTable
	tableau *Tableau
	simplex *SimplexEngine
	cc      *CongruenceClosure
	af      *atomFactory
	cfg     Config

	level      int
	trail      []trailEntry
	levelMarks []int

	// equalityLog replays surviving CC-theory equality assertions after a
	// pop, since union-find merges cannot be undone in place (the
	// "CC-merge undo-by-rebuild" strategy).
	equalityLog []eqAssertion

	// atomTruth is the current truth assignment for AtomPred atoms.
	// propagateSide skips any atom with an entry here; bound atoms never
	// get one, so already-assigned bound atoms are not filtered out of the
	// propagation queue.
	atomTruth map[*Atom]bool

	shared   []*LinVar
	sharedEq func(a, b *LinVar) bool // caller-supplied "are these already CC-equated" hook

	pendingConflict *Conflict
	propagated      []*Literal

	// registeredApps is every application term ever registered with the
	// congruence closure, kept so rebuildCC can re-register them after a
	// pop discards the closure wholesale (union-find state is not
	// incrementally undoable, so a pop rebuilds from this log plus
	// equalityLog rather than unwinding individual unions).
	registeredApps []*Term

	cutCounter int
}

type trailEntry struct {
	lit   *Literal
	level int
	kind  trailKind
}

type trailKind int

const (
	trailBound trailKind = iota
	trailEquality
	trailDisequality
	trailPred
)

type eqAssertion struct {
	a, b  *Term
	lit   *Literal
	level int
}

// NewTheory returns a Theory over a fresh term table, tableau, and
// congruence closure, configured by cfg.
func NewTheory(cfg Config) *Theory {
	cfg.normalize()
	tab := NewTableau()
	return &Theory{
		tt:        NewTermTable(),
		tableau:   tab,
		simplex:   NewSimplexEngine(tab, cfg.Logger),
		cc:        NewCongruenceClosure(),
		af:        newAtomFactory(tab),
		cfg:       cfg,
		atomTruth: make(map[*Atom]bool),
	}
}

// Terms returns the term table backing this theory's atoms.
func (th *Theory) Terms() *TermTable { return th.tt }

// Tableau returns the underlying linear-arithmetic tableau.
func (th *Theory) Tableau() *Tableau { return th.tableau }

// CC returns the underlying congruence closure.
func (th *Theory) CC() *CongruenceClosure { return th.cc }

// RegisterShared marks v as relevant to the uninterpreted-functions theory
// (it backs a term that also participates in linear arithmetic), so the
// model-repair pass considers it during get_suggestion. equated reports
// whether two shared variables' backing terms are already in the same CC
// class.
func (th *Theory) RegisterShared(v *LinVar, equated func(a, b *LinVar) bool) {
	th.shared = append(th.shared, v)
	th.sharedEq = equated
}

// InternBoundAtom exposes the atom factory's bound-atom interning to the
// term compiler, first pointing new slack variables at the current level.
func (th *Theory) InternBoundAtom(expr *AffineTerm, strict bool, isInt bool) *Atom {
	th.af.SetLevel(th.level)
	return th.af.InternBoundAtom(expr, strict, isInt)
}

// InternEqAtom exposes the atom factory's equality-atom interning.
func (th *Theory) InternEqAtom(expr *AffineTerm, isInt bool) *Atom {
	th.af.SetLevel(th.level)
	return th.af.InternEqAtom(expr, isInt)
}

// InternCCEqAtom exposes the atom factory's uninterpreted-equality interning.
func (th *Theory) InternCCEqAtom(a, b *Term) *Atom { return th.af.InternCCEqAtom(a, b) }

// InternPredAtom exposes the atom factory's bare-predicate interning.
func (th *Theory) InternPredAtom(t *Term) *Atom { return th.af.InternPredAtom(t) }

// AtomTruth returns the current truth assignment for AtomPred atoms, for a
// driver building a model after a Sat result.
func (th *Theory) AtomTruth() map[*Atom]bool { return th.atomTruth }

// Push opens a new assertion-stack level (§4.3 "push").
func (th *Theory) Push() {
	th.levelMarks = append(th.levelMarks, len(th.trail))
	th.level++
}

// Pop discards n assertion-stack levels, retracting every literal asserted
// at or above the resulting level and rebuilding the congruence closure
// from the surviving equality log (§4.3 "backtrack_literal" generalized to
// a batch pop, matching how a clausifier actually drives this layer).
func (th *Theory) Pop(n int) {
	for i := 0; i < n; i++ {
		if len(th.levelMarks) == 0 {
			break
		}
		mark := th.levelMarks[len(th.levelMarks)-1]
		th.levelMarks = th.levelMarks[:len(th.levelMarks)-1]
		for len(th.trail) > mark {
			e := th.trail[len(th.trail)-1]
			th.trail = th.trail[:len(th.trail)-1]
			th.undoEntry(e)
		}
		th.level--
	}
	th.rebuildCC()
	th.pendingConflict = nil
	th.propagated = nil
}

func (th *Theory) undoEntry(e trailEntry) {
	switch e.kind {
	case trailBound:
		RetractLiteral(e.lit.Atom.Var, e.lit)
		if a := e.lit.Atom; a.Kind == AtomEq && !e.lit.Polarity {
			for i, d := range a.Var.disequalities {
				if d.Equal(a.Bound) {
					a.Var.disequalities = append(a.Var.disequalities[:i], a.Var.disequalities[i+1:]...)
					break
				}
			}
		}
	case trailPred:
		delete(th.atomTruth, e.lit.Atom)
	case trailEquality, trailDisequality:
		// equalities are trimmed from equalityLog below and replayed by
		// rebuildCC; a CC disequality leaves no state to undo
	}
	if e.kind == trailEquality {
		for i := len(th.equalityLog) - 1; i >= 0; i-- {
			if th.equalityLog[i].lit == e.lit {
				th.equalityLog = append(th.equalityLog[:i], th.equalityLog[i+1:]...)
				break
			}
		}
	}
}

func (th *Theory) rebuildCC() {
	th.cc = NewCongruenceClosure()
	for _, t := range th.registeredApps {
		th.cc.RegisterApplication(t)
	}
	for _, e := range th.equalityLog {
		th.cc.Merge(e.a, e.b, e.lit)
	}
}

// RegisterApplication exposes congruence-closure registration to the term
// compiler for every uninterpreted application (and array store/select)
// term it produces, logging it so a later pop can rebuild the closure.
func (th *Theory) RegisterApplication(t *Term) {
	th.registeredApps = append(th.registeredApps, t)
	th.cc.RegisterApplication(t)
}

// AssertLiteral is set_literal: it installs lit's effect on the theory
// state (a tightened bound, a congruence merge, a recorded disequality, or
// a predicate assignment) and returns an immediate UsageError-class
// problem only when the assertion is self-contradictory with no search
// possible (e.g. a disequality against a variable already pinned to that
// value). Ordinary theory conflicts are discovered later, by CheckPoint.
func (th *Theory) AssertLiteral(lit *Literal) error {
	a := lit.Atom
	switch a.Kind {
	case AtomBound, AtomEq:
		return th.assertBoundLiteral(lit)
	case AtomCCEq:
		return th.assertEqLiteral(lit)
	case AtomPred:
		return th.assertPredLiteral(lit)
	default:
		return nil
	}
}

func (th *Theory) assertBoundLiteral(lit *Literal) error {
	a := lit.Atom
	v := a.Var
	stackPos := len(th.trail)

	install := func(isUpper bool, bound InfinitNumber) {
		r := th.tableau.arena.NewLiteralReason(v, isUpper, bound, lit, stackPos, th.level)
		if th.tableau.arena.PushHead(r) {
			th.simplex.MarkOutOfBounds(v)
		}
	}

	switch a.Kind {
	case AtomEq:
		if lit.Polarity {
			install(true, InfNumRational(a.Bound))
			install(false, InfNumRational(a.Bound))
		} else {
			if err := v.AddDisequality(a.Bound); err != nil {
				return err
			}
		}
	case AtomBound:
		upper := a.Upper
		strict := a.Strict
		if !lit.Polarity {
			upper = !upper
			strict = !strict
		}
		var bound InfinitNumber
		eps := int8(0)
		if strict {
			if upper {
				eps = -1
			} else {
				eps = 1
			}
		}
		bound = InfinitNumber{A: a.Bound, Eps: eps}
		install(upper, bound)
	}
	th.trail = append(th.trail, trailEntry{lit: lit, level: th.level, kind: trailBound})
	return nil
}

func (th *Theory) assertEqLiteral(lit *Literal) error {
	a := lit.Atom
	if lit.Polarity {
		th.RegisterApplication(a.Term1)
		th.RegisterApplication(a.Term2)
		th.cc.Merge(a.Term1, a.Term2, lit)
		th.equalityLog = append(th.equalityLog, eqAssertion{a: a.Term1, b: a.Term2, lit: lit, level: th.level})
		th.trail = append(th.trail, trailEntry{lit: lit, level: th.level, kind: trailEquality})
		return nil
	}
	if th.cc.Equal(a.Term1, a.Term2) {
		return &UsageError{Msg: "disequality contradicts an already-merged congruence class"}
	}
	th.trail = append(th.trail, trailEntry{lit: lit, level: th.level, kind: trailDisequality})
	return nil
}

func (th *Theory) assertPredLiteral(lit *Literal) error {
	a := lit.Atom
	if cur, ok := th.atomTruth[a]; ok && cur != lit.Polarity {
		return &UsageError{Msg: "predicate atom asserted with both polarities"}
	}
	th.atomTruth[a] = lit.Polarity
	th.trail = append(th.trail, trailEntry{lit: lit, level: th.level, kind: trailPred})
	return nil
}

// CheckPoint is check_point: it repairs the linear-arithmetic tableau to a
// consistent assignment (or finds a conflict), generating Gomory cuts as
// needed, and returns the conflict (if any) for compute_conflict_clause to
// report. A nil, nil result means the current partial assignment has a
// consistent linear-arithmetic model.
func (th *Theory) CheckPoint() (*Conflict, error) {
	if th.pendingConflict != nil {
		c := th.pendingConflict
		th.pendingConflict = nil
		return c, nil
	}
	for {
		conf, err := th.simplex.CheckPoint(th.cfg.Terminate)
		if err != nil {
			return nil, err
		}
		if conf != nil {
			th.cfg.Logger.Debug("simplex conflict detected", "literals", len(conf.Clause.Literals), "strict", conf.StrictFound)
			return conf, nil
		}
		if th.cfg.terminate() {
			return nil, &ResourceError{Reason: "step budget exhausted generating cuts"}
		}
		cuts := GenerateCuts(th.tableau, th.cfg.MaxCuts, th.cfg.Terminate)
		if len(cuts) == 0 {
			break
		}
		th.cfg.Logger.Debug("generated Gomory cuts", "count", len(cuts))
		for _, cut := range cuts {
			th.assertCut(cut)
		}
	}
	th.propagateBounds()
	return nil, nil
}

// assertCut installs a Gomory cut (Expr >= 0) as a permanent lower bound on
// a fresh basic variable equal to the variable part of Expr; the bound is
// the negated constant of Expr. Cuts are
// sound consequences of the current integer bounds rather than
// assumptions, so they are justified by a dedicated non-retractable
// reason (Level -1) instead of a trail literal; a cut can therefore never
// itself be popped.
func (th *Theory) assertCut(cut GomoryCut) *LinVar {
	th.cutCounter++
	v := th.tableau.NewVar("cut", true, -1)
	th.tableau.MakeBasic(v, cut.Expr.coeffsCopy())
	r := th.tableau.arena.NewLiteralReason(v, false, InfNumRational(cut.Expr.Constant().Neg()), axiomLiteral, -1, -1)
	th.tableau.arena.PushHead(r)
	th.simplex.MarkOutOfBounds(v)
	return v
}

// axiomLiteral marks a bound as an internally-derived sound fact (a
// Gomory cut) rather than a search assumption. It never appears in a
// clause a caller asserts, so a conflict naming it signals a cut-only
// infeasibility; callers that surface raw conflict clauses to a SAT
// search should drop it before reporting the clause.
var axiomLiteral = &Literal{Atom: &Atom{Kind: AtomBound}, Polarity: true}

// propagateBounds scans every basic variable whose bound-refinement
// support counters are exhausted on a side and queues any cached
// bound-constraint atom that side's composite bound now entails, for
// get_propagated_literal to drain (§4.1 "propagate_bounds").
func (th *Theory) propagateBounds() {
	for _, id := range th.tableau.order {
		v := th.tableau.Var(id)
		if v == nil || !v.isBasic {
			continue
		}
		th.tableau.refreshSupportCounters(v)
		if v.upperSupportInf == 0 {
			th.propagateSide(v, true)
		}
		if v.lowerSupportInf == 0 {
			th.propagateSide(v, false)
		}
	}
}

func (th *Theory) propagateSide(v *LinVar, upper bool) {
	bound := th.tableau.CompositeBound(v, upper)
	if bound.IsInfinite() {
		return
	}
	for _, atoms := range v.boundAtoms {
		for _, a := range atoms {
			lit := &Literal{Atom: a, Polarity: true}
			var entailed bool
			var polarity bool
			switch {
			case upper && a.Upper:
				entailed = bound.LessEq(InfinitNumber{A: a.Bound, Eps: strictEps(a.Strict, true)})
				polarity = true
			case upper && !a.Upper:
				entailed = bound.Less(InfNumRational(a.Bound))
				polarity = false
			case !upper && !a.Upper:
				entailed = bound.GreaterEq(InfinitNumber{A: a.Bound, Eps: strictEps(a.Strict, false)})
				polarity = true
			case !upper && a.Upper:
				entailed = bound.Greater(InfNumRational(a.Bound))
				polarity = false
			}
			if !entailed {
				continue
			}
			lit.Polarity = polarity
			if _, already := th.atomTruth[a]; already {
				continue
			}
			th.propagated = append(th.propagated, lit)
		}
	}
}

func strictEps(strict, upper bool) int8 {
	if !strict {
		return 0
	}
	if upper {
		return -1
	}
	return 1
}

// GetPropagatedLiteral is get_propagated_literal: it drains and returns one
// literal this theory has determined must be true given the current
// partial assignment, or nil if none remain.
func (th *Theory) GetPropagatedLiteral() *Literal {
	if len(th.propagated) == 0 {
		return nil
	}
	lit := th.propagated[0]
	th.propagated = th.propagated[1:]
	return lit
}

// Suggestion is a non-mandatory hint the driver may act on to make
// progress: either repairing a shared variable to a fresh value, or
// merging two congruence classes whose backing variables collided by
// coincidence.
type Suggestion struct {
	RepairVar   *LinVar
	RepairValue Rational
	MergeA      *LinVar
	MergeB      *LinVar
}

// GetSuggestion is get_suggestion (§4.1's "mutate" pass / array-theory
// suggestion hook): for every pair of shared variables that currently hold
// equal values without being CC-equated, it first tries to move one side
// to a fresh value within its freedom interval; failing that for every
// collision, it suggests merging the colliding pair's congruence classes
// instead.
func (th *Theory) GetSuggestion() *Suggestion {
	if len(th.shared) == 0 || th.sharedEq == nil {
		return nil
	}
	collisions := SharedValueCollisions(th.shared, th.sharedEq)
	for _, pair := range collisions {
		a, b := pair[0], pair[1]
		if val, ok := th.tableau.RepairVar(a, func(cand Rational) bool { return false }); ok {
			return &Suggestion{RepairVar: a, RepairValue: val}
		}
		if val, ok := th.tableau.RepairVar(b, func(cand Rational) bool { return false }); ok {
			return &Suggestion{RepairVar: b, RepairValue: val}
		}
	}
	if len(collisions) > 0 {
		return &Suggestion{MergeA: collisions[0][0], MergeB: collisions[0][1]}
	}
	return nil
}
