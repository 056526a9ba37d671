package smt

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Result is the outcome of a CheckSat call.
type Result int

const (
	Unknown Result = iota
	Sat
	Unsat
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	}
	return "unknown"
}

// Model is a satisfying assignment: arithmetic variables keyed by their
// originally-declared surface term, and Boolean-sorted predicate
// applications keyed likewise.
type Model struct {
	Ints  map[*Term]Rational
	Reals map[*Term]Rational
	Bools map[*Term]bool
}

type clauseRecord struct {
	clause *Clause
	proof  *ProofTerm
}

type assignment struct {
	lit        *Literal
	antecedent *ProofTerm // nil for a decision literal
}

// Solver is the top-level driver wiring the term compiler and the DPLL(T)
// theory layer into the small surface a caller needs: assert formulas,
// check satisfiability, and read back a model or a proof. It runs its own
// Boolean search (a two-way chronological-backtracking DPLL, not a
// learning CDCL) since that piece sits outside what Theory answers on its
// own (dpll.go's doc comment: "that belongs to the clausifier/solver
// driver").
type Solver struct {
	tt       *TermTable
	compiler *Compiler
	theory   *Theory
	cfg      Config

	clauses       []clauseRecord
	clauseMarks   []int
	assertedLits  []*Literal // flat log of every clause's literals, for a future unsat-core walk fallback
	assertedMarks []int

	defined map[*Atom]bool // predicate atoms already given Tseitin-style defining clauses (for "or"/"ite")

	assigned        map[*Atom]*assignment
	trail           []*Literal
	pendingConflict *ProofTerm
	abortErr        error

	trueAtom *Atom

	result Result
	proof  *ProofTerm
}

// NewSolver returns a solver over a fresh term table, theory, and compiler.
func NewSolver(cfg Config) *Solver {
	cfg.normalize()
	th := NewTheory(cfg)
	s := &Solver{
		tt:       th.Terms(),
		compiler: NewCompiler(th),
		theory:   th,
		cfg:      cfg,
		defined:  make(map[*Atom]bool),
		assigned: make(map[*Atom]*assignment),
	}
	trueTerm := s.tt.InternBool(true)
	s.trueAtom = th.InternPredAtom(trueTerm)
	return s
}

// Terms returns the solver's term table, for a caller building surface
// terms to assert.
func (s *Solver) Terms() *TermTable { return s.tt }

// Theory returns the underlying DPLL(T) theory, for callers that want to
// drive it directly (or inspect the tableau/congruence closure).
func (s *Solver) Theory() *Theory { return s.theory }

// Assert compiles f to normal form and clausifies the result into the
// solver's permanent clause set. f must be Boolean-sorted.
func (s *Solver) Assert(f *Term) error {
	if f.Sort != SortBool {
		return &UsageError{Msg: "Assert requires a Bool-sorted formula"}
	}
	normal, _ := s.compiler.Compile(f)
	return s.clausifyAsserted(normal)
}

// AssertAll asserts every formula in fs, continuing past a rejected one so
// a batch of independent assertions (e.g. replaying an input script) is
// reported as a single accumulated error rather than stopping at the
// first problem.
func (s *Solver) AssertAll(fs []*Term) error {
	var errs *multierror.Error
	for _, f := range fs {
		if err := s.Assert(f); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// AssertLiteral adds lit directly as a unit clause, for callers already
// working at the literal level instead of through surface formulas.
func (s *Solver) AssertLiteral(lit *Literal) {
	cl := NewClause(lit)
	s.addClause(cl, Asserted(cl))
}

func (s *Solver) addClause(cl *Clause, proof *ProofTerm) {
	s.clauses = append(s.clauses, clauseRecord{clause: cl, proof: proof})
	s.assertedLits = append(s.assertedLits, cl.Literals...)
}

// clausifyAsserted turns one compiled top-level formula into one or more
// clauses. normal is one of the compiler's normal-form shapes: a bare "or"
// (a disjunction), a "not" over an "or" (the :andToOr conjunction form,
// split into one unit clause per conjunct), or a single literal.
func (s *Solver) clausifyAsserted(normal *Term) error {
	if normal.Symbol == "or" {
		lits, err := s.orLiterals(normal, nil)
		if err != nil {
			return err
		}
		cl := NewClause(lits...)
		s.addClause(cl, Asserted(cl))
		return nil
	}
	if normal.Symbol == "not" && len(normal.Args) == 1 && normal.Args[0].Symbol == "or" {
		lits, err := s.orLiterals(normal.Args[0], nil)
		if err != nil {
			return err
		}
		for _, li := range lits {
			unit := NewClause(li.Negate())
			s.addClause(unit, Split(unit, ":notOr", li.Negate()))
		}
		return nil
	}
	lit, err := s.toLiteral(normal)
	if err != nil {
		return err
	}
	cl := NewClause(lit)
	s.addClause(cl, Asserted(cl))
	return nil
}

// orLiterals flattens t (an "or" term, possibly nested) into its disjuncts'
// literals, Tseitinizing any non-literal disjunct.
func (s *Solver) orLiterals(t *Term, out []*Literal) ([]*Literal, error) {
	for _, a := range t.Args {
		if a.Symbol == "or" {
			var err error
			out, err = s.orLiterals(a, out)
			if err != nil {
				return nil, err
			}
			continue
		}
		lit, err := s.toLiteral(a)
		if err != nil {
			return nil, err
		}
		out = append(out, lit)
	}
	return out, nil
}

// toLiteral converts a Bool-sorted term into a single Literal, introducing
// Tseitin definitional clauses (over a fresh AtomPred naming the subterm)
// for the "or" and "ite" cases so the definition itself is available to
// the search once the named atom is decided or propagated.
func (s *Solver) toLiteral(t *Term) (*Literal, error) {
	if t.Symbol == "not" && len(t.Args) == 1 {
		inner, err := s.toLiteral(t.Args[0])
		if err != nil {
			return nil, err
		}
		return inner.Negate(), nil
	}
	if t.IsBool != nil {
		return &Literal{Atom: s.trueAtom, Polarity: *t.IsBool}, nil
	}
	if t.Symbol == "=" && len(t.Args) == 2 {
		return s.eqLiteral(t), nil
	}
	if t.Symbol == "or" {
		return s.tseitinOr(t)
	}
	if t.Symbol == "ite" && t.Sort == SortBool && len(t.Args) == 3 {
		return s.tseitinIte(t)
	}
	if len(t.Args) > 0 {
		s.theory.RegisterApplication(t)
	}
	return &Literal{Atom: s.theory.InternPredAtom(t), Polarity: true}, nil
}

// eqLiteral builds the literal for a binary "=" term: an arithmetic
// equality atom when both sides are numeric, otherwise an uninterpreted
// (congruence-closure) equality atom.
func (s *Solver) eqLiteral(t *Term) *Literal {
	a, b := t.Args[0], t.Args[1]
	if a.Sort == SortInt || a.Sort == SortReal {
		diff := s.compiler.affineFromTerm(a).Sub(s.compiler.affineFromTerm(b))
		atom := s.theory.InternEqAtom(diff, a.Sort == SortInt)
		return &Literal{Atom: atom, Polarity: true}
	}
	if len(a.Args) > 0 {
		s.theory.RegisterApplication(a)
	}
	if len(b.Args) > 0 {
		s.theory.RegisterApplication(b)
	}
	atom := s.theory.InternCCEqAtom(a, b)
	return &Literal{Atom: atom, Polarity: true}
}

// tseitinOr names t with a fresh predicate atom p and, the first time t is
// seen, adds the pair of defining clauses matching the :or+/:or- tautology
// schemas: (not p) or l1 .. ln, and for each li, p or (not li).
func (s *Solver) tseitinOr(t *Term) (*Literal, error) {
	p := s.theory.InternPredAtom(t)
	pLit := &Literal{Atom: p, Polarity: true}
	if s.defined[p] {
		return pLit, nil
	}
	s.defined[p] = true
	lits, err := s.orLiterals(t, nil)
	if err != nil {
		return nil, err
	}
	plus := append([]*Literal{pLit.Negate()}, lits...)
	plusClause := NewClause(plus...)
	s.addClause(plusClause, Tautology(plusClause, ":or+"))
	for _, li := range lits {
		minusClause := NewClause(pLit, li.Negate())
		s.addClause(minusClause, Tautology(minusClause, ":or-"))
	}
	return pLit, nil
}

// tseitinIte names a Boolean-sorted (ite c t e) with a fresh predicate atom
// p and, the first time it is seen, adds the standard 4-clause ITE gate
// encoding (p <-> (c implies t) and (not c implies e)), reusing the
// existing :ite+1/:ite+2/:ite-1/:ite-2 schema names.
func (s *Solver) tseitinIte(term *Term) (*Literal, error) {
	p := s.theory.InternPredAtom(term)
	pLit := &Literal{Atom: p, Polarity: true}
	if s.defined[p] {
		return pLit, nil
	}
	s.defined[p] = true
	c, err := s.toLiteral(term.Args[0])
	if err != nil {
		return nil, err
	}
	thenLit, err := s.toLiteral(term.Args[1])
	if err != nil {
		return nil, err
	}
	elseLit, err := s.toLiteral(term.Args[2])
	if err != nil {
		return nil, err
	}
	cl1 := NewClause(pLit.Negate(), c.Negate(), thenLit)
	s.addClause(cl1, Tautology(cl1, ":ite+1"))
	cl2 := NewClause(pLit.Negate(), c, elseLit)
	s.addClause(cl2, Tautology(cl2, ":ite+2"))
	cl3 := NewClause(pLit, c.Negate(), thenLit.Negate())
	s.addClause(cl3, Tautology(cl3, ":ite-1"))
	cl4 := NewClause(pLit, c, elseLit.Negate())
	s.addClause(cl4, Tautology(cl4, ":ite-2"))
	return pLit, nil
}

// Push opens a new scope over the asserted clause set: a matching Pop(1)
// discards every clause asserted since.
func (s *Solver) Push() {
	s.clauseMarks = append(s.clauseMarks, len(s.clauses))
	s.assertedMarks = append(s.assertedMarks, len(s.assertedLits))
}

// Pop discards n clause-assertion scopes opened by Push.
func (s *Solver) Pop(n int) {
	for i := 0; i < n; i++ {
		if len(s.clauseMarks) == 0 {
			break
		}
		m := s.clauseMarks[len(s.clauseMarks)-1]
		s.clauseMarks = s.clauseMarks[:len(s.clauseMarks)-1]
		s.clauses = s.clauses[:m]
		am := s.assertedMarks[len(s.assertedMarks)-1]
		s.assertedMarks = s.assertedMarks[:len(s.assertedMarks)-1]
		s.assertedLits = s.assertedLits[:am]
	}
}

// CheckSat runs the Boolean search over the solver's current clause set,
// consulting the theory for linear-arithmetic and congruence-closure
// consistency at every node.
func (s *Solver) CheckSat() (Result, error) {
	s.assigned = make(map[*Atom]*assignment)
	s.trail = nil
	s.pendingConflict = nil
	s.abortErr = nil
	s.proof = nil
	// Undo every theory level the previous search left open (after a Sat
	// result its decisions stay live for GetModel until this point).
	s.theory.Pop(len(s.theory.levelMarks))
	s.theory.Push()

	sat, proof, err := s.solve()
	if err != nil {
		s.result = Unknown
		return Unknown, err
	}
	if sat {
		s.result = Sat
		return Sat, nil
	}
	s.result = Unsat
	if s.cfg.ProduceProofs || s.cfg.ProduceUnsatCores {
		s.proof = proof
	}
	if s.cfg.ProduceProofs {
		if s.cfg.ProofCheckMode {
			chk := NewChecker()
			if !chk.Check(proof) {
				s.cfg.Logger.Error("proof failed self-check", "errors", chk.Errors())
				return Unknown, &InternalError{Msg: fmt.Sprintf("proof failed self-check: %v", chk.Errors())}
			}
			s.cfg.Logger.Debug("proof self-check passed")
		}
	}
	return Unsat, nil
}

// solve is the recursive DPLL search. It returns (true, nil, nil) on a
// satisfying assignment (left live in s.assigned/s.theory for GetModel), or
// (false, proof, nil) with proof refuting the clauses and theory facts
// active at this search node, expressed purely over decision literals made
// above this node (every propagated or theory-derived literal has already
// been resolved away against its antecedent).
func (s *Solver) solve() (bool, *ProofTerm, error) {
	conflict, err := s.propagate()
	if err != nil {
		return false, nil, err
	}
	if conflict != nil {
		return false, conflict, nil
	}

	lit, ok := s.pickUnassigned()
	if !ok {
		return true, nil, nil
	}

	mark := s.mark()
	s.decide(lit)
	satT, proofT, err := s.solve()
	if err != nil {
		return false, nil, err
	}
	if satT {
		return true, nil, nil
	}
	s.undoTo(mark)

	s.decide(lit.Negate())
	satF, proofF, err := s.solve()
	if err != nil {
		return false, nil, err
	}
	if satF {
		return true, nil, nil
	}
	s.undoTo(mark)

	combined := Res(proofT, Pivot{Proof: proofF, Arg: lit})
	return false, combined, nil
}

type searchMark struct {
	trailLen int
}

func (s *Solver) mark() searchMark { return searchMark{trailLen: len(s.trail)} }

func (s *Solver) undoTo(m searchMark) {
	for len(s.trail) > m.trailLen {
		lit := s.trail[len(s.trail)-1]
		s.trail = s.trail[:len(s.trail)-1]
		delete(s.assigned, lit.Atom)
	}
	s.theory.Pop(1)
}

// decide assigns lit as a fresh decision, opening a new theory level first
// so undoTo's matching Pop(1) retracts exactly this decision's effects.
func (s *Solver) decide(lit *Literal) {
	s.theory.Push()
	s.assign(lit, nil)
	if cp, err := s.assertToTheory(lit); err != nil {
		s.abortErr = err
	} else if cp != nil {
		s.pendingConflict = cp
	}
}

func (s *Solver) assign(lit *Literal, antecedent *ProofTerm) {
	s.assigned[lit.Atom] = &assignment{lit: lit, antecedent: antecedent}
	s.trail = append(s.trail, lit)
}

// assertToTheory installs lit's effect on the theory, converting the one
// immediate-contradiction case AssertLiteral can raise for a disequality
// against an already-merged congruence class into a proof of the forced
// equality instead of a bare error.
func (s *Solver) assertToTheory(lit *Literal) (*ProofTerm, error) {
	err := s.theory.AssertLiteral(lit)
	if err == nil {
		return nil, nil
	}
	if _, ok := err.(*UsageError); ok && lit.Atom.Kind == AtomCCEq && !lit.Polarity {
		a := lit.Atom
		if s.theory.CC().Equal(a.Term1, a.Term2) {
			path := s.theory.CC().ExplainPath(a.Term1, a.Term2)
			forced := NewClause(&Literal{Atom: a, Polarity: true})
			return CCLemma(forced, ":CC", path), nil
		}
	}
	return nil, err
}

// propagate runs Boolean unit propagation to a fixpoint, installing every
// propagated literal's effect on the theory as it goes, then checks the
// theory itself once the Boolean layer has settled. It returns a conflict
// proof already reduced to decision literals only, or nil if the current
// partial assignment is consistent so far.
func (s *Solver) propagate() (*ProofTerm, error) {
	for {
		if s.abortErr != nil {
			err := s.abortErr
			s.abortErr = nil
			return nil, err
		}
		if s.pendingConflict != nil {
			cp := s.pendingConflict
			s.pendingConflict = nil
			return s.resolveAwayPropagated(cp), nil
		}

		progressed := false
		for _, cr := range s.clauses {
			lit, antecedent, conflict := s.evalClause(cr)
			if conflict != nil {
				return s.resolveAwayPropagated(conflict), nil
			}
			if lit == nil {
				continue
			}
			s.assign(lit, antecedent)
			if cp, err := s.assertToTheory(lit); err != nil {
				return nil, err
			} else if cp != nil {
				return s.resolveAwayPropagated(cp), nil
			}
			progressed = true
		}
		if !progressed {
			break
		}
	}

	conf, err := s.theory.CheckPoint()
	if err != nil {
		return nil, err
	}
	if conf != nil {
		return s.resolveAwayPropagated(LAFarkasLemma(conf.Clause, conf.Coeffs)), nil
	}
	return nil, nil
}

// evalClause reports a clause's current status: (forced literal, its
// antecedent) if exactly one literal is unassigned and the rest are false;
// (nil, nil, conflict proof) if every literal is false; (nil, nil, nil)
// otherwise (already satisfied, or not yet unit).
func (s *Solver) evalClause(cr clauseRecord) (*Literal, *ProofTerm, *ProofTerm) {
	var unassigned *Literal
	count := 0
	for _, l := range cr.clause.Literals {
		asn, ok := s.assigned[l.Atom]
		if !ok {
			count++
			unassigned = l
			continue
		}
		if asn.lit.Polarity == l.Polarity {
			return nil, nil, nil
		}
	}
	if count == 0 {
		return nil, nil, cr.proof
	}
	if count == 1 {
		return unassigned, cr.proof, nil
	}
	return nil, nil, nil
}

// resolveAwayPropagated repeatedly resolves p against the antecedent of
// any propagated (non-decision) literal appearing in its clause, until
// only decision literals remain.
func (s *Solver) resolveAwayPropagated(p *ProofTerm) *ProofTerm {
	for {
		changed := false
		for _, l := range p.ProvedClause.Literals {
			asn, ok := s.assigned[l.Atom]
			if !ok || asn.lit.Polarity == l.Polarity {
				continue
			}
			if asn.antecedent == nil {
				continue
			}
			p = Res(p, Pivot{Proof: asn.antecedent, Arg: asn.lit})
			changed = true
			break
		}
		if !changed {
			return p
		}
	}
}

// pickUnassigned returns an unassigned literal from the first not-yet-
// satisfied clause, or false if every clause is already satisfied.
func (s *Solver) pickUnassigned() (*Literal, bool) {
	for _, cr := range s.clauses {
		satisfied := false
		var candidate *Literal
		for _, l := range cr.clause.Literals {
			asn, ok := s.assigned[l.Atom]
			if !ok {
				if candidate == nil {
					candidate = l
				}
				continue
			}
			if asn.lit.Polarity == l.Polarity {
				satisfied = true
				break
			}
		}
		if !satisfied && candidate != nil {
			return candidate, true
		}
	}
	return nil, false
}

// GetProof returns the refutation produced by the last Unsat CheckSat call.
func (s *Solver) GetProof() (*ProofTerm, error) {
	if s.result != Unsat {
		return nil, &UsageError{Msg: "GetProof requires a prior Unsat result"}
	}
	if !s.cfg.ProduceProofs {
		return nil, &UsageError{Msg: "GetProof requires Config.ProduceProofs"}
	}
	return s.proof, nil
}

// GetModel reads back the satisfying assignment from the last Sat CheckSat
// call: arithmetic variable values from the tableau (keyed by the surface
// term the compiler recorded for each), and predicate truth values from the
// theory's atom-truth table.
func (s *Solver) GetModel() (*Model, error) {
	if s.result != Sat {
		return nil, &UsageError{Msg: "GetModel requires a prior Sat result"}
	}
	if !s.cfg.ProduceModels {
		return nil, &UsageError{Msg: "GetModel requires Config.ProduceModels"}
	}
	m := &Model{Ints: make(map[*Term]Rational), Reals: make(map[*Term]Rational), Bools: make(map[*Term]bool)}
	for id, t := range s.compiler.VarOf() {
		v := s.theory.Tableau().Var(id)
		if v == nil {
			continue
		}
		if v.IsInt() {
			m.Ints[t] = v.Value().A
		} else {
			m.Reals[t] = v.Value().A
		}
	}
	for a, truth := range s.theory.AtomTruth() {
		if a.Kind == AtomPred && a.Term1 != nil && a != s.trueAtom {
			m.Bools[a.Term1] = truth
		}
	}
	return m, nil
}

// UnsatCore walks the last refutation's asserted/split leaves, returning
// the literals it traces back to an original assertion. A Gomory cut's
// internal axiomLiteral sentinel (dpll.go) is dropped if it appears, since
// it names no caller-visible assertion.
func (s *Solver) UnsatCore() ([]*Literal, error) {
	if s.result != Unsat {
		return nil, &UsageError{Msg: "UnsatCore requires a prior Unsat result"}
	}
	if !s.cfg.ProduceUnsatCores {
		return nil, &UsageError{Msg: "UnsatCore requires Config.ProduceUnsatCores"}
	}
	seen := make(map[*ProofTerm]bool)
	var core []*Literal
	add := func(lits []*Literal) {
		for _, l := range lits {
			if l.Atom == axiomLiteral.Atom {
				continue
			}
			core = append(core, l)
		}
	}
	var walk func(p *ProofTerm)
	walk = func(p *ProofTerm) {
		if p == nil || seen[p] {
			return
		}
		seen[p] = true
		switch p.Kind {
		case PAsserted:
			add(p.ProvedClause.Literals)
			return
		case PSplit:
			if p.RuleName == ":notOr" {
				add([]*Literal{p.SplitTarget})
				return
			}
		}
		for _, a := range p.Args {
			walk(a)
		}
		for _, pv := range p.Pivots {
			walk(pv.Proof)
		}
	}
	walk(s.proof)
	return core, nil
}
