package smt

import "fmt"

// Checker independently re-verifies a proof term produced by this package's
// solver, walking it once and memoizing each node's proved formula (§4.5).
// It never trusts the producer's bookkeeping: every rule recomputes its
// consequence from its arguments and compares against what the proof term
// claims.
type Checker struct {
	errors   []string
	warnings []string
	visited  map[*ProofTerm]bool
}

// NewChecker returns an empty checker.
func NewChecker() *Checker {
	return &Checker{visited: make(map[*ProofTerm]bool)}
}

// Errors returns every mismatch this checker has recorded so far, across
// all Check calls, in the order encountered.
func (c *Checker) Errors() []string { return c.errors }

// Warnings returns the non-fatal notes recorded so far (a resolution pivot
// missing from its accumulator); they do not make Check return false.
func (c *Checker) Warnings() []string { return c.warnings }

func (c *Checker) fail(format string, args ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

// Check walks p (and, transitively, its arguments), validating every rule
// application, and returns whether the whole proof checked out. A single
// bad rule does not stop the walk — every mismatch is recorded and
// checking continues, so one buggy rule does not mask further ones
// (§4.5 "Failure policy").
func (c *Checker) Check(p *ProofTerm) bool {
	before := len(c.errors)
	c.visit(p)
	return len(c.errors) == before
}

func (c *Checker) visit(p *ProofTerm) {
	if p == nil {
		c.fail("nil proof term")
		return
	}
	if c.visited[p] {
		return
	}
	c.visited[p] = true
	for _, a := range p.Args {
		c.visit(a)
	}

	switch p.Kind {
	case PRefl:
		if p.Eq[0] != p.Eq[1] {
			c.fail("refl: %s does not equal itself", p.Eq[0].String())
		}
	case PTrans:
		c.checkTrans(p)
	case PCong:
		c.checkCong(p)
	case PRewrite:
		if !checkRewrite(p.RuleName, p.Eq[0], p.Eq[1]) {
			c.fail("rewrite %s: %s -> %s does not match the rule", p.RuleName, p.Eq[0], p.Eq[1])
		}
	case PIntern:
		c.checkIntern(p)
	case PEqApply:
		c.checkEqApply(p)
	case PRes:
		c.checkRes(p)
	case PClause:
		c.checkClauseRestate(p)
	case PSplit:
		c.checkSplit(p)
	case PLemma:
		if !checkLemma(p) {
			c.fail("lemma %s: clause %s failed verification", p.RuleName, p.ProvedClause.String())
		}
	case PTautology:
		if !checkTautology(p.RuleName, p.ProvedClause) {
			c.fail("tautology %s: clause %s does not match the schema", p.RuleName, p.ProvedClause.String())
		}
	case PAsserted:
		// A leaf: nothing to recompute, the clause is definitionally what
		// was asserted.
	default:
		c.fail("unknown proof kind %v", p.Kind)
	}
}

func (c *Checker) checkTrans(p *ProofTerm) {
	if len(p.Args) == 0 {
		c.fail("trans: no arguments")
		return
	}
	for i := 1; i < len(p.Args); i++ {
		if p.Args[i-1].Eq[1] != p.Args[i].Eq[0] {
			c.fail("trans: step %d middle sides do not match (%s vs %s)", i, p.Args[i-1].Eq[1], p.Args[i].Eq[0])
		}
	}
	if p.Eq[0] != p.Args[0].Eq[0] || p.Eq[1] != p.Args[len(p.Args)-1].Eq[1] {
		c.fail("trans: result does not span the chain's first LHS to last RHS")
	}
}

func (c *Checker) checkCong(p *ProofTerm) {
	if len(p.Args) == 0 {
		c.fail("cong: no base argument")
		return
	}
	base := p.Args[0]
	if base.Eq[1] == nil || len(base.Eq[1].Args) == 0 {
		c.fail("cong: base does not prove an application")
		return
	}
	if p.Eq[0] != base.Eq[0] {
		c.fail("cong: result LHS does not match the base proof's LHS")
	}
	appliedTo := base.Eq[1]
	for _, rw := range p.Args[1:] {
		found := false
		for _, a := range appliedTo.Args {
			if a == rw.Eq[0] {
				found = true
				break
			}
		}
		if !found {
			c.fail("cong: argument rewrite LHS %s not present in %s", rw.Eq[0], appliedTo)
		}
	}
	if p.Eq[1] == nil || p.Eq[1].Symbol != appliedTo.Symbol || len(p.Eq[1].Args) != len(appliedTo.Args) {
		c.fail("cong: result is not an application of the same symbol/arity")
	}
}

// checkIntern validates an :intern step, which only ever fires from
// compileCompare: lhs is one of <,<=,>,>= and rhs is the "<=.0" internal
// atom form it normalizes to, wrapped in an outer "not" for the two
// strict directions (compileCompare never emits an equality atom here —
// that is compileEq's job, a plain Cong/Rewrite chain with no :intern
// step of its own).
func (c *Checker) checkIntern(p *ProofTerm) {
	lhs, rhs := p.Eq[0], p.Eq[1]
	if lhs == nil || rhs == nil {
		c.fail("intern: missing side")
		return
	}
	if lhs.Sort != SortBool {
		c.fail("intern: %s is not a Bool-sorted comparison", lhs)
		return
	}
	switch lhs.Symbol {
	case "<", ">", "<=", ">=":
	default:
		c.fail("intern: %s is not one of <,<=,>,>=", lhs)
		return
	}
	canonical := rhs
	strictDirection := lhs.Symbol == "<" || lhs.Symbol == ">"
	if canonical.Symbol == "not" {
		if !strictDirection {
			c.fail("intern: %s wraps the atom in not but %s is not a strict comparison", rhs, lhs.Symbol)
		}
		if len(canonical.Args) != 1 {
			c.fail("intern: %s is not a single-argument not", rhs)
			return
		}
		canonical = canonical.Args[0]
	} else if strictDirection {
		c.fail("intern: strict comparison %s must produce an outer not", lhs.Symbol)
	}
	if canonical.Sort != SortBool || canonical.Symbol != "<=" || len(canonical.Args) != 2 {
		c.fail("intern: %s is not a binary <= atom", canonical)
		return
	}
	diff, zero := canonical.Args[0], canonical.Args[1]
	if !isZeroLit(zero) {
		c.fail("intern: %s's right-hand side %s is not the zero literal", canonical, zero)
	}
	if diff.Symbol != "-" || len(diff.Args) != 2 {
		c.fail("intern: %s's left-hand side %s is not a subject-minus-threshold difference", canonical, diff)
	}
}

func (c *Checker) checkEqApply(p *ProofTerm) {
	if len(p.Args) != 2 {
		c.fail("eq: expected exactly two arguments")
		return
	}
	pf, eq := p.Args[0], p.Args[1]
	if pf.Eq[1] != eq.Eq[0] {
		c.fail("eq: equality LHS %s does not match the first argument's proved term %s", eq.Eq[0], pf.Eq[1])
	}
	if p.Eq[0] != pf.Eq[0] || p.Eq[1] != eq.Eq[1] {
		c.fail("eq: result does not carry forward the starting term to the new RHS")
	}
}

func (c *Checker) checkRes(p *ProofTerm) {
	if len(p.Args) == 0 {
		c.fail("res: no main clause")
		return
	}
	main := p.Args[0]
	acc := main.ProvedClause.LiteralSet()
	for _, pv := range p.Pivots {
		neg := pv.Arg.Negate()
		key := litKey{neg.Atom, neg.Polarity}
		if _, ok := acc[key]; !ok {
			c.warnings = append(c.warnings, fmt.Sprintf("res: warning: pivot %s not found in accumulator (benign duplicate tolerated)", pv.Arg))
		} else {
			delete(acc, key)
		}
		if !pv.Proof.ProvedClause.Contains(pv.Arg) {
			c.fail("res: pivot argument clause does not contain the pivot literal %s", pv.Arg)
			continue
		}
		for _, l := range pv.Proof.ProvedClause.Literals {
			if l.Atom == pv.Arg.Atom && l.Polarity == pv.Arg.Polarity {
				continue
			}
			acc[litKey{l.Atom, l.Polarity}] = l
		}
	}
	want := p.ProvedClause.LiteralSet()
	for k := range acc {
		if _, ok := want[k]; !ok {
			c.fail("res: recomputed resolvent contains an extra literal not in the declared clause")
		}
	}
	for k := range want {
		if _, ok := acc[k]; !ok {
			c.fail("res: declared clause contains a literal the recomputed resolvent does not")
		}
	}
}

func (c *Checker) checkClauseRestate(p *ProofTerm) {
	if len(p.Args) != 1 {
		c.fail("clause: expected exactly one argument")
		return
	}
	got := p.Args[0].ProvedClause.LiteralSet()
	want := p.ExpectedClause.LiteralSet()
	if len(got) != len(want) {
		c.fail("clause: literal-set sizes differ (duplicates or a mismatched count)")
		return
	}
	for k := range want {
		if _, ok := got[k]; !ok {
			c.fail("clause: expected literal missing from the proved clause")
		}
	}
}

// checkSplit validates a :split step. Every split rule produces a unit
// clause containing exactly its isolated literal; beyond that, each rule
// fixes the isolated literal's own shape:
//   - :notOr isolates one disjunct's negation out of a negated "or" — any
//     atom kind is valid here, since the isolated disjunct can be
//     anything the original "or" contained.
//   - :=+1/2/:=-1/2 split a binary equality atom into its two non-strict
//     bound halves (x<=y and x>=y).
//   - :ite+1/2/:ite-1/2 split an ite's guard into the true/false case.
func (c *Checker) checkSplit(p *ProofTerm) {
	if p.SplitTarget == nil {
		c.fail("split %s: no target literal", p.RuleName)
		return
	}
	if len(p.ProvedClause.Literals) != 1 || !p.ProvedClause.Contains(p.SplitTarget) {
		c.fail("split %s: result is not the unit clause of its own target literal", p.RuleName)
		return
	}
	t := p.SplitTarget
	switch p.RuleName {
	case ":notOr":
		// Any atom kind is a valid disjunct of the original "or".
	case ":=+1/2", ":=-1/2":
		if t.Atom.Kind != AtomBound || !t.Polarity || t.Atom.Strict {
			c.fail("split %s: target is not a positive non-strict bound", p.RuleName)
			return
		}
		wantUpper := p.RuleName == ":=+1/2"
		if t.Atom.Upper != wantUpper {
			c.fail("split %s: target bound direction does not match the equality half it isolates", p.RuleName)
		}
	case ":ite+1/2", ":ite-1/2":
		if t.Atom.Kind != AtomPred || t.Atom.Term1 == nil || t.Atom.Term1.Symbol != "ite" || len(t.Atom.Term1.Args) != 3 {
			c.fail("split %s: target is not an ite guard predicate", p.RuleName)
			return
		}
		wantPolarity := p.RuleName == ":ite+1/2"
		if t.Polarity != wantPolarity {
			c.fail("split %s: target polarity does not match the case it isolates", p.RuleName)
		}
	default:
		c.fail("split: unknown split rule %s", p.RuleName)
	}
}
