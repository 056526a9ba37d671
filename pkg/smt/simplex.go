package smt

// BlandUseFactor is the multiplier from §4.1: once the tableau has made
// more than BlandUseFactor times its variable count pivots without the
// out-of-bounds set clearing, the pivot selector switches from the
// heuristic to Bland's anti-cycling rule.
const BlandUseFactor = 3

// Conflict is the result of a failed repair: the set of literals (with
// Farkas coefficients) whose negation forms the unsat clause, per §4.1
// "Conflict generation".
type Conflict struct {
	Clause      *Clause
	Coeffs      map[*Literal]Rational
	StrictFound bool
}

// SimplexEngine runs the dual-simplex repair loop over a Tableau. It holds
// no state of its own beyond a logger and the out-of-bounds work queue —
// everything persistent (values, bounds, rows) lives on the Tableau and its
// LinVars, per §5's "all state is owned by the solver instance".
type SimplexEngine struct {
	Tableau   *Tableau
	logger    Logger
	outOfBounds map[int]bool
	order       []int // FIFO-ish order for deterministic out-of-bounds processing
}

// NewSimplexEngine returns a driver over t.
func NewSimplexEngine(t *Tableau, logger Logger) *SimplexEngine {
	return &SimplexEngine{Tableau: t, logger: logger, outOfBounds: make(map[int]bool)}
}

// MarkOutOfBounds enqueues v for repair; called whenever a bound tightens
// past v's current value, or a pivot/value-update moves a basic variable
// outside its bounds.
func (s *SimplexEngine) MarkOutOfBounds(v *LinVar) {
	if v.InBounds() {
		return
	}
	if !s.outOfBounds[v.id] {
		s.outOfBounds[v.id] = true
		s.order = append(s.order, v.id)
	}
}

func (s *SimplexEngine) popOutOfBounds() (*LinVar, bool) {
	for len(s.order) > 0 {
		id := s.order[0]
		s.order = s.order[1:]
		if s.outOfBounds[id] {
			delete(s.outOfBounds, id)
			v := s.Tableau.Var(id)
			if v != nil && v.isBasic && !v.InBounds() {
				return v, true
			}
		}
	}
	return nil, false
}

// CheckPoint repairs the tableau until either every basic variable is
// within bounds or a conflict is found, matching the DPLL integration
// layer's check_point contract (§4.3).
func (s *SimplexEngine) CheckPoint(terminate func() bool) (*Conflict, error) {
	for {
		if terminate != nil && terminate() {
			return nil, &ResourceError{Reason: "step budget exhausted during simplex repair"}
		}
		v, ok := s.popOutOfBounds()
		if !ok {
			s.Tableau.pivots = 0
			for _, id := range s.Tableau.order {
				cand := s.Tableau.Var(id)
				debugAssert(!cand.isBasic || cand.InBounds(),
					"out-of-bounds variable %d missing from the repair queue", id)
			}
			return nil, nil
		}
		if conf := s.fixRow(v); conf != nil {
			// Re-enqueue v so the next checkpoint call resumes it; any other
			// out-of-bounds rows are still in the queue (§5 "Ordering
			// guarantees": single conflict at a time, the rest go back into
			// propBounds).
			s.MarkOutOfBounds(v)
			return conf, nil
		}
	}
}

// fixRow repairs a single out-of-bounds basic variable, implementing
// §4.1's fix_out_of_bounds for one row. Returns a non-nil Conflict if no
// column in the row can absorb the needed slack.
func (s *SimplexEngine) fixRow(b *LinVar) *Conflict {
	for {
		var dirUp bool
		var target InfinitNumber
		switch {
		case b.value.Less(b.Lower()):
			dirUp, target = true, b.Lower()
		case b.value.Greater(b.Upper()):
			dirUp, target = false, b.Upper()
		default:
			return nil
		}
		diff := target.Sub(b.value)

		n, c := s.selectPivotCandidate(b, diff)
		if n == nil {
			s.logger.Debug("no pivot candidate absorbs the needed slack, building conflict", "basic", b.id, "violated_upper", dirUp)
			return s.buildConflict(b, dirUp)
		}

		deltaN := diff.MulRational(RationalFromInt64(1).Div(c))
		var room InfinitNumber
		if deltaN.Signum() > 0 {
			room = n.Upper().Sub(n.value)
		} else {
			room = n.value.Sub(n.Lower())
		}

		if deltaN.Abs().LessEq(room) {
			s.logger.Trace("pivot selected", "basic", b.id, "entering", n.id, "bland", s.Tableau.pivots > BlandUseFactor*len(s.Tableau.vars))
			s.Tableau.UpdateNonBasicValue(n, n.value.Add(deltaN))
			s.Tableau.Pivot(b.id, n.id)
			for _, id := range s.Tableau.order {
				v := s.Tableau.Var(id)
				if v.isBasic {
					s.MarkOutOfBounds(v)
				}
			}
			return nil
		}

		var limit InfinitNumber
		if deltaN.Signum() > 0 {
			limit = n.Upper()
		} else {
			limit = n.Lower()
		}
		s.Tableau.UpdateNonBasicValue(n, limit)
		for _, id := range s.Tableau.order {
			v := s.Tableau.Var(id)
			if v.isBasic {
				s.MarkOutOfBounds(v)
			}
		}
	}
}

// selectPivotCandidate scans b's row for a non-basic column that can absorb
// part or all of diff. The heuristic strategy prefers an unbounded-side
// candidate and the shortest reason chain; once the tableau has pivoted
// BlandUseFactor*|vars| times without success, Bland's rule (smallest id)
// takes over to guarantee termination.
func (s *SimplexEngine) selectPivotCandidate(b *LinVar, diff InfinitNumber) (*LinVar, Rational) {
	row := s.Tableau.Row(b.id)
	if row == nil {
		return nil, Rational{}
	}
	useBland := s.Tableau.pivots > BlandUseFactor*len(s.Tableau.vars)

	var best *LinVar
	var bestCoeff Rational
	bestScore := -1

	for _, col := range row.Cols() {
		c := row.Coeff(col)
		n := s.Tableau.Var(col)
		deltaSign := diff.Signum() * c.Signum()
		var eligible bool
		var chainLen int
		if deltaSign > 0 {
			eligible = n.Upper().Greater(n.value)
			chainLen = chainLength(n.upperReason)
		} else {
			eligible = n.Lower().Less(n.value)
			chainLen = chainLength(n.lowerReason)
		}
		if !eligible {
			continue
		}
		if useBland {
			return n, c
		}
		score := 0
		if deltaSign > 0 && n.Upper().IsInfinite() {
			score += 1000
		}
		if deltaSign < 0 && n.Lower().IsInfinite() {
			score += 1000
		}
		score -= chainLen
		if best == nil || score > bestScore {
			best, bestCoeff, bestScore = n, c, score
		}
	}
	return best, bestCoeff
}

func chainLength(r *LAReason) int {
	n := 0
	for r != nil {
		n++
		r = r.Older
	}
	return n
}

// buildConflict produces the Farkas certificate for b's infeasibility: the
// composite (or literal) bound on the violated side, explained down to its
// literal leaves, combined with the bound on the opposing side that b
// itself carries.
func (s *SimplexEngine) buildConflict(b *LinVar, violatedUpper bool) *Conflict {
	exp := NewFarkasExplainer()
	strict := false

	var violated, opposing *LAReason
	if violatedUpper {
		violated = b.upperReason
		opposing = b.lowerReason
	} else {
		violated = b.lowerReason
		opposing = b.upperReason
	}

	// The violated side is witnessed by the row's composite bound (the
	// CompositeBound computed from column supporting bounds); explain it
	// with coefficient 1. The opposing, asserted side is b's own reason,
	// explained with coefficient 1 as well — together they witness
	// Lower(b) > Upper(b) (or vice versa), an immediate Farkas refutation.
	if row := s.Tableau.Row(b.id); row != nil {
		for _, col := range row.Cols() {
			c := row.Coeff(col)
			n := s.Tableau.Var(col)
			var r *LAReason
			useUpper := (c.Signum() > 0) == violatedUpper
			if useUpper {
				r = n.upperReason
			} else {
				r = n.lowerReason
			}
			Explain(exp, r, c)
			if r != nil && r.Bound.Eps != 0 {
				strict = true
			}
		}
	}
	Explain(exp, opposing, RationalFromInt64(1))
	if opposing != nil && opposing.Bound.Eps != 0 {
		strict = true
	}
	_ = violated

	lits := make([]*Literal, 0, len(exp.Coeffs))
	coeffs := make(map[*Literal]Rational, len(exp.Coeffs))
	for lit, coeff := range exp.Coeffs {
		neg := lit.Negate()
		lits = append(lits, neg)
		coeffs[lit] = coeff
	}
	return &Conflict{Clause: NewClause(lits...), Coeffs: coeffs, StrictFound: strict}
}
