package smt

// FreedomInterval computes the range of values a non-basic variable v could
// take without pushing any dependent basic row out of its current bounds
// (§4.1 "a non-empty freedom interval computed from dependent basic
// bounds"). The interval is always non-empty since it contains v's current
// value.
func (t *Tableau) FreedomInterval(v *LinVar) (InfinitNumber, InfinitNumber) {
	lo, hi := v.Lower(), v.Upper()
	for _, bID := range t.BasicVars() {
		row := t.Row(bID)
		c := row.Coeff(v.id)
		if c.IsZero() {
			continue
		}
		b := t.Var(bID)
		inv := RationalFromInt64(1).Div(c)
		d1 := b.Upper().Sub(b.value).MulRational(inv)
		d2 := b.Lower().Sub(b.value).MulRational(inv)
		deltaHi, deltaLo := d1, d2
		if deltaLo.Greater(deltaHi) {
			deltaLo, deltaHi = deltaHi, deltaLo
		}
		candLo := v.value.Add(deltaLo)
		candHi := v.value.Add(deltaHi)
		if candLo.Greater(lo) {
			lo = candLo
		}
		if candHi.Less(hi) {
			hi = candHi
		}
	}
	return lo, hi
}

// maxMutateIntegerScan bounds how many candidate integer points RepairVar
// will try within a freedom interval, so a huge interval (effectively
// unbounded) cannot turn one repair attempt into an unbounded scan.
const maxMutateIntegerScan = 64

// RepairVar attempts to move v to an alternative value within its freedom
// interval that differs from its current value, avoids every disequality
// recorded on v, and for which wouldMergeClasses (when non-nil) returns
// false — i.e. it returns the first candidate accepted by all three
// filters. Returns false if no such candidate exists.
//
// This is the "mutate" repair pass from §4.1: invoked after the continuous
// problem is satisfied, for every shared variable that currently aliases
// another shared variable's value without the uninterpreted-functions
// theory having equated them.
func (t *Tableau) RepairVar(v *LinVar, wouldMergeClasses func(candidate Rational) bool) (Rational, bool) {
	lo, hi := t.FreedomInterval(v)
	if lo.Equal(hi) {
		return Rational{}, false
	}

	accept := func(cand Rational) bool {
		if cand.Equal(v.value.A) {
			return false
		}
		for _, d := range v.disequalities {
			if d.Equal(cand) {
				return false
			}
		}
		if wouldMergeClasses != nil && wouldMergeClasses(cand) {
			return false
		}
		return true
	}

	if v.IsInt() {
		start := lo.A.Ceil()
		end := hi.A.Floor()
		if lo.Eps > 0 && start.Equal(lo.A) {
			start = start.Add(RationalFromInt64(1))
		}
		if hi.Eps < 0 && end.Equal(hi.A) {
			end = end.Sub(RationalFromInt64(1))
		}
		for i, cand := 0, start; cand.LessEq(end) && i < maxMutateIntegerScan; i, cand = i+1, cand.Add(RationalFromInt64(1)) {
			if accept(cand) {
				t.UpdateNonBasicValue(v, InfNumRational(cand))
				return cand, true
			}
		}
		return Rational{}, false
	}

	candidates := []Rational{}
	if !lo.IsInfinite() && lo.Eps <= 0 {
		candidates = append(candidates, lo.A)
	}
	if !hi.IsInfinite() && hi.Eps >= 0 {
		candidates = append(candidates, hi.A)
	}
	if !lo.IsInfinite() && !hi.IsInfinite() {
		mid := lo.A.Add(hi.A).Div(RationalFromInt64(2))
		candidates = append(candidates, mid)
	} else if !lo.IsInfinite() {
		candidates = append(candidates, lo.A.Add(RationalFromInt64(1)))
	} else if !hi.IsInfinite() {
		candidates = append(candidates, hi.A.Sub(RationalFromInt64(1)))
	}

	for _, cand := range candidates {
		if accept(cand) {
			t.UpdateNonBasicValue(v, InfNumRational(cand))
			return cand, true
		}
	}
	return Rational{}, false
}

// SharedValueCollisions scans shared (registered as relevant to the
// uninterpreted-functions theory) variables for pairs that currently hold
// equal values without an existing CC-theory equality. Callers drive the
// repair loop: for each collision, try RepairVar on one side; if neither
// side has freedom, the collision is reported to the DPLL layer as a
// suggestion to merge the two congruence classes instead (§4.1
// get_suggestion / §4.3).
func SharedValueCollisions(shared []*LinVar, equated func(a, b *LinVar) bool) [][2]*LinVar {
	var out [][2]*LinVar
	for i := 0; i < len(shared); i++ {
		for j := i + 1; j < len(shared); j++ {
			a, b := shared[i], shared[j]
			if a.value.Equal(b.value) && !equated(a, b) {
				out = append(out, [2]*LinVar{a, b})
			}
		}
	}
	return out
}
