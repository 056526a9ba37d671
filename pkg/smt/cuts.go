package smt

// GomoryCut is a generated integer cut: a fresh affine term (over the
// original tableau variables) that every integer solution of the problem
// satisfies as ">= 0" (its constant is minus the cut's right-hand side),
// together with the row it was derived from.
type GomoryCut struct {
	Row    int // the basic variable whose fractional value triggered the cut
	Expr   *AffineTerm
	Source *LinVar
}

// GenerateCuts scans the tableau for basic integer variables with a
// fractional current value and produces up to maxCuts Gomory mixed-integer
// cuts (§4.1 "Integer cuts"). Each cut is the classic Marchand-Wolsey
// mixed-integer rounding cut built from the row expressed in terms of the
// current bound each column sits at.
func GenerateCuts(t *Tableau, maxCuts int, terminate func() bool) []GomoryCut {
	var cuts []GomoryCut
	for _, id := range t.order {
		if len(cuts) >= maxCuts {
			break
		}
		if terminate != nil && terminate() {
			break
		}
		v := t.Var(id)
		if v == nil || !v.isBasic || !v.IsInt() {
			continue
		}
		if v.value.Eps != 0 || v.value.A.IsInteger() {
			continue
		}
		if cut, ok := gomoryCutForRow(t, v); ok {
			cuts = append(cuts, cut)
		}
	}
	return cuts
}

func gomoryCutForRow(t *Tableau, b *LinVar) (GomoryCut, bool) {
	row := t.Row(b.id)
	if row == nil {
		return GomoryCut{}, false
	}
	f0 := b.value.A.Frac()
	if f0.IsZero() {
		return GomoryCut{}, false
	}

	cut := NewAffineTerm()
	rhs := RationalFromInt64(1)

	for _, col := range row.Cols() {
		c := row.Coeff(col)
		x := t.Var(col)

		atLower := true
		var boundVal Rational
		switch {
		case x.value.Equal(x.Lower()):
			atLower, boundVal = true, x.Lower().A
		case x.value.Equal(x.Upper()):
			atLower, boundVal = false, x.Upper().A
		default:
			// Column isn't pinned to either bound (shouldn't happen at a
			// vertex); skip generating a cut off this row rather than
			// produce an unsound one.
			return GomoryCut{}, false
		}

		// In b - sum(c*x_col) = 0 rewritten over y_col, the GMI row entry
		// is -c for a column at its lower bound and c at its upper bound.
		d := c.Neg()
		if !atLower {
			d = c
		}

		var coeff Rational
		if x.IsInt() {
			fi := fracOfSigned(d)
			if fi.LessEq(f0) {
				coeff = fi.Div(f0)
			} else {
				coeff = RationalFromInt64(1).Sub(fi).Div(RationalFromInt64(1).Sub(f0))
			}
		} else {
			if d.Signum() >= 0 {
				coeff = d.Div(f0)
			} else {
				coeff = d.Neg().Div(RationalFromInt64(1).Sub(f0))
			}
		}
		if coeff.IsZero() {
			continue
		}

		// y_col = +(x_col - bound) if atLower, -(x_col - bound) if atUpper;
		// substitute back into terms of the original x_col.
		if atLower {
			cut.AddTerm(col, coeff)
			rhs = rhs.Add(coeff.Mul(boundVal))
		} else {
			cut.AddTerm(col, coeff.Neg())
			rhs = rhs.Sub(coeff.Mul(boundVal))
		}
	}
	if cut.IsConstant() {
		return GomoryCut{}, false
	}
	cut.AddConstant(rhs.Neg())
	return GomoryCut{Row: b.id, Expr: cut, Source: b}, true
}

// fracOfSigned returns the fractional part of r (as Frac does) treating r
// as possibly negative, matching the standard GMI rounding convention
// frac(r) = r - floor(r) in [0,1).
func fracOfSigned(r Rational) Rational { return r.Frac() }
