package smt

import "sort"

// Row is the sparse representation of a basic variable's defining equation
// b = sum(coeffs[col] * col) over its current non-basic columns. Rows are
// kept with rational coefficients rather than the teacher's doubly-linked
// integer cells (§9 notes the source's cyclic object graph is reimplemented
// here as index handles instead); IntegerForm recovers the gcd-normalized
// integer row of the data model on request (no other code in this package
// calls it).
type Row struct {
	coeffs map[int]Rational
}

func newRow() *Row { return &Row{coeffs: make(map[int]Rational)} }

// Coeff returns the coefficient of col in the row, or zero.
func (r *Row) Coeff(col int) Rational {
	if c, ok := r.coeffs[col]; ok {
		return c
	}
	return RationalZero()
}

func (r *Row) setCoeff(col int, c Rational) {
	if c.IsZero() {
		delete(r.coeffs, col)
		return
	}
	r.coeffs[col] = c
}

// Cols returns the row's non-zero column identifiers in ascending order.
func (r *Row) Cols() []int {
	cs := make([]int, 0, len(r.coeffs))
	for c := range r.coeffs {
		cs = append(cs, c)
	}
	sort.Ints(cs)
	return cs
}

// IntegerForm returns the row as an integer-coefficient AffineTerm
// (the -1*b + sum(coeffs) == 0 form) together with the rational scale that
// recovers the original row. The sign follows GcdNormalize (integers in
// lowest terms, leading coefficient positive), so c_b is not necessarily
// negative.
func (r *Row) IntegerForm(basicID int) (*AffineTerm, Rational) {
	a := NewAffineTerm()
	a.AddTerm(basicID, RationalFromInt64(-1))
	for col, c := range r.coeffs {
		a.AddTerm(col, c)
	}
	return a.GcdNormalize()
}

// Tableau owns every LinVar in the current session along with the sparse
// row matrix for the basic ones. A Tableau belongs to exactly one Solver.
// Variables and rows are never removed: Theory.Pop (see dpll.go) retracts
// bound reasons only, so variables created above a popped level stay in
// the tableau.
type Tableau struct {
	vars    map[int]*LinVar
	order   []int // creation order, for Bland's rule and deterministic iteration
	rows    map[int]*Row
	nextID  int
	pivots  int // pivots since the out-of-bounds queue was last fully repaired (reset by SimplexEngine.CheckPoint), for Bland's rule escalation
	arena   *ReasonArena
	onBound func(v *LinVar, isUpper bool) // optional bound-head-change hook; nothing in this package sets or calls it
}

// NewTableau returns an empty tableau.
func NewTableau() *Tableau {
	return &Tableau{
		vars:  make(map[int]*LinVar),
		rows:  make(map[int]*Row),
		arena: NewReasonArena(),
	}
}

// NewVar allocates a fresh non-basic LinVar at the given assertion-stack
// level.
func (t *Tableau) NewVar(name string, isInt bool, level int) *LinVar {
	v := newLinVar(t.nextID, name, isInt)
	v.level = level
	t.vars[v.id] = v
	t.order = append(t.order, v.id)
	t.nextID++
	return v
}

// Var returns the LinVar with the given id, or nil.
func (t *Tableau) Var(id int) *LinVar { return t.vars[id] }

// EnsureVar returns the LinVar already registered at id, creating a fresh
// non-basic one there if none exists. The term compiler calls this the
// first time an opaque term is used as a linear-arithmetic variable, so the
// term's own id doubles as its LinVar id — letting every AffineTerm built
// from that term (alone or inside a slack combination) reference the same
// tableau column without a separate id-translation table.
func (t *Tableau) EnsureVar(id int, name string, isInt bool, level int) *LinVar {
	if v, ok := t.vars[id]; ok {
		return v
	}
	v := newLinVar(id, name, isInt)
	v.level = level
	t.vars[id] = v
	t.order = append(t.order, id)
	if id >= t.nextID {
		t.nextID = id + 1
	}
	return v
}

// MakeBasic installs row as the defining equation for a fresh basic
// variable v (v = sum(row)); v must be newly created and currently
// non-basic. Used when the term compiler/clausifier introduces a slack
// variable for an affine term appearing under a bound atom.
func (t *Tableau) MakeBasic(v *LinVar, terms map[int]Rational) {
	row := newRow()
	for col, c := range terms {
		if br, ok := t.rows[col]; ok {
			// col is basic: substitute its own row so the new row stays
			// over non-basic columns only.
			for bc, bcoeff := range br.coeffs {
				row.setCoeff(bc, row.Coeff(bc).Add(c.Mul(bcoeff)))
			}
			continue
		}
		row.setCoeff(col, row.Coeff(col).Add(c))
	}
	v.isBasic = true
	t.rows[v.id] = row
	v.value = t.evalRow(row)
	t.refreshSupportCounters(v)
}

func (t *Tableau) evalRow(row *Row) InfinitNumber {
	sum := InfNumRational(RationalZero())
	for col, c := range row.coeffs {
		sum = sum.Add(t.vars[col].value.MulRational(c))
	}
	return sum
}

// refreshSupportCounters recomputes the bound-refinement counters (§4.1) for
// basic variable v: the number of columns whose "supporting" bound (upper
// for positive coefficients, lower for negative ones, and vice versa) is
// currently infinite.
func (t *Tableau) refreshSupportCounters(v *LinVar) {
	row, ok := t.rows[v.id]
	if !ok {
		return
	}
	upperInf, lowerInf := 0, 0
	for col, c := range row.coeffs {
		cv := t.vars[col]
		if c.Signum() > 0 {
			if cv.Upper().IsInfinite() {
				upperInf++
			}
			if cv.Lower().IsInfinite() {
				lowerInf++
			}
		} else {
			if cv.Lower().IsInfinite() {
				upperInf++
			}
			if cv.Upper().IsInfinite() {
				lowerInf++
			}
		}
	}
	v.upperSupportInf = upperInf
	v.lowerSupportInf = lowerInf
}

// CompositeBound computes the bound-refinement value on the supporting side
// (upper if wantUpper, else lower) of basic variable v: sum over the row of
// each column's supporting bound times its coefficient. Only meaningful
// when the corresponding *SupportInf counter is zero (§4.1).
func (t *Tableau) CompositeBound(v *LinVar, wantUpper bool) InfinitNumber {
	row := t.rows[v.id]
	sum := InfNumRational(RationalZero())
	for col, c := range row.coeffs {
		cv := t.vars[col]
		var bound InfinitNumber
		useUpper := (c.Signum() > 0) == wantUpper
		if useUpper {
			bound = cv.Upper()
		} else {
			bound = cv.Lower()
		}
		sum = sum.Add(bound.MulRational(c))
	}
	return sum
}

// Pivot swaps the basic/non-basic roles of row variable b and column
// variable n, hinged at the (necessarily non-zero) coefficient of n in b's
// row. Values are not changed by Pivot — callers update the entering
// variable's value via UpdateNonBasicValue before or after pivoting, since
// the two operations commute on a consistent tableau.
func (t *Tableau) Pivot(bID, nID int) {
	row, ok := t.rows[bID]
	debugAssert(ok, "pivot on variable %d which is not basic", bID)
	c := row.Coeff(nID)
	debugAssert(!c.IsZero(), "pivot hinge coefficient for column %d in row %d is zero", nID, bID)

	newNRow := newRow()
	inv := RationalFromInt64(1).Div(c)
	newNRow.setCoeff(bID, inv)
	for _, col := range row.Cols() {
		if col == nID {
			continue
		}
		newNRow.setCoeff(col, row.Coeff(col).Mul(inv).Neg())
	}

	delete(t.rows, bID)
	t.rows[nID] = newNRow
	t.vars[bID].isBasic = false
	t.vars[nID].isBasic = true

	for rid, r := range t.rows {
		if rid == nID {
			continue
		}
		d := r.Coeff(nID)
		if d.IsZero() {
			continue
		}
		r.setCoeff(nID, RationalZero())
		for _, col := range newNRow.Cols() {
			r.setCoeff(col, r.Coeff(col).Add(d.Mul(newNRow.Coeff(col))))
		}
		t.refreshSupportCounters(t.vars[rid])
	}

	t.refreshSupportCounters(t.vars[nID])
	for rid := range t.rows {
		if _, touched := newNRow.coeffs[rid]; touched || rid == nID {
			t.refreshSupportCounters(t.vars[rid])
		}
	}
	t.pivots++

	_, bStillBasic := t.rows[bID]
	_, nHasRow := t.rows[nID]
	debugAssert(!bStillBasic && nHasRow && !t.vars[bID].isBasic && t.vars[nID].isBasic,
		"tableau inconsistent after pivot: basic/non-basic roles of %d and %d were not swapped", bID, nID)
}

// UpdateNonBasicValue changes non-basic variable n's assignment to newValue
// and propagates the resulting delta through every basic row that
// references n, maintaining the tableau's "basic value is the linear
// combination of non-basics" invariant.
func (t *Tableau) UpdateNonBasicValue(n *LinVar, newValue InfinitNumber) {
	delta := newValue.Sub(n.value)
	n.value = newValue
	if delta.A.IsZero() && delta.Eps == 0 {
		return
	}
	for bID, row := range t.rows {
		c := row.Coeff(n.id)
		if c.IsZero() {
			continue
		}
		b := t.vars[bID]
		b.value = b.value.Add(delta.MulRational(c))
	}
}

// Row returns the row for a basic variable, or nil.
func (t *Tableau) Row(basicID int) *Row { return t.rows[basicID] }

// BasicVars returns the ids of every currently-basic variable.
func (t *Tableau) BasicVars() []int {
	ids := make([]int, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
