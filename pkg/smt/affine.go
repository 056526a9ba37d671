package smt

import (
	"math/big"
	"sort"
)

func absBig(x *big.Int) *big.Int { return new(big.Int).Abs(x) }

func gcdBig(a, b *big.Int) *big.Int { return new(big.Int).GCD(nil, nil, absBig(a), absBig(b)) }

func lcmBig(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return big.NewInt(0)
	}
	g := gcdBig(a, b)
	l := new(big.Int).Div(absBig(a), g)
	return l.Mul(l, absBig(b))
}

// AffineTerm is a canonical linear combination over a totally-ordered set of
// integer variable identifiers: sum(coeff[v] * v) + constant. Coefficients
// are always kept non-zero (adding a term that cancels to zero removes the
// entry); variables are ordered by identifier, which is also their creation
// order, giving every AffineTerm built from the same terms a single
// canonical form regardless of the order operations were applied in. This
// canonical form is what ":canonicalSum" in the rewrite catalogue rewrites
// arbitrary +/-/* nests down to, and what the tableau's row representation
// and the LA lemma checker both consume directly.
type AffineTerm struct {
	coeffs   map[int]Rational
	constant Rational
}

// NewAffineTerm returns the empty affine term (the constant 0).
func NewAffineTerm() *AffineTerm {
	return &AffineTerm{coeffs: make(map[int]Rational), constant: RationalZero()}
}

// AffineConstant returns the affine term equal to the constant c.
func AffineConstant(c Rational) *AffineTerm {
	a := NewAffineTerm()
	a.constant = c
	return a
}

// AffineVar returns the affine term "1*v".
func AffineVar(v int) *AffineTerm {
	a := NewAffineTerm()
	a.AddTerm(v, RationalFromInt64(1))
	return a
}

// Clone returns a deep copy.
func (a *AffineTerm) Clone() *AffineTerm {
	b := NewAffineTerm()
	for v, c := range a.coeffs {
		b.coeffs[v] = c
	}
	b.constant = a.constant
	return b
}

// AddTerm adds coeff*v in place, removing the entry if the running
// coefficient cancels to zero.
func (a *AffineTerm) AddTerm(v int, coeff Rational) {
	if coeff.IsZero() {
		return
	}
	if cur, ok := a.coeffs[v]; ok {
		sum := cur.Add(coeff)
		if sum.IsZero() {
			delete(a.coeffs, v)
		} else {
			a.coeffs[v] = sum
		}
		return
	}
	a.coeffs[v] = coeff
}

// AddConstant adds c to the constant term in place.
func (a *AffineTerm) AddConstant(c Rational) {
	a.constant = a.constant.Add(c)
}

// Coeff returns the coefficient of v, or the zero rational if v does not
// appear.
func (a *AffineTerm) Coeff(v int) Rational {
	if c, ok := a.coeffs[v]; ok {
		return c
	}
	return RationalZero()
}

// Constant returns the constant term.
func (a *AffineTerm) Constant() Rational { return a.constant }

// IsConstant reports whether a has no variable terms.
func (a *AffineTerm) IsConstant() bool { return len(a.coeffs) == 0 }

// Vars returns the variable identifiers with non-zero coefficient, in
// ascending (canonical) order.
func (a *AffineTerm) Vars() []int {
	vs := make([]int, 0, len(a.coeffs))
	for v := range a.coeffs {
		vs = append(vs, v)
	}
	sort.Ints(vs)
	return vs
}

// Add returns a new affine term equal to a + b.
func (a *AffineTerm) Add(b *AffineTerm) *AffineTerm {
	r := a.Clone()
	for v, c := range b.coeffs {
		r.AddTerm(v, c)
	}
	r.AddConstant(b.constant)
	return r
}

// Sub returns a new affine term equal to a - b.
func (a *AffineTerm) Sub(b *AffineTerm) *AffineTerm { return a.Add(b.Scale(RationalFromInt64(-1))) }

// Scale returns a new affine term equal to c * a.
func (a *AffineTerm) Scale(c Rational) *AffineTerm {
	r := NewAffineTerm()
	if c.IsZero() {
		return r
	}
	for v, cf := range a.coeffs {
		r.coeffs[v] = cf.Mul(c)
	}
	r.constant = a.constant.Mul(c)
	return r
}

// Negate returns -a.
func (a *AffineTerm) Negate() *AffineTerm { return a.Scale(RationalFromInt64(-1)) }

// Equal reports structural equality of the canonical forms.
func (a *AffineTerm) Equal(b *AffineTerm) bool {
	if !a.constant.Equal(b.constant) {
		return false
	}
	if len(a.coeffs) != len(b.coeffs) {
		return false
	}
	for v, c := range a.coeffs {
		bc, ok := b.coeffs[v]
		if !ok || !bc.Equal(c) {
			return false
		}
	}
	return true
}

// GcdNormalize returns an integer-coefficient affine term g and a rational
// scale factor f such that a == f * g, with gcd(all integer coefficients in
// g, including the constant when it is an integer contribution) equal to 1
// and the lead coefficient's sign positive. This realizes the "integers in
// lowest terms, leading coefficient sign fixed" tableau-row invariant from
// the data model, and is also what the ":canonicalSum" / ":leqToLeq0" family
// of rewrite rules normalize to.
func (a *AffineTerm) GcdNormalize() (*AffineTerm, Rational) {
	if a.IsConstant() {
		if a.constant.IsZero() {
			return a.Clone(), RationalFromInt64(1)
		}
		return AffineConstant(RationalFromInt64(1)), a.constant
	}
	// Clear denominators first: multiply by the lcm of all denominators
	// appearing in coefficients and the constant, so every coefficient
	// becomes an integer.
	vs := a.Vars()
	lcmDen := big.NewInt(1)
	for _, v := range vs {
		lcmDen = lcmBig(lcmDen, a.coeffs[v].BigDen())
	}
	lcmDen = lcmBig(lcmDen, a.constant.BigDen())
	scaled := a.Scale(NewRationalBig(lcmDen, big.NewInt(1)))

	// Compute the gcd across every (now-integer) coefficient and the
	// constant.
	g := absBig(scaled.coeffs[vs[0]].BigNum())
	for _, v := range vs[1:] {
		g = gcdBig(g, absBig(scaled.coeffs[v].BigNum()))
	}
	if !scaled.constant.IsZero() {
		g = gcdBig(g, absBig(scaled.constant.BigNum()))
	}
	if g.Sign() == 0 {
		g = big.NewInt(1)
	}

	divisor := new(big.Int).Set(g)
	if scaled.coeffs[vs[0]].Signum() < 0 {
		divisor.Neg(divisor)
	}
	normalized := scaled.Scale(NewRationalBig(big.NewInt(1), divisor))
	// a == factor * normalized, with scaled == a*lcmDen and
	// normalized == scaled/divisor, so factor == divisor/lcmDen.
	factor := NewRationalBig(divisor, lcmDen)
	return normalized, factor
}
