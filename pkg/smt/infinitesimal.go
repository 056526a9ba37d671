package smt

// InfinitNumber represents a value of the form a + eps*delta, where delta is
// an unspecified positive infinitesimal. This is how the tableau encodes
// strict bounds (x < 5 becomes x <= 5 - delta, i.e. A=5, Eps=-1) uniformly
// alongside non-strict bounds (Eps=0) without ever computing with a
// floating-point epsilon.
//
// Ordering: (a, eps) < (a', eps') iff a < a', or a == a' and eps < eps'.
type InfinitNumber struct {
	A   Rational
	Eps int8 // -1, 0, or +1
}

// InfNum builds an InfinitNumber from a rational and an epsilon multiplier.
func InfNum(a Rational, eps int8) InfinitNumber {
	if eps < -1 || eps > 1 {
		panic("smt: epsilon multiplier must be -1, 0, or 1")
	}
	return InfinitNumber{A: a, Eps: eps}
}

// InfNumRational lifts a plain rational (eps=0, non-strict) into an
// InfinitNumber.
func InfNumRational(a Rational) InfinitNumber { return InfinitNumber{A: a, Eps: 0} }

// PosInfinity and NegInfinity are the unbounded sentinels.
func PosInfinity() InfinitNumber { return InfinitNumber{A: RationalPosInf(), Eps: 0} }
func NegInfinity() InfinitNumber { return InfinitNumber{A: RationalNegInf(), Eps: 0} }

// Cmp orders two InfinitNumbers lexicographically on (A, Eps).
func (x InfinitNumber) Cmp(y InfinitNumber) int {
	if c := x.A.Cmp(y.A); c != 0 {
		return c
	}
	if x.Eps == y.Eps {
		return 0
	}
	if x.Eps < y.Eps {
		return -1
	}
	return 1
}

func (x InfinitNumber) Less(y InfinitNumber) bool      { return x.Cmp(y) < 0 }
func (x InfinitNumber) LessEq(y InfinitNumber) bool    { return x.Cmp(y) <= 0 }
func (x InfinitNumber) Greater(y InfinitNumber) bool   { return x.Cmp(y) > 0 }
func (x InfinitNumber) GreaterEq(y InfinitNumber) bool { return x.Cmp(y) >= 0 }
func (x InfinitNumber) Equal(y InfinitNumber) bool     { return x.Cmp(y) == 0 }

// Add returns x + y, where y's epsilon contributes additively — used when
// adding a scaled reason contribution (coeff * bound) onto a running sum
// during bound-refinement and Farkas explanation.
func (x InfinitNumber) Add(y InfinitNumber) InfinitNumber {
	return InfinitNumber{A: x.A.Add(y.A), Eps: clampEps(int(x.Eps) + int(y.Eps))}
}

// Sub returns x - y.
func (x InfinitNumber) Sub(y InfinitNumber) InfinitNumber {
	return InfinitNumber{A: x.A.Sub(y.A), Eps: clampEps(int(x.Eps) - int(y.Eps))}
}

// Neg returns -x.
func (x InfinitNumber) Neg() InfinitNumber {
	return InfinitNumber{A: x.A.Neg(), Eps: -x.Eps}
}

// MulRational scales x by a finite, non-negative-or-negative rational
// coefficient c; c's sign flips Eps exactly as it flips A.
func (x InfinitNumber) MulRational(c Rational) InfinitNumber {
	eps := 0
	if c.Signum() > 0 {
		eps = int(x.Eps)
	} else if c.Signum() < 0 {
		eps = -int(x.Eps)
	}
	return InfinitNumber{A: x.A.Mul(c), Eps: clampEps(eps)}
}

func clampEps(e int) int8 {
	switch {
	case e > 0:
		return 1
	case e < 0:
		return -1
	default:
		return 0
	}
}

// Signum returns the sign of x: the rational part's sign, or (if the
// rational part is exactly zero) the sign of the infinitesimal term.
func (x InfinitNumber) Signum() int {
	if s := x.A.Signum(); s != 0 {
		return s
	}
	return int(x.Eps)
}

// Abs returns the absolute value of x.
func (x InfinitNumber) Abs() InfinitNumber {
	if x.Signum() < 0 {
		return x.Neg()
	}
	return x
}

// IsInfinite reports whether x's rational part is a sentinel infinity.
func (x InfinitNumber) IsInfinite() bool { return x.A.IsInfinite() }

// String renders x as "a" or "a+eps*delta" / "a-eps*delta".
func (x InfinitNumber) String() string {
	switch x.Eps {
	case 0:
		return x.A.String()
	case 1:
		return x.A.String() + "+delta"
	default:
		return x.A.String() + "-delta"
	}
}
