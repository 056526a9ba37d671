// Package smt implements the quantifier-free core of an SMT decision engine
// for the combined theory of uninterpreted functions, linear arithmetic over
// integers and reals, and arrays (QF_AUFLIRA): a dual-simplex arithmetic
// theory, a DPLL integration layer, and a proof-producing / proof-checking
// infrastructure.
//
// The package is organized the way a single large constraint-solving engine
// tends to be organized: one package, many files, one file per concern
// (rationals, the tableau, the simplex driver, bound reasons, proofs, the
// proof checker, the term compiler). Cross-file dependencies are resolved by
// ordinary Go visibility, not by sub-packages — the whole core is meant to
// be read as one coherent unit.
package smt

import (
	"fmt"
	"math/big"
)

// Rational is an arbitrary-precision fraction, always stored in normalized
// form: gcd(|Num|, Den) = 1 and Den > 0. The zero value is not a valid
// Rational; use NewRational, RationalFromInt64, or one of the Pos/NegInf
// sentinels.
//
// Unlike the teacher's fixed-width int pair, the numerator and denominator
// here are arbitrary-precision: tableau pivoting can blow up coefficient
// magnitude arbitrarily (each pivot step can multiply denominators), and a
// decision engine that silently overflowed would be unsound rather than
// merely slow.
type Rational struct {
	num *big.Int
	den *big.Int // nil for a sentinel infinity; otherwise > 0
	inf int8     // 0 = finite, +1 = +infinity, -1 = -infinity
}

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
)

// NewRational returns num/den normalized to lowest terms with a positive
// denominator. Panics if den is zero.
func NewRational(num, den int64) Rational {
	return NewRationalBig(big.NewInt(num), big.NewInt(den))
}

// NewRationalBig is NewRational over arbitrary-precision operands. The
// arguments are copied; callers may reuse them afterward.
func NewRationalBig(num, den *big.Int) Rational {
	if den.Sign() == 0 {
		panic("smt: rational division by zero")
	}
	n := new(big.Int).Set(num)
	d := new(big.Int).Set(den)
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	if n.Sign() == 0 {
		return Rational{num: big.NewInt(0), den: big.NewInt(1)}
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(n), new(big.Int).Abs(d))
	if g.Cmp(bigOne) != 0 {
		n.Quo(n, g)
		d.Quo(d, g)
	}
	return Rational{num: n, den: d}
}

// RationalFromInt64 returns the rational equal to n.
func RationalFromInt64(n int64) Rational {
	return Rational{num: big.NewInt(n), den: big.NewInt(1)}
}

// RationalZero is the additive identity.
func RationalZero() Rational { return RationalFromInt64(0) }

// RationalPosInf and RationalNegInf are the sentinel unbounded values used
// for LinVar bounds that have never been asserted.
func RationalPosInf() Rational { return Rational{inf: +1} }
func RationalNegInf() Rational { return Rational{inf: -1} }

// IsInfinite reports whether r is one of the sentinel infinities.
func (r Rational) IsInfinite() bool { return r.inf != 0 }

// IsZero reports whether r is the finite value 0.
func (r Rational) IsZero() bool { return r.inf == 0 && r.num.Sign() == 0 }

// Signum returns -1, 0, or 1.
func (r Rational) Signum() int {
	if r.inf != 0 {
		return int(r.inf)
	}
	return r.num.Sign()
}

func (r Rational) requireFinite(op string) {
	if r.inf != 0 {
		panic(fmt.Sprintf("smt: %s on infinite rational", op))
	}
}

// Add returns r + other.
func (r Rational) Add(other Rational) Rational {
	if r.inf != 0 || other.inf != 0 {
		return addInf(r, other)
	}
	n := new(big.Int).Mul(r.num, other.den)
	n.Add(n, new(big.Int).Mul(other.num, r.den))
	d := new(big.Int).Mul(r.den, other.den)
	return NewRationalBig(n, d)
}

func addInf(a, b Rational) Rational {
	as, bs := a.Signum(), b.Signum()
	if a.inf != 0 && b.inf != 0 {
		if as != bs {
			panic("smt: +inf + -inf is undefined")
		}
		return a
	}
	if a.inf != 0 {
		return a
	}
	return b
}

// Sub returns r - other.
func (r Rational) Sub(other Rational) Rational { return r.Add(other.Neg()) }

// Neg returns -r.
func (r Rational) Neg() Rational {
	if r.inf != 0 {
		return Rational{inf: -r.inf}
	}
	return Rational{num: new(big.Int).Neg(r.num), den: new(big.Int).Set(r.den)}
}

// Mul returns r * other. Panics if the product would be infinity times
// zero (undefined); callers in this package never form that product.
func (r Rational) Mul(other Rational) Rational {
	if r.inf != 0 || other.inf != 0 {
		if r.IsZero() || other.IsZero() {
			panic("smt: 0 * infinity is undefined")
		}
		sign := r.Signum() * other.Signum()
		if sign == 0 {
			sign = 1
		}
		return Rational{inf: int8(sign)}
	}
	n := new(big.Int).Mul(r.num, other.num)
	d := new(big.Int).Mul(r.den, other.den)
	return NewRationalBig(n, d)
}

// Div returns r / other. Panics on division by finite zero.
func (r Rational) Div(other Rational) Rational {
	other.requireFinite("numerator of div by")
	if other.IsZero() {
		panic("smt: rational division by zero")
	}
	if r.inf != 0 {
		sign := r.Signum() * other.Signum()
		if sign == 0 {
			sign = 1
		}
		return Rational{inf: int8(sign)}
	}
	n := new(big.Int).Mul(r.num, other.den)
	d := new(big.Int).Mul(r.den, other.num)
	return NewRationalBig(n, d)
}

// Cmp compares r and other: -1, 0, or 1, treating the infinities as the
// endpoints of the extended rationals.
func (r Rational) Cmp(other Rational) int {
	if r.inf != 0 || other.inf != 0 {
		if r.inf == other.inf {
			return 0
		}
		if r.inf != 0 {
			return int(r.inf)
		}
		return -int(other.inf)
	}
	lhs := new(big.Int).Mul(r.num, other.den)
	rhs := new(big.Int).Mul(other.num, r.den)
	return lhs.Cmp(rhs)
}

// Less, LessEq, Greater, GreaterEq, Equal are Cmp-derived conveniences used
// throughout the tableau and proof checker for readability at call sites.
func (r Rational) Less(o Rational) bool      { return r.Cmp(o) < 0 }
func (r Rational) LessEq(o Rational) bool    { return r.Cmp(o) <= 0 }
func (r Rational) Greater(o Rational) bool   { return r.Cmp(o) > 0 }
func (r Rational) GreaterEq(o Rational) bool { return r.Cmp(o) >= 0 }
func (r Rational) Equal(o Rational) bool     { return r.Cmp(o) == 0 }

// Floor returns the greatest integer <= r, as a Rational with denominator 1.
func (r Rational) Floor() Rational {
	r.requireFinite("floor")
	q, m := new(big.Int), new(big.Int)
	q.DivMod(r.num, r.den, m) // Euclidean division: m in [0, den)
	return Rational{num: q, den: big.NewInt(1)}
}

// Ceil returns the least integer >= r.
func (r Rational) Ceil() Rational {
	r.requireFinite("ceil")
	f := r.Floor()
	if f.Equal(r) {
		return f
	}
	return f.Add(RationalFromInt64(1))
}

// Frac returns r - r.Floor(), always in [0, 1).
func (r Rational) Frac() Rational { return r.Sub(r.Floor()) }

// IsInteger reports whether r has denominator 1.
func (r Rational) IsInteger() bool {
	return r.inf == 0 && r.den.Cmp(bigOne) == 0
}

// BigNum and BigDen expose the normalized numerator/denominator for callers
// (the proof checker) that need to recompute a gcd-normalized form
// themselves rather than trust this package's internal state.
func (r Rational) BigNum() *big.Int { return new(big.Int).Set(r.num) }
func (r Rational) BigDen() *big.Int { return new(big.Int).Set(r.den) }

// String renders r in "n/d" form, or "n" when d == 1, or the infinity
// sentinels.
func (r Rational) String() string {
	switch r.inf {
	case 1:
		return "+inf"
	case -1:
		return "-inf"
	}
	if r.den.Cmp(bigOne) == 0 {
		return r.num.String()
	}
	return r.num.String() + "/" + r.den.String()
}

// Abs returns the absolute value of r.
func (r Rational) Abs() Rational {
	if r.Signum() < 0 {
		return r.Neg()
	}
	return r
}
