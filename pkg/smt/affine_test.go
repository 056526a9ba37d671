package smt

import "testing"

func TestAffineTermAddAndCoeff(t *testing.T) {
	a := AffineVar(1)
	b := AffineVar(2).Scale(RationalFromInt64(3))
	sum := a.Add(b)

	if !sum.Coeff(1).Equal(RationalFromInt64(1)) {
		t.Fatalf("coeff(1) = %s, want 1", sum.Coeff(1))
	}
	if !sum.Coeff(2).Equal(RationalFromInt64(3)) {
		t.Fatalf("coeff(2) = %s, want 3", sum.Coeff(2))
	}
}

func TestAffineTermCancellationRemovesEntry(t *testing.T) {
	a := AffineVar(1)
	b := AffineVar(1).Negate()
	sum := a.Add(b)
	if !sum.IsConstant() || !sum.Constant().IsZero() {
		t.Fatalf("1*v + (-1*v) should cancel to the constant 0, got %v", sum)
	}
}

func TestAffineTermGcdNormalize(t *testing.T) {
	// 2x + 4y + 6 == 2 * (x + 2y + 3)
	a := NewAffineTerm()
	a.AddTerm(1, RationalFromInt64(2))
	a.AddTerm(2, RationalFromInt64(4))
	a.AddConstant(RationalFromInt64(6))

	norm, factor := a.GcdNormalize()
	if !factor.Equal(RationalFromInt64(2)) {
		t.Fatalf("factor = %s, want 2", factor)
	}
	if !norm.Coeff(1).Equal(RationalFromInt64(1)) || !norm.Coeff(2).Equal(RationalFromInt64(2)) {
		t.Fatalf("normalized coeffs wrong: %v", norm)
	}
	if !norm.Constant().Equal(RationalFromInt64(3)) {
		t.Fatalf("normalized constant = %s, want 3", norm.Constant())
	}
}

func TestAffineTermGcdNormalizeClearsFractions(t *testing.T) {
	// (1/2)x == (1/2) * x; normalized leading coefficient must be a
	// positive integer.
	a := NewAffineTerm()
	a.AddTerm(1, NewRational(1, 2))

	norm, factor := a.GcdNormalize()
	if !norm.Coeff(1).Equal(RationalFromInt64(1)) {
		t.Fatalf("normalized coeff = %s, want 1", norm.Coeff(1))
	}
	if !factor.Equal(NewRational(1, 2)) {
		t.Fatalf("factor = %s, want 1/2", factor)
	}
}

func TestAffineTermEqual(t *testing.T) {
	a := AffineVar(1).Add(AffineConstant(RationalFromInt64(5)))
	b := AffineConstant(RationalFromInt64(5)).Add(AffineVar(1))
	if !a.Equal(b) {
		t.Fatalf("affine terms built in different orders should be equal: %v vs %v", a, b)
	}
}
