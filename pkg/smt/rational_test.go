package smt

import "testing"

func TestRationalNormalizesToLowestTerms(t *testing.T) {
	r := NewRational(6, 8)
	if got := r.String(); got != "3/4" {
		t.Fatalf("NewRational(6,8) = %s, want 3/4", got)
	}
}

func TestRationalNegativeDenominatorNormalizes(t *testing.T) {
	r := NewRational(1, -2)
	if got := r.String(); got != "-1/2" {
		t.Fatalf("NewRational(1,-2) = %s, want -1/2", got)
	}
}

func TestRationalArithmetic(t *testing.T) {
	a := NewRational(1, 2)
	b := NewRational(1, 3)
	if sum := a.Add(b); !sum.Equal(NewRational(5, 6)) {
		t.Fatalf("1/2 + 1/3 = %s, want 5/6", sum)
	}
	if diff := a.Sub(b); !diff.Equal(NewRational(1, 6)) {
		t.Fatalf("1/2 - 1/3 = %s, want 1/6", diff)
	}
	if prod := a.Mul(b); !prod.Equal(NewRational(1, 6)) {
		t.Fatalf("1/2 * 1/3 = %s, want 1/6", prod)
	}
	if quot := a.Div(b); !quot.Equal(NewRational(3, 2)) {
		t.Fatalf("1/2 / 1/3 = %s, want 3/2", quot)
	}
}

func TestRationalInfinityArithmetic(t *testing.T) {
	pos := RationalPosInf()
	neg := RationalNegInf()
	finite := RationalFromInt64(5)

	if got := pos.Add(finite); got.Signum() <= 0 || !got.IsInfinite() {
		t.Fatalf("+inf + 5 should stay +inf, got %s", got)
	}
	if got := neg.Add(finite); !got.IsInfinite() || got.Signum() >= 0 {
		t.Fatalf("-inf + 5 should stay -inf, got %s", got)
	}
	if !pos.Greater(finite) {
		t.Fatalf("+inf should be greater than any finite value")
	}
	if !neg.Less(finite) {
		t.Fatalf("-inf should be less than any finite value")
	}
}

func TestRationalFloorCeilFrac(t *testing.T) {
	r := NewRational(7, 2) // 3.5
	if f := r.Floor(); !f.Equal(RationalFromInt64(3)) {
		t.Fatalf("floor(7/2) = %s, want 3", f)
	}
	if c := r.Ceil(); !c.Equal(RationalFromInt64(4)) {
		t.Fatalf("ceil(7/2) = %s, want 4", c)
	}
	if fr := r.Frac(); !fr.Equal(NewRational(1, 2)) {
		t.Fatalf("frac(7/2) = %s, want 1/2", fr)
	}

	neg := NewRational(-7, 2) // -3.5
	if f := neg.Floor(); !f.Equal(RationalFromInt64(-4)) {
		t.Fatalf("floor(-7/2) = %s, want -4", f)
	}
	if c := neg.Ceil(); !c.Equal(RationalFromInt64(-3)) {
		t.Fatalf("ceil(-7/2) = %s, want -3", c)
	}
}

func TestRationalIsIntegerAndAbs(t *testing.T) {
	if !RationalFromInt64(4).IsInteger() {
		t.Fatalf("4 should be an integer rational")
	}
	if NewRational(1, 2).IsInteger() {
		t.Fatalf("1/2 should not be an integer rational")
	}
	if got := NewRational(-3, 4).Abs(); !got.Equal(NewRational(3, 4)) {
		t.Fatalf("abs(-3/4) = %s, want 3/4", got)
	}
}

func TestRationalDivisionByZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic dividing by zero")
		}
	}()
	RationalFromInt64(1).Div(RationalZero())
}
