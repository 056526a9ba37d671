package smt

import "testing"

func TestEnsureVarSharesTermIDSpace(t *testing.T) {
	tab := NewTableau()
	v := tab.EnsureVar(42, "x", false, 0)
	if v.id != 42 {
		t.Fatalf("EnsureVar should use the requested id as the LinVar id, got %d", v.id)
	}
	again := tab.EnsureVar(42, "x", false, 0)
	if again != v {
		t.Fatalf("EnsureVar should return the same LinVar on repeated calls for the same id")
	}
}

func TestEnsureVarAdvancesFreshIDCounter(t *testing.T) {
	tab := NewTableau()
	tab.EnsureVar(10, "x", false, 0)
	fresh := tab.NewVar("slack", false, 0)
	if fresh.id <= 10 {
		t.Fatalf("a fresh var allocated after EnsureVar(10) should get an id > 10, got %d", fresh.id)
	}
}

func TestMakeBasicEvaluatesRow(t *testing.T) {
	tab := NewTableau()
	x := tab.EnsureVar(0, "x", false, 0)
	y := tab.EnsureVar(1, "y", false, 0)
	x.value = InfNumRational(RationalFromInt64(2))
	y.value = InfNumRational(RationalFromInt64(3))

	basic := tab.NewVar("s", false, 0)
	tab.MakeBasic(basic, map[int]Rational{0: RationalFromInt64(1), 1: RationalFromInt64(2)})

	want := RationalFromInt64(2 + 2*3)
	if !basic.value.A.Equal(want) || basic.value.Eps != 0 {
		t.Fatalf("basic var value = %v, want %s", basic.value, want)
	}
}
