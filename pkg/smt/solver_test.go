package smt

import "testing"

// le builds the surface term "a <= b" over Int-sorted terms.
func leTerm(tt *TermTable, a, b *Term) *Term {
	return tt.Intern("<=", SortBool, a, b)
}

func intVar(tt *TermTable, name string) *Term {
	return tt.Intern(name, SortInt)
}

func intLit(tt *TermTable, n int64) *Term {
	return tt.InternLiteral(RationalFromInt64(n), SortInt)
}

func TestSolverSimpleSat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProduceModels = true
	s := NewSolver(cfg)
	tt := s.Terms()

	x := intVar(tt, "x")
	// x <= 5
	f := leTerm(tt, x, intLit(tt, 5))
	if err := s.Assert(f); err != nil {
		t.Fatalf("Assert: %v", err)
	}

	res, err := s.CheckSat()
	if err != nil {
		t.Fatalf("CheckSat: %v", err)
	}
	if res != Sat {
		t.Fatalf("CheckSat = %v, want Sat", res)
	}

	m, err := s.GetModel()
	if err != nil {
		t.Fatalf("GetModel: %v", err)
	}
	if v, ok := m.Ints[x]; !ok || v.Greater(RationalFromInt64(5)) {
		t.Fatalf("model value for x = %v (ok=%v), want <= 5", v, ok)
	}
}

func TestSolverContradictionUnsat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProduceProofs = true
	cfg.ProofCheckMode = true
	s := NewSolver(cfg)
	tt := s.Terms()

	x := intVar(tt, "x")
	// x <= 0 and not (x <= 0), asserted directly, is unsatisfiable.
	le := leTerm(tt, x, intLit(tt, 0))
	notLe := tt.Intern("not", SortBool, le)

	if err := s.Assert(le); err != nil {
		t.Fatalf("Assert le: %v", err)
	}
	if err := s.Assert(notLe); err != nil {
		t.Fatalf("Assert notLe: %v", err)
	}

	res, err := s.CheckSat()
	if err != nil {
		t.Fatalf("CheckSat: %v", err)
	}
	if res != Unsat {
		t.Fatalf("CheckSat = %v, want Unsat", res)
	}

	proof, err := s.GetProof()
	if err != nil {
		t.Fatalf("GetProof: %v", err)
	}
	if proof == nil {
		t.Fatalf("GetProof returned nil proof for an Unsat result")
	}
}

func TestSolverDisjunctionSat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProduceModels = true
	s := NewSolver(cfg)
	tt := s.Terms()

	x := intVar(tt, "x")
	// (x <= 0) or (x <= 10) — trivially satisfiable either way.
	a := leTerm(tt, x, intLit(tt, 0))
	b := leTerm(tt, x, intLit(tt, 10))
	orTerm := tt.Intern("or", SortBool, a, b)

	if err := s.Assert(orTerm); err != nil {
		t.Fatalf("Assert: %v", err)
	}
	res, err := s.CheckSat()
	if err != nil {
		t.Fatalf("CheckSat: %v", err)
	}
	if res != Sat {
		t.Fatalf("CheckSat = %v, want Sat", res)
	}
}

func TestSolverUnsatCoreDropsAxiomLiteral(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProduceProofs = true
	cfg.ProduceUnsatCores = true
	s := NewSolver(cfg)
	tt := s.Terms()

	x := intVar(tt, "x")
	le := leTerm(tt, x, intLit(tt, 0))
	notLe := tt.Intern("not", SortBool, le)
	if err := s.Assert(le); err != nil {
		t.Fatalf("Assert le: %v", err)
	}
	if err := s.Assert(notLe); err != nil {
		t.Fatalf("Assert notLe: %v", err)
	}

	res, err := s.CheckSat()
	if err != nil {
		t.Fatalf("CheckSat: %v", err)
	}
	if res != Unsat {
		t.Fatalf("CheckSat = %v, want Unsat", res)
	}

	core, err := s.UnsatCore()
	if err != nil {
		t.Fatalf("UnsatCore: %v", err)
	}
	for _, l := range core {
		if l.Atom == axiomLiteral.Atom {
			t.Fatalf("UnsatCore leaked the internal axiom sentinel literal")
		}
	}
}

func TestSolverAssertAllAccumulatesErrors(t *testing.T) {
	s := NewSolver(DefaultConfig())
	tt := s.Terms()

	boolVar := tt.Intern("p", SortInt) // wrong sort: Assert requires Bool
	x := intVar(tt, "x")
	good := leTerm(tt, x, intLit(tt, 0))

	err := s.AssertAll([]*Term{boolVar, good})
	if err == nil {
		t.Fatalf("AssertAll should report the rejected non-Bool formula")
	}
}

func TestSolverPushPopScopesClauses(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSolver(cfg)
	tt := s.Terms()
	x := intVar(tt, "x")

	s.Push()
	le := leTerm(tt, x, intLit(tt, 0))
	notLe := tt.Intern("not", SortBool, le)
	if err := s.Assert(le); err != nil {
		t.Fatalf("Assert le: %v", err)
	}
	if err := s.Assert(notLe); err != nil {
		t.Fatalf("Assert notLe: %v", err)
	}

	res, err := s.CheckSat()
	if err != nil {
		t.Fatalf("CheckSat: %v", err)
	}
	if res != Unsat {
		t.Fatalf("CheckSat = %v, want Unsat before Pop", res)
	}

	s.Pop(1)
	res, err = s.CheckSat()
	if err != nil {
		t.Fatalf("CheckSat after Pop: %v", err)
	}
	if res != Sat {
		t.Fatalf("CheckSat = %v, want Sat after popping the contradiction", res)
	}
}

func TestSolverIteEncoding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProduceModels = true
	s := NewSolver(cfg)
	tt := s.Terms()

	x := intVar(tt, "x")
	c := tt.Intern("c", SortBool) // an uninterpreted Boolean condition
	thenBranch := leTerm(tt, x, intLit(tt, 0))
	elseBranch := leTerm(tt, x, intLit(tt, 100))
	iteTerm := tt.Intern("ite", SortBool, c, thenBranch, elseBranch)

	if err := s.Assert(iteTerm); err != nil {
		t.Fatalf("Assert: %v", err)
	}
	res, err := s.CheckSat()
	if err != nil {
		t.Fatalf("CheckSat: %v", err)
	}
	if res != Sat {
		t.Fatalf("CheckSat = %v, want Sat", res)
	}
}
