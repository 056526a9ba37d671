package smt

// ProofKind tags the constructor used to build a ProofTerm, one per rule in
// §4.4/§4.5's proof calculus.
type ProofKind int

const (
	PRefl ProofKind = iota
	PTrans
	PCong
	PRewrite
	PIntern
	PRes
	PLemma
	PTautology
	PSplit
	PClause
	PAsserted
	PEqApply
)

func (k ProofKind) String() string {
	switch k {
	case PRefl:
		return "refl"
	case PTrans:
		return "trans"
	case PCong:
		return "cong"
	case PRewrite:
		return "rewrite"
	case PIntern:
		return "intern"
	case PRes:
		return "res"
	case PLemma:
		return "lemma"
	case PTautology:
		return "tautology"
	case PSplit:
		return "split"
	case PClause:
		return "clause"
	case PAsserted:
		return "asserted"
	case PEqApply:
		return "eq"
	}
	return "?"
}

// Pivot is one resolution step: the clause resolved against the accumulator
// on pivot argument arg.
type Pivot struct {
	Proof *ProofTerm
	Arg   *Literal
}

// ProofTerm is a node of sort @Proof: a first-class term whose proved
// formula follows from its constructor and arguments rather than being
// stored independently, per §4.4. Only the fields relevant to Kind are
// populated; the rest are the zero value.
type ProofTerm struct {
	Kind ProofKind
	Args []*ProofTerm

	// Eq holds (lhs, rhs) for every rule that proves an equality:
	// Refl, Trans, Cong, Rewrite, Intern.
	Eq [2]*Term

	// RuleName is the :rule / :kind annotation for Rewrite, Intern, Lemma,
	// Tautology, and Split.
	RuleName string

	// ProvedClause holds the clause proved by Res, Lemma, Tautology,
	// Clause, and Asserted.
	ProvedClause *Clause

	Pivots []Pivot // for Res

	ExpectedClause *Clause // for Clause (the second argument naming the permuted target)

	SplitTarget *Literal // for Split: the literal the split rule isolates

	// LAFarkas carries the Farkas coefficients for a :LA lemma.
	LAFarkas map[*Literal]Rational

	// CCPath carries the congruence-closure explanation path for a :CC or
	// array :read-over-weakeq/:weakeq-ext lemma.
	CCPath []CCEdge
}

// Refl builds the proof that t equals itself.
func Refl(t *Term) *ProofTerm {
	return &ProofTerm{Kind: PRefl, Eq: [2]*Term{t, t}}
}

// Trans chains pairwise equality proofs p1..pk into a proof that the first
// LHS equals the last RHS, panicking if an adjacent pair's middle sides do
// not match (§4.4 "panics if middle sides do not match").
func Trans(ps ...*ProofTerm) *ProofTerm {
	if len(ps) == 0 {
		panic(&InternalError{Msg: "trans requires at least one argument"})
	}
	for i := 1; i < len(ps); i++ {
		if ps[i-1].Eq[1] != ps[i].Eq[0] {
			panic(&InternalError{Msg: "trans: middle sides do not match at step " + itoa(i)})
		}
	}
	return &ProofTerm{Kind: PTrans, Args: ps, Eq: [2]*Term{ps[0].Eq[0], ps[len(ps)-1].Eq[1]}}
}

// Cong builds the proof that (f a1 .. an) equals (f b1 .. bn): p0 proves
// "lhs = f(a1..am)" and each pi (i>=1) proves an argument rewrite
// "a_{sel(i)} = b_{sel(i)}"; the result substitutes each rewrite in the
// order the arguments appear (§4.4). tt interns the rewritten application
// as the proof's RHS.
func Cong(tt *TermTable, p0 *ProofTerm, argRewrites ...*ProofTerm) *ProofTerm {
	base := p0.Eq[1]
	if base == nil || len(base.Args) == 0 {
		panic(&InternalError{Msg: "cong: base proof does not prove an application"})
	}
	newArgs := append([]*Term(nil), base.Args...)
	for _, pr := range argRewrites {
		idx := -1
		for i, a := range newArgs {
			if a == pr.Eq[0] {
				idx = i
				break
			}
		}
		if idx < 0 {
			panic(&InternalError{Msg: "cong: argument rewrite LHS not found among current arguments"})
		}
		newArgs[idx] = pr.Eq[1]
	}
	result := tt.Intern(base.Symbol, base.Sort, newArgs...)
	args := append([]*ProofTerm{p0}, argRewrites...)
	return &ProofTerm{Kind: PCong, Args: args, Eq: [2]*Term{p0.Eq[0], result}}
}

// Rewrite wraps a rule-annotated rewrite step; opaque to the producer, fully
// checked by the rule's entry in rewriteRuleTable (§4.4 "opaque to the
// producer (checked by §4.5)").
func Rewrite(lhs, rhs *Term, rule string) *ProofTerm {
	return &ProofTerm{Kind: PRewrite, Eq: [2]*Term{lhs, rhs}, RuleName: rule}
}

// Intern wraps the normalization of a surface atom into its internal
// `<=·0` (or quoted-CC) form.
func Intern(lhs, rhs *Term) *ProofTerm {
	return &ProofTerm{Kind: PIntern, Eq: [2]*Term{lhs, rhs}}
}

// EqApply is the "@eq" rule: pf proves some established form ending at
// term f (pf.Eq[1]), and eq proves "f = g"; the result carries forward
// pf's starting term to g, i.e. a proof of "pf.Eq[0] = g" (§4.4/§4.5
// "first argument proves f, second proves (= f g); result: g").
func EqApply(pf, eq *ProofTerm) *ProofTerm {
	if pf.Eq[1] != eq.Eq[0] {
		panic(&InternalError{Msg: "eq: equality LHS does not match the first argument's proved term"})
	}
	return &ProofTerm{Kind: PEqApply, Args: []*ProofTerm{pf, eq}, Eq: [2]*Term{pf.Eq[0], eq.Eq[1]}}
}

// Asserted wraps an input-asserted clause as a proof leaf.
func Asserted(cl *Clause) *ProofTerm {
	return &ProofTerm{Kind: PAsserted, ProvedClause: cl}
}

// ClauseProof wraps a proof of main restated (possibly permuted) as
// expected.
func ClauseProof(main *ProofTerm, expected *Clause) *ProofTerm {
	return &ProofTerm{Kind: PClause, Args: []*ProofTerm{main}, ExpectedClause: expected, ProvedClause: expected}
}

// Res resolves main against each pivot's clause in order, producing the
// accumulated resolvent clause.
func Res(main *ProofTerm, pivots ...Pivot) *ProofTerm {
	acc := main.ProvedClause.LiteralSet()
	for _, pv := range pivots {
		negPivot := pv.Arg.Negate()
		found := false
		for k := range acc {
			if k.atom == negPivot.Atom && k.polarity == negPivot.Polarity {
				delete(acc, k)
				found = true
				break
			}
		}
		_ = found // missing pivots are a checker-time warning, not a producer panic
		for _, l := range pv.Proof.ProvedClause.Literals {
			if l.Atom == pv.Arg.Atom && l.Polarity == pv.Arg.Polarity {
				continue
			}
			acc[litKey{l.Atom, l.Polarity}] = l
		}
	}
	lits := make([]*Literal, 0, len(acc))
	for _, l := range acc {
		lits = append(lits, l)
	}
	args := append([]*ProofTerm{main}, func() []*ProofTerm {
		ps := make([]*ProofTerm, len(pivots))
		for i, pv := range pivots {
			ps[i] = pv.Proof
		}
		return ps
	}()...)
	return &ProofTerm{Kind: PRes, Args: args, Pivots: pivots, ProvedClause: NewClause(lits...)}
}

// Lemma wraps a theory lemma leaf, annotated with its kind (:LA, :CC,
// :read-over-weakeq, :weakeq-ext, :trichotomy, :EQ).
func Lemma(cl *Clause, kind string) *ProofTerm {
	return &ProofTerm{Kind: PLemma, ProvedClause: cl, RuleName: kind}
}

// LAFarkasLemma wraps a :LA lemma together with its Farkas coefficients.
func LAFarkasLemma(cl *Clause, coeffs map[*Literal]Rational) *ProofTerm {
	p := Lemma(cl, ":LA")
	p.LAFarkas = coeffs
	return p
}

// CCLemma wraps a :CC (or array weak-equivalence) lemma together with its
// explanation path.
func CCLemma(cl *Clause, kind string, path []CCEdge) *ProofTerm {
	p := Lemma(cl, kind)
	p.CCPath = path
	return p
}

// Tautology wraps a fixed clause-schema leaf.
func Tautology(cl *Clause, kind string) *ProofTerm {
	return &ProofTerm{Kind: PTautology, ProvedClause: cl, RuleName: kind}
}

// Split wraps a case-split leaf isolating target within cl.
func Split(cl *Clause, kind string, target *Literal) *ProofTerm {
	return &ProofTerm{Kind: PSplit, ProvedClause: cl, RuleName: kind, SplitTarget: target}
}
