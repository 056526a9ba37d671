package smt

// Compiler normalizes an input formula into the restricted vocabulary
// {not, or, ite, =binary, <=·0} this core reasons about directly, emitting
// a rule-annotated rewrite proof at every step (§4.6). Every AtomBound the
// rest of the package sees comes from compileCompare's call to
// Theory.InternBoundAtom; equality, congruence-closure and predicate atoms
// are interned by the solver's clausifier (solver.go's eqLiteral and
// toLiteral).
type Compiler struct {
	tt  *TermTable
	th  *Theory
	div map[string]*Term // memoized opaque @/0 / @div0 / @mod0 witnesses, one per dividend+operator

	// varOf recovers the original surface Term for an AffineTerm variable
	// id, so affineSurfaceTerm/atomSurfaceTerm can rebuild a canonical sum
	// or bound atom's display term out of the real subterms instead of a
	// synthetic placeholder. Ids with no entry (tableau-only slack/cut
	// variables introduced by the atom factory) fall back to a placeholder.
	varOf map[int]*Term
}

// NewCompiler returns a compiler that interns bound/equality atoms onto th.
func NewCompiler(th *Theory) *Compiler {
	return &Compiler{tt: th.Terms(), th: th, div: make(map[string]*Term), varOf: make(map[int]*Term)}
}

// Compile normalizes t, returning the normalized term together with a
// proof that t equals it.
func (c *Compiler) Compile(t *Term) (*Term, *ProofTerm) {
	switch {
	case t.Literal != nil, t.IsBool != nil, t.IsLeaf():
		return t, Refl(t)
	}

	switch t.Symbol {
	case "=":
		return c.compileEq(t)
	case "<", ">", "<=", ">=":
		return c.compileCompare(t)
	case "+", "-", "*":
		return c.compileArith(t)
	case "div":
		return c.compileDiv(t)
	case "mod":
		return c.compileMod(t)
	case "ite":
		return c.compileChildrenOnly(t)
	case "store", "select":
		return c.compileArrayOp(t)
	case "not", "or", "and", "xor", "=>", "distinct":
		return c.compileBoolOp(t)
	default:
		return c.compileChildrenOnly(t)
	}
}

// compileChildren compiles each of t's arguments and returns the rewritten
// argument list together with one proof per argument that actually
// changed (Refl proofs are omitted from the Cong argument list per §4.4's
// "each subsequent pi is an argument rewrite").
func (c *Compiler) compileChildren(t *Term) ([]*Term, []*ProofTerm) {
	newArgs := make([]*Term, len(t.Args))
	var rewrites []*ProofTerm
	for i, a := range t.Args {
		na, p := c.Compile(a)
		newArgs[i] = na
		if na != a {
			rewrites = append(rewrites, p)
		}
	}
	return newArgs, rewrites
}

func (c *Compiler) compileChildrenOnly(t *Term) (*Term, *ProofTerm) {
	_, rewrites := c.compileChildren(t)
	if len(rewrites) == 0 {
		return t, Refl(t)
	}
	base := Refl(t)
	cong := Cong(c.tt, base, rewrites...)
	return cong.Eq[1], cong
}

func (c *Compiler) compileBoolOp(t *Term) (*Term, *ProofTerm) {
	if t.Symbol == "distinct" && len(t.Args) == 2 {
		// :distinctBinary: (distinct a b) -> (not (= a b)).
		childTerm, childProof := c.compileChildrenOnly(t)
		eqTerm := c.tt.Intern("=", SortBool, childTerm.Args...)
		notTerm := c.tt.Intern("not", SortBool, eqTerm)
		step := Rewrite(childTerm, notTerm, ":distinctBinary")
		return notTerm, Trans(childProof, step)
	}
	if t.Symbol == "=>" {
		childTerm, childProof := c.compileChildrenOnly(t)
		notA := c.tt.Intern("not", SortBool, childTerm.Args[0])
		orTerm := c.tt.Intern("or", SortBool, notA, childTerm.Args[1])
		step := Rewrite(childTerm, orTerm, ":impToOr")
		return orTerm, Trans(childProof, step)
	}
	if t.Symbol == "xor" && len(t.Args) == 2 {
		childTerm, childProof := c.compileChildrenOnly(t)
		distinctTerm := c.tt.Intern("distinct", SortBool, childTerm.Args...)
		resultTerm, distinctProof := c.compileBoolOp(distinctTerm)
		step := Rewrite(childTerm, distinctTerm, ":xorToDistinct")
		return resultTerm, Trans(childProof, step, distinctProof)
	}
	if t.Symbol == "and" {
		// :andToOr: (and a1..an) -> (not (or (not a1) .. (not an))), the
		// only De Morgan direction the normal form keeps since "or" (not
		// "and") survives compilation.
		childTerm, childProof := c.compileChildrenOnly(t)
		negArgs := make([]*Term, len(childTerm.Args))
		for i, a := range childTerm.Args {
			negArgs[i] = c.tt.Intern("not", SortBool, a)
		}
		orTerm := c.tt.Intern("or", SortBool, negArgs...)
		notOrTerm := c.tt.Intern("not", SortBool, orTerm)
		step := Rewrite(childTerm, notOrTerm, ":andToOr")
		return notOrTerm, Trans(childProof, step)
	}
	return c.compileChildrenOnly(t)
}

// compileEq normalizes a chainable "=" (§4.6: >=3 arguments expands to
// "and" of pairwise equalities, then to "or" of negated equalities).
func (c *Compiler) compileEq(t *Term) (*Term, *ProofTerm) {
	newArgs, rewrites := c.compileChildren(t)
	eqTerm := t
	base := Refl(t)
	if len(rewrites) > 0 {
		eqTerm = c.tt.Intern("=", SortBool, newArgs...)
		base = Cong(c.tt, base, rewrites...)
	}
	if len(newArgs) <= 2 {
		return eqTerm, base
	}
	pairwise := make([]*Term, 0, len(newArgs)-1)
	for i := 0; i+1 < len(newArgs); i++ {
		pairwise = append(pairwise, c.tt.Intern("=", SortBool, newArgs[i], newArgs[i+1]))
	}
	andTerm := c.tt.Intern("and", SortBool, pairwise...)
	expandStep := Rewrite(eqTerm, andTerm, ":expand")
	andResult, andProof := c.compileBoolOp(andTerm)
	return andResult, Trans(base, expandStep, andProof)
}

// compileCompare normalizes <,>,<=,>= to the "<=·0" internal form,
// introducing an outer "not" for the strict directions (§4.6).
func (c *Compiler) compileCompare(t *Term) (*Term, *ProofTerm) {
	newArgs, rewrites := c.compileChildren(t)
	base := Refl(t)
	src := t
	if len(rewrites) > 0 {
		src = c.tt.Intern(t.Symbol, SortBool, newArgs...)
		base = Cong(c.tt, base, rewrites...)
	}

	lhs := c.affineFromTerm(newArgs[0])
	rhs := c.affineFromTerm(newArgs[1])
	diff := lhs.Sub(rhs)

	// Every direction reduces to a single non-strict "<=.0" atom, with the
	// right-hand side moved left; strict directions additionally wrap the
	// result in an outer "not" rather than asking the atom itself to carry
	// strictness (a<b iff not(b<=a), a>b iff not(a<=b)).
	isInt := newArgs[0].Sort == SortInt
	negateOuter := t.Symbol == "<" || t.Symbol == ">"
	atomExpr := diff
	if t.Symbol == ">=" || t.Symbol == "<" {
		atomExpr = diff.Negate()
	}
	atom := c.th.InternBoundAtom(atomExpr, false, isInt)
	canonical := c.atomSurfaceTerm(atom)
	if negateOuter {
		canonical = c.tt.Intern("not", SortBool, canonical)
	}
	internStep := Intern(src, canonical)
	return canonical, Trans(base, internStep)
}

// compileArith flattens +,-,* into an AffineTerm and reemits it in
// canonical form (:canonicalSum). Non-linear products (both operands
// carrying variables) are left uninterpreted at the term level — this
// core's linear-arithmetic theory does not accept them, matching the
// Non-goals around non-linear arithmetic.
func (c *Compiler) compileArith(t *Term) (*Term, *ProofTerm) {
	newArgs, rewrites := c.compileChildren(t)
	base := Refl(t)
	src := t
	if len(rewrites) > 0 {
		src = c.tt.Intern(t.Symbol, t.Sort, newArgs...)
		base = Cong(c.tt, base, rewrites...)
	}
	affine := c.affineFromTerm(src)
	canonical := c.affineSurfaceTerm(affine, src.Sort)
	if canonical == src {
		return src, base
	}
	step := Rewrite(src, canonical, ":canonicalSum")
	return canonical, Trans(base, step)
}

// compileDiv/compileMod handle constant-divisor evaluation and the
// div-by-zero opaque-witness convention (§4.6).
func (c *Compiler) compileDiv(t *Term) (*Term, *ProofTerm) {
	newArgs, rewrites := c.compileChildren(t)
	base := Refl(t)
	src := t
	if len(rewrites) > 0 {
		src = c.tt.Intern("div", t.Sort, newArgs...)
		base = Cong(c.tt, base, rewrites...)
	}
	dividend, divisor := newArgs[0], newArgs[1]
	if divisor.Literal != nil && divisor.Literal.IsZero() {
		witness := c.opaqueWitness("@div0", dividend)
		step := Rewrite(src, witness, ":divConst")
		return witness, Trans(base, step)
	}
	if dividend.Literal != nil && divisor.Literal != nil {
		q := dividend.Literal.Div(*divisor.Literal).Floor()
		lit := c.tt.InternLiteral(q, t.Sort)
		step := Rewrite(src, lit, ":divConst")
		return lit, Trans(base, step)
	}
	if divisor.Literal != nil && divisor.Literal.Equal(RationalFromInt64(1)) {
		step := Rewrite(src, dividend, ":divOne")
		return dividend, Trans(base, step)
	}
	return src, base
}

func (c *Compiler) compileMod(t *Term) (*Term, *ProofTerm) {
	newArgs, rewrites := c.compileChildren(t)
	base := Refl(t)
	src := t
	if len(rewrites) > 0 {
		src = c.tt.Intern("mod", t.Sort, newArgs...)
		base = Cong(c.tt, base, rewrites...)
	}
	dividend, divisor := newArgs[0], newArgs[1]
	if divisor.Literal != nil && divisor.Literal.IsZero() {
		witness := c.opaqueWitness("@mod0", dividend)
		step := Rewrite(src, witness, ":moduloConst")
		return witness, Trans(base, step)
	}
	if dividend.Literal != nil && divisor.Literal != nil {
		q := dividend.Literal.Div(*divisor.Literal).Floor()
		r := dividend.Literal.Sub(q.Mul(*divisor.Literal))
		lit := c.tt.InternLiteral(r, t.Sort)
		step := Rewrite(src, lit, ":moduloConst")
		return lit, Trans(base, step)
	}
	// dividend - divisor*(div dividend divisor), per :modulo.
	divTerm := c.tt.Intern("div", t.Sort, dividend, divisor)
	prodTerm := c.tt.Intern("*", t.Sort, divisor, divTerm)
	diffTerm := c.tt.Intern("-", t.Sort, dividend, prodTerm)
	step := Rewrite(src, diffTerm, ":modulo")
	result, resultProof := c.compileArith(diffTerm)
	return result, Trans(base, step, resultProof)
}

func (c *Compiler) opaqueWitness(prefix string, dividend *Term) *Term {
	key := prefix + "|" + dividend.String()
	if w, ok := c.div[key]; ok {
		return w
	}
	w := c.tt.FreshConstant(prefix, dividend.Sort)
	c.div[key] = w
	return w
}

// compileArrayOp applies :storeOverStore and :selectOverStore when the
// relevant indices are provably constant and equal (or different).
func (c *Compiler) compileArrayOp(t *Term) (*Term, *ProofTerm) {
	newArgs, rewrites := c.compileChildren(t)
	base := Refl(t)
	src := t
	if len(rewrites) > 0 {
		src = c.tt.Intern(t.Symbol, t.Sort, newArgs...)
		base = Cong(c.tt, base, rewrites...)
	}
	if t.Symbol == "store" && len(newArgs) == 3 && newArgs[0].Symbol == "store" && len(newArgs[0].Args) == 3 {
		inner := newArgs[0]
		if constantEqual(inner.Args[1], newArgs[1]) {
			rewritten := c.tt.Intern("store", t.Sort, inner.Args[0], newArgs[1], newArgs[2])
			step := Rewrite(src, rewritten, ":storeOverStore")
			return rewritten, Trans(base, step)
		}
	}
	if t.Symbol == "select" && len(newArgs) == 2 && newArgs[0].Symbol == "store" && len(newArgs[0].Args) == 3 {
		storeT := newArgs[0]
		if constantEqual(storeT.Args[1], newArgs[1]) {
			step := Rewrite(src, storeT.Args[2], ":selectOverStore")
			return storeT.Args[2], Trans(base, step)
		}
		if constantDifferent(storeT.Args[1], newArgs[1]) {
			rewritten := c.tt.Intern("select", t.Sort, storeT.Args[0], newArgs[1])
			step := Rewrite(src, rewritten, ":selectOverStore")
			return rewritten, Trans(base, step)
		}
	}
	if c.th != nil {
		c.th.RegisterApplication(src)
	}
	return src, base
}

func constantEqual(a, b *Term) bool {
	return a.Literal != nil && b.Literal != nil && a.Literal.Equal(*b.Literal)
}

func constantDifferent(a, b *Term) bool {
	return a.Literal != nil && b.Literal != nil && !a.Literal.Equal(*b.Literal)
}

// affineFromTerm interprets a +,-,*-nested term as an AffineTerm, treating
// any non-arithmetic leaf as an opaque variable keyed by its term id and
// recording it in varOf so the id can be mapped back to this same term.
func (c *Compiler) affineFromTerm(t *Term) *AffineTerm {
	switch {
	case t.Literal != nil:
		return AffineConstant(*t.Literal)
	case t.Symbol == "+":
		sum := NewAffineTerm()
		for _, a := range t.Args {
			sum = sum.Add(c.affineFromTerm(a))
		}
		return sum
	case t.Symbol == "-":
		if len(t.Args) == 1 {
			return c.affineFromTerm(t.Args[0]).Negate()
		}
		diff := c.affineFromTerm(t.Args[0])
		for _, a := range t.Args[1:] {
			diff = diff.Sub(c.affineFromTerm(a))
		}
		return diff
	case t.Symbol == "*" && len(t.Args) == 2:
		l, r := t.Args[0], t.Args[1]
		if l.Literal != nil {
			return c.affineFromTerm(r).Scale(*l.Literal)
		}
		if r.Literal != nil {
			return c.affineFromTerm(l).Scale(*r.Literal)
		}
		c.varOf[t.id] = t
		return AffineVar(t.id)
	default:
		c.varOf[t.id] = t
		return AffineVar(t.id)
	}
}

// VarOf returns the compiler's AffineTerm-variable-id -> original surface
// Term map, for a driver reporting a model over the originally-declared
// variables rather than internal tableau ids.
func (c *Compiler) VarOf() map[int]*Term { return c.varOf }

// surfaceVar returns the original surface term for variable id if one was
// seen during affineFromTerm, otherwise a placeholder term standing for a
// tableau-only slack or cut variable with no surface representative.
func (c *Compiler) surfaceVar(id int, sort *Sort) *Term {
	if t, ok := c.varOf[id]; ok {
		return t
	}
	return c.tt.Intern("@v", sort, c.tt.InternLiteral(RationalFromInt64(int64(id)), sort))
}

// affineSurfaceTerm rebuilds a canonical "+" term from an AffineTerm,
// reusing the original variable terms where affineFromTerm recorded them.
func (c *Compiler) affineSurfaceTerm(a *AffineTerm, sort *Sort) *Term {
	vars := a.Vars()
	parts := make([]*Term, 0, len(vars)+1)
	for _, v := range vars {
		coeff := a.Coeff(v)
		varTerm := c.surfaceVar(v, sort)
		if coeff.Equal(RationalFromInt64(1)) {
			parts = append(parts, varTerm)
			continue
		}
		parts = append(parts, c.tt.Intern("*", sort, c.tt.InternLiteral(coeff, sort), varTerm))
	}
	if !a.constant.IsZero() || len(parts) == 0 {
		parts = append(parts, c.tt.InternLiteral(a.constant, sort))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return c.tt.Intern("+", sort, parts...)
}

// atomSurfaceTerm renders atom back as a Boolean-sorted surface term (the
// "internal" `<=·0` form §4.5's @intern rule checks against), reusing the
// atom's subject variable's original surface term when it has one.
func (c *Compiler) atomSurfaceTerm(atom *Atom) *Term {
	exprSort := SortReal
	if atom.Var != nil && atom.Var.IsInt() {
		exprSort = SortInt
	}
	subject := c.surfaceVar(subjectID(atom), exprSort)
	threshold := c.tt.InternLiteral(atom.Bound, exprSort)
	if atom.Kind == AtomEq {
		return c.tt.Intern("=", SortBool, subject, threshold)
	}
	diff := c.tt.Intern("-", exprSort, subject, threshold)
	return c.tt.Intern("<=", SortBool, diff, c.tt.InternLiteral(RationalZero(), exprSort))
}

func subjectID(atom *Atom) int {
	if atom.Var != nil {
		return atom.Var.id
	}
	return -1
}
