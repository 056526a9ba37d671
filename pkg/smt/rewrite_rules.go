package smt

// rewriteValidator checks one named rewrite rule's lhs/rhs pair
// structurally, returning false if the pair is not a valid instance of the
// rule. Validators never need the surrounding proof context — every
// rewrite rule in the catalogue is a purely local, syntax-directed
// transformation.
type rewriteValidator func(lhs, rhs *Term) bool

// rewriteRuleTable is the fixed catalogue from §4.5's "@rewrite" rule list.
// Every entry pattern-matches its rule's actual left/right shape; the
// arithmetic-heavy rules additionally compare both sides' canonical affine
// form (localAffine) rather than trusting syntax alone, per §4.5's
// "normalizing both sides to a canonical affine representation" clause.
var rewriteRuleTable = map[string]rewriteValidator{
	":expand":          checkExpand,
	":expandDef":       checkExpandDef,
	":trueNotFalse":    checkTrueNotFalse,
	":constDiff":       checkConstDiff,
	":eqTrue":          checkEqTrue,
	":eqFalse":         checkEqFalse,
	":eqSimp":          checkEqSimp,
	":eqSame":          checkEqSame,
	":eqBinary":        checkEqBinary,
	":distinctBool":    checkDistinctBool,
	":distinctSame":    checkDistinctSame,
	":distinctNeg":     checkDistinctNeg,
	":distinctTrue":    checkDistinctTrue,
	":distinctFalse":   checkDistinctFalse,
	":distinctBoolEq":  checkDistinctBoolEq,
	":distinctBinary":  checkDistinctBinary,
	":notSimp":         checkNotSimp,
	":orSimp":          checkOrSimp,
	":orTaut":          checkOrTaut,
	":iteTrue":         checkIteTrue,
	":iteFalse":        checkIteFalse,
	":iteSame":         checkIteSame,
	":iteBool1":        checkIteBool1,
	":iteBool2":        checkIteBool2,
	":iteBool3":        checkIteBool3,
	":iteBool4":        checkIteBool4,
	":iteBool5":        checkIteBool5,
	":iteBool6":        checkIteBool6,
	":andToOr":         checkAndToOr,
	":xorToDistinct":   checkXorToDistinct,
	":impToOr":         checkImpToOr,
	":strip":           checkStrip,
	":canonicalSum":    checkCanonicalSum,
	":leqToLeq0":       checkLeqToLeq0,
	":ltToLeq0":        checkLtToLeq0,
	":geqToLeq0":       checkGeqToLeq0,
	":gtToLeq0":        checkGtToLeq0,
	":leqTrue":         checkLeqTrue,
	":leqFalse":        checkLeqFalse,
	":desugar":         checkDesugar,
	":divisible":       checkDivisible,
	":divOne":          checkDivOne,
	":divMinusOne":     checkDivMinusOne,
	":divConst":        checkDivConst,
	":moduloOne":       checkModuloOne,
	":moduloMinusOne":  checkModuloMinusOne,
	":moduloConst":     checkModuloConst,
	":modulo":          checkModulo,
	":toInt":           checkToInt,
	":storeOverStore":  checkStoreOverStore,
	":selectOverStore": checkSelectOverStore,
	":flatten":         checkFlatten,
	":storeRewrite":    checkStoreRewrite,
}

// --- shared helpers ---

func isTrueLit(t *Term) bool  { return t.IsBool != nil && *t.IsBool }
func isFalseLit(t *Term) bool { return t.IsBool != nil && !*t.IsBool }
func isZeroLit(t *Term) bool  { return t.Literal != nil && t.Literal.IsZero() }

func allBoolSort(ts []*Term) bool {
	for _, t := range ts {
		if t.Sort != SortBool {
			return false
		}
	}
	return true
}

func definitelyDistinctConstants(a, b *Term) bool {
	if a.Literal != nil && b.Literal != nil {
		return !a.Literal.Equal(*b.Literal)
	}
	if a.IsBool != nil && b.IsBool != nil {
		return *a.IsBool != *b.IsBool
	}
	return false
}

// localAffine interprets a +,-,*-nested arithmetic term as an AffineTerm,
// keyed by term id the same way the compiler's affineFromTerm is — two
// terms built from the same TermTable compare equal here exactly when they
// denote the same linear combination, which is what :canonicalSum and its
// relatives need to verify.
func localAffine(t *Term) *AffineTerm {
	switch {
	case t.Literal != nil:
		return AffineConstant(*t.Literal)
	case t.Symbol == "+":
		sum := NewAffineTerm()
		for _, a := range t.Args {
			sum = sum.Add(localAffine(a))
		}
		return sum
	case t.Symbol == "-":
		if len(t.Args) == 1 {
			return localAffine(t.Args[0]).Negate()
		}
		diff := localAffine(t.Args[0])
		for _, a := range t.Args[1:] {
			diff = diff.Sub(localAffine(a))
		}
		return diff
	case t.Symbol == "*" && len(t.Args) == 2:
		l, r := t.Args[0], t.Args[1]
		if l.Literal != nil {
			return localAffine(r).Scale(*l.Literal)
		}
		if r.Literal != nil {
			return localAffine(l).Scale(*r.Literal)
		}
		return AffineVar(t.id)
	default:
		return AffineVar(t.id)
	}
}

// matchesLeq0 reports whether t is the atom "expr <= 0" for the given
// canonical expr.
func matchesLeq0(t *Term, want *AffineTerm) bool {
	if t.Symbol != "<=" || len(t.Args) != 2 {
		return false
	}
	if !isZeroLit(t.Args[1]) {
		return false
	}
	return localAffine(t.Args[0]).Equal(want)
}

// --- equality / distinctness family ---

// :expand — chainable (= a1 .. an), n>=3, expands to (and (= a1 a2) ..
// (= a_{n-1} an)).
func checkExpand(lhs, rhs *Term) bool {
	if lhs.Symbol != "=" || len(lhs.Args) < 3 {
		return false
	}
	if rhs.Symbol != "and" || len(rhs.Args) != len(lhs.Args)-1 {
		return false
	}
	for i, pair := range rhs.Args {
		if pair.Symbol != "=" || len(pair.Args) != 2 {
			return false
		}
		if pair.Args[0] != lhs.Args[i] || pair.Args[1] != lhs.Args[i+1] {
			return false
		}
	}
	return true
}

// :expandDef — unfolds a defined nullary symbol to its body; the body must
// actually have more structure than a bare name.
func checkExpandDef(lhs, rhs *Term) bool {
	return lhs.IsLeaf() && lhs.Literal == nil && lhs.IsBool == nil &&
		!rhs.IsLeaf() && lhs.Sort == rhs.Sort
}

// :trueNotFalse — (= true false) -> false.
func checkTrueNotFalse(lhs, rhs *Term) bool {
	if lhs.Symbol != "=" || len(lhs.Args) != 2 {
		return false
	}
	a, b := lhs.Args[0], lhs.Args[1]
	return a.IsBool != nil && b.IsBool != nil && *a.IsBool != *b.IsBool && isFalseLit(rhs)
}

// :constDiff — (= c1 c2) for two distinct numeric literals -> false.
func checkConstDiff(lhs, rhs *Term) bool {
	if lhs.Symbol != "=" || len(lhs.Args) != 2 {
		return false
	}
	a, b := lhs.Args[0], lhs.Args[1]
	return a.Literal != nil && b.Literal != nil && !a.Literal.Equal(*b.Literal) && isFalseLit(rhs)
}

// :eqTrue — (= a a) -> true (hash-consing makes syntactic and pointer
// identity the same check).
func checkEqTrue(lhs, rhs *Term) bool {
	return lhs.Symbol == "=" && len(lhs.Args) == 2 && lhs.Args[0] == lhs.Args[1] && isTrueLit(rhs)
}

// :eqFalse — (= a b) for two provably distinct ground constants -> false.
func checkEqFalse(lhs, rhs *Term) bool {
	return lhs.Symbol == "=" && len(lhs.Args) == 2 &&
		definitelyDistinctConstants(lhs.Args[0], lhs.Args[1]) && isFalseLit(rhs)
}

// :eqSimp — (= a b) over arithmetic sorts folds to true/false once the
// affine difference of both sides is a known constant.
func checkEqSimp(lhs, rhs *Term) bool {
	if lhs.Symbol != "=" || len(lhs.Args) != 2 {
		return false
	}
	a, b := lhs.Args[0], lhs.Args[1]
	if (a.Sort != SortInt && a.Sort != SortReal) || a.Sort != b.Sort {
		return false
	}
	diff := localAffine(a).Sub(localAffine(b))
	if !diff.IsConstant() {
		return false
	}
	if diff.Constant().IsZero() {
		return isTrueLit(rhs)
	}
	return isFalseLit(rhs)
}

// :eqSame — same syntactic identity condition as :eqTrue; kept as its own
// rule name because hash-consing collapses what would otherwise be two
// distinct preconditions (value-equal literals vs. pointer-equal terms)
// into one.
func checkEqSame(lhs, rhs *Term) bool {
	return lhs.Symbol == "=" && len(lhs.Args) == 2 && lhs.Args[0] == lhs.Args[1] && isTrueLit(rhs)
}

// :eqBinary — canonicalizes a binary equality's operand order by term id,
// the order the congruence closure module expects equalities to arrive in.
func checkEqBinary(lhs, rhs *Term) bool {
	if lhs.Symbol != "=" || len(lhs.Args) != 2 || rhs.Symbol != "=" || len(rhs.Args) != 2 {
		return false
	}
	lo, hi := lhs.Args[0], lhs.Args[1]
	if hi.id < lo.id {
		lo, hi = hi, lo
	}
	return rhs.Args[0] == lo && rhs.Args[1] == hi
}

// :distinctBool — (distinct b1 .. bn) over more than two Booleans is always
// false: Bool has only two values.
func checkDistinctBool(lhs, rhs *Term) bool {
	return lhs.Symbol == "distinct" && len(lhs.Args) > 2 && allBoolSort(lhs.Args) && isFalseLit(rhs)
}

// :distinctSame — (distinct .. a .. a ..) with a repeated argument -> false.
func checkDistinctSame(lhs, rhs *Term) bool {
	if lhs.Symbol != "distinct" {
		return false
	}
	for i := range lhs.Args {
		for j := i + 1; j < len(lhs.Args); j++ {
			if lhs.Args[i] == lhs.Args[j] {
				return isFalseLit(rhs)
			}
		}
	}
	return false
}

// :distinctNeg — (distinct a (not a)) -> true.
func checkDistinctNeg(lhs, rhs *Term) bool {
	if lhs.Symbol != "distinct" || len(lhs.Args) != 2 {
		return false
	}
	a, b := lhs.Args[0], lhs.Args[1]
	isNeg := (b.Symbol == "not" && len(b.Args) == 1 && b.Args[0] == a) ||
		(a.Symbol == "not" && len(a.Args) == 1 && a.Args[0] == b)
	return isNeg && isTrueLit(rhs)
}

// :distinctTrue — (distinct a true) -> (not a).
func checkDistinctTrue(lhs, rhs *Term) bool {
	if lhs.Symbol != "distinct" || len(lhs.Args) != 2 {
		return false
	}
	a, b := lhs.Args[0], lhs.Args[1]
	other := b
	if isTrueLit(b) {
		other = a
	} else if !isTrueLit(a) {
		return false
	}
	return rhs.Symbol == "not" && len(rhs.Args) == 1 && rhs.Args[0] == other
}

// :distinctFalse — (distinct a false) -> a.
func checkDistinctFalse(lhs, rhs *Term) bool {
	if lhs.Symbol != "distinct" || len(lhs.Args) != 2 {
		return false
	}
	a, b := lhs.Args[0], lhs.Args[1]
	if isFalseLit(b) {
		return rhs == a
	}
	if isFalseLit(a) {
		return rhs == b
	}
	return false
}

// :distinctBoolEq — (distinct a b) over two non-literal Booleans ->
// (= a (not b)).
func checkDistinctBoolEq(lhs, rhs *Term) bool {
	if lhs.Symbol != "distinct" || len(lhs.Args) != 2 {
		return false
	}
	a, b := lhs.Args[0], lhs.Args[1]
	if a.Sort != SortBool || b.Sort != SortBool || a.IsBool != nil || b.IsBool != nil {
		return false
	}
	return rhs.Symbol == "=" && len(rhs.Args) == 2 && rhs.Args[0] == a &&
		rhs.Args[1].Symbol == "not" && len(rhs.Args[1].Args) == 1 && rhs.Args[1].Args[0] == b
}

// :distinctBinary — (distinct a b) -> (not (= a b)).
func checkDistinctBinary(lhs, rhs *Term) bool {
	if lhs.Symbol != "distinct" || len(lhs.Args) != 2 {
		return false
	}
	if rhs.Symbol != "not" || len(rhs.Args) != 1 {
		return false
	}
	eq := rhs.Args[0]
	return eq.Symbol == "=" && len(eq.Args) == 2 && eq.Args[0] == lhs.Args[0] && eq.Args[1] == lhs.Args[1]
}

// --- Boolean simplification family ---

// :notSimp — (not b) for a Boolean literal b -> the opposite literal.
func checkNotSimp(lhs, rhs *Term) bool {
	if lhs.Symbol != "not" || len(lhs.Args) != 1 || lhs.Args[0].IsBool == nil {
		return false
	}
	return rhs.IsBool != nil && *rhs.IsBool != *lhs.Args[0].IsBool
}

// :orSimp — (or a1 .. an) with literal-false args dropped and duplicates
// collapsed, first occurrence order preserved.
func checkOrSimp(lhs, rhs *Term) bool {
	if lhs.Symbol != "or" {
		return false
	}
	seen := map[*Term]bool{}
	var want []*Term
	for _, a := range lhs.Args {
		if isFalseLit(a) || seen[a] {
			continue
		}
		seen[a] = true
		want = append(want, a)
	}
	if len(want) == 0 {
		return isFalseLit(rhs)
	}
	if len(want) == 1 {
		return rhs == want[0]
	}
	if rhs.Symbol != "or" || len(rhs.Args) != len(want) {
		return false
	}
	for i, w := range want {
		if rhs.Args[i] != w {
			return false
		}
	}
	return true
}

// :orTaut — (or .. a .. (not a) ..) -> true.
func checkOrTaut(lhs, rhs *Term) bool {
	if lhs.Symbol != "or" || !isTrueLit(rhs) {
		return false
	}
	for i, a := range lhs.Args {
		for j, b := range lhs.Args {
			if i != j && b.Symbol == "not" && len(b.Args) == 1 && b.Args[0] == a {
				return true
			}
		}
	}
	return false
}

func checkIteTrue(lhs, rhs *Term) bool {
	return lhs.Symbol == "ite" && len(lhs.Args) == 3 &&
		lhs.Args[0].IsBool != nil && *lhs.Args[0].IsBool && rhs == lhs.Args[1]
}

func checkIteFalse(lhs, rhs *Term) bool {
	return lhs.Symbol == "ite" && len(lhs.Args) == 3 &&
		lhs.Args[0].IsBool != nil && !*lhs.Args[0].IsBool && rhs == lhs.Args[2]
}

func checkIteSame(lhs, rhs *Term) bool {
	return lhs.Symbol == "ite" && len(lhs.Args) == 3 && lhs.Args[1] == lhs.Args[2] && rhs == lhs.Args[1]
}

// :iteBool1…6 — the standard Boolean-ite simplification table.
func checkIteBool1(lhs, rhs *Term) bool { // ite(c,true,false) -> c
	return lhs.Symbol == "ite" && len(lhs.Args) == 3 &&
		isTrueLit(lhs.Args[1]) && isFalseLit(lhs.Args[2]) && rhs == lhs.Args[0]
}

func checkIteBool2(lhs, rhs *Term) bool { // ite(c,false,true) -> (not c)
	if lhs.Symbol != "ite" || len(lhs.Args) != 3 || !isFalseLit(lhs.Args[1]) || !isTrueLit(lhs.Args[2]) {
		return false
	}
	return rhs.Symbol == "not" && len(rhs.Args) == 1 && rhs.Args[0] == lhs.Args[0]
}

func checkIteBool3(lhs, rhs *Term) bool { // ite(c,true,b) -> (or c b)
	if lhs.Symbol != "ite" || len(lhs.Args) != 3 || !isTrueLit(lhs.Args[1]) {
		return false
	}
	return rhs.Symbol == "or" && len(rhs.Args) == 2 && rhs.Args[0] == lhs.Args[0] && rhs.Args[1] == lhs.Args[2]
}

func checkIteBool4(lhs, rhs *Term) bool { // ite(c,a,true) -> (or (not c) a)
	if lhs.Symbol != "ite" || len(lhs.Args) != 3 || !isTrueLit(lhs.Args[2]) {
		return false
	}
	if rhs.Symbol != "or" || len(rhs.Args) != 2 {
		return false
	}
	notC := rhs.Args[0]
	return notC.Symbol == "not" && len(notC.Args) == 1 && notC.Args[0] == lhs.Args[0] && rhs.Args[1] == lhs.Args[1]
}

func checkIteBool5(lhs, rhs *Term) bool { // ite(c,false,b) -> (and (not c) b)
	if lhs.Symbol != "ite" || len(lhs.Args) != 3 || !isFalseLit(lhs.Args[1]) {
		return false
	}
	if rhs.Symbol != "and" || len(rhs.Args) != 2 {
		return false
	}
	notC := rhs.Args[0]
	return notC.Symbol == "not" && len(notC.Args) == 1 && notC.Args[0] == lhs.Args[0] && rhs.Args[1] == lhs.Args[2]
}

func checkIteBool6(lhs, rhs *Term) bool { // ite(c,a,false) -> (and c a)
	if lhs.Symbol != "ite" || len(lhs.Args) != 3 || !isFalseLit(lhs.Args[2]) {
		return false
	}
	return rhs.Symbol == "and" && len(rhs.Args) == 2 && rhs.Args[0] == lhs.Args[0] && rhs.Args[1] == lhs.Args[1]
}

// :andToOr — (and a1 .. an) -> (not (or (not a1) .. (not an))).
func checkAndToOr(lhs, rhs *Term) bool {
	if lhs.Symbol != "and" {
		return false
	}
	if rhs.Symbol != "not" || len(rhs.Args) != 1 {
		return false
	}
	inner := rhs.Args[0]
	if inner.Symbol != "or" || len(inner.Args) != len(lhs.Args) {
		return false
	}
	for i, a := range inner.Args {
		if a.Symbol != "not" || len(a.Args) != 1 || a.Args[0] != lhs.Args[i] {
			return false
		}
	}
	return true
}

// :xorToDistinct — (xor a b) -> (distinct a b).
func checkXorToDistinct(lhs, rhs *Term) bool {
	if lhs.Symbol != "xor" || len(lhs.Args) != 2 {
		return false
	}
	return rhs.Symbol == "distinct" && len(rhs.Args) == 2 && rhs.Args[0] == lhs.Args[0] && rhs.Args[1] == lhs.Args[1]
}

// :impToOr — (=> a b) -> (or (not a) b).
func checkImpToOr(lhs, rhs *Term) bool {
	if lhs.Symbol != "=>" || len(lhs.Args) != 2 {
		return false
	}
	if rhs.Symbol != "or" || len(rhs.Args) != 2 {
		return false
	}
	notA := rhs.Args[0]
	return notA.Symbol == "not" && len(notA.Args) == 1 && notA.Args[0] == lhs.Args[0] && rhs.Args[1] == lhs.Args[1]
}

// :strip — a redundant single-argument "or"/"and" wrapper is dropped.
func checkStrip(lhs, rhs *Term) bool {
	return (lhs.Symbol == "or" || lhs.Symbol == "and") && len(lhs.Args) == 1 && rhs == lhs.Args[0]
}

// --- arithmetic family ---

// :canonicalSum — both sides of a +,-,* rewrite must describe the same
// affine combination, and rhs must already be in the flattened "+" shape
// the compiler's affineSurfaceTerm builds.
func checkCanonicalSum(lhs, rhs *Term) bool {
	if lhs.Sort != rhs.Sort || (lhs.Sort != SortInt && lhs.Sort != SortReal) {
		return false
	}
	switch lhs.Symbol {
	case "+", "-", "*":
	default:
		return false
	}
	if !localAffine(lhs).Equal(localAffine(rhs)) {
		return false
	}
	return rhs.Symbol == "+" || rhs.Symbol == "*" || rhs.Literal != nil || rhs.IsLeaf()
}

func checkLeqToLeq0(lhs, rhs *Term) bool {
	if lhs.Symbol != "<=" || len(lhs.Args) != 2 || rhs.Symbol == "not" {
		return false
	}
	return matchesLeq0(rhs, localAffine(lhs.Args[0]).Sub(localAffine(lhs.Args[1])))
}

func checkGeqToLeq0(lhs, rhs *Term) bool {
	if lhs.Symbol != ">=" || len(lhs.Args) != 2 || rhs.Symbol == "not" {
		return false
	}
	return matchesLeq0(rhs, localAffine(lhs.Args[1]).Sub(localAffine(lhs.Args[0])))
}

func checkLtToLeq0(lhs, rhs *Term) bool {
	if lhs.Symbol != "<" || len(lhs.Args) != 2 || rhs.Symbol != "not" || len(rhs.Args) != 1 {
		return false
	}
	want := localAffine(lhs.Args[1]).Sub(localAffine(lhs.Args[0]))
	return matchesLeq0(rhs.Args[0], want)
}

func checkGtToLeq0(lhs, rhs *Term) bool {
	if lhs.Symbol != ">" || len(lhs.Args) != 2 || rhs.Symbol != "not" || len(rhs.Args) != 1 {
		return false
	}
	want := localAffine(lhs.Args[0]).Sub(localAffine(lhs.Args[1]))
	return matchesLeq0(rhs.Args[0], want)
}

func checkLeqTrue(lhs, rhs *Term) bool {
	if lhs.Symbol != "<=" || len(lhs.Args) != 2 {
		return false
	}
	diff := localAffine(lhs.Args[0]).Sub(localAffine(lhs.Args[1]))
	return diff.IsConstant() && diff.Constant().Signum() <= 0 && isTrueLit(rhs)
}

func checkLeqFalse(lhs, rhs *Term) bool {
	if lhs.Symbol != "<=" || len(lhs.Args) != 2 {
		return false
	}
	diff := localAffine(lhs.Args[0]).Sub(localAffine(lhs.Args[1]))
	return diff.IsConstant() && diff.Constant().Signum() > 0 && isFalseLit(rhs)
}

// :desugar — unary/binary "-" unfolds to "+" of a negated operand.
func checkDesugar(lhs, rhs *Term) bool {
	switch {
	case lhs.Symbol == "-" && len(lhs.Args) == 1:
		return localAffine(rhs).Equal(localAffine(lhs.Args[0]).Negate())
	case lhs.Symbol == "-" && len(lhs.Args) == 2:
		return localAffine(rhs).Equal(localAffine(lhs.Args[0]).Sub(localAffine(lhs.Args[1])))
	default:
		return false
	}
}

// :divisible — (divisible k n) -> (= (mod n k) 0).
func checkDivisible(lhs, rhs *Term) bool {
	if lhs.Symbol != "divisible" || len(lhs.Args) != 2 {
		return false
	}
	k, n := lhs.Args[0], lhs.Args[1]
	if rhs.Symbol != "=" || len(rhs.Args) != 2 || !isZeroLit(rhs.Args[1]) {
		return false
	}
	modTerm := rhs.Args[0]
	return modTerm.Symbol == "mod" && len(modTerm.Args) == 2 && modTerm.Args[0] == n && modTerm.Args[1] == k
}

func checkDivOne(lhs, rhs *Term) bool {
	return lhs.Symbol == "div" && len(lhs.Args) == 2 && lhs.Args[1].Literal != nil &&
		lhs.Args[1].Literal.Equal(RationalFromInt64(1)) && rhs == lhs.Args[0]
}

// :divMinusOne — (div a -1) -> -a.
func checkDivMinusOne(lhs, rhs *Term) bool {
	if lhs.Symbol != "div" || len(lhs.Args) != 2 {
		return false
	}
	divisor := lhs.Args[1]
	if divisor.Literal == nil || !divisor.Literal.Equal(RationalFromInt64(-1)) {
		return false
	}
	return localAffine(rhs).Equal(localAffine(lhs.Args[0]).Negate())
}

// :divConst — constant-divisor evaluation: division by zero produces an
// opaque witness constant, otherwise the floored quotient.
func checkDivConst(lhs, rhs *Term) bool {
	if lhs.Symbol != "div" || len(lhs.Args) != 2 {
		return false
	}
	dividend, divisor := lhs.Args[0], lhs.Args[1]
	if divisor.Literal != nil && divisor.Literal.IsZero() {
		return rhs.IsLeaf() && rhs.Literal == nil && rhs.Sort == lhs.Sort
	}
	if dividend.Literal != nil && divisor.Literal != nil && !divisor.Literal.IsZero() {
		want := dividend.Literal.Div(*divisor.Literal).Floor()
		return rhs.Literal != nil && rhs.Literal.Equal(want)
	}
	return false
}

// :moduloOne — (mod a 1) -> 0.
func checkModuloOne(lhs, rhs *Term) bool {
	if lhs.Symbol != "mod" || len(lhs.Args) != 2 || lhs.Args[1].Literal == nil {
		return false
	}
	return lhs.Args[1].Literal.Equal(RationalFromInt64(1)) && isZeroLit(rhs)
}

// :moduloMinusOne — (mod a -1) -> 0.
func checkModuloMinusOne(lhs, rhs *Term) bool {
	if lhs.Symbol != "mod" || len(lhs.Args) != 2 || lhs.Args[1].Literal == nil {
		return false
	}
	return lhs.Args[1].Literal.Equal(RationalFromInt64(-1)) && isZeroLit(rhs)
}

// :moduloConst — constant-divisor evaluation, mirroring :divConst.
func checkModuloConst(lhs, rhs *Term) bool {
	if lhs.Symbol != "mod" || len(lhs.Args) != 2 {
		return false
	}
	dividend, divisor := lhs.Args[0], lhs.Args[1]
	if divisor.Literal != nil && divisor.Literal.IsZero() {
		return rhs.IsLeaf() && rhs.Literal == nil && rhs.Sort == lhs.Sort
	}
	if dividend.Literal != nil && divisor.Literal != nil && !divisor.Literal.IsZero() {
		q := dividend.Literal.Div(*divisor.Literal).Floor()
		r := dividend.Literal.Sub(q.Mul(*divisor.Literal))
		return rhs.Literal != nil && rhs.Literal.Equal(r)
	}
	return false
}

// :modulo — (mod a b) -> (- a (* b (div a b))), the general (non-constant)
// case.
func checkModulo(lhs, rhs *Term) bool {
	if lhs.Symbol != "mod" || len(lhs.Args) != 2 {
		return false
	}
	dividend, divisor := lhs.Args[0], lhs.Args[1]
	if rhs.Symbol != "-" || len(rhs.Args) != 2 || rhs.Args[0] != dividend {
		return false
	}
	prod := rhs.Args[1]
	if prod.Symbol != "*" || len(prod.Args) != 2 || prod.Args[0] != divisor {
		return false
	}
	divApp := prod.Args[1]
	return divApp.Symbol == "div" && len(divApp.Args) == 2 && divApp.Args[0] == dividend && divApp.Args[1] == divisor
}

// :toInt — (to_int a): identity on an already-integer-sorted term, floor on
// a literal.
func checkToInt(lhs, rhs *Term) bool {
	if lhs.Symbol != "to_int" || len(lhs.Args) != 1 {
		return false
	}
	arg := lhs.Args[0]
	if arg.Literal != nil {
		return rhs.Literal != nil && rhs.Sort == SortInt && rhs.Literal.Equal(arg.Literal.Floor())
	}
	return arg.Sort == SortInt && rhs == arg
}

// --- array family ---

// :storeOverStore — store(store(a,i,v),i,w) -> store(a,i,w) when the two
// indices are provably constant and equal.
func checkStoreOverStore(lhs, rhs *Term) bool {
	if lhs.Symbol != "store" || len(lhs.Args) != 3 {
		return false
	}
	inner := lhs.Args[0]
	if inner.Symbol != "store" || len(inner.Args) != 3 {
		return false
	}
	if !constantEqual(inner.Args[1], lhs.Args[1]) {
		return false
	}
	return rhs.Symbol == "store" && len(rhs.Args) == 3 &&
		rhs.Args[0] == inner.Args[0] && rhs.Args[1] == lhs.Args[1] && rhs.Args[2] == lhs.Args[2]
}

// :selectOverStore — select(store(a,i,v),j): -> v when i,j are provably
// constant-equal, -> select(a,j) when they are provably constant-different.
func checkSelectOverStore(lhs, rhs *Term) bool {
	if lhs.Symbol != "select" || len(lhs.Args) != 2 {
		return false
	}
	storeT := lhs.Args[0]
	if storeT.Symbol != "store" || len(storeT.Args) != 3 {
		return false
	}
	if constantEqual(storeT.Args[1], lhs.Args[1]) {
		return rhs == storeT.Args[2]
	}
	if constantDifferent(storeT.Args[1], lhs.Args[1]) {
		return rhs.Symbol == "select" && len(rhs.Args) == 2 &&
			rhs.Args[0] == storeT.Args[0] && rhs.Args[1] == lhs.Args[1]
	}
	return false
}

// :flatten — nested applications of an associative "or"/"and"/"+" collapse
// one level.
func checkFlatten(lhs, rhs *Term) bool {
	switch lhs.Symbol {
	case "or", "and", "+":
	default:
		return false
	}
	var want []*Term
	for _, a := range lhs.Args {
		if a.Symbol == lhs.Symbol {
			want = append(want, a.Args...)
		} else {
			want = append(want, a)
		}
	}
	if rhs.Symbol != lhs.Symbol || len(rhs.Args) != len(want) {
		return false
	}
	for i, w := range want {
		if rhs.Args[i] != w {
			return false
		}
	}
	return true
}

// :storeRewrite — the general (non-constant-index) read-over-write axiom:
// select(store(a,i,v),j) -> (ite (= i j) v (select a j)).
func checkStoreRewrite(lhs, rhs *Term) bool {
	if lhs.Symbol != "select" || len(lhs.Args) != 2 {
		return false
	}
	storeT := lhs.Args[0]
	if storeT.Symbol != "store" || len(storeT.Args) != 3 {
		return false
	}
	i, j := storeT.Args[1], lhs.Args[1]
	if rhs.Symbol != "ite" || len(rhs.Args) != 3 {
		return false
	}
	cond := rhs.Args[0]
	if cond.Symbol != "=" || len(cond.Args) != 2 || cond.Args[0] != i || cond.Args[1] != j {
		return false
	}
	if rhs.Args[1] != storeT.Args[2] {
		return false
	}
	elseSel := rhs.Args[2]
	return elseSel.Symbol == "select" && len(elseSel.Args) == 2 &&
		elseSel.Args[0] == storeT.Args[0] && elseSel.Args[1] == j
}

// checkRewrite looks up rule in rewriteRuleTable and applies it, reporting
// an unknown rule name as a failure rather than silently accepting it.
func checkRewrite(rule string, lhs, rhs *Term) bool {
	v, ok := rewriteRuleTable[rule]
	if !ok {
		return false
	}
	return v(lhs, rhs)
}
