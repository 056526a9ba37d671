package smt

// AtomKind distinguishes the shapes of atom this core reasons about
// directly; everything else is pushed down to an uninterpreted predicate
// application by the term compiler.
type AtomKind int

const (
	// AtomBound is a normalized linear-arithmetic bound "p <= 0" (or,
	// with Strict set, "p < 0"), tied to a LinVar once the affine term has
	// been compiled into the tableau.
	AtomBound AtomKind = iota
	// AtomEq is an arithmetic equality "p == 0" over an affine term.
	AtomEq
	// AtomCCEq is an uninterpreted-function-theory equality between two
	// terms (including array terms, for read-over-write/extensionality).
	AtomCCEq
	// AtomPred is an uninterpreted Boolean-sorted predicate application
	// (a 0-ary or n-ary Term of sort Bool used directly as an atom).
	AtomPred
)

// Atom is the theory-level content of a literal, independent of polarity.
// Two calls that would produce the same atom return the same *Atom — atom
// identity is how the clausifier shares a single LinVar bound-constraint
// list entry across repeated assertions of the same normalized bound
// (§4.6's supplemented "bound-constraint atom caching").
type Atom struct {
	id     int
	Kind   AtomKind
	Affine *AffineTerm // for AtomEq: the original "expr == 0" affine term, kept for display; bound atoms from the atom factory leave it nil
	Strict bool        // for AtomBound: strict in the direction Upper names ("<" if Upper, ">" otherwise)
	Term1  *Term       // for AtomCCEq / AtomPred: left-hand term, or the predicate application
	Term2  *Term       // for AtomCCEq: right-hand term
	Var    *LinVar     // the tableau subject variable this bound/eq atom constrains
	Bound  Rational    // for AtomBound: the threshold Var is compared against
	Upper  bool        // for AtomBound: true if this atom asserts Var <= Bound (or <), false if Var >= Bound (or >)
}

// String renders the atom in its normalized surface form.
func (a *Atom) String() string {
	switch a.Kind {
	case AtomBound:
		expr := trichotomyAffine(a)
		if expr == nil {
			expr = NewAffineTerm()
		}
		if a.Strict {
			return "(< " + expr.String() + " 0)"
		}
		return "(<= " + expr.String() + " 0)"
	case AtomEq:
		return "(= " + a.Affine.String() + " 0)"
	case AtomCCEq:
		return "(= " + a.Term1.String() + " " + a.Term2.String() + ")"
	default:
		return a.Term1.String()
	}
}

func (a *AffineTerm) String() string {
	vs := a.Vars()
	parts := ""
	for i, v := range vs {
		c := a.Coeff(v)
		if i > 0 {
			parts += " "
		}
		parts += c.String() + "*v" + itoa(v)
	}
	if !a.constant.IsZero() || len(vs) == 0 {
		if parts != "" {
			parts += " "
		}
		parts += a.constant.String()
	}
	return "(+ " + parts + ")"
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Literal is an atom with a polarity.
type Literal struct {
	Atom     *Atom
	Polarity bool
}

// Negate returns the literal with the opposite polarity over the same atom.
func (l *Literal) Negate() *Literal { return &Literal{Atom: l.Atom, Polarity: !l.Polarity} }

// String renders the literal, prefixing "(not ...)" when negative.
func (l *Literal) String() string {
	if l.Polarity {
		return l.Atom.String()
	}
	return "(not " + l.Atom.String() + ")"
}

// Clause is a multiset of literals, treated as a disjunction for DPLL
// purposes and as a set for the proof checker's @res/@clause rules.
type Clause struct {
	Literals []*Literal
}

// NewClause builds a clause from the given literals, in the order given.
func NewClause(lits ...*Literal) *Clause {
	return &Clause{Literals: append([]*Literal(nil), lits...)}
}

// Contains reports whether the clause contains a literal with the same atom
// and polarity as l.
func (c *Clause) Contains(l *Literal) bool {
	for _, cl := range c.Literals {
		if cl.Atom == l.Atom && cl.Polarity == l.Polarity {
			return true
		}
	}
	return false
}

// LiteralSet returns the clause's literals as a set keyed by (atom,
// polarity), collapsing duplicates — the representation the @res and
// @clause checking rules operate over (§4.5: "a clause is a multiset of
// literals" at the proof-term level but resolution and set equality both
// treat it as a set).
func (c *Clause) LiteralSet() map[litKey]*Literal {
	out := make(map[litKey]*Literal, len(c.Literals))
	for _, l := range c.Literals {
		out[litKey{l.Atom, l.Polarity}] = l
	}
	return out
}

// String renders the clause as a space-separated disjunction.
func (c *Clause) String() string {
	s := "("
	for i, l := range c.Literals {
		if i > 0 {
			s += " "
		}
		s += l.String()
	}
	return s + ")"
}

type litKey struct {
	atom     *Atom
	polarity bool
}
