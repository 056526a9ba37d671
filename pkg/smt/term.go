package smt

import (
	"fmt"
	"strconv"
	"strings"
)

// Sort is a first-order sort: one of the base sorts (Bool, Int, Real) or a
// parametric Array sort. Sorts are interned the same way terms are, so
// pointer equality suffices for sort equality.
type Sort struct {
	Name string
	Args []*Sort
}

var (
	sortTable = map[string]*Sort{}

	// SortBool, SortInt, SortReal are the three base sorts this core
	// reasons about directly; everything else is an uninterpreted sort or
	// an Array sort built from these.
	SortBool = internSort("Bool")
	SortInt  = internSort("Int")
	SortReal = internSort("Real")
)

func internSort(name string, args ...*Sort) *Sort {
	key := name
	for _, a := range args {
		key += "|" + a.Name
	}
	if s, ok := sortTable[key]; ok {
		return s
	}
	s := &Sort{Name: name, Args: args}
	sortTable[key] = s
	return s
}

// ArraySort returns (possibly reusing) the sort "(Array index elem)".
func ArraySort(index, elem *Sort) *Sort {
	return internSort("Array", index, elem)
}

// UninterpretedSort returns (possibly reusing) a fresh uninterpreted base
// sort with the given name.
func UninterpretedSort(name string) *Sort { return internSort(name) }

// IsArray reports whether s is an Array sort, and if so returns its index
// and element sorts.
func (s *Sort) IsArray() (index, elem *Sort, ok bool) {
	if s.Name == "Array" && len(s.Args) == 2 {
		return s.Args[0], s.Args[1], true
	}
	return nil, nil, false
}

func (s *Sort) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = a.String()
	}
	return "(" + s.Name + " " + strings.Join(parts, " ") + ")"
}

// Term is a node in the hash-consed first-order term DAG. Terms are
// immutable once constructed and compared by identity (pointer equality) —
// a TermTable never produces two distinct *Term values for the same
// (symbol, sort, args) triple, so structural sharing is automatic and
// equality never needs to walk the structure.
//
// A Term is one of:
//   - a 0-ary constant symbol (Args is nil) — this includes literal values
//     (Literal != nil) and free/uninterpreted constants (Literal == nil).
//   - an application of Symbol to Args (an uninterpreted function, or one
//     of the small set of builtin arithmetic/array/boolean operators the
//     term compiler consumes before producing the final {not,or,ite,=,<=}
//     normal form).
type Term struct {
	id      int
	Sort    *Sort
	Symbol  string
	Args    []*Term
	Literal *Rational // non-nil for numeric literal constants
	IsBool  *bool     // non-nil for the Boolean literals true/false
}

// ID returns the term's creation-order identifier, stable for the lifetime
// of the owning TermTable. Used as the key into AffineTerm coefficient maps
// once a term participates in linear arithmetic.
func (t *Term) ID() int { return t.id }

// Equal is identity comparison — valid because every Term reachable through
// a TermTable is hash-consed.
func (t *Term) Equal(other *Term) bool { return t == other }

// IsLeaf reports whether t is a 0-ary symbol (a constant or variable).
func (t *Term) IsLeaf() bool { return len(t.Args) == 0 }

func (t *Term) String() string {
	switch {
	case t.Literal != nil:
		return t.Literal.String()
	case t.IsBool != nil:
		if *t.IsBool {
			return "true"
		}
		return "false"
	case len(t.Args) == 0:
		return t.Symbol
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return "(" + t.Symbol + " " + strings.Join(parts, " ") + ")"
}

// TermTable owns the hash-consing table for one solver session. Every Term
// and Sort the solver touches during that session is allocated through
// exactly one TermTable, so that identity comparison is valid across the
// whole session.
type TermTable struct {
	next  int
	table map[string]*Term
}

// NewTermTable returns an empty term table.
func NewTermTable() *TermTable {
	return &TermTable{table: make(map[string]*Term)}
}

// Intern returns the unique *Term for (symbol, sort, args), allocating a new
// one on first use.
func (tt *TermTable) Intern(symbol string, sort *Sort, args ...*Term) *Term {
	key := termKey(symbol, sort, args)
	if t, ok := tt.table[key]; ok {
		return t
	}
	t := &Term{id: tt.next, Sort: sort, Symbol: symbol, Args: args}
	tt.next++
	tt.table[key] = t
	return t
}

// InternLiteral returns the unique *Term for the numeric literal r of the
// given sort (SortInt or SortReal).
func (tt *TermTable) InternLiteral(r Rational, sort *Sort) *Term {
	key := "#lit|" + sort.Name + "|" + r.String()
	if t, ok := tt.table[key]; ok {
		return t
	}
	rc := r
	t := &Term{id: tt.next, Sort: sort, Symbol: r.String(), Literal: &rc}
	tt.next++
	tt.table[key] = t
	return t
}

// InternBool returns the unique *Term for a Boolean literal.
func (tt *TermTable) InternBool(v bool) *Term {
	key := "#bool|" + strconv.FormatBool(v)
	if t, ok := tt.table[key]; ok {
		return t
	}
	vc := v
	t := &Term{id: tt.next, Sort: SortBool, Symbol: strconv.FormatBool(v), IsBool: &vc}
	tt.next++
	tt.table[key] = t
	return t
}

// FreshConstant allocates a new, never-before-seen 0-ary symbol of the given
// sort — used by the term compiler for the opaque @/0, @div0, @mod0
// division-by-zero witnesses (§4.6) and for clausification's proxy atoms.
func (tt *TermTable) FreshConstant(prefix string, sort *Sort) *Term {
	name := fmt.Sprintf("%s!%d", prefix, tt.next)
	return tt.Intern(name, sort)
}

func termKey(symbol string, sort *Sort, args []*Term) string {
	var b strings.Builder
	b.WriteString(symbol)
	b.WriteByte('|')
	b.WriteString(sort.String())
	for _, a := range args {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(a.id))
	}
	return b.String()
}
