// Package grammar holds grammars made of productions over symbol strings, and
// a bounded explorer of the derivations they allow.
//
// A Grammar is a mutable container meant for a single writer, the same as an
// automaton.Automaton.
package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/gar/garerrors"
	"github.com/dekarrin/gar/symbols"
)

// Type is the most restrictive class of grammar that a Grammar's productions
// all fit in.
type Type int

const (
	Unrestricted Type = iota
	ContextFree
	RightLinear
)

func (t Type) String() string {
	switch t {
	case Unrestricted:
		return "unrestricted"
	case ContextFree:
		return "context-free"
	case RightLinear:
		return "right-linear"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Grammar is an ordered list of productions over a terminal alphabet and a
// variable alphabet, with an optional start variable. No two productions in a
// Grammar are equal.
//
// Grammar must be created with New.
type Grammar struct {
	terminals *symbols.Alphabet
	variables *symbols.Alphabet
	start     symbols.Symbol
	prods     []Production
}

// New creates a Grammar with no productions over the given alphabets. A nil
// alphabet is replaced with a new empty one.
func New(terminals, variables *symbols.Alphabet) *Grammar {
	if terminals == nil {
		terminals = symbols.MustAlphabet("terminals", symbols.Terminal)
	}
	if variables == nil {
		variables = symbols.MustAlphabet("variables", symbols.Variable)
	}
	return &Grammar{terminals: terminals, variables: variables}
}

// Terminals returns the terminal alphabet of the grammar.
func (g *Grammar) Terminals() *symbols.Alphabet {
	return g.terminals
}

// Variables returns the variable alphabet of the grammar.
func (g *Grammar) Variables() *symbols.Alphabet {
	return g.variables
}

// Parse parses text into a String of terminals and variables, trying
// terminals first.
func (g *Grammar) Parse(text string) (symbols.String, error) {
	return symbols.Parse(text, g.terminals, g.variables)
}

// SetStartVariable sets the start variable. Fails with ErrInvalidReference if
// v is not in the variable alphabet.
func (g *Grammar) SetStartVariable(v symbols.Symbol) error {
	if !g.variables.Has(v) {
		return garerrors.InvalidReferencef("%q is not a variable of the grammar", v.Text())
	}
	g.start = v
	return nil
}

// ClearStartVariable makes the grammar have no start variable.
func (g *Grammar) ClearStartVariable() {
	g.start = symbols.Symbol{}
}

// StartVariable returns the start variable. ok is false if none is set.
func (g *Grammar) StartVariable() (v symbols.Symbol, ok bool) {
	return g.start, !g.start.IsZero()
}

func (g *Grammar) isVariable(sym symbols.Symbol) bool {
	return g.variables.Has(sym)
}

// CheckProduction checks whether p could be added to the grammar. Fails with
// ErrInvalid if its LHS has no variable, with ErrInvalidReference if it uses a
// symbol that is in neither alphabet, and with ErrDuplicate if it is already
// in the grammar.
func (g *Grammar) CheckProduction(p Production) error {
	hasVar := false
	for _, sym := range p.LHS {
		if g.isVariable(sym) {
			hasVar = true
			break
		}
	}
	if !hasVar {
		return garerrors.Invalidf("the left side of %s must contain a variable", p)
	}

	for _, sym := range p.Symbols() {
		if !g.terminals.Has(sym) && !g.variables.Has(sym) {
			return garerrors.InvalidReferencef("%q in %s is not a terminal or variable of the grammar", sym.Text(), p)
		}
	}

	if g.indexOf(p) >= 0 {
		return garerrors.Duplicatef("the production %s is already in the grammar", p)
	}

	return nil
}

func (g *Grammar) indexOf(p Production) int {
	for i := range g.prods {
		if g.prods[i].Equal(p) {
			return i
		}
	}
	return -1
}

// Contains returns whether p is in the grammar.
func (g *Grammar) Contains(p Production) bool {
	return g.indexOf(p) >= 0
}

// AddProduction adds p to the end of the productions. The grammar is unchanged
// if CheckProduction fails.
func (g *Grammar) AddProduction(p Production) error {
	return g.InsertProduction(len(g.prods), p)
}

// InsertProduction adds p so that it has the given index, moving the
// production at that index and all after it back by one. The grammar is
// unchanged if CheckProduction fails or the index is out of range.
func (g *Grammar) InsertProduction(idx int, p Production) error {
	if idx < 0 || idx > len(g.prods) {
		return garerrors.Invalidf("index %d is out of range for %d production(s)", idx, len(g.prods))
	}
	if err := g.CheckProduction(p); err != nil {
		return err
	}

	p = NewProduction(p.LHS, p.RHS)
	g.prods = append(g.prods, Production{})
	copy(g.prods[idx+1:], g.prods[idx:])
	g.prods[idx] = p
	return nil
}

// RemoveProduction removes p from the grammar and returns whether it was
// there.
func (g *Grammar) RemoveProduction(p Production) bool {
	idx := g.indexOf(p)
	if idx < 0 {
		return false
	}
	g.prods = append(g.prods[:idx], g.prods[idx+1:]...)
	return true
}

// RemoveProductionAt removes and returns the production at the given index.
func (g *Grammar) RemoveProductionAt(idx int) (Production, error) {
	if idx < 0 || idx >= len(g.prods) {
		return Production{}, garerrors.Invalidf("index %d is out of range for %d production(s)", idx, len(g.prods))
	}
	p := g.prods[idx]
	g.prods = append(g.prods[:idx], g.prods[idx+1:]...)
	return p, nil
}

// RemoveProductions removes every given production that is in the grammar and
// returns how many were removed.
func (g *Grammar) RemoveProductions(ps ...Production) int {
	removed := 0
	for _, p := range ps {
		if g.RemoveProduction(p) {
			removed++
		}
	}
	return removed
}

// Clear removes every production.
func (g *Grammar) Clear() {
	g.prods = nil
}

// NumProductions returns the number of productions.
func (g *Grammar) NumProductions() int {
	return len(g.prods)
}

// Production returns the production at the given index.
func (g *Grammar) Production(idx int) (Production, bool) {
	if idx < 0 || idx >= len(g.prods) {
		return Production{}, false
	}
	return g.prods[idx], true
}

// Productions returns every production in order.
func (g *Grammar) Productions() []Production {
	return append([]Production(nil), g.prods...)
}

// ProductionsUsingSymbol returns every production that has sym on either side,
// in order.
func (g *Grammar) ProductionsUsingSymbol(sym symbols.Symbol) []Production {
	var using []Production
	for _, p := range g.prods {
		if p.ContainsSymbol(sym) {
			using = append(using, p)
		}
	}
	return using
}

// ProductionWithLHS returns the first production whose LHS is lhs.
func (g *Grammar) ProductionWithLHS(lhs symbols.String) (Production, bool) {
	for _, p := range g.prods {
		if p.LHS.Equal(lhs) {
			return p, true
		}
	}
	return Production{}, false
}

// ProductionsWithLHS returns every production whose LHS is lhs, in order.
func (g *Grammar) ProductionsWithLHS(lhs symbols.String) []Production {
	var with []Production
	for _, p := range g.prods {
		if p.LHS.Equal(lhs) {
			with = append(with, p)
		}
	}
	return with
}

// LHSes returns the LHS of every production in order.
func (g *Grammar) LHSes() []symbols.String {
	sides := make([]symbols.String, len(g.prods))
	for i := range g.prods {
		sides[i] = g.prods[i].LHS
	}
	return sides
}

// RHSes returns the RHS of every production in order.
func (g *Grammar) RHSes() []symbols.String {
	sides := make([]symbols.String, len(g.prods))
	for i := range g.prods {
		sides[i] = g.prods[i].RHS
	}
	return sides
}

// SymbolsUsed returns every symbol that occurs in any production, sorted.
func (g *Grammar) SymbolsUsed() []symbols.Symbol {
	seen := map[symbols.Symbol]bool{}
	var used []symbols.Symbol
	for _, p := range g.prods {
		for _, sym := range p.Symbols() {
			if !seen[sym] {
				seen[sym] = true
				used = append(used, sym)
			}
		}
	}
	sort.Slice(used, func(i, j int) bool {
		return used[i].Compare(used[j]) < 0
	})
	return used
}

// SortProductions sorts the productions so that every production of the start
// variable comes first, in the order they were already in, followed by every
// other production in natural order.
func (g *Grammar) SortProductions() {
	sort.SliceStable(g.prods, func(i, j int) bool {
		iStart := g.prods[i].IsStartProduction(g.start)
		jStart := g.prods[j].IsStartProduction(g.start)
		if iStart || jStart {
			return iStart && !jStart
		}
		return g.prods[i].Compare(g.prods[j]) < 0
	})
}

// UsesSymbol returns whether sym is in any production or is the start
// variable.
func (g *Grammar) UsesSymbol(sym symbols.Symbol) bool {
	if g.start == sym && !sym.IsZero() {
		return true
	}
	for _, p := range g.prods {
		if p.ContainsSymbol(sym) {
			return true
		}
	}
	return false
}

// PurgeSymbol removes every occurrence of sym from both sides of every
// production, and unsets it as the start variable. Productions that become
// equal to an earlier one are dropped.
func (g *Grammar) PurgeSymbol(sym symbols.Symbol) {
	if g.start == sym {
		g.start = symbols.Symbol{}
	}
	g.mapProductions(func(s symbols.String) symbols.String {
		return s.Without(sym)
	})
}

// ReplaceSymbol replaces every occurrence of old in every production with
// repl, and the start variable if it is old. Productions that become equal to
// an earlier one are dropped.
func (g *Grammar) ReplaceSymbol(old, repl symbols.Symbol) {
	if g.start == old {
		g.start = repl
	}
	g.mapProductions(func(s symbols.String) symbols.String {
		return s.Replace(old, repl)
	})
}

func (g *Grammar) mapProductions(f func(symbols.String) symbols.String) {
	mapped := make([]Production, 0, len(g.prods))
	for _, p := range g.prods {
		np := Production{LHS: f(p.LHS), RHS: f(p.RHS)}

		dup := false
		for i := range mapped {
			if mapped[i].Equal(np) {
				dup = true
				break
			}
		}
		if !dup {
			mapped = append(mapped, np)
		}
	}
	g.prods = mapped
}

// Type returns the most restrictive class that every production fits in.
func (g *Grammar) Type() Type {
	t := RightLinear
	for _, p := range g.prods {
		if len(p.LHS) != 1 || !g.isVariable(p.LHS[0]) {
			return Unrestricted
		}
		if t == RightLinear && !g.isRightLinear(p.RHS) {
			t = ContextFree
		}
	}
	return t
}

// isRightLinear returns whether rhs is zero or more terminals optionally
// followed by a single variable.
func (g *Grammar) isRightLinear(rhs symbols.String) bool {
	for i, sym := range rhs {
		if g.isVariable(sym) && i != len(rhs)-1 {
			return false
		}
	}
	return true
}

// Validate returns an error matching ErrIncomplete if the grammar cannot be
// used for derivation as it is. The reason lists every problem found.
func (g *Grammar) Validate() error {
	var problems []string

	if g.start.IsZero() {
		problems = append(problems, "there is no start variable")
	} else if !g.variables.Has(g.start) {
		problems = append(problems, fmt.Sprintf("start variable %q is not in the variable alphabet", g.start.Text()))
	}
	if len(g.prods) == 0 {
		problems = append(problems, "there are no productions")
	} else if !g.start.IsZero() {
		hasStart := false
		for _, p := range g.prods {
			if p.IsStartProduction(g.start) {
				hasStart = true
				break
			}
		}
		if !hasStart {
			problems = append(problems, fmt.Sprintf("no production has only %q on its left side", g.start.Text()))
		}
	}
	for _, p := range g.prods {
		if p.LHS.IsEmpty() {
			problems = append(problems, fmt.Sprintf("%s has an empty left side", p))
		}
	}

	if len(problems) > 0 {
		return garerrors.New(garerrors.ErrIncomplete, strings.Join(problems, "; "))
	}
	return nil
}

// Copy returns a deep copy of the grammar, including new alphabets with the
// same symbols.
func (g *Grammar) Copy() *Grammar {
	cp := &Grammar{
		terminals: copyAlphabet(g.terminals),
		variables: copyAlphabet(g.variables),
		start:     g.start,
		prods:     make([]Production, len(g.prods)),
	}
	for i := range g.prods {
		cp.prods[i] = NewProduction(g.prods[i].LHS, g.prods[i].RHS)
	}
	return cp
}

func copyAlphabet(a *symbols.Alphabet) *symbols.Alphabet {
	syms := a.Symbols()
	texts := make([]string, len(syms))
	for i := range syms {
		texts[i] = syms[i].Text()
	}
	return symbols.MustAlphabet(a.Name(), a.Kind(), texts...)
}

// String shows the variables, terminals, start variable, and productions of
// the grammar.
func (g *Grammar) String() string {
	var sb strings.Builder

	start := "<none>"
	if v, ok := g.StartVariable(); ok {
		start = v.Text()
	}

	sb.WriteString("V: " + g.variables.String() + "\n")
	sb.WriteString("T: " + g.terminals.String() + "\n")
	sb.WriteString("S: " + start + "\n")
	sb.WriteString("P:")
	for _, p := range g.prods {
		sb.WriteString("\n\t" + p.String())
	}

	return sb.String()
}
