package grammar

import (
	"github.com/dekarrin/gar/symbols"
)

// Production is a rewrite rule: the LHS can be replaced with the RHS wherever
// it occurs in a sentential form.
type Production struct {
	LHS symbols.String
	RHS symbols.String
}

// NewProduction creates a Production from the given sides.
func NewProduction(lhs, rhs symbols.String) Production {
	return Production{LHS: symbols.Of(lhs...), RHS: symbols.Of(rhs...)}
}

// Equal returns whether p and o have the same LHS and RHS.
func (p Production) Equal(o Production) bool {
	return p.LHS.Equal(o.LHS) && p.RHS.Equal(o.RHS)
}

// Compare orders productions by LHS and then by RHS. It returns a negative
// number if p comes before o, a positive number if p comes after o, and 0 if
// they are equal.
func (p Production) Compare(o Production) int {
	if c := p.LHS.Compare(o.LHS); c != 0 {
		return c
	}
	return p.RHS.Compare(o.RHS)
}

// IsStartProduction returns whether the LHS of p is exactly the given start
// variable. It is always false for the zero Symbol.
func (p Production) IsStartProduction(start symbols.Symbol) bool {
	return !start.IsZero() && len(p.LHS) == 1 && p.LHS[0] == start
}

// ContainsSymbol returns whether sym occurs on either side of p.
func (p Production) ContainsSymbol(sym symbols.Symbol) bool {
	return p.LHS.Contains(sym) || p.RHS.Contains(sym)
}

// Symbols returns every symbol in the LHS followed by every symbol in the RHS,
// with repeats.
func (p Production) Symbols() symbols.String {
	return symbols.Concat(p.LHS, p.RHS)
}

func (p Production) String() string {
	return p.LHS.String() + " → " + p.RHS.String()
}
