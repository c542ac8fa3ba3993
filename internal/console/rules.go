package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/gar/garerrors"
	"github.com/dekarrin/gar/grammar"
	"github.com/dekarrin/rosed"
)

// productionArrows are the separators accepted between the sides of a
// production, longest first.
var productionArrows = []string{"->", "→", "=>"}

// parseProductions parses "LHS -> RHS | RHS ..." into one production per RHS.
func (s *Session) parseProductions(text string) ([]grammar.Production, error) {
	var lhsText, rhsText string
	found := false
	for _, arrow := range productionArrows {
		if before, after, ok := strings.Cut(text, arrow); ok {
			lhsText, rhsText, found = before, after, true
			break
		}
	}
	if !found {
		return nil, garerrors.Invalidf("a production must be written LHS -> RHS")
	}

	lhs, err := s.gram.Parse(compact(lhsText))
	if err != nil {
		return nil, fmt.Errorf("left side: %w", err)
	}

	var prods []grammar.Production
	for _, alt := range strings.Split(rhsText, "|") {
		rhs, err := s.gram.Parse(compact(alt))
		if err != nil {
			return nil, fmt.Errorf("right side: %w", err)
		}
		prods = append(prods, grammar.NewProduction(lhs, rhs))
	}
	return prods, nil
}

func (s *Session) executeProd(cmd Command) (string, error) {
	prods, err := s.parseProductions(cmd.Rest(0))
	if err != nil {
		return "", err
	}

	added := make([]string, 0, len(prods))
	for _, p := range prods {
		if err := s.gram.AddProduction(p); err != nil {
			return strings.Join(added, "\n"), err
		}
		added = append(added, "Added "+s.showProduction(p))
	}
	return strings.Join(added, "\n"), nil
}

func (s *Session) executeUnprod(cmd Command) (string, error) {
	prods, err := s.parseProductions(cmd.Rest(0))
	if err != nil {
		return "", err
	}
	if len(prods) != 1 {
		return "", garerrors.Invalidf("UNPROD removes one production at a time")
	}

	if !s.gram.RemoveProduction(prods[0]) {
		return "", garerrors.InvalidReferencef("the grammar has no production %s", s.showProduction(prods[0]))
	}
	return "Removed " + s.showProduction(prods[0]), nil
}

func (s *Session) executeStart(cmd Command) (string, error) {
	sym, err := s.symbol(s.gram.Variables(), cmd.Args[0])
	if err != nil {
		return "", err
	}
	if err := s.gram.SetStartVariable(sym); err != nil {
		return "", err
	}
	return fmt.Sprintf("The start variable is now %s", sym), nil
}

func (s *Session) executeDerive(cmd Command) (string, error) {
	target, err := s.gram.Parse(compact(cmd.Rest(0)))
	if err != nil {
		return "", fmt.Errorf("target: %w", err)
	}

	d, err := grammar.Derive(s.gram, target, s.prof.DeriveOptions(s.log))
	if err != nil {
		return "", err
	}

	shown := s.prof.Show(target)
	if !d.Found {
		if d.Truncated {
			return fmt.Sprintf("No derivation of %s was found in %d forms; the search stopped before it was finished", shown, d.Explored()), nil
		}
		return fmt.Sprintf("%s cannot be derived (%d forms explored)", shown, d.Explored()), nil
	}

	data := [][]string{{"Step", "Form", "Production"}}
	for i, st := range d.Steps() {
		prod := ""
		if st.Position >= 0 {
			prod = s.showProduction(st.Production)
		}
		data = append(data, []string{strconv.Itoa(i), s.prof.Show(st.Form), prod})
	}

	msg := fmt.Sprintf("Derived %s in %d step%s (%d forms explored)\n", shown, len(d.Steps())-1, plural(len(d.Steps())-1), d.Explored())
	return msg + s.table(data), nil
}

func (s *Session) showProduction(p grammar.Production) string {
	return s.prof.Show(p.LHS) + " → " + s.prof.Show(p.RHS)
}

func (s *Session) showProductions() string {
	if s.gram.NumProductions() == 0 {
		return "(no productions)"
	}
	data := [][]string{{"#", "Production"}}
	for i, p := range s.gram.Productions() {
		data = append(data, []string{strconv.Itoa(i), s.showProduction(p)})
	}
	return s.table(data)
}

func (s *Session) showGrammar() string {
	g := s.gram

	start := "(none)"
	if v, ok := g.StartVariable(); ok {
		start = v.Text()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s grammar with %d production%s\n", g.Type(), g.NumProductions(), plural(g.NumProductions())))
	sb.WriteString(fmt.Sprintf("variables: %s\n", g.Variables()))
	sb.WriteString(fmt.Sprintf("terminals: %s\n", g.Terminals()))
	sb.WriteString(fmt.Sprintf("start variable: %s\n", start))
	sb.WriteString(s.showProductions())
	return sb.String()
}

// compact removes all whitespace from text.
func compact(text string) string {
	return strings.Join(strings.Fields(text), "")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func stateNames[S fmt.Stringer](states []S) []string {
	names := make([]string, len(states))
	for i := range states {
		names[i] = states[i].String()
	}
	return names
}

func (s *Session) table(data [][]string) string {
	tableOpts := textFormatOptions
	tableOpts.TableHeaders = true

	return rosed.Edit("").
		InsertTableOpts(0, data, s.prof.Display.OutputWidth, tableOpts).
		String()
}
