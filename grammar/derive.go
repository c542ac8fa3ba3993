package grammar

import (
	"github.com/dekarrin/gar/internal/arena"
	"github.com/dekarrin/gar/internal/util"
	"github.com/dekarrin/gar/symbols"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultMaxDepth is the depth cap Derive uses when none is given.
	DefaultMaxDepth = 100

	// DefaultMaxForms is the size cap Derive uses when none is given.
	DefaultMaxForms = 100000
)

// DeriveOptions bounds and instruments a call to Derive.
type DeriveOptions struct {
	// MaxDepth is the number of productions applied after which a sentential
	// form is no longer expanded. If 0, DefaultMaxDepth is used.
	MaxDepth int

	// MaxForms is the number of sentential forms after which no more are
	// explored. If 0, DefaultMaxForms is used.
	MaxForms int

	// Logger receives a debug entry for every expanded form. If nil, nothing
	// is logged.
	Logger *zap.Logger
}

// Step is one sentential form in a derivation, along with the production that
// was applied to its parent to produce it.
type Step struct {
	Form symbols.String

	// Production is the production applied to reach Form. It is the zero
	// Production for the first step.
	Production Production

	// Position is the index in the parent form at which Production was
	// applied, or -1 for the first step.
	Position int
}

func (s Step) String() string {
	if s.Position < 0 {
		return s.Form.String()
	}
	return "⇒ " + s.Form.String()
}

// Derivation is the outcome of a call to Derive.
type Derivation struct {
	// RunID identifies the derivation in log output.
	RunID string

	// Found is whether the target was derived.
	Found bool

	// Truncated is whether a cap was reached before every form was explored.
	// If Found is false and Truncated is true, the target may still be
	// derivable.
	Truncated bool

	tree   arena.Forest[Step]
	target int
}

// Steps returns the steps from the start variable to the target. It is nil if
// the target was not found.
func (d *Derivation) Steps() []Step {
	if !d.Found {
		return nil
	}
	ids := d.tree.Path(d.target)
	steps := make([]Step, len(ids))
	for i, id := range ids {
		steps[i], _ = d.tree.Get(id)
	}
	return steps
}

// Explored returns the number of sentential forms that were produced.
func (d *Derivation) Explored() int {
	return d.tree.Len()
}

// Derive searches breadth-first for a derivation of target from the start
// variable of g. Context-free grammars are derived leftmost only. Forms that
// can no longer reach target are pruned for every grammar that is not
// unrestricted, and no form is explored twice.
//
// Fails with ErrIncomplete if g is not valid.
func Derive(g *Grammar, target symbols.String, opts DeriveOptions) (*Derivation, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxDepth < 1 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxForms < 1 {
		opts.MaxForms = DefaultMaxForms
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	d := &Derivation{RunID: uuid.New().String(), target: arena.None}
	log = log.With(zap.String("run", d.RunID))

	gType := g.Type()
	leftmost := gType != Unrestricted

	log.Debug("starting derivation", zap.Stringer("type", gType), zap.Stringer("target", target))

	startForm := symbols.Of(g.start)
	root := d.tree.Add(arena.None, Step{Form: startForm, Position: -1})
	seen := map[string]bool{startForm.Key(): true}

	var frontier util.Queue[int]
	frontier.Push(root)

	for frontier.Len() > 0 {
		id := frontier.Pop()
		cur, _ := d.tree.Get(id)

		if cur.Form.Equal(target) {
			d.Found = true
			d.target = id
			break
		}
		if d.tree.Depth(id) >= opts.MaxDepth {
			d.Truncated = true
			continue
		}

		next := g.successors(cur.Form, leftmost)
		added := 0
		for _, st := range next {
			if leftmost && !canReach(g, st.Form, target) {
				continue
			}
			key := st.Form.Key()
			if seen[key] {
				continue
			}
			if d.tree.Len() >= opts.MaxForms {
				d.Truncated = true
				break
			}
			seen[key] = true
			frontier.Push(d.tree.Add(id, st))
			added++
		}

		log.Debug("expanded form", zap.Int("id", id), zap.Stringer("form", cur.Form), zap.Int("added", added))
	}

	log.Debug("derivation finished", zap.Bool("found", d.Found), zap.Int("forms", d.tree.Len()), zap.Bool("truncated", d.Truncated))

	return d, nil
}

// successors gives every form reachable from form by applying one production.
// If leftmost is set, only productions of the leftmost variable are applied,
// and only at its position.
func (g *Grammar) successors(form symbols.String, leftmost bool) []Step {
	var next []Step

	if leftmost {
		pos := -1
		for i, sym := range form {
			if g.isVariable(sym) {
				pos = i
				break
			}
		}
		if pos < 0 {
			return nil
		}
		for _, p := range g.prods {
			if len(p.LHS) == 1 && p.LHS[0] == form[pos] {
				next = append(next, apply(form, p, pos))
			}
		}
		return next
	}

	for _, p := range g.prods {
		for pos := 0; pos+len(p.LHS) <= len(form); pos++ {
			if form[pos:].StartsWith(p.LHS) {
				next = append(next, apply(form, p, pos))
			}
		}
	}
	return next
}

func apply(form symbols.String, p Production, pos int) Step {
	replaced := symbols.Concat(form[:pos], p.RHS, form[pos+len(p.LHS):])
	return Step{Form: replaced, Production: p, Position: pos}
}

// canReach returns whether form could still derive target in a grammar whose
// productions each replace a single variable: the terminals before the first
// variable must start target, and there cannot be more terminals than target
// has.
func canReach(g *Grammar, form, target symbols.String) bool {
	terminals := 0
	prefix := true
	for i, sym := range form {
		if g.isVariable(sym) {
			prefix = false
			continue
		}
		terminals++
		if prefix && (i >= len(target) || target[i] != sym) {
			return false
		}
	}
	return terminals <= len(target)
}
