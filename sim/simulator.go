// Package sim runs automata on input. A Simulator expands one Configuration
// at a time into its successors; Run drives a Simulator over a whole input and
// collects the resulting tree of configurations along with its verdicts.
//
// Simulators never loop on their own. Any exploration that might not end, such
// as one over a cycle of transitions that consume no input, is bounded by the
// caps given to Run.
package sim

import (
	"fmt"

	"github.com/dekarrin/gar/automaton"
	"github.com/dekarrin/gar/garerrors"
	"github.com/dekarrin/gar/internal/util"
	"github.com/dekarrin/gar/symbols"
)

// Variant is the set of stepping and acceptance rules a Simulator uses.
type Variant int

const (
	// FSAStepByState steps a finite-state automaton one transition at a
	// time, taking epsilon transitions as moves that consume nothing.
	FSAStepByState Variant = iota

	// FSAClosure steps a finite-state automaton by following only
	// transitions that consume input and then taking the epsilon closure of
	// each state reached.
	FSAClosure

	// PDA steps a pushdown automaton.
	PDA

	// TM steps a Turing machine with one or more tapes.
	TM

	// Mealy steps a deterministic Mealy machine, collecting its output.
	Mealy
)

func (v Variant) String() string {
	switch v {
	case FSAStepByState:
		return "fsa"
	case FSAClosure:
		return "fsa-closure"
	case PDA:
		return "pda"
	case TM:
		return "tm"
	case Mealy:
		return "mealy"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Simulator steps an automaton. The same Simulator may be used for any number
// of inputs, but it refuses to continue once the automaton it was created for
// has been mutated.
type Simulator interface {
	// Variant returns the rules the Simulator steps with.
	Variant() Variant

	// Automaton returns the automaton being simulated.
	Automaton() *automaton.Automaton

	// InitialConfigurations returns the root configurations for the given
	// input, one String per tape. Fails with ErrMissingInitialState if the
	// automaton has no initial state and with ErrInvalid if the number of
	// inputs does not match the number of tapes.
	InitialConfigurations(input ...symbols.String) ([]Configuration, error)

	// Step returns every configuration that c can move to in one step, in the
	// order of the transitions taken. It is a pure function of c and the
	// automaton.
	Step(c Configuration) ([]Configuration, error)

	// IsAccept returns whether c is an accepting configuration.
	IsAccept(c Configuration) bool
}

// Option is an option given to For.
type Option func(o *options)

type options struct {
	noClosure        bool
	emptyStack       bool
	finalTransitions bool
}

// WithoutClosure makes For step a finite-state automaton one transition at a
// time instead of by epsilon closure.
func WithoutClosure() Option {
	return func(o *options) {
		o.noClosure = true
	}
}

// AcceptByEmptyStack makes a PDA accept when its input is consumed and its
// stack is empty, regardless of state, instead of when its input is consumed
// and it is in a final state.
func AcceptByEmptyStack() Option {
	return func(o *options) {
		o.emptyStack = true
	}
}

// AllowFinalTransitions allows a Turing machine to keep moving after it has
// reached a final state. Without it, For refuses a TM that has transitions
// leaving a final state, and a TM halts as soon as it enters one.
func AllowFinalTransitions() Option {
	return func(o *options) {
		o.finalTransitions = true
	}
}

// rules is what makes one Variant differ from another. The expansion of the
// tree is the same for all of them.
type rules struct {
	variant Variant

	// closure is whether each state reached is expanded into its epsilon
	// closure. Epsilon transitions themselves are never taken when set.
	closure bool

	// setup sets up the auxiliary contents of a root configuration.
	setup func(s *simulator, c *Configuration)

	// take returns the configuration reached from c by taking t, or false if t
	// cannot be taken from c. The returned configuration is not yet in the
	// target state's closure.
	take func(s *simulator, c Configuration, t automaton.Transition) (Configuration, bool)

	// halts returns whether no transition may be taken from c at all.
	halts func(s *simulator, c Configuration) bool

	accept func(s *simulator, c Configuration) bool
}

var variantRules = map[Variant]rules{
	FSAStepByState: {
		variant: FSAStepByState,
		take:    takeInput,
		accept:  acceptFinalConsumed,
	},
	FSAClosure: {
		variant: FSAClosure,
		closure: true,
		take:    takeInput,
		accept:  acceptFinalConsumed,
	},
	PDA: {
		variant: PDA,
		setup:   initStack,
		take:    takeStack,
		accept:  acceptPDA,
	},
	TM: {
		variant: TM,
		setup:   initTapes,
		take:    takeTapes,
		halts:   haltTuring,
		accept:  acceptFinal,
	},
	Mealy: {
		variant: Mealy,
		take:    takeOutput,
		accept:  acceptConsumed,
	},
}

// For returns a Simulator for the given automaton, with the Variant selected
// by the automaton's kind. Fails with ErrNondeterministic for a Mealy machine
// that is not deterministic, and with ErrInvalid for a Turing machine with
// transitions leaving a final state unless AllowFinalTransitions is given.
func For(a *automaton.Automaton, opts ...Option) (Simulator, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var v Variant
	switch a.Kind() {
	case automaton.FSA:
		v = FSAClosure
		if o.noClosure {
			v = FSAStepByState
		}
	case automaton.PDA:
		v = PDA
	case automaton.TM:
		v = TM
		if !o.finalTransitions {
			if err := checkNoFinalTransitions(a); err != nil {
				return nil, err
			}
		}
	case automaton.Mealy:
		v = Mealy
		nondet := automaton.NondeterministicStates(a, nil)
		if len(nondet) > 0 {
			names := make([]string, len(nondet))
			for i := range nondet {
				names[i] = nondet[i].String()
			}
			return nil, garerrors.Newf(garerrors.ErrNondeterministic, "a Mealy machine must be deterministic, but %s %s not", util.MakeTextList(names), plural(len(names), "is", "are"))
		}
	default:
		return nil, garerrors.Invalidf("no simulator for automaton kind %s", a.Kind())
	}

	return &simulator{
		rules: variantRules[v],
		opts:  o,
		a:     a,
		rev:   a.Revision(),
	}, nil
}

func checkNoFinalTransitions(a *automaton.Automaton) error {
	for _, s := range a.FinalStates() {
		if a.OutDegree(s.ID) > 0 {
			return garerrors.Invalidf("final state %s has transitions leaving it, which are not allowed in a Turing machine", s)
		}
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

type simulator struct {
	rules
	opts options
	a    *automaton.Automaton
	rev  uint64
}

func (s *simulator) Variant() Variant {
	return s.variant
}

func (s *simulator) Automaton() *automaton.Automaton {
	return s.a
}

func (s *simulator) checkRevision() error {
	if s.a.Revision() != s.rev {
		return garerrors.New(garerrors.ErrModified, "the automaton was changed after the simulation started; start a new one")
	}
	return nil
}

func (s *simulator) InitialConfigurations(input ...symbols.String) ([]Configuration, error) {
	if err := s.checkRevision(); err != nil {
		return nil, err
	}
	if err := s.a.Validate(); err != nil {
		return nil, err
	}
	if len(input) != s.a.Tapes() {
		return nil, garerrors.Invalidf("the automaton reads %d tape(s) but %d input(s) were given", s.a.Tapes(), len(input))
	}

	start, _ := s.a.Initial()
	states := []automaton.State{start}
	if s.closure {
		states = automaton.Closure(s.a, start.ID)
	}

	roots := make([]Configuration, len(states))
	for i := range states {
		roots[i] = newRoot(states[i], input)
		if s.setup != nil {
			s.setup(s, &roots[i])
		}
	}
	return roots, nil
}

func (s *simulator) Step(c Configuration) ([]Configuration, error) {
	if err := s.checkRevision(); err != nil {
		return nil, err
	}
	if s.halts != nil && s.halts(s, c) {
		return nil, nil
	}

	var next []Configuration
	for _, t := range s.a.TransitionsFrom(c.state.ID) {
		if s.closure && t.IsEpsilon() {
			continue
		}

		moved, ok := s.take(s, c, t)
		if !ok {
			continue
		}

		if !s.closure {
			next = append(next, moved)
			continue
		}
		for _, st := range automaton.Closure(s.a, t.To) {
			expanded := moved
			expanded.state = st
			next = append(next, expanded)
		}
	}

	return next, nil
}

func (s *simulator) IsAccept(c Configuration) bool {
	return s.accept(s, c)
}

// target gives the configuration after c in the state t goes to.
func (s *simulator) target(c Configuration, t automaton.Transition) Configuration {
	to, _ := s.a.State(t.To)
	return c.child(to)
}

// advance returns the remaining input on every tape after each label is
// matched against the front of it, or false if any label does not match.
func advance(remaining []symbols.String, labels []symbols.String) ([]symbols.String, bool) {
	if len(remaining) != len(labels) {
		return nil, false
	}

	after := make([]symbols.String, len(remaining))
	for i := range remaining {
		if !remaining[i].StartsWith(labels[i]) {
			return nil, false
		}
		after[i] = remaining[i][len(labels[i]):]
	}
	return after, true
}

func takeInput(s *simulator, c Configuration, t automaton.Transition) (Configuration, bool) {
	rem, ok := advance(c.remaining, t.Labels)
	if !ok {
		return Configuration{}, false
	}

	next := s.target(c, t)
	next.remaining = rem
	return next, true
}

func initStack(s *simulator, c *Configuration) {
	if start, ok := s.a.StackStart(); ok {
		c.stack = symbols.Of(start)
	}
}

func takeStack(s *simulator, c Configuration, t automaton.Transition) (Configuration, bool) {
	op, ok := t.Payload.(automaton.StackOp)
	if !ok || !c.stack.StartsWith(op.Pop) {
		return Configuration{}, false
	}

	next, ok := takeInput(s, c, t)
	if !ok {
		return Configuration{}, false
	}
	next.stack = symbols.Concat(op.Push, c.stack[len(op.Pop):])
	return next, true
}

func takeOutput(s *simulator, c Configuration, t automaton.Transition) (Configuration, bool) {
	next, ok := takeInput(s, c, t)
	if !ok {
		return Configuration{}, false
	}
	if out, isOut := t.Payload.(automaton.Output); isOut {
		next.output = symbols.Concat(c.output, out.Out)
	}
	return next, true
}

func initTapes(s *simulator, c *Configuration) {
	c.tapes = make([]Tape, len(c.input))
	for i := range c.input {
		c.tapes[i] = Tape{Cells: symbols.Of(c.input[i]...)}
	}
}

func takeTapes(s *simulator, c Configuration, t automaton.Transition) (Configuration, bool) {
	ops, ok := t.Payload.(automaton.TapeOps)
	if !ok || len(ops) != len(c.tapes) || len(t.Labels) != len(c.tapes) {
		return Configuration{}, false
	}

	blank := s.a.BlankSymbol()
	for i := range c.tapes {
		if t.Labels[i].Len() != 1 || c.tapes[i].Read(blank) != t.Labels[i][0] {
			return Configuration{}, false
		}
	}

	next := s.target(c, t)
	next.tapes = make([]Tape, len(c.tapes))
	next.remaining = make([]symbols.String, len(c.tapes))
	for i := range c.tapes {
		next.tapes[i] = c.tapes[i].apply(ops[i].Write, ops[i].Move, blank)

		// the input not yet under the head is what is left to process
		pos := next.tapes[i].Position()
		if pos < 0 {
			pos = 0
		} else if pos > len(c.input[i]) {
			pos = len(c.input[i])
		}
		next.remaining[i] = c.input[i][pos:]
	}
	return next, true
}

func haltTuring(s *simulator, c Configuration) bool {
	return c.state.Final && !s.opts.finalTransitions
}

func acceptFinal(s *simulator, c Configuration) bool {
	return c.state.Final
}

func acceptConsumed(s *simulator, c Configuration) bool {
	return c.InputConsumed()
}

func acceptFinalConsumed(s *simulator, c Configuration) bool {
	return c.state.Final && c.InputConsumed()
}

func acceptPDA(s *simulator, c Configuration) bool {
	if s.opts.emptyStack {
		return c.InputConsumed() && len(c.stack) == 0
	}
	return acceptFinalConsumed(s, c)
}
