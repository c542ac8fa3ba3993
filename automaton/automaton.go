// Package automaton holds the automaton graph shared by every kind of machine
// gar can simulate, along with the algorithms that inspect it without running
// it: epsilon closure and nondeterminism detection.
//
// An Automaton is a mutable container meant for a single writer. Nothing in
// this package locks; callers that share an Automaton between goroutines must
// serialize mutations themselves.
package automaton

import (
	"fmt"
	"strings"

	"github.com/dekarrin/gar/garerrors"
	"github.com/dekarrin/gar/internal/util"
	"github.com/dekarrin/gar/symbols"
)

// NoState is returned as a state ID when there is no such state.
const NoState = -1

// Blank is the text of the blank symbol that is on every TM tape alphabet.
const Blank = "□"

// State is a node in an Automaton.
type State struct {
	// ID is the stable identifier of the state. It is never reused within an
	// Automaton.
	ID int

	// Label is the display name of the state.
	Label string

	// Final is whether the state is a final (accepting) state.
	Final bool
}

func (s State) String() string {
	if s.Label != "" {
		return s.Label
	}
	return fmt.Sprintf("q%d", s.ID)
}

// Transition is a directed edge between two states. It has one label per tape
// of the automaton it is in, and a Payload that depends on the kind of the
// automaton.
type Transition struct {
	ID      int
	From    int
	To      int
	Labels  []symbols.String
	Payload Payload
}

// Label returns the label on the first tape, which for every kind but a
// multi-tape TM is the only label.
func (t Transition) Label() symbols.String {
	if len(t.Labels) < 1 {
		return symbols.String{}
	}
	return t.Labels[0]
}

// IsEpsilon returns whether the transition has an empty label on every tape.
func (t Transition) IsEpsilon() bool {
	for i := range t.Labels {
		if !t.Labels[i].IsEmpty() {
			return false
		}
	}
	return true
}

// Equal returns whether t and o are the same transition by value. The IDs of
// the transitions are not compared.
func (t Transition) Equal(o Transition) bool {
	if t.From != o.From || t.To != o.To || len(t.Labels) != len(o.Labels) {
		return false
	}
	for i := range t.Labels {
		if !t.Labels[i].Equal(o.Labels[i]) {
			return false
		}
	}
	return payloadsEqual(t.Payload, o.Payload)
}

func (t Transition) labelString() string {
	parts := make([]string, len(t.Labels))
	for i := range t.Labels {
		parts[i] = t.Labels[i].String()
	}
	lbl := strings.Join(parts, " | ")
	if t.Payload != nil {
		lbl += " ; " + t.Payload.String()
	}
	return lbl
}

func (t Transition) String() string {
	return fmt.Sprintf("q%d =(%s)=> q%d", t.From, t.labelString(), t.To)
}

// Option is an option given to New.
type Option func(a *Automaton)

// WithTapes sets the number of tapes of a TM. It has no effect on any other
// kind of automaton, and values less than 1 are ignored.
func WithTapes(n int) Option {
	return func(a *Automaton) {
		if a.kind == TM && n > 0 {
			a.tapes = n
		}
	}
}

// Automaton is a directed multigraph of States connected by Transitions. It
// has at most one initial state and any number of final states. Cycles,
// including cycles of epsilon transitions, are allowed.
//
// Every mutation increases the revision of the Automaton; simulators record the
// revision they start at and refuse to continue once it changes.
//
// Automaton must be created with New.
type Automaton struct {
	kind  Kind
	tapes int

	states      map[int]State
	nextStateID int
	initial     int

	transitions map[int]Transition
	transOrder  []int
	outgoing    map[int][]int
	nextTransID int

	input      *symbols.Alphabet
	stack      *symbols.Alphabet
	tape       *symbols.Alphabet
	output     *symbols.Alphabet
	blank      symbols.Symbol
	stackStart symbols.Symbol

	revision uint64
}

// New creates a new, empty Automaton of the given kind. Its alphabets are
// created empty except for the TM tape alphabet, which starts with the blank
// symbol.
func New(kind Kind, opts ...Option) *Automaton {
	a := &Automaton{
		kind:        kind,
		tapes:       1,
		states:      map[int]State{},
		initial:     NoState,
		transitions: map[int]Transition{},
		outgoing:    map[int][]int{},
		input:       symbols.MustAlphabet("input", symbols.Terminal),
	}

	switch kind {
	case PDA:
		a.stack = symbols.MustAlphabet("stack", symbols.Stack)
	case TM:
		a.tape = symbols.MustAlphabet("tape", symbols.Tape, Blank)
		a.blank, _ = a.tape.Get(Blank)
	case Mealy:
		a.output = symbols.MustAlphabet("output", symbols.Output)
	}

	for _, o := range opts {
		o(a)
	}

	return a
}

// Kind returns the kind of the automaton.
func (a *Automaton) Kind() Kind {
	return a.kind
}

// Tapes returns the number of tapes the automaton reads from. This is always
// 1 for every kind but TM.
func (a *Automaton) Tapes() int {
	return a.tapes
}

// Revision returns a number that changes every time the automaton is mutated.
func (a *Automaton) Revision() uint64 {
	return a.revision
}

// InputAlphabet returns the alphabet that input and transition labels are
// made of.
func (a *Automaton) InputAlphabet() *symbols.Alphabet {
	return a.input
}

// StackAlphabet returns the stack alphabet of a PDA, or nil for other kinds.
func (a *Automaton) StackAlphabet() *symbols.Alphabet {
	return a.stack
}

// TapeAlphabet returns the tape alphabet of a TM, or nil for other kinds. It
// always contains the blank symbol.
func (a *Automaton) TapeAlphabet() *symbols.Alphabet {
	return a.tape
}

// OutputAlphabet returns the output alphabet of a Mealy machine, or nil for
// other kinds.
func (a *Automaton) OutputAlphabet() *symbols.Alphabet {
	return a.output
}

// Alphabets returns every alphabet the automaton has, input alphabet first.
func (a *Automaton) Alphabets() []*symbols.Alphabet {
	alphs := []*symbols.Alphabet{a.input}
	for _, alph := range []*symbols.Alphabet{a.stack, a.tape, a.output} {
		if alph != nil {
			alphs = append(alphs, alph)
		}
	}
	return alphs
}

// BlankSymbol returns the blank tape symbol of a TM. It is the zero Symbol for
// other kinds.
func (a *Automaton) BlankSymbol() symbols.Symbol {
	return a.blank
}

// SetStackStart sets the symbol that is on the stack of a PDA before any
// transition is taken. It must be in the stack alphabet.
func (a *Automaton) SetStackStart(sym symbols.Symbol) error {
	if a.stack == nil {
		return garerrors.Invalidf("a %s has no stack", a.kind)
	}
	if !a.stack.Has(sym) {
		return garerrors.InvalidReferencef("%q is not in the stack alphabet", sym.Text())
	}
	a.stackStart = sym
	a.revision++
	return nil
}

// StackStart returns the start-of-stack symbol of a PDA. ok is false if none
// is set, in which case the stack starts empty.
func (a *Automaton) StackStart() (sym symbols.Symbol, ok bool) {
	return a.stackStart, !a.stackStart.IsZero()
}

// labelAlphabets is the alphabets that a transition label may be parsed
// against.
func (a *Automaton) labelAlphabets() []*symbols.Alphabet {
	if a.kind == TM {
		return []*symbols.Alphabet{a.input, a.tape}
	}
	return []*symbols.Alphabet{a.input}
}

// ParseInput parses text into input for the automaton. For a TM, symbols from
// the tape alphabet are accepted as well as input symbols.
func (a *Automaton) ParseInput(text string) (symbols.String, error) {
	return symbols.Parse(text, a.labelAlphabets()...)
}

// ParseLabel parses the label of a transition. It is the same as ParseInput.
func (a *Automaton) ParseLabel(text string) (symbols.String, error) {
	return a.ParseInput(text)
}

// AddState adds a new non-final state with the given label and returns it. If
// label is empty, the state is labeled "q" followed by its ID.
func (a *Automaton) AddState(label string) State {
	s := State{ID: a.nextStateID, Label: label}
	if s.Label == "" {
		s.Label = fmt.Sprintf("q%d", s.ID)
	}
	a.nextStateID++
	a.states[s.ID] = s
	a.revision++
	return s
}

// State returns the state with the given ID.
func (a *Automaton) State(id int) (State, bool) {
	s, ok := a.states[id]
	return s, ok
}

// StateByLabel returns the first state (by ID) with the given label.
func (a *Automaton) StateByLabel(label string) (State, bool) {
	for _, id := range util.OrderedIntKeys(a.states) {
		if a.states[id].Label == label {
			return a.states[id], true
		}
	}
	return State{}, false
}

// States returns all states in the automaton ordered by ID.
func (a *Automaton) States() []State {
	ids := util.OrderedIntKeys(a.states)
	states := make([]State, len(ids))
	for i, id := range ids {
		states[i] = a.states[id]
	}
	return states
}

// FinalStates returns all final states ordered by ID.
func (a *Automaton) FinalStates() []State {
	var finals []State
	for _, s := range a.States() {
		if s.Final {
			finals = append(finals, s)
		}
	}
	return finals
}

// NumStates returns the number of states in the automaton.
func (a *Automaton) NumStates() int {
	return len(a.states)
}

func (a *Automaton) noStateErr(id int) error {
	return garerrors.InvalidReferencef("there is no state with ID %d", id)
}

// SetLabel changes the display label of a state.
func (a *Automaton) SetLabel(id int, label string) error {
	s, ok := a.states[id]
	if !ok {
		return a.noStateErr(id)
	}
	s.Label = label
	a.states[id] = s
	a.revision++
	return nil
}

// SetFinal sets whether a state is final.
func (a *Automaton) SetFinal(id int, final bool) error {
	s, ok := a.states[id]
	if !ok {
		return a.noStateErr(id)
	}
	s.Final = final
	a.states[id] = s
	a.revision++
	return nil
}

// SetInitial makes the given state the initial state, replacing any previous
// one.
func (a *Automaton) SetInitial(id int) error {
	if _, ok := a.states[id]; !ok {
		return a.noStateErr(id)
	}
	a.initial = id
	a.revision++
	return nil
}

// ClearInitial makes the automaton have no initial state.
func (a *Automaton) ClearInitial() {
	a.initial = NoState
	a.revision++
}

// Initial returns the initial state. ok is false if there is none.
func (a *Automaton) Initial() (s State, ok bool) {
	if a.initial == NoState {
		return State{}, false
	}
	return a.states[a.initial], true
}

// RemoveState removes a state and every transition to or from it.
func (a *Automaton) RemoveState(id int) error {
	if _, ok := a.states[id]; !ok {
		return a.noStateErr(id)
	}

	for _, tid := range append([]int(nil), a.transOrder...) {
		t := a.transitions[tid]
		if t.From == id || t.To == id {
			a.removeTransition(tid)
		}
	}

	delete(a.states, id)
	delete(a.outgoing, id)
	if a.initial == id {
		a.initial = NoState
	}
	a.revision++
	return nil
}

// AddTransition adds a transition from one state to another and returns it.
// There must be exactly one label per tape, and payload must be of the type
// that the kind of the automaton requires (nil for an FSA).
//
// Fails with ErrInvalidReference if either state does not exist or a symbol
// is not in the right alphabet, with ErrInvalid if the labels or payload are
// malformed, and with ErrDuplicate if an equal transition already exists. The
// automaton is unchanged on failure.
func (a *Automaton) AddTransition(from, to int, labels []symbols.String, payload Payload) (Transition, error) {
	if _, ok := a.states[from]; !ok {
		return Transition{}, a.noStateErr(from)
	}
	if _, ok := a.states[to]; !ok {
		return Transition{}, a.noStateErr(to)
	}

	t := Transition{
		From:    from,
		To:      to,
		Labels:  make([]symbols.String, len(labels)),
		Payload: payload,
	}
	for i := range labels {
		t.Labels[i] = symbols.Of(labels[i]...)
	}

	if err := a.checkTransition(t); err != nil {
		return Transition{}, err
	}

	for _, tid := range a.outgoing[from] {
		if a.transitions[tid].Equal(t) {
			return Transition{}, garerrors.Duplicatef("transition from %s to %s on %s already exists", a.states[from], a.states[to], t.labelString())
		}
	}

	t.ID = a.nextTransID
	a.nextTransID++
	a.transitions[t.ID] = t
	a.transOrder = append(a.transOrder, t.ID)
	a.outgoing[from] = append(a.outgoing[from], t.ID)
	a.revision++

	return t, nil
}

func (a *Automaton) checkTransition(t Transition) error {
	if len(t.Labels) != a.tapes {
		return garerrors.Invalidf("a %s transition needs %d label(s), not %d", a.kind, a.tapes, len(t.Labels))
	}

	labelAlphs := a.labelAlphabets()
	for i := range t.Labels {
		if err := checkMembers(t.Labels[i], "label", labelAlphs...); err != nil {
			return err
		}
		if a.kind == TM && t.Labels[i].Len() != 1 {
			return garerrors.Invalidf("a TM transition must read exactly one symbol per tape, not %q", t.Labels[i].String())
		}
	}

	switch a.kind {
	case FSA:
		if t.Payload != nil {
			return garerrors.Invalidf("an FSA transition cannot have a %T payload", t.Payload)
		}
	case PDA:
		op, ok := t.Payload.(StackOp)
		if !ok {
			return garerrors.Invalidf("a PDA transition needs a StackOp payload, not %T", t.Payload)
		}
		if err := checkMembers(op.Pop, "pop", a.stack); err != nil {
			return err
		}
		if err := checkMembers(op.Push, "push", a.stack); err != nil {
			return err
		}
	case TM:
		ops, ok := t.Payload.(TapeOps)
		if !ok {
			return garerrors.Invalidf("a TM transition needs a TapeOps payload, not %T", t.Payload)
		}
		if len(ops) != a.tapes {
			return garerrors.Invalidf("a TM transition needs %d tape operation(s), not %d", a.tapes, len(ops))
		}
		for i := range ops {
			if ops[i].Write.Len() > 1 {
				return garerrors.Invalidf("a TM transition writes at most one symbol per tape, not %q", ops[i].Write.String())
			}
			if err := checkMembers(ops[i].Write, "write", labelAlphs...); err != nil {
				return err
			}
		}
	case Mealy:
		out, ok := t.Payload.(Output)
		if !ok {
			return garerrors.Invalidf("a Mealy transition needs an Output payload, not %T", t.Payload)
		}
		if err := checkMembers(out.Out, "output", a.output); err != nil {
			return err
		}
	}

	return nil
}

func checkMembers(s symbols.String, what string, alphs ...*symbols.Alphabet) error {
	for _, sym := range s {
		found := false
		for _, alph := range alphs {
			if alph.Has(sym) {
				found = true
				break
			}
		}
		if !found {
			return garerrors.InvalidReferencef("%s symbol %q is not in any of the automaton's alphabets", what, sym.Text())
		}
	}
	return nil
}

// RemoveTransition removes the transition with the given ID.
func (a *Automaton) RemoveTransition(id int) error {
	if _, ok := a.transitions[id]; !ok {
		return garerrors.InvalidReferencef("there is no transition with ID %d", id)
	}
	a.removeTransition(id)
	a.revision++
	return nil
}

func (a *Automaton) removeTransition(id int) {
	t := a.transitions[id]
	delete(a.transitions, id)
	a.transOrder = removeInt(a.transOrder, id)
	a.outgoing[t.From] = removeInt(a.outgoing[t.From], id)
}

func removeInt(sl []int, v int) []int {
	out := make([]int, 0, len(sl))
	for _, x := range sl {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// Transition returns the transition with the given ID.
func (a *Automaton) Transition(id int) (Transition, bool) {
	t, ok := a.transitions[id]
	return t, ok
}

// Transitions returns every transition in the order they were added.
func (a *Automaton) Transitions() []Transition {
	ts := make([]Transition, len(a.transOrder))
	for i, id := range a.transOrder {
		ts[i] = a.transitions[id]
	}
	return ts
}

// NumTransitions returns the number of transitions in the automaton.
func (a *Automaton) NumTransitions() int {
	return len(a.transOrder)
}

// TransitionsFrom returns every transition leaving the given state in the
// order they were added.
func (a *Automaton) TransitionsFrom(id int) []Transition {
	ids := a.outgoing[id]
	ts := make([]Transition, len(ids))
	for i, tid := range ids {
		ts[i] = a.transitions[tid]
	}
	return ts
}

// TransitionsTo returns every transition entering the given state in the
// order they were added.
func (a *Automaton) TransitionsTo(id int) []Transition {
	var ts []Transition
	for _, tid := range a.transOrder {
		if a.transitions[tid].To == id {
			ts = append(ts, a.transitions[tid])
		}
	}
	return ts
}

// OutDegree returns the number of transitions leaving the given state.
func (a *Automaton) OutDegree(id int) int {
	return len(a.outgoing[id])
}

// InDegree returns the number of transitions entering the given state.
func (a *Automaton) InDegree(id int) int {
	return len(a.TransitionsTo(id))
}

// UsesSymbol returns whether sym is used in any transition label or payload,
// or as the start-of-stack symbol or the TM blank.
func (a *Automaton) UsesSymbol(sym symbols.Symbol) bool {
	if !a.stackStart.IsZero() && a.stackStart == sym {
		return true
	}
	if !a.blank.IsZero() && a.blank == sym {
		return true
	}
	for _, t := range a.transitions {
		for i := range t.Labels {
			if t.Labels[i].Contains(sym) {
				return true
			}
		}
		if t.Payload != nil {
			for _, s := range t.Payload.strings() {
				if s.Contains(sym) {
					return true
				}
			}
		}
	}
	return false
}

// mapSymbols applies f to every transition label and payload. A transition
// that ends up equal to an earlier one from the same state is dropped, as is a
// TM transition that no longer reads exactly one symbol per tape.
func (a *Automaton) mapSymbols(f func(symbols.String) symbols.String) {
	var kept []Transition
	for _, id := range append([]int(nil), a.transOrder...) {
		t := a.transitions[id]
		labels := make([]symbols.String, len(t.Labels))
		for i := range t.Labels {
			labels[i] = f(t.Labels[i])
		}
		t.Labels = labels
		if t.Payload != nil {
			t.Payload = t.Payload.mapStrings(f)
		}

		drop := false
		if a.kind == TM {
			for i := range t.Labels {
				if t.Labels[i].Len() != 1 {
					drop = true
				}
			}
		}
		for i := 0; i < len(kept) && !drop; i++ {
			drop = kept[i].Equal(t)
		}

		if drop {
			a.removeTransition(id)
			continue
		}
		a.transitions[id] = t
		kept = append(kept, t)
	}
	a.revision++
}

// PurgeSymbol removes every occurrence of sym from every transition label and
// payload, and unsets it as the start-of-stack symbol. It is used before
// removing the symbol from its alphabet. The TM blank is never purged.
func (a *Automaton) PurgeSymbol(sym symbols.Symbol) {
	if !a.blank.IsZero() && a.blank == sym {
		return
	}
	if a.stackStart == sym {
		a.stackStart = symbols.Symbol{}
	}
	a.mapSymbols(func(s symbols.String) symbols.String {
		return s.Without(sym)
	})
}

// ReplaceSymbol replaces every occurrence of old in transition labels and
// payloads with repl. It is used after a symbol is renamed in its alphabet.
func (a *Automaton) ReplaceSymbol(old, repl symbols.Symbol) {
	if a.stackStart == old {
		a.stackStart = repl
	}
	a.mapSymbols(func(s symbols.String) symbols.String {
		return s.Replace(old, repl)
	})
}

// Validate returns an error if the automaton cannot be simulated as it is. At
// this time that is only the case when it has no initial state.
func (a *Automaton) Validate() error {
	if a.initial == NoState {
		return garerrors.New(garerrors.ErrMissingInitialState, "the automaton has no initial state")
	}
	return nil
}

// String shows the automaton's initial state and every state with the
// transitions leaving it.
func (a *Automaton) String() string {
	var sb strings.Builder

	start := "<none>"
	if init, ok := a.Initial(); ok {
		start = init.String()
	}
	sb.WriteString(fmt.Sprintf("<%s START: %q, STATES:", strings.ToUpper(a.kind.String()), start))

	states := a.States()
	for i, s := range states {
		var moves []string
		for _, t := range a.TransitionsFrom(s.ID) {
			moves = append(moves, fmt.Sprintf("=(%s)=> %s", t.labelString(), a.states[t.To]))
		}

		str := fmt.Sprintf("(%s [%s])", s, strings.Join(moves, ", "))
		if s.Final {
			str = "(" + str + ")"
		}

		sb.WriteString("\n\t")
		sb.WriteString(str)
		if i+1 < len(states) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}

	sb.WriteRune('>')
	return sb.String()
}
