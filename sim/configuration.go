package sim

import (
	"fmt"
	"strings"

	"github.com/dekarrin/gar/automaton"
	"github.com/dekarrin/gar/internal/arena"
	"github.com/dekarrin/gar/symbols"
)

// Tape is the contents of one TM tape and the position of its head. Cells
// outside of Cells are blank.
type Tape struct {
	Cells symbols.String
	Head  int

	// index in Cells of the first input symbol. It grows as blanks are added
	// to the left of the input.
	origin int
}

// Position returns the position of the head relative to the start of the
// input the tape was created with.
func (t Tape) Position() int {
	return t.Head - t.origin
}

// Read returns the symbol under the head, or blank if the head is outside of
// the written cells.
func (t Tape) Read(blank symbols.Symbol) symbols.Symbol {
	if t.Head < 0 || t.Head >= len(t.Cells) {
		return blank
	}
	return t.Cells[t.Head]
}

// apply writes the given symbols under the head (nothing if write is empty) and
// then moves the head. The cells are grown with blanks so that the head is
// always over a real cell afterwards, and t is never modified.
func (t Tape) apply(write symbols.String, move automaton.Direction, blank symbols.Symbol) Tape {
	cells := symbols.Of(t.Cells...)
	head := t.Head
	origin := t.origin

	for head >= len(cells) {
		cells = append(cells, blank)
	}
	if len(write) > 0 {
		cells[head] = write[0]
	}

	switch move {
	case automaton.Left:
		head--
	case automaton.Right:
		head++
	}

	if head < 0 {
		cells = append(symbols.String{blank}, cells...)
		head = 0
		origin++
	}
	for head >= len(cells) {
		cells = append(cells, blank)
	}

	return Tape{Cells: cells, Head: head, origin: origin}
}

// String shows the tape with the cell under the head in brackets.
func (t Tape) String() string {
	var sb strings.Builder
	for i := range t.Cells {
		if i == t.Head {
			sb.WriteString("[" + t.Cells[i].Text() + "]")
		} else {
			sb.WriteString(t.Cells[i].Text())
		}
	}
	if t.Head < 0 || t.Head >= len(t.Cells) {
		sb.WriteString("[" + automaton.Blank + "]")
	}
	return sb.String()
}

// Configuration is one snapshot of a machine partway through a computation. It
// is a node in a Tree, and its parent is the configuration it was stepped
// from.
//
// Configurations are immutable once created. Every accessor that returns a
// slice returns a copy.
type Configuration struct {
	id     int
	parent int
	depth  int

	state automaton.State

	input     []symbols.String
	remaining []symbols.String

	stack  symbols.String
	tapes  []Tape
	output symbols.String
}

// newRoot creates a configuration with nothing yet consumed. It is not in a
// tree.
func newRoot(state automaton.State, input []symbols.String) Configuration {
	c := Configuration{
		id:        arena.None,
		parent:    arena.None,
		state:     state,
		input:     make([]symbols.String, len(input)),
		remaining: make([]symbols.String, len(input)),
	}
	for i := range input {
		c.input[i] = symbols.Of(input[i]...)
		c.remaining[i] = c.input[i]
	}
	return c
}

// child creates a configuration that follows c and is in the given state, with
// everything else the same as c. The caller replaces whatever the transition
// changed.
func (c Configuration) child(state automaton.State) Configuration {
	next := c
	next.id = arena.None
	next.parent = c.id
	next.depth = c.depth + 1
	next.state = state
	return next
}

// ID returns the ID of the configuration within its Tree. It is arena.None if
// the configuration has not been added to a Tree.
func (c Configuration) ID() int {
	return c.id
}

// Parent returns the ID of the configuration this one was stepped from, or
// arena.None for a root.
func (c Configuration) Parent() int {
	return c.parent
}

// IsRoot returns whether the configuration has no parent.
func (c Configuration) IsRoot() bool {
	return c.parent == arena.None
}

// Depth returns the number of steps taken from the root to reach this
// configuration.
func (c Configuration) Depth() int {
	return c.depth
}

// State returns the state the machine is in.
func (c Configuration) State() automaton.State {
	return c.state
}

// Tapes returns the number of inputs the configuration has.
func (c Configuration) Tapes() int {
	return len(c.input)
}

// Input returns the total input on the first tape.
func (c Configuration) Input() symbols.String {
	return c.InputOn(0)
}

// InputOn returns the total input on the given tape.
func (c Configuration) InputOn(tape int) symbols.String {
	if tape < 0 || tape >= len(c.input) {
		return symbols.String{}
	}
	return symbols.Of(c.input[tape]...)
}

// Remaining returns the input not yet processed on the first tape.
func (c Configuration) Remaining() symbols.String {
	return c.RemainingOn(0)
}

// RemainingOn returns the input not yet processed on the given tape.
func (c Configuration) RemainingOn(tape int) symbols.String {
	if tape < 0 || tape >= len(c.remaining) {
		return symbols.String{}
	}
	return symbols.Of(c.remaining[tape]...)
}

// Consumed returns the part of the input on the given tape that has been
// processed. Consumed followed by RemainingOn is always the whole input.
func (c Configuration) Consumed(tape int) symbols.String {
	if tape < 0 || tape >= len(c.input) {
		return symbols.String{}
	}
	n := len(c.input[tape]) - len(c.remaining[tape])
	return symbols.Of(c.input[tape][:n]...)
}

// InputConsumed returns whether there is no input left to process on any
// tape.
func (c Configuration) InputConsumed() bool {
	for i := range c.remaining {
		if len(c.remaining[i]) > 0 {
			return false
		}
	}
	return true
}

// Stack returns the stack of a PDA configuration with the top at index 0. It
// is empty for every other kind.
func (c Configuration) Stack() symbols.String {
	return symbols.Of(c.stack...)
}

// Tape returns the given TM tape. It is the zero Tape for every other kind.
func (c Configuration) Tape(i int) Tape {
	if i < 0 || i >= len(c.tapes) {
		return Tape{}
	}
	t := c.tapes[i]
	return Tape{Cells: symbols.Of(t.Cells...), Head: t.Head, origin: t.origin}
}

// Output returns everything a Mealy machine has output so far. It is empty for
// every other kind.
func (c Configuration) Output() symbols.String {
	return symbols.Of(c.output...)
}

// String shows the state and the remaining input, along with the stack, tapes,
// or output if the configuration has them.
func (c Configuration) String() string {
	parts := []string{c.state.String()}

	if len(c.tapes) > 0 {
		for i := range c.tapes {
			parts = append(parts, c.tapes[i].String())
		}
	} else {
		for i := range c.remaining {
			parts = append(parts, fmt.Sprintf("%q", c.remaining[i].String()))
		}
	}

	if len(c.stack) > 0 {
		parts = append(parts, "stack "+c.stack.String())
	}
	if len(c.output) > 0 {
		parts = append(parts, "out "+c.output.String())
	}

	return "(" + strings.Join(parts, ", ") + ")"
}
