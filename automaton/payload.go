package automaton

import (
	"fmt"
	"strings"

	"github.com/dekarrin/gar/symbols"
)

// Kind is the kind of machine an Automaton is. It decides what a transition
// carries besides its labels and how a simulator steps the machine.
type Kind int

const (
	FSA Kind = iota
	PDA
	TM
	Mealy
)

func (k Kind) String() string {
	switch k {
	case FSA:
		return "fsa"
	case PDA:
		return "pda"
	case TM:
		return "tm"
	case Mealy:
		return "mealy"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses a Kind from its name as given by Kind.String. Case is
// ignored.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "fsa", "fa", "nfa", "dfa":
		return FSA, nil
	case "pda":
		return PDA, nil
	case "tm", "turing":
		return TM, nil
	case "mealy":
		return Mealy, nil
	default:
		return FSA, fmt.Errorf("not an automaton kind: %q", s)
	}
}

// Payload is the part of a transition that is specific to the kind of
// automaton it is in. The concrete types are StackOp for a PDA, TapeOps for a
// TM, and Output for a Mealy machine. FSA transitions have a nil Payload.
type Payload interface {
	fmt.Stringer

	// Equal returns whether the payload is the same as o by value.
	Equal(o Payload) bool

	strings() []symbols.String
	mapStrings(f func(symbols.String) symbols.String) Payload
}

// StackOp is the payload of a PDA transition. The transition can only be taken
// if Pop is on the top of the stack; when it is taken, Pop is removed from the
// stack and Push is placed on it, with the first symbol of Push becoming the
// new top.
type StackOp struct {
	Pop  symbols.String
	Push symbols.String
}

func (op StackOp) String() string {
	return op.Pop.String() + "; " + op.Push.String()
}

func (op StackOp) Equal(o Payload) bool {
	other, ok := o.(StackOp)
	if !ok {
		return false
	}
	return op.Pop.Equal(other.Pop) && op.Push.Equal(other.Push)
}

func (op StackOp) strings() []symbols.String {
	return []symbols.String{op.Pop, op.Push}
}

func (op StackOp) mapStrings(f func(symbols.String) symbols.String) Payload {
	return StackOp{Pop: f(op.Pop), Push: f(op.Push)}
}

// Direction is the way a tape head moves after a TM transition.
type Direction int

const (
	Stay Direction = iota
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "L"
	case Right:
		return "R"
	default:
		return "S"
	}
}

// ParseDirection parses a Direction from "L", "R", or "S". Case is ignored.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(s) {
	case "L":
		return Left, nil
	case "R":
		return Right, nil
	case "S":
		return Stay, nil
	default:
		return Stay, fmt.Errorf("not a tape direction: %q", s)
	}
}

// TapeOp is what a TM transition does to one tape after reading from it: Write
// replaces the symbol under the head (an empty Write leaves it unchanged), and
// then the head moves.
type TapeOp struct {
	Write symbols.String
	Move  Direction
}

func (op TapeOp) String() string {
	return op.Write.String() + "," + op.Move.String()
}

// TapeOps is the payload of a TM transition, one TapeOp per tape.
type TapeOps []TapeOp

func (ops TapeOps) String() string {
	parts := make([]string, len(ops))
	for i := range ops {
		parts[i] = ops[i].String()
	}
	return strings.Join(parts, " | ")
}

func (ops TapeOps) Equal(o Payload) bool {
	other, ok := o.(TapeOps)
	if !ok || len(other) != len(ops) {
		return false
	}
	for i := range ops {
		if ops[i].Move != other[i].Move || !ops[i].Write.Equal(other[i].Write) {
			return false
		}
	}
	return true
}

func (ops TapeOps) strings() []symbols.String {
	strs := make([]symbols.String, len(ops))
	for i := range ops {
		strs[i] = ops[i].Write
	}
	return strs
}

func (ops TapeOps) mapStrings(f func(symbols.String) symbols.String) Payload {
	mapped := make(TapeOps, len(ops))
	for i := range ops {
		mapped[i] = TapeOp{Write: f(ops[i].Write), Move: ops[i].Move}
	}
	return mapped
}

// Output is the payload of a Mealy machine transition: the symbols emitted
// when the transition is taken.
type Output struct {
	Out symbols.String
}

func (op Output) String() string {
	return op.Out.String()
}

func (op Output) Equal(o Payload) bool {
	other, ok := o.(Output)
	return ok && op.Out.Equal(other.Out)
}

func (op Output) strings() []symbols.String {
	return []symbols.String{op.Out}
}

func (op Output) mapStrings(f func(symbols.String) symbols.String) Payload {
	return Output{Out: f(op.Out)}
}

func payloadsEqual(p1, p2 Payload) bool {
	if p1 == nil || p2 == nil {
		return p1 == nil && p2 == nil
	}
	return p1.Equal(p2)
}
