package automaton

import (
	"github.com/dekarrin/gar/symbols"
)

// Match is a predicate that decides whether two transitions leaving the same
// state could both be taken on the same next input. Each kind of automaton has
// its own; see DetectorFor.
type Match func(t1, t2 Transition) bool

// DetectorFor returns the Match that decides determinism for the given kind of
// automaton.
func DetectorFor(kind Kind) Match {
	switch kind {
	case PDA:
		return PDAMatch
	case TM:
		return TuringMatch
	case Mealy:
		return MealyMatch
	default:
		return FSAMatch
	}
}

func eitherPrefix(s1, s2 symbols.String) bool {
	return s1.StartsWith(s2) || s2.StartsWith(s1)
}

// FSAMatch is the Match for finite-state automata. Two transitions conflict if
// on every tape one label is a prefix of the other. This covers two epsilon
// transitions, an epsilon transition next to any other transition, ambiguous
// lookahead, and identical labels.
func FSAMatch(t1, t2 Transition) bool {
	if len(t1.Labels) != len(t2.Labels) {
		return false
	}
	for i := range t1.Labels {
		if !eitherPrefix(t1.Labels[i], t2.Labels[i]) {
			return false
		}
	}
	return true
}

// PDAMatch is the Match for pushdown automata. Two transitions conflict if
// their input labels conflict as in FSAMatch and their pop strings could both
// be on top of the same stack.
func PDAMatch(t1, t2 Transition) bool {
	if !FSAMatch(t1, t2) {
		return false
	}
	op1, ok1 := t1.Payload.(StackOp)
	op2, ok2 := t2.Payload.(StackOp)
	if !ok1 || !ok2 {
		return true
	}
	return eitherPrefix(op1.Pop, op2.Pop)
}

// TuringMatch is the Match for Turing machines. A TM reads exactly one symbol
// per tape, so two transitions conflict only if they read the same symbols on
// every tape.
func TuringMatch(t1, t2 Transition) bool {
	if len(t1.Labels) != len(t2.Labels) {
		return false
	}
	for i := range t1.Labels {
		if !t1.Labels[i].Equal(t2.Labels[i]) {
			return false
		}
	}
	return true
}

// MealyMatch is the Match for Mealy machines, which need a single symbol of
// lookahead to be disjoint. Two transitions conflict if either reads nothing
// or both start with the same symbol.
func MealyMatch(t1, t2 Transition) bool {
	l1, l2 := t1.Label(), t2.Label()
	if l1.IsEmpty() || l2.IsEmpty() {
		return true
	}
	return l1[0] == l2[0]
}

// NondeterministicStates returns every state that has two or more outgoing
// transitions that match according to match, ordered by ID. If match is nil,
// the Match for the automaton's kind is used.
func NondeterministicStates(a *Automaton, match Match) []State {
	if match == nil {
		match = DetectorFor(a.Kind())
	}

	var nondet []State
	for _, s := range a.States() {
		if hasConflict(a.TransitionsFrom(s.ID), match) {
			nondet = append(nondet, s)
		}
	}
	return nondet
}

func hasConflict(ts []Transition, match Match) bool {
	for i := range ts {
		for j := i + 1; j < len(ts); j++ {
			if match(ts[i], ts[j]) {
				return true
			}
		}
	}
	return false
}

// IsDeterministic returns whether the automaton has no nondeterministic states
// according to the Match for its kind.
func IsDeterministic(a *Automaton) bool {
	return len(NondeterministicStates(a, nil)) == 0
}
