package automaton

import (
	"github.com/dekarrin/gar/internal/util"
)

// Closure gives the set of states reachable from the given state using zero
// or more epsilon transitions. The state itself is always in its own closure.
// States are returned in the order they are discovered by a breadth-first
// search, so the result is the same on every call for the same automaton.
//
// Each state is visited at most once, so epsilon cycles are safe. Returns nil
// if the state does not exist.
func Closure(a *Automaton, id int) []State {
	start, ok := a.State(id)
	if !ok {
		return nil
	}

	seen := util.NewOrderedSet(start.ID)
	var checking util.Queue[int]
	checking.Push(start.ID)

	for checking.Len() > 0 {
		cur := checking.Pop()

		for _, t := range a.TransitionsFrom(cur) {
			if !t.IsEpsilon() {
				continue
			}
			if seen.Add(t.To) {
				checking.Push(t.To)
			}
		}
	}

	ids := seen.Elements()
	closure := make([]State, len(ids))
	for i, sid := range ids {
		closure[i], _ = a.State(sid)
	}
	return closure
}

// ClosureOfSet gives the set of states reachable from any of the given states
// using zero or more epsilon transitions. The closures are joined in the order
// the IDs are given, without repeats. IDs of states that do not exist are
// ignored.
func ClosureOfSet(a *Automaton, ids ...int) []State {
	seen := util.NewOrderedSet[int]()
	var all []State

	for _, id := range ids {
		for _, s := range Closure(a, id) {
			if seen.Add(s.ID) {
				all = append(all, s)
			}
		}
	}

	return all
}
