package util

import (
	"fmt"
	"strings"
)

// OrderedSet is a set that remembers the order elements were first added in.
// Iteration over Elements is always in that order, which makes results built
// from it reproducible.
//
// The zero value is not ready for use; create one with NewOrderedSet.
type OrderedSet[E comparable] struct {
	index map[E]int
	elems []E
}

// NewOrderedSet creates a new OrderedSet containing the given elements, in
// order. Repeated elements after the first are ignored.
func NewOrderedSet[E comparable](of ...E) *OrderedSet[E] {
	s := &OrderedSet[E]{index: map[E]int{}}
	for _, e := range of {
		s.Add(e)
	}
	return s
}

// Add adds the given element to the end of the set. Returns whether the
// element was added; if it was already present, nothing changes and false is
// returned.
func (s *OrderedSet[E]) Add(element E) bool {
	if _, ok := s.index[element]; ok {
		return false
	}
	s.index[element] = len(s.elems)
	s.elems = append(s.elems, element)
	return true
}

// AddAll adds every element of s2 to s, in the order they are in s2.
func (s *OrderedSet[E]) AddAll(s2 *OrderedSet[E]) {
	for _, e := range s2.elems {
		s.Add(e)
	}
}

// Has returns whether the set contains the given element.
func (s *OrderedSet[E]) Has(element E) bool {
	_, ok := s.index[element]
	return ok
}

// Remove removes the given element. If it is not in the set, no effect occurs.
func (s *OrderedSet[E]) Remove(element E) {
	idx, ok := s.index[element]
	if !ok {
		return
	}
	delete(s.index, element)
	s.elems = append(s.elems[:idx], s.elems[idx+1:]...)
	for i := idx; i < len(s.elems); i++ {
		s.index[s.elems[i]] = i
	}
}

// Len returns the number of elements in the set.
func (s *OrderedSet[E]) Len() int {
	return len(s.elems)
}

// Empty returns whether the set is empty.
func (s *OrderedSet[E]) Empty() bool {
	return len(s.elems) == 0
}

// Elements returns a copy of the elements in insertion order.
func (s *OrderedSet[E]) Elements() []E {
	elems := make([]E, len(s.elems))
	copy(elems, s.elems)
	return elems
}

// Equal returns whether the two sets have the same elements regardless of
// the order they were added in.
func (s *OrderedSet[E]) Equal(o *OrderedSet[E]) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, e := range s.elems {
		if !o.Has(e) {
			return false
		}
	}
	return true
}

// String shows the contents of the set in insertion order.
func (s *OrderedSet[E]) String() string {
	var sb strings.Builder
	sb.WriteRune('{')
	for i, e := range s.elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%v", e))
	}
	sb.WriteRune('}')
	return sb.String()
}

// Queue is a FIFO queue. The zero value is an empty queue ready for use.
type Queue[E any] struct {
	items []E
}

// Push adds an item to the back of the queue.
func (q *Queue[E]) Push(item E) {
	q.items = append(q.items, item)
}

// Pop removes and returns the item at the front of the queue. Panics if the
// queue is empty.
func (q *Queue[E]) Pop() E {
	if len(q.items) < 1 {
		panic("pop from empty queue")
	}
	item := q.items[0]
	var zero E
	q.items[0] = zero
	q.items = q.items[1:]
	return item
}

// Len returns the number of items in the queue.
func (q *Queue[E]) Len() int {
	return len(q.items)
}
