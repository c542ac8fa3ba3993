// Package util contains small generic helpers shared by the gar packages.
package util

import (
	"sort"
	"strings"
)

// MakeTextList gives a nice English list of the given items, such as "q0",
// "q0 and q1", or "q0, q1, and q2".
func MakeTextList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		// if its more than two, use an oxford comma
		withAnd := make([]string, len(items))
		copy(withAnd, items)
		withAnd[len(withAnd)-1] = "and " + withAnd[len(withAnd)-1]
		return strings.Join(withAnd, ", ")
	}
}

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is alphabetical, but this function does not
// guarantee this will always be the case.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// OrderedIntKeys returns the keys of m in ascending order.
func OrderedIntKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Ints(keys)

	return keys
}
