package sim

import (
	"github.com/dekarrin/gar/internal/arena"
)

// Tree is every configuration produced while simulating one input. It has one
// root per initial configuration, and each path from a root to a leaf is one
// candidate computation.
//
// The zero value is an empty Tree ready for use.
type Tree struct {
	nodes arena.Forest[Configuration]
}

// Add adds c to the tree under its parent and returns it with its ID set. c
// must have been returned by InitialConfigurations (a root) or by Step on a
// configuration already in the tree.
func (t *Tree) Add(c Configuration) Configuration {
	// forest IDs are assigned in order, so the next one is known up front
	c.id = t.nodes.Len()
	t.nodes.Add(c.parent, c)
	return c
}

// Len returns the number of configurations in the tree.
func (t *Tree) Len() int {
	return t.nodes.Len()
}

// Get returns the configuration with the given ID.
func (t *Tree) Get(id int) (Configuration, bool) {
	return t.nodes.Get(id)
}

func (t *Tree) all(ids []int) []Configuration {
	cs := make([]Configuration, len(ids))
	for i, id := range ids {
		cs[i], _ = t.nodes.Get(id)
	}
	return cs
}

// Roots returns the initial configurations in the order they were added.
func (t *Tree) Roots() []Configuration {
	return t.all(t.nodes.Roots())
}

// Children returns the configurations stepped to from the one with the given
// ID, in the order they were added.
func (t *Tree) Children(id int) []Configuration {
	return t.all(t.nodes.Children(id))
}

// Leaves returns every configuration that has no children, ordered by ID.
func (t *Tree) Leaves() []Configuration {
	return t.all(t.nodes.Leaves())
}

// Path returns the configurations from the root of the tree down to the one
// with the given ID, inclusive. It is nil if there is no such configuration.
func (t *Tree) Path(id int) []Configuration {
	return t.all(t.nodes.Path(id))
}
