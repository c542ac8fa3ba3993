// Package arena holds parent-linked trees of values. Nodes are stored in a
// single slice and refer to their parents by index, so a tree never contains
// pointer cycles and a shared prefix of many paths is stored only once.
package arena

// None is the parent ID of a root node.
const None = -1

type node[V any] struct {
	value    V
	parent   int
	children []int
}

// Forest is a collection of trees of values of type V. Once added, a node's
// value and parent never change. The zero value is an empty Forest ready for
// use.
type Forest[V any] struct {
	nodes []node[V]
	roots []int
}

// Add adds v as a new node whose parent is the node with the given ID, or as
// a new root if parent is None. The ID of the new node is returned. Panics if
// parent is neither None nor a node in the Forest.
func (f *Forest[V]) Add(parent int, v V) int {
	if parent != None && !f.Has(parent) {
		panic("arena: add under non-existent parent")
	}

	id := len(f.nodes)
	f.nodes = append(f.nodes, node[V]{value: v, parent: parent})

	if parent == None {
		f.roots = append(f.roots, id)
	} else {
		f.nodes[parent].children = append(f.nodes[parent].children, id)
	}

	return id
}

// Has returns whether id is a node in the Forest.
func (f *Forest[V]) Has(id int) bool {
	return id >= 0 && id < len(f.nodes)
}

// Len returns the number of nodes in the Forest.
func (f *Forest[V]) Len() int {
	return len(f.nodes)
}

// Get returns the value at the given node. ok is false if there is no such
// node.
func (f *Forest[V]) Get(id int) (v V, ok bool) {
	if !f.Has(id) {
		return v, false
	}
	return f.nodes[id].value, true
}

// Parent returns the ID of the parent of the given node, or None if it is a
// root or does not exist.
func (f *Forest[V]) Parent(id int) int {
	if !f.Has(id) {
		return None
	}
	return f.nodes[id].parent
}

// Children returns the IDs of the children of the given node in the order
// they were added.
func (f *Forest[V]) Children(id int) []int {
	if !f.Has(id) {
		return nil
	}
	return append([]int(nil), f.nodes[id].children...)
}

// Roots returns the IDs of all root nodes in the order they were added.
func (f *Forest[V]) Roots() []int {
	return append([]int(nil), f.roots...)
}

// Leaves returns the IDs of all nodes that have no children, in ID order.
func (f *Forest[V]) Leaves() []int {
	var leaves []int
	for id := range f.nodes {
		if len(f.nodes[id].children) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// Depth returns the number of ancestors of the given node. Roots have depth 0.
func (f *Forest[V]) Depth(id int) int {
	d := 0
	for p := f.Parent(id); p != None; p = f.Parent(p) {
		d++
	}
	return d
}

// Path returns the IDs of the nodes from the root of the given node's tree
// down to and including the node itself. Returns nil if id does not exist.
func (f *Forest[V]) Path(id int) []int {
	if !f.Has(id) {
		return nil
	}

	var rev []int
	for cur := id; cur != None; cur = f.nodes[cur].parent {
		rev = append(rev, cur)
	}

	path := make([]int, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}
