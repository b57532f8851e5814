package hoist

// AncestorIndex maps each package Ident to the set of distinct package
// Idents that depend on it through a non-peer edge somewhere in the
// original WorkGraph. Its cardinality for a given Ident is that package
// instance's weight: the more distinct dependents it has, the more
// popular it is, and the more strongly it should win a name collision
// (component B).
type AncestorIndex map[Ident]map[Ident]bool

// BuildAncestorIndex traverses the WorkGraph once, memoized by WorkNode
// identity so cycles terminate, and records one entry per non-peer edge.
// Peer edges are excluded: a peer's popularity comes from its regular
// dependents, not from the packages that merely declare it as a peer.
func BuildAncestorIndex(root *WorkNode) AncestorIndex {
	idx := make(AncestorIndex)
	visited := make(map[*WorkNode]bool)

	var walk func(n *WorkNode)
	walk = func(n *WorkNode) {
		if visited[n] {
			return
		}
		visited[n] = true

		n.Dependencies.Each(func(name PackageName, child *WorkNode) {
			if n.IsPeer(name) {
				walk(child)
				return
			}
			set, ok := idx[child.Ident]
			if !ok {
				set = make(map[Ident]bool)
				idx[child.Ident] = set
			}
			set[n.Ident] = true
			walk(child)
		})
	}
	walk(root)

	return idx
}

// Weight returns the popularity of node: the number of distinct package
// Idents that depend on it, per the index built by BuildAncestorIndex.
func (idx AncestorIndex) Weight(node *WorkNode) int {
	return len(idx[node.Ident])
}
