package hoist

// Shrink is the Output Shrinker (component E, second half): it projects a
// WorkGraph into the minimal OutputNode graph callers consume, dropping
// everything that was only bookkeeping for the engine itself (Ident,
// OriginalDependencies, HoistedDependencies, RelayedDependencies, Reasons,
// PeerNames) and keeping peer edges out of Dependencies entirely, since a
// peer dependency is never resolved through the node that declares it.
//
// The walk is memoized by WorkNode pointer identity so that sharing
// introduced by hoisting (two parents pointing at the same promoted node)
// and cycles already present in the WorkGraph both survive into the
// OutputNode graph unchanged.
func Shrink(root *WorkNode) *OutputNode {
	memo := make(map[*WorkNode]*OutputNode)

	var walk func(n *WorkNode) *OutputNode
	walk = func(n *WorkNode) *OutputNode {
		if on, ok := memo[n]; ok {
			return on
		}

		on := &OutputNode{
			Name:       n.Name,
			References: make([]Reference, 0, n.References.Len()),
		}
		memo[n] = on

		n.References.Each(func(ref Reference) {
			on.References = append(on.References, ref)
		})

		n.Dependencies.Each(func(name PackageName, child *WorkNode) {
			if n.IsPeer(name) {
				return
			}
			on.Dependencies = append(on.Dependencies, walk(child))
		})

		return on
	}

	return walk(root)
}
