package hoist

// Clone is the Input Cloner (component A): it converts the caller's
// immutable InputNode graph into a mutable WorkGraph, one WorkNode per
// distinct InputNode identity. A single depth-first traversal, memoized by
// InputNode pointer, makes repeat visits (including self-references) reuse
// the earlier WorkNode so input cycles survive intact.
func Clone(root *InputNode) *WorkNode {
	memo := make(map[*InputNode]*WorkNode)

	var walk func(n *InputNode) *WorkNode
	walk = func(n *InputNode) *WorkNode {
		if wn, ok := memo[n]; ok {
			return wn
		}

		wn := &WorkNode{
			Name:                 n.Name,
			Ident:                makeIdent(n.Name, n.Reference),
			Locator:              Locator{Name: n.Name, Ref: n.Reference},
			References:           newOrderedSet[Reference](),
			Dependencies:         newOrderedMap[*WorkNode](),
			OriginalDependencies: newOrderedMap[*WorkNode](),
			HoistedDependencies:  newOrderedMap[*WorkNode](),
			RelayedDependencies:  newOrderedMap[*WorkNode](),
			PeerNames:            make(map[PackageName]bool, len(n.PeerNames)),
			Reasons:              newOrderedMap[Reason](),
		}
		wn.References.Add(n.Reference)
		for name := range n.PeerNames {
			wn.PeerNames[name] = true
		}

		// Memoize before recursing so a cycle (including a direct
		// self-reference) resolves back to this same WorkNode.
		memo[n] = wn

		for _, dep := range n.Dependencies {
			child := walk(dep)
			wn.Dependencies.Set(dep.Name, child)
			wn.OriginalDependencies.Set(dep.Name, child)
		}

		return wn
	}

	return walk(root)
}
