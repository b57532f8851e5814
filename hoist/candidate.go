package hoist

import "fmt"

// candidateLocation is one place in the subtree below a hoist root where a
// promotable instance of some package lives: Path is the chain of ancestor
// WorkNodes strictly between the root and Node, ending in Node's immediate
// parent. It is never empty: the root's direct children are never
// themselves candidates (see finder.walk).
type candidateLocation struct {
	Path []*WorkNode
	Node *WorkNode
}

// HoistCandidateSet collects every promotable location found for a single
// package Name during one Candidate Finder search, naming the single
// representative Node (the highest-weight instance) that would be
// installed at the root if this candidate set is applied.
type HoistCandidateSet struct {
	Name      PackageName
	Node      *WorkNode
	Weight    int
	Locations []candidateLocation
}

// FindCandidates is the Candidate Finder (component C). It walks the
// subtree below root looking for nodes that could be promoted to become
// direct children of root, returning one HoistCandidateSet per package
// Name in first-encounter order (so that applying them in order is
// deterministic and ties are broken the same way every run).
//
// ancestorDeps is the cumulative ancestor-dependency map: what each name
// resolves to when viewed from just above root. ancestorIdx supplies each
// candidate's popularity weight.
func FindCandidates(root *WorkNode, ancestorDeps *orderedMap[*WorkNode], ancestorIdx AncestorIndex, debugLevel int) []*HoistCandidateSet {
	f := &finder{
		root:         root,
		ancestorDeps: ancestorDeps,
		ancestorIdx:  ancestorIdx,
		debugLevel:   debugLevel,
		seen:         newLocatorSeen(),
		onPath:       map[*WorkNode]bool{root: true},
		byName:       make(map[PackageName]*HoistCandidateSet),
	}

	root.Dependencies.Each(func(name PackageName, child *WorkNode) {
		if root.IsPeer(name) {
			return
		}
		f.walk(nil, child, 0)
	})

	result := make([]*HoistCandidateSet, 0, len(f.order))
	for _, name := range f.order {
		result = append(result, f.byName[name])
	}
	return result
}

type finder struct {
	root         *WorkNode
	ancestorDeps *orderedMap[*WorkNode]
	ancestorIdx  AncestorIndex
	debugLevel   int

	seen   *locatorSeen
	onPath map[*WorkNode]bool

	order  []PackageName
	byName map[PackageName]*HoistCandidateSet
}

// walk performs the depth-first traversal below root. stack holds the
// ancestors strictly between root and node, ending in node's
// immediate parent (empty at depth 0, root's direct children). depth 0
// nodes are root's direct children - already resident at root, so they are
// never evaluated as candidates, but their subtrees are still searched.
func (f *finder) walk(stack []*WorkNode, node *WorkNode, depth int) {
	if f.onPath[node] {
		return
	}
	f.onPath[node] = true
	defer delete(f.onPath, node)

	if depth > 0 {
		f.evaluate(stack, node)
	}

	if f.seen.markSeen(node.Locator) {
		return
	}

	node.Dependencies.Each(func(name PackageName, child *WorkNode) {
		if node.IsPeer(name) {
			return
		}
		nextStack := make([]*WorkNode, len(stack)+1)
		copy(nextStack, stack)
		nextStack[len(stack)] = node
		f.walk(nextStack, child, depth+1)
	})
}

// evaluate applies the promotability predicates of spec.md section 4.C, in
// order, to node reached via stack (stack's last element is node's
// immediate parent). It records node as a candidate location if every
// predicate holds.
func (f *finder) evaluate(stack []*WorkNode, node *WorkNode) {
	parent := stack[len(stack)-1]

	reject := func(reason string) {
		if f.debugLevel < 2 {
			return
		}
		if _, has := parent.Reasons.Get(node.Name); has {
			return
		}
		parent.Reasons.Set(node.Name, Reason{Root: f.root.Locator, Message: reason})
	}

	// 1. Not a peer at the root.
	if f.root.IsPeer(node.Name) {
		reject(fmt.Sprintf("%s is a peer dependency of %s", node.Name, f.root.Locator))
		return
	}

	// 2. No identity conflict with root.
	if f.root.Name == node.Name && f.root.Ident != node.Ident {
		reject(fmt.Sprintf("conflicts with root package identity %s", f.root.Ident))
		return
	}

	// 3. Name available at root.
	if ok, reason := f.nameAvailable(node, stack); !ok {
		reject(reason)
		return
	}

	// 4. Popularity wins.
	weight := f.ancestorIdx.Weight(node)
	existing := f.byName[node.Name]
	if existing != nil && existing.Node.Ident != node.Ident && weight < existing.Weight {
		reject(fmt.Sprintf("%s (weight %d) is less popular than already-hoisted %s (weight %d)",
			node.Locator, weight, existing.Node.Locator, existing.Weight))
		return
	}

	// 5. Regular dependencies will be satisfied after promotion.
	if ok, reason := f.regularDepsSatisfied(node); !ok {
		reject(reason)
		return
	}

	// 6. Peer dependencies are satisfied upstream.
	if ok, reason := f.peersSatisfiedUpstream(stack, node); !ok {
		reject(reason)
		return
	}

	f.record(stack, node, weight)
}

func (f *finder) nameAvailable(node *WorkNode, ancestors []*WorkNode) (bool, string) {
	if d, has := f.root.OriginalDependencies.Get(node.Name); has && d.Ident != node.Ident {
		return false, fmt.Sprintf("%s already depends on an incompatible %s", f.root.Locator, node.Name)
	}
	if d, has := f.root.Dependencies.Get(node.Name); has && d.Ident != node.Ident {
		return false, fmt.Sprintf("%s already resolves an incompatible %s", f.root.Locator, node.Name)
	}
	for _, anc := range ancestors {
		if d, has := anc.Dependencies.Get(node.Name); has && d.Ident != node.Ident {
			return false, fmt.Sprintf("%s blocks %s via its dependencies", anc.Locator, node.Name)
		}
		if d, has := anc.RelayedDependencies.Get(node.Name); has && d.Ident != node.Ident {
			return false, fmt.Sprintf("%s blocks %s via a relayed dependency", anc.Locator, node.Name)
		}
	}
	return true, ""
}

func (f *finder) regularDepsSatisfied(node *WorkNode) (bool, string) {
	if existing, has := f.root.Dependencies.Get(node.Name); has && existing.Ident == node.Ident {
		return true, ""
	}

	ok := true
	var reason string
	node.HoistedDependencies.Each(func(name PackageName, d *WorkNode) {
		if !ok {
			return
		}
		if _, declared := node.OriginalDependencies.Get(name); !declared {
			return
		}
		av, has := f.ancestorDeps.Get(name)
		if !has || av.Ident != d.Ident {
			ok = false
			reason = fmt.Sprintf("%s expects %s to resolve %s, which is not guaranteed above %s",
				node.Locator, name, d.Ident, f.root.Locator)
		}
	})
	return ok, reason
}

func (f *finder) peersSatisfiedUpstream(stack []*WorkNode, node *WorkNode) (bool, string) {
	if len(node.PeerNames) == 0 {
		return true, ""
	}
	required := make(map[PackageName]bool, len(node.PeerNames))
	for name := range node.PeerNames {
		required[name] = true
	}

	for i := len(stack) - 1; i >= 0 && len(required) > 0; i-- {
		anc := stack[i]
		pending := make([]PackageName, 0, len(required))
		for name := range required {
			pending = append(pending, name)
		}
		for _, name := range pending {
			if d, has := anc.Dependencies.Get(name); has && !anc.IsPeer(name) {
				return false, fmt.Sprintf("peer %s is still resolved by %s's own %s", name, anc.Locator, d.Locator)
			}
			if anc.IsPeer(name) {
				continue
			}
			delete(required, name)
		}
	}
	return true, ""
}

// record applies the per-name deduplication rules of spec.md section 4.C.
func (f *finder) record(stack []*WorkNode, node *WorkNode, weight int) {
	loc := candidateLocation{Path: append([]*WorkNode(nil), stack...), Node: node}

	existing := f.byName[node.Name]
	switch {
	case existing == nil:
		f.order = append(f.order, node.Name)
		f.byName[node.Name] = &HoistCandidateSet{
			Name:      node.Name,
			Node:      node,
			Weight:    weight,
			Locations: []candidateLocation{loc},
		}
	case existing.Node.Ident == node.Ident:
		existing.Locations = append(existing.Locations, loc)
	case weight > existing.Weight:
		f.byName[node.Name] = &HoistCandidateSet{
			Name:      node.Name,
			Node:      node,
			Weight:    weight,
			Locations: []candidateLocation{loc},
		}
	default:
		// Equal weight, different Ident: the first-encountered candidate
		// keeps its spot (see the tie-break open question in DESIGN.md).
	}
}
