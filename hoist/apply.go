package hoist

// ConsistencyError is the engine's only error kind (spec.md section 7): the
// Self-Checker found a broken require- or peer-promise, which can only mean
// a bug in the hoisting algorithm for the given input. It carries the check
// log and, when available, a tree dump, and names the hoist that triggered
// it.
type ConsistencyError struct {
	Path string
	Log  string
	Dump string
}

func (e *ConsistencyError) Error() string {
	msg := "dephoist: internal consistency violation while hoisting " + e.Path + "\n" + e.Log
	if e.Dump != "" {
		msg += "\n\n" + e.Dump
	}
	return msg
}

// cloneBatch is the lazy CloneTree of spec.md section 4.D/section 9: a
// copy-on-write map from an original intermediate ancestor to the single
// clone created for it during one apply pass. Scoping it to the pass (not
// to a single candidate or location) is what lets two different promotions
// that share an intermediate reuse the same clone.
type cloneBatch struct {
	clones map[*WorkNode]*WorkNode
}

func newCloneBatch() *cloneBatch {
	return &cloneBatch{clones: make(map[*WorkNode]*WorkNode)}
}

// ensure returns the (possibly freshly created) clone of original, splicing
// it into parentCur's Dependencies under original's Name the first time it
// is requested. parentCur is always already the up-to-date view of its own
// parent, so siblings of original that nobody touched this pass keep
// sharing the unmodified original.
func (b *cloneBatch) ensure(parentCur *WorkNode, original *WorkNode) *WorkNode {
	if c, ok := b.clones[original]; ok {
		return c
	}
	c := original.clone()
	b.clones[original] = c
	parentCur.Dependencies.Set(c.Name, c)
	return c
}

// Engine runs the recursive descent of spec.md section 2: at every node,
// treated as a hoist root in turn, it alternates Candidate Finder and
// Hoist Applier passes until a fixed point, then recurses into that
// node's non-peer children.
type Engine struct {
	GraphRoot   *WorkNode
	AncestorIdx AncestorIndex
	Check       bool
	DebugLevel  int
}

// Run executes the full hoist over e.GraphRoot in place.
func (e *Engine) Run() error {
	return e.recurse(e.GraphRoot, map[*WorkNode]bool{e.GraphRoot: true}, newOrderedMap[*WorkNode]())
}

func (e *Engine) recurse(root *WorkNode, seenRoots map[*WorkNode]bool, ancestorDeps *orderedMap[*WorkNode]) error {
	for {
		candidates := FindCandidates(root, ancestorDeps, e.AncestorIdx, e.DebugLevel)
		if len(candidates) == 0 {
			break
		}
		if err := e.apply(root, candidates); err != nil {
			return err
		}
	}

	childAncestorDeps := visibleMap(ancestorDeps, root)

	var err error
	root.Dependencies.Each(func(name PackageName, child *WorkNode) {
		if err != nil || root.IsPeer(name) || seenRoots[child] {
			return
		}
		nextSeen := make(map[*WorkNode]bool, len(seenRoots)+1)
		for k := range seenRoots {
			nextSeen[k] = true
		}
		nextSeen[child] = true
		if rerr := e.recurse(child, nextSeen, childAncestorDeps); rerr != nil {
			err = rerr
		}
	})
	return err
}

// apply is the Hoist Applier (component D) for one Finder result: every
// (path, node) location of every candidate set is promoted to root, cloning
// intermediates lazily through a single batch shared across the whole pass.
func (e *Engine) apply(root *WorkNode, candidates []*HoistCandidateSet) error {
	batch := newCloneBatch()

	for _, cs := range candidates {
		for _, loc := range cs.Locations {
			cur := root
			for _, anc := range loc.Path {
				cur = batch.ensure(cur, anc)
				cur.RelayedDependencies.Set(loc.Node.Name, loc.Node)
			}

			// cur is now the (possibly cloned) terminal intermediate: the
			// node whose original child was loc.Node.
			cur.Dependencies.Delete(loc.Node.Name)
			cur.Reasons.Delete(loc.Node.Name)

			if root.Name == loc.Node.Name && root.Ident != loc.Node.Ident {
				// Predicate 2 forbids this; double-check and skip.
				continue
			}

			if existing, has := root.Dependencies.Get(loc.Node.Name); has {
				if existing.Ident == loc.Node.Ident {
					loc.Node.References.Each(func(ref Reference) {
						existing.References.Add(ref)
					})
				}
			} else {
				root.Dependencies.Set(loc.Node.Name, loc.Node)
			}

			if e.Check || e.DebugLevel >= 9 {
				if diag := SelfCheck(e.GraphRoot); diag != "" {
					return &ConsistencyError{
						Path: loc.Node.Locator.String() + " -> " + root.Locator.String(),
						Log:  diag,
					}
				}
			}
		}
	}
	return nil
}

// visibleMap overlays node's own non-peer Dependencies on top of
// ancestorDeps, producing the resolution environment visible just below
// node - i.e. what node's children see when they walk up. A name node
// itself treats as a peer is left untouched: node does not resolve that
// name itself, so the correct value for anything below node to inherit is
// still whatever ancestorDeps already says, not node's own (possibly
// stale) nested instance. This is the same overlay the Self-Checker
// computes while descending (section 4.E), and it is how the Candidate
// Finder's ancestorDeps argument is derived for each recursive call.
func visibleMap(ancestorDeps *orderedMap[*WorkNode], node *WorkNode) *orderedMap[*WorkNode] {
	merged := ancestorDeps.clone()
	node.Dependencies.Each(func(name PackageName, d *WorkNode) {
		if node.IsPeer(name) {
			return
		}
		merged.Set(name, d)
	})
	return merged
}
