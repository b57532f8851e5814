package hoist

import "strings"

// PackageName is a human-visible package name.
type PackageName string

// Reference is an opaque version/resolution string. It may carry a virtual
// decoration, delimited by '#', that must be stripped to compare identity:
// "virtual:abcd1234#npm:1.2.3" and "npm:1.2.3" name the same real package.
type Reference string

// realReference strips any virtual decoration from a Reference.
func realReference(ref Reference) Reference {
	s := string(ref)
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return Reference(s[i+1:])
	}
	return ref
}

// Ident identifies a package instance modulo virtualization. Two WorkNodes
// sharing an Ident are interchangeable for correctness, though they may
// carry different Locators (and so different References).
type Ident struct {
	Name PackageName
	Ref  Reference
}

func (id Ident) String() string {
	return string(id.Name) + "@" + string(id.Ref)
}

func makeIdent(name PackageName, ref Reference) Ident {
	return Ident{Name: name, Ref: realReference(ref)}
}

// Locator uniquely identifies a package instance, virtual decoration
// included.
type Locator struct {
	Name PackageName
	Ref  Reference
}

func (l Locator) String() string {
	return string(l.Name) + "@" + string(l.Ref)
}

// Reason is a diagnostic recorded against a node that a hoist attempt
// rejected. It is informational only: the engine never raises it, it is
// only surfaced through the tree dump (spec.md section 7).
type Reason struct {
	Root    Locator
	Message string
}

// InputNode is the caller's immutable dependency graph. The graph may be
// cyclic; Dependencies is ordered so the first-encounter order used to
// break popularity ties (see Ancestor Index weights) is reproducible.
type InputNode struct {
	Name         PackageName
	Reference    Reference
	Dependencies []*InputNode
	PeerNames    map[PackageName]bool
}

// WorkNode is the mutable internal working-graph node produced by the Input
// Cloner and mutated in place by the Hoist Applier.
type WorkNode struct {
	Name    PackageName
	Ident   Ident
	Locator Locator

	// References merged into this node across the instances that have been
	// hoisted into it.
	References *orderedSet[Reference]

	// Dependencies is the currently visible child set: what a lookup from
	// this node resolves for each name right now.
	Dependencies *orderedMap[*WorkNode]

	// OriginalDependencies are the children the input declared for this
	// node. Never mutated after cloning; it is the contract the Self-Checker
	// verifies against.
	OriginalDependencies *orderedMap[*WorkNode]

	// HoistedDependencies is read by the Candidate Finder's regular-dependency
	// check as, for each name, what an earlier hoist pass at some ancestor
	// root promised this node would find by walking up. The engine never
	// writes to it: it starts empty in Clone and stays empty, so that check
	// always passes.
	HoistedDependencies *orderedMap[*WorkNode]

	// RelayedDependencies records names that have been promoted past this
	// node as a breadcrumb: the Candidate Finder consults it to block later,
	// incompatible promotions through the same intermediate.
	RelayedDependencies *orderedMap[*WorkNode]

	// PeerNames is the subset of OriginalDependencies' names that this node
	// treats as peer dependencies (resolved through its own parent, not
	// itself).
	PeerNames map[PackageName]bool

	// Reasons records, per rejected dependency name, why a hoist attempt at
	// some root could not promote a candidate here. The first reason recorded
	// for a name is kept; later rejections of that name do not replace it.
	Reasons *orderedMap[Reason]
}

// IsPeer reports whether name is one of this node's declared peer
// dependencies.
func (n *WorkNode) IsPeer(name PackageName) bool {
	return n.PeerNames[name]
}

// clone produces a shallow copy of n: every collection is copied by value
// (new maps/sets with the same entries) but Ident, Locator and Name are
// shared, and the WorkNode values reachable through the collections are not
// themselves copied. This is the copy-on-write unit the Hoist Applier uses
// when an intermediate ancestor needs a divergent view (spec.md section 4.D, section 9).
func (n *WorkNode) clone() *WorkNode {
	peers := make(map[PackageName]bool, len(n.PeerNames))
	for k, v := range n.PeerNames {
		peers[k] = v
	}
	return &WorkNode{
		Name:                 n.Name,
		Ident:                n.Ident,
		Locator:              n.Locator,
		References:           n.References.clone(),
		Dependencies:         n.Dependencies.clone(),
		OriginalDependencies: n.OriginalDependencies.clone(),
		HoistedDependencies:  n.HoistedDependencies.clone(),
		RelayedDependencies:  n.RelayedDependencies.clone(),
		PeerNames:            peers,
		Reasons:              n.Reasons.clone(),
	}
}

// OutputNode is the hoist result: a projection of a WorkNode that keeps only
// what callers need. The graph may still be cyclic; Shrink memoizes one
// OutputNode per WorkNode so sharing and cycles are preserved.
type OutputNode struct {
	Name         PackageName
	References   []Reference
	Dependencies []*OutputNode
}

// orderedMap is a Name-keyed map with deterministic, insertion-order
// iteration. Several WorkNode fields need exactly this: O(1) insert/lookup/
// delete, but with iteration order that the popularity tie-break and the
// tree dump can both observe (spec.md section 9). No library in the retrieval pack
// offers an ordered map with these semantics, so this is a small
// stdlib-only helper rather than a borrowed dependency.
type orderedMap[V any] struct {
	values map[PackageName]V
	order  []PackageName
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{values: make(map[PackageName]V)}
}

func (m *orderedMap[V]) Get(name PackageName) (V, bool) {
	v, ok := m.values[name]
	return v, ok
}

func (m *orderedMap[V]) Set(name PackageName, v V) {
	if _, ok := m.values[name]; !ok {
		m.order = append(m.order, name)
	}
	m.values[name] = v
}

func (m *orderedMap[V]) Delete(name PackageName) {
	if _, ok := m.values[name]; !ok {
		return
	}
	delete(m.values, name)
	for i, k := range m.order {
		if k == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *orderedMap[V]) Len() int { return len(m.order) }

// Each iterates entries in insertion order. fn must not mutate m.
func (m *orderedMap[V]) Each(fn func(name PackageName, v V)) {
	for _, k := range m.order {
		fn(k, m.values[k])
	}
}

func (m *orderedMap[V]) clone() *orderedMap[V] {
	c := &orderedMap[V]{
		values: make(map[PackageName]V, len(m.values)),
		order:  append([]PackageName(nil), m.order...),
	}
	for k, v := range m.values {
		c.values[k] = v
	}
	return c
}

// orderedSet is an insertion-ordered set of References, used for the
// per-node merged References.
type orderedSet[T comparable] struct {
	present map[T]bool
	order   []T
}

func newOrderedSet[T comparable]() *orderedSet[T] {
	return &orderedSet[T]{present: make(map[T]bool)}
}

func (s *orderedSet[T]) Add(v T) {
	if s.present[v] {
		return
	}
	s.present[v] = true
	s.order = append(s.order, v)
}

func (s *orderedSet[T]) Has(v T) bool { return s.present[v] }

func (s *orderedSet[T]) Len() int { return len(s.order) }

func (s *orderedSet[T]) Each(fn func(T)) {
	for _, v := range s.order {
		fn(v)
	}
}

func (s *orderedSet[T]) clone() *orderedSet[T] {
	c := &orderedSet[T]{
		present: make(map[T]bool, len(s.present)),
		order:   append([]T(nil), s.order...),
	}
	for k := range s.present {
		c.present[k] = true
	}
	return c
}
