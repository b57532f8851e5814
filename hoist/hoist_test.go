package hoist

import (
	"strings"
	"testing"
	"time"
)

// build constructs an InputNode tree from a compact literal description,
// purely to keep the test bodies below readable.
func build(name, ref string, deps ...*InputNode) *InputNode {
	return &InputNode{Name: PackageName(name), Reference: Reference(ref), Dependencies: deps}
}

func withPeers(n *InputNode, peers ...string) *InputNode {
	n.PeerNames = make(map[PackageName]bool, len(peers))
	for _, p := range peers {
		n.PeerNames[PackageName(p)] = true
	}
	return n
}

func run(t *testing.T, root *InputNode) *WorkNode {
	t.Helper()
	work := Clone(root)
	idx := BuildAncestorIndex(work)
	eng := &Engine{GraphRoot: work, AncestorIdx: idx, Check: true}
	if err := eng.Run(); err != nil {
		t.Fatalf("engine run: %v", err)
	}
	return work
}

func depNames(n *WorkNode) map[PackageName]bool {
	out := make(map[PackageName]bool)
	n.Dependencies.Each(func(name PackageName, _ *WorkNode) { out[name] = true })
	return out
}

// TestSimpleDuplicateHoists covers spec.md section 8 scenario 1: a single
// duplicate two levels deep with nothing blocking it is promoted to root.
func TestSimpleDuplicateHoists(t *testing.T) {
	leaf := build("lodash", "4.17.0")
	mid := build("a", "1.0.0", leaf)
	root := build("root", "workspace:.", mid)

	work := run(t, root)

	if !depNames(work)["lodash"] {
		t.Fatalf("expected lodash hoisted to root, got %v", depNames(work))
	}
	aNode, _ := work.Dependencies.Get("a")
	if depNames(aNode)["lodash"] {
		t.Fatalf("expected lodash removed from a's own dependencies after hoist")
	}
}

// TestConflictAtRootBlocksHoist covers scenario 2: root already depends on
// an incompatible version of the same package by name, so the nested
// instance cannot be promoted.
func TestConflictAtRootBlocksHoist(t *testing.T) {
	nested := build("lodash", "3.0.0")
	mid := build("a", "1.0.0", nested)
	rootLodash := build("lodash", "4.17.0")
	root := build("root", "workspace:.", mid, rootLodash)

	work := run(t, root)

	rootDep, _ := work.Dependencies.Get("lodash")
	if rootDep.Ident.Ref != "4.17.0" {
		t.Fatalf("root's own lodash should be untouched, got %s", rootDep.Ident.Ref)
	}
	aNode, _ := work.Dependencies.Get("a")
	nestedDep, _ := aNode.Dependencies.Get("lodash")
	if nestedDep == nil || nestedDep.Ident.Ref != "3.0.0" {
		t.Fatalf("expected the conflicting nested lodash to remain under a, got %v", nestedDep)
	}
}

// TestPeerDependencyNeverHoistedPastRoot covers scenario 3: a package that
// is reached only through a peer edge (plugin declares react as a peer) is
// never promoted to root, because the Candidate Finder does not follow peer
// edges.
func TestPeerDependencyNeverHoistedPastRoot(t *testing.T) {
	react := build("react", "18.0.0")
	mid := withPeers(build("plugin", "1.0.0", react), "react")
	root := build("root", "workspace:.", mid)

	work := run(t, root)

	if depNames(work)["react"] {
		t.Fatalf("react must not be hoisted to root while it is only reachable through plugin's peer edge, got %v", depNames(work))
	}
}

// TestPeerBlocksDeeperHoist covers scenario 4: a node declares a peer
// dependency that some ancestor resolves as a regular dependency. Whatever
// the engine decides to hoist, every peer promise made along the way must
// still hold once it settles - that is what SelfCheck verifies.
func TestPeerBlocksDeeperHoist(t *testing.T) {
	react := build("react", "18.0.0")
	plugin := withPeers(build("plugin", "1.0.0"), "react")
	mid := build("a", "1.0.0", react, plugin)
	root := build("root", "workspace:.", mid)

	work := run(t, root)

	if diag := SelfCheck(work); diag != "" {
		t.Fatalf("expected a consistent graph after hoisting, got: %s", diag)
	}
}

// TestSelfCheckAcceptsRetainedPeerWithMatchingIdent reproduces the case
// where a node's own nested peer instance is a different WorkNode than the
// one its parent resolves, but shares the same Ident: root hoists A's react
// to the root, while plugin (a peer dependency on react) keeps its own
// never-hoisted nested react of the same version. Walking up from plugin's
// parent reaches an Ident-equal react, so this must not be flagged.
func TestSelfCheckAcceptsRetainedPeerWithMatchingIdent(t *testing.T) {
	a := build("a", "1.0.0", build("react", "18.0.0"))
	plugin := withPeers(build("plugin", "1.0.0", build("react", "18.0.0")), "react")
	root := build("root", "workspace:.", a, plugin)

	work := run(t, root)

	if diag := SelfCheck(work); diag != "" {
		t.Fatalf("expected a retained peer with a matching Ident to pass SelfCheck, got: %s", diag)
	}
}

// TestPopularityTieBreak covers scenario 5: two incompatible versions of the
// same package compete for the same root slot, and the one with more
// distinct non-peer dependents wins.
func TestPopularityTieBreak(t *testing.T) {
	popular := build("lib", "2.0.0")
	unpopular := build("lib", "1.0.0")

	c1 := build("c1", "1.0.0", popular)
	c2 := build("c2", "1.0.0", popular)
	c3 := build("c3", "1.0.0", unpopular)

	root := build("root", "workspace:.", c1, c2, c3)

	work := run(t, root)

	winner, has := work.Dependencies.Get("lib")
	if !has || winner.Ident.Ref != "2.0.0" {
		t.Fatalf("expected the more popular lib@2.0.0 to win the root slot, got %v", winner)
	}
}

// TestCycleDoesNotHang covers scenario 6: a dependency cycle between two
// non-root packages must not cause the engine to loop forever or panic.
func TestCycleDoesNotHang(t *testing.T) {
	a := &InputNode{Name: "a", Reference: "1.0.0"}
	b := &InputNode{Name: "b", Reference: "1.0.0"}
	a.Dependencies = []*InputNode{b}
	b.Dependencies = []*InputNode{a}
	root := build("root", "workspace:.", a)

	done := make(chan *WorkNode, 1)
	go func() {
		done <- run(t, root)
	}()
	select {
	case work := <-done:
		if !depNames(work)["a"] {
			t.Fatalf("expected a to remain reachable from root")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("engine did not terminate on a cyclic graph")
	}
}

// TestSelfCheckCatchesBrokenRequirePromise verifies the Self-Checker notices
// when a node's own Dependencies no longer satisfy one of its
// originalDependencies promises.
func TestSelfCheckCatchesBrokenRequirePromise(t *testing.T) {
	leaf := build("lodash", "4.17.0")
	mid := build("a", "1.0.0", leaf)
	root := build("root", "workspace:.", mid)
	work := Clone(root)

	aNode, _ := work.Dependencies.Get("a")
	aNode.Dependencies.Delete("lodash")

	if diag := SelfCheck(work); diag == "" {
		t.Fatalf("expected SelfCheck to flag the broken require promise")
	}
}

func TestSelfCheckPassesOnCleanGraph(t *testing.T) {
	leaf := build("lodash", "4.17.0")
	mid := build("a", "1.0.0", leaf)
	root := build("root", "workspace:.", mid)
	work := Clone(root)

	if diag := SelfCheck(work); diag != "" {
		t.Fatalf("expected a freshly cloned graph to pass SelfCheck, got: %s", diag)
	}
}

func TestShrinkDropsPeerEdgesAndBookkeeping(t *testing.T) {
	react := build("react", "18.0.0")
	plugin := withPeers(build("plugin", "1.0.0", react), "react")
	root := build("root", "workspace:.", plugin, react)
	work := Clone(root)

	out := Shrink(work)

	for _, d := range out.Dependencies {
		if d.Name == "plugin" {
			for _, pd := range d.Dependencies {
				if pd.Name == "react" {
					t.Fatalf("peer edge from plugin to react must not survive Shrink")
				}
			}
		}
	}
}

// TestDumpRendersMergedReferences checks that a node which absorbed another
// location's Reference through hoisting (two instances sharing an Ident via
// a virtual decoration) shows both in the dump.
func TestDumpRendersMergedReferences(t *testing.T) {
	c1 := build("c1", "1.0.0", build("lib", "4.17.0"))
	c2 := build("c2", "1.0.0", build("lib", "somehash#4.17.0"))
	root := build("root", "workspace:.", c1, c2)

	work := run(t, root)

	out := Dump(work, 0)
	if !strings.Contains(out, "[merged: 4.17.0, v:4.17.0]") {
		t.Fatalf("expected dump to list both merged references, got:\n%s", out)
	}
}

func TestPrettyLocatorStripsVirtualAndScheme(t *testing.T) {
	l := Locator{Name: "lodash", Ref: "abcd1234#npm:4.17.0"}
	if got, want := PrettyLocator(l), "lodash@v:4.17.0"; got != want {
		t.Fatalf("PrettyLocator(%v) = %q, want %q", l, got, want)
	}

	ws := Locator{Name: "root", Ref: "workspace:."}
	if got, want := PrettyLocator(ws), "."; got != want {
		t.Fatalf("PrettyLocator(%v) = %q, want %q", ws, got, want)
	}
}
