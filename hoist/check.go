package hoist

import (
	"fmt"
	"strings"
)

// SelfCheck is the Self-Checker (component E, diagnostic half). It walks
// the WorkGraph from root carrying the visible-dependencies map (the
// parent's map overlaid with the current node's own non-peer Dependencies,
// per visibleMap) and verifies, at every node, that every
// originalDependencies promise - invariants 1 and 2 of spec.md section 3 -
// still holds. It returns a multi-line diagnostic, empty on success.
func SelfCheck(root *WorkNode) string {
	var diags []string
	onStack := make(map[*WorkNode]bool)

	var walk func(node *WorkNode, visible *orderedMap[*WorkNode])
	walk = func(node *WorkNode, visible *orderedMap[*WorkNode]) {
		if onStack[node] {
			return
		}
		onStack[node] = true
		defer delete(onStack, node)

		// childVisible excludes node's own peer entries (visibleMap), so a
		// peer name falls through to whatever the chain above node already
		// resolved, rather than being shadowed by node's own nested
		// instance of it.
		childVisible := visibleMap(visible, node)

		node.OriginalDependencies.Each(func(name PackageName, want *WorkNode) {
			if node.IsPeer(name) {
				// Invariant 2: walking up past node (never through node
				// itself) must reach the same Ident node originally
				// expected. Compared by Ident, not object identity - a
				// retained nested peer instance that shares the Ident the
				// parent resolves is not a broken promise.
				got, has := childVisible.Get(name)
				if !has || got.Ident != want.Ident {
					diags = append(diags, fmt.Sprintf(
						"broken peer promise: %s expected %s to resolve to %s via its parent, got %s",
						node.Locator, name, want.Ident, describeIdentOrMissing(got, has)))
				}
				return
			}
			// Invariant 1: the visible resolution starting at node itself
			// (node's own Dependencies checked first, then its ancestors).
			got, has := childVisible.Get(name)
			if !has || got.Ident != want.Ident {
				diags = append(diags, fmt.Sprintf(
					"broken require promise: %s expected %s to resolve to %s, got %s",
					node.Locator, name, want.Ident, describeIdentOrMissing(got, has)))
			}
		})

		node.Dependencies.Each(func(_ PackageName, child *WorkNode) {
			walk(child, childVisible)
		})
	}

	walk(root, newOrderedMap[*WorkNode]())
	return strings.Join(diags, "\n")
}

func describeIdentOrMissing(n *WorkNode, has bool) string {
	if !has || n == nil {
		return "<nothing>"
	}
	return n.Ident.String()
}
