package hoist

import (
	"fmt"
	"strings"
)

// maxDumpNodes bounds Dump's output: a WorkGraph can legitimately contain far
// more nodes than anyone wants printed to a terminal, and the truncation
// itself is useful information (it means something is still very unhoisted).
const maxDumpNodes = 50000

// Dump renders root as a tree for diagnostics (spec.md section 7): each
// edge is drawn with the usual "├─"/"└─" box-drawing connectors, and an
// edge into a node already rendered elsewhere in the dump (a promoted
// package shared by several parents, or a genuine cycle) is marked with a
// leading ">" instead of being expanded again.
func Dump(root *WorkNode, debugLevel int) string {
	var b strings.Builder
	printed := make(map[*WorkNode]bool)
	count := 0
	truncated := false

	var walk func(n *WorkNode, prefix string, last bool)
	walk = func(n *WorkNode, prefix string, last bool) {
		if truncated {
			return
		}
		if count >= maxDumpNodes {
			truncated = true
			b.WriteString(prefix + "... (truncated)\n")
			return
		}
		count++

		connector := "├─ "
		childPrefix := prefix + "│  "
		if last {
			connector = "└─ "
			childPrefix = prefix + "   "
		}

		if printed[n] {
			fmt.Fprintf(&b, "%s> %s\n", prefix+connector, PrettyLocator(n.Locator))
			return
		}
		printed[n] = true

		line := PrettyLocator(n.Locator)
		if n.References.Len() > 1 {
			var refs []Reference
			n.References.Each(func(r Reference) { refs = append(refs, r) })
			rendered := make([]string, len(refs))
			for i, r := range sortReferencesForDump(refs) {
				rendered[i] = prettyRef(r)
			}
			line += "  [merged: " + strings.Join(rendered, ", ") + "]"
		}
		if debugLevel >= 2 && n.Reasons.Len() > 0 {
			var reasons []string
			n.Reasons.Each(func(_ PackageName, r Reason) {
				reasons = append(reasons, r.Message)
			})
			line += "  (" + strings.Join(reasons, "; ") + ")"
		}
		fmt.Fprintf(&b, "%s%s\n", prefix+connector, line)

		var names []PackageName
		n.Dependencies.Each(func(name PackageName, _ *WorkNode) { names = append(names, name) })
		for i, name := range names {
			child, _ := n.Dependencies.Get(name)
			walk(child, childPrefix, i == len(names)-1)
		}
	}

	b.WriteString(PrettyLocator(root.Locator) + "\n")
	var names []PackageName
	root.Dependencies.Each(func(name PackageName, _ *WorkNode) { names = append(names, name) })
	for i, name := range names {
		child, _ := root.Dependencies.Get(name)
		walk(child, "", i == len(names)-1)
	}

	return b.String()
}
