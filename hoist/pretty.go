package hoist

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver"
)

// PrettyLocator renders l the way the tree dump shows it (spec.md section 6):
//   - "workspace:." collapses to "."
//   - an "npm:" scheme prefix is stripped
//   - a virtual decoration ("<hash>#<real>") is replaced by a "v:" marker in
//     front of the real reference, so the dump stays readable without
//     hiding that the instance is virtual.
func PrettyLocator(l Locator) string {
	if string(l.Ref) == "workspace:." {
		return "."
	}
	return string(l.Name) + "@" + prettyRef(l.Ref)
}

// prettyRef applies PrettyLocator's scheme-stripping/virtual-marking rules
// to a bare Reference, without the package name prefix - used to render the
// extra references a node accumulates when several instances are merged
// into it by hoisting.
func prettyRef(ref Reference) string {
	s := string(ref)
	virtual := false
	if i := strings.IndexByte(s, '#'); i >= 0 {
		virtual = true
		s = s[i+1:]
	}
	s = strings.TrimPrefix(s, "npm:")
	if virtual {
		return "v:" + s
	}
	return s
}

// sortReferencesForDump orders refs for cosmetic display only: parses each
// as a semver version where possible and sorts descending (newest first),
// falling back to the original insertion order for anything that does not
// parse as semver (tags, workspace refs, git URLs). This ordering never
// feeds back into the algorithm - it exists purely to make the dump easier
// for a human to scan.
func sortReferencesForDump(refs []Reference) []Reference {
	type entry struct {
		ref Reference
		ver *semver.Version
		idx int
	}
	entries := make([]entry, len(refs))
	for i, r := range refs {
		v, err := semver.NewVersion(string(realReference(r)))
		if err != nil {
			v = nil
		}
		entries[i] = entry{ref: r, ver: v, idx: i}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.ver != nil && b.ver != nil {
			return a.ver.GreaterThan(b.ver)
		}
		if a.ver != nil != (b.ver != nil) {
			// Parsed versions sort ahead of unparseable references.
			return a.ver != nil
		}
		return a.idx < b.idx
	})

	out := make([]Reference, len(entries))
	for i, e := range entries {
		out[i] = e.ref
	}
	return out
}
