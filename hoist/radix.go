package hoist

import "github.com/armon/go-radix"

// locatorSeen is a typed wrapper around armon/go-radix, adapted from
// golang-dep's deducerTrie (gps/typed_radix.go): a thin layer that avoids
// type assertions everywhere else. Locators of the same package share a
// "name@" prefix, so a radix tree is a natural fit for the Candidate
// Finder's "has this Locator's subtree already been explored in this
// search" bookkeeping (spec.md section 4.C). Unlike deducerTrie, this wrapper
// carries no mutex: the engine is single-threaded end to end (spec.md section 5),
// and a lock here would misstate that.
type locatorSeen struct {
	t *radix.Tree
}

func newLocatorSeen() *locatorSeen {
	return &locatorSeen{t: radix.New()}
}

// markSeen records l as seen and reports whether it had already been seen.
func (t *locatorSeen) markSeen(l Locator) bool {
	key := l.String()
	if _, had := t.t.Get(key); had {
		return true
	}
	t.t.Insert(key, struct{}{})
	return false
}

func (t *locatorSeen) Len() int { return t.t.Len() }
