// Package hoist implements the dependency-hoisting engine: given a tree of
// packages with regular and peer dependencies, it promotes duplicate
// instances toward the root as far as correctness allows, the way a
// flat node_modules installer deduplicates shared dependencies.
//
// The algorithm is a fixed-point transformation over an internal WorkGraph:
// for every node, treated in turn as a hoist target, candidates are found
// (Candidate Finder), applied (Hoist Applier), and re-searched until no
// further promotion is possible, before descending into that node's own
// dependencies. See Engine.Run for the entry point.
package hoist
