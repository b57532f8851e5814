package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/golang/dephoist/hoist"
)

// wireGraph is the on-disk/stdin JSON shape for a dependency graph. Go's
// encoding/json cannot serialize a graph with pointer cycles directly, so
// it is flattened to an ID-indexed node list instead - the same problem
// golang-dep's own lock file format solves by naming projects rather than
// nesting them.
type wireGraph struct {
	Root  string     `json:"root"`
	Nodes []wireNode `json:"nodes"`
}

type wireNode struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Reference    string   `json:"reference"`
	Peers        []string `json:"peers,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// readGraph parses a wireGraph from r and inflates it into an *hoist.InputNode
// tree, preserving any cycles the JSON described.
func readGraph(r io.Reader) (*hoist.InputNode, error) {
	var wg wireGraph
	if err := json.NewDecoder(r).Decode(&wg); err != nil {
		return nil, fmt.Errorf("decoding graph: %w", err)
	}

	byID := make(map[string]wireNode, len(wg.Nodes))
	for _, n := range wg.Nodes {
		byID[n.ID] = n
	}

	memo := make(map[string]*hoist.InputNode, len(wg.Nodes))
	var build func(id string) (*hoist.InputNode, error)
	build = func(id string) (*hoist.InputNode, error) {
		if n, ok := memo[id]; ok {
			return n, nil
		}
		wn, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("graph references unknown node %q", id)
		}

		in := &hoist.InputNode{
			Name:      hoist.PackageName(wn.Name),
			Reference: hoist.Reference(wn.Reference),
		}
		if len(wn.Peers) > 0 {
			in.PeerNames = make(map[hoist.PackageName]bool, len(wn.Peers))
			for _, p := range wn.Peers {
				in.PeerNames[hoist.PackageName(p)] = true
			}
		}
		memo[id] = in

		for _, depID := range wn.Dependencies {
			dep, err := build(depID)
			if err != nil {
				return nil, err
			}
			in.Dependencies = append(in.Dependencies, dep)
		}
		return in, nil
	}

	return build(wg.Root)
}

// writeGraph flattens an *hoist.OutputNode graph back to wireGraph JSON,
// assigning each distinct node pointer a stable, order-of-first-visit ID so
// shared and cyclic structure round-trips.
func writeGraph(w io.Writer, root *hoist.OutputNode) error {
	ids := make(map[*hoist.OutputNode]string)
	var nodes []wireNode

	var walk func(n *hoist.OutputNode) string
	walk = func(n *hoist.OutputNode) string {
		if id, ok := ids[n]; ok {
			return id
		}
		id := fmt.Sprintf("n%d", len(ids))
		ids[n] = id

		refs := make([]string, len(n.References))
		for i, r := range n.References {
			refs[i] = string(r)
		}
		wn := wireNode{ID: id, Name: string(n.Name), Dependencies: nil}
		if len(refs) > 0 {
			wn.Reference = refs[0]
		}
		nodes = append(nodes, wn)
		idx := len(nodes) - 1

		for _, d := range n.Dependencies {
			nodes[idx].Dependencies = append(nodes[idx].Dependencies, walk(d))
		}
		return id
	}

	rootID := walk(root)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(wireGraph{Root: rootID, Nodes: nodes})
}
