// Package dephoist hoists duplicate package instances toward the root of a
// dependency graph, producing the flattest graph that still honors every
// original resolution and every peer-dependency contract. See package hoist
// for the algorithm itself; this package wires it to a caller-facing API,
// logging, configuration and a CLI.
package dephoist

import (
	"time"

	"github.com/golang/dephoist/hoist"
)

// Result is what Hoist returns: the flattened graph plus, when requested,
// a human-readable tree dump of how it got there.
type Result struct {
	Root *hoist.OutputNode
	Dump string
}

// Hoist runs the full pipeline described in package hoist's doc comment -
// clone, build the ancestor index, run the engine to a fixed point, run a
// final consistency check if asked for one, then shrink - over root, using
// ctx for logging and opts to control checking and verbosity.
func Hoist(ctx *Ctx, root *hoist.InputNode, opts Options) (*Result, error) {
	debugLevel := resolveDebugLevel(opts)
	start := time.Now()
	m := newMetrics()

	m.push("clone")
	work := hoist.Clone(root)
	m.pop()

	m.push("ancestor-index")
	idx := hoist.BuildAncestorIndex(work)
	m.pop()

	m.push("engine")
	eng := &hoist.Engine{
		GraphRoot:   work,
		AncestorIdx: idx,
		Check:       opts.Check || debugLevel >= 9,
		DebugLevel:  debugLevel,
	}
	err := eng.Run()
	m.pop()

	if err != nil {
		if ctx != nil {
			ctx.Out.LogHoistfln("hoist of %s failed: %v", root.Name, err)
		}
		return nil, wrapEngineErr(withDump(err, work, debugLevel))
	}

	if debugLevel >= 1 {
		m.push("final-check")
		diag := hoist.SelfCheck(work)
		m.pop()
		if diag != "" {
			cerr := &hoist.ConsistencyError{Path: string(root.Name), Log: diag, Dump: hoist.Dump(work, debugLevel)}
			return nil, wrapEngineErr(cerr)
		}
	}

	m.push("shrink")
	out := hoist.Shrink(work)
	m.pop()

	res := &Result{Root: out}
	if debugLevel >= 1 {
		res.Dump = hoist.Dump(work, debugLevel)
	}

	if ctx != nil {
		if debugLevel >= 0 {
			ctx.Out.LogHoistfln("total: %s", time.Since(start))
		}
		if debugLevel >= 3 {
			m.log(ctx.Out)
		}
		ctx.Out.LogHoistfln("hoisted %s", root.Name)
	}

	return res, nil
}

// withDump attaches a tree dump to a *hoist.ConsistencyError so the caller
// sees the shape of the graph the engine choked on, without the engine
// package itself needing to know about rendering.
func withDump(err error, work *hoist.WorkNode, debugLevel int) error {
	cerr, ok := err.(*hoist.ConsistencyError)
	if !ok || cerr.Dump != "" {
		return err
	}
	cerr.Dump = hoist.Dump(work, debugLevel)
	return cerr
}
