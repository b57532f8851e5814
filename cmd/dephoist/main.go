// Command dephoist reads a dependency graph as JSON and writes the hoisted
// graph back out, optionally alongside a human-readable tree dump.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/dephoist"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("dephoist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	check := fs.Bool("check", false, "run the self-checker after every promotion")
	debugLevel := fs.Int("debug-level", 0, "diagnostic verbosity (0-9); see dephoist.Options")
	dump := fs.Bool("dump", false, "print a tree dump of the hoisted graph to stderr")
	input := fs.String("in", "", "path to the input graph JSON (default: stdin)")
	output := fs.String("out", "", "path to write the hoisted graph JSON (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	in := stdin
	if *input != "" {
		f, err := os.Open(*input)
		if err != nil {
			fmt.Fprintln(stderr, "dephoist:", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	root, err := readGraph(in)
	if err != nil {
		fmt.Fprintln(stderr, "dephoist:", err)
		return 1
	}

	cfg, err := dephoist.LoadConfig(".")
	if err != nil {
		fmt.Fprintln(stderr, "dephoist:", err)
		return 1
	}

	wantDump := *dump
	dl := maxInt(*debugLevel, cfg.DebugLevel)
	if wantDump && dl < 1 {
		dl = 1
	}
	opts := dephoist.Options{
		DebugLevel: dl,
		Check:      *check || cfg.SelfCheck,
	}

	ctx := dephoist.NewContext(stderr)
	res, err := dephoist.Hoist(ctx, root, opts)
	if err != nil {
		fmt.Fprintln(stderr, "dephoist:", err)
		return 1
	}

	out := stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintln(stderr, "dephoist:", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	if err := writeGraph(out, res.Root); err != nil {
		fmt.Fprintln(stderr, "dephoist:", err)
		return 1
	}

	if wantDump && res.Dump != "" {
		fmt.Fprintln(stderr, res.Dump)
	}

	return 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
