package dephoist

import (
	"io"
	"os"

	"github.com/golang/dephoist/log"
)

// Ctx carries the ambient concerns a Hoist call needs but that have nothing
// to do with the dependency graph itself: where diagnostic output goes.
// Verbosity is set through Options, not Ctx. Mirrors golang-dep's own Ctx, scaled down to
// what this package actually needs.
type Ctx struct {
	Out *log.Logger
}

// NewContext builds a Ctx that logs to w.
func NewContext(w io.Writer) *Ctx {
	return &Ctx{Out: log.New(w)}
}

// NewStderrContext is the convenience constructor CLI callers reach for.
func NewStderrContext() *Ctx {
	return NewContext(os.Stderr)
}
