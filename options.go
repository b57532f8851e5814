package dephoist

import (
	"os"
	"strconv"
)

// debugLevelEnvVar lets a debug level be set for a single invocation
// without threading a flag through whatever calls Hoist, the same escape
// hatch golang-dep's own verbosity flags provide.
const debugLevelEnvVar = "NM_DEBUG_LEVEL"

// Options configures a single Hoist call.
//
//   - DebugLevel >= 1 runs the Self-Checker once after hoisting finishes.
//   - DebugLevel >= 2 records rejection Reasons as hoisting proceeds, so a
//     Dump afterwards can explain why a given package did not move.
//   - DebugLevel >= 9 runs the Self-Checker after every single promotion,
//     which is orders of magnitude slower and only useful while chasing a
//     suspected engine bug.
type Options struct {
	DebugLevel int
	Check      bool
}

// resolveDebugLevel applies the NM_DEBUG_LEVEL environment override on top
// of whatever the caller passed in Options, read fresh on every call rather
// than cached once at process start, since tests and callers in the same
// process may want different levels.
func resolveDebugLevel(o Options) int {
	if v := os.Getenv(debugLevelEnvVar); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return o.DebugLevel
}
