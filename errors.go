package dephoist

import (
	"github.com/pkg/errors"

	"github.com/golang/dephoist/hoist"
)

// wrapEngineErr adds dephoist's own context to an error surfaced by the
// hoist engine. Everything the engine can return is a
// *hoist.ConsistencyError; pkg/errors.Wrap is used here, at the package
// boundary, rather than inside hoist itself, so the engine's own error type
// stays a plain, inspectable struct for callers who want to match on it.
func wrapEngineErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*hoist.ConsistencyError); ok {
		return errors.Wrap(err, "dephoist")
	}
	return errors.Wrap(err, "dephoist: unexpected error")
}
