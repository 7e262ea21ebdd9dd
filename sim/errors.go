package sim

import "errors"

// Error taxonomy for the simulation core. Callers classify failures with
// errors.Is; the wrapped message carries the offending scenario, file, or field.
var (
	// ErrConfiguration marks invalid or missing scenario parameters, detected
	// before any simulation step runs. Fatal to that run, never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrState marks an operation requested in an invalid lifecycle state,
	// such as exporting with no results or reviewing one's own PR. Fatal to
	// that call only.
	ErrState = errors.New("state error")

	// ErrLoad marks a scenario file that is missing or unparsable.
	ErrLoad = errors.New("load error")
)
