package pipeline

import "errors"

// Error classes for the run. Each stage wraps its failures with exactly one
// of these sentinels so the CLI can map outcomes to distinct exit codes via
// errors.Is.
var (
	// ErrConfig: required settings missing; no network or DB activity was
	// attempted.
	ErrConfig = errors.New("configuration error")

	// ErrConnectivity: the destination store is unreachable or failed the
	// liveness probe.
	ErrConnectivity = errors.New("store connectivity error")

	// ErrFetch: HTTP, network, or envelope failure mid-pagination. No
	// partial save of already-collected rows is made.
	ErrFetch = errors.New("fetch error")

	// ErrEmptyResult: pagination yielded zero records. Reported explicitly
	// instead of silently creating an empty table.
	ErrEmptyResult = errors.New("empty result")

	// ErrLoad: schema replace or bulk insert failed. The table may be left
	// empty or partially populated; this is reported, not rolled back.
	ErrLoad = errors.New("load error")
)

// Exit codes by error class.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitConfig       = 2
	ExitConnectivity = 3
	ExitFetch        = 4
	ExitEmptyResult  = 5
	ExitLoad         = 6
)

// ExitCode maps an error to the process exit code contract. nil maps to
// ExitOK; unclassified errors map to ExitFailure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrConfig):
		return ExitConfig
	case errors.Is(err, ErrConnectivity):
		return ExitConnectivity
	case errors.Is(err, ErrFetch):
		return ExitFetch
	case errors.Is(err, ErrEmptyResult):
		return ExitEmptyResult
	case errors.Is(err, ErrLoad):
		return ExitLoad
	default:
		return ExitFailure
	}
}
