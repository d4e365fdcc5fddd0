package ops

import "fmt"

// Result is the uniform outcome of every long-running operation. A
// failed Result is a reported condition, not a process error: callers
// render it and carry on.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func okf(format string, args ...any) Result {
	return Result{Success: true, Message: fmt.Sprintf(format, args...)}
}

func failf(format string, args ...any) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

func (r Result) withDetails(format string, args ...any) Result {
	r.Details = fmt.Sprintf(format, args...)
	return r
}
