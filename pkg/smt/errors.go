package smt

import "fmt"

// UsageError reports a rejected command: an unknown logic, a model value
// appearing where a term was expected, an unsupported non-linear term, or
// any other caller mistake per §7. The current assertion is rejected and
// the solver's prior state is preserved — UsageError never corrupts the
// tableau or proof state.
type UsageError struct {
	Msg   string
	Cause error
}

func (e *UsageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("smt: usage error: %s: %v", e.Msg, e.Cause)
	}
	return "smt: usage error: " + e.Msg
}

func (e *UsageError) Unwrap() error { return e.Cause }

// ResourceError is returned when a terminate predicate or step budget cuts
// a check short (§5 "Cancellation / timeouts", §7 "Resource exhaustion").
// The caller observes status Unknown with Reason set.
type ResourceError struct {
	Reason string
}

func (e *ResourceError) Error() string { return "smt: resource exhausted: " + e.Reason }

// InternalError marks a programmer-error invariant violation (§7 "Internal
// invariant violations"): a tableau inconsistency after a pivot, a reason
// chain out of order, an out-of-bounds variable missing from the repair
// queue. debugAssert panics with one of these rather than returning it,
// because the documented contract is "the process aborts with a
// diagnostic" — these are not supposed to be recoverable at the caller.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string { return "smt: internal invariant violation: " + e.Msg }

// debugAssert panics with an InternalError when cond is false. In a release
// build a caller can set DebugAssertionsEnabled to false to skip the check
// entirely (§9 "Exceptions for invariant breaches"
// maps to a disable-able check here rather than an exception type).
var DebugAssertionsEnabled = true

func debugAssert(cond bool, format string, args ...interface{}) {
	if !DebugAssertionsEnabled {
		return
	}
	if !cond {
		panic(&InternalError{Msg: fmt.Sprintf(format, args...)})
	}
}
