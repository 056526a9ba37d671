package smt

import (
	"github.com/hashicorp/go-hclog"
)

// Logger is the structured-logging surface the solver writes tracing
// output to. Callers pass an *hclog.Logger (via Config.Logger); the solver
// never constructs its own sink, matching §6 "Persisted state: none by
// default" — nothing in this package writes to stdout on its own.
type Logger = hclog.Logger

// NullLogger returns a Logger that discards everything, used as Config's
// zero-value default.
func NullLogger() Logger { return hclog.NewNullLogger() }

// Config holds the recognized SMT-LIB option surface from §6 that bears on
// the core's behavior (the remaining options — produce-unsat-cores'
// sibling model/interpolant-printing flags that are purely the driver's
// concern — are not reproduced here since the driver/CLI layer is out of
// scope per §1).
type Config struct {
	// ProduceProofs, when true, makes the solver retain enough information
	// during search (reason chains, rewrite annotations) to answer
	// GetProof after an Unsat result.
	ProduceProofs bool

	// ProofCheckMode, when true, makes the solver run its own proof
	// checker against every proof it produces before returning it,
	// surfacing a checker failure as an InternalError rather than letting
	// a caller discover it downstream.
	ProofCheckMode bool

	// ProduceModels, when true, retains enough information to answer
	// GetModel after a Sat result.
	ProduceModels bool

	// ProduceUnsatCores, when true, makes the solver retain each asserted
	// literal's identity so UnsatCore() can report the subset actually
	// used by the final conflict.
	ProduceUnsatCores bool

	// MaxCuts bounds the number of Gomory cuts generated per CheckSat
	// call (§4.1 "At most MAX_CUTS per check").
	MaxCuts int

	// Logger receives leveled tracing output. Defaults to NullLogger().
	Logger Logger

	// Terminate is polled at the fixed points named in §5 (top of the
	// pivot loop, top of cut generation, top of the mutate pass). A nil
	// Terminate is treated as "never terminate".
	Terminate func() bool
}

// DefaultConfig returns the zero-configuration default: proofs and models
// off, a 16-cut budget, silent logging, no termination predicate.
func DefaultConfig() Config {
	return Config{
		MaxCuts: 16,
		Logger:  NullLogger(),
	}
}

func (c *Config) normalize() {
	if c.Logger == nil {
		c.Logger = NullLogger()
	}
	if c.MaxCuts <= 0 {
		c.MaxCuts = 16
	}
}

func (c *Config) terminate() bool {
	return c.Terminate != nil && c.Terminate()
}
