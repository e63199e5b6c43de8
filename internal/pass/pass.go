package pass

import (
	"context"

	"github.com/roach88/passline/internal/ir"
)

// Capability classifies what a pass may do to the IR it is handed.
type Capability int

const (
	// Analysis passes inspect the IR and must not mutate it.
	Analysis Capability = iota
	// Mutation passes may rewrite the subtree in place.
	Mutation
)

// String returns the capability name for logs and CLI listings.
func (c Capability) String() string {
	switch c {
	case Analysis:
		return "analysis"
	case Mutation:
		return "mutation"
	default:
		return "unknown"
	}
}

// Pass is an opaque unit of work scheduled by a pipeline.
//
// A pass declares the operation kind it expects to run on (ir.AnyKind for
// kind-agnostic passes). Run is handed the anchor operation and reports
// success or failure; a non-nil error aborts the whole pipeline run.
// Mutations performed before the failure are not rolled back - the pass
// contract offers no inverse operations.
type Pass interface {
	Name() string
	Anchor() string
	Capability() Capability
	Run(ctx context.Context, op *ir.Op) error
}
