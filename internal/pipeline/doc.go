// Package pipeline implements the pass-pipeline management engine: the
// hierarchically scoped pipeline tree, its textual grammar, the top-level
// PassManager, the execution engine, and the ownership handle boundary.
//
// A pipeline is an ordered tree of passes anchored to operation kinds.
// Nested pipelines apply to descendant operations of a matching kind, so
// "builtin.module(canonicalize,func.func(cse))" runs canonicalize on the
// module and cse on every function inside it.
//
// Execution is single-threaded and synchronous: Run drives every pass on the
// caller's goroutine, halting on first failure. Mutations performed by
// passes that completed before the failure are not rolled back; the pass
// contract offers no inverse operations. A manager is not re-entrant - it
// must not be mutated or re-run while a run on it is in progress.
package pipeline
