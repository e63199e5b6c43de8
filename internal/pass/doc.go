// Package pass defines the opaque unit of work executed by pipelines: the
// Pass interface, the name-to-factory Registry used by the pipeline grammar
// to resolve pass references, and the built-in passes shipped with the CLI.
//
// Passes are polymorphic over a small capability set (analysis vs mutation)
// and expose exactly one operation: apply-and-report-success. Concrete pass
// behavior is never part of the pipeline core; the core only sequences
// passes and checks their declared anchors.
package pass
