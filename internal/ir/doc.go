// Package ir provides the intermediate representation tree that pass
// pipelines operate on.
//
// This package contains the Op tree, the shared Context (operation-kind
// registry with nesting rules), the structural verifier, and canonical
// fingerprinting. All other internal packages import ir; ir imports nothing
// internal. This keeps IR the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - The pipeline core never inspects IR contents beyond kind matching.
//   - Nesting rules live on the Context and are checked lazily at run time,
//     never at pipeline construction.
//   - Fingerprints use NFC-normalized canonical text so equivalent trees
//     hash identically regardless of Unicode composition.
package ir
