package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fingerprint computes a content-addressed identity for the subtree rooted
// at op: the SHA-256 of a canonical rendering.
//
// The canonical rendering differs from Dump in two ways that matter for
// identity:
//  1. All strings are NFC normalized, so trees that differ only in Unicode
//     composition hash identically.
//  2. Field boundaries use unambiguous separators, so no two distinct trees
//     share a rendering.
//
// Used by common-subexpression elimination to compare subtrees and by the
// trace store to record module identity before and after a run.
func Fingerprint(op *Op) string {
	var b strings.Builder
	canonicalOp(&b, op)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func canonicalOp(b *strings.Builder, op *Op) {
	if op == nil {
		b.WriteString("()")
		return
	}
	b.WriteString("(")
	canonicalString(b, op.Kind)
	b.WriteString("|")
	canonicalString(b, op.Name)
	b.WriteString("|")
	for _, key := range sortedKeys(op.Attrs) {
		canonicalString(b, key)
		b.WriteString("=")
		canonicalString(b, op.Attrs[key])
		b.WriteString(";")
	}
	b.WriteString("|")
	for _, child := range op.Children {
		canonicalOp(b, child)
	}
	b.WriteString(")")
}

// canonicalString writes an NFC-normalized, length-prefixed string. The
// length prefix prevents boundary ambiguity between adjacent fields.
func canonicalString(b *strings.Builder, s string) {
	normalized := norm.NFC.String(s)
	fmt.Fprintf(b, "%d:%s", len(normalized), normalized)
}
