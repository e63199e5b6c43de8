package pipeline

import (
	"fmt"
	"strings"
)

// DiagnosticBuffer accumulates human-readable messages produced during a
// single parse, print, or run call. Each call gets a fresh buffer; there is
// no cross-call state, which keeps diagnostics deterministic and free of
// leakage between unrelated calls.
type DiagnosticBuffer struct {
	msgs []string
}

// Append formats and records one message.
func (b *DiagnosticBuffer) Append(format string, args ...any) {
	b.msgs = append(b.msgs, fmt.Sprintf(format, args...))
}

// Empty reports whether no messages were recorded.
func (b *DiagnosticBuffer) Empty() bool {
	return len(b.msgs) == 0
}

// Join collapses the buffer into a single newline-separated string for
// attachment to a failure.
func (b *DiagnosticBuffer) Join() string {
	return strings.Join(b.msgs, "\n")
}
