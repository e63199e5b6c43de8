package testutil

import (
	"sync"

	"github.com/roach88/passline/internal/pipeline"
)

// FixedTokenGenerator returns predetermined run tokens, enabling
// deterministic trace comparison. Panics when exhausted - a fail-fast way to
// catch tests that run more pipelines than they declared.
type FixedTokenGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedTokenGenerator creates a generator returning tokens in order.
func NewFixedTokenGenerator(tokens ...string) *FixedTokenGenerator {
	return &FixedTokenGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
func (g *FixedTokenGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.tokens) {
		panic("FixedTokenGenerator: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}

// MemorySink is an in-memory pipeline.TraceSink capturing everything it is
// handed, for assertions on trace contents.
type MemorySink struct {
	mu       sync.Mutex
	Events   []pipeline.TraceEvent
	Started  []string
	Finished map[string]string // token -> outcome
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{Finished: make(map[string]string)}
}

// RunStarted implements pipeline.TraceSink.
func (s *MemorySink) RunStarted(token, anchor, pipelineText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Started = append(s.Started, token)
}

// PassRun implements pipeline.TraceSink.
func (s *MemorySink) PassRun(ev pipeline.TraceEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, ev)
}

// RunFinished implements pipeline.TraceSink.
func (s *MemorySink) RunFinished(token, outcome, diagnostics string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Finished[token] = outcome
}

// PassSequence returns "pass@kind" strings for events with the given
// outcome, in order.
func (s *MemorySink) PassSequence(outcome string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, ev := range s.Events {
		if ev.Outcome == outcome {
			out = append(out, ev.Pass+"@"+ev.OpKind)
		}
	}
	return out
}
