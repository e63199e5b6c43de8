package pipeline

import (
	"strings"

	"github.com/roach88/passline/internal/pass"
)

// parser is a left-to-right scanner over pipeline text. Parsing stops at the
// first error (no recovery - this is a configuration language, not source
// code), recording a 1-based offset and a diagnostic.
type parser struct {
	src   string
	pos   int
	reg   *pass.Registry
	diags *DiagnosticBuffer
}

// parseText parses pipeline text into the given node. On error the node may
// be partially filled; callers parse into a scratch clone and swap on
// success to keep Add atomic.
func parseText(text string, reg *pass.Registry, into *OpPassManager) error {
	p := &parser{src: text, reg: reg, diags: &DiagnosticBuffer{}}
	p.skipSpaces()
	if p.eof() {
		return p.fail(p.offset(), "empty pipeline")
	}
	if err := p.parseNodeList(into); err != nil {
		return err
	}
	p.skipSpaces()
	if !p.eof() {
		return p.fail(p.offset(), "expected ',' or end of pipeline, found %q", p.rest())
	}
	return nil
}

// nodeList := node (',' node)*
func (p *parser) parseNodeList(node *OpPassManager) error {
	for {
		if err := p.parseNode(node); err != nil {
			return err
		}
		p.skipSpaces()
		if !p.consume(',') {
			return nil
		}
		p.skipSpaces()
	}
}

// node := passRef | anchoredGroup
func (p *parser) parseNode(node *OpPassManager) error {
	p.skipSpaces()
	start := p.offset()
	name := p.scanIdent()
	if name == "" {
		return p.fail(start, "expected pass name or operation kind, found %q", p.rest())
	}
	if p.consume('(') {
		child := node.Nest(name)
		p.skipSpaces()
		if p.consume(')') {
			return p.fail(start, "empty pipeline for operation kind %q", name)
		}
		if err := p.parseNodeList(child); err != nil {
			return err
		}
		if !p.consume(')') {
			return p.fail(p.offset(), "expected ')' to close pipeline for %q", name)
		}
		return nil
	}
	var opts map[string]string
	if p.peek() == '{' {
		parsed, err := p.parseOptions(name)
		if err != nil {
			return err
		}
		opts = parsed
	}
	created, err := p.reg.Create(name, opts)
	if err != nil {
		return p.fail(start, "%v", err)
	}
	if err := node.addEntry(created, opts); err != nil {
		var pe *Error
		pe, _ = err.(*Error)
		if pe == nil {
			return p.fail(start, "%v", err)
		}
		return p.fail(start, "%s", pe.Message)
	}
	return nil
}

// optionAssignments := key '=' value (' ' key '=' value)*
func (p *parser) parseOptions(passName string) (map[string]string, error) {
	p.consume('{')
	opts := make(map[string]string)
	for {
		p.skipSpaces()
		if p.consume('}') {
			return opts, nil
		}
		keyStart := p.offset()
		key := p.scanIdent()
		if key == "" {
			return nil, p.fail(keyStart, "expected option key for pass %q, found %q", passName, p.rest())
		}
		if !p.consume('=') {
			return nil, p.fail(p.offset(), "expected '=' after option %q of pass %q", key, passName)
		}
		valueStart := p.offset()
		value := p.scanOptionValue()
		if value == "" {
			return nil, p.fail(valueStart, "expected value for option %q of pass %q", key, passName)
		}
		if _, dup := opts[key]; dup {
			return nil, p.fail(keyStart, "duplicate option %q for pass %q", key, passName)
		}
		opts[key] = value
	}
}

func (p *parser) fail(offset int, format string, args ...any) *Error {
	p.diags.Append(format, args...)
	return newSyntaxError(offset, p.diags, format, args...)
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

// offset is the 1-based position of the next unconsumed byte.
func (p *parser) offset() int {
	return p.pos + 1
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) consume(ch byte) bool {
	if !p.eof() && p.src[p.pos] == ch {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpaces() {
	for !p.eof() && p.src[p.pos] == ' ' {
		p.pos++
	}
}

// rest returns a short excerpt of the unconsumed input for diagnostics.
func (p *parser) rest() string {
	const max = 16
	rest := p.src[p.pos:]
	if len(rest) > max {
		return rest[:max] + "..."
	}
	return rest
}

func isIdentByte(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	case ch == '.' || ch == '-' || ch == '_':
		return true
	default:
		return false
	}
}

// scanIdent consumes a pass or operation-kind name: letters, digits, and
// the characters . - _ (covers dialect-qualified kinds like "func.func").
func (p *parser) scanIdent() string {
	start := p.pos
	for !p.eof() && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// scanOptionValue consumes a bare option value: everything up to a space,
// '}' or ','.
func (p *parser) scanOptionValue() string {
	start := p.pos
	for !p.eof() && !strings.ContainsRune(" },", rune(p.src[p.pos])) {
		p.pos++
	}
	return p.src[start:p.pos]
}
