package bibtex

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseError reports a malformed construct with its source line.
type ParseError struct {
	Line    int    // 1-indexed line where the error occurred
	Message string // description of the error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Parse reads a BibTeX file into entries. Field names are lowercased and
// field order is preserved. Text outside entries (comments, prose) is
// skipped, as are @comment, @preamble, and @string blocks.
func Parse(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	p := &parser{src: data, line: 1}
	var entries []Entry

	for {
		p.skipToEntry()
		if p.eof() {
			return entries, nil
		}
		entry, skip, err := p.parseEntry()
		if err != nil {
			return nil, err
		}
		if !skip {
			entries = append(entries, entry)
		}
	}
}

// ParseFile parses the BibTeX file at the given path.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bib file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

type parser struct {
	src  []byte
	pos  int
	line int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

func (p *parser) advance() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
	}
	return c
}

// skipToEntry advances to the next '@', ignoring everything in between.
func (p *parser) skipToEntry() {
	for !p.eof() && p.peek() != '@' {
		p.advance()
	}
}

func (p *parser) skipSpace() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t' || p.peek() == '\r' || p.peek() == '\n') {
		p.advance()
	}
}

func isNameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '-', c == '.', c == '+', c == ':':
		return true
	}
	return false
}

func (p *parser) readName() string {
	start := p.pos
	for !p.eof() && isNameByte(p.peek()) {
		p.advance()
	}
	return string(p.src[start:p.pos])
}

// parseEntry parses one @type{key, name = value, ...} block. The skip result
// is true for @comment, @preamble, and @string blocks.
func (p *parser) parseEntry() (Entry, bool, error) {
	headerLine := p.line
	p.advance() // consume '@'

	entryType := strings.ToLower(p.readName())
	if entryType == "" {
		return Entry{}, false, &ParseError{Line: headerLine, Message: "expected entry type after '@'"}
	}

	p.skipSpace()
	if p.eof() || p.peek() != '{' {
		return Entry{}, false, &ParseError{Line: p.line, Message: fmt.Sprintf("expected '{' after @%s", entryType)}
	}

	switch entryType {
	case "comment", "preamble", "string":
		if err := p.skipBalanced(); err != nil {
			return Entry{}, false, err
		}
		return Entry{}, true, nil
	}

	p.advance() // consume '{'
	p.skipSpace()

	keyStart := p.pos
	for !p.eof() && p.peek() != ',' && p.peek() != '}' && p.peek() != '\n' {
		p.advance()
	}
	key := strings.TrimSpace(string(p.src[keyStart:p.pos]))
	if key == "" {
		return Entry{}, false, &ParseError{Line: headerLine, Message: "entry has no citation key"}
	}

	entry := Entry{Type: entryType, Key: key, Line: headerLine}

	if p.eof() {
		return Entry{}, false, &ParseError{Line: headerLine, Message: fmt.Sprintf("unterminated entry %q", key)}
	}
	if p.peek() == '}' {
		p.advance()
		return entry, false, nil
	}
	p.advance() // consume ','

	for {
		p.skipSpace()
		if p.eof() {
			return Entry{}, false, &ParseError{Line: headerLine, Message: fmt.Sprintf("unterminated entry %q", key)}
		}
		if p.peek() == '}' {
			p.advance()
			return entry, false, nil
		}

		fieldLine := p.line
		name := strings.ToLower(p.readName())
		if name == "" {
			return Entry{}, false, &ParseError{Line: fieldLine, Message: fmt.Sprintf("expected field name in entry %q", key)}
		}

		p.skipSpace()
		if p.eof() || p.peek() != '=' {
			return Entry{}, false, &ParseError{Line: fieldLine, Message: fmt.Sprintf("expected '=' after field %q in entry %q", name, key)}
		}
		p.advance() // consume '='
		p.skipSpace()

		value, err := p.parseValue(key, name)
		if err != nil {
			return Entry{}, false, err
		}
		entry.Fields = append(entry.Fields, Field{Name: name, Value: value})

		p.skipSpace()
		if p.eof() {
			return Entry{}, false, &ParseError{Line: headerLine, Message: fmt.Sprintf("unterminated entry %q", key)}
		}
		switch p.peek() {
		case ',':
			p.advance()
		case '}':
			// Closing brace handled at top of loop
		default:
			return Entry{}, false, &ParseError{Line: p.line, Message: fmt.Sprintf("expected ',' or '}' after field %q in entry %q", name, key)}
		}
	}
}

// parseValue parses a field value: {braced}, "quoted", or a bare token.
// Outer delimiters are stripped; inner braces are kept verbatim since they
// carry protection semantics.
func (p *parser) parseValue(key, name string) (string, error) {
	valueLine := p.line

	switch p.peek() {
	case '{':
		p.advance()
		start := p.pos
		depth := 1
		for !p.eof() {
			switch p.peek() {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					value := string(p.src[start:p.pos])
					p.advance()
					return strings.TrimSpace(value), nil
				}
			}
			p.advance()
		}
		return "", &ParseError{Line: valueLine, Message: fmt.Sprintf("unbalanced braces in field %q of entry %q", name, key)}

	case '"':
		p.advance()
		start := p.pos
		depth := 0
		for !p.eof() {
			switch p.peek() {
			case '{':
				depth++
			case '}':
				depth--
			case '"':
				if depth == 0 {
					value := string(p.src[start:p.pos])
					p.advance()
					return strings.TrimSpace(value), nil
				}
			}
			p.advance()
		}
		return "", &ParseError{Line: valueLine, Message: fmt.Sprintf("unterminated quoted value in field %q of entry %q", name, key)}

	default:
		start := p.pos
		for !p.eof() && isNameByte(p.peek()) {
			p.advance()
		}
		value := string(p.src[start:p.pos])
		if value == "" {
			return "", &ParseError{Line: valueLine, Message: fmt.Sprintf("empty value for field %q of entry %q", name, key)}
		}
		return value, nil
	}
}

// skipBalanced consumes a balanced {...} group starting at the current '{'.
func (p *parser) skipBalanced() error {
	openLine := p.line
	depth := 0
	for !p.eof() {
		switch p.advance() {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
	return &ParseError{Line: openLine, Message: "unbalanced braces"}
}
