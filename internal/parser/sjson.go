// Package parser reads the tolerant JSON family used by level packages.
//
// Real level files are JSON in spirit only: they carry // and /* */ comments,
// trailing commas, duplicate object keys, and several formats put one value
// per line instead of one per file. Rejecting any of those constructs would
// be a regression against files that load fine in the game, so the reader
// accepts them all and reports the ambiguous ones as diagnostics instead.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	m "github.com/mapforge/levelsweep/internal/model"
)

// EventKind classifies a tolerance event recorded during parsing.
type EventKind string

const (
	// EventComment records that comment text was stripped.
	EventComment EventKind = "comment"
	// EventDuplicateKey records a duplicate object key resolved last-wins.
	EventDuplicateKey EventKind = "duplicate-key"
)

// Event is one tolerance event with its location.
type Event struct {
	Kind EventKind
	// Key is the duplicated key for EventDuplicateKey.
	Key  string
	Line int
}

type lexer struct {
	src    []byte
	pos    int
	line   int
	events []Event
}

// ParseAll parses every top-level value in src. A single-value document and a
// line-oriented document are both handled: values are read until the input is
// exhausted, separated by optional commas.
func ParseAll(src []byte) ([]m.Node, []Event, error) {
	lx := &lexer{src: src, line: 1}

	var roots []m.Node

	for {
		lx.skipSpace()

		if lx.pos >= len(lx.src) {
			break
		}

		node, err := lx.parseValue()
		if err != nil {
			return nil, lx.events, err
		}

		roots = append(roots, node)

		// Some line-oriented files separate top-level values with commas.
		lx.skipSpace()

		if lx.pos < len(lx.src) && lx.src[lx.pos] == ',' {
			lx.pos++
		}
	}

	if len(roots) == 0 {
		return nil, lx.events, fmt.Errorf("line %d: no value found", lx.line)
	}

	return roots, lx.events, nil
}

// skipSpace consumes whitespace and comments, recording one event per comment.
func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]

		switch {
		case c == '\n':
			lx.line++
			lx.pos++
		case c == ' ' || c == '\t' || c == '\r':
			lx.pos++
		case c == '/' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == '/':
			lx.events = append(lx.events, Event{Kind: EventComment, Line: lx.line})

			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
		case c == '/' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == '*':
			lx.events = append(lx.events, Event{Kind: EventComment, Line: lx.line})
			lx.pos += 2

			for lx.pos < len(lx.src) {
				if lx.src[lx.pos] == '\n' {
					lx.line++
				}

				if lx.src[lx.pos] == '*' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == '/' {
					lx.pos += 2
					break
				}

				lx.pos++
			}
		default:
			return
		}
	}
}

func (lx *lexer) parseValue() (m.Node, error) {
	lx.skipSpace()

	if lx.pos >= len(lx.src) {
		return nil, fmt.Errorf("line %d: unexpected end of input", lx.line)
	}

	switch c := lx.src[lx.pos]; {
	case c == '{':
		return lx.parseObject()
	case c == '[':
		return lx.parseArray()
	case c == '"':
		return lx.parseString()
	case c == '-' || (c >= '0' && c <= '9'):
		return lx.parseNumber()
	case lx.hasKeyword("true"):
		start := lx.pos
		lx.pos += len("true")

		return &m.Bool{Val: true, Start: start, End: lx.pos}, nil
	case lx.hasKeyword("false"):
		start := lx.pos
		lx.pos += len("false")

		return &m.Bool{Val: false, Start: start, End: lx.pos}, nil
	case lx.hasKeyword("null"):
		start := lx.pos
		lx.pos += len("null")

		return &m.Null{Start: start, End: lx.pos}, nil
	default:
		return nil, fmt.Errorf("line %d: unexpected character %q", lx.line, c)
	}
}

func (lx *lexer) hasKeyword(word string) bool {
	return strings.HasPrefix(string(lx.src[lx.pos:]), word)
}

func (lx *lexer) parseObject() (m.Node, error) {
	obj := &m.Object{}
	seen := make(map[string]struct{})
	lx.pos++ // consume '{'

	for {
		lx.skipSpace()

		if lx.pos >= len(lx.src) {
			return nil, fmt.Errorf("line %d: unterminated object", lx.line)
		}

		if lx.src[lx.pos] == '}' {
			lx.pos++
			return obj, nil
		}

		if lx.src[lx.pos] != '"' {
			return nil, fmt.Errorf("line %d: expected object key, got %q", lx.line, lx.src[lx.pos])
		}

		keyNode, err := lx.parseString()
		if err != nil {
			return nil, err
		}

		key := keyNode.(*m.Str).Val

		if _, dup := seen[key]; dup {
			lx.events = append(lx.events, Event{Kind: EventDuplicateKey, Key: key, Line: lx.line})
		}

		seen[key] = struct{}{}

		lx.skipSpace()

		if lx.pos >= len(lx.src) || lx.src[lx.pos] != ':' {
			return nil, fmt.Errorf("line %d: expected ':' after key %q", lx.line, key)
		}

		lx.pos++

		value, err := lx.parseValue()
		if err != nil {
			return nil, err
		}

		obj.Members = append(obj.Members, m.Member{Key: key, Value: value})

		lx.skipSpace()

		if lx.pos < len(lx.src) && lx.src[lx.pos] == ',' {
			lx.pos++
			continue
		}

		lx.skipSpace()

		if lx.pos < len(lx.src) && lx.src[lx.pos] == '}' {
			lx.pos++
			return obj, nil
		}

		return nil, fmt.Errorf("line %d: expected ',' or '}' in object", lx.line)
	}
}

func (lx *lexer) parseArray() (m.Node, error) {
	arr := &m.Array{}
	lx.pos++ // consume '['

	for {
		lx.skipSpace()

		if lx.pos >= len(lx.src) {
			return nil, fmt.Errorf("line %d: unterminated array", lx.line)
		}

		if lx.src[lx.pos] == ']' {
			lx.pos++
			return arr, nil
		}

		item, err := lx.parseValue()
		if err != nil {
			return nil, err
		}

		arr.Items = append(arr.Items, item)

		lx.skipSpace()

		if lx.pos < len(lx.src) && lx.src[lx.pos] == ',' {
			lx.pos++
			continue
		}

		lx.skipSpace()

		if lx.pos < len(lx.src) && lx.src[lx.pos] == ']' {
			lx.pos++
			return arr, nil
		}

		return nil, fmt.Errorf("line %d: expected ',' or ']' in array", lx.line)
	}
}

func (lx *lexer) parseString() (m.Node, error) {
	start := lx.pos
	lx.pos++ // consume opening quote

	var b strings.Builder

	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]

		switch c {
		case '"':
			lx.pos++
			return &m.Str{Val: b.String(), Start: start, End: lx.pos}, nil
		case '\\':
			if lx.pos+1 >= len(lx.src) {
				return nil, fmt.Errorf("line %d: unterminated escape", lx.line)
			}

			lx.pos++

			switch esc := lx.src[lx.pos]; esc {
			case '"', '\\', '/':
				b.WriteByte(esc)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'u':
				if lx.pos+4 >= len(lx.src) {
					return nil, fmt.Errorf("line %d: truncated unicode escape", lx.line)
				}

				code, err := strconv.ParseUint(string(lx.src[lx.pos+1:lx.pos+5]), 16, 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid unicode escape: %w", lx.line, err)
				}

				b.WriteRune(rune(code))
				lx.pos += 4
			default:
				return nil, fmt.Errorf("line %d: invalid escape %q", lx.line, esc)
			}

			lx.pos++
		case '\n':
			return nil, fmt.Errorf("line %d: unterminated string", lx.line)
		default:
			b.WriteByte(c)
			lx.pos++
		}
	}

	return nil, fmt.Errorf("line %d: unterminated string", lx.line)
}

func (lx *lexer) parseNumber() (m.Node, error) {
	start := lx.pos

	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' {
			lx.pos++
			continue
		}

		break
	}

	raw := string(lx.src[start:lx.pos])

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("line %d: invalid number %q: %w", lx.line, raw, err)
	}

	return &m.Num{Raw: raw, Val: val, Start: start, End: lx.pos}, nil
}
