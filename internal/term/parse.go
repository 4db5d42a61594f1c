package term

import (
	"fmt"
	"strings"
)

// Parse reads a single term in N-Triples syntax:
//
//	<http://example.org/a>    URI
//	_:b0                      blank node
//	"text", "text"@en         literal
//	"1"^^<http://...#integer> typed literal
//	?x                        variable
//	{http://example.org/f}    quoted graph
func Parse(text string) (Term, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, fmt.Errorf("empty term")
	}

	switch {
	case s[0] == '<':
		if !strings.HasSuffix(s, ">") || len(s) < 2 {
			return nil, fmt.Errorf("unterminated IRI: %s", s)
		}
		iri := s[1 : len(s)-1]
		if strings.ContainsAny(iri, "<> ") {
			return nil, fmt.Errorf("invalid IRI: %s", s)
		}
		return URI{IRI: iri}, nil
	case strings.HasPrefix(s, "_:"):
		id := s[2:]
		if id == "" {
			return nil, fmt.Errorf("empty blank node label")
		}
		return BlankNode{ID: id}, nil
	case s[0] == '?':
		if len(s) == 1 {
			return nil, fmt.Errorf("empty variable name")
		}
		return Variable{Name: s[1:]}, nil
	case s[0] == '"':
		return parseLiteral(s)
	case s[0] == '{':
		if !strings.HasSuffix(s, "}") || len(s) < 3 {
			return nil, fmt.Errorf("invalid quoted graph: %s", s)
		}
		return QuotedGraph{Identifier: s[1 : len(s)-1]}, nil
	default:
		return nil, fmt.Errorf("unrecognized term: %s", s)
	}
}

// ParseSlot reads a pattern position. "*" or "" is a wildcard, "/expr/" a
// regex, and "a|b|c" a list of choices.
func ParseSlot(text string) (Slot, error) {
	s := strings.TrimSpace(text)
	if s == "" || s == "*" {
		return nil, nil
	}
	if len(s) >= 2 && s[0] == '/' && s[len(s)-1] == '/' {
		return NewRegex(s[1 : len(s)-1])
	}
	if s[0] != '"' && strings.Contains(s, "|") {
		parts := strings.Split(s, "|")
		choices := make(Choices, 0, len(parts))
		for _, p := range parts {
			t, err := Parse(p)
			if err != nil {
				return nil, err
			}
			choices = append(choices, t)
		}
		return choices, nil
	}
	return Parse(s)
}

func parseLiteral(s string) (Term, error) {
	var b strings.Builder
	i := 1
	closed := false
	for i < len(s) {
		c := s[i]
		if c == '\\' {
			if i+1 >= len(s) {
				return nil, fmt.Errorf("unterminated escape in literal: %s", s)
			}
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '"', '\\':
				b.WriteByte(s[i+1])
			default:
				return nil, fmt.Errorf("unknown escape \\%c in literal", s[i+1])
			}
			i += 2
			continue
		}
		if c == '"' {
			closed = true
			i++
			break
		}
		b.WriteByte(c)
		i++
	}
	if !closed {
		return nil, fmt.Errorf("unterminated literal: %s", s)
	}

	rest := s[i:]
	switch {
	case rest == "":
		return NewLiteral(b.String()), nil
	case strings.HasPrefix(rest, "@"):
		lang := rest[1:]
		if lang == "" {
			return nil, fmt.Errorf("empty language tag: %s", s)
		}
		return NewLangLiteral(b.String(), lang), nil
	case strings.HasPrefix(rest, "^^"):
		dt, err := Parse(rest[2:])
		if err != nil {
			return nil, fmt.Errorf("datatype: %w", err)
		}
		u, ok := dt.(URI)
		if !ok {
			return nil, fmt.Errorf("datatype must be an IRI: %s", rest[2:])
		}
		return NewTypedLiteral(b.String(), u), nil
	default:
		return nil, fmt.Errorf("unexpected text after literal: %s", rest)
	}
}
