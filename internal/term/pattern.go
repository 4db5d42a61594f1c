package term

import (
	"fmt"
	"regexp"
	"strings"
)

// Slot is one position of a triple pattern: a Term, Choices, a Regex,
// or nil for a wildcard.
type Slot interface {
	slot()
}

// Choices matches any of the listed terms. An empty list is a wildcard.
type Choices []Term

func (Choices) slot() {}

func (c Choices) String() string {
	parts := make([]string, len(c))
	for i, t := range c {
		parts[i] = t.String()
	}
	return strings.Join(parts, "|")
}

// Regex matches terms whose stored string form matches Expr.
type Regex struct {
	Expr string
	re   *regexp.Regexp
}

// NewRegex validates expr and returns a Regex slot.
func NewRegex(expr string) (Regex, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Regex{}, fmt.Errorf("invalid regex %q: %w", expr, err)
	}
	return Regex{Expr: expr, re: re}, nil
}

// MustRegex is like NewRegex but panics on an invalid expression.
func MustRegex(expr string) Regex {
	r, err := NewRegex(expr)
	if err != nil {
		panic(err)
	}
	return r
}

func (Regex) slot() {}

// MatchString reports whether s contains a match. Matching is unanchored.
func (r Regex) MatchString(s string) bool {
	if r.re == nil {
		re, err := regexp.Compile(r.Expr)
		if err != nil {
			return false
		}
		r.re = re
	}
	return r.re.MatchString(s)
}

func (r Regex) String() string { return "/" + r.Expr + "/" }

// Pattern is a triple pattern.
type Pattern struct {
	Subject   Slot
	Predicate Slot
	Object    Slot
}

// PatternOf converts a concrete triple into a fully bound pattern.
func PatternOf(t Triple) Pattern {
	return Pattern{Subject: asSlot(t.Subject), Predicate: asSlot(t.Predicate), Object: asSlot(t.Object)}
}

func asSlot(t Term) Slot {
	if t == nil {
		return nil
	}
	return t
}

// IsWildcard reports whether s matches every term.
func IsWildcard(s Slot) bool {
	switch v := s.(type) {
	case nil:
		return true
	case Choices:
		return len(v) == 0
	default:
		return false
	}
}

// AllWildcards reports whether every slot of p is a wildcard.
func (p Pattern) AllWildcards() bool {
	return IsWildcard(p.Subject) && IsWildcard(p.Predicate) && IsWildcard(p.Object)
}

// Slots returns the three positions in subject, predicate, object order.
func (p Pattern) Slots() [3]Slot {
	return [3]Slot{p.Subject, p.Predicate, p.Object}
}

// Accepts reports whether t satisfies the slot. Concrete literals with no
// language or datatype match on lexical form only. Language tags compare
// case-insensitively.
func Accepts(s Slot, t Term) bool {
	switch v := s.(type) {
	case nil:
		return true
	case Choices:
		if len(v) == 0 {
			return true
		}
		for _, c := range v {
			if Accepts(c, t) {
				return true
			}
		}
		return false
	case Regex:
		return v.MatchString(t.Value())
	case Literal:
		l, ok := t.(Literal)
		if !ok || l.Lexical != v.Lexical {
			return false
		}
		if v.Language != "" && !strings.EqualFold(l.Language, v.Language) {
			return false
		}
		if v.Datatype != "" && l.Datatype != v.Datatype {
			return false
		}
		return true
	case Term:
		return v.Equal(t)
	default:
		return false
	}
}

// Matches reports whether every position of t satisfies p.
func (p Pattern) Matches(t Triple) bool {
	return Accepts(p.Subject, t.Subject) && Accepts(p.Predicate, t.Predicate) && Accepts(p.Object, t.Object)
}
