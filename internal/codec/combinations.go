// Package codec encodes the kinds of the four terms of a statement as a
// single small integer, and decodes stored rows back into terms.
//
// Each of subject, predicate, object and context gets one letter:
//
//	U  URI
//	B  blank node
//	L  literal
//	V  variable
//	F  formula (quoted graph)
//
// The 4-letter key is looked up in a fixed enumeration and its position is
// stored in the termComb column. The enumeration order is part of the
// persisted format and must never change.
package codec

import (
	"errors"
	"fmt"

	"github.com/roach88/rdfsql/internal/term"
)

var (
	// ErrInvalidStatement is returned when a statement's term kinds do not
	// form a valid combination, e.g. a Literal subject.
	ErrInvalidStatement = errors.New("invalid statement")

	// ErrUnknownTermKind is returned for a term outside the closed set.
	ErrUnknownTermKind = errors.New("unknown term kind")
)

// Term kind letters.
const (
	LetterURI         byte = 'U'
	LetterBlankNode   byte = 'B'
	LetterLiteral     byte = 'L'
	LetterVariable    byte = 'V'
	LetterQuotedGraph byte = 'F'
)

// Letter sets per position, in enumeration order.
const (
	subjectLetters   = "UVBF"
	predicateLetters = "UV"
	objectLetters    = "UVBLF"
	contextLetters   = "UBF"
)

var (
	combinations     []string
	combinationIndex map[string]int
)

func init() {
	combinations = make([]string, 0, len(subjectLetters)*len(predicateLetters)*len(objectLetters)*len(contextLetters))
	for _, s := range []byte(subjectLetters) {
		for _, p := range []byte(predicateLetters) {
			for _, o := range []byte(objectLetters) {
				for _, c := range []byte(contextLetters) {
					combinations = append(combinations, string([]byte{s, p, o, c}))
				}
			}
		}
	}
	combinationIndex = make(map[string]int, len(combinations))
	for i, key := range combinations {
		combinationIndex[key] = i
	}
}

// Combinations returns a copy of the full enumeration, indexed by id.
func Combinations() []string {
	out := make([]string, len(combinations))
	copy(out, combinations)
	return out
}

// Lookup returns the id of a 4-letter key.
func Lookup(key string) (int, bool) {
	id, ok := combinationIndex[key]
	return id, ok
}

// Matching returns, in id order, the ids whose key has letters[i] at
// position i for every entry of letters. Positions are 0 subject,
// 1 predicate, 2 object and 3 context.
func Matching(letters map[int]byte) []int {
	var ids []int
	for id, key := range combinations {
		ok := true
		for pos, l := range letters {
			if pos < 0 || pos >= len(key) || key[pos] != l {
				ok = false
				break
			}
		}
		if ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Decode returns the 4-letter key for a stored termComb value.
func Decode(comb int) (string, error) {
	if comb < 0 || comb >= len(combinations) {
		return "", fmt.Errorf("%w: term combination %d out of range", ErrInvalidStatement, comb)
	}
	return combinations[comb], nil
}

// Letter returns the kind letter of t.
func Letter(t term.Term) (byte, error) {
	switch t.(type) {
	case term.URI:
		return LetterURI, nil
	case term.BlankNode:
		return LetterBlankNode, nil
	case term.Literal:
		return LetterLiteral, nil
	case term.Variable:
		return LetterVariable, nil
	case term.QuotedGraph:
		return LetterQuotedGraph, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnknownTermKind, t)
	}
}

// ContextLetter returns the letter for a context position: F for a quoted
// graph, otherwise the letter of the graph identifier.
func ContextLetter(ctx term.Term) (byte, error) {
	switch ctx.(type) {
	case term.QuotedGraph:
		return LetterQuotedGraph, nil
	case term.URI:
		return LetterURI, nil
	case term.BlankNode:
		return LetterBlankNode, nil
	case term.Literal, term.Variable:
		return 0, fmt.Errorf("%w: %s cannot identify a context", ErrInvalidStatement, ctx.Kind())
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnknownTermKind, ctx)
	}
}

// TypeToTermCombination encodes an rdf:type statement. The predicate
// letter is always U.
func TypeToTermCombination(member, klass, ctx term.Term) (int, error) {
	m, err := Letter(member)
	if err != nil {
		return 0, err
	}
	k, err := Letter(klass)
	if err != nil {
		return 0, err
	}
	c, err := ContextLetter(ctx)
	if err != nil {
		return 0, err
	}
	key := string([]byte{m, LetterURI, k, c})
	id, ok := combinationIndex[key]
	if !ok {
		return 0, fmt.Errorf("%w: unsupported type combination %s for %s a %s", ErrInvalidStatement, key, member, klass)
	}
	return id, nil
}

// StatementToTermCombination encodes an arbitrary statement.
func StatementToTermCombination(s, p, o, ctx term.Term) (int, error) {
	var key [4]byte
	for i, t := range []term.Term{s, p, o} {
		l, err := Letter(t)
		if err != nil {
			return 0, err
		}
		key[i] = l
	}
	c, err := ContextLetter(ctx)
	if err != nil {
		return 0, err
	}
	key[3] = c
	id, ok := combinationIndex[string(key[:])]
	if !ok {
		return 0, fmt.Errorf("%w: unsupported term combination %s", ErrInvalidStatement, string(key[:]))
	}
	return id, nil
}
