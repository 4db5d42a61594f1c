package codec

import (
	"fmt"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/roach88/rdfsql/internal/term"
)

// CacheStats reports hit and miss counts for a Cache.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// Cache memoizes decoded terms. One map per term family: literals, URIs,
// blank nodes, and everything else (formulas and variables).
//
// Entries are never evicted. A Cache is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	literals map[xxh3.Uint128]term.Term
	uris     map[string]term.Term
	bnodes   map[string]term.Term
	other    map[xxh3.Uint128]term.Term
	hits     int64
	misses   int64
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		literals: make(map[xxh3.Uint128]term.Term),
		uris:     make(map[string]term.Term),
		bnodes:   make(map[string]term.Term),
		other:    make(map[xxh3.Uint128]term.Term),
	}
}

// Term constructs the term of kind letter from its stored string form.
// lang and datatype only apply to literals.
func (c *Cache) Term(letter byte, value, lang, datatype string) (term.Term, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch letter {
	case LetterURI:
		return c.lookupString(c.uris, value, func() term.Term { return term.URI{IRI: value} }), nil
	case LetterBlankNode:
		return c.lookupString(c.bnodes, value, func() term.Term { return term.BlankNode{ID: value} }), nil
	case LetterLiteral:
		key := xxh3.HashString128(value + "\x00" + lang + "\x00" + datatype)
		return c.lookupHash(c.literals, key, func() term.Term {
			if lang != "" {
				return term.NewLangLiteral(value, lang)
			}
			return term.Literal{Lexical: value, Datatype: datatype}
		}), nil
	case LetterVariable, LetterQuotedGraph:
		key := xxh3.HashString128(string(letter) + value)
		return c.lookupHash(c.other, key, func() term.Term {
			if letter == LetterVariable {
				return term.Variable{Name: value}
			}
			return term.QuotedGraph{Identifier: value}
		}), nil
	default:
		return nil, fmt.Errorf("%w: letter %q", ErrUnknownTermKind, letter)
	}
}

// Stats returns the current counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Hits:   c.hits,
		Misses: c.misses,
		Size:   len(c.literals) + len(c.uris) + len(c.bnodes) + len(c.other),
	}
}

func (c *Cache) lookupString(m map[string]term.Term, key string, build func() term.Term) term.Term {
	if t, ok := m[key]; ok {
		c.hits++
		return t
	}
	c.misses++
	t := build()
	m[key] = t
	return t
}

func (c *Cache) lookupHash(m map[xxh3.Uint128]term.Term, key xxh3.Uint128, build func() term.Term) term.Term {
	if t, ok := m[key]; ok {
		c.hits++
		return t
	}
	c.misses++
	t := build()
	m[key] = t
	return t
}
