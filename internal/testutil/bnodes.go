package testutil

import (
	"fmt"
	"sync"

	"github.com/roach88/rdfsql/internal/term"
)

// BlankNodeSequence mints blank nodes with predictable labels b1, b2, ...
// so tests can compare stored output byte for byte.
//
// Thread-safety: All methods are safe for concurrent use.
type BlankNodeSequence struct {
	mu   sync.Mutex
	next int
}

// NewBlankNodeSequence creates a sequence whose first node is b1.
func NewBlankNodeSequence() *BlankNodeSequence {
	return &BlankNodeSequence{}
}

// Next returns the next blank node.
func (s *BlankNodeSequence) Next() term.BlankNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return term.BlankNode{ID: fmt.Sprintf("b%d", s.next)}
}

// Reset restarts the sequence at b1.
func (s *BlankNodeSequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = 0
}
