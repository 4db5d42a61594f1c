// Package testutil holds fixtures shared by the store, cli and planner
// tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/roach88/rdfsql/internal/term"
)

// Namespace of the example vocabulary.
const Namespace = "http://example.org/"

// Example terms used across tests.
var (
	Tarek  = term.URI{IRI: Namespace + "tarek"}
	Michel = term.URI{IRI: Namespace + "michel"}
	Bob    = term.URI{IRI: Namespace + "bob"}
	Likes  = term.URI{IRI: Namespace + "likes"}
	Hates  = term.URI{IRI: Namespace + "hates"}
	Named  = term.URI{IRI: Namespace + "name"}
	Pizza  = term.URI{IRI: Namespace + "pizza"}
	Cheese = term.URI{IRI: Namespace + "cheese"}
	Person = term.URI{IRI: Namespace + "Person"}
	Food   = term.URI{IRI: Namespace + "Food"}

	Context1 = term.URI{IRI: Namespace + "c1"}
	Context2 = term.URI{IRI: Namespace + "c2"}
	Formula  = term.QuotedGraph{Identifier: Namespace + "formula"}
)

// Triple builds a triple.
func Triple(s, p, o term.Term) term.Triple {
	return term.Triple{Subject: s, Predicate: p, Object: o}
}

// Quad builds a quad.
func Quad(s, p, o, c term.Term) term.Quad {
	return term.Quad{Triple: Triple(s, p, o), Context: c}
}

// SQLiteURL returns a database URL for a fresh file in t.TempDir.
func SQLiteURL(t testing.TB) string {
	t.Helper()
	return "sqlite:///" + filepath.Join(t.TempDir(), "test.db")
}

// ModerncURL is SQLiteURL for the pure-Go driver.
func ModerncURL(t testing.TB) string {
	t.Helper()
	return "sqlite+modernc:///" + filepath.Join(t.TempDir(), "test.db")
}

// MixedQuads returns n quads in c spread evenly over the type, literal
// and asserted partitions, in that rotation.
func MixedQuads(n int, c term.Term) []term.Quad {
	quads := make([]term.Quad, 0, n)
	for i := range n {
		s := term.URI{IRI: fmt.Sprintf("%sitem/%d", Namespace, i)}
		switch i % 3 {
		case 0:
			quads = append(quads, Quad(s, term.RDFType, Food, c))
		case 1:
			quads = append(quads, Quad(s, Named, term.NewLiteral(fmt.Sprintf("item %d", i)), c))
		default:
			quads = append(quads, Quad(s, Likes, Pizza, c))
		}
	}
	return quads
}
