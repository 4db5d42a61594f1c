package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermKindsAndValues(t *testing.T) {
	tests := []struct {
		name  string
		term  Term
		kind  Kind
		value string
		str   string
	}{
		{"uri", URI{IRI: "http://example.org/a"}, KindURI, "http://example.org/a", "<http://example.org/a>"},
		{"bnode", BlankNode{ID: "b0"}, KindBlankNode, "b0", "_:b0"},
		{"plain literal", NewLiteral("hi"), KindLiteral, "hi", `"hi"`},
		{"lang literal", NewLangLiteral("hi", "EN"), KindLiteral, "hi", `"hi"@en`},
		{"typed literal", NewTypedLiteral("1", XSDInteger), KindLiteral, "1", `"1"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{"variable", Variable{Name: "x"}, KindVariable, "x", "?x"},
		{"quoted graph", QuotedGraph{Identifier: "urn:f1"}, KindQuotedGraph, "urn:f1", "{urn:f1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.term.Kind())
			assert.Equal(t, tt.value, tt.term.Value())
			assert.Equal(t, tt.str, tt.term.String())
			assert.True(t, tt.term.Equal(tt.term))
		})
	}
}

func TestEqualDistinguishesKinds(t *testing.T) {
	assert.False(t, URI{IRI: "x"}.Equal(BlankNode{ID: "x"}))
	assert.False(t, NewLiteral("x").Equal(URI{IRI: "x"}))
	assert.False(t, NewLiteral("1").Equal(NewTypedLiteral("1", XSDInteger)))
	assert.False(t, QuotedGraph{Identifier: "x"}.Equal(URI{IRI: "x"}))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(URI{IRI: "x"}, nil))
}

func TestTriplesAreMapKeys(t *testing.T) {
	m := map[Triple]int{}
	a := Triple{URI{IRI: "s"}, URI{IRI: "p"}, NewLangLiteral("o", "en")}
	b := Triple{URI{IRI: "s"}, URI{IRI: "p"}, NewLangLiteral("o", "en")}
	m[a]++
	m[b]++
	assert.Equal(t, 2, m[a])
}

func TestNewBlankNodeIsFresh(t *testing.T) {
	a := NewBlankNode()
	b := NewBlankNode()
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a.ID, "-")
}

func TestAccepts(t *testing.T) {
	pizza := URI{IRI: "http://example.org/pizza"}
	cheese := URI{IRI: "http://example.org/cheese"}

	assert.True(t, Accepts(nil, pizza))
	assert.True(t, Accepts(Choices{}, pizza))
	assert.True(t, Accepts(pizza, pizza))
	assert.False(t, Accepts(pizza, cheese))
	assert.True(t, Accepts(Choices{cheese, pizza}, pizza))
	assert.False(t, Accepts(Choices{cheese}, pizza))
	assert.True(t, Accepts(MustRegex("pizz"), pizza))
	assert.False(t, Accepts(MustRegex("^pizza$"), pizza))

	// A plain literal pattern matches on lexical form only.
	assert.True(t, Accepts(NewLiteral("1"), NewTypedLiteral("1", XSDInteger)))
	assert.False(t, Accepts(NewLangLiteral("1", "en"), NewLiteral("1")))
	assert.False(t, Accepts(NewLiteral("x"), URI{IRI: "x"}))

	assert.True(t, Accepts(Literal{Lexical: "1", Language: "EN"}, NewLangLiteral("1", "en")))
}

func TestLiteralLanguageCaseInsensitive(t *testing.T) {
	upper := Literal{Lexical: "hi", Language: "EN-gb"}
	assert.True(t, upper.Equal(NewLangLiteral("hi", "en-GB")))
	assert.False(t, upper.Equal(NewLangLiteral("hi", "fr")))
}

func TestNewRegexRejectsInvalid(t *testing.T) {
	_, err := NewRegex("(")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid regex")
}

func TestPatternHelpers(t *testing.T) {
	p := Pattern{}
	assert.True(t, p.AllWildcards())

	p = Pattern{Predicate: Choices{}}
	assert.True(t, p.AllWildcards())

	tr := Triple{URI{IRI: "s"}, RDFType, URI{IRI: "k"}}
	bound := PatternOf(tr)
	assert.False(t, bound.AllWildcards())
	assert.True(t, bound.Matches(tr))
	assert.False(t, bound.Matches(Triple{URI{IRI: "s"}, RDFType, URI{IRI: "other"}}))
}
