package planner

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfsql/internal/dialect"
	"github.com/roach88/rdfsql/internal/queryir"
	"github.com/roach88/rdfsql/internal/querysql"
	"github.com/roach88/rdfsql/internal/schema"
	"github.com/roach88/rdfsql/internal/term"
)

var (
	tarek  = term.URI{IRI: "http://example.org/tarek"}
	likes  = term.URI{IRI: "http://example.org/likes"}
	pizza  = term.URI{IRI: "http://example.org/pizza"}
	person = term.URI{IRI: "http://example.org/Person"}
	c1     = term.URI{IRI: "http://example.org/c1"}
)

func newPlanner(opts Options) *Planner {
	return New(schema.NewTables("kb_x"), opts)
}

func partitions(comps []Component) []schema.Partition {
	out := make([]schema.Partition, len(comps))
	for i, c := range comps {
		out[i] = c.Partition
	}
	return out
}

func TestComponentsDispatch(t *testing.T) {
	lit := term.NewLiteral("cheese")
	typeish := term.MustRegex("syntax-ns#ty")
	other := term.MustRegex("^http://example.org/")

	tests := []struct {
		name    string
		pattern term.Pattern
		graph   term.Term
		strong  bool
		want    []schema.Partition
	}{
		{"rdf:type", term.Pattern{Predicate: term.RDFType}, nil, false, []schema.Partition{schema.Type}},
		{"rdf:type with context", term.Pattern{Predicate: term.RDFType, Object: person}, c1, false, []schema.Partition{schema.Type, schema.Quoted}},
		{"wildcard predicate", term.Pattern{}, nil, false, []schema.Partition{schema.Type, schema.Literal, schema.Asserted}},
		{"wildcard predicate with context", term.Pattern{}, c1, false, []schema.Partition{schema.Type, schema.Literal, schema.Asserted, schema.Quoted}},
		{"regex predicate matching rdf:type", term.Pattern{Predicate: typeish}, nil, false, []schema.Partition{schema.Type, schema.Literal, schema.Asserted}},
		{"regex predicate not matching rdf:type", term.Pattern{Predicate: other}, nil, false, []schema.Partition{schema.Literal, schema.Asserted}},
		{"choices predicate with rdf:type", term.Pattern{Predicate: term.Choices{likes, term.RDFType}}, nil, false, []schema.Partition{schema.Type, schema.Literal, schema.Asserted}},
		{"concrete predicate", term.Pattern{Predicate: likes}, nil, false, []schema.Partition{schema.Literal, schema.Asserted}},
		{"literal object", term.Pattern{Predicate: likes, Object: lit}, nil, false, []schema.Partition{schema.Literal}},
		{"uri object", term.Pattern{Predicate: likes, Object: pizza}, nil, false, []schema.Partition{schema.Asserted}},
		{"regex object loose", term.Pattern{Predicate: likes, Object: other}, nil, false, []schema.Partition{schema.Literal, schema.Asserted}},
		{"regex object strong", term.Pattern{Predicate: likes, Object: other}, nil, true, []schema.Partition{schema.Literal}},
		{"wildcard object strong", term.Pattern{Predicate: likes}, nil, true, []schema.Partition{schema.Literal, schema.Asserted}},
		{"literal object with context", term.Pattern{Object: lit}, c1, false, []schema.Partition{schema.Type, schema.Literal, schema.Quoted}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlanner(Options{StronglyTyped: tt.strong})
			assert.Equal(t, tt.want, partitions(p.Components(tt.pattern, tt.graph)))
		})
	}
}

func TestComponentsSplitChoicesByKind(t *testing.T) {
	lit := term.NewLiteral("cheese")
	p := newPlanner(Options{})

	comps := p.Components(term.Pattern{Predicate: likes, Object: term.Choices{pizza, lit}}, nil)
	require.Len(t, comps, 2)
	assert.Equal(t, schema.Literal, comps[0].Partition)
	assert.Equal(t, term.Choices{lit}, comps[0].Pattern.Object)
	assert.Equal(t, schema.Asserted, comps[1].Partition)
	assert.Equal(t, term.Choices{pizza}, comps[1].Pattern.Object)

	comps = p.Components(term.Pattern{Predicate: likes, Object: term.Choices{pizza}}, nil)
	assert.Equal(t, []schema.Partition{schema.Asserted}, partitions(comps))
}

func TestTriplesQueriesChunksLongChoices(t *testing.T) {
	subjects := make(term.Choices, 2000)
	for i := range subjects {
		subjects[i] = term.URI{IRI: fmt.Sprintf("http://example.org/s%d", i)}
	}

	p := newPlanner(Options{})
	queries := p.TriplesQueries(term.Pattern{Subject: subjects, Predicate: likes}, nil)
	require.Len(t, queries, 3)

	total := 0
	for _, q := range queries {
		sel := q.Parts[0].(queryir.Select)
		pred := sel.Filter.(queryir.And).Predicates[0].(queryir.Or)
		total += len(pred.Predicates)
		assert.LessOrEqual(t, len(pred.Predicates), DefaultMaxChoices)
		assert.True(t, q.All)
	}
	assert.Equal(t, 2000, total)

	small := newPlanner(Options{MaxChoices: 10})
	assert.Len(t, small.TriplesQueries(term.Pattern{Subject: subjects[:25]}, nil), 3)
}

func TestTriplesQueriesOrderPlainListing(t *testing.T) {
	p := newPlanner(Options{})

	listing := p.TriplesQueries(term.Pattern{}, nil)
	require.Len(t, listing, 1)
	assert.Equal(t, []string{"subject", "predicate", "object"}, listing[0].OrderBy)

	search := p.TriplesQueries(term.Pattern{Predicate: likes}, nil)
	require.Len(t, search, 1)
	assert.Empty(t, search[0].OrderBy)
}

func TestCountQuery(t *testing.T) {
	p := newPlanner(Options{})

	all := p.CountQuery(nil)
	assert.False(t, all.All)
	require.Len(t, all.Parts, 3)
	labels := []string{}
	for _, part := range all.Parts {
		c := part.(queryir.Count)
		assert.True(t, c.Inner.Distinct)
		assert.Nil(t, c.Inner.Filter)
		labels = append(labels, c.Label)
	}
	assert.Equal(t, []string{"type", "literal", "asserted"}, labels)

	scoped := p.CountQuery(c1)
	require.Len(t, scoped.Parts, 4)
	last := scoped.Parts[3].(queryir.Count)
	assert.Equal(t, "quoted", last.Label)
	assert.Equal(t, queryir.Equals{Column: queryir.Col("quoted", "context"), Value: c1.IRI}, last.Inner.Filter)
}

func TestContextsQuery(t *testing.T) {
	p := newPlanner(Options{})

	all := p.ContextsQuery(nil)
	require.Len(t, all.Parts, 4)
	assert.Equal(t, []string{"context"}, all.OrderBy)

	pat := term.Pattern{Predicate: term.RDFType}
	typed := p.ContextsQuery(&pat)
	require.Len(t, typed.Parts, 2)
	assert.Equal(t, "kb_x_type_statements", typed.Parts[0].(queryir.Select).From)
	assert.Equal(t, "kb_x_quoted_statements", typed.Parts[1].(queryir.Select).From)
}

func deleteTables(ds []queryir.Delete) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.From
	}
	return out
}

func TestRemovePlan(t *testing.T) {
	p := newPlanner(Options{})

	t.Run("whole context", func(t *testing.T) {
		plan := p.RemovePlan(term.Pattern{}, c1)
		assert.Equal(t, []string{
			"kb_x_literal_statements", "kb_x_asserted_statements", "kb_x_quoted_statements", "kb_x_type_statements",
		}, deleteTables(plan))
		for _, d := range plan {
			assert.Equal(t, queryir.Equals{Column: queryir.Column{Name: "context"}, Value: c1.IRI}, d.Filter)
		}
	})

	t.Run("type statement", func(t *testing.T) {
		plan := p.RemovePlan(term.Pattern{Subject: tarek, Predicate: term.RDFType, Object: person}, c1)
		assert.Equal(t, []string{"kb_x_quoted_statements", "kb_x_type_statements"}, deleteTables(plan))
		filter := plan[1].Filter.(queryir.And)
		assert.Equal(t, queryir.Equals{Column: queryir.Column{Name: "member"}, Value: tarek.IRI}, filter.Predicates[0])
		assert.Equal(t, queryir.Equals{Column: queryir.Column{Name: "klass"}, Value: person.IRI}, filter.Predicates[1])
	})

	t.Run("literal object skips asserted", func(t *testing.T) {
		plan := p.RemovePlan(term.Pattern{Subject: tarek, Predicate: likes, Object: term.NewLiteral("x")}, nil)
		assert.Equal(t, []string{"kb_x_literal_statements", "kb_x_quoted_statements"}, deleteTables(plan))
	})

	t.Run("wildcard predicate", func(t *testing.T) {
		plan := p.RemovePlan(term.Pattern{Subject: tarek, Object: pizza}, c1)
		assert.Equal(t, []string{"kb_x_asserted_statements", "kb_x_quoted_statements", "kb_x_type_statements"}, deleteTables(plan))
	})

	t.Run("everything", func(t *testing.T) {
		plan := p.RemovePlan(term.Pattern{}, nil)
		assert.Len(t, plan, 4)
		for _, d := range plan {
			assert.Nil(t, d.Filter)
		}
	})
}

func TestGoldenPlans(t *testing.T) {
	p := newPlanner(Options{})
	compiler := querysql.NewSQLCompiler(dialect.SQLite())
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))

	queries := p.TriplesQueries(term.Pattern{Predicate: likes}, c1)
	require.Len(t, queries, 1)
	sql, params, err := compiler.Compile(queries[0])
	require.NoError(t, err)
	assert.Equal(t, []any{likes.IRI, c1.IRI, likes.IRI, c1.IRI, likes.IRI, c1.IRI}, params)
	g.Assert(t, "triples_likes_c1", []byte(sql))

	sql, params, err = compiler.Compile(p.CountQuery(nil))
	require.NoError(t, err)
	assert.Equal(t, []any{"type", "literal", "asserted"}, params)
	g.Assert(t, "count_all", []byte(sql))
}
