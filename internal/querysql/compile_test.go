package querysql

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfsql/internal/dialect"
	"github.com/roach88/rdfsql/internal/queryir"
)

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

func typeSelect() queryir.Select {
	a := "typetable"
	return queryir.Select{
		From:  "kb_x_type_statements",
		Alias: a,
		Items: []queryir.Item{
			{Expr: queryir.Col(a, "id")},
			{Expr: queryir.Col(a, "member"), As: "subject"},
			{Expr: queryir.Const{Value: rdfType}, As: "predicate"},
			{Expr: queryir.Col(a, "klass"), As: "object"},
			{Expr: queryir.Col(a, "context")},
			{Expr: queryir.Col(a, "termcomb")},
			{Expr: queryir.Null{}, As: "objlanguage"},
			{Expr: queryir.Null{}, As: "objdatatype"},
		},
		Filter: queryir.Equals{Column: queryir.Col(a, "member"), Value: "urn:s"},
	}
}

func literalSelect() queryir.Select {
	a := "literal"
	cols := []string{"id", "subject", "predicate", "object", "context", "termcomb", "objlanguage", "objdatatype"}
	items := make([]queryir.Item, len(cols))
	for i, c := range cols {
		items[i] = queryir.Item{Expr: queryir.Col(a, c)}
	}
	return queryir.Select{
		From:  "kb_x_literal_statements",
		Alias: a,
		Items: items,
		Filter: queryir.And{Predicates: []queryir.Predicate{
			queryir.Equals{Column: queryir.Col(a, "subject"), Value: "urn:s"},
			queryir.Or{Predicates: []queryir.Predicate{
				queryir.Equals{Column: queryir.Col(a, "object"), Value: "a"},
				queryir.Equals{Column: queryir.Col(a, "object"), Value: "b"},
			}},
		}},
	}
}

func TestCompile_UnionGolden(t *testing.T) {
	query := queryir.Union{
		Parts:   []queryir.Query{typeSelect(), literalSelect()},
		All:     true,
		OrderBy: []string{"subject", "predicate", "object"},
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))

	for _, d := range []dialect.Dialect{dialect.SQLite(), dialect.Postgres()} {
		t.Run(d.Name(), func(t *testing.T) {
			sql, params, err := NewSQLCompiler(d).Compile(query)
			require.NoError(t, err)
			assert.Equal(t, []any{rdfType, "urn:s", "urn:s", "a", "b"}, params)
			g.Assert(t, "union_"+d.Name(), []byte(sql))
		})
	}
}

func TestCompile_ValuesAreParameterized(t *testing.T) {
	malicious := "x'; DROP TABLE kb_x_asserted_statements; --"
	query := queryir.Select{
		From:   "kb_x_asserted_statements",
		Alias:  "asserted",
		Items:  []queryir.Item{{Expr: queryir.Col("asserted", "subject")}},
		Filter: queryir.Equals{Column: queryir.Col("asserted", "object"), Value: malicious},
	}

	sql, params, err := NewSQLCompiler(dialect.SQLite()).Compile(query)
	require.NoError(t, err)
	assert.Equal(t, `SELECT asserted.subject FROM "kb_x_asserted_statements" AS asserted WHERE asserted.object = ?`, sql)
	assert.NotContains(t, sql, "DROP")
	assert.Equal(t, []any{malicious}, params)
}

func TestCompile_DistinctCountUnion(t *testing.T) {
	inner := queryir.Select{
		From:     "kb_x_asserted_statements",
		Alias:    "asserted",
		Distinct: true,
		Items: []queryir.Item{
			{Expr: queryir.Col("asserted", "subject")},
			{Expr: queryir.Col("asserted", "predicate")},
			{Expr: queryir.Col("asserted", "object")},
		},
	}
	query := queryir.Union{Parts: []queryir.Query{
		queryir.Count{Label: "asserted", Inner: inner},
		queryir.Count{Label: "type", Inner: typeSelect()},
	}}

	sql, params, err := NewSQLCompiler(dialect.SQLite()).Compile(query)
	require.NoError(t, err)
	assert.Contains(t, sql, `SELECT CAST(? AS TEXT) AS part, COUNT(*) AS total FROM (SELECT DISTINCT asserted.subject, asserted.predicate, asserted.object FROM "kb_x_asserted_statements" AS asserted) AS counted`)
	assert.Contains(t, sql, " UNION SELECT ")
	assert.NotContains(t, sql, "UNION ALL")
	assert.Equal(t, []any{"asserted", "type", rdfType, "urn:s"}, params)
}

func TestCompile_PostgresNumbersPlaceholders(t *testing.T) {
	query := queryir.Delete{
		From: "kb_x_literal_statements",
		Filter: queryir.And{Predicates: []queryir.Predicate{
			queryir.Equals{Column: queryir.Column{Name: "subject"}, Value: "s"},
			queryir.Equals{Column: queryir.Column{Name: "context"}, Value: "c"},
		}},
	}

	sql, params, err := NewSQLCompiler(dialect.Postgres()).Compile(query)
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "kb_x_literal_statements" WHERE subject = $1 AND context = $2`, sql)
	assert.Equal(t, []any{"s", "c"}, params)
}

func TestCompile_DeleteAll(t *testing.T) {
	sql, params, err := NewSQLCompiler(dialect.SQLite()).Compile(queryir.Delete{From: "t"})
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "t"`, sql)
	assert.Empty(t, params)
}

func TestCompile_Insert(t *testing.T) {
	query := queryir.Insert{
		Into:            "kb_x_asserted_statements",
		Columns:         []string{"subject", "predicate", "object", "context", "termcomb"},
		IgnoreConflicts: true,
	}

	sql, _, err := NewSQLCompiler(dialect.SQLite()).Compile(query)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "kb_x_asserted_statements" (subject, predicate, object, context, termcomb) VALUES (?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`, sql)

	sql, _, err = NewSQLCompiler(dialect.Postgres()).Compile(query)
	require.NoError(t, err)
	assert.Contains(t, sql, "VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING")
}

func TestCompile_GroupCount(t *testing.T) {
	sql, _, err := NewSQLCompiler(dialect.SQLite()).Compile(queryir.GroupCount{From: "kb_x_type_statements", Column: "klass"})
	require.NoError(t, err)
	assert.Equal(t, `SELECT klass, COUNT(*) FROM "kb_x_type_statements" GROUP BY klass ORDER BY klass`, sql)
}

func TestCompile_Regexp(t *testing.T) {
	query := queryir.Select{
		From:   "kb_x_asserted_statements",
		Alias:  "asserted",
		Items:  []queryir.Item{{Expr: queryir.Col("asserted", "subject")}},
		Filter: queryir.Regexp{Column: queryir.Col("asserted", "subject"), Pattern: "^urn:"},
	}

	sql, params, err := NewSQLCompiler(dialect.SQLite()).Compile(query)
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE asserted.subject REGEXP ?")
	assert.Equal(t, []any{"^urn:"}, params)

	sql, _, err = NewSQLCompiler(dialect.Postgres()).Compile(query)
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE asserted.subject ~ $1")

	_, _, err = NewSQLCompiler(dialect.ModerncSQLite()).Compile(query)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestCompile_EmptyConnectives(t *testing.T) {
	base := queryir.Select{From: "t", Items: []queryir.Item{{Expr: queryir.Column{Name: "id"}}}}

	base.Filter = queryir.And{}
	sql, _, err := NewSQLCompiler(dialect.SQLite()).Compile(base)
	require.NoError(t, err)
	assert.Equal(t, `SELECT id FROM "t" WHERE 1 = 1`, sql)

	base.Filter = queryir.Or{}
	sql, _, err = NewSQLCompiler(dialect.SQLite()).Compile(base)
	require.NoError(t, err)
	assert.Equal(t, `SELECT id FROM "t" WHERE 1 = 0`, sql)
}

func TestCompile_OrWrapsConjunctions(t *testing.T) {
	query := queryir.Select{
		From:  "t",
		Items: []queryir.Item{{Expr: queryir.Column{Name: "id"}}},
		Filter: queryir.Or{Predicates: []queryir.Predicate{
			queryir.And{Predicates: []queryir.Predicate{
				queryir.Equals{Column: queryir.Column{Name: "object"}, Value: "x"},
				queryir.Equals{Column: queryir.Column{Name: "objlanguage"}, Value: "en"},
			}},
			queryir.Equals{Column: queryir.Column{Name: "object"}, Value: "y"},
		}},
	}

	sql, _, err := NewSQLCompiler(dialect.SQLite()).Compile(query)
	require.NoError(t, err)
	assert.Equal(t, `SELECT id FROM "t" WHERE ((object = ? AND objlanguage = ?) OR object = ?)`, sql)
}

func TestCompile_RejectsMalformed(t *testing.T) {
	_, _, err := NewSQLCompiler(dialect.SQLite()).Compile(nil)
	assert.ErrorIs(t, err, queryir.ErrMalformed)

	_, _, err = NewSQLCompiler(dialect.SQLite()).Compile(queryir.Union{})
	assert.ErrorIs(t, err, queryir.ErrMalformed)
}
