package store

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"iter"
	"slices"

	"github.com/roach88/rdfsql/internal/codec"
	"github.com/roach88/rdfsql/internal/queryir"
	"github.com/roach88/rdfsql/internal/term"
)

// Match is one distinct triple together with the contexts it was found in.
type Match struct {
	Triple   term.Triple
	Contexts []term.Term
}

// Binding is one namespace binding.
type Binding struct {
	Prefix    string   `json:"prefix"`
	Namespace term.URI `json:"namespace"`
}

// Matches runs a pattern search and returns the distinct triples in the
// order they were first seen, each with its contexts. A nil graph
// searches every asserted context; quoted statements are only searched
// when graph is set.
func (s *Store) Matches(ctx context.Context, pattern term.Pattern, graph term.Term) ([]Match, error) {
	if err := s.ready("triples"); err != nil {
		return nil, err
	}

	index := make(map[term.Triple]int)
	seen := make(map[term.Triple]map[term.Term]bool)
	matches := []Match{}

	for _, q := range s.planner.TriplesQueries(pattern, graph) {
		stmts, err := s.fetchStatements(ctx, q, graph)
		if err != nil {
			return nil, err
		}
		for _, st := range stmts {
			if !pattern.Matches(st.Triple) {
				continue
			}
			i, ok := index[st.Triple]
			if !ok {
				i = len(matches)
				index[st.Triple] = i
				seen[st.Triple] = make(map[term.Term]bool)
				matches = append(matches, Match{Triple: st.Triple})
			}
			if st.Context != nil && !seen[st.Triple][st.Context] {
				seen[st.Triple][st.Context] = true
				matches[i].Contexts = append(matches[i].Contexts, st.Context)
			}
		}
	}
	return matches, nil
}

// Triples is Matches exposed as an iterator. All rows are fetched before
// Triples returns; the iterator and the per-triple context iterators only
// walk the materialized result and may be ranged over more than once.
func (s *Store) Triples(ctx context.Context, pattern term.Pattern, graph term.Term) (iter.Seq2[term.Triple, iter.Seq[term.Term]], error) {
	matches, err := s.Matches(ctx, pattern, graph)
	if err != nil {
		return nil, err
	}
	return func(yield func(term.Triple, iter.Seq[term.Term]) bool) {
		for _, m := range matches {
			if !yield(m.Triple, slices.Values(m.Contexts)) {
				return
			}
		}
	}, nil
}

// TriplesChoices is Triples for a pattern with at most one Choices slot.
// Long lists are split across several queries.
func (s *Store) TriplesChoices(ctx context.Context, pattern term.Pattern, graph term.Term) (iter.Seq2[term.Triple, iter.Seq[term.Term]], error) {
	lists := 0
	for _, slot := range pattern.Slots() {
		if _, ok := slot.(term.Choices); ok {
			lists++
		}
	}
	if lists > 1 {
		return nil, newError(ErrCodeInvalidPattern, "triplesChoices",
			fmt.Sprintf("pattern has %d list slots, at most one is allowed", lists), nil)
	}
	return s.Triples(ctx, pattern, graph)
}

// fetchStatements runs one triple query and decodes every row.
func (s *Store) fetchStatements(ctx context.Context, q queryir.Query, graph term.Term) ([]codec.Statement, error) {
	sqlText, params, err := s.compile("triples", q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("query triples: %w", err)
	}
	defer rows.Close()

	stmts := []codec.Statement{}
	for rows.Next() {
		var r codec.Row
		if err := rows.Scan(r.ScanArgs()...); err != nil {
			return nil, fmt.Errorf("scan triple: %w", err)
		}
		st, err := codec.ExtractTriple(r, s.cache, graph)
		if err != nil {
			return nil, classify("triples", fmt.Errorf("row %d: %w", r.ID, err))
		}
		stmts = append(stmts, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate triples: %w", err)
	}
	return stmts, nil
}

// Contexts returns the distinct contexts of the store ordered by
// identifier. With a pattern, only contexts holding a matching statement
// are returned.
func (s *Store) Contexts(ctx context.Context, pattern *term.Pattern) (iter.Seq[term.Term], error) {
	list, err := s.ContextList(ctx, pattern)
	if err != nil {
		return nil, err
	}
	return slices.Values(list), nil
}

// ContextList is Contexts as a slice.
func (s *Store) ContextList(ctx context.Context, pattern *term.Pattern) ([]term.Term, error) {
	if err := s.ready("contexts"); err != nil {
		return nil, err
	}
	sqlText, params, err := s.compile("contexts", s.planner.ContextsQuery(pattern))
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("query contexts: %w", err)
	}
	defer rows.Close()

	seen := make(map[term.Term]bool)
	out := []term.Term{}
	for rows.Next() {
		var (
			value string
			comb  int
		)
		if err := rows.Scan(&value, &comb); err != nil {
			return nil, fmt.Errorf("scan context: %w", err)
		}
		key, err := codec.Decode(comb)
		if err != nil {
			return nil, classify("contexts", err)
		}
		c, err := codec.ContextTerm(key[3], value, s.cache)
		if err != nil {
			return nil, classify("contexts", err)
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contexts: %w", err)
	}
	return out, nil
}

// Len counts distinct statements. Without a graph, quoted statements are
// not counted and a triple held in several contexts counts once per
// partition.
func (s *Store) Len(ctx context.Context, graph term.Term) (int, error) {
	if err := s.ready("len"); err != nil {
		return 0, err
	}
	sqlText, params, err := s.compile("len", s.planner.CountQuery(graph))
	if err != nil {
		return 0, err
	}

	rows, err := s.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return 0, fmt.Errorf("count statements: %w", err)
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		var (
			part string
			n    int64
		)
		if err := rows.Scan(&part, &n); err != nil {
			return 0, fmt.Errorf("scan count: %w", err)
		}
		total += int(n)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate counts: %w", err)
	}
	return total, nil
}

// Prefix returns the prefix bound to namespace.
func (s *Store) Prefix(ctx context.Context, namespace term.URI) (string, bool, error) {
	b, ok, err := s.lookupBinding(ctx, "prefix", queryir.Equals{Column: queryir.Column{Name: "uri"}, Value: namespace.IRI})
	return b.Prefix, ok, err
}

// Namespace returns the namespace bound to prefix.
func (s *Store) Namespace(ctx context.Context, prefix string) (term.URI, bool, error) {
	b, ok, err := s.lookupBinding(ctx, "namespace", queryir.Equals{Column: queryir.Column{Name: "prefix"}, Value: prefix})
	return b.Namespace, ok, err
}

// Namespaces returns every binding ordered by prefix.
func (s *Store) Namespaces(ctx context.Context) ([]Binding, error) {
	if err := s.ready("namespaces"); err != nil {
		return nil, err
	}
	bindings, err := s.queryBindings(ctx, s.db, "namespaces", nil)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(bindings, func(a, b Binding) int { return cmp.Compare(a.Prefix, b.Prefix) })
	return bindings, nil
}

func (s *Store) lookupBinding(ctx context.Context, op string, filter queryir.Predicate) (Binding, bool, error) {
	if err := s.ready(op); err != nil {
		return Binding{}, false, err
	}
	bindings, err := s.queryBindings(ctx, s.db, op, filter)
	if err != nil || len(bindings) == 0 {
		return Binding{}, false, err
	}
	return bindings[0], true, nil
}

func (s *Store) queryBindings(ctx context.Context, q queryer, op string, filter queryir.Predicate) ([]Binding, error) {
	sel := queryir.Select{
		From: s.tables.NamespaceBinds,
		Items: []queryir.Item{
			{Expr: queryir.Column{Name: "prefix"}},
			{Expr: queryir.Column{Name: "uri"}},
		},
		Filter: filter,
	}
	sqlText, params, err := s.compile(op, sel)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("query namespaces: %w", err)
	}
	defer rows.Close()

	out := []Binding{}
	for rows.Next() {
		var (
			prefix string
			uri    sql.NullString
		)
		if err := rows.Scan(&prefix, &uri); err != nil {
			return nil, fmt.Errorf("scan binding: %w", err)
		}
		out = append(out, Binding{Prefix: prefix, Namespace: term.URI{IRI: uri.String}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bindings: %w", err)
	}
	return out, nil
}
