package store

import (
	"context"
	"fmt"

	"github.com/roach88/rdfsql/internal/queryir"
	"github.com/roach88/rdfsql/internal/schema"
)

// ValueCount is the number of rows holding one predicate or class.
type ValueCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// Statistics summarizes the contents of each partition.
type Statistics struct {
	// AssertedPredicates counts asserted rows per predicate.
	AssertedPredicates []ValueCount `json:"asserted_predicates"`
	// LiteralPredicates counts literal rows per predicate.
	LiteralPredicates []ValueCount `json:"literal_predicates"`
	// Classes counts type rows per class.
	Classes []ValueCount `json:"classes"`

	Asserted int64 `json:"asserted"`
	Literal  int64 `json:"literal"`
	Type     int64 `json:"type"`
	Quoted   int64 `json:"quoted"`
	Total    int64 `json:"total"`
	Contexts int   `json:"contexts"`
}

// Statistics gathers per-partition row counts.
func (s *Store) Statistics(ctx context.Context) (Statistics, error) {
	if err := s.ready("statistics"); err != nil {
		return Statistics{}, err
	}

	var st Statistics
	var err error
	asserted, literal, types := s.planner.StatisticsQueries()
	if st.AssertedPredicates, err = s.groupCount(ctx, asserted); err != nil {
		return Statistics{}, err
	}
	if st.LiteralPredicates, err = s.groupCount(ctx, literal); err != nil {
		return Statistics{}, err
	}
	if st.Classes, err = s.groupCount(ctx, types); err != nil {
		return Statistics{}, err
	}

	counts := map[schema.Partition]*int64{
		schema.Asserted: &st.Asserted,
		schema.Literal:  &st.Literal,
		schema.Type:     &st.Type,
		schema.Quoted:   &st.Quoted,
	}
	for _, part := range schema.Partitions {
		n, err := s.rowCount(ctx, part)
		if err != nil {
			return Statistics{}, err
		}
		*counts[part] = n
		st.Total += n
	}

	contexts, err := s.ContextList(ctx, nil)
	if err != nil {
		return Statistics{}, err
	}
	st.Contexts = len(contexts)
	return st, nil
}

// Summary renders a one-line description of the store.
func (s *Store) Summary(ctx context.Context) (string, error) {
	st, err := s.Statistics(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<Partitioned SQL N3 Store: %d contexts, %d classification assertions, %d quoted statements, %d literal properties, %d resource properties>",
		st.Contexts, st.Type, st.Quoted, st.Literal, st.Asserted), nil
}

func (s *Store) groupCount(ctx context.Context, q queryir.GroupCount) ([]ValueCount, error) {
	sqlText, params, err := s.compile("statistics", q)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("query %s counts: %w", q.Column, err)
	}
	defer rows.Close()

	out := []ValueCount{}
	for rows.Next() {
		var vc ValueCount
		if err := rows.Scan(&vc.Value, &vc.Count); err != nil {
			return nil, fmt.Errorf("scan %s count: %w", q.Column, err)
		}
		out = append(out, vc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s counts: %w", q.Column, err)
	}
	return out, nil
}

func (s *Store) rowCount(ctx context.Context, part schema.Partition) (int64, error) {
	sqlText, params, err := s.compile("statistics", s.planner.RowCountQuery(part))
	if err != nil {
		return 0, err
	}
	var (
		label string
		n     int64
	)
	if err := s.db.QueryRowContext(ctx, sqlText, params...).Scan(&label, &n); err != nil {
		return 0, fmt.Errorf("count %s rows: %w", part, err)
	}
	return n, nil
}
