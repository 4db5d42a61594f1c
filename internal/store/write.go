package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/rdfsql/internal/codec"
	"github.com/roach88/rdfsql/internal/queryir"
	"github.com/roach88/rdfsql/internal/schema"
	"github.com/roach88/rdfsql/internal/term"
)

// insertColumns lists the insert columns of each partition, in the order
// row values are produced by encode.
var insertColumns = map[schema.Partition][]string{
	schema.Type:     {"member", "klass", "context", "termcomb"},
	schema.Asserted: {"subject", "predicate", "object", "context", "termcomb"},
	schema.Literal:  {"subject", "predicate", "object", "context", "termcomb", "objlanguage", "objdatatype"},
	schema.Quoted:   {"subject", "predicate", "object", "context", "termcomb", "objlanguage", "objdatatype"},
}

// batchOrder is the order AddN writes its partition groups in.
var batchOrder = []schema.Partition{schema.Type, schema.Literal, schema.Asserted, schema.Quoted}

// row is one encoded statement ready for insertion.
type row struct {
	partition schema.Partition
	values    []any
}

// batch is the rows AddN sends to one partition.
type batch struct {
	partition schema.Partition
	rows      [][]any
}

// Route returns the partition a statement is stored in. A QuotedGraph
// context or quoted=true selects the quoted partition regardless of the
// predicate.
func Route(t term.Triple, graph term.Term, quoted bool) schema.Partition {
	if _, ok := graph.(term.QuotedGraph); ok || quoted {
		return schema.Quoted
	}
	if t.Predicate != nil && t.Predicate.Equal(term.RDFType) {
		return schema.Type
	}
	if t.Object != nil && t.Object.Kind() == term.KindLiteral {
		return schema.Literal
	}
	return schema.Asserted
}

// encode validates a statement and builds its insert values. A nil graph
// is stored under term.DefaultContext.
func encode(t term.Triple, graph term.Term, quoted bool) (row, error) {
	if t.Subject == nil || t.Predicate == nil || t.Object == nil {
		return row{}, fmt.Errorf("%w: statement has an unbound position", codec.ErrInvalidStatement)
	}
	if graph == nil {
		graph = term.DefaultContext
	}

	part := Route(t, graph, quoted)
	if part != schema.Quoted {
		for _, x := range []term.Term{t.Subject, t.Predicate, t.Object} {
			if x.Kind() == term.KindVariable {
				return row{}, fmt.Errorf("%w: variable %s outside a quoted context", codec.ErrInvalidStatement, x)
			}
		}
	}

	switch part {
	case schema.Type:
		// The type table has no language or datatype column.
		if lit, ok := t.Object.(term.Literal); ok && (lit.Language != "" || lit.Datatype != "") {
			return row{}, fmt.Errorf("%w: rdf:type object %s must be a plain literal", codec.ErrInvalidStatement, lit)
		}
		comb, err := codec.TypeToTermCombination(t.Subject, t.Object, graph)
		if err != nil {
			return row{}, err
		}
		return row{partition: part, values: []any{t.Subject.Value(), t.Object.Value(), graph.Value(), comb}}, nil

	case schema.Asserted:
		comb, err := codec.StatementToTermCombination(t.Subject, t.Predicate, t.Object, graph)
		if err != nil {
			return row{}, err
		}
		return row{partition: part, values: []any{t.Subject.Value(), t.Predicate.Value(), t.Object.Value(), graph.Value(), comb}}, nil

	default:
		comb, err := codec.StatementToTermCombination(t.Subject, t.Predicate, t.Object, graph)
		if err != nil {
			return row{}, err
		}
		var lang, dt any
		if lit, ok := t.Object.(term.Literal); ok {
			lang, dt = nullable(strings.ToLower(lit.Language)), nullable(lit.Datatype)
		}
		return row{partition: part, values: []any{
			t.Subject.Value(), t.Predicate.Value(), t.Object.Value(), graph.Value(), comb, lang, dt,
		}}, nil
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (s *Store) insertFor(part schema.Partition) queryir.Insert {
	return queryir.Insert{
		Into:            s.tables.Table(part),
		Columns:         insertColumns[part],
		IgnoreConflicts: true,
	}
}

// Add stores one statement in graph. A nil graph selects
// term.DefaultContext. Adding a statement that is already present is a
// no-op.
func (s *Store) Add(ctx context.Context, t term.Triple, graph term.Term, quoted bool) error {
	if err := s.ready("add"); err != nil {
		return err
	}
	r, err := encode(t, graph, quoted)
	if err != nil {
		return classify("add", err)
	}

	sqlText, _, err := s.compile("add", s.insertFor(r.partition))
	if err != nil {
		return err
	}

	return s.withTx(ctx, "add", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, sqlText, r.values...); err != nil {
			return fmt.Errorf("insert %s statement: %w", r.partition, err)
		}
		return nil
	})
}

// planBatches encodes quads and groups them by partition in batchOrder.
// Empty groups are omitted.
func planBatches(quads []term.Quad) ([]batch, error) {
	groups := make(map[schema.Partition][][]any)
	for i, q := range quads {
		r, err := encode(q.Triple, q.Context, false)
		if err != nil {
			return nil, fmt.Errorf("quad %d: %w", i, err)
		}
		groups[r.partition] = append(groups[r.partition], r.values)
	}

	var out []batch
	for _, part := range batchOrder {
		if rows := groups[part]; len(rows) > 0 {
			out = append(out, batch{partition: part, rows: rows})
		}
	}
	return out, nil
}

// AddN stores many quads in one transaction, one prepared insert per
// destination partition. Either every quad is stored or none is.
func (s *Store) AddN(ctx context.Context, quads []term.Quad) error {
	if err := s.ready("addN"); err != nil {
		return err
	}
	batches, err := planBatches(quads)
	if err != nil {
		return classify("addN", err)
	}
	if len(batches) == 0 {
		return nil
	}

	return s.withTx(ctx, "addN", func(tx *sql.Tx) error {
		for _, b := range batches {
			sqlText, _, err := s.compile("addN", s.insertFor(b.partition))
			if err != nil {
				return err
			}
			if err := execBatch(ctx, tx, sqlText, b.rows); err != nil {
				return fmt.Errorf("insert %d %s statements: %w", len(b.rows), b.partition, err)
			}
			s.logger.Debug("batch inserted", "partition", b.partition.String(), "rows", len(b.rows))
		}
		return nil
	})
}

func execBatch(ctx context.Context, tx *sql.Tx, sqlText string, rows [][]any) error {
	stmt, err := tx.PrepareContext(ctx, sqlText)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, values := range rows {
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes the statements matching pattern. A nil graph removes
// matches from every context; an all-wildcard pattern with a graph
// removes the whole context.
func (s *Store) Remove(ctx context.Context, pattern term.Pattern, graph term.Term) error {
	if err := s.ready("remove"); err != nil {
		return err
	}
	return s.runDeletes(ctx, "remove", s.planner.RemovePlan(pattern, graph))
}

// RemoveContext deletes every statement of graph from all partitions.
func (s *Store) RemoveContext(ctx context.Context, graph term.Term) error {
	if err := s.ready("removeContext"); err != nil {
		return err
	}
	if graph == nil {
		return newError(ErrCodeInvalidPattern, "removeContext", "a context is required", nil)
	}
	return s.runDeletes(ctx, "removeContext", s.planner.RemoveContextPlan(graph))
}

func (s *Store) runDeletes(ctx context.Context, op string, plan []queryir.Delete) error {
	return s.withTx(ctx, op, func(tx *sql.Tx) error {
		var total int64
		for _, d := range plan {
			n, err := s.exec(ctx, tx, op, d)
			if err != nil {
				return err
			}
			total += n
		}
		s.logger.Debug("rows removed", "op", op, "rows", total)
		return nil
	})
}

// Bind maps prefix to namespace. Any existing binding of the prefix, and
// any other prefix bound to the namespace, is replaced.
func (s *Store) Bind(ctx context.Context, prefix string, namespace term.URI) error {
	if err := s.ready("bind"); err != nil {
		return err
	}
	del := queryir.Delete{
		From: s.tables.NamespaceBinds,
		Filter: queryir.AnyOf(
			queryir.Equals{Column: queryir.Column{Name: "prefix"}, Value: prefix},
			queryir.Equals{Column: queryir.Column{Name: "uri"}, Value: namespace.IRI},
		),
	}
	ins := queryir.Insert{Into: s.tables.NamespaceBinds, Columns: []string{"prefix", "uri"}}
	insSQL, _, err := s.compile("bind", ins)
	if err != nil {
		return err
	}

	return s.withTx(ctx, "bind", func(tx *sql.Tx) error {
		if _, err := s.exec(ctx, tx, "bind", del); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insSQL, prefix, namespace.IRI); err != nil {
			return fmt.Errorf("insert binding: %w", err)
		}
		return nil
	})
}
