// Package querysql renders Query IR as parameterized SQL for a dialect.
package querysql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/rdfsql/internal/dialect"
	"github.com/roach88/rdfsql/internal/queryir"
)

// ErrUnsupportedOperation is returned when a query needs a feature the
// dialect lacks, such as a regex operator.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// SQLCompiler compiles Query IR to SQL.
//
// CRITICAL: All values are parameterized (never interpolated). Table and
// column names come from the schema package, never from user input.
type SQLCompiler struct {
	Dialect dialect.Dialect
}

// NewSQLCompiler creates a compiler for the given dialect.
func NewSQLCompiler(d dialect.Dialect) *SQLCompiler {
	return &SQLCompiler{Dialect: d}
}

// Compile converts a query to (sql, params). The query is validated first.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if err := queryir.Validate(q); err != nil {
		return "", nil, err
	}

	b := &builder{d: c.Dialect}
	var sql string
	var err error

	switch query := q.(type) {
	case queryir.Select:
		sql, err = b.selectSQL(query)
	case queryir.Count:
		sql, err = b.countSQL(query)
	case queryir.Union:
		sql, err = b.unionSQL(query)
	case queryir.GroupCount:
		sql = b.groupCountSQL(query)
	case queryir.Delete:
		sql, err = b.deleteSQL(query)
	case queryir.Insert:
		sql = b.insertSQL(query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
	if err != nil {
		return "", nil, err
	}
	return sql, b.params, nil
}

// builder accumulates parameters for one compilation so placeholders are
// numbered across the whole statement.
type builder struct {
	d      dialect.Dialect
	params []any
}

func (b *builder) bind(v any) string {
	b.params = append(b.params, v)
	return b.d.Placeholder(len(b.params))
}

func (b *builder) selectSQL(s queryir.Select) (string, error) {
	items := make([]string, len(s.Items))
	for i, item := range s.Items {
		items[i] = b.item(item)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if s.Distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(strings.Join(items, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.d.QuoteIdent(s.From))
	if s.Alias != "" {
		sb.WriteString(" AS ")
		sb.WriteString(s.Alias)
	}
	if s.Filter != nil {
		where, err := b.predicate(s.Filter)
		if err != nil {
			return "", fmt.Errorf("compile filter: %w", err)
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	return sb.String(), nil
}

func (b *builder) countSQL(c queryir.Count) (string, error) {
	label := b.bind(c.Label)
	inner, err := b.selectSQL(c.Inner)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT CAST(%s AS TEXT) AS part, COUNT(*) AS total FROM (%s) AS counted", label, inner), nil
}

func (b *builder) unionSQL(u queryir.Union) (string, error) {
	parts := make([]string, len(u.Parts))
	for i, part := range u.Parts {
		var sql string
		var err error
		switch p := part.(type) {
		case queryir.Select:
			sql, err = b.selectSQL(p)
		case queryir.Count:
			sql, err = b.countSQL(p)
		default:
			err = fmt.Errorf("unsupported union part: %T", part)
		}
		if err != nil {
			return "", err
		}
		parts[i] = sql
	}

	sep := " UNION "
	if u.All {
		sep = " UNION ALL "
	}
	sql := strings.Join(parts, sep)
	if len(u.OrderBy) > 0 {
		sql += " ORDER BY " + strings.Join(u.OrderBy, ", ")
	}
	return sql, nil
}

func (b *builder) groupCountSQL(g queryir.GroupCount) string {
	return fmt.Sprintf("SELECT %[1]s, COUNT(*) FROM %[2]s GROUP BY %[1]s ORDER BY %[1]s", g.Column, b.d.QuoteIdent(g.From))
}

func (b *builder) deleteSQL(d queryir.Delete) (string, error) {
	sql := "DELETE FROM " + b.d.QuoteIdent(d.From)
	if d.Filter != nil {
		where, err := b.predicate(d.Filter)
		if err != nil {
			return "", fmt.Errorf("compile filter: %w", err)
		}
		sql += " WHERE " + where
	}
	return sql, nil
}

func (b *builder) insertSQL(ins queryir.Insert) string {
	marks := make([]string, len(ins.Columns))
	for i := range ins.Columns {
		marks[i] = b.d.Placeholder(i + 1)
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		b.d.QuoteIdent(ins.Into), strings.Join(ins.Columns, ", "), strings.Join(marks, ", "))
	if ins.IgnoreConflicts {
		sql += b.d.ConflictIgnore()
	}
	return sql
}

func (b *builder) item(item queryir.Item) string {
	var expr string
	switch e := item.Expr.(type) {
	case queryir.Column:
		expr = column(e)
		if item.As == "" || item.As == e.Name {
			return expr
		}
	case queryir.Const:
		expr = "CAST(" + b.bind(e.Value) + " AS TEXT)"
	case queryir.Null:
		expr = "NULL"
	}
	if item.As == "" {
		return expr
	}
	return expr + " AS " + item.As
}

func column(c queryir.Column) string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}

// predicate renders a filter. Or groups are always parenthesized.
func (b *builder) predicate(p queryir.Predicate) (string, error) {
	switch pred := p.(type) {
	case queryir.Equals:
		return column(pred.Column) + " = " + b.bind(pred.Value), nil

	case queryir.Regexp:
		format, ok := b.d.RegexpFormat()
		if !ok {
			return "", fmt.Errorf("%w: regex matching on %s is not available for dialect %s",
				ErrUnsupportedOperation, column(pred.Column), b.d.Name())
		}
		return fmt.Sprintf(format, column(pred.Column), b.bind(pred.Pattern)), nil

	case queryir.And:
		if len(pred.Predicates) == 0 {
			return "1 = 1", nil
		}
		parts := make([]string, len(pred.Predicates))
		for i, sub := range pred.Predicates {
			s, err := b.predicate(sub)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, " AND "), nil

	case queryir.Or:
		if len(pred.Predicates) == 0 {
			return "1 = 0", nil
		}
		parts := make([]string, len(pred.Predicates))
		for i, sub := range pred.Predicates {
			s, err := b.predicate(sub)
			if err != nil {
				return "", err
			}
			if _, isAnd := sub.(queryir.And); isAnd {
				s = "(" + s + ")"
			}
			parts[i] = s
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil

	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}
