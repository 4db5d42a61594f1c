package schema

import (
	"fmt"
	"strings"

	"github.com/roach88/rdfsql/internal/dialect"
)

// ColumnType is the logical type of a column, rendered per dialect.
type ColumnType int

const (
	ColumnID ColumnType = iota
	ColumnTerm
	ColumnInteger
	ColumnLanguage
	ColumnPrefix
)

// Column is one column definition.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// Index is one (possibly unique) index. Nullable columns in a unique
// index are wrapped in COALESCE so that NULLs compare equal.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// Table is a table definition.
type Table struct {
	Name    string
	Columns []Column
	Indexes []Index
	// PrimaryKey overrides the id column as primary key.
	PrimaryKey string
}

// Definitions returns the five table definitions in creation order.
func Definitions(t Tables) []Table {
	id := t.InternedID
	return []Table{
		{
			Name: t.Asserted,
			Columns: []Column{
				{Name: "id", Type: ColumnID},
				{Name: "subject", Type: ColumnTerm},
				{Name: "predicate", Type: ColumnTerm},
				{Name: "object", Type: ColumnTerm},
				{Name: "context", Type: ColumnTerm},
				{Name: "termcomb", Type: ColumnInteger},
			},
			Indexes: []Index{
				{Name: id + "_A_termComb_index", Columns: []string{"termcomb"}},
				{Name: id + "_A_s_index", Columns: []string{"subject"}},
				{Name: id + "_A_p_index", Columns: []string{"predicate"}},
				{Name: id + "_A_o_index", Columns: []string{"object"}},
				{Name: id + "_A_c_index", Columns: []string{"context"}},
				{Name: id + "_A_spoc_unique", Columns: []string{"subject", "predicate", "object", "context"}, Unique: true},
			},
		},
		{
			Name: t.Type,
			Columns: []Column{
				{Name: "id", Type: ColumnID},
				{Name: "member", Type: ColumnTerm},
				{Name: "klass", Type: ColumnTerm},
				{Name: "context", Type: ColumnTerm},
				{Name: "termcomb", Type: ColumnInteger},
			},
			Indexes: []Index{
				{Name: id + "_T_termComb_index", Columns: []string{"termcomb"}},
				{Name: id + "_member_index", Columns: []string{"member"}},
				{Name: id + "_klass_index", Columns: []string{"klass"}},
				{Name: id + "_c_index", Columns: []string{"context"}},
				{Name: id + "_T_mkc_unique", Columns: []string{"member", "klass", "context"}, Unique: true},
			},
		},
		literalTable(t.Quoted, id, "Q", true),
		{
			Name: t.NamespaceBinds,
			Columns: []Column{
				{Name: "prefix", Type: ColumnPrefix},
				{Name: "uri", Type: ColumnTerm, Nullable: true},
			},
			Indexes: []Index{
				{Name: id + "_uri_index", Columns: []string{"uri"}},
			},
			PrimaryKey: "prefix",
		},
		literalTable(t.Literal, id, "L", false),
	}
}

// literalTable is the shape shared by the literal and quoted partitions.
// The literal partition has no object index.
func literalTable(name, id, tag string, objectIndex bool) Table {
	indexes := []Index{
		{Name: fmt.Sprintf("%s_%s_termComb_index", id, tag), Columns: []string{"termcomb"}},
		{Name: fmt.Sprintf("%s_%s_s_index", id, tag), Columns: []string{"subject"}},
		{Name: fmt.Sprintf("%s_%s_p_index", id, tag), Columns: []string{"predicate"}},
	}
	if objectIndex {
		indexes = append(indexes, Index{Name: fmt.Sprintf("%s_%s_o_index", id, tag), Columns: []string{"object"}})
	}
	indexes = append(indexes,
		Index{Name: fmt.Sprintf("%s_%s_c_index", id, tag), Columns: []string{"context"}},
		Index{
			Name:    fmt.Sprintf("%s_%s_spoc_unique", id, tag),
			Columns: []string{"subject", "predicate", "object", "context", "objlanguage", "objdatatype"},
			Unique:  true,
		},
	)
	return Table{
		Name: name,
		Columns: []Column{
			{Name: "id", Type: ColumnID},
			{Name: "subject", Type: ColumnTerm},
			{Name: "predicate", Type: ColumnTerm},
			{Name: "object", Type: ColumnTerm, Nullable: true},
			{Name: "context", Type: ColumnTerm},
			{Name: "termcomb", Type: ColumnInteger},
			{Name: "objlanguage", Type: ColumnLanguage, Nullable: true},
			{Name: "objdatatype", Type: ColumnLanguage, Nullable: true},
		},
		Indexes: indexes,
	}
}

// CreateStatements returns the idempotent DDL for all five tables.
func CreateStatements(d dialect.Dialect, t Tables) []string {
	var stmts []string
	for _, table := range Definitions(t) {
		stmts = append(stmts, createTable(d, table))
		for _, idx := range table.Indexes {
			stmts = append(stmts, createIndex(d, table, idx))
		}
	}
	return stmts
}

// DropStatements returns DROP TABLE statements for all five tables.
func DropStatements(d dialect.Dialect, t Tables) []string {
	names := t.Names()
	stmts := make([]string, len(names))
	for i, name := range names {
		stmts[i] = "DROP TABLE IF EXISTS " + d.QuoteIdent(name)
	}
	return stmts
}

func createTable(d dialect.Dialect, t Table) string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		defs = append(defs, columnDef(d, t, c))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", d.QuoteIdent(t.Name), strings.Join(defs, ",\n\t"))
}

func columnDef(d dialect.Dialect, t Table, c Column) string {
	if c.Type == ColumnID {
		return c.Name + " " + d.IDColumn()
	}

	var typ string
	switch c.Type {
	case ColumnTerm:
		typ = d.TextType()
	case ColumnInteger:
		typ = "INTEGER"
	case ColumnLanguage:
		typ = d.StringType(255)
	case ColumnPrefix:
		typ = d.StringType(20)
	}

	def := c.Name + " " + typ
	if !c.Nullable {
		def += " NOT NULL"
	}
	if t.PrimaryKey == c.Name {
		def += " PRIMARY KEY"
	}
	return def
}

func createIndex(d dialect.Dialect, t Table, idx Index) string {
	nullable := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		nullable[c.Name] = c.Nullable
	}

	parts := make([]string, len(idx.Columns))
	for i, col := range idx.Columns {
		if idx.Unique && nullable[col] {
			parts[i] = "COALESCE(" + col + ", '')"
		} else {
			parts[i] = col
		}
	}

	kind := "INDEX"
	if idx.Unique {
		kind = "UNIQUE INDEX"
	}
	return fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s (%s)",
		kind, d.QuoteIdent(idx.Name), d.QuoteIdent(t.Name), strings.Join(parts, ", "))
}
