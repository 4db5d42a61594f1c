// Package planner turns triple patterns into Query IR over the four
// statement partitions.
//
// Partition dispatch for a pattern (s, p, o) with optional context c:
//
//	p == rdf:type                 type
//	p wildcard, or may be rdf:type type + literal? + asserted?
//	any other predicate           literal? + asserted?
//	c bound                       + quoted
//
// "literal?" and "asserted?" depend on the object slot; see objectPlan.
package planner

import (
	"github.com/roach88/rdfsql/internal/queryir"
	"github.com/roach88/rdfsql/internal/schema"
	"github.com/roach88/rdfsql/internal/term"
)

// DefaultMaxChoices is the largest Choices list sent in one query.
const DefaultMaxChoices = 800

// Options tune planning.
type Options struct {
	// StronglyTyped restricts a Regex object to the literal partition.
	StronglyTyped bool
	// MaxChoices bounds Choices lists per query; longer lists are chunked.
	MaxChoices int
}

// Planner builds queries for one store's tables.
type Planner struct {
	tables schema.Tables
	opts   Options
}

// New creates a planner.
func New(tables schema.Tables, opts Options) *Planner {
	if opts.MaxChoices <= 0 {
		opts.MaxChoices = DefaultMaxChoices
	}
	return &Planner{tables: tables, opts: opts}
}

// Tables returns the table names the planner targets.
func (p *Planner) Tables() schema.Tables { return p.tables }

// Component is one partition read with the pattern narrowed for it.
type Component struct {
	Partition schema.Partition
	Pattern   term.Pattern
}

// Components returns the partitions a pattern must search, in
// type, literal, asserted, quoted order.
func (p *Planner) Components(pat term.Pattern, graph term.Term) []Component {
	var out []Component

	if isRDFType(pat.Predicate) {
		out = append(out, Component{Partition: schema.Type, Pattern: pat})
	} else {
		if mayBeRDFType(pat.Predicate) {
			out = append(out, Component{Partition: schema.Type, Pattern: pat})
		}
		out = append(out, p.objectPlan(pat)...)
	}

	if graph != nil {
		out = append(out, Component{Partition: schema.Quoted, Pattern: pat})
	}
	return out
}

// objectPlan picks literal and asserted partitions from the object slot:
//
//	wildcard          literal + asserted
//	Literal           literal
//	other term        asserted
//	Regex             literal + asserted (literal only when strongly typed)
//	Choices           split by element kind
func (p *Planner) objectPlan(pat term.Pattern) []Component {
	lit := Component{Partition: schema.Literal, Pattern: pat}
	asserted := Component{Partition: schema.Asserted, Pattern: pat}

	switch o := pat.Object.(type) {
	case nil:
		return []Component{lit, asserted}
	case term.Choices:
		if len(o) == 0 {
			return []Component{lit, asserted}
		}
		var literals, others term.Choices
		for _, t := range o {
			if t.Kind() == term.KindLiteral {
				literals = append(literals, t)
			} else {
				others = append(others, t)
			}
		}
		var out []Component
		if len(literals) > 0 {
			lit.Pattern.Object = literals
			out = append(out, lit)
		}
		if len(others) > 0 {
			asserted.Pattern.Object = others
			out = append(out, asserted)
		}
		return out
	case term.Regex:
		if p.opts.StronglyTyped {
			return []Component{lit}
		}
		return []Component{lit, asserted}
	case term.Literal:
		return []Component{lit}
	default:
		return []Component{asserted}
	}
}

func isRDFType(s term.Slot) bool {
	t, ok := s.(term.Term)
	return ok && t.Equal(term.RDFType)
}

// mayBeRDFType reports whether rows with predicate rdf:type can satisfy s.
func mayBeRDFType(s term.Slot) bool {
	switch v := s.(type) {
	case nil:
		return true
	case term.Choices:
		if len(v) == 0 {
			return true
		}
		for _, t := range v {
			if t.Equal(term.RDFType) {
				return true
			}
		}
		return false
	case term.Regex:
		return v.MatchString(term.RDFType.IRI)
	case term.Term:
		return v.Equal(term.RDFType)
	default:
		return false
	}
}

// Harmonized output columns of every triple select.
var tripleColumns = []string{"id", "subject", "predicate", "object", "context", "termcomb", "objlanguage", "objdatatype"}

// SelectFor builds the harmonized select of one component.
func (p *Planner) SelectFor(c Component, graph term.Term) queryir.Select {
	alias := c.Partition.Alias()
	ref := RefFor(c.Partition, alias)
	col := func(name string) queryir.Item { return queryir.Item{Expr: queryir.Col(alias, name)} }

	var items []queryir.Item
	switch c.Partition {
	case schema.Type:
		items = []queryir.Item{
			col("id"),
			{Expr: queryir.Col(alias, "member"), As: "subject"},
			{Expr: queryir.Const{Value: term.RDFType.IRI}, As: "predicate"},
			{Expr: queryir.Col(alias, "klass"), As: "object"},
			col("context"),
			col("termcomb"),
			{Expr: queryir.Null{}, As: "objlanguage"},
			{Expr: queryir.Null{}, As: "objdatatype"},
		}
	case schema.Asserted:
		items = []queryir.Item{
			col("id"), col("subject"), col("predicate"), col("object"), col("context"), col("termcomb"),
			{Expr: queryir.Null{}, As: "objlanguage"},
			{Expr: queryir.Null{}, As: "objdatatype"},
		}
	default:
		items = make([]queryir.Item, len(tripleColumns))
		for i, name := range tripleColumns {
			items[i] = col(name)
		}
	}

	return queryir.Select{
		From:   p.tables.Table(c.Partition),
		Alias:  alias,
		Items:  items,
		Filter: Clause(ref, c.Pattern, graph),
	}
}

// TriplesQueries plans a pattern search. Long Choices lists produce one
// query per chunk. An all-wildcard pattern is ordered by
// (subject, predicate, object).
func (p *Planner) TriplesQueries(pat term.Pattern, graph term.Term) []queryir.Union {
	var out []queryir.Union
	for _, chunk := range chunkPattern(pat, p.opts.MaxChoices) {
		comps := p.Components(chunk, graph)
		if len(comps) == 0 {
			continue
		}
		u := queryir.Union{All: true}
		for _, c := range comps {
			u.Parts = append(u.Parts, p.SelectFor(c, graph))
		}
		if pat.AllWildcards() {
			u.OrderBy = []string{"subject", "predicate", "object"}
		}
		out = append(out, u)
	}
	return out
}

// semanticKey lists the columns that identify a statement in a partition,
// excluding context and the surrogate id.
func semanticKey(part schema.Partition) []string {
	switch part {
	case schema.Type:
		return []string{"member", "klass"}
	case schema.Asserted:
		return []string{"subject", "predicate", "object"}
	default:
		return []string{"subject", "predicate", "object", "objlanguage", "objdatatype"}
	}
}

// CountQuery counts distinct statements. Without a graph the quoted
// partition is excluded. Each part is labeled with its partition, so the
// UNION never merges two parts with equal counts; callers sum the rows.
func (p *Planner) CountQuery(graph term.Term) queryir.Union {
	parts := []schema.Partition{schema.Type, schema.Literal, schema.Asserted}
	if graph != nil {
		parts = append(parts, schema.Quoted)
	}

	u := queryir.Union{}
	for _, part := range parts {
		alias := part.Alias()
		ref := RefFor(part, alias)
		key := semanticKey(part)
		items := make([]queryir.Item, len(key))
		for i, name := range key {
			items[i] = queryir.Item{Expr: queryir.Col(alias, name)}
		}
		u.Parts = append(u.Parts, queryir.Count{
			Label: part.String(),
			Inner: queryir.Select{
				From:     p.tables.Table(part),
				Alias:    alias,
				Items:    items,
				Distinct: true,
				Filter:   ContextClause(ref, graph),
			},
		})
	}
	return u
}

// ContextsQuery lists (context, termcomb) pairs. With a pattern, only
// partitions that can hold a match are searched; the quoted partition is
// always included.
func (p *Planner) ContextsQuery(pat *term.Pattern) queryir.Union {
	var comps []Component
	if pat == nil {
		for _, part := range []schema.Partition{schema.Type, schema.Literal, schema.Asserted, schema.Quoted} {
			comps = append(comps, Component{Partition: part})
		}
	} else {
		comps = p.Components(*pat, nil)
		comps = append(comps, Component{Partition: schema.Quoted, Pattern: *pat})
	}

	u := queryir.Union{OrderBy: []string{"context"}}
	for _, c := range comps {
		alias := c.Partition.Alias()
		u.Parts = append(u.Parts, queryir.Select{
			From:  p.tables.Table(c.Partition),
			Alias: alias,
			Items: []queryir.Item{
				{Expr: queryir.Col(alias, "context")},
				{Expr: queryir.Col(alias, "termcomb")},
			},
			Filter: Clause(RefFor(c.Partition, alias), c.Pattern, nil),
		})
	}
	return u
}

// RemoveContextPlan deletes every row of graph from all four partitions.
func (p *Planner) RemoveContextPlan(graph term.Term) []queryir.Delete {
	out := make([]queryir.Delete, 0, len(schema.Partitions))
	for _, part := range []schema.Partition{schema.Literal, schema.Asserted, schema.Quoted, schema.Type} {
		out = append(out, queryir.Delete{
			From:   p.tables.Table(part),
			Filter: ContextClause(RefFor(part, ""), graph),
		})
	}
	return out
}

// RemovePlan deletes the statements matching pat in graph. An all-wildcard
// pattern with a graph removes the whole context.
func (p *Planner) RemovePlan(pat term.Pattern, graph term.Term) []queryir.Delete {
	if pat.AllWildcards() && graph != nil {
		return p.RemoveContextPlan(graph)
	}

	var comps []Component
	for _, chunk := range chunkPattern(pat, p.opts.MaxChoices) {
		if !isRDFType(chunk.Predicate) {
			comps = append(comps, p.objectPlan(chunk)...)
		}
		comps = append(comps, Component{Partition: schema.Quoted, Pattern: chunk})
		if mayBeRDFType(chunk.Predicate) {
			comps = append(comps, Component{Partition: schema.Type, Pattern: chunk})
		}
	}

	out := make([]queryir.Delete, 0, len(comps))
	for _, c := range comps {
		out = append(out, queryir.Delete{
			From:   p.tables.Table(c.Partition),
			Filter: KindedClause(RefFor(c.Partition, ""), c.Pattern, graph),
		})
	}
	return out
}

// StatisticsQueries returns per-value counts: predicates of the asserted
// and literal partitions, classes of the type partition.
func (p *Planner) StatisticsQueries() (asserted, literal, types queryir.GroupCount) {
	return queryir.GroupCount{From: p.tables.Asserted, Column: "predicate"},
		queryir.GroupCount{From: p.tables.Literal, Column: "predicate"},
		queryir.GroupCount{From: p.tables.Type, Column: "klass"}
}

// RowCountQuery counts all rows of one partition.
func (p *Planner) RowCountQuery(part schema.Partition) queryir.Count {
	alias := part.Alias()
	return queryir.Count{
		Label: part.String(),
		Inner: queryir.Select{
			From:  p.tables.Table(part),
			Alias: alias,
			Items: []queryir.Item{{Expr: queryir.Col(alias, "id")}},
		},
	}
}
