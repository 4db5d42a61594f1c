package planner

import (
	"slices"
	"strings"

	"github.com/roach88/rdfsql/internal/codec"
	"github.com/roach88/rdfsql/internal/queryir"
	"github.com/roach88/rdfsql/internal/schema"
	"github.com/roach88/rdfsql/internal/term"
)

// TableRef is the handle a clause is built against: the alias used to
// qualify columns (empty for unqualified statements such as DELETE) and
// the column layout of the partition.
type TableRef struct {
	Alias string
	// TypeTable maps subject to member and object to klass, and ignores
	// the predicate.
	TypeTable bool
	// LiteralColumns enables objlanguage/objdatatype predicates.
	LiteralColumns bool
}

// RefFor returns the handle for a partition.
func RefFor(p schema.Partition, alias string) TableRef {
	return TableRef{Alias: alias, TypeTable: p == schema.Type, LiteralColumns: p.HasLiteralColumns()}
}

func (r TableRef) col(name string) queryir.Column {
	return queryir.Col(r.Alias, name)
}

// Clause builds the filter for a pattern against one table. A nil result
// matches every row.
func Clause(ref TableRef, p term.Pattern, graph term.Term) queryir.Predicate {
	var subject, object queryir.Predicate
	var predicate queryir.Predicate

	if ref.TypeTable {
		subject = slotClause(ref.col("member"), p.Subject, nil)
		object = slotClause(ref.col("klass"), p.Object, nil)
	} else {
		subject = slotClause(ref.col("subject"), p.Subject, nil)
		predicate = slotClause(ref.col("predicate"), p.Predicate, nil)
		var lit *TableRef
		if ref.LiteralColumns {
			lit = &ref
		}
		object = slotClause(ref.col("object"), p.Object, lit)
	}

	return queryir.AllOf(subject, predicate, object, ContextClause(ref, graph))
}

// ContextClause restricts rows to one context. A nil graph matches all.
func ContextClause(ref TableRef, graph term.Term) queryir.Predicate {
	if graph == nil {
		return nil
	}
	return queryir.Equals{Column: ref.col("context"), Value: graph.Value()}
}

func slotClause(col queryir.Column, s term.Slot, lit *TableRef) queryir.Predicate {
	switch v := s.(type) {
	case nil:
		return nil
	case term.Choices:
		if len(v) == 0 {
			return nil
		}
		preds := make([]queryir.Predicate, len(v))
		for i, t := range v {
			preds[i] = termClause(col, t, lit)
		}
		return queryir.AnyOf(preds...)
	case term.Regex:
		return queryir.Regexp{Column: col, Pattern: v.Expr}
	case term.Term:
		return termClause(col, v, lit)
	default:
		return nil
	}
}

func termClause(col queryir.Column, t term.Term, lit *TableRef) queryir.Predicate {
	eq := queryir.Equals{Column: col, Value: t.Value()}
	l, ok := t.(term.Literal)
	if !ok || lit == nil {
		return eq
	}
	preds := []queryir.Predicate{eq}
	if l.Language != "" {
		preds = append(preds, queryir.Equals{Column: lit.col("objlanguage"), Value: strings.ToLower(l.Language)})
	}
	if l.Datatype != "" {
		preds = append(preds, queryir.Equals{Column: lit.col("objdatatype"), Value: l.Datatype})
	}
	return queryir.AllOf(preds...)
}

// KindedClause is Clause with concrete terms also bound to their kind:
// a term only matches rows whose termcomb records the same letter at its
// position. Deletes use it since no decoded row is checked afterwards.
func KindedClause(ref TableRef, p term.Pattern, graph term.Term) queryir.Predicate {
	columns := [3]string{"subject", "predicate", "object"}
	if ref.TypeTable {
		columns = [3]string{"member", "", "klass"}
	}

	fixed := make(map[int]byte)
	var preds []queryir.Predicate
	for pos, s := range p.Slots() {
		if columns[pos] == "" {
			continue
		}
		col := ref.col(columns[pos])
		var lit *TableRef
		if pos == 2 && ref.LiteralColumns {
			lit = &ref
		}

		groups := letterGroups(s)
		switch len(groups) {
		case 0:
			preds = append(preds, slotClause(col, s, lit))
		case 1:
			for l := range groups {
				fixed[pos] = l
			}
			preds = append(preds, slotClause(col, s, lit))
		default:
			letters := make([]byte, 0, len(groups))
			for l := range groups {
				letters = append(letters, l)
			}
			slices.Sort(letters)
			alts := make([]queryir.Predicate, len(letters))
			for i, l := range letters {
				alts[i] = queryir.AllOf(slotClause(col, groups[l], lit), combClause(ref, map[int]byte{pos: l}))
			}
			preds = append(preds, queryir.AnyOf(alts...))
		}
	}

	preds = append(preds, ContextClause(ref, graph), combClause(ref, fixed))
	return queryir.AllOf(preds...)
}

// letterGroups splits the concrete terms of s by kind letter. Wildcards
// and regexes have no groups.
func letterGroups(s term.Slot) map[byte]term.Choices {
	var terms term.Choices
	switch v := s.(type) {
	case term.Choices:
		terms = v
	case term.Term:
		terms = term.Choices{v}
	default:
		return nil
	}
	groups := make(map[byte]term.Choices)
	for _, t := range terms {
		l, err := codec.Letter(t)
		if err != nil {
			continue
		}
		groups[l] = append(groups[l], t)
	}
	return groups
}

// combClause matches rows whose termcomb has the given letters. No fixed
// letters matches every row; an impossible combination matches none.
func combClause(ref TableRef, letters map[int]byte) queryir.Predicate {
	if len(letters) == 0 {
		return nil
	}
	ids := codec.Matching(letters)
	preds := make([]queryir.Predicate, len(ids))
	for i, id := range ids {
		preds[i] = queryir.Equals{Column: ref.col("termcomb"), Value: id}
	}
	if len(preds) == 0 {
		return queryir.Or{}
	}
	return queryir.AnyOf(preds...)
}
