package codec

import (
	"database/sql"
	"fmt"

	"github.com/roach88/rdfsql/internal/term"
)

// Row is one harmonized result row:
// (id, subject, predicate, object, context, termComb, objLanguage, objDatatype).
type Row struct {
	ID          int64
	Subject     string
	Predicate   string
	Object      string
	Context     sql.NullString
	TermComb    int
	ObjLanguage sql.NullString
	ObjDatatype sql.NullString
}

// ScanArgs returns destinations for rows.Scan in column order.
func (r *Row) ScanArgs() []any {
	return []any{&r.ID, &r.Subject, &r.Predicate, &r.Object, &r.Context, &r.TermComb, &r.ObjLanguage, &r.ObjDatatype}
}

// Statement is a decoded row.
type Statement struct {
	ID      int64
	Triple  term.Triple
	Context term.Term
}

// ExtractTriple rebuilds the terms of a stored row. When the row carries no
// context, fallback is used.
func ExtractTriple(row Row, cache *Cache, fallback term.Term) (Statement, error) {
	key, err := Decode(row.TermComb)
	if err != nil {
		return Statement{}, err
	}

	s, err := cache.Term(key[0], row.Subject, "", "")
	if err != nil {
		return Statement{}, fmt.Errorf("subject: %w", err)
	}
	p, err := cache.Term(key[1], row.Predicate, "", "")
	if err != nil {
		return Statement{}, fmt.Errorf("predicate: %w", err)
	}
	o, err := cache.Term(key[2], row.Object, row.ObjLanguage.String, row.ObjDatatype.String)
	if err != nil {
		return Statement{}, fmt.Errorf("object: %w", err)
	}

	ctx := fallback
	if row.Context.Valid {
		ctx, err = ContextTerm(key[3], row.Context.String, cache)
		if err != nil {
			return Statement{}, fmt.Errorf("context: %w", err)
		}
	}

	return Statement{
		ID:      row.ID,
		Triple:  term.Triple{Subject: s, Predicate: p, Object: o},
		Context: ctx,
	}, nil
}

// ContextTerm builds a context term: F is a quoted graph, U a named graph,
// B a blank-node graph.
func ContextTerm(letter byte, value string, cache *Cache) (term.Term, error) {
	switch letter {
	case LetterQuotedGraph, LetterURI, LetterBlankNode:
		return cache.Term(letter, value, "", "")
	default:
		return nil, fmt.Errorf("%w: context letter %q", ErrInvalidStatement, letter)
	}
}
