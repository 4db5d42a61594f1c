// Package schema names and defines the five tables that make up one store.
//
// Every store is identified by a string. Its tables share a prefix
// derived from that string (see InternedID) so several stores can live in
// one database:
//
//	{id}_asserted_statements  non-type statements with a non-literal object
//	{id}_type_statements      rdf:type statements (member, klass)
//	{id}_literal_statements   non-type statements with a literal object
//	{id}_quoted_statements    statements inside formulas
//	{id}_namespace_binds      prefix to namespace bindings
package schema

import (
	"crypto/sha1"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// DefaultIdentifier is the store identifier used when none is given.
const DefaultIdentifier = "hardcoded"

const internedPrefix = "kb_"

// InternedID derives the table-name prefix of a store: "kb_" followed by
// the first 10 hex digits of the SHA-1 of the NFC-normalized identifier.
func InternedID(identifier string) string {
	sum := sha1.Sum([]byte(norm.NFC.String(identifier)))
	return internedPrefix + hex.EncodeToString(sum[:])[:10]
}

// Partition is one of the four statement tables.
type Partition int

const (
	Asserted Partition = iota
	Type
	Literal
	Quoted
)

// Partitions lists every statement partition.
var Partitions = []Partition{Asserted, Type, Literal, Quoted}

func (p Partition) String() string {
	switch p {
	case Asserted:
		return "asserted"
	case Type:
		return "type"
	case Literal:
		return "literal"
	case Quoted:
		return "quoted"
	default:
		return "unknown"
	}
}

// Alias is the table alias used in generated queries.
func (p Partition) Alias() string {
	switch p {
	case Type:
		return "typetable"
	default:
		return p.String()
	}
}

// HasLiteralColumns reports whether the partition stores objlanguage and
// objdatatype.
func (p Partition) HasLiteralColumns() bool {
	return p == Literal || p == Quoted
}

// Tables holds the physical table names of one store.
type Tables struct {
	InternedID     string
	Asserted       string
	Type           string
	Quoted         string
	NamespaceBinds string
	Literal        string
}

// NewTables builds the table names for an interned id.
func NewTables(internedID string) Tables {
	return Tables{
		InternedID:     internedID,
		Asserted:       internedID + "_asserted_statements",
		Type:           internedID + "_type_statements",
		Quoted:         internedID + "_quoted_statements",
		NamespaceBinds: internedID + "_namespace_binds",
		Literal:        internedID + "_literal_statements",
	}
}

// ForIdentifier builds the table names of the store with the given
// logical identifier.
func ForIdentifier(identifier string) Tables {
	return NewTables(InternedID(identifier))
}

// TableNames returns the five table names of an interned id.
func TableNames(internedID string) []string {
	return NewTables(internedID).Names()
}

// Names returns all five table names.
func (t Tables) Names() []string {
	return []string{t.Asserted, t.Type, t.Quoted, t.NamespaceBinds, t.Literal}
}

// Table returns the physical table of a statement partition.
func (t Tables) Table(p Partition) string {
	switch p {
	case Asserted:
		return t.Asserted
	case Type:
		return t.Type
	case Literal:
		return t.Literal
	case Quoted:
		return t.Quoted
	default:
		return ""
	}
}
