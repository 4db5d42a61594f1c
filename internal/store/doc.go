// Package store is the public facade of a partitioned RDF triple store
// kept in a relational database.
//
// Each store owns five tables (see package schema). Statements are routed
// to exactly one of four partitions:
//
//	quoted context, or quoted=true   quoted
//	predicate rdf:type               type (member, klass)
//	literal object                   literal
//	anything else                    asserted
//
// # Critical Patterns
//
// CP-1: Idempotent Writes
//   - Every partition has a unique index over its semantic columns
//   - Inserts use the dialect's conflict-ignore modifier, so re-adding a
//     statement is a silent no-op
//
// CP-2: One Transaction per Call
//   - Add, AddN, Remove, RemoveContext and Bind each commit or roll back
//     atomically
//   - A failed write is logged and returned as TRANSACTION_FAILURE, never
//     swallowed
//
// CP-3: Eager Reads
//   - Triples and Contexts fetch all rows before the returned iterator is
//     handed out; no cursor outlives the call
//
// CP-4: Parameterized SQL
//   - Every value is bound; table names come from schema.Tables only
//
// # Database Configuration
//
// See package dialect. SQLite runs with WAL, synchronous=NORMAL and a
// single pooled connection.
package store
