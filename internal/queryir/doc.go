// Package queryir is the query intermediate representation used by the
// store planner.
//
// The planner never builds SQL strings. It builds IR values, and
// internal/querysql renders them for a concrete dialect:
//
//	[pattern] → [planner] → [Query IR] → [querysql + dialect] → SQL, params
//
// STATEMENTS:
//
//   - Select: one partition table, aliased, with explicit output items
//   - Count: COUNT(*) over a DISTINCT inner Select, tagged with a label
//   - Union: Select or Count parts joined with UNION or UNION ALL
//   - Delete: rows of one table matching a filter
//   - Insert: one parameterized row with conflict-ignore
//   - GroupCount: per-value row counts (statistics)
//
// PREDICATES:
//
//   - Equals: column = value
//   - Regexp: column matches pattern (dialect operator)
//   - And, Or: conjunction and disjunction
//
// A nil Predicate means "always true".
//
// SEALED INTERFACES:
//
// Query, Predicate and Expr are sealed with marker methods, so only this
// package adds node types and the compiler's type switches stay
// exhaustive.
//
// CRITICAL PATTERNS:
//
// Values never appear in rendered SQL. Every Equals, Regexp and Const
// value becomes a bound parameter.
package queryir
