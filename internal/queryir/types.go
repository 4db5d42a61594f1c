package queryir

// Query is a statement. Sealed to this package.
type Query interface {
	queryNode()
}

// Predicate is a boolean filter. Sealed to this package.
type Predicate interface {
	predicateNode()
}

// Expr is an output expression of a Select. Sealed to this package.
type Expr interface {
	exprNode()
}

// Column references a column, optionally qualified by a table alias.
type Column struct {
	Table string
	Name  string
}

func (Column) exprNode() {}

// Col is shorthand for a qualified column.
func Col(table, name string) Column {
	return Column{Table: table, Name: name}
}

// Const is a string constant bound as a parameter.
type Const struct {
	Value string
}

func (Const) exprNode() {}

// Null is the SQL NULL literal.
type Null struct{}

func (Null) exprNode() {}

// Item is one output column: Expr AS As.
type Item struct {
	Expr Expr
	As   string
}

// Select reads one table.
//
//	SELECT [DISTINCT] <items> FROM <from> AS <alias> [WHERE <filter>]
type Select struct {
	From     string
	Alias    string
	Items    []Item
	Distinct bool
	Filter   Predicate
}

func (Select) queryNode() {}

// Count counts the rows of Inner.
//
//	SELECT <label> AS part, COUNT(*) AS total FROM (<inner>) AS counted
//
// The label keeps rows of different parts distinct under UNION.
type Count struct {
	Label string
	Inner Select
}

func (Count) queryNode() {}

// Union combines parts. All selects UNION ALL instead of UNION.
// OrderBy lists output column names.
type Union struct {
	Parts   []Query
	All     bool
	OrderBy []string
}

func (Union) queryNode() {}

// GroupCount counts rows per distinct value of Column.
//
//	SELECT <column>, COUNT(*) FROM <from> GROUP BY <column> ORDER BY <column>
type GroupCount struct {
	From   string
	Column string
}

func (GroupCount) queryNode() {}

// Delete removes matching rows of one table. A nil Filter deletes all rows.
type Delete struct {
	From   string
	Filter Predicate
}

func (Delete) queryNode() {}

// Insert adds one row. IgnoreConflicts skips rows that violate a
// uniqueness constraint.
type Insert struct {
	Into            string
	Columns         []string
	IgnoreConflicts bool
}

func (Insert) queryNode() {}

// Equals tests column = value.
type Equals struct {
	Column Column
	Value  any
}

func (Equals) predicateNode() {}

// Regexp tests column against a regular expression.
type Regexp struct {
	Column  Column
	Pattern string
}

func (Regexp) predicateNode() {}

// And is true when every predicate is true. An empty And is true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Or is true when any predicate is true. An empty Or is false.
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}

// AllOf combines predicates with AND, dropping nils. It returns nil when
// nothing remains and the single predicate when only one does.
func AllOf(preds ...Predicate) Predicate {
	var kept []Predicate
	for _, p := range preds {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return And{Predicates: kept}
	}
}

// AnyOf combines predicates with OR, unwrapping a single predicate.
func AnyOf(preds ...Predicate) Predicate {
	if len(preds) == 1 {
		return preds[0]
	}
	return Or{Predicates: preds}
}
