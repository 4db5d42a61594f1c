package queryir

import (
	"errors"
	"fmt"
)

// ErrMalformed is wrapped by every Validate failure.
var ErrMalformed = errors.New("malformed query")

// Validate checks the structural rules the compiler relies on:
//  1. every Select names a table and at least one output item
//  2. every part of a Union has the same number of output columns
//  3. a Union's ORDER BY columns exist in its first part
//  4. Insert and GroupCount name their table and columns
//
// Validate is a pure function with no side effects.
func Validate(q Query) error {
	switch query := q.(type) {
	case nil:
		return fmt.Errorf("%w: nil query", ErrMalformed)
	case Select:
		return validateSelect(query)
	case Count:
		return validateSelect(query.Inner)
	case Union:
		return validateUnion(query)
	case GroupCount:
		if query.From == "" || query.Column == "" {
			return fmt.Errorf("%w: group count needs a table and a column", ErrMalformed)
		}
		return nil
	case Delete:
		if query.From == "" {
			return fmt.Errorf("%w: delete without table", ErrMalformed)
		}
		return validatePredicate(query.Filter)
	case Insert:
		if query.Into == "" || len(query.Columns) == 0 {
			return fmt.Errorf("%w: insert needs a table and columns", ErrMalformed)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown query type %T", ErrMalformed, q)
	}
}

func validateSelect(s Select) error {
	if s.From == "" {
		return fmt.Errorf("%w: select without table", ErrMalformed)
	}
	if len(s.Items) == 0 {
		return fmt.Errorf("%w: select from %s has no output items", ErrMalformed, s.From)
	}
	for i, item := range s.Items {
		if item.Expr == nil {
			return fmt.Errorf("%w: select from %s item %d has no expression", ErrMalformed, s.From, i)
		}
	}
	return validatePredicate(s.Filter)
}

func validateUnion(u Union) error {
	if len(u.Parts) == 0 {
		return fmt.Errorf("%w: union without parts", ErrMalformed)
	}

	width := -1
	var names []string
	for i, part := range u.Parts {
		var cols []string
		switch p := part.(type) {
		case Select:
			if err := validateSelect(p); err != nil {
				return err
			}
			cols = itemNames(p.Items)
		case Count:
			if err := validateSelect(p.Inner); err != nil {
				return err
			}
			cols = []string{"part", "total"}
		default:
			return fmt.Errorf("%w: union part %d has type %T", ErrMalformed, i, part)
		}
		if width == -1 {
			width = len(cols)
			names = cols
		} else if len(cols) != width {
			return fmt.Errorf("%w: union part %d has %d columns, want %d", ErrMalformed, i, len(cols), width)
		}
	}

	for _, col := range u.OrderBy {
		if !contains(names, col) {
			return fmt.Errorf("%w: order by unknown column %q", ErrMalformed, col)
		}
	}
	return nil
}

func validatePredicate(p Predicate) error {
	switch pred := p.(type) {
	case nil:
		return nil
	case Equals:
		if pred.Column.Name == "" {
			return fmt.Errorf("%w: equals without column", ErrMalformed)
		}
		return nil
	case Regexp:
		if pred.Column.Name == "" {
			return fmt.Errorf("%w: regexp without column", ErrMalformed)
		}
		return nil
	case And:
		for _, sub := range pred.Predicates {
			if err := validatePredicate(sub); err != nil {
				return err
			}
		}
		return nil
	case Or:
		for _, sub := range pred.Predicates {
			if err := validatePredicate(sub); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown predicate type %T", ErrMalformed, p)
	}
}

func itemNames(items []Item) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.As
		if names[i] == "" {
			if c, ok := item.Expr.(Column); ok {
				names[i] = c.Name
			}
		}
	}
	return names
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
