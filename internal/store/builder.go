package store

import (
	"fmt"
	"strings"
)

// argList accumulates bound query parameters and hands out their positional
// placeholders, so dynamic SQL never does manual $n bookkeeping.
type argList struct {
	args []any
}

// bind registers a value and returns its placeholder ("$1", "$2", ...).
func (a *argList) bind(v any) string {
	a.args = append(a.args, v)
	return fmt.Sprintf("$%d", len(a.args))
}

// values returns the bound arguments in placeholder order.
func (a *argList) values() []any {
	return a.args
}

// setClause builds the SET list of a partial UPDATE. Columns are appended
// with set(); the caller supplies only fields present in the input.
type setClause struct {
	argList
	assignments []string
}

// set adds "col = $n" to the clause, binding v.
func (c *setClause) set(col string, v any) {
	c.assignments = append(c.assignments, col+" = "+c.bind(v))
}

// setRaw adds a verbatim assignment with no bound value (e.g. "updated_at = NOW()").
func (c *setClause) setRaw(assignment string) {
	c.assignments = append(c.assignments, assignment)
}

// empty reports whether no assignment was added.
func (c *setClause) empty() bool {
	return len(c.assignments) == 0
}

// sql renders the comma-joined SET list.
func (c *setClause) sql() string {
	return strings.Join(c.assignments, ", ")
}
