// Package query contains an immutable SQL SELECT description. Every method returns a new Query,
// so one base query can safely be reused for a data query and its count query.
package query

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Direction is the direction of an ORDER BY term.
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

var whereKeyword = regexp.MustCompile(`(?i)\bwhere\b`)

// clause is one predicate of the WHERE clause. Only named clauses have their :name placeholders
// compiled, all other SQL is passed to the driver verbatim.
type clause struct {
	sql   string
	named bool
}

// Query describes a single SELECT statement.
// The zero value is not usable, start from Select.
type Query struct {
	projection []string
	from       string
	where      []clause
	params     map[string]any
	orderBy    []string
	limit      int
	offset     int
}

// Select starts a query projecting the given expressions. No expressions means "*".
func Select(columns ...string) Query {
	if len(columns) == 0 {
		columns = []string{"*"}
	}
	return Query{projection: slices.Clone(columns)}
}

func (q Query) clone() Query {
	return Query{
		projection: slices.Clone(q.projection),
		from:       q.from,
		where:      slices.Clone(q.where),
		params:     maps.Clone(q.params),
		orderBy:    slices.Clone(q.orderBy),
		limit:      q.limit,
		offset:     q.offset,
	}
}

// From sets the FROM fragment. The fragment may contain joins and end with its own WHERE clause;
// predicates added later are AND-ed onto that WHERE predicate as a whole.
func (q Query) From(source string) Query {
	n := q.clone()
	n.from = source
	return n
}

// Where replaces any predicate previously set with Where, AndWhere or AndWhereParams.
// The predicate is used verbatim.
func (q Query) Where(predicate string) Query {
	n := q.clone()
	n.where = []clause{{sql: predicate}}
	n.params = nil
	return n
}

// AndWhere adds predicate to the existing ones with AND. The predicate is used verbatim.
func (q Query) AndWhere(predicate string) Query {
	n := q.clone()
	n.where = append(n.where, clause{sql: predicate})
	return n
}

// AndWhereParams adds predicate to the existing ones with AND. The :name placeholders of predicate
// are bound to params when the statement is compiled with Bind.
func (q Query) AndWhereParams(predicate string, params map[string]any) Query {
	n := q.clone()
	n.where = append(n.where, clause{sql: predicate, named: true})
	if n.params == nil {
		n.params = map[string]any{}
	}
	maps.Copy(n.params, params)
	return n
}

// HasWhere reports whether the rendered statement already has a WHERE clause.
// The check is case-insensitive and includes a WHERE written inside the FROM fragment.
func (q Query) HasWhere() bool {
	if len(q.where) > 0 {
		return true
	}
	_, _, ok := splitWhere(q.from)
	return ok
}

// OrderBy replaces the ORDER BY clause with a single term.
func (q Query) OrderBy(expr string, direction Direction) Query {
	n := q.clone()
	n.orderBy = []string{fmt.Sprintf("%s %s", expr, direction)}
	return n
}

// Limit sets the maximum number of rows. Zero or less removes the LIMIT clause.
func (q Query) Limit(limit int) Query {
	n := q.clone()
	n.limit = limit
	return n
}

// Offset sets the number of rows to skip. Zero or less removes the OFFSET clause.
func (q Query) Offset(offset int) Query {
	n := q.clone()
	n.offset = offset
	return n
}

// Count returns the same query with the projection replaced by COUNT(*) and without
// ordering or pagination, sharing the predicate and its parameters.
func (q Query) Count() Query {
	n := q.clone()
	n.projection = []string{"COUNT(*)"}
	n.orderBy = nil
	n.limit = 0
	n.offset = 0
	return n
}

// Params returns a copy of the named parameters.
func (q Query) Params() map[string]any {
	params := maps.Clone(q.params)
	if params == nil {
		params = map[string]any{}
	}
	return params
}

// SQL renders the statement with named (:name) placeholders in the clauses added with AndWhereParams.
func (q Query) SQL() string {
	stmt, _ := q.render(func(c clause) (string, error) {
		return c.sql, nil
	})
	return stmt
}

// Bind compiles the named placeholders into positional ones for the given sqlx bind type
// (sqlx.QUESTION, sqlx.DOLLAR, ...) and returns the arguments in placeholder order.
// Only clauses added with AndWhereParams are compiled, so literals and casts such as '10:00'
// or ::text elsewhere in the statement are left alone.
func (q Query) Bind(bindType int) (string, []any, error) {
	var args []any
	stmt, err := q.render(func(c clause) (string, error) {
		if !c.named {
			return c.sql, nil
		}
		compiled, clauseArgs, err := sqlx.Named(c.sql, q.params)
		if err != nil {
			return "", fmt.Errorf("unable to bind named parameters of %q: %w", c.sql, err)
		}
		var b strings.Builder
		for _, r := range compiled {
			if r != '?' || len(clauseArgs) == 0 {
				b.WriteRune(r)
				continue
			}
			b.WriteString(placeholder(bindType, len(args)+1))
			args = append(args, clauseArgs[0])
			clauseArgs = clauseArgs[1:]
		}
		return b.String(), nil
	})
	if err != nil {
		return "", nil, err
	}
	return stmt, args, nil
}

func (q Query) render(clauseSQL func(clause) (string, error)) (string, error) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(q.projection, ", "))

	from, fromWhere, fromHasWhere := q.from, "", false
	if len(q.where) > 0 {
		from, fromWhere, fromHasWhere = splitWhere(q.from)
	}
	if from != "" {
		b.WriteString(" FROM ")
		b.WriteString(from)
	}

	predicates := make([]string, 0, len(q.where)+1)
	if fromHasWhere {
		predicates = append(predicates, fromWhere)
	}
	for _, c := range q.where {
		predicate, err := clauseSQL(c)
		if err != nil {
			return "", err
		}
		predicates = append(predicates, predicate)
	}
	switch len(predicates) {
	case 0:
	case 1:
		b.WriteString(" WHERE ")
		b.WriteString(predicates[0])
	default:
		b.WriteString(" WHERE (")
		b.WriteString(strings.Join(predicates, ") AND ("))
		b.WriteString(")")
	}

	if len(q.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.orderBy, ", "))
	}
	if q.limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.limit)
	}
	if q.offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", q.offset)
	}
	return b.String(), nil
}

// splitWhere splits a FROM fragment at its top level WHERE keyword. Keywords inside parentheses,
// such as subqueries, and inside string literals are skipped.
func splitWhere(from string) (string, string, bool) {
	for _, loc := range whereKeyword.FindAllStringIndex(from, -1) {
		if topLevel(from[:loc[0]]) {
			return strings.TrimSpace(from[:loc[0]]), strings.TrimSpace(from[loc[1]:]), true
		}
	}
	return from, "", false
}

func topLevel(prefix string) bool {
	depth := 0
	quoted := false
	for _, r := range prefix {
		switch {
		case r == '\'':
			quoted = !quoted
		case quoted:
		case r == '(':
			depth++
		case r == ')':
			depth--
		}
	}
	return depth == 0 && !quoted
}

// placeholder returns the n-th (1-based) positional placeholder of bindType, as sqlx.Rebind writes it.
func placeholder(bindType, n int) string {
	switch bindType {
	case sqlx.DOLLAR:
		return "$" + strconv.Itoa(n)
	case sqlx.NAMED:
		return ":arg" + strconv.Itoa(n)
	case sqlx.AT:
		return "@p" + strconv.Itoa(n)
	}
	return "?"
}

// String implements fmt.Stringer.
func (q Query) String() string {
	return q.SQL()
}
