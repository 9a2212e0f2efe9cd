package sqlsource

import (
	"fmt"
	"strings"

	"github.com/fastclicker/TableBundle/pkg/query"
	"github.com/fastclicker/TableBundle/pkg/table"
)

// operatorSymbol maps a filter operator to its SQL comparison.
// Operators are validated by the filter builder, so the error is a programming error.
func operatorSymbol(op table.Operator) (string, error) {
	switch op {
	case table.EQ:
		return "=", nil
	case table.NotEQ:
		return "!=", nil
	case table.GT:
		return ">", nil
	case table.GEQ:
		return ">=", nil
	case table.LT:
		return "<", nil
	case table.LEQ:
		return "<=", nil
	case table.Like:
		return "LIKE", nil
	case table.NotLike:
		return "NOT LIKE", nil
	}
	return "", fmt.Errorf("unknown filter operator %s", op)
}

// buildPredicate returns the conjunction of filters: the columns of one filter are OR'd,
// filters are AND'd. Each fragment compares a column field with the filter's named parameter.
func buildPredicate(filters []table.BoundFilter) (string, error) {
	whereClauses := make([]string, 0, len(filters))
	for _, filter := range filters {
		symbol, err := operatorSymbol(filter.Operator)
		if err != nil {
			return "", err
		}
		orClauses := make([]string, 0, len(filter.Columns))
		for _, column := range filter.Columns {
			orClauses = append(orClauses, fmt.Sprintf("%s %s :%s", column.Field, symbol, filter.Name))
		}
		switch len(orClauses) {
		case 0:
			continue
		case 1:
			whereClauses = append(whereClauses, orClauses[0])
		default:
			whereClauses = append(whereClauses, fmt.Sprintf("(%s)", strings.Join(orClauses, " OR ")))
		}
	}
	return strings.Join(whereClauses, " AND "), nil
}

// applyFilters attaches the filter predicate to q, as its WHERE clause when it has none, AND-ed onto
// the existing one otherwise, including a WHERE ending the FROM fragment, and binds the filter values. Without filters q is returned unchanged.
func applyFilters(q query.Query, filters []table.BoundFilter) (query.Query, error) {
	if len(filters) == 0 {
		return q, nil
	}
	predicate, err := buildPredicate(filters)
	if err != nil {
		return q, err
	}
	if predicate == "" {
		return q, nil
	}
	params := make(map[string]any, len(filters))
	for _, filter := range filters {
		params[filter.Name] = filter.BindValue()
	}
	return q.AndWhereParams(predicate, params), nil
}

// applySort sets the single ORDER BY term of the resolved sort column.
func applySort(q query.Query, sort *table.Sort) query.Query {
	if sort == nil {
		return q
	}
	direction := query.DESC
	if sort.Direction == table.Asc {
		direction = query.ASC
	}
	return q.OrderBy(sort.Column.Field, direction)
}

// applyPagination restricts q to the current page.
func applyPagination(q query.Query, pagination *table.Pagination) query.Query {
	if pagination == nil {
		return q
	}
	return q.Offset(pagination.Offset()).Limit(pagination.ItemsPerPage)
}
