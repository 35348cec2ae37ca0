package store

import (
	"fmt"
	"strings"
	"time"
)

// WhereBuilder assembles a parameterized WHERE clause.
// Placeholders are numbered in the order conditions are added.
type WhereBuilder struct {
	conditions []string
	args       []interface{}
	argIndex   int
}

// NewWhereBuilder returns an empty builder whose first placeholder is $1.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{argIndex: 1}
}

// Add appends "col = $n". Empty strings and nil pointers are skipped so
// optional filters can be passed straight through.
func (wb *WhereBuilder) Add(col string, val interface{}) {
	wb.AddCompare(col, "=", val)
}

// AddCompare appends "col op $n", skipping empty values like Add.
func (wb *WhereBuilder) AddCompare(col, op string, val interface{}) {
	v, ok := filterValue(val)
	if !ok {
		return
	}
	wb.conditions = append(wb.conditions, fmt.Sprintf("%s %s $%d", col, op, wb.argIndex))
	wb.args = append(wb.args, v)
	wb.argIndex++
}

// AddTimestampRange appends an inclusive range on col.
func (wb *WhereBuilder) AddTimestampRange(col string, from, to interface{}) {
	wb.AddCompare(col, ">=", from)
	wb.AddCompare(col, "<=", to)
}

// AddSearch appends a case-insensitive substring match of term against any
// of cols. All columns share one placeholder.
func (wb *WhereBuilder) AddSearch(term string, cols ...string) {
	if term == "" || len(cols) == 0 {
		return
	}
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", col, wb.argIndex)
	}
	wb.conditions = append(wb.conditions, "("+strings.Join(parts, " OR ")+")")
	wb.args = append(wb.args, "%"+escapeLike(term)+"%")
	wb.argIndex++
}

// AddRaw appends a condition that takes no arguments.
func (wb *WhereBuilder) AddRaw(cond string) {
	wb.conditions = append(wb.conditions, cond)
}

// NextArgIndex returns the number of the next placeholder, for LIMIT/OFFSET.
func (wb *WhereBuilder) NextArgIndex() int {
	return wb.argIndex
}

// Build returns the clause with a leading " WHERE " and its arguments,
// or ("", nil) when no conditions were added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}

// filterValue unwraps optional filter values. The second result is false
// when the filter is unset.
func filterValue(val interface{}) (interface{}, bool) {
	switch v := val.(type) {
	case nil:
		return nil, false
	case string:
		return v, v != ""
	case *string:
		if v == nil || *v == "" {
			return nil, false
		}
		return *v, true
	case *int64:
		if v == nil {
			return nil, false
		}
		return *v, true
	case *time.Time:
		if v == nil {
			return nil, false
		}
		return *v, true
	default:
		return v, true
	}
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// quoteIdentifier quotes a SQL identifier to prevent injection.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
