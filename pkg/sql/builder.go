package sql

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrNoAssignments is returned by UpdateBuilder.Build when nothing would be set.
var ErrNoAssignments = errors.New("update has no assignments")

// Filter is an optional predicate that was bound into a statement.
type Filter struct {
	Predicate string
	Value     any
}

// Builder composes a SELECT from a base clause plus optional conjunctive
// predicates. Predicate templates carry one "$%d" verb which is replaced with
// the next positional parameter; values never reach the statement text.
//
//	b := sql.NewBuilder("SELECT id FROM portfolio_items")
//	b.Where("status = $%d", filters.Status) // skipped when Status is nil
//	b.OrderBy("created_at DESC").Limit(50)
//	query, args := b.Build()
type Builder struct {
	base       string
	conditions []string
	args       []any
	filters    []Filter
	orderBy    string
	limit      *int
}

// NewBuilder starts a statement. baseArgs bind the placeholders already
// present in base ($1..$n); filters continue numbering after them.
func NewBuilder(base string, baseArgs ...any) *Builder {
	return &Builder{
		base: base,
		args: append([]any(nil), baseArgs...),
	}
}

// Where appends predicate bound to value. A nil value or nil pointer is
// absent and the predicate is omitted entirely. Pointers are dereferenced
// before binding.
func (b *Builder) Where(predicate string, value any) *Builder {
	v, ok := present(value)
	if !ok {
		return b
	}
	b.args = append(b.args, v)
	b.conditions = append(b.conditions, fmt.Sprintf(predicate, len(b.args)))
	b.filters = append(b.filters, Filter{Predicate: predicate, Value: v})
	return b
}

// And appends a predicate that binds no value. It may reference base args.
func (b *Builder) And(clause string) *Builder {
	b.conditions = append(b.conditions, clause)
	return b
}

// AndIf appends clause only when cond holds.
func (b *Builder) AndIf(cond bool, clause string) *Builder {
	if cond {
		return b.And(clause)
	}
	return b
}

// OrderBy sets the ORDER BY clause. The clause must be constant text.
func (b *Builder) OrderBy(clause string) *Builder {
	b.orderBy = clause
	return b
}

// Limit bounds the result; the count is bound as the last parameter.
func (b *Builder) Limit(n int) *Builder {
	b.limit = &n
	return b
}

// Filters returns the optional predicates that were present, in order.
func (b *Builder) Filters() []Filter {
	return b.filters
}

// Build returns the statement and its parameter vector. The builder can be
// built more than once.
func (b *Builder) Build() (string, []any) {
	args := append([]any(nil), b.args...)

	var sb strings.Builder
	sb.WriteString(b.base)
	if len(b.conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.conditions, " AND "))
	}
	if b.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.orderBy)
	}
	if b.limit != nil {
		args = append(args, *b.limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	return sb.String(), args
}

// UpdateBuilder composes an UPDATE whose SET list is chosen at runtime.
// Column names must come from a fixed whitelist; only values are bound.
type UpdateBuilder struct {
	table      string
	sets       []string
	assigned   int
	conditions []string
	args       []any
	returning  string
}

// NewUpdate starts an UPDATE on table.
func NewUpdate(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Set assigns value to column.
func (u *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	return u.SetExpr(column+" = $%d", value)
}

// SetExpr appends an assignment template such as "page_views = page_views + $%d".
func (u *UpdateBuilder) SetExpr(template string, value any) *UpdateBuilder {
	u.args = append(u.args, value)
	u.sets = append(u.sets, fmt.Sprintf(template, len(u.args)))
	u.assigned++
	return u
}

// SetRaw appends an assignment that binds nothing, e.g. "updated_at = NOW()".
// Raw assignments alone do not make an update non-empty.
func (u *UpdateBuilder) SetRaw(clause string) *UpdateBuilder {
	u.sets = append(u.sets, clause)
	return u
}

// Where appends a required predicate bound to value.
func (u *UpdateBuilder) Where(predicate string, value any) *UpdateBuilder {
	u.args = append(u.args, value)
	u.conditions = append(u.conditions, fmt.Sprintf(predicate, len(u.args)))
	return u
}

// Returning sets the RETURNING column list.
func (u *UpdateBuilder) Returning(columns string) *UpdateBuilder {
	u.returning = columns
	return u
}

// Assignments is the number of value-bearing assignments.
func (u *UpdateBuilder) Assignments() int {
	return u.assigned
}

// Build returns the statement and its parameters, or ErrNoAssignments.
func (u *UpdateBuilder) Build() (string, []any, error) {
	if u.assigned == 0 {
		return "", nil, ErrNoAssignments
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(u.table)
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(u.sets, ", "))
	if len(u.conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(u.conditions, " AND "))
	}
	if u.returning != "" {
		sb.WriteString(" RETURNING ")
		sb.WriteString(u.returning)
	}
	return sb.String(), append([]any(nil), u.args...), nil
}

// present reports whether value should be bound, dereferencing pointers.
func present(value any) (any, bool) {
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		return rv.Elem().Interface(), true
	}
	return value, true
}
