package query

import (
	"reflect"
	"strings"

	"github.com/raywall/bitable-toolkit/bitable"
	"github.com/raywall/bitable-toolkit/schema"
)

// Builder accumulates filter, sort, projection and pagination state and
// compiles it into a bitable.SearchRequest. A builder under construction is
// single-writer; the compiled request is immutable and freely shareable.
type Builder[T any] struct {
	meta     *schema.Metadata
	groups   []*group
	current  *group
	sorts    []bitable.Sort
	fields   []string
	viewID   string
	pageNo   int
	pageSize int
	token    string
	auto     *bool
}

type group struct {
	conditions []bitable.Condition
}

// For creates a builder bound to entity type T; predicate and sort field
// names resolve through T's schema metadata.
func For[T any]() *Builder[T] {
	b := &Builder[T]{}
	if t := reflect.TypeFor[T](); t.Kind() == reflect.Struct || (t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct) {
		b.meta = schema.Resolve(t)
	}
	b.current = &group{}
	b.groups = append(b.groups, b.current)
	return b
}

// New creates an untyped builder: field names pass through unchanged.
func New() *Builder[map[string]any] {
	b := &Builder[map[string]any]{}
	b.current = &group{}
	b.groups = append(b.groups, b.current)
	return b
}

// ViewID selects the server-side view to query.
func (b *Builder[T]) ViewID(viewID string) *Builder[T] {
	b.viewID = viewID
	return b
}

// PageNo sets the 1-based page number, emulated client side over page tokens.
func (b *Builder[T]) PageNo(n int) *Builder[T] {
	b.pageNo = n
	return b
}

// PageSize sets the page size.
func (b *Builder[T]) PageSize(n int) *Builder[T] {
	b.pageSize = n
	return b
}

// PageToken resumes from a server page token.
func (b *Builder[T]) PageToken(token string) *Builder[T] {
	b.token = token
	return b
}

// AutomaticFields asks the server to include created/modified metadata in
// the field map.
func (b *Builder[T]) AutomaticFields(v bool) *Builder[T] {
	b.auto = &v
	return b
}

// Select adds projected fields. Blank names are skipped.
func (b *Builder[T]) Select(fields ...string) *Builder[T] {
	return b.SelectIf(true, fields...)
}

// SelectIf adds projected fields when cond holds.
func (b *Builder[T]) SelectIf(cond bool, fields ...string) *Builder[T] {
	if !cond {
		return b
	}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			continue
		}
		b.fields = append(b.fields, b.resolve(strings.TrimSpace(f)))
	}
	return b
}

// Or closes the current condition group and opens a new one combined with
// OR. A no-op while the current group is still empty.
func (b *Builder[T]) Or() *Builder[T] {
	if len(b.current.conditions) > 0 {
		b.current = &group{}
		b.groups = append(b.groups, b.current)
	}
	return b
}

// Eq adds an equality condition.
func (b *Builder[T]) Eq(field string, value any) *Builder[T] {
	return b.EqIf(true, field, value)
}

// EqIf adds an equality condition when cond holds.
func (b *Builder[T]) EqIf(cond bool, field string, value any) *Builder[T] {
	return b.add(cond, field, bitable.OpIs, value)
}

// Ne adds an inequality condition.
func (b *Builder[T]) Ne(field string, value any) *Builder[T] {
	return b.NeIf(true, field, value)
}

// NeIf adds an inequality condition when cond holds.
func (b *Builder[T]) NeIf(cond bool, field string, value any) *Builder[T] {
	return b.add(cond, field, bitable.OpIsNot, value)
}

// Like adds a contains condition.
func (b *Builder[T]) Like(field string, value any) *Builder[T] {
	return b.LikeIf(true, field, value)
}

// LikeIf adds a contains condition when cond holds.
func (b *Builder[T]) LikeIf(cond bool, field string, value any) *Builder[T] {
	return b.add(cond, field, bitable.OpContains, value)
}

// NotLike adds a does-not-contain condition.
func (b *Builder[T]) NotLike(field string, value any) *Builder[T] {
	return b.NotLikeIf(true, field, value)
}

// NotLikeIf adds a does-not-contain condition when cond holds.
func (b *Builder[T]) NotLikeIf(cond bool, field string, value any) *Builder[T] {
	return b.add(cond, field, bitable.OpDoesNotContain, value)
}

// Gt adds a greater-than condition.
func (b *Builder[T]) Gt(field string, value any) *Builder[T] {
	return b.GtIf(true, field, value)
}

// GtIf adds a greater-than condition when cond holds.
func (b *Builder[T]) GtIf(cond bool, field string, value any) *Builder[T] {
	return b.add(cond, field, bitable.OpIsGreater, value)
}

// Ge adds a greater-or-equal condition.
func (b *Builder[T]) Ge(field string, value any) *Builder[T] {
	return b.GeIf(true, field, value)
}

// GeIf adds a greater-or-equal condition when cond holds.
func (b *Builder[T]) GeIf(cond bool, field string, value any) *Builder[T] {
	return b.add(cond, field, bitable.OpIsGreaterEqual, value)
}

// Lt adds a less-than condition.
func (b *Builder[T]) Lt(field string, value any) *Builder[T] {
	return b.LtIf(true, field, value)
}

// LtIf adds a less-than condition when cond holds.
func (b *Builder[T]) LtIf(cond bool, field string, value any) *Builder[T] {
	return b.add(cond, field, bitable.OpIsLess, value)
}

// Le adds a less-or-equal condition.
func (b *Builder[T]) Le(field string, value any) *Builder[T] {
	return b.LeIf(true, field, value)
}

// LeIf adds a less-or-equal condition when cond holds.
func (b *Builder[T]) LeIf(cond bool, field string, value any) *Builder[T] {
	return b.add(cond, field, bitable.OpIsLessEqual, value)
}

// In adds a membership condition over the given values.
func (b *Builder[T]) In(field string, values ...any) *Builder[T] {
	return b.InIf(true, field, values...)
}

// InIf adds a membership condition when cond holds.
func (b *Builder[T]) InIf(cond bool, field string, values ...any) *Builder[T] {
	if values == nil {
		return b.add(cond, field, bitable.OpIn, nil)
	}
	return b.add(cond, field, bitable.OpIn, values)
}

// IsNull adds an is-empty condition.
func (b *Builder[T]) IsNull(field string) *Builder[T] {
	return b.IsNullIf(true, field)
}

// IsNullIf adds an is-empty condition when cond holds.
func (b *Builder[T]) IsNullIf(cond bool, field string) *Builder[T] {
	return b.add(cond, field, bitable.OpIsEmpty, nil)
}

// IsNotNull adds an is-not-empty condition.
func (b *Builder[T]) IsNotNull(field string) *Builder[T] {
	return b.IsNotNullIf(true, field)
}

// IsNotNullIf adds an is-not-empty condition when cond holds.
func (b *Builder[T]) IsNotNullIf(cond bool, field string) *Builder[T] {
	return b.add(cond, field, bitable.OpIsNotEmpty, nil)
}

// Between is sugar for Ge(field, start) followed by Le(field, end), both in
// the current group.
func (b *Builder[T]) Between(field string, start, end any) *Builder[T] {
	return b.BetweenIf(true, field, start, end)
}

// BetweenIf adds the between pair when cond holds.
func (b *Builder[T]) BetweenIf(cond bool, field string, start, end any) *Builder[T] {
	if !cond {
		return b
	}
	b.Ge(field, start)
	b.Le(field, end)
	return b
}

// OrderByAsc adds an ascending sort directive.
func (b *Builder[T]) OrderByAsc(field string) *Builder[T] {
	return b.OrderByAscIf(true, field)
}

// OrderByAscIf adds an ascending sort when cond holds.
func (b *Builder[T]) OrderByAscIf(cond bool, field string) *Builder[T] {
	return b.addSort(cond, field, false)
}

// OrderByDesc adds a descending sort directive.
func (b *Builder[T]) OrderByDesc(field string) *Builder[T] {
	return b.OrderByDescIf(true, field)
}

// OrderByDescIf adds a descending sort when cond holds.
func (b *Builder[T]) OrderByDescIf(cond bool, field string) *Builder[T] {
	return b.addSort(cond, field, true)
}

// Build compiles the accumulated state into a search request. Empty groups
// are dropped; a single surviving group emits a flat AND filter, two or more
// emit an OR of AND children.
func (b *Builder[T]) Build() *bitable.SearchRequest {
	req := &bitable.SearchRequest{
		ViewID:          b.viewID,
		AutomaticFields: b.auto,
		PageToken:       b.token,
		PageNo:          b.pageNo,
		PageSize:        b.pageSize,
	}
	if len(b.fields) > 0 {
		req.FieldNames = append([]string(nil), b.fields...)
	}
	if len(b.sorts) > 0 {
		req.Sort = append([]bitable.Sort(nil), b.sorts...)
	}
	req.Filter = b.buildFilter()
	return req
}

func (b *Builder[T]) buildFilter() *bitable.Filter {
	valid := make([]*group, 0, len(b.groups))
	for _, g := range b.groups {
		if len(g.conditions) > 0 {
			valid = append(valid, g)
		}
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return &bitable.Filter{
			Conjunction: bitable.ConjunctionAnd,
			Conditions:  append([]bitable.Condition(nil), valid[0].conditions...),
		}
	}
	root := &bitable.Filter{Conjunction: bitable.ConjunctionOr}
	for _, g := range valid {
		root.Children = append(root.Children, &bitable.Filter{
			Conjunction: bitable.ConjunctionAnd,
			Conditions:  append([]bitable.Condition(nil), g.conditions...),
		})
	}
	return root
}

func (b *Builder[T]) add(cond bool, field, operator string, value any) *Builder[T] {
	if !cond || strings.TrimSpace(field) == "" {
		return b
	}
	b.current.conditions = append(b.current.conditions, bitable.Condition{
		FieldName: b.resolve(field),
		Operator:  operator,
		Value:     normalizeValue(operator, value),
	})
	return b
}

func (b *Builder[T]) addSort(cond bool, field string, desc bool) *Builder[T] {
	if !cond || strings.TrimSpace(field) == "" {
		return b
	}
	b.sorts = append(b.sorts, bitable.Sort{FieldName: b.resolve(field), Desc: desc})
	return b
}

func (b *Builder[T]) resolve(field string) string {
	if b.meta == nil {
		return field
	}
	return b.meta.RemoteName(field)
}

// normalizeValue shapes condition operands the way the filter protocol
// expects: always a list. isEmpty/isNotEmpty and nil carry the empty list, a
// slice or array contributes its elements, anything else becomes a
// one-element list.
func normalizeValue(operator string, value any) any {
	if operator == bitable.OpIsEmpty || operator == bitable.OpIsNotEmpty {
		return []any{}
	}
	if value == nil {
		return []any{}
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, rv.Index(i).Interface())
		}
		return out
	}
	return []any{value}
}
