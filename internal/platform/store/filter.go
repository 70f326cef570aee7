package store

import (
	"fmt"
	"strings"
)

// Filter accumulates WHERE conditions joined by AND. Conditions use '?' for
// argument slots; placeholders are numbered when the query is rendered.
type Filter struct {
	conds []string
	args  []interface{}
}

func NewFilter() *Filter { return &Filter{} }

func (f *Filter) add(expr string, args ...interface{}) *Filter {
	f.conds = append(f.conds, expr)
	f.args = append(f.args, args...)
	return f
}

// Eq matches rows where col equals v.
func (f *Filter) Eq(col string, v interface{}) *Filter {
	return f.add(col+" = ?", v)
}

// Gte matches rows where col is greater than or equal to v.
func (f *Filter) Gte(col string, v interface{}) *Filter {
	return f.add(col+" >= ?", v)
}

// Lte matches rows where col is less than or equal to v.
func (f *Filter) Lte(col string, v interface{}) *Filter {
	return f.add(col+" <= ?", v)
}

// Lt matches rows where col is strictly less than v.
func (f *Filter) Lt(col string, v interface{}) *Filter {
	return f.add(col+" < ?", v)
}

// Contains matches rows where col contains v, case-insensitively. LIKE
// wildcards in v are escaped so the input matches literally.
func (f *Filter) Contains(col string, v string) *Filter {
	return f.add(col+" ILIKE ?", "%"+escapeLike(v)+"%")
}

// In matches rows where col is one of the values in the slice. The slice
// binds as a single array argument.
func (f *Filter) In(col string, vals interface{}) *Filter {
	return f.add(col+" = ANY(?)", vals)
}

// Or adds a parenthesized group of conditions joined by OR. An empty group
// adds nothing.
func (f *Filter) Or(build func(g *Filter)) *Filter {
	g := NewFilter()
	build(g)
	if len(g.conds) == 0 {
		return f
	}
	f.conds = append(f.conds, "("+strings.Join(g.conds, " OR ")+")")
	f.args = append(f.args, g.args...)
	return f
}

// Empty reports whether the filter has no conditions.
func (f *Filter) Empty() bool {
	return f == nil || len(f.conds) == 0
}

// clause renders the conditions as an " AND ..." fragment with placeholders
// numbered from idx. It returns the fragment, the arguments, and the next
// free index.
func (f *Filter) clause(idx int) (string, []interface{}, int) {
	if f.Empty() {
		return "", nil, idx
	}
	joined := strings.Join(f.conds, " AND ")
	var sb strings.Builder
	for _, r := range joined {
		if r == '?' {
			fmt.Fprintf(&sb, "$%d", idx)
			idx++
			continue
		}
		sb.WriteRune(r)
	}
	return " AND " + sb.String(), f.args, idx
}

// escapeLike escapes LIKE pattern characters so user input matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// SetClause accumulates column assignments for partial updates. Only columns
// explicitly set become part of the UPDATE statement.
type SetClause struct {
	cols []string
	args []interface{}
}

func NewSet() *SetClause { return &SetClause{} }

// Set assigns v to col.
func (s *SetClause) Set(col string, v interface{}) *SetClause {
	s.cols = append(s.cols, col)
	s.args = append(s.args, v)
	return s
}

// Empty reports whether no assignments were made.
func (s *SetClause) Empty() bool {
	return s == nil || len(s.cols) == 0
}

// clause renders the assignments as "col = $n, ..." with placeholders
// numbered from idx. It returns the fragment, the arguments, and the next
// free index.
func (s *SetClause) clause(idx int) (string, []interface{}, int) {
	parts := make([]string, 0, len(s.cols))
	for _, col := range s.cols {
		parts = append(parts, fmt.Sprintf("%s = $%d", col, idx))
		idx++
	}
	return strings.Join(parts, ", "), s.args, idx
}
