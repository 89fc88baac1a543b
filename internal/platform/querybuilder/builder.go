// Package querybuilder renders the few postgres statements the match
// repository issues, numbering $n placeholders left to right.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition is one WHERE predicate, ANDed with the others.
type Condition struct {
	column string
	op     string
	value  any
	bound  bool
}

func Lt(column string, value any) Condition {
	return Condition{column: column, op: "<", value: value, bound: true}
}

func Gte(column string, value any) Condition {
	return Condition{column: column, op: ">=", value: value, bound: true}
}

func IsNotNull(column string) Condition {
	return Condition{column: column, op: "IS NOT NULL"}
}

type statement struct {
	buf  strings.Builder
	args []any
}

func (s *statement) bind(value any) {
	s.args = append(s.args, value)
	s.buf.WriteString("$" + strconv.Itoa(len(s.args)))
}

func (s *statement) write(parts ...string) {
	for _, p := range parts {
		s.buf.WriteString(p)
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(columns ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, columns...)
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var st statement
	st.write("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	for i, c := range b.where {
		if i == 0 {
			st.write(" WHERE ")
		} else {
			st.write(" AND ")
		}
		st.write(c.column, " ", c.op)
		if c.bound {
			st.write(" ")
			st.bind(c.value)
		}
	}
	if len(b.orderBy) > 0 {
		st.write(" ORDER BY ", strings.Join(b.orderBy, ", "))
	}
	return st.buf.String(), st.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix is appended verbatim, e.g. an OnConflictUpdate clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("insert table is required")
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("insert columns are required")
	case len(b.rows) == 0:
		return "", nil, fmt.Errorf("insert values are required")
	}

	st := statement{args: make([]any, 0, len(b.rows)*len(b.columns))}
	st.write("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES ")
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
		if i > 0 {
			st.write(", ")
		}
		st.write("(")
		for j, value := range row {
			if j > 0 {
				st.write(", ")
			}
			st.bind(value)
		}
		st.write(")")
	}
	if b.suffix != "" {
		st.write(" ", b.suffix)
	}
	return st.buf.String(), st.args, nil
}

// OnConflictUpdate renders "ON CONFLICT (...) DO UPDATE SET c = EXCLUDED.c, ..."
// for every column in update, or DO NOTHING when update is empty.
func OnConflictUpdate(conflict []string, update []string) string {
	if len(conflict) == 0 {
		return ""
	}
	target := "ON CONFLICT (" + strings.Join(conflict, ", ") + ")"
	if len(update) == 0 {
		return target + " DO NOTHING"
	}
	sets := make([]string, len(update))
	for i, col := range update {
		sets[i] = col + " = EXCLUDED." + col
	}
	return target + " DO UPDATE SET " + strings.Join(sets, ", ")
}
