package querybuilder

import (
	"strconv"
	"strings"
)

// Condition renders one WHERE predicate, appending its bind values.
type Condition interface {
	appendSQL(w *writer)
}

// writer tracks the SQL text and the next positional placeholder.
type writer struct {
	buf  strings.Builder
	args []any
	next int
}

func newWriter() *writer {
	return &writer{next: 1}
}

func (w *writer) bind(value any) {
	w.buf.WriteString("$")
	w.buf.WriteString(strconv.Itoa(w.next))
	w.args = append(w.args, value)
	w.next++
}

// expr writes raw SQL, replacing each ? with the next bind value.
func (w *writer) expr(sql string, values []any) {
	used := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] == '?' && used < len(values) {
			w.bind(values[used])
			used++
			continue
		}
		w.buf.WriteByte(sql[i])
	}
}

type compareCondition struct {
	column string
	op     string
	value  any
}

func Eq(column string, value any) Condition {
	return compareCondition{column: column, op: "=", value: value}
}

func Gt(column string, value any) Condition {
	return compareCondition{column: column, op: ">", value: value}
}

func (c compareCondition) appendSQL(w *writer) {
	w.buf.WriteString(c.column)
	w.buf.WriteString(" ")
	w.buf.WriteString(c.op)
	w.buf.WriteString(" ")
	w.bind(c.value)
}

type inCondition struct {
	column string
	values []any
}

func In(column string, values []any) Condition {
	return inCondition{column: column, values: values}
}

// InStrings is In for the common string-key case.
func InStrings(column string, values []string) Condition {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return inCondition{column: column, values: out}
}

func (c inCondition) appendSQL(w *writer) {
	if len(c.values) == 0 {
		w.buf.WriteString("1=0")
		return
	}
	w.buf.WriteString(c.column)
	w.buf.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			w.buf.WriteString(", ")
		}
		w.bind(v)
	}
	w.buf.WriteString(")")
}

type isNullCondition struct {
	column string
}

func IsNull(column string) Condition {
	return isNullCondition{column: column}
}

func (c isNullCondition) appendSQL(w *writer) {
	w.buf.WriteString(c.column)
	w.buf.WriteString(" IS NULL")
}

type exprCondition struct {
	sql  string
	args []any
}

func Expr(sql string, args ...any) Condition {
	return exprCondition{sql: sql, args: args}
}

func (c exprCondition) appendSQL(w *writer) {
	w.expr(c.sql, c.args)
}

func appendWhere(w *writer, conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	w.buf.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			w.buf.WriteString(" AND ")
		}
		c.appendSQL(w)
	}
}
