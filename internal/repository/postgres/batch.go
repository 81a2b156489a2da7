package postgres

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// BatchInsert builds one parameterized multi-row INSERT statement.
// Values are always bound as $n placeholders, never interpolated.
type BatchInsert struct {
	table     string
	columns   []string
	returning []string
	args      []any
	rows      int
}

// NewBatchInsert starts a batch insert into table for the given columns
func NewBatchInsert(table string, columns ...string) *BatchInsert {
	return &BatchInsert{
		table:   table,
		columns: columns,
	}
}

// Returning sets the columns of the RETURNING clause
func (b *BatchInsert) Returning(columns ...string) *BatchInsert {
	b.returning = columns
	return b
}

// Add appends one row. It must have one value per column.
func (b *BatchInsert) Add(values ...any) error {
	if len(values) != len(b.columns) {
		return fmt.Errorf("batch insert into %s: got %d values for %d columns", b.table, len(values), len(b.columns))
	}
	b.args = append(b.args, values...)
	b.rows++
	return nil
}

// Len returns the number of rows added so far
func (b *BatchInsert) Len() int {
	return b.rows
}

// Build returns the statement and its flat argument list
func (b *BatchInsert) Build() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("batch insert into %s: no columns", b.table)
	}
	if b.rows == 0 {
		return "", nil, errors.New("batch insert into " + b.table + ": no rows")
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString(") VALUES ")

	n := len(b.columns)
	for row := 0; row < b.rows; row++ {
		if row > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for col := 0; col < n; col++ {
			if col > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(row*n + col + 1))
		}
		sb.WriteByte(')')
	}

	if len(b.returning) > 0 {
		sb.WriteString(" RETURNING ")
		sb.WriteString(strings.Join(b.returning, ", "))
	}

	return sb.String(), b.args, nil
}
