package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchInsertBuild(t *testing.T) {
	b := NewBatchInsert("choices", "question_id", "text", "correct").Returning("id")
	require.NoError(t, b.Add(int64(7), "Paris", true))
	require.NoError(t, b.Add(int64(7), "Lyon", false))
	require.NoError(t, b.Add(int64(7), "Nice", false))

	query, args, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO choices (question_id, text, correct) VALUES ($1, $2, $3), ($4, $5, $6), ($7, $8, $9) RETURNING id",
		query,
	)
	assert.Equal(t, []any{int64(7), "Paris", true, int64(7), "Lyon", false, int64(7), "Nice", false}, args)
	assert.Equal(t, 3, b.Len())
}

func TestBatchInsertSingleRowWithoutReturning(t *testing.T) {
	b := NewBatchInsert("categories", "name")
	require.NoError(t, b.Add("Science"))

	query, args, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO categories (name) VALUES ($1)", query)
	assert.Equal(t, []any{"Science"}, args)
}

func TestBatchInsertKeepsValuesOutOfStatement(t *testing.T) {
	b := NewBatchInsert("choices", "question_id", "text", "correct")
	require.NoError(t, b.Add(int64(1), "'); DROP TABLE questions; --", false))

	query, args, err := b.Build()
	require.NoError(t, err)

	assert.NotContains(t, query, "DROP TABLE")
	assert.Equal(t, "'); DROP TABLE questions; --", args[1])
}

func TestBatchInsertArityMismatch(t *testing.T) {
	b := NewBatchInsert("choices", "question_id", "text", "correct")

	assert.Error(t, b.Add(int64(1), "only two"))
	assert.Equal(t, 0, b.Len())
}

func TestBatchInsertNoRows(t *testing.T) {
	_, _, err := NewBatchInsert("choices", "question_id").Build()
	assert.Error(t, err)

	_, _, err = NewBatchInsert("choices").Build()
	assert.Error(t, err)
}
