package postgres

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zizouhuweidi/quizzical/internal/domain"
	"github.com/zizouhuweidi/quizzical/internal/repoerr"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestUpsertCategory(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     domain.SaveStatus
	}{
		{name: "new category", affected: 1, want: domain.SaveCreated},
		{name: "existing category", affected: 0, want: domain.SaveExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectExec("INSERT INTO categories").
				WithArgs("Science").
				WillReturnResult(pgxmock.NewResult("INSERT", tt.affected))

			status, err := NewCategoryRepository(mock).UpsertCategory(context.Background(), "Science")
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestUpsertCategoryStatementFailure(t *testing.T) {
	mock := newMock(t)
	pgErr := &pgconn.PgError{Code: "57014", Message: "canceling statement due to user request"}
	mock.ExpectExec("INSERT INTO categories").
		WithArgs("Science").
		WillReturnError(pgErr)

	_, err := NewCategoryRepository(mock).UpsertCategory(context.Background(), "Science")

	require.Error(t, err)
	assert.ErrorIs(t, err, repoerr.ErrDatabase)

	var got *pgconn.PgError
	assert.True(t, errors.As(err, &got))
}

func TestUpsertCategoryTransportFailure(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("INSERT INTO categories").
		WithArgs("Science").
		WillReturnError(io.ErrUnexpectedEOF)

	_, err := NewCategoryRepository(mock).UpsertCategory(context.Background(), "Science")

	assert.ErrorIs(t, err, repoerr.ErrIO)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestUpsertCategoryAndSetActive(t *testing.T) {
	tests := []struct {
		name     string
		active   bool
		inserted bool
		want     domain.SaveStatus
	}{
		{name: "inserted active", active: true, inserted: true, want: domain.SaveCreated},
		{name: "inserted inactive", active: false, inserted: true, want: domain.SaveCreated},
		{name: "existing row overwritten", active: false, inserted: false, want: domain.SaveExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectQuery("ON CONFLICT \\(name\\) DO UPDATE SET active = EXCLUDED.active").
				WithArgs("History", tt.active).
				WillReturnRows(pgxmock.NewRows([]string{"inserted"}).AddRow(tt.inserted))

			active := tt.active
			status, err := NewCategoryRepository(mock).UpsertCategoryAndSetActive(context.Background(), "History", &active)
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestUpsertCategoryAndSetActiveWithoutFlag(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("ON CONFLICT DO NOTHING").
		WithArgs("History").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	status, err := NewCategoryRepository(mock).UpsertCategoryAndSetActive(context.Background(), "History", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SaveExists, status)
}

func TestListCategories(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("WHERE active = true").
		WillReturnRows(pgxmock.NewRows([]string{"name", "active"}).
			AddRow("Geography", true).
			AddRow("Science", true))

	categories, err := NewCategoryRepository(mock).ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{
		{Title: "Geography", Active: true},
		{Title: "Science", Active: true},
	}, categories)
}

func TestListCategoriesEmpty(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM categories").
		WillReturnRows(pgxmock.NewRows([]string{"name", "active"}))

	categories, err := NewCategoryRepository(mock).ListCategories(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}

func TestListCategoriesFailure(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM categories").
		WillReturnError(errors.New("relation \"categories\" does not exist"))

	_, err := NewCategoryRepository(mock).ListCategories(context.Background())
	assert.ErrorIs(t, err, repoerr.ErrDatabase)
}

func TestSetCategoryActive(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("UPDATE categories").
		WithArgs("Science", false).
		WillReturnRows(pgxmock.NewRows([]string{"active"}).AddRow(false))

	active, err := NewCategoryRepository(mock).SetCategoryActive(context.Background(), "Science", false)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestSetCategoryActiveNotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("UPDATE categories").
		WithArgs("Missing", true).
		WillReturnRows(pgxmock.NewRows([]string{"active"}))

	_, err := NewCategoryRepository(mock).SetCategoryActive(context.Background(), "Missing", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, repoerr.ErrNotFound)
	assert.Contains(t, err.Error(), "category Missing not found")
}
