package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zizouhuweidi/quizzical/internal/domain"
	"github.com/zizouhuweidi/quizzical/internal/pagination"
	"github.com/zizouhuweidi/quizzical/internal/repoerr"
)

//go:embed testdata/schema.sql
var schema string

// integrationPool connects to the database named by QUIZZICAL_TEST_DATABASE_URL
// and applies the schema, or skips the test.
func integrationPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("QUIZZICAL_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("QUIZZICAL_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, schema)
	require.NoError(t, err)

	return pool
}

// uniqueCategory keeps runs against a shared database apart
func uniqueCategory(name string) string {
	return name + "-" + uuid.NewString()
}

func countRows(t *testing.T, pool *pgxpool.Pool, query string, args ...any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, pool.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}

func TestIntegrationUpsertCategoryIsIdempotent(t *testing.T) {
	pool := integrationPool(t)
	ctx := context.Background()
	repo := NewCategoryRepository(pool)
	title := uniqueCategory("Science")

	first, err := repo.UpsertCategory(ctx, title)
	require.NoError(t, err)
	second, err := repo.UpsertCategory(ctx, title)
	require.NoError(t, err)

	assert.Equal(t, domain.SaveCreated, first)
	assert.Equal(t, domain.SaveExists, second)
	assert.Equal(t, int64(1), countRows(t, pool, "SELECT COUNT(*) FROM categories WHERE name = $1", title))
}

func TestIntegrationUpsertCategoryAndSetActiveOverwrites(t *testing.T) {
	pool := integrationPool(t)
	ctx := context.Background()
	repo := NewCategoryRepository(pool)
	title := uniqueCategory("History")

	active := true
	status, err := repo.UpsertCategoryAndSetActive(ctx, title, &active)
	require.NoError(t, err)
	assert.Equal(t, domain.SaveCreated, status)

	inactive := false
	status, err = repo.UpsertCategoryAndSetActive(ctx, title, &inactive)
	require.NoError(t, err)
	assert.Equal(t, domain.SaveExists, status)

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	for _, c := range categories {
		assert.NotEqual(t, title, c.Title)
	}

	status, err = repo.UpsertCategoryAndSetActive(ctx, title, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SaveExists, status)

	var stored bool
	require.NoError(t, pool.QueryRow(ctx, "SELECT active FROM categories WHERE name = $1", title).Scan(&stored))
	assert.False(t, stored)
}

func TestIntegrationSetCategoryActive(t *testing.T) {
	pool := integrationPool(t)
	ctx := context.Background()
	repo := NewCategoryRepository(pool)
	title := uniqueCategory("Music")

	_, err := repo.UpsertCategory(ctx, title)
	require.NoError(t, err)

	active, err := repo.SetCategoryActive(ctx, title, false)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = repo.SetCategoryActive(ctx, uniqueCategory("Missing"), true)
	assert.ErrorIs(t, err, repoerr.ErrNotFound)
}

func TestIntegrationSaveQuestionRoundTrip(t *testing.T) {
	pool := integrationPool(t)
	ctx := context.Background()
	category := uniqueCategory("Geography")

	_, err := NewCategoryRepository(pool).UpsertCategory(ctx, category)
	require.NoError(t, err)

	repo := NewQuestionRepository(pool)
	saved, err := repo.SaveQuestion(ctx, domain.Question{
		Text:     "What is the capital of France?",
		Category: category,
		Choices: []domain.Choice{
			{Title: "paris", Correct: true},
			{Title: "lyon"},
			{Title: "nice"},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, saved.ID)
	require.Len(t, saved.Choices, 3)
	assert.Less(t, saved.Choices[0].ID, saved.Choices[1].ID)
	assert.Less(t, saved.Choices[1].ID, saved.Choices[2].ID)

	questions, err := repo.GetQuestions(ctx, category, 1, 10)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, saved, questions[0])
}

func TestIntegrationSaveQuestionIsAtomic(t *testing.T) {
	pool := integrationPool(t)
	ctx := context.Background()
	category := uniqueCategory("Atomic")

	_, err := NewCategoryRepository(pool).UpsertCategory(ctx, category)
	require.NoError(t, err)

	// the empty choice violates the check constraint after the question row is written
	_, err = NewQuestionRepository(pool).SaveQuestion(ctx, domain.Question{
		Text:     "Which one fails?",
		Category: category,
		Choices: []domain.Choice{
			{Title: "valid", Correct: true},
			{Title: ""},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, repoerr.ErrDatabase)

	assert.Zero(t, countRows(t, pool, "SELECT COUNT(*) FROM questions WHERE category = $1", category))
	assert.Zero(t, countRows(t, pool, `
		SELECT COUNT(*) FROM choices ch
		JOIN questions q ON q.id = ch.question_id
		WHERE q.category = $1
	`, category))
}

func TestIntegrationPagination(t *testing.T) {
	pool := integrationPool(t)
	ctx := context.Background()
	category := uniqueCategory("Paging")

	_, err := NewCategoryRepository(pool).UpsertCategory(ctx, category)
	require.NoError(t, err)

	repo := NewQuestionRepository(pool)
	var ids []int64
	for i := 1; i <= 12; i++ {
		saved, err := repo.SaveQuestion(ctx, domain.Question{
			Text:     fmt.Sprintf("Question %d", i),
			Category: category,
			Choices:  []domain.Choice{{Title: "yes", Correct: true}, {Title: "no"}},
		})
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}

	count, err := repo.CountQuestions(ctx, category)
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)

	questions, err := repo.GetQuestions(ctx, category, 2, 5)
	require.NoError(t, err)
	require.Len(t, questions, 5)
	for i, q := range questions {
		assert.Equal(t, ids[5+i], q.ID)
		assert.Equal(t, fmt.Sprintf("Question %d", 6+i), q.Text)
		assert.Len(t, q.Choices, 2)
	}

	first, err := repo.GetQuestions(ctx, category, 0, 5)
	require.NoError(t, err)
	require.Len(t, first, 5)
	assert.Equal(t, ids[0], first[0].ID)

	page := pagination.New(questions, 2, count, 5)
	assert.Equal(t, 3, page.PageCount)
	assert.False(t, page.Last)
}

func TestIntegrationInactiveCategoryIsHidden(t *testing.T) {
	pool := integrationPool(t)
	ctx := context.Background()
	category := uniqueCategory("Hidden")
	categories := NewCategoryRepository(pool)

	_, err := categories.UpsertCategory(ctx, category)
	require.NoError(t, err)

	repo := NewQuestionRepository(pool)
	_, err = repo.SaveQuestion(ctx, domain.Question{
		Text:     "Visible?",
		Category: category,
		Choices:  []domain.Choice{{Title: "no", Correct: true}},
	})
	require.NoError(t, err)

	_, err = categories.SetCategoryActive(ctx, category, false)
	require.NoError(t, err)

	count, err := repo.CountQuestions(ctx, category)
	require.NoError(t, err)
	assert.Zero(t, count)

	questions, err := repo.GetQuestions(ctx, category, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, questions)
}
