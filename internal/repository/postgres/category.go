package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/zizouhuweidi/quizzical/internal/database"
	"github.com/zizouhuweidi/quizzical/internal/domain"
	"github.com/zizouhuweidi/quizzical/internal/repoerr"
)

// CategoryRepository implements the domain.CategoryRepository interface
type CategoryRepository struct {
	db database.DBTX
}

// NewCategoryRepository creates a new category repository on db
func NewCategoryRepository(db database.DBTX) *CategoryRepository {
	return &CategoryRepository{
		db: db,
	}
}

// UpsertCategory inserts a category if it does not exist yet
func (r *CategoryRepository) UpsertCategory(ctx context.Context, title string) (domain.SaveStatus, error) {
	const op = "upsert category"

	tag, err := r.db.Exec(ctx, `
		INSERT INTO categories (name)
		VALUES ($1)
		ON CONFLICT DO NOTHING
	`, title)
	if err != nil {
		slog.ErrorContext(ctx, "Insert category failed", "category", title, "error", err)
		return 0, repoerr.Statement(op, err)
	}

	slog.DebugContext(ctx, "Insert category succeeded", "category", title, "rows", tag.RowsAffected())

	if tag.RowsAffected() > 0 {
		return domain.SaveCreated, nil
	}
	return domain.SaveExists, nil
}

// UpsertCategoryAndSetActive inserts a category with the given active flag.
// An existing category gets its flag overwritten. A nil flag falls back to
// UpsertCategory and leaves existing rows untouched.
func (r *CategoryRepository) UpsertCategoryAndSetActive(ctx context.Context, title string, active *bool) (domain.SaveStatus, error) {
	if active == nil {
		return r.UpsertCategory(ctx, title)
	}

	const op = "upsert category and set active"

	// xmax is zero only for a freshly inserted row version
	var inserted bool
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, active)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET active = EXCLUDED.active
		RETURNING (xmax = 0) AS inserted
	`, title, *active).Scan(&inserted)
	if err != nil {
		slog.ErrorContext(ctx, "Upsert category failed", "category", title, "active", *active, "error", err)
		return 0, repoerr.Statement(op, err)
	}

	slog.DebugContext(ctx, "Upsert category succeeded", "category", title, "active", *active, "inserted", inserted)

	if inserted {
		return domain.SaveCreated, nil
	}
	return domain.SaveExists, nil
}

// ListCategories retrieves all active categories
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "list categories"

	rows, err := r.db.Query(ctx, `
		SELECT name, active
		FROM categories
		WHERE active = true
		ORDER BY name
	`)
	if err != nil {
		slog.ErrorContext(ctx, "Error loading categories", "error", err)
		return nil, repoerr.Statement(op, err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.Title, &category.Active); err != nil {
			return nil, repoerr.Statement(op, err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, repoerr.Statement(op, err)
	}

	return categories, nil
}

// SetCategoryActive updates the active flag of an existing category and
// returns the value now in effect
func (r *CategoryRepository) SetCategoryActive(ctx context.Context, title string, active bool) (bool, error) {
	const op = "set category active"

	var current bool
	err := r.db.QueryRow(ctx, `
		UPDATE categories
		SET active = $2
		WHERE name = $1
		RETURNING active
	`, title, active).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, repoerr.NotFound(op, "category "+title+" not found")
		}
		slog.ErrorContext(ctx, "Update category active failed", "category", title, "active", active, "error", err)
		return false, repoerr.Statement(op, err)
	}

	return current, nil
}

var _ domain.CategoryRepository = (*CategoryRepository)(nil)
