package domain

import "context"

// SaveStatus tells whether an upsert created a row or found an existing one
type SaveStatus int

const (
	SaveCreated SaveStatus = iota + 1
	SaveExists
)

// String returns the status as used in responses
func (s SaveStatus) String() string {
	switch s {
	case SaveCreated:
		return "created"
	case SaveExists:
		return "exists"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status as its name
func (s SaveStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Category is a named grouping of questions
type Category struct {
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

// CategoryRepository defines the interface for category-related operations
type CategoryRepository interface {
	// UpsertCategory inserts a category if absent and does nothing otherwise
	UpsertCategory(ctx context.Context, title string) (SaveStatus, error)

	// UpsertCategoryAndSetActive inserts a category with the given active flag,
	// overwriting the flag of an existing row. A nil flag behaves like UpsertCategory.
	UpsertCategoryAndSetActive(ctx context.Context, title string, active *bool) (SaveStatus, error)

	// ListCategories retrieves all active categories
	ListCategories(ctx context.Context) ([]Category, error)

	// SetCategoryActive updates the active flag and returns the value now in effect
	SetCategoryActive(ctx context.Context, title string, active bool) (bool, error)
}
