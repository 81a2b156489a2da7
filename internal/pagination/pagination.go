// Package pagination computes page metadata for offset-paginated listings.
package pagination

import (
	"math"
	"strconv"
)

const (
	// DefaultPage is used when the page parameter is absent or invalid.
	DefaultPage = 1
	// DefaultSize is used when the size parameter is absent or invalid.
	DefaultSize = 10
	// MaxSize caps the size parameter.
	MaxSize = 100
)

// Page is one page of results plus its metadata.
type Page[T any] struct {
	Data      []T  `json:"data"`
	Page      int  `json:"page"`
	Size      int  `json:"size"`
	PageCount int  `json:"page_count"`
	Last      bool `json:"last"`
}

// New builds the page metadata for data, the items returned for page.
// A non-positive limit is treated as 1.
func New[T any](data []T, page int, totalRecords int64, limit int) Page[T] {
	if limit <= 0 {
		limit = 1
	}
	if totalRecords < 0 {
		totalRecords = 0
	}
	if data == nil {
		data = []T{}
	}

	pageCount := int(math.Ceil(float64(totalRecords) / float64(limit)))

	return Page[T]{
		Data:      data,
		Page:      page,
		Size:      len(data),
		PageCount: pageCount,
		Last:      page >= pageCount,
	}
}

// Offset returns the number of rows to skip for a 1-based page.
// Page 0 is treated as page 1. An offset past math.MaxInt saturates, which
// reads as an empty page.
func Offset(page, size int) int {
	if page <= 1 || size <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (page - 1) * size
}

// ParseParams parses raw page and size query values, falling back to
// DefaultPage and DefaultSize for absent, non-numeric or negative values.
// Size is capped at MaxSize.
func ParseParams(rawPage, rawSize string) (page, size int) {
	page = parseNonNegative(rawPage, DefaultPage)
	size = min(parseNonNegative(rawSize, DefaultSize), MaxSize)
	return page, size
}

func parseNonNegative(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
