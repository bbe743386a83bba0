package services

import (
	"fmt"

	"github.com/s20467/Forum-Backend/internal/models"

	"gorm.io/gorm"
)

// Page is a single page of query results.
type Page[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

var questionSortFields = map[string]bool{
	"id":         true,
	"title":      true,
	"created_at": true,
	"closed_at":  true,
}

var answerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
}

// paginate runs a count plus an offset/limit query. The scope callback must
// return a fresh query each time so the count finisher does not leak into
// the page query. An unknown sort field fails with ErrInvalidPagination,
// mirroring the 400 the API promises for bad pagination arguments.
func paginate[T any](scope func() *gorm.DB, page, limit int, sortBy string, allowed map[string]bool) (*Page[T], error) {
	if page < 0 || limit < 1 {
		return nil, fmt.Errorf("%w: page must be >= 0 and limit >= 1", models.ErrInvalidPagination)
	}
	if !allowed[sortBy] {
		return nil, fmt.Errorf("%w: unknown sort field %q", models.ErrInvalidPagination, sortBy)
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, err
	}

	var items []T
	err := scope().
		Order(sortBy).
		Offset(page * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &Page[T]{Items: items, Page: page, Limit: limit, Total: total}, nil
}
