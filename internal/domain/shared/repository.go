package shared

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the base contract shared by all aggregate repositories.
type Repository[T any] interface {
	Save(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindAll(ctx context.Context, filter Filter) ([]T, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter Filter) (int64, error)
}

// Filter carries list query options. Filters keys are interpreted by each
// repository implementation.
type Filter struct {
	Limit   int
	Offset  int
	OrderBy string
	Order   string
	Filters map[string]interface{}
}

func DefaultFilter() Filter {
	return Filter{
		Limit:   20,
		Offset:  0,
		OrderBy: "created_at",
		Order:   "desc",
		Filters: make(map[string]interface{}),
	}
}

func (f *Filter) WithFilter(key string, value interface{}) *Filter {
	if f.Filters == nil {
		f.Filters = make(map[string]interface{})
	}
	f.Filters[key] = value
	return f
}

// Paginated wraps a page of results with the total count.
type Paginated[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

func NewPaginated[T any](items []T, total int64, limit, offset int) *Paginated[T] {
	return &Paginated[T]{Items: items, Total: total, Limit: limit, Offset: offset}
}
