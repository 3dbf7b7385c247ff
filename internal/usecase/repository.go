package usecase

import (
	"context"
	"iter"

	"github.com/shopspring/decimal"

	"stockroom/internal/domain/entity"
)

// ItemRepository defines the interface for item data access
type ItemRepository interface {
	// FindAll yields every item in current repository order
	FindAll(ctx context.Context) (iter.Seq[*entity.Item], error)

	// FindByID returns the first item whose id matches under mode
	FindByID(ctx context.Context, id string, mode entity.MatchMode) (*entity.Item, error)

	// FindByCategory yields the items of one category, keeping repository order
	FindByCategory(ctx context.Context, category entity.Category) (iter.Seq[*entity.Item], error)

	// FindLowStock yields the items whose quantity is at or below threshold
	FindLowStock(ctx context.Context, threshold int) (iter.Seq[*entity.Item], error)

	// Create appends a new item
	Create(ctx context.Context, item *entity.Item) (*entity.Item, error)

	// Update sets quantity and/or price on the matching item in place.
	// A nil pointer leaves that field untouched. Both the previous and the
	// updated item are returned so callers can report the change.
	Update(ctx context.Context, id string, mode entity.MatchMode, quantity *int, price *decimal.Decimal) (before, after *entity.Item, err error)

	// Delete removes the matching item and returns it
	Delete(ctx context.Context, id string, mode entity.MatchMode) (*entity.Item, error)

	// Sort reorders all items in place
	Sort(ctx context.Context, field entity.SortField, order entity.SortOrder) error

	// Count returns the number of stored items
	Count(ctx context.Context) (int, error)

	// GetSummaryByCategory returns item counts grouped by category
	GetSummaryByCategory(ctx context.Context) (map[entity.Category]int, error)
}
