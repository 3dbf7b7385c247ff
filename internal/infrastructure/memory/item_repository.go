// Package memory keeps the inventory in process memory. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/shopspring/decimal"

	"stockroom/internal/domain/entity"
	domainErrors "stockroom/internal/domain/errors"
)

// DefaultCapacity mirrors the historical fixed-size inventory.
const DefaultCapacity = 100

type Options struct {
	// Capacity bounds the number of items. Zero means unbounded.
	Capacity int
	// RejectDuplicates refuses Create when an id already matches under DuplicateMatch.
	RejectDuplicates bool
	DuplicateMatch   entity.MatchMode
}

// ItemRepository is an ordered, growable collection of items.
// It is not safe for concurrent use.
type ItemRepository struct {
	items []*entity.Item
	opts  Options
}

func NewItemRepository(opts Options) *ItemRepository {
	if opts.Capacity < 0 {
		opts.Capacity = 0
	}
	if opts.DuplicateMatch == "" {
		opts.DuplicateMatch = entity.MatchExact
	}
	initial := opts.Capacity
	if initial == 0 || initial > DefaultCapacity {
		initial = DefaultCapacity
	}
	return &ItemRepository{
		items: make([]*entity.Item, 0, initial),
		opts:  opts,
	}
}

func (r *ItemRepository) Capacity() int {
	return r.opts.Capacity
}

func (r *ItemRepository) Len() int {
	return len(r.items)
}

func (r *ItemRepository) FindAll(ctx context.Context) (iter.Seq[*entity.Item], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.filter(func(*entity.Item) bool { return true }), nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id string, mode entity.MatchMode) (*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i := r.indexOf(id, mode)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrItemNotFound, id)
	}
	return r.items[i].Clone(), nil
}

func (r *ItemRepository) FindByCategory(ctx context.Context, category entity.Category) (iter.Seq[*entity.Item], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %d", domainErrors.ErrInvalidCategory, int(category))
	}
	return r.filter(func(it *entity.Item) bool { return it.Category == category }), nil
}

func (r *ItemRepository) FindLowStock(ctx context.Context, threshold int) (iter.Seq[*entity.Item], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.filter(func(it *entity.Item) bool { return it.IsLowStock(threshold) }), nil
}

func (r *ItemRepository) Create(ctx context.Context, item *entity.Item) (*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: nil item", domainErrors.ErrInvalidInput)
	}
	if !item.Category.Valid() {
		return nil, fmt.Errorf("%w: %d", domainErrors.ErrInvalidCategory, int(item.Category))
	}
	if r.opts.Capacity > 0 && len(r.items) >= r.opts.Capacity {
		return nil, fmt.Errorf("%w: capacity %d reached", domainErrors.ErrInventoryFull, r.opts.Capacity)
	}
	if r.opts.RejectDuplicates && r.indexOf(item.ID, r.opts.DuplicateMatch) >= 0 {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrDuplicateID, item.ID)
	}

	stored := item.Clone()
	r.items = append(r.items, stored)
	return stored.Clone(), nil
}

func (r *ItemRepository) Update(ctx context.Context, id string, mode entity.MatchMode, quantity *int, price *decimal.Decimal) (*entity.Item, *entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	i := r.indexOf(id, mode)
	if i < 0 {
		return nil, nil, fmt.Errorf("%w: %s", domainErrors.ErrItemNotFound, id)
	}

	before := r.items[i].Clone()
	if quantity != nil {
		r.items[i].Quantity = *quantity
	}
	if price != nil {
		r.items[i].Price = *price
	}
	return before, r.items[i].Clone(), nil
}

// Delete removes the first match and shifts later items left, so listing
// order is otherwise preserved.
func (r *ItemRepository) Delete(ctx context.Context, id string, mode entity.MatchMode) (*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i := r.indexOf(id, mode)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrItemNotFound, id)
	}
	removed := r.items[i]
	r.items = slices.Delete(r.items, i, i+1)
	return removed, nil
}

// Sort is stable: items that compare equal keep their relative order.
func (r *ItemRepository) Sort(ctx context.Context, field entity.SortField, order entity.SortOrder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	slices.SortStableFunc(r.items, func(a, b *entity.Item) int {
		return entity.Compare(a, b, field, order)
	})
	return nil
}

func (r *ItemRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(r.items), nil
}

func (r *ItemRepository) GetSummaryByCategory(ctx context.Context) (map[entity.Category]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	counts := make(map[entity.Category]int)
	for _, it := range r.items {
		counts[it.Category]++
	}
	return counts, nil
}

func (r *ItemRepository) indexOf(id string, mode entity.MatchMode) int {
	return slices.IndexFunc(r.items, func(it *entity.Item) bool {
		return mode.Matches(it.ID, id)
	})
}

// filter yields clones lazily; evaluation happens when the caller ranges.
func (r *ItemRepository) filter(keep func(*entity.Item) bool) iter.Seq[*entity.Item] {
	return func(yield func(*entity.Item) bool) {
		for _, it := range r.items {
			if !keep(it) {
				continue
			}
			if !yield(it.Clone()) {
				return
			}
		}
	}
}
