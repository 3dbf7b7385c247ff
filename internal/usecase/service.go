package usecase

import (
	"context"
	"fmt"
	"iter"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockroom/internal/domain/entity"
	domainErrors "stockroom/internal/domain/errors"
)

const DefaultLowStockThreshold = 5

type ItemUsecase interface {
	AddItem(ctx context.Context, input CreateItemInput) (*entity.Item, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) (*UpdateResult, error)
	UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (*UpdateResult, error)
	RemoveItem(ctx context.Context, id string) (*entity.Item, error)
	GetItem(ctx context.Context, id string) (*entity.Item, error)
	FindUpdatable(ctx context.Context, id string) (*entity.Item, error)
	ValidateID(id string) error
	ListItems(ctx context.Context) (iter.Seq[*entity.Item], error)
	ListByCategory(ctx context.Context, category entity.Category) (iter.Seq[*entity.Item], error)
	SortItems(ctx context.Context, field entity.SortField, order entity.SortOrder) (iter.Seq[*entity.Item], error)
	LowStockItems(ctx context.Context) (iter.Seq[*entity.Item], error)
	GetCategorySummary(ctx context.Context) (*CategorySummary, error)
	IsEmpty(ctx context.Context) (bool, error)
	LowStockThreshold() int
}

type CreateItemInput struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Category entity.Category `json:"category"`
}

// UpdateResult carries the item as it was before and after an update.
type UpdateResult struct {
	Before *entity.Item
	After  *entity.Item
}

type CategorySummary struct {
	Categories map[entity.Category]int `json:"categories"`
	Total      int                     `json:"total"`
}

// Policy groups the id rules and the low stock threshold.
type Policy struct {
	IDs               entity.IDPolicy
	UpdateMatch       entity.MatchMode
	LookupMatch       entity.MatchMode
	LowStockThreshold int
}

// DefaultPolicy keeps the historical behaviour: alphanumeric ids,
// case-insensitive update, exact search and removal, threshold 5.
func DefaultPolicy() Policy {
	return Policy{
		IDs:               entity.IDPolicy{Format: entity.IDFormatAlphanumeric},
		UpdateMatch:       entity.MatchFold,
		LookupMatch:       entity.MatchExact,
		LowStockThreshold: DefaultLowStockThreshold,
	}
}

type itemUsecase struct {
	itemRepo ItemRepository
	policy   Policy
	logger   *zap.Logger
}

func NewItemUsecase(itemRepo ItemRepository, policy Policy, logger *zap.Logger) ItemUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.LowStockThreshold <= 0 {
		policy.LowStockThreshold = DefaultLowStockThreshold
	}
	if policy.UpdateMatch == "" {
		policy.UpdateMatch = entity.MatchFold
	}
	if policy.LookupMatch == "" {
		policy.LookupMatch = entity.MatchExact
	}
	return &itemUsecase{
		itemRepo: itemRepo,
		policy:   policy,
		logger:   logger.Named("usecase"),
	}
}

func (u *itemUsecase) LowStockThreshold() int {
	return u.policy.LowStockThreshold
}

func (u *itemUsecase) AddItem(ctx context.Context, input CreateItemInput) (*entity.Item, error) {
	if !input.Category.Valid() {
		u.logger.Info("add rejected", zap.String("id", input.ID), zap.Int("category", int(input.Category)))
		return nil, fmt.Errorf("%w: %d", domainErrors.ErrInvalidCategory, int(input.Category))
	}
	if err := u.ValidateID(input.ID); err != nil {
		u.logger.Info("add rejected", zap.String("id", input.ID), zap.Error(err))
		return nil, err
	}

	item, err := entity.NewItem(input.ID, input.Name, input.Quantity, input.Price, input.Category)
	if err != nil {
		u.logger.Info("add rejected", zap.String("id", input.ID), zap.Error(err))
		return nil, err
	}

	created, err := u.itemRepo.Create(ctx, item)
	if err != nil {
		if domainErrors.IsCapacityError(err) || domainErrors.IsValidationError(err) {
			u.logger.Info("add rejected", zap.String("id", input.ID), zap.Error(err))
			return nil, err
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	u.logger.Debug("item added",
		zap.String("id", created.ID),
		zap.String("category", created.Category.String()),
		zap.Int("quantity", created.Quantity),
		zap.String("price", created.Price.StringFixed(2)),
	)
	return created, nil
}

func (u *itemUsecase) UpdateQuantity(ctx context.Context, id string, quantity int) (*UpdateResult, error) {
	if err := entity.ValidateQuantity(quantity); err != nil {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidInput, err.Error())
	}
	return u.update(ctx, id, &quantity, nil)
}

func (u *itemUsecase) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (*UpdateResult, error) {
	if err := entity.ValidatePrice(price); err != nil {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidInput, err.Error())
	}
	return u.update(ctx, id, nil, &price)
}

func (u *itemUsecase) update(ctx context.Context, id string, quantity *int, price *decimal.Decimal) (*UpdateResult, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", domainErrors.ErrInvalidInput)
	}

	before, after, err := u.itemRepo.Update(ctx, id, u.policy.UpdateMatch, quantity, price)
	if err != nil {
		if domainErrors.IsNotFoundError(err) {
			u.logger.Info("update rejected", zap.String("id", id), zap.Error(err))
			return nil, domainErrors.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	u.logger.Debug("item updated",
		zap.String("id", after.ID),
		zap.Int("quantity", after.Quantity),
		zap.String("price", after.Price.StringFixed(2)),
	)
	return &UpdateResult{Before: before, After: after}, nil
}

func (u *itemUsecase) RemoveItem(ctx context.Context, id string) (*entity.Item, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", domainErrors.ErrInvalidInput)
	}

	removed, err := u.itemRepo.Delete(ctx, id, u.policy.LookupMatch)
	if err != nil {
		if domainErrors.IsNotFoundError(err) {
			u.logger.Info("remove rejected", zap.String("id", id))
			return nil, domainErrors.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to delete item: %w", err)
	}

	u.logger.Debug("item removed", zap.String("id", removed.ID))
	return removed, nil
}

func (u *itemUsecase) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", domainErrors.ErrInvalidInput)
	}

	item, err := u.itemRepo.FindByID(ctx, id, u.policy.LookupMatch)
	if err != nil {
		if domainErrors.IsNotFoundError(err) {
			return nil, domainErrors.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to retrieve item: %w", err)
	}
	return item, nil
}

// FindUpdatable resolves id the way UpdateQuantity and UpdatePrice will,
// so callers can confirm the item exists before asking for a new value.
func (u *itemUsecase) FindUpdatable(ctx context.Context, id string) (*entity.Item, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", domainErrors.ErrInvalidInput)
	}

	item, err := u.itemRepo.FindByID(ctx, id, u.policy.UpdateMatch)
	if err != nil {
		if domainErrors.IsNotFoundError(err) {
			return nil, domainErrors.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to retrieve item: %w", err)
	}
	return item, nil
}

func (u *itemUsecase) ValidateID(id string) error {
	return u.policy.IDs.Validate(id)
}

func (u *itemUsecase) ListItems(ctx context.Context) (iter.Seq[*entity.Item], error) {
	items, err := u.itemRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve items: %w", err)
	}
	return items, nil
}

func (u *itemUsecase) ListByCategory(ctx context.Context, category entity.Category) (iter.Seq[*entity.Item], error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %d", domainErrors.ErrInvalidCategory, int(category))
	}

	items, err := u.itemRepo.FindByCategory(ctx, category)
	if err != nil {
		if domainErrors.IsCategoryError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to retrieve items: %w", err)
	}
	return items, nil
}

// SortItems reorders the inventory in place and returns the new order.
func (u *itemUsecase) SortItems(ctx context.Context, field entity.SortField, order entity.SortOrder) (iter.Seq[*entity.Item], error) {
	if field != entity.SortByQuantity && field != entity.SortByPrice {
		return nil, fmt.Errorf("%w: unknown sort field %q", domainErrors.ErrInvalidInput, field)
	}
	if order != entity.Ascending && order != entity.Descending {
		return nil, fmt.Errorf("%w: unknown sort order %q", domainErrors.ErrInvalidInput, order)
	}

	if err := u.itemRepo.Sort(ctx, field, order); err != nil {
		return nil, fmt.Errorf("failed to sort items: %w", err)
	}
	u.logger.Debug("items sorted", zap.String("field", string(field)), zap.String("order", string(order)))

	return u.ListItems(ctx)
}

func (u *itemUsecase) LowStockItems(ctx context.Context) (iter.Seq[*entity.Item], error) {
	items, err := u.itemRepo.FindLowStock(ctx, u.policy.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve low stock items: %w", err)
	}
	return items, nil
}

func (u *itemUsecase) IsEmpty(ctx context.Context) (bool, error) {
	n, err := u.itemRepo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count items: %w", err)
	}
	return n == 0, nil
}

func (u *itemUsecase) GetCategorySummary(ctx context.Context) (*CategorySummary, error) {
	categoryCounts, err := u.itemRepo.GetSummaryByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get category summary: %w", err)
	}

	total := 0
	summary := make(map[entity.Category]int)
	for _, category := range entity.GetValidCategories() {
		summary[category] = categoryCounts[category]
		total += categoryCounts[category]
	}

	return &CategorySummary{
		Categories: summary,
		Total:      total,
	}, nil
}
