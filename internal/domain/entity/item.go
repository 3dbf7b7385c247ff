package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "stockroom/internal/domain/errors"
)

// Item is a single stock line. Quantity and Price are the only mutable fields.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Category Category        `json:"category"`
}

// NewItem validates the fields and builds an Item.
// The id format is checked by IDPolicy; here it only has to be non-empty.
func NewItem(id, name string, quantity int, price decimal.Decimal, category Category) (*Item, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %d", domainErrors.ErrInvalidCategory, int(category))
	}

	var errs []string
	if strings.TrimSpace(id) == "" {
		errs = append(errs, "id is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		errs = append(errs, "name is required")
	}
	if err := ValidateQuantity(quantity); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ValidatePrice(price); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidInput, strings.Join(errs, ", "))
	}

	return &Item{
		ID:       id,
		Name:     name,
		Quantity: quantity,
		Price:    price,
		Category: category,
	}, nil
}

func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be a positive integer")
	}
	return nil
}

func ValidatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("price must be a positive number")
	}
	return nil
}

// Clone returns a copy that shares no state with the receiver.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// IsLowStock reports whether the quantity is at or below threshold.
func (i *Item) IsLowStock(threshold int) bool {
	return i.Quantity <= threshold
}
