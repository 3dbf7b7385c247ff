package entity

import (
	"fmt"
	"strconv"
	"strings"

	domainErrors "stockroom/internal/domain/errors"
)

// Category is assigned when an item is created and never changes afterwards.
type Category int

const (
	CategoryClothing Category = iota + 1
	CategoryElectronics
	CategoryEntertainment
)

var categoryNames = map[Category]string{
	CategoryClothing:      "Clothing",
	CategoryElectronics:   "Electronics",
	CategoryEntertainment: "Entertainment",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// GetValidCategories returns the categories in menu order.
func GetValidCategories() []Category {
	return []Category{CategoryClothing, CategoryElectronics, CategoryEntertainment}
}

// CategoryFromNumber maps the menu number (1-3) to a category.
func CategoryFromNumber(n int) (Category, error) {
	c := Category(n)
	if !c.Valid() {
		return 0, fmt.Errorf("%w: %d", domainErrors.ErrInvalidCategory, n)
	}
	return c, nil
}

// ParseCategory accepts either the menu number or the label, case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return CategoryFromNumber(n)
	}
	for _, c := range GetValidCategories() {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", domainErrors.ErrInvalidCategory, s)
}
