package entity

import (
	"fmt"
	"strings"
)

type SortField string

const (
	SortByQuantity SortField = "quantity"
	SortByPrice    SortField = "price"
)

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortField accepts the menu number or the field name.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "quantity", "qty":
		return SortByQuantity, nil
	case "2", "price":
		return SortByPrice, nil
	default:
		return "", fmt.Errorf("unknown sort field %q", s)
	}
}

// ParseSortOrder accepts the menu number or asc/desc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "asc", "ascending":
		return Ascending, nil
	case "2", "desc", "descending":
		return Descending, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// Compare orders a and b by field; the result is negated for Descending.
func Compare(a, b *Item, field SortField, order SortOrder) int {
	var c int
	switch field {
	case SortByPrice:
		c = a.Price.Cmp(b.Price)
	default:
		switch {
		case a.Quantity < b.Quantity:
			c = -1
		case a.Quantity > b.Quantity:
			c = 1
		}
	}
	if order == Descending {
		return -c
	}
	return c
}
