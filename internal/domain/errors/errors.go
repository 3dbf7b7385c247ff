package errors

import "errors"

var (
	// ErrItemNotFound is returned when no item matches the requested id
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidInput covers malformed ids and non-positive quantities or prices
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCategory is returned for categories outside the closed set
	ErrInvalidCategory = errors.New("category does not exist")

	// ErrInventoryFull is returned when the repository reached its capacity
	ErrInventoryFull = errors.New("inventory is full")

	// ErrDuplicateID is only raised when duplicate rejection is enabled
	ErrDuplicateID = errors.New("item id already exists")
)

// IsNotFoundError reports whether err signals a missing item.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}

// IsValidationError reports whether err was caused by bad user input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrDuplicateID)
}

func IsCategoryError(err error) bool {
	return errors.Is(err, ErrInvalidCategory)
}

func IsCapacityError(err error) bool {
	return errors.Is(err, ErrInventoryFull)
}
