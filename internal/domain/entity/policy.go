package entity

import (
	"fmt"
	"strings"

	domainErrors "stockroom/internal/domain/errors"
)

// IDFormat selects which item ids the inventory accepts.
type IDFormat string

const (
	// IDFormatAlphanumeric accepts any non-empty run of ASCII letters and digits.
	IDFormatAlphanumeric IDFormat = "alphanumeric"
	// IDFormatThreeDigits accepts exactly three ASCII digits, e.g. "007".
	IDFormatThreeDigits IDFormat = "three_digits"
)

const maxIDLength = 32

func ParseIDFormat(s string) (IDFormat, error) {
	switch f := IDFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case IDFormatAlphanumeric, IDFormatThreeDigits:
		return f, nil
	default:
		return "", fmt.Errorf("unknown id format %q", s)
	}
}

// IDPolicy validates ids at creation time.
type IDPolicy struct {
	Format IDFormat
}

func (p IDPolicy) Validate(id string) error {
	switch p.Format {
	case IDFormatThreeDigits:
		if len(id) != 3 {
			return fmt.Errorf("%w: id must be exactly three digits", domainErrors.ErrInvalidInput)
		}
		for i := 0; i < len(id); i++ {
			if id[i] < '0' || id[i] > '9' {
				return fmt.Errorf("%w: id must be exactly three digits", domainErrors.ErrInvalidInput)
			}
		}
		return nil
	default:
		if id == "" {
			return fmt.Errorf("%w: id is required", domainErrors.ErrInvalidInput)
		}
		if len(id) > maxIDLength {
			return fmt.Errorf("%w: id must be %d characters or less", domainErrors.ErrInvalidInput, maxIDLength)
		}
		for i := 0; i < len(id); i++ {
			if !isASCIIAlnum(id[i]) {
				return fmt.Errorf("%w: id must contain only ASCII letters and digits", domainErrors.ErrInvalidInput)
			}
		}
		return nil
	}
}

func isASCIIAlnum(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// MatchMode decides how a requested id is compared with stored ids.
type MatchMode string

const (
	MatchExact MatchMode = "exact"
	MatchFold  MatchMode = "fold"
)

func ParseMatchMode(s string) (MatchMode, error) {
	switch m := MatchMode(strings.ToLower(strings.TrimSpace(s))); m {
	case MatchExact, MatchFold:
		return m, nil
	default:
		return "", fmt.Errorf("unknown id match mode %q", s)
	}
}

func (m MatchMode) Matches(stored, requested string) bool {
	if m == MatchFold {
		return strings.EqualFold(stored, requested)
	}
	return stored == requested
}
