package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validation errors
var (
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MinAccountNameLength = 1
	MaxDescriptionLength = 10240 // 10KB
)

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if utf8.RuneCountInString(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if utf8.RuneCountInString(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: contains control characters", ErrInvalidAccountName)
		}
	}

	return nil
}

// ValidateDescription validates a transaction description.
// Descriptions are free text and may be empty.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d bytes", ErrDescriptionTooLong, len(description), MaxDescriptionLength)
	}

	return nil
}

// ClampWindow normalizes a requested reconstruction window.
func ClampWindow(window, defaultWindow int) int {
	if window <= 0 {
		window = defaultWindow
	}

	if window <= 0 {
		window = DefaultBalanceWindow
	}

	if window > MaxBalanceWindow {
		window = MaxBalanceWindow
	}

	return window
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset, defaultLimit, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
