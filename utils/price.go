package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidPrice is returned for empty, non-numeric or negative prices
var ErrInvalidPrice = errors.New("price must be a non-negative decimal number")

// NormalizePrice validates a price given as text and returns its canonical form ("25.50" -> "25.5").
func NormalizePrice(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidPrice
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPrice, err)
	}
	if d.IsNegative() {
		return "", ErrInvalidPrice
	}
	return d.String(), nil
}

// SamePrice compares two price texts numerically, so "25" and "25.00" are equal
func SamePrice(a, b string) bool {
	da, errA := decimal.NewFromString(strings.TrimSpace(a))
	db, errB := decimal.NewFromString(strings.TrimSpace(b))
	if errA != nil || errB != nil {
		return strings.TrimSpace(a) == strings.TrimSpace(b)
	}
	return da.Equal(db)
}
