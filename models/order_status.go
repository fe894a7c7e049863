package models

import (
	"errors"
	"fmt"
	"strings"
)

// OrderStatus is the delivery state of an order
type OrderStatus string

const (
	StatusDraft      OrderStatus = "draft"
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
)

// ErrInvalidStatus is returned for any value outside the closed status set
var ErrInvalidStatus = errors.New("invalid order status")

// AllStatuses lists every status in display order
func AllStatuses() []OrderStatus {
	return []OrderStatus{StatusDraft, StatusPending, StatusProcessing, StatusCompleted}
}

// ParseStatus validates raw input. "delivered" is an older name for completed.
func ParseStatus(raw string) (OrderStatus, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "delivered" {
		return StatusCompleted, nil
	}

	for _, s := range AllStatuses() {
		if OrderStatus(value) == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// Valid reports whether s is one of the enumerated statuses
func (s OrderStatus) Valid() bool {
	for _, known := range AllStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}
