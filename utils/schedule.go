package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ErrScheduleMissing is returned when neither a timestamp nor a date/time pair was given
var ErrScheduleMissing = errors.New("scheduled_at or date and time are required")

// NormalizeSchedule turns either an RFC 3339 timestamp or a split date ("2006-01-02")
// and time ("15:04") into a single UTC instant. The timestamp wins when both are set.
func NormalizeSchedule(scheduledAt, date, clock string) (time.Time, error) {
	scheduledAt = strings.TrimSpace(scheduledAt)
	if scheduledAt != "" {
		ts, err := time.Parse(time.RFC3339, scheduledAt)
		if err != nil {
			return time.Time{}, fmt.Errorf("scheduled_at must be RFC 3339: %w", err)
		}
		return ts.UTC(), nil
	}

	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, ErrScheduleMissing
	}

	// accept "15:04:05" from browsers that send seconds
	if len(clock) == len("15:04:05") {
		clock = clock[:len(timeLayout)]
	}
	ts, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD and time HH:MM: %w", err)
	}
	return ts, nil
}
