package api

import (
	"errors"
	"strings"
	"time"
)

// parseDayParam reads a YYYY-MM-DD calendar day as a date-only value.
func parseDayParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("date is required")
	}
	return time.ParseInLocation("2006-01-02", raw, time.UTC)
}

// parseOptionalDay returns nil for an empty query value.
func parseOptionalDay(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	day, err := parseDayParam(raw)
	if err != nil {
		return nil, err
	}
	return &day, nil
}
