// Package validation holds the date rules shared by license and business records.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ablecloud-team/ablecloud-crm/pkg/response"
)

// DateLayout is the wire format of issued/expired dates
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date in UTC. Timestamps with a time part are truncated to the date.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, response.NewValidationError(fmt.Sprintf("%s is required", field), "")
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return Truncate(t), nil
	}
	return time.Time{}, response.NewValidationError(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field), value)
}

// Truncate drops the time of day, keeping the calendar date in UTC
func Truncate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CheckRange rejects an issued date after the expired date. Equal dates are allowed.
func CheckRange(issued, expired time.Time) error {
	if Truncate(issued).After(Truncate(expired)) {
		return response.NewValidationError("issued date must not be after expired date",
			fmt.Sprintf("issued=%s expired=%s", issued.Format(DateLayout), expired.Format(DateLayout)))
	}
	return nil
}

// FormatDate renders a date in DateLayout, empty for the zero time
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}
