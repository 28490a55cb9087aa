// Package validation collects input-contract violations without stopping at
// the first one, so callers can report every problem at once.
package validation

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// FieldError is a single violation tied to an input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is an ordered list of violations.
type Errors []FieldError

// Add records a violation for field.
func (e *Errors) Add(field, format string, args ...any) {
	*e = append(*e, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Empty reports whether no violations were recorded.
func (e Errors) Empty() bool { return len(e) == 0 }

// Has reports whether field has at least one violation.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Messages returns the human-readable messages in the order they were added.
func (e Errors) Messages() []string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return msgs
}

// Error implements error so a non-empty list can travel as one.
func (e Errors) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// RequiredID flags a missing or non-positive identifier.
func RequiredID(e *Errors, field string, id int64) {
	if id <= 0 {
		e.Add(field, "%s is required", field)
	}
}

// OptionalID flags an identifier that was given but is not positive.
func OptionalID(e *Errors, field string, id *int64) {
	if id != nil && *id <= 0 {
		e.Add(field, "%s must be a valid identifier", field)
	}
}

// Required flags a blank string.
func Required(e *Errors, field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, "%s is required", field)
	}
}

// Positive flags a missing amount or one that is not greater than zero.
func Positive(e *Errors, field string, val *float64) {
	if val == nil {
		e.Add(field, "%s is required", field)
		return
	}
	if *val <= 0 {
		e.Add(field, "%s must be greater than 0", field)
	}
}

// NonNegative flags an optional amount below zero.
func NonNegative(e *Errors, field string, val *float64) {
	if val != nil && *val < 0 {
		e.Add(field, "%s must be 0 or greater", field)
	}
}

// Date checks that value is present and a YYYY-MM-DD date. The parsed date is
// returned with ok=true only when it is usable for further checks.
func Date(e *Errors, field, value string) (time.Time, bool) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, "%s is required", field)
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		e.Add(field, "%s must be a date in YYYY-MM-DD format", field)
		return time.Time{}, false
	}
	return d, true
}

// After flags end when it is not strictly after start.
func After(e *Errors, field string, end time.Time, otherField string, start time.Time) {
	if !end.After(start) {
		e.Add(field, "%s must be after %s", field, otherField)
	}
}

// NotBefore flags a date earlier than floor (compared by calendar day).
func NotBefore(e *Errors, field string, d, floor time.Time) {
	if d.Before(truncateDay(floor)) {
		e.Add(field, "%s cannot be in the past", field)
	}
}

// OneOf flags a value outside the allowed set.
func OneOf(e *Errors, field, value string, allowed []string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	e.Add(field, "%s must be one of: %s", field, strings.Join(allowed, ", "))
}

// TimeWithinHours checks that value is present, is HH:MM or HH:MM:SS, and its
// hour falls within [fromHour, toHour] inclusive.
func TimeWithinHours(e *Errors, field, value string, fromHour, toHour int) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, "%s is required", field)
		return
	}
	t, err := ParseClock(value)
	if err != nil {
		e.Add(field, "%s must be a time in HH:MM format", field)
		return
	}
	if h := t.Hour(); h < fromHour || h > toHour {
		e.Add(field, "%s must be within business hours (%02d:00-%02d:00)", field, fromHour, toHour)
	}
}

// IntRange flags an optional integer outside [min, max].
func IntRange(e *Errors, field string, val *int, min, max int) {
	if val != nil && (*val < min || *val > max) {
		e.Add(field, "%s must be between %d and %d", field, min, max)
	}
}

// ParseClock parses HH:MM or HH:MM:SS.
func ParseClock(value string) (time.Time, error) {
	if t, err := time.Parse("15:04", value); err == nil {
		return t, nil
	}
	return time.Parse("15:04:05", value)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
