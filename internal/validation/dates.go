package validation

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only accepted date format for form input.
const DateLayout = "2006-01-02"

const (
	MsgBirthDateRequired = "Date of birth is required"
	MsgDateMalformed     = "Invalid date format. Use YYYY-MM-DD"
	MsgBirthDateInFuture = "Date of birth cannot be in the future"
	MsgOrderDateInFuture = "Order date cannot be in the future"
)

// Policy holds the configurable business rules whose history was inconsistent.
type Policy struct {
	EarliestBirthDate         time.Time
	AdultAge                  int
	EnforceAdultAge           bool
	RequireServiceDescription bool
}

func DefaultPolicy() Policy {
	return Policy{
		EarliestBirthDate:         time.Date(1905, time.January, 1, 0, 0, 0, 0, time.UTC),
		AdultAge:                  18,
		EnforceAdultAge:           true,
		RequireServiceDescription: true,
	}
}

// ParseDate parses a YYYY-MM-DD form value into a UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

// AgeOn returns the age in whole years of someone born on birth, as of today.
func AgeOn(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age
}

// BirthDate checks a date of birth. The message is empty when the date is acceptable.
func (v *Validator) BirthDate(value string) (bool, string) {
	if IsEmptyField(value) {
		return false, MsgBirthDateRequired
	}

	birth, err := ParseDate(value)
	if err != nil {
		return false, MsgDateMalformed
	}

	today := v.Today()
	if birth.After(today) {
		return false, MsgBirthDateInFuture
	}

	if birth.Before(v.policy.EarliestBirthDate) {
		return false, fmt.Sprintf("Date of birth cannot be earlier than %s", v.policy.EarliestBirthDate.Format(DateLayout))
	}

	if v.policy.EnforceAdultAge && AgeOn(birth, today) < v.policy.AdultAge {
		return false, fmt.Sprintf("The customer must be at least %d years old", v.policy.AdultAge)
	}

	return true, ""
}

// OrderDate checks an order date. An empty value is accepted; the caller substitutes today.
func (v *Validator) OrderDate(value string) (bool, string) {
	if strings.TrimSpace(value) == "" {
		return true, ""
	}

	date, err := ParseDate(value)
	if err != nil {
		return false, MsgDateMalformed
	}

	if date.After(v.Today()) {
		return false, MsgOrderDateInFuture
	}

	return true, ""
}

// Today returns the current date as a UTC midnight, comparable with ParseDate results.
func (v *Validator) Today() time.Time {
	now := v.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
