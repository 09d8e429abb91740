package validation

import (
	"regexp"
	"strings"
)

// EmptyOption is what an unselected dropdown submits.
const EmptyOption = "---"

var (
	phoneNoise   = regexp.MustCompile(`[^\d+]`)
	phonePattern = regexp.MustCompile(`^(\+7|7|8)?[489][0-9]{9}$`)
)

// IsEmptyField reports whether a submitted form value should be treated as missing.
func IsEmptyField(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || trimmed == EmptyOption
}

// IsValidPhone reports whether value looks like a Russian mobile or landline number, with an optional
// +7, 7 or 8 prefix. Separators such as spaces, dashes and brackets are ignored. The value itself is
// not normalized.
func IsValidPhone(value string) bool {
	cleaned := phoneNoise.ReplaceAllString(value, "")
	return phonePattern.MatchString(cleaned)
}
