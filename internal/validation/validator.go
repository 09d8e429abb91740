// Package validation holds the pure field checks and the date policy applied to form input before any
// mutation reaches storage.
package validation

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sangkips/records-service/internal/apperrors"
)

// Check is one validation step. It reports whether the input passed and, if not, the message to show.
type Check func() (bool, string)

// Validator runs field rules through go-playground/validator and applies the date policy.
type Validator struct {
	validate *validator.Validate
	policy   Policy
	now      func() time.Time
}

// New builds a Validator. A nil now defaults to time.Now.
func New(policy Policy, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}

	v := validator.New()
	// Registration only fails on an empty tag or a nil func.
	_ = v.RegisterValidation("filled", func(fl validator.FieldLevel) bool {
		return !IsEmptyField(fl.Field().String())
	})
	_ = v.RegisterValidation("ruphone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})

	return &Validator{validate: v, policy: policy, now: now}
}

func (v *Validator) Policy() Policy {
	return v.policy
}

// Field returns a Check applying a validator tag expression such as "filled" or "omitempty,email".
func (v *Validator) Field(value, tag, message string) Check {
	return func() (bool, string) {
		if err := v.validate.Var(value, tag); err != nil {
			return false, message
		}
		return true, ""
	}
}

func (v *Validator) BirthDateCheck(value string) Check {
	return func() (bool, string) { return v.BirthDate(value) }
}

func (v *Validator) OrderDateCheck(value string) Check {
	return func() (bool, string) { return v.OrderDate(value) }
}

// When guards a check behind a condition known up front.
func When(cond bool, check Check) Check {
	if !cond {
		return func() (bool, string) { return true, "" }
	}
	return check
}

// Run executes checks in order and stops at the first failure, so the order decides which message
// the user sees.
func Run(checks ...Check) error {
	for _, check := range checks {
		if ok, message := check(); !ok {
			return apperrors.Validation(message)
		}
	}
	return nil
}
