package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"budget-buddy/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator()
	})
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("decimal_amount", validateDecimalAmount)
	_ = v.RegisterValidation("sort_order", validateSortOrder)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Validate implements the echo.Validator interface
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// validateDecimalAmount validates that a string is a signed decimal with at most 2 decimal places
func validateDecimalAmount(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if raw == "" {
		return false
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return false
	}

	return amount.Equal(amount.Round(2))
}

// validateSortOrder validates that an optional sort order is one of the known orders
func validateSortOrder(fl validator.FieldLevel) bool {
	order := fl.Field().String()
	return order == "" || models.IsValidSortOrder(order)
}

// FieldErrors maps each failing field to a readable message.
// Returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var validationErrs validator.ValidationErrors
	if !stderrors.As(err, &validationErrs) {
		return nil
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields[fieldErr.Field()] = FormatFieldError(fieldErr)
	}
	return fields
}

// HasTag reports whether any field failed the given rule
func HasTag(err error, tag string) bool {
	var validationErrs validator.ValidationErrors
	if !stderrors.As(err, &validationErrs) {
		return false
	}
	for _, fieldErr := range validationErrs {
		if fieldErr.Tag() == tag {
			return true
		}
	}
	return false
}

// Summary joins field messages in a stable order
func Summary(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fields[name])
	}
	return strings.Join(parts, "; ")
}

// FormatFieldError renders a single field error
func FormatFieldError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldErr.Field())
	case "decimal_amount":
		return fmt.Sprintf("%s must be a number with at most 2 decimal places", fieldErr.Field())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fieldErr.Field())
	case "sort_order":
		return fmt.Sprintf("%s must be one of date_desc, date_asc, amount_desc, amount_asc", fieldErr.Field())
	default:
		return fmt.Sprintf("%s is invalid", fieldErr.Field())
	}
}
