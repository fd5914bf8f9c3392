package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ruralpay/ledgersim/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ValidationHelper provides shared validation functionality
type ValidationHelper struct {
	validator *validator.Validate
}

// Default is shared by the entity constructors; validator.Validate is safe for concurrent use.
var Default = NewValidationHelper()

// NewValidationHelper creates a new validation helper
func NewValidationHelper() *ValidationHelper {
	v := validator.New()

	// Report fields by their JSON names so errors match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// decimal.Decimal is reduced to its sign so gt=0 and gte=0 are exact on money
	// fields. Bounds other than zero are not supported on decimals.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.Sign()
		}
		return nil
	}, decimal.Decimal{})

	return &ValidationHelper{validator: v}
}

// ValidateStruct validates a struct and returns validation errors
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

// Check validates s and converts the first failure into an InvalidArgument error.
func (vh *ValidationHelper) Check(s any) error {
	err := vh.validator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &apperrors.InvalidArgumentError{Field: fe.Field(), Rule: fe.Tag()}
	}
	return &apperrors.InvalidArgumentError{Field: "value", Reason: err.Error()}
}
