package validator

import (
	"strings"

	pkgerrors "go-warehouse-orders/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string `json:"field"`
	Tag         string `json:"tag"`
	Value       string `json:"value,omitempty"`
}

var validate = validator.New()

func init() {
	// Register custom validation for UUID
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
	// Rejects strings that are empty once surrounding whitespace is removed.
	validate.RegisterValidation("trimmed_required", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
		}
		for _, err := range validationErrors {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// Validate runs ValidateStruct and folds any failures into a VALIDATION_ERROR.
func Validate(data interface{}) error {
	failures := ValidateStruct(data)
	if len(failures) == 0 {
		return nil
	}
	fields := make([]string, 0, len(failures))
	for _, f := range failures {
		fields = append(fields, f.FailedField)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid fields: "+strings.Join(fields, ", ")).
		WithDetails(failures)
}
