package serverutils

import (
	"strings"

	"studytrack-be/internal/pkg/apperrors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks DTO struct tags and converts failures into a
// ValidationError surfaced before any external call.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var fields []string
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields = append(fields, strings.ToLower(fieldErr.Field()))
		}
		return apperrors.Validation("invalid request fields: %s", strings.Join(fields, ", "))
	}
	return nil
}
