package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRequest validates a decoded request payload against its struct
// tags. On failure it answers 400 with field-level details and returns false.
func ValidateRequest(w http.ResponseWriter, data interface{}) bool {
	err := validate.Struct(data)
	if err == nil {
		return true
	}

	details := err.Error()
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, fmt.Sprintf("%s failed on %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
		details = strings.Join(parts, "; ")
	}

	WriteErrorResponse(w, http.StatusBadRequest, "Validation error", details)
	return false
}
