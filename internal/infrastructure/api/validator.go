package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to echo's Validator interface.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a request validator.
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate checks struct fields against their validate tags.
// returns a 400 with a readable field list on failure.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fieldName(fe), fe.Tag()))
			}
			return echo.NewHTTPError(http.StatusBadRequest,
				"validation failed: "+strings.Join(fields, ", "))
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// fieldName lowercases the struct field name for error messages,
// matching the json naming used in request bodies.
func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}
