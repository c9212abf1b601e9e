package validators

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/storekeeper/connector/pkg/errors"
)

var validate = validator.New()

// Struct validates a request payload and converts field failures into a
// validation error with per-field details.
func Struct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request payload")
	}

	details := map[string]string{}
	for _, fieldErr := range fieldErrs {
		details[strings.ToLower(fieldErr.Field())] = fmt.Sprintf("failed %q validation", fieldErr.Tag())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid request payload").WithDetails(details)
}
