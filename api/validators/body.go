package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/go-playground/validator/v10"
)

// ValidationMessage is the public message of every body validation failure.
const ValidationMessage = "Validation error"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// DecodeJSON decodes the request body into dest. Unknown fields are ignored.
func DecodeJSON(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return decodeError(err)
	}
	return nil
}

// DecodeJSONBody decodes the request body into dest and runs struct validation.
func DecodeJSONBody(r *http.Request, dest any) error {
	if err := DecodeJSON(r, dest); err != nil {
		return err
	}
	return Validate(dest)
}

// Validate runs the `validate` tags of dest.
func Validate(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func decodeError(err error) *pkgerrors.Error {
	issue := types.Issue{Path: []string{}, Message: "Malformed JSON body", Code: "invalid_json"}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		path := []string{}
		if typeErr.Field != "" {
			path = strings.Split(typeErr.Field, ".")
		}
		issue = types.Issue{
			Path:    path,
			Message: fmt.Sprintf("Expected %s, received %s", typeErr.Type.Kind(), typeErr.Value),
			Code:    "invalid_type",
		}
	}
	if errors.Is(err, io.EOF) {
		issue.Message = "Request body is empty"
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, ValidationMessage).WithDetails([]types.Issue{issue})
}

func formatValidationErrors(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		issues := make([]types.Issue, 0, len(errs))
		for _, fieldErr := range errs {
			issues = append(issues, types.Issue{
				Path:    issuePath(fieldErr),
				Message: validationMessage(fieldErr),
				Code:    issueCode(fieldErr),
			})
		}
		return pkgerrors.New(pkgerrors.CodeValidation, ValidationMessage).WithDetails(issues)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, ValidationMessage)
}

// issuePath drops the root struct name from the namespace.
func issuePath(fe validator.FieldError) []string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return parts
}

func issueCode(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "invalid_type"
	case "min", "gte", "gt":
		return "too_small"
	case "max", "lte", "lt":
		return "too_big"
	}
	return "custom"
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "min", "gte":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "url":
		return "Must be a valid URL"
	}
	return "Invalid value"
}
