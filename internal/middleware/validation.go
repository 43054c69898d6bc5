package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.uber.org/zap"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterValidation("notblank", validators.NotBlank)

	// Report fields by their JSON names so messages match the request body.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// RegisterCustomTypeFunc teaches the validator how to read a wrapper type,
// e.g. a nullable field that records whether it was present in the body.
func RegisterCustomTypeFunc(fn validator.CustomTypeFunc, types ...interface{}) {
	validate.RegisterCustomTypeFunc(fn, types...)
}

// ValidateRequest validates a struct against its validation tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

type bodyContextKey struct{}

// ValidateBody decodes the JSON body into T, validates it and stores it in the
// request context for the handler. Retrieve it with BodyFromContext.
func ValidateBody[T any](logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body T
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				logger.Debug("Failed to decode request body", zap.Error(err))
				RespondWithError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			if err := ValidateRequest(&body); err != nil {
				logger.Debug("Request body validation failed", zap.Error(err))
				RespondWithValidationErrors(w, FormatValidationErrors(err))
				return
			}

			ctx := context.WithValue(r.Context(), bodyContextKey{}, &body)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BodyFromContext returns the body stored by ValidateBody
func BodyFromContext[T any](ctx context.Context) (*T, bool) {
	body, ok := ctx.Value(bodyContextKey{}).(*T)
	return body, ok
}

// ValidateIDParam rejects requests whose {id} path parameter is blank
func ValidateIDParam(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.TrimSpace(chi.URLParam(r, "id")) == "" {
				logger.Debug("Missing id path parameter", zap.String("path", r.URL.Path))
				RespondWithValidationErrors(w, []ValidationError{
					{Field: "id", Message: "This field is required"},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator errors to a readable format
func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errors = append(errors, ValidationError{
				Field:   e.Field(),
				Message: getErrorMessage(e),
			})
		}
	}

	return errors
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "notblank":
		return "This field must not be blank"
	case "min":
		return "Value is too short"
	case "max":
		return "Value must be at most " + e.Param() + " characters"
	case "uuid", "uuid4":
		return "Invalid identifier"
	default:
		return "Invalid value"
	}
}
