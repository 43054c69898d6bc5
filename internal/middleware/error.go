package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Envelope is the body shape shared by every response of the API.
// On success Response carries the payload and Error is null; on failure
// Response is null and Message equals Error.
type Envelope struct {
	Message  string        `json:"message"`
	Response *ResponseData `json:"response"`
	Error    *string       `json:"error"`
}

// ResponseData wraps the payload of a successful response
type ResponseData struct {
	Data interface{} `json:"data"`
}

// RespondWithSuccess sends a success envelope
func RespondWithSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	RespondWithJSON(w, statusCode, Envelope{
		Message:  message,
		Response: &ResponseData{Data: data},
	})
}

// RespondWithError sends a failure envelope
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, Envelope{
		Message: message,
		Error:   &message,
	})
}

// RespondWithValidationErrors sends a 400 listing every rejected field
func RespondWithValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	parts := make([]string, 0, len(errors))
	for _, e := range errors {
		parts = append(parts, e.Field+": "+e.Message)
	}

	message := "Validation failed"
	if len(parts) > 0 {
		message += ": " + strings.Join(parts, "; ")
	}

	RespondWithError(w, http.StatusBadRequest, message)
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondWithError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
