package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/and161185/bookstore-api/internal/errs"
	"github.com/and161185/bookstore-api/internal/schema"
)

type errorBody struct {
	Error      string             `json:"error"`
	Violations []schema.Violation `json:"violations,omitempty"`
}

type messageBody struct {
	Message string `json:"message"`
}

// clientError carries the response text for a classified failure.
type clientError struct {
	msg  string
	kind error
}

func (e *clientError) Error() string { return e.msg }
func (e *clientError) Unwrap() error { return e.kind }

func failf(kind error, format string, args ...any) error {
	return &clientError{msg: fmt.Sprintf(format, args...), kind: kind}
}

// writeJSON sends data with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrAlreadyExists),
		errors.Is(err, errs.ErrInvalidCredentials),
		errors.Is(err, errs.ErrNotModified):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and JSON body. Unclassified errors never
// leak their text.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}
	if status == http.StatusInternalServerError {
		body.Error = "internal error"
	}
	var ve *schema.ValidationError
	if errors.As(err, &ve) {
		body.Error = "validation failed"
		body.Violations = ve.Violations
	}
	writeJSON(w, status, body)
}

// fail writes err and logs it when it is unexpected.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		a.log.Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
	writeError(w, err)
}
