package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	pkgerrors "nodetree/pkg/errors"
	"nodetree/pkg/validation"
)

// MaxBodyBytes caps request bodies
const MaxBodyBytes = 1 << 20

// Envelope wraps every successful response body
type Envelope struct {
	Data any `json:"data"`
}

// Func is an HTTP handler that reports failures by returning them
type Func func(w http.ResponseWriter, r *http.Request) error

// Adapt turns a Func into an http.HandlerFunc whose errors go to errs
func Adapt(errs *pkgerrors.ErrorHandler, fn Func) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			errs.Handle(w, r, err)
		}
	}
}

func respond(w http.ResponseWriter, logger *zap.Logger, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Envelope{Data: data}); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
	return nil
}

func decodeJSON(r *http.Request, w http.ResponseWriter, dst any) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	err := json.NewDecoder(body).Decode(dst)
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &pkgerrors.AppError{
			Type:       pkgerrors.ErrorTypeValidation,
			Message:    "Request body too large",
			HTTPStatus: http.StatusRequestEntityTooLarge,
		}
	}
	if errors.Is(err, io.EOF) {
		return pkgerrors.NewValidationError("Request body is empty")
	}
	return pkgerrors.NewValidationError("Invalid JSON body")
}

// numberOrNaN keeps non-numeric JSON values flowing to command validation,
// where they are reported as invalid numbers.
func numberOrNaN(v any) float64 {
	if f, ok := validation.AsNumber(v); ok {
		return f
	}
	return nan
}

// wildcardPath rebuilds "/a/b" from the trailing route wildcard
func wildcardPath(r *http.Request) string {
	rest := chi.URLParam(r, "*")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(rest); err == nil {
			rest = unescaped
		}
	}
	return "/" + rest
}
