package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorResponse represents the API error response format
type ErrorResponse struct {
	Error  string      `json:"error"`
	Errors []Violation `json:"errors,omitempty"`
}

// ErrorHandler is the last stage of every request: it maps an error kind to a
// status code and writes the body in the format the client accepts.
type ErrorHandler struct {
	logger *zap.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	status := http.StatusInternalServerError
	response := ErrorResponse{Error: InternalMessage}

	if appErr := GetAppError(err); appErr != nil {
		if appErr.HTTPStatus != 0 {
			status = appErr.HTTPStatus
		}
		if appErr.Exposed() {
			response.Error = appErr.Message
			response.Errors = appErr.Violations
		}
		h.logError(r, appErr, status)
	} else {
		h.logger.Error("Unhandled error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.Int("status", status),
		)
	}

	if AcceptsJSON(r) {
		h.sendJSON(w, status, response)
		return
	}
	h.sendText(w, status, response)
}

// HandleStatus sends an error response with a specific status code
func (h *ErrorHandler) HandleStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.logger.Warn("HTTP error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("message", message),
	)

	response := ErrorResponse{Error: message}
	if AcceptsJSON(r) {
		h.sendJSON(w, status, response)
		return
	}
	h.sendText(w, status, response)
}

// logError logs an application error with appropriate level
func (h *ErrorHandler) logError(r *http.Request, err *AppError, status int) {
	fields := []zap.Field{
		zap.String("error_type", string(err.Type)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", chimiddleware.GetReqID(r.Context())),
	}

	if err.Code != "" {
		fields = append(fields, zap.String("error_code", err.Code))
	}
	if err.Cause != nil {
		fields = append(fields, zap.Error(err.Cause))
	}
	if len(err.Violations) > 0 {
		fields = append(fields, zap.Any("violations", err.Violations))
	}
	if err.Details != nil {
		fields = append(fields, zap.Any("details", err.Details))
	}

	switch {
	case status >= 500:
		if err.StackTrace != "" {
			fields = append(fields, zap.String("stack_trace", err.StackTrace))
		}
		h.logger.Error(err.Message, fields...)
	case status >= 400:
		h.logger.Warn(err.Message, fields...)
	default:
		h.logger.Info(err.Message, fields...)
	}
}

func (h *ErrorHandler) sendJSON(w http.ResponseWriter, status int, data ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode error response", zap.Error(err))
	}
}

func (h *ErrorHandler) sendText(w http.ResponseWriter, status int, data ErrorResponse) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	var b strings.Builder
	b.WriteString(data.Error)
	b.WriteByte('\n')
	for _, v := range data.Errors {
		b.WriteString(v.String())
		b.WriteByte('\n')
	}
	_, _ = w.Write([]byte(b.String()))
}

// AcceptsJSON reports whether the client accepts a JSON response. A missing
// Accept header counts as accepting anything.
func AcceptsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if strings.TrimSpace(accept) == "" {
		return true
	}
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, _ := strings.Cut(part, ";")
		mediaType = strings.ToLower(strings.TrimSpace(mediaType))
		switch {
		case mediaType == "application/json", mediaType == "application/*", mediaType == "*/*":
			return true
		case strings.HasSuffix(mediaType, "+json"):
			return true
		}
	}
	return false
}

// Middleware returns an HTTP middleware that turns panics into 500 responses
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.Handle(w, r, NewInternalError(fmt.Sprintf("panic: %v", rec), nil))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
