package middleware

import (
	"mime"
	"net/http"
	"strings"
)

// StatusWriter writes an error response with the given status and message
type StatusWriter interface {
	HandleStatus(w http.ResponseWriter, r *http.Request, status int, message string)
}

// RequireJSON rejects requests that carry a body without declaring a JSON
// media type. Every POST, PUT and PATCH request is checked, with or without a
// body.
func RequireJSON(errs StatusWriter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				if !isJSON(r.Header.Get("Content-Type")) {
					errs.HandleStatus(w, r, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
