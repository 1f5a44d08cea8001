package middleware

import (
	"errors"
	"net/http"

	"github.com/eduvoice/eduvoice-backend/internal/httputil"
)

// RequestSizeLimit creates middleware that limits the maximum request body size.
func RequestSizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}

// HandleMaxBytesError checks if the error came from MaxBytesReader and writes
// the 413 response. Returns true when it handled the error.
func HandleMaxBytesError(w http.ResponseWriter, err error) bool {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		httputil.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
		return true
	}
	return false
}
