package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"github.com/mygroup/mygroup-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// Caller-supplied ids end up in every log line, so only short opaque tokens are kept.
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID echoes a well-formed X-Request-Id or mints a new one, and tags
// the request logger with it.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if !validRequestID.MatchString(reqID) {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			if logg != nil {
				r = r.WithContext(logg.WithRequestID(r.Context(), reqID))
			}
			next.ServeHTTP(w, r)
		})
	}
}
