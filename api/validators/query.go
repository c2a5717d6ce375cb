package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	pkgerrors "github.com/mygroup/mygroup-backend/pkg/errors"
)

const maxQueryValueLen = 255

// QueryString returns the trimmed query value for key, capped at a sane length.
func QueryString(r *http.Request, key string) string {
	return SanitizeString(r.URL.Query().Get(key), maxQueryValueLen)
}

// ParsePathID reads a positive integer id from the chi route parameter key.
func ParsePathID(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, key+" is required").WithDetails(map[string]any{"field": key})
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, key+" must be a positive integer").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}
