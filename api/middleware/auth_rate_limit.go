package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mygroup/mygroup-backend/api/responses"
	pkgerrors "github.com/mygroup/mygroup-backend/pkg/errors"
	"github.com/mygroup/mygroup-backend/pkg/logger"
	"github.com/mygroup/mygroup-backend/pkg/redis"
)

// Bodies larger than this are not inspected for an identifier.
const maxInspectedBody = 64 << 10

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (redis.Window, error)
}

type rateLimitRecorder interface {
	IncRateLimited(policy, scope string)
}

// AuthRateLimitPolicy defines the throttling parameters for a traffic surface.
type AuthRateLimitPolicy struct {
	name          string
	window        time.Duration
	ipLimit       int
	identityLimit int
}

// NewAuthRateLimitPolicy builds a policy with the supplied window and limits.
// identityLimit applies per email or mobile number found in the JSON body.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, identityLimit int) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		name:          strings.ToLower(strings.TrimSpace(name)),
		window:        window,
		ipLimit:       ipLimit,
		identityLimit: identityLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.identityLimit > 0)
}

func (p AuthRateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "auth"
	}
	return p.name
}

func (p AuthRateLimitPolicy) scope(kind, value string) string {
	if value == "" {
		return ""
	}
	return p.normalizedName() + ":" + kind + ":" + value
}

// AuthRateLimit enforces per-IP and per-identity counters for auth endpoints.
// A nil store disables limiting.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, recorder rateLimitRecorder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		// hit reports whether the request may continue; a false return means a
		// response has already been written.
		hit := func(w http.ResponseWriter, r *http.Request, kind, subject string, limit int) bool {
			ctx := r.Context()
			res, err := store.FixedWindowAllow(ctx, policy.scope(kind, subject), int64(limit), policy.window)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return false
			}
			if res.Allowed {
				return true
			}
			if recorder != nil {
				recorder.IncRateLimited(policy.normalizedName(), kind)
			}
			if logg != nil {
				logg.Warn(logg.WithFields(ctx, map[string]any{
					"scope":          kind,
					"subject":        subject,
					"policy":         policy.normalizedName(),
					"attempts":       res.Count,
					"limit":          limit,
					"window_seconds": int(policy.window.Seconds()),
				}), "auth.rate_limit.blocked")
			}
			if secs := int(res.RetryAfter.Round(time.Second) / time.Second); secs > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(secs))
			}
			responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
			return false
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ip := clientIP(r); policy.ipLimit > 0 && ip != "" {
				if !hit(w, r, "ip", ip, policy.ipLimit) {
					return
				}
			}

			if policy.identityLimit > 0 {
				body, err := io.ReadAll(io.LimitReader(r.Body, maxInspectedBody))
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))

				if identity := extractIdentity(body); identity != "" {
					if !hit(w, r, "identity", hashValue(identity), policy.identityLimit) {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// extractIdentity returns the normalized email, or the mobile number for the
// mobile-first registration step.
func extractIdentity(payload []byte) string {
	var body struct {
		Email        string `json:"email"`
		MobileNumber string `json:"mobile_number"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	if email := strings.ToLower(strings.TrimSpace(body.Email)); email != "" {
		return email
	}
	return strings.TrimSpace(body.MobileNumber)
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
