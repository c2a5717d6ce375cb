package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mygroup/mygroup-backend/api/responses"
	pkgAuth "github.com/mygroup/mygroup-backend/pkg/auth"
	"github.com/mygroup/mygroup-backend/pkg/config"
	"github.com/mygroup/mygroup-backend/pkg/enums"
	pkgerrors "github.com/mygroup/mygroup-backend/pkg/errors"
	"github.com/mygroup/mygroup-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
// Tokens are not tracked server-side, so a valid signature and expiry are enough.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithIdentity(r.Context(), Identity{
				UserID: claims.UserID,
				Role:   enums.NormalizeUserRole(string(claims.Role)),
				Email:  claims.Email,
			})
			if logg != nil {
				ctx = logg.WithUserID(ctx, strconv.FormatInt(claims.UserID, 10))
				ctx = logg.WithActorRole(ctx, string(claims.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(raw string) string {
	token := strings.TrimSpace(raw)
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}
