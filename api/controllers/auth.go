package controllers

import (
	"net/http"

	"github.com/mygroup/mygroup-backend/api/middleware"
	"github.com/mygroup/mygroup-backend/api/responses"
	"github.com/mygroup/mygroup-backend/api/validators"
	"github.com/mygroup/mygroup-backend/internal/auth"
	pkgerrors "github.com/mygroup/mygroup-backend/pkg/errors"
	"github.com/mygroup/mygroup-backend/pkg/logger"
)

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable("auth service", logg)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(middleware.TokenHeader, result.Token)
		responses.WriteSuccess(w, result)
	}
}

// AuthMe returns the signed-in user and their profile.
func AuthMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable("auth service", logg)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := sessionUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CurrentUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AuthLogout acknowledges a logout. Clients discard the token themselves.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable("auth service", logg)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := sessionUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Logout(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func sessionUserID(r *http.Request) (int64, error) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
	}
	return id.UserID, nil
}
