package controllers

import (
	"context"
	"net/http"

	"github.com/mygroup/mygroup-backend/api/responses"
	"github.com/mygroup/mygroup-backend/api/validators"
	"github.com/mygroup/mygroup-backend/internal/auth"
	pkgerrors "github.com/mygroup/mygroup-backend/pkg/errors"
	"github.com/mygroup/mygroup-backend/pkg/logger"
)

type existsCheck func(ctx context.Context, value string) (*auth.ExistsResponse, error)

// AuthUniqueMobile answers GET /auth/unique-mobile?mobile=.
func AuthUniqueMobile(svc auth.UniquenessService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable("uniqueness service", logg)
	}
	return existsHandler("mobile", svc.UniqueMobile, logg)
}

// AuthUniqueEmail answers GET /auth/unique-email?email=.
func AuthUniqueEmail(svc auth.UniquenessService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable("uniqueness service", logg)
	}
	return existsHandler("email", svc.UniqueEmail, logg)
}

func existsHandler(param string, check existsCheck, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := check(r.Context(), validators.QueryString(r, param))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// unavailable stands in for a handler whose service was not wired.
func unavailable(service string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, service+" unavailable"))
	}
}
