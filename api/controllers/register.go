package controllers

import (
	"net/http"

	"github.com/mygroup/mygroup-backend/api/middleware"
	"github.com/mygroup/mygroup-backend/api/responses"
	"github.com/mygroup/mygroup-backend/api/validators"
	"github.com/mygroup/mygroup-backend/internal/auth"
	"github.com/mygroup/mygroup-backend/pkg/logger"
)

// AuthRegister handles the single-step registration used by older clients.
func AuthRegister(reg auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	if reg == nil {
		return unavailable("registration service", logg)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := reg.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(middleware.TokenHeader, result.Token)
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthRegisterStep1 creates the pending account from a mobile number.
func AuthRegisterStep1(reg auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	if reg == nil {
		return unavailable("registration service", logg)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.RegisterStep1Request
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := reg.RegisterStep1(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithField(r.Context(), "registered_user_id", result.UserID)
			logg.Info(ctx, "auth.register_step1.created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthRegisterStep2 completes the profile and returns a session token.
func AuthRegisterStep2(reg auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	if reg == nil {
		return unavailable("registration service", logg)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.RegisterStep2Request
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := reg.RegisterStep2(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(middleware.TokenHeader, result.Token)
		responses.WriteSuccess(w, result)
	}
}
