package controllers

import (
	"net/http"

	"github.com/mygroup/mygroup-backend/api/responses"
	"github.com/mygroup/mygroup-backend/api/validators"
	"github.com/mygroup/mygroup-backend/internal/geo"
	"github.com/mygroup/mygroup-backend/pkg/logger"
)

// RegisterMetadata serves the dropdown data for the registration form.
func RegisterMetadata(svc geo.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable("reference data", logg)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.RegisterMetadata(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GeoStates(svc geo.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable("reference data", logg)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		countryID, err := validators.ParsePathID(r, "countryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		states, err := svc.States(r.Context(), countryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, states)
	}
}

func GeoDistricts(svc geo.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable("reference data", logg)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		stateID, err := validators.ParsePathID(r, "stateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		districts, err := svc.Districts(r.Context(), stateID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, districts)
	}
}
