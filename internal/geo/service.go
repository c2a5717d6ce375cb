package geo

import (
	"context"
	"fmt"

	"github.com/mygroup/mygroup-backend/pkg/db/models"
	pkgerrors "github.com/mygroup/mygroup-backend/pkg/errors"
)

// Service serves the registration reference data.
type Service interface {
	RegisterMetadata(ctx context.Context) (*RegisterMetadata, error)
	States(ctx context.Context, countryID int64) ([]StateDTO, error)
	Districts(ctx context.Context, stateID int64) ([]DistrictDTO, error)
}

type repository interface {
	ListCountries(ctx context.Context) ([]models.Country, error)
	ListStates(ctx context.Context, countryID int64) ([]models.State, error)
	ListDistricts(ctx context.Context, stateID int64) ([]models.District, error)
	ListEducations(ctx context.Context) ([]models.Education, error)
	ListProfessions(ctx context.Context) ([]models.Profession, error)
}

type service struct {
	repo repository
}

// NewService builds the reference-data service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("geo repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) RegisterMetadata(ctx context.Context) (*RegisterMetadata, error) {
	countries, err := s.repo.ListCountries(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list countries")
	}
	educations, err := s.repo.ListEducations(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list education")
	}
	professions, err := s.repo.ListProfessions(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list professions")
	}
	return &RegisterMetadata{
		Countries:   countriesFromModels(countries),
		Education:   educationsFromModels(educations),
		Professions: professionsFromModels(professions),
	}, nil
}

func (s *service) States(ctx context.Context, countryID int64) ([]StateDTO, error) {
	if countryID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "country id must be a positive integer")
	}
	rows, err := s.repo.ListStates(ctx, countryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list states")
	}
	return statesFromModels(rows), nil
}

func (s *service) Districts(ctx context.Context, stateID int64) ([]DistrictDTO, error) {
	if stateID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "state id must be a positive integer")
	}
	rows, err := s.repo.ListDistricts(ctx, stateID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list districts")
	}
	return districtsFromModels(rows), nil
}
