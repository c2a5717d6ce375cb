package geo

import (
	"context"

	"github.com/mygroup/mygroup-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads the registration reference tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a geo repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListCountries(ctx context.Context) ([]models.Country, error) {
	var rows []models.Country
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListStates(ctx context.Context, countryID int64) ([]models.State, error) {
	var rows []models.State
	err := r.db.WithContext(ctx).Where("country_id = ?", countryID).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListDistricts(ctx context.Context, stateID int64) ([]models.District, error) {
	var rows []models.District
	err := r.db.WithContext(ctx).Where("state_id = ?", stateID).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListEducations(ctx context.Context) ([]models.Education, error) {
	var rows []models.Education
	err := r.db.WithContext(ctx).Order("education ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListProfessions(ctx context.Context) ([]models.Profession, error) {
	var rows []models.Profession
	err := r.db.WithContext(ctx).Order("profession ASC").Find(&rows).Error
	return rows, err
}
