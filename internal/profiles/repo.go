package profiles

import (
	"context"

	"github.com/mygroup/mygroup-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var upsertColumns = []string{
	"full_name",
	"mobile_number",
	"gender",
	"marital_status",
	"date_of_birth",
	"nationality",
	"education",
	"country_id",
	"state_id",
	"district_id",
	"occupation",
	"updated_at",
}

// Repository persists the one-to-one profile row attached to a user.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profiles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert creates the user's profile or overwrites the registration fields of
// an existing one. Address and pincode are left untouched on update.
func (r *Repository) Upsert(ctx context.Context, dto UpsertProfileDTO) (*models.Profile, error) {
	profile := dto.ToModel()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(profile).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUserID(ctx, dto.UserID)
}

// FindByUserID returns the profile for userID or gorm.ErrRecordNotFound.
func (r *Repository) FindByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
