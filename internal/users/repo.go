package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mygroup/mygroup-backend/pkg/db"
	"github.com/mygroup/mygroup-backend/pkg/db/models"
	"github.com/mygroup/mygroup-backend/pkg/enums"
	"gorm.io/gorm"
)

var (
	// ErrEmailTaken is returned when a write collides with users_email_key.
	ErrEmailTaken = errors.New("email already registered")
	// ErrPhoneTaken is returned when a write collides with users_phone_key.
	ErrPhoneTaken = errors.New("mobile number already registered")
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model. Unique
// violations on email or phone surface as ErrEmailTaken / ErrPhoneTaken.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, translateUniqueViolation(err)
	}
	return user, nil
}

// FindByID loads a user and its profile, if any.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByPhone retrieves the user registered with the provided mobile number.
func (r *Repository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("phone = ?", strings.TrimSpace(phone)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByPhone reports whether any user holds the mobile number.
func (r *Repository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, "phone = ?", strings.TrimSpace(phone))
}

// ExistsByEmail reports whether any user holds the email.
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", NormalizeEmail(email))
}

// EmailTakenByOther reports whether the email belongs to a user other than userID.
func (r *Repository) EmailTakenByOther(ctx context.Context, email string, userID int64) (bool, error) {
	return r.exists(ctx, "email = ? AND id <> ?", NormalizeEmail(email), userID)
}

func (r *Repository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CompleteRegistration stores the phase-two account fields and activates the
// user. Returns gorm.ErrRecordNotFound when the user does not exist.
func (r *Repository) CompleteRegistration(ctx context.Context, id int64, dto CompleteRegistrationDTO) error {
	email := NormalizeEmail(dto.Email)
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"display_name":        dto.DisplayName,
			"email":               email,
			"active":              true,
			"registration_status": enums.RegistrationStatusActive,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return translateUniqueViolation(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// UpdatePasswordHash replaces the stored hash, used when upgrading legacy hashes.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func translateUniqueViolation(err error) error {
	switch {
	case db.IsUniqueViolation(err, "users_phone_key") || db.IsUniqueViolation(err, "users.phone"):
		return ErrPhoneTaken
	case db.IsUniqueViolation(err, "users_email_key") || db.IsUniqueViolation(err, "users.email"):
		return ErrEmailTaken
	}
	return err
}
