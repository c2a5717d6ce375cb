package users

import (
	"strings"
	"time"

	"github.com/mygroup/mygroup-backend/pkg/db/models"
	"github.com/mygroup/mygroup-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID                 int64                    `json:"id"`
	Username           *string                  `json:"username,omitempty"`
	Email              *string                  `json:"email,omitempty"`
	Phone              *string                  `json:"phone,omitempty"`
	FirstName          string                   `json:"first_name"`
	LastName           string                   `json:"last_name"`
	DisplayName        *string                  `json:"display_name,omitempty"`
	Active             bool                     `json:"active"`
	RegistrationStatus enums.RegistrationStatus `json:"registration_status"`
	Role               enums.UserRole           `json:"role"`
	LastLoginAt        *time.Time               `json:"last_login_at,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     *string
	Email        *string
	Phone        *string
	PasswordHash string
	FirstName    string
	LastName     string
	Status       enums.RegistrationStatus
	Role         enums.UserRole
}

// CompleteRegistrationDTO carries the account fields written by phase two.
type CompleteRegistrationDTO struct {
	DisplayName string
	Email       string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		Phone:              u.Phone,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		DisplayName:        u.DisplayName,
		Active:             u.Active,
		RegistrationStatus: u.RegistrationStatus,
		Role:               u.Role,
		LastLoginAt:        u.LastLoginAt,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	status := c.Status
	if !status.IsValid() {
		status = enums.RegistrationStatusPendingProfile
	}
	role := enums.NormalizeUserRole(string(c.Role))

	var email *string
	if c.Email != nil {
		normalized := NormalizeEmail(*c.Email)
		email = &normalized
	}

	return &models.User{
		Username:           trimmedPtr(c.Username),
		Email:              email,
		Phone:              trimmedPtr(c.Phone),
		PasswordHash:       c.PasswordHash,
		FirstName:          strings.TrimSpace(c.FirstName),
		LastName:           strings.TrimSpace(c.LastName),
		Active:             status == enums.RegistrationStatusActive,
		RegistrationStatus: status,
		Role:               role,
	}
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
