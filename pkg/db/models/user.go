package models

import (
	"time"

	"github.com/mygroup/mygroup-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID                 int64                    `gorm:"primaryKey;autoIncrement"`
	Username           *string                  `gorm:"column:username"`
	Email              *string                  `gorm:"column:email;uniqueIndex:users_email_key"`
	Phone              *string                  `gorm:"column:phone;uniqueIndex:users_phone_key"`
	PasswordHash       string                   `gorm:"column:password_hash;not null"`
	FirstName          string                   `gorm:"column:first_name;not null;default:''"`
	LastName           string                   `gorm:"column:last_name;not null;default:''"`
	DisplayName        *string                  `gorm:"column:display_name"`
	Active             bool                     `gorm:"column:active;not null;default:false"`
	RegistrationStatus enums.RegistrationStatus `gorm:"column:registration_status;type:text;not null;default:'pending_profile'"`
	Role               enums.UserRole           `gorm:"column:role;type:text;not null;default:'user'"`
	LastLoginAt        *time.Time               `gorm:"column:last_login_at"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`

	Profile *Profile `gorm:"foreignKey:UserID"`
}

// CanLogin reports whether the account finished registration and is enabled.
func (u *User) CanLogin() bool {
	return u != nil && u.Active && u.RegistrationStatus == enums.RegistrationStatusActive
}
