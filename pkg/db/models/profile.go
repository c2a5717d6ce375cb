package models

import (
	"time"

	"github.com/mygroup/mygroup-backend/pkg/enums"
)

// Profile holds the attributes collected by the second registration step.
type Profile struct {
	ID            int64               `gorm:"primaryKey;autoIncrement"`
	UserID        int64               `gorm:"column:user_id;not null;uniqueIndex:user_profiles_user_id_key"`
	FullName      string              `gorm:"column:full_name;not null"`
	MobileNumber  *string             `gorm:"column:mobile_number"`
	Gender        enums.Gender        `gorm:"column:gender;type:text;not null"`
	MaritalStatus enums.MaritalStatus `gorm:"column:marital_status;type:text"`
	DateOfBirth   string              `gorm:"column:date_of_birth;not null"`
	Nationality   string              `gorm:"column:nationality"`
	Education     string              `gorm:"column:education"`
	CountryID     int64               `gorm:"column:country_id;not null"`
	StateID       int64               `gorm:"column:state_id;not null"`
	DistrictID    int64               `gorm:"column:district_id;not null"`
	Occupation    string              `gorm:"column:occupation"`
	Address       *string             `gorm:"column:address"`
	Pincode       *string             `gorm:"column:pincode"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the profile table name aligned with the migrations.
func (Profile) TableName() string {
	return "user_profiles"
}
