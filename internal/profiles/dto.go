package profiles

import (
	"time"

	"github.com/mygroup/mygroup-backend/pkg/db/models"
	"github.com/mygroup/mygroup-backend/pkg/enums"
)

// ProfileDTO is the public shape of a member profile.
type ProfileDTO struct {
	UserID        int64               `json:"user_id"`
	FullName      string              `json:"full_name"`
	MobileNumber  *string             `json:"mobile_number,omitempty"`
	Gender        enums.Gender        `json:"gender"`
	MaritalStatus enums.MaritalStatus `json:"marital_status,omitempty"`
	DateOfBirth   string              `json:"date_of_birth"`
	Nationality   string              `json:"nationality"`
	Education     string              `json:"education"`
	CountryID     int64               `json:"country_id"`
	StateID       int64               `json:"state_id"`
	DistrictID    int64               `json:"district_id"`
	Occupation    string              `json:"occupation"`
	Address       *string             `json:"address,omitempty"`
	Pincode       *string             `json:"pincode,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// UpsertProfileDTO carries the fields written by the second registration step.
type UpsertProfileDTO struct {
	UserID        int64
	FullName      string
	MobileNumber  *string
	Gender        enums.Gender
	MaritalStatus enums.MaritalStatus
	DateOfBirth   string
	Nationality   string
	Education     string
	CountryID     int64
	StateID       int64
	DistrictID    int64
	Occupation    string
}

func FromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		UserID:        p.UserID,
		FullName:      p.FullName,
		MobileNumber:  p.MobileNumber,
		Gender:        p.Gender,
		MaritalStatus: p.MaritalStatus,
		DateOfBirth:   p.DateOfBirth,
		Nationality:   p.Nationality,
		Education:     p.Education,
		CountryID:     p.CountryID,
		StateID:       p.StateID,
		DistrictID:    p.DistrictID,
		Occupation:    p.Occupation,
		Address:       p.Address,
		Pincode:       p.Pincode,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (d UpsertProfileDTO) ToModel() *models.Profile {
	gender := d.Gender
	if !gender.IsValid() {
		gender = enums.GenderOther
	}
	return &models.Profile{
		UserID:        d.UserID,
		FullName:      d.FullName,
		MobileNumber:  d.MobileNumber,
		Gender:        gender,
		MaritalStatus: d.MaritalStatus,
		DateOfBirth:   d.DateOfBirth,
		Nationality:   d.Nationality,
		Education:     d.Education,
		CountryID:     d.CountryID,
		StateID:       d.StateID,
		DistrictID:    d.DistrictID,
		Occupation:    d.Occupation,
		UpdatedAt:     time.Now().UTC(),
	}
}
