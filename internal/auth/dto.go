package auth

import (
	"github.com/mygroup/mygroup-backend/internal/profiles"
	"github.com/mygroup/mygroup-backend/internal/users"
)

// Sentinel selector values that switch the profile to the free-text override.
const (
	EducationOthers = "education_others"
	WorkOthers      = "work_others"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the single-step registration payload.
type RegisterRequest struct {
	FirstName       string  `json:"first_name" validate:"required,max=50"`
	LastName        string  `json:"last_name" validate:"required,max=50"`
	Email           string  `json:"email" validate:"required,email"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Password        string  `json:"password" validate:"required,min=6"`
	ConfirmPassword string  `json:"confirm_password" validate:"required,eqfield=Password"`
}

// RegisterStep1Request creates the pending account from a mobile number.
type RegisterStep1Request struct {
	FirstName    string `json:"first_name" validate:"required,max=100"`
	CountryCode  string `json:"country_code" validate:"required,max=6"`
	MobileNumber string `json:"mobile_number" validate:"required,max=20"`
	Password     string `json:"password" validate:"required,min=6"`
}

// RegisterStep2Request completes the profile of a pending account.
// RegisterUsername and RegisterPassword are sent by the registration client
// and ignored.
type RegisterStep2Request struct {
	UserID           int64  `json:"register_user_id" validate:"required,gt=0"`
	RegisterUsername string `json:"register_username"`
	RegisterPassword string `json:"register_password"`
	DisplayName      string `json:"display_name" validate:"required,min=2,max=12"`
	Email            string `json:"email" validate:"required,email"`
	Gender           string `json:"gender" validate:"required,oneof=M F o"`
	Marital          string `json:"marital" validate:"required,oneof=Single Married Other"`
	FromDate         string `json:"from_date" validate:"required"`
	FromMonth        string `json:"from_month" validate:"required"`
	FromYear         string `json:"from_year" validate:"required"`
	Country          int64  `json:"country" validate:"required,gt=0"`
	State            int64  `json:"state" validate:"required,gt=0"`
	District         int64  `json:"district" validate:"required,gt=0"`
	Nationality      string `json:"nationality" validate:"required"`
	Education        string `json:"education" validate:"required"`
	EducationOthers  string `json:"education_others" validate:"required_if=Education education_others"`
	Profession       string `json:"profession" validate:"required"`
	WorkOthers       string `json:"work_others" validate:"required_if=Profession work_others"`
}

// RegisterResponse is returned by the flows that end with a session token.
type RegisterResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    *users.UserDTO `json:"user"`
}

// RegisterStep1Response identifies the pending account for step two.
type RegisterStep1Response struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// LoginResponse contains the token, user and profile produced by a successful login.
type LoginResponse struct {
	Message string                `json:"message"`
	Token   string                `json:"token"`
	User    *users.UserDTO       `json:"user"`
	Profile *profiles.ProfileDTO `json:"profile"`
}

type CurrentUserResponse struct {
	User    *users.UserDTO       `json:"user"`
	Profile *profiles.ProfileDTO `json:"profile"`
}

type LogoutResponse struct {
	Message string `json:"message"`
}

// ExistsResponse answers the advisory uniqueness checks.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}
