package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mygroup/mygroup-backend/internal/profiles"
	"github.com/mygroup/mygroup-backend/internal/users"
	"github.com/mygroup/mygroup-backend/pkg/config"
	"github.com/mygroup/mygroup-backend/pkg/db/models"
	"github.com/mygroup/mygroup-backend/pkg/enums"
	pkgerrors "github.com/mygroup/mygroup-backend/pkg/errors"
	"github.com/mygroup/mygroup-backend/pkg/metrics"
	"github.com/mygroup/mygroup-backend/pkg/security"
	"gorm.io/gorm"
)

const (
	registeredMessage         = "User registered successfully"
	registrationDoneMessage   = "Registration completed"
	emailExistsMessage        = "email already exists"
	mobileExistsMessage       = "mobile number already exists"
	legacyEmailExistsMessage  = "user with this email already exists"
	userNotFoundMessage       = "user not found"
	defaultProfileDisplayName = "User"
)

// RegisterService covers the single-step and two-phase registration flows.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	RegisterStep1(ctx context.Context, req RegisterStep1Request) (*RegisterStep1Response, error)
	RegisterStep2(ctx context.Context, req RegisterStep2Request) (*RegisterResponse, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	EmailTakenByOther(ctx context.Context, email string, userID int64) (bool, error)
	CompleteRegistration(ctx context.Context, id int64, dto users.CompleteRegistrationDTO) error
}

type registerProfileRepository interface {
	Upsert(ctx context.Context, dto profiles.UpsertProfileDTO) (*models.Profile, error)
}

type registrationMetrics interface {
	IncRegistration(step, outcome string)
}

// RegisterServiceParams packages the dependencies for the registration flows.
type RegisterServiceParams struct {
	TxRunner           txRunner
	UserRepoFactory    func(tx *gorm.DB) registerUserRepository
	ProfileRepoFactory func(tx *gorm.DB) registerProfileRepository
	JWTConfig          config.JWTConfig
	PasswordConfig     config.PasswordConfig
	Metrics            registrationMetrics
}

type registerService struct {
	tx          txRunner
	userRepo    func(tx *gorm.DB) registerUserRepository
	profileRepo func(tx *gorm.DB) registerProfileRepository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	metrics     registrationMetrics
	now         func() time.Time
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	userFactory := params.UserRepoFactory
	if userFactory == nil {
		userFactory = func(tx *gorm.DB) registerUserRepository { return users.NewRepository(tx) }
	}
	profileFactory := params.ProfileRepoFactory
	if profileFactory == nil {
		profileFactory = func(tx *gorm.DB) registerProfileRepository { return profiles.NewRepository(tx) }
	}
	m := params.Metrics
	if m == nil {
		m = metrics.NewAuthMetrics(nil)
	}
	return &registerService{
		tx:          params.TxRunner,
		userRepo:    userFactory,
		profileRepo: profileFactory,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		metrics:     m,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Register creates an active account in one call and signs the user in.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (resp *RegisterResponse, err error) {
	defer func() { s.metrics.IncRegistration(metrics.StepLegacy, outcomeFor(err)) }()

	email := users.NormalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if req.Password != req.ConfirmPassword {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "confirm_password must match password")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)

		exists, err := userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, legacyEmailExistsMessage)
		}

		created, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        &email,
			Phone:        req.Phone,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Status:       enums.RegistrationStatusActive,
			Role:         enums.UserRoleUser,
		})
		if err != nil {
			return conflictFromRepo(err, "create user")
		}
		user = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := issueToken(s.jwtCfg, s.now(), user)
	if err != nil {
		return nil, err
	}
	return &RegisterResponse{
		Message: registeredMessage,
		Token:   token,
		User:    users.FromModel(user),
	}, nil
}

// RegisterStep1 creates an inactive account keyed by mobile number. No token
// is issued until the profile is completed.
func (s *registerService) RegisterStep1(ctx context.Context, req RegisterStep1Request) (resp *RegisterStep1Response, err error) {
	defer func() { s.metrics.IncRegistration(metrics.StepAccount, outcomeFor(err)) }()

	mobile := strings.TrimSpace(req.MobileNumber)
	if mobile == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mobile_number is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)

		exists, err := userRepo.ExistsByPhone(ctx, mobile)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check mobile number")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, mobileExistsMessage)
		}

		created, err := userRepo.Create(ctx, users.CreateUserDTO{
			Username:     &mobile,
			Phone:        &mobile,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			Status:       enums.RegistrationStatusPendingProfile,
			Role:         enums.UserRoleUser,
		})
		if err != nil {
			return conflictFromRepo(err, "create user")
		}
		user = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RegisterStep1Response{UserID: user.ID, Username: mobile}, nil
}

// RegisterStep2 completes the profile and activates the account. The user and
// profile writes share one transaction. Calling it again for an active user
// rewrites the profile without changing the status.
func (s *registerService) RegisterStep2(ctx context.Context, req RegisterStep2Request) (resp *RegisterResponse, err error) {
	defer func() { s.metrics.IncRegistration(metrics.StepProfile, outcomeFor(err)) }()

	if req.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "register_user_id is required")
	}
	email := users.NormalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	displayName := strings.TrimSpace(req.DisplayName)
	marital, err := enums.ParseMaritalStatus(req.Marital)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "marital must be one of Single, Married, Other")
	}
	occupation := resolveSelection(req.Profession, WorkOthers, req.WorkOthers)
	if occupation == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "work_others is required")
	}
	education := resolveSelection(req.Education, EducationOthers, req.EducationOthers)
	if education == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "education_others is required")
	}

	var user *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)
		profileRepo := s.profileRepo(tx)

		taken, err := userRepo.EmailTakenByOther(ctx, email, req.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, emailExistsMessage)
		}

		current, err := userRepo.FindByID(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}
		if !current.RegistrationStatus.CanTransitionTo(enums.RegistrationStatusActive) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "registration cannot be completed from status "+current.RegistrationStatus.String())
		}

		if err := userRepo.CompleteRegistration(ctx, current.ID, users.CompleteRegistrationDTO{
			DisplayName: displayName,
			Email:       email,
		}); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
			}
			return conflictFromRepo(err, "complete registration")
		}

		if _, err := profileRepo.Upsert(ctx, profiles.UpsertProfileDTO{
			UserID:        current.ID,
			FullName:      firstNonEmpty(current.FirstName, displayName, defaultProfileDisplayName),
			MobileNumber:  current.Phone,
			Gender:        enums.GenderFromCode(req.Gender),
			MaritalStatus: marital,
			DateOfBirth:   ComposeDateOfBirth(req.FromYear, req.FromMonth, req.FromDate),
			Nationality:   strings.TrimSpace(req.Nationality),
			Education:     education,
			CountryID:     req.Country,
			StateID:       req.State,
			DistrictID:    req.District,
			Occupation:    occupation,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save profile")
		}

		reloaded, err := userRepo.FindByID(ctx, current.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user")
		}
		user = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := issueToken(s.jwtCfg, s.now(), user)
	if err != nil {
		return nil, err
	}
	return &RegisterResponse{
		Message: registrationDoneMessage,
		Token:   token,
		User:    users.FromModel(user),
	}, nil
}

// ComposeDateOfBirth joins the three form parts as year-month-day. The parts
// are not checked for calendar validity.
func ComposeDateOfBirth(year, month, day string) string {
	return strings.TrimSpace(year) + "-" + strings.TrimSpace(month) + "-" + strings.TrimSpace(day)
}

func resolveSelection(selected, sentinel, override string) string {
	selected = strings.TrimSpace(selected)
	if selected == sentinel {
		return strings.TrimSpace(override)
	}
	return selected
}

func conflictFromRepo(err error, action string) error {
	switch {
	case errors.Is(err, users.ErrPhoneTaken):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, mobileExistsMessage)
	case errors.Is(err, users.ErrEmailTaken):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, emailExistsMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
