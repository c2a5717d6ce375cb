package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mygroup/mygroup-backend/internal/profiles"
	"github.com/mygroup/mygroup-backend/internal/users"
	pkgAuth "github.com/mygroup/mygroup-backend/pkg/auth"
	"github.com/mygroup/mygroup-backend/pkg/config"
	"github.com/mygroup/mygroup-backend/pkg/db/models"
	pkgerrors "github.com/mygroup/mygroup-backend/pkg/errors"
	"github.com/mygroup/mygroup-backend/pkg/logger"
	"github.com/mygroup/mygroup-backend/pkg/metrics"
	"github.com/mygroup/mygroup-backend/pkg/security"
	"gorm.io/gorm"
)

// Unknown email, inactive account and wrong password all share this message.
const invalidCredentialsMessage = "invalid email or password"

const (
	loginSuccessMessage  = "Login successful"
	logoutSuccessMessage = "logout successful"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	CurrentUser(ctx context.Context, userID int64) (*CurrentUserResponse, error)
	Logout(ctx context.Context, userID int64) (*LogoutResponse, error)
}

type service struct {
	users       userRepository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	allowLegacy bool
	metrics     loginMetrics
	logg        *logger.Logger
	now         func() time.Time

	guardOnce sync.Once
	guardHash string
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

type loginMetrics interface {
	IncLogin(outcome string)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo         userRepository
	JWTConfig        config.JWTConfig
	PasswordConfig   config.PasswordConfig
	AcceptLegacyHash bool
	Metrics          loginMetrics
	Logger           *logger.Logger
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	m := params.Metrics
	if m == nil {
		m = metrics.NewAuthMetrics(nil)
	}
	return &service{
		users:       params.UserRepo,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		allowLegacy: params.AcceptLegacyHash,
		metrics:     m,
		logg:        params.Logger,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		s.metrics.IncLogin(outcomeFor(err))
		return nil, err
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.metrics.IncLogin(metrics.OutcomeError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	token, err := issueToken(s.jwtCfg, now, user)
	if err != nil {
		s.metrics.IncLogin(metrics.OutcomeError)
		return nil, err
	}

	s.metrics.IncLogin(metrics.OutcomeSuccess)
	return &LoginResponse{
		Message: loginSuccessMessage,
		Token:   token,
		User:    users.FromModel(user),
		Profile: profiles.FromModel(user.Profile),
	}, nil
}

func (s *service) CurrentUser(ctx context.Context, userID int64) (*CurrentUserResponse, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return &CurrentUserResponse{
		User:    users.FromModel(user),
		Profile: profiles.FromModel(user.Profile),
	}, nil
}

// Logout has no server-side state to clear; tokens stay valid until they expire.
func (s *service) Logout(ctx context.Context, userID int64) (*LogoutResponse, error) {
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "user_id", userID), "auth.logout")
	}
	return &LogoutResponse{Message: logoutSuccessMessage}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := users.NormalizeEmail(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.burnVerification(password)
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if security.IsLegacyHash(user.PasswordHash) && !s.allowLegacy {
		s.burnVerification(password)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.CanLogin() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if security.NeedsRehash(user.PasswordHash, s.passwordCfg) {
		s.upgradeHash(ctx, user, password)
	}
	return user, nil
}

// upgradeHash replaces a bcrypt or outdated Argon2id hash after a successful login. Failure
// leaves the old hash in place and does not fail the login.
func (s *service) upgradeHash(ctx context.Context, user *models.User, password string) {
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"user_id": user.ID,
				"error":   err.Error(),
			}), "auth.password_rehash_failed")
		}
		return
	}
	user.PasswordHash = hash
}

// burnVerification spends one hash verification so unknown accounts take as
// long to reject as wrong passwords.
func (s *service) burnVerification(password string) {
	s.guardOnce.Do(func() {
		s.guardHash, _ = security.HashPassword("mygroup-login-guard", s.passwordCfg)
	})
	if s.guardHash != "" {
		_, _ = security.VerifyPassword(password, s.guardHash)
	}
}

func issueToken(cfg config.JWTConfig, now time.Time, user *models.User) (string, error) {
	payload := pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	}
	if user.Email != nil {
		payload.Email = *user.Email
	}
	token, err := pkgAuth.MintAccessToken(cfg, now, payload)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}

func outcomeFor(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		return metrics.OutcomeError
	}
	switch typed.Code() {
	case pkgerrors.CodeConflict:
		return metrics.OutcomeConflict
	case pkgerrors.CodeNotFound:
		return metrics.OutcomeNotFound
	case pkgerrors.CodeUnauthorized, pkgerrors.CodeValidation, pkgerrors.CodeStateConflict:
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeError
}
