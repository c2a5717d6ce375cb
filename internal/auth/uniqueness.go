package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/mygroup/mygroup-backend/internal/users"
	pkgerrors "github.com/mygroup/mygroup-backend/pkg/errors"
)

// UniquenessService answers the registration form's instant-feedback checks.
// Answers are advisory; the write path re-checks under the unique constraints.
type UniquenessService interface {
	UniqueMobile(ctx context.Context, mobile string) (*ExistsResponse, error)
	UniqueEmail(ctx context.Context, email string) (*ExistsResponse, error)
}

type existenceRepository interface {
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type uniquenessService struct {
	users existenceRepository
}

// NewUniquenessService builds the uniqueness checker.
func NewUniquenessService(repo existenceRepository) (UniquenessService, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &uniquenessService{users: repo}, nil
}

func (s *uniquenessService) UniqueMobile(ctx context.Context, mobile string) (*ExistsResponse, error) {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mobile is required")
	}
	exists, err := s.users.ExistsByPhone(ctx, mobile)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check mobile")
	}
	return &ExistsResponse{Exists: exists}, nil
}

func (s *uniquenessService) UniqueEmail(ctx context.Context, email string) (*ExistsResponse, error) {
	email = users.NormalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
	}
	return &ExistsResponse{Exists: exists}, nil
}
