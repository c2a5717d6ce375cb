package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mygroup/mygroup-backend/internal/profiles"
	"github.com/mygroup/mygroup-backend/internal/users"
	"github.com/mygroup/mygroup-backend/pkg/config"
	"github.com/mygroup/mygroup-backend/pkg/db/models"
	"github.com/mygroup/mygroup-backend/pkg/enums"
	"github.com/mygroup/mygroup-backend/pkg/security"
	"gorm.io/gorm"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "mygroup",
	ExpirationMinutes: 1440,
}

type stubTxRunner struct {
	calls int
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	return fn(nil)
}

// stubUserRepository keeps users in memory and enforces the same uniqueness
// rules as the users table.
type stubUserRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User

	createErr     error
	completeErr   error
	lastLogin     map[int64]time.Time
	rehashedUsers map[int64]string
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{
		byID:          map[int64]*models.User{},
		lastLogin:     map[int64]time.Time{},
		rehashedUsers: map[int64]string{},
	}
}

func (s *stubUserRepository) put(user *models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == 0 {
		s.nextID++
		user.ID = s.nextID
	} else if user.ID > s.nextID {
		s.nextID = user.ID
	}
	s.byID[user.ID] = user
	return user
}

func (s *stubUserRepository) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *stubUserRepository) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := dto.ToModel()
	s.mu.Lock()
	for _, existing := range s.byID {
		if user.Phone != nil && existing.Phone != nil && *user.Phone == *existing.Phone {
			s.mu.Unlock()
			return nil, users.ErrPhoneTaken
		}
		if user.Email != nil && existing.Email != nil && *user.Email == *existing.Email {
			s.mu.Unlock()
			return nil, users.ErrEmailTaken
		}
	}
	s.mu.Unlock()
	return s.put(user), nil
}

func (s *stubUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.byID[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.byID {
		if user.Email != nil && *user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.byID {
		if user.Phone != nil && *user.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	return err == nil, nil
}

func (s *stubUserRepository) EmailTakenByOther(ctx context.Context, email string, userID int64) (bool, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return user.ID != userID, nil
}

func (s *stubUserRepository) CompleteRegistration(ctx context.Context, id int64, dto users.CompleteRegistrationDTO) error {
	if s.completeErr != nil {
		return s.completeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	email := users.NormalizeEmail(dto.Email)
	display := dto.DisplayName
	user.Email = &email
	user.DisplayName = &display
	user.Active = true
	user.RegistrationStatus = enums.RegistrationStatusActive
	return nil
}

func (s *stubUserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLogin[id] = at
	return nil
}

func (s *stubUserRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rehashedUsers[id] = hash
	if user, ok := s.byID[id]; ok {
		user.PasswordHash = hash
	}
	return nil
}

type stubProfileRepository struct {
	upserts []profiles.UpsertProfileDTO
	err     error
}

func (s *stubProfileRepository) Upsert(ctx context.Context, dto profiles.UpsertProfileDTO) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.upserts = append(s.upserts, dto)
	return dto.ToModel(), nil
}

func (s *stubProfileRepository) last() profiles.UpsertProfileDTO {
	if len(s.upserts) == 0 {
		return profiles.UpsertProfileDTO{}
	}
	return s.upserts[len(s.upserts)-1]
}

type recordingMetrics struct {
	registrations map[string]int
	logins        map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{registrations: map[string]int{}, logins: map[string]int{}}
}

func (m *recordingMetrics) IncRegistration(step, outcome string) {
	m.registrations[step+":"+outcome]++
}

func (m *recordingMetrics) IncLogin(outcome string) {
	m.logins[outcome]++
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func strPtr(value string) *string {
	return &value
}
