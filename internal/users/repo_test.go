package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mygroup/mygroup-backend/pkg/enums"
	"github.com/mygroup/mygroup-backend/pkg/migrate/migratetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(v string) *string { return &v }

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(migratetest.OpenSQLite(t).DB())
}

func TestCreatePendingUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{
		Username:     strPtr("9876543210"),
		Phone:        strPtr(" 9876543210 "),
		PasswordHash: "hash",
		FirstName:    " Asha ",
		Status:       enums.RegistrationStatusPendingProfile,
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.Active)
	assert.Equal(t, enums.RegistrationStatusPendingProfile, user.RegistrationStatus)
	assert.Equal(t, enums.UserRoleUser, user.Role)
	assert.Equal(t, "Asha", user.FirstName)

	found, err := repo.FindByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Nil(t, found.Email)
}

func TestCreateTranslatesUniqueViolations(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateUserDTO{Phone: strPtr("555"), Email: strPtr("a@example.com"), PasswordHash: "h"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateUserDTO{Phone: strPtr("555"), PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrPhoneTaken)

	_, err = repo.Create(ctx, CreateUserDTO{Phone: strPtr("556"), Email: strPtr("A@Example.com"), PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = repo.Create(ctx, CreateUserDTO{Phone: strPtr("557"), PasswordHash: "h"})
	require.NoError(t, err, "users without email must not collide on NULL")
}

func TestExistsChecks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Phone: strPtr("9876543210"), Email: strPtr("asha@example.com"), PasswordHash: "h"})
	require.NoError(t, err)

	exists, err := repo.ExistsByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByPhone(ctx, "1111111111")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByEmail(ctx, " ASHA@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	taken, err := repo.EmailTakenByOther(ctx, "asha@example.com", user.ID)
	require.NoError(t, err)
	assert.False(t, taken, "the owner's own email is not taken")

	taken, err = repo.EmailTakenByOther(ctx, "asha@example.com", user.ID+1)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestCompleteRegistrationActivatesUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Phone: strPtr("9876543210"), PasswordHash: "h"})
	require.NoError(t, err)

	require.NoError(t, repo.CompleteRegistration(ctx, user.ID, CompleteRegistrationDTO{
		DisplayName: "asha",
		Email:       "Asha@Example.com",
	}))

	found, err := repo.FindByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.True(t, found.Active)
	assert.Equal(t, enums.RegistrationStatusActive, found.RegistrationStatus)
	require.NotNil(t, found.DisplayName)
	assert.Equal(t, "asha", *found.DisplayName)
	assert.True(t, found.CanLogin())
}

func TestCompleteRegistrationErrors(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.CompleteRegistration(ctx, 999, CompleteRegistrationDTO{DisplayName: "ghost", Email: "ghost@example.com"})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = repo.Create(ctx, CreateUserDTO{Phone: strPtr("1"), Email: strPtr("taken@example.com"), PasswordHash: "h"})
	require.NoError(t, err)
	other, err := repo.Create(ctx, CreateUserDTO{Phone: strPtr("2"), PasswordHash: "h"})
	require.NoError(t, err)

	err = repo.CompleteRegistration(ctx, other.ID, CompleteRegistrationDTO{DisplayName: "dup", Email: "taken@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateLastLoginAndPasswordHash(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{
		Email:        strPtr("login@example.com"),
		PasswordHash: "old",
		Status:       enums.RegistrationStatusActive,
	})
	require.NoError(t, err)
	assert.True(t, user.Active)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))
	require.NoError(t, repo.UpdatePasswordHash(ctx, user.ID, "new"))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)
	assert.True(t, found.LastLoginAt.Equal(at))
	assert.Equal(t, "new", found.PasswordHash)
	assert.Nil(t, found.Profile)
}

func TestToModelNormalizesRoleAndEmail(t *testing.T) {
	user := CreateUserDTO{Email: strPtr("x@example.com"), PasswordHash: "secret", Role: "root"}.ToModel()
	assert.Equal(t, enums.UserRoleUser, user.Role)

	dto := FromModel(user)
	require.NotNil(t, dto)
	assert.Equal(t, "x@example.com", *dto.Email)
	assert.Nil(t, FromModel(nil))
}
