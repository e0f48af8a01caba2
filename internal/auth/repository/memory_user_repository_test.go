package repository

import (
	"context"
	"sync"
	"testing"

	"edumee-backend/internal/apperror"
	authdomain "edumee-backend/internal/auth/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCreateAppliesDefaults(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	u, err := repo.Create(ctx, &authdomain.NewUser{
		Email:     "  Jane@Example.com ",
		Password:  "S3cret!pass",
		FirstName: " Jane ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, "Jane", u.FirstName)
	assert.Equal(t, authdomain.RoleUser, u.Role)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsVerified)
	assert.NotEqual(t, "S3cret!pass", u.Password)
	assert.True(t, repo.VerifyPassword(u, "S3cret!pass"))
	assert.False(t, repo.VerifyPassword(u, "wrong"))
	assert.False(t, u.CreatedAt.IsZero())
}

func TestMemoryCreateDuplicateEmail(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, &authdomain.NewUser{Email: "jane@example.com", Password: "pw123456"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &authdomain.NewUser{Email: "JANE@example.com", Password: "other123"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestMemoryConcurrentCreateSingleWinner(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, &authdomain.NewUser{Email: "race@example.com", Password: "pw123456"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		if err == nil {
			ok++
		} else if assert.ErrorIs(t, err, apperror.ErrConflict) {
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 3, conflicts)
}

func TestMemoryLookups(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &authdomain.NewUser{Email: "a@example.com", Password: "pw123456", GoogleID: "g-1"})
	require.NoError(t, err)

	byEmail, err := repo.FindByEmail(ctx, "A@EXAMPLE.COM")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, created.ID, byEmail.ID)

	missing, err := repo.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	byExt, err := repo.FindByExternalID(ctx, authdomain.ProviderGoogle, "g-1")
	require.NoError(t, err)
	require.NotNil(t, byExt)
	assert.Equal(t, created.ID, byExt.ID)

	noExt, err := repo.FindByExternalID(ctx, authdomain.ProviderFacebook, "g-1")
	require.NoError(t, err)
	assert.Nil(t, noExt)

	_, err = repo.FindByExternalID(ctx, authdomain.Provider("github"), "g-1")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = repo.FindByID(ctx, "does-not-exist")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestMemoryUpdateAndLastLogin(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &authdomain.NewUser{Email: "a@example.com", Password: "pw123456"})
	require.NoError(t, err)

	role := authdomain.RoleMentor
	first := "  Ann "
	fb := "fb-7"
	updated, err := repo.Update(ctx, created.ID, authdomain.UserUpdate{Role: &role, FirstName: &first, FacebookID: &fb})
	require.NoError(t, err)
	assert.Equal(t, authdomain.RoleMentor, updated.Role)
	assert.Equal(t, "Ann", updated.FirstName)
	assert.Equal(t, "fb-7", updated.ExternalID(authdomain.ProviderFacebook))
	assert.Equal(t, created.Email, updated.Email)

	require.NoError(t, repo.UpdateLastLogin(ctx, created.ID))
	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)

	_, err = repo.Update(ctx, "missing", authdomain.UserUpdate{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateLastLogin(ctx, "missing"), apperror.ErrNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &authdomain.NewUser{Email: "a@example.com", Password: "pw123456"})
	require.NoError(t, err)
	created.Role = authdomain.RoleAdmin

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, authdomain.RoleUser, got.Role)
}

func TestMemoryUpdateRejectsTakenExternalID(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	owner, err := repo.Create(ctx, &authdomain.NewUser{Email: "owner@example.com", Password: "pw123456", GoogleID: "g-1"})
	require.NoError(t, err)
	other, err := repo.Create(ctx, &authdomain.NewUser{Email: "other@example.com", Password: "pw123456"})
	require.NoError(t, err)

	taken := "g-1"
	_, err = repo.Update(ctx, other.ID, authdomain.UserUpdate{GoogleID: &taken})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	got, err := repo.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GoogleID, "rejected update leaves the record untouched")

	// Re-linking the same id to its owner is not a conflict.
	_, err = repo.Update(ctx, owner.ID, authdomain.UserUpdate{GoogleID: &taken})
	require.NoError(t, err)

	byExternal, err := repo.FindByExternalID(ctx, authdomain.ProviderGoogle, "g-1")
	require.NoError(t, err)
	require.NotNil(t, byExternal)
	assert.Equal(t, owner.ID, byExternal.ID)
}
