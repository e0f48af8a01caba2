package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"edumee-backend/internal/apperror"
	authdomain "edumee-backend/internal/auth/domain"

	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the identity store consumed by the auth usecase.
//
// Optional lookups (FindByEmail, FindByExternalID) return (nil, nil) when no
// record matches. FindByID, Update and UpdateLastLogin fail with a NotFound
// apperror instead. Create fails with Conflict when the email is taken.
type UserRepository interface {
	Create(ctx context.Context, newUser *authdomain.NewUser) (*authdomain.User, error)
	FindByEmail(ctx context.Context, email string) (*authdomain.User, error)
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
	FindByExternalID(ctx context.Context, provider authdomain.Provider, externalID string) (*authdomain.User, error)
	Update(ctx context.Context, id string, update authdomain.UserUpdate) (*authdomain.User, error)
	UpdateLastLogin(ctx context.Context, id string) error
	VerifyPassword(user *authdomain.User, password string) bool
}

// newUserRecord builds the record both stores persist: normalized email,
// hashed password and the account defaults.
func newUserRecord(newUser *authdomain.NewUser, now time.Time) (*authdomain.User, error) {
	hashed, err := HashPassword(newUser.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperror.BadRequest("Password is too long")
		}
		return nil, err
	}

	user := &authdomain.User{
		Email:      authdomain.NormalizeEmail(newUser.Email),
		Password:   hashed,
		FirstName:  strings.TrimSpace(newUser.FirstName),
		LastName:   strings.TrimSpace(newUser.LastName),
		Avatar:     newUser.Avatar,
		Role:       authdomain.DefaultRole,
		IsActive:   true,
		IsVerified: newUser.IsVerified,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if newUser.GoogleID != "" {
		id := newUser.GoogleID
		user.GoogleID = &id
	}
	if newUser.FacebookID != "" {
		id := newUser.FacebookID
		user.FacebookID = &id
	}
	return user, nil
}

// applyUpdate copies the non-nil fields of update onto user.
func applyUpdate(user *authdomain.User, update authdomain.UserUpdate) {
	if update.FirstName != nil {
		user.FirstName = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		user.LastName = strings.TrimSpace(*update.LastName)
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}
	if update.Profile != nil {
		user.Profile = update.Profile
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.IsActive != nil {
		user.IsActive = *update.IsActive
	}
	if update.IsVerified != nil {
		user.IsVerified = *update.IsVerified
	}
	if update.GoogleID != nil {
		id := *update.GoogleID
		user.GoogleID = &id
	}
	if update.FacebookID != nil {
		id := *update.FacebookID
		user.FacebookID = &id
	}
}
