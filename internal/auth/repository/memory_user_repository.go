package repository

import (
	"context"
	"sync"
	"time"

	"edumee-backend/internal/apperror"
	authdomain "edumee-backend/internal/auth/domain"

	"github.com/google/uuid"
)

// memoryUserRepository keeps users in process memory. It is selected with
// DB_DRIVER=memory for local runs and backs the usecase and handler tests.
type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*authdomain.User
}

// NewMemoryUserRepository creates an empty in-memory UserRepository
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users: make(map[string]*authdomain.User),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, newUser *authdomain.NewUser) (*authdomain.User, error) {
	user, err := newUserRecord(newUser, time.Now())
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, apperror.Conflict("Email already registered")
		}
	}
	if r.externalIDTaken(user.GoogleID, user.FacebookID, "") {
		return nil, apperror.Conflict("External account already linked to another user")
	}

	user.ID = uuid.New().String()
	r.users[user.ID] = user
	return clone(user), nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*authdomain.User, error) {
	email = authdomain.NormalizeEmail(email)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*authdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	return clone(u), nil
}

func (r *memoryUserRepository) FindByExternalID(_ context.Context, provider authdomain.Provider, externalID string) (*authdomain.User, error) {
	if !provider.Valid() {
		return nil, apperror.BadRequest("Unsupported provider: " + string(provider))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if externalID != "" && u.ExternalID(provider) == externalID {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepository) Update(_ context.Context, id string, update authdomain.UserUpdate) (*authdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	if r.externalIDTaken(update.GoogleID, update.FacebookID, id) {
		return nil, apperror.Conflict("External account already linked to another user")
	}
	applyUpdate(u, update)
	u.UpdatedAt = time.Now()
	return clone(u), nil
}

func (r *memoryUserRepository) UpdateLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperror.NotFound("User not found")
	}
	now := time.Now()
	u.LastLogin = &now
	u.UpdatedAt = now
	return nil
}

func (r *memoryUserRepository) VerifyPassword(user *authdomain.User, password string) bool {
	return CheckPasswordHash(password, user.Password)
}

// externalIDTaken reports whether a user other than exceptID already holds
// googleID or facebookID. Empty ids are never unique-checked. Callers hold mu.
func (r *memoryUserRepository) externalIDTaken(googleID, facebookID *string, exceptID string) bool {
	for id, existing := range r.users {
		if id == exceptID {
			continue
		}
		if sameID(googleID, existing.GoogleID) || sameID(facebookID, existing.FacebookID) {
			return true
		}
	}
	return false
}

func sameID(a, b *string) bool {
	return a != nil && b != nil && *a != "" && *a == *b
}

func clone(u *authdomain.User) *authdomain.User {
	c := *u
	return &c
}
