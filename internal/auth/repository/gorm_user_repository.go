package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"edumee-backend/internal/apperror"
	authdomain "edumee-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormUserRepository implements UserRepository on a relational database.
// The *gorm.DB must be opened with TranslateError so unique violations surface
// as gorm.ErrDuplicatedKey.
type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM-based UserRepository
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, newUser *authdomain.NewUser) (*authdomain.User, error) {
	user, err := newUserRecord(newUser, time.Now())
	if err != nil {
		return nil, err
	}
	user.ID = uuid.New().String()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("Email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	return r.findOne(ctx, "email = ?", authdomain.NormalizeEmail(email))
}

func (r *gormUserRepository) FindByID(ctx context.Context, id string) (*authdomain.User, error) {
	user, err := r.findOne(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

func (r *gormUserRepository) FindByExternalID(ctx context.Context, provider authdomain.Provider, externalID string) (*authdomain.User, error) {
	column, err := externalIDColumn(provider)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, column+" = ?", externalID)
}

func (r *gormUserRepository) Update(ctx context.Context, id string, update authdomain.UserUpdate) (*authdomain.User, error) {
	values, err := updateColumns(update)
	if err != nil {
		return nil, err
	}
	values["updated_at"] = time.Now()

	res := r.db.WithContext(ctx).Model(&authdomain.User{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("External account already linked to another user")
		}
		return nil, fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperror.NotFound("User not found")
	}
	return r.FindByID(ctx, id)
}

func (r *gormUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&authdomain.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_login": now,
			"updated_at": now,
		})
	if res.Error != nil {
		return fmt.Errorf("update last login: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("User not found")
	}
	return nil
}

func (r *gormUserRepository) VerifyPassword(user *authdomain.User, password string) bool {
	return CheckPasswordHash(password, user.Password)
}

func (r *gormUserRepository) findOne(ctx context.Context, query string, arg interface{}) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func externalIDColumn(provider authdomain.Provider) (string, error) {
	switch provider {
	case authdomain.ProviderGoogle:
		return "google_id", nil
	case authdomain.ProviderFacebook:
		return "facebook_id", nil
	}
	return "", apperror.BadRequest("Unsupported provider: " + string(provider))
}

// updateColumns maps a partial update to column values. Profile is stored as JSON.
func updateColumns(update authdomain.UserUpdate) (map[string]interface{}, error) {
	values := map[string]interface{}{}
	if update.FirstName != nil {
		values["first_name"] = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		values["last_name"] = strings.TrimSpace(*update.LastName)
	}
	if update.Phone != nil {
		values["phone"] = *update.Phone
	}
	if update.Avatar != nil {
		values["avatar"] = *update.Avatar
	}
	if update.Profile != nil {
		raw, err := json.Marshal(update.Profile)
		if err != nil {
			return nil, err
		}
		values["profile"] = string(raw)
	}
	if update.Role != nil {
		values["role"] = *update.Role
	}
	if update.IsActive != nil {
		values["is_active"] = *update.IsActive
	}
	if update.IsVerified != nil {
		values["is_verified"] = *update.IsVerified
	}
	if update.GoogleID != nil {
		values["google_id"] = *update.GoogleID
	}
	if update.FacebookID != nil {
		values["facebook_id"] = *update.FacebookID
	}
	return values, nil
}
