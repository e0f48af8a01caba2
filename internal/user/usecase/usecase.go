package usecase

import (
	"context"

	authdomain "edumee-backend/internal/auth/domain"
	userdto "edumee-backend/internal/user/dto"
)

// UserUsecase manages profiles and, for admins, roles and account status.
type UserUsecase interface {
	GetProfile(ctx context.Context, userID string) (*authdomain.PublicUser, error)
	UpdateProfile(ctx context.Context, userID string, req *userdto.UpdateProfileRequest) (*authdomain.PublicUser, error)

	// ChangeRole and SetActive act on another account; actorID is the admin doing it.
	ChangeRole(ctx context.Context, actorID, userID string, role authdomain.Role) (*authdomain.PublicUser, error)
	SetActive(ctx context.Context, actorID, userID string, active bool) (*authdomain.PublicUser, error)
}
