package usecase

import (
	"context"
	"log"

	"edumee-backend/internal/apperror"
	authdomain "edumee-backend/internal/auth/domain"
	"edumee-backend/internal/auth/repository"
	userdto "edumee-backend/internal/user/dto"
)

type userUsecase struct {
	userRepo repository.UserRepository
}

// NewUserUsecase creates a new instance of userUsecase
func NewUserUsecase(userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) GetProfile(ctx context.Context, userID string) (*authdomain.PublicUser, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (u *userUsecase) UpdateProfile(ctx context.Context, userID string, req *userdto.UpdateProfileRequest) (*authdomain.PublicUser, error) {
	user, err := u.userRepo.Update(ctx, userID, authdomain.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Avatar:    req.Avatar,
		Profile:   req.Profile,
	})
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (u *userUsecase) ChangeRole(ctx context.Context, actorID, userID string, role authdomain.Role) (*authdomain.PublicUser, error) {
	if !role.Valid() {
		return nil, apperror.BadRequest("Invalid role: " + string(role))
	}
	if actorID == userID {
		return nil, apperror.Forbidden("Admins cannot change their own role")
	}

	user, err := u.userRepo.Update(ctx, userID, authdomain.UserUpdate{Role: &role})
	if err != nil {
		return nil, err
	}

	log.Printf("[Users] %s changed role of %s to %s", actorID, userID, role)
	return user.Public(), nil
}

func (u *userUsecase) SetActive(ctx context.Context, actorID, userID string, active bool) (*authdomain.PublicUser, error) {
	if actorID == userID && !active {
		return nil, apperror.Forbidden("Admins cannot deactivate their own account")
	}

	user, err := u.userRepo.Update(ctx, userID, authdomain.UserUpdate{IsActive: &active})
	if err != nil {
		return nil, err
	}

	log.Printf("[Users] %s set active=%t on %s", actorID, active, userID)
	return user.Public(), nil
}
