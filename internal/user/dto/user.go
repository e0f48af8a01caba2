package dto

import authdomain "edumee-backend/internal/auth/domain"

type UpdateProfileRequest struct {
	FirstName *string             `json:"firstName" binding:"omitempty,max=50"`
	LastName  *string             `json:"lastName" binding:"omitempty,max=50"`
	Phone     *string             `json:"phone" binding:"omitempty,max=32"`
	Avatar    *string             `json:"avatar" binding:"omitempty,url"`
	Profile   *authdomain.Profile `json:"profile"`
}

type ChangeRoleRequest struct {
	Role authdomain.Role `json:"role" binding:"required"`
}

type SetStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}
