package dto

import authdomain "edumee-backend/internal/auth/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	FirstName string `json:"firstName" binding:"omitempty,max=50"`
	LastName  string `json:"lastName" binding:"omitempty,max=50"`
}

// ExternalSignInRequest carries whatever the provider's client flow produced:
// an ID token (Google one-tap) or an authorization code (redirect flow).
type ExternalSignInRequest struct {
	IDToken     string `json:"idToken" binding:"required_without=Code"`
	Code        string `json:"code" binding:"required_without=IDToken"`
	RedirectURI string `json:"redirectUri" binding:"omitempty,url"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	User         *authdomain.PublicUser `json:"user"`
	AccessToken  string                 `json:"accessToken"`
	RefreshToken string                 `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type AuthURLResponse struct {
	URL string `json:"url"`
}
