package usecase

import (
	"context"

	authdomain "edumee-backend/internal/auth/domain"
	authdto "edumee-backend/internal/auth/dto"
)

// AuthUsecase issues and validates sessions.
type AuthUsecase interface {
	// Register creates an account and signs it in.
	Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.AuthResponse, error)

	// Login checks email and password. Unknown email and wrong password yield the same error.
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.AuthResponse, error)

	// ValidateExternalUser finds, links or creates the account behind an external profile.
	ValidateExternalUser(ctx context.Context, profile *authdomain.ExternalProfile) (*authdto.AuthResponse, error)

	// ExternalSignIn resolves a provider credential into a profile and signs it in.
	ExternalSignIn(ctx context.Context, provider authdomain.Provider, req *authdto.ExternalSignInRequest) (*authdto.AuthResponse, error)

	// ExternalAuthURL returns the provider consent page URL.
	ExternalAuthURL(provider authdomain.Provider, state string) (string, error)

	// RefreshToken mints a new access token. The refresh token is not rotated.
	RefreshToken(ctx context.Context, refreshToken string) (*authdto.RefreshResponse, error)

	// ValidateToken verifies an access token and returns its claims.
	ValidateToken(accessToken string) (*Claims, error)

	// Me returns the public view of the signed-in user.
	Me(ctx context.Context, userID string) (*authdomain.PublicUser, error)
}

// ProfileResolver turns a provider credential into an external profile.
type ProfileResolver interface {
	Provider() authdomain.Provider
	Resolve(ctx context.Context, req *authdto.ExternalSignInRequest) (*authdomain.ExternalProfile, error)
	AuthCodeURL(state string) string
}
