package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"time"

	"edumee-backend/internal/apperror"
	authdomain "edumee-backend/internal/auth/domain"
	authdto "edumee-backend/internal/auth/dto"
	"edumee-backend/internal/auth/repository"
)

const (
	msgInvalidCredentials  = "Invalid credentials"
	msgAccountDeactivated  = "Account is deactivated"
	msgInvalidRefreshToken = "Invalid refresh token"
	msgInvalidToken        = "Invalid or expired token"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo  repository.UserRepository
	tokens    *TokenService
	resolvers map[authdomain.Provider]ProfileResolver
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, tokens *TokenService, resolvers ...ProfileResolver) AuthUsecase {
	u := &authUsecase{
		userRepo:  userRepo,
		tokens:    tokens,
		resolvers: make(map[authdomain.Provider]ProfileResolver, len(resolvers)),
	}
	for _, r := range resolvers {
		u.resolvers[r.Provider()] = r
	}
	return u
}

func (u *authUsecase) Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.AuthResponse, error) {
	user, err := u.userRepo.Create(ctx, &authdomain.NewUser{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Auth] Registered user %s", user.ID)
	return u.generateAuthResponse(user)
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.AuthResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}

	if !u.userRepo.VerifyPassword(user, req.Password) {
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}

	if !user.IsActive {
		return nil, apperror.Unauthorized(msgAccountDeactivated)
	}

	if err := u.recordLogin(ctx, user); err != nil {
		return nil, err
	}

	return u.generateAuthResponse(user)
}

func (u *authUsecase) ValidateExternalUser(ctx context.Context, profile *authdomain.ExternalProfile) (*authdto.AuthResponse, error) {
	if profile == nil || profile.ExternalID == "" {
		return nil, apperror.BadRequest("External profile has no account id")
	}

	user, err := u.userRepo.FindByExternalID(ctx, profile.Provider, profile.ExternalID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		if profile.Email == "" {
			return nil, apperror.BadRequest("External account has no email address")
		}

		user, err = u.userRepo.FindByEmail(ctx, profile.Email)
		if err != nil {
			return nil, err
		}

		if user != nil {
			user, err = u.linkExternalAccount(ctx, user, profile)
		} else {
			user, err = u.createExternalUser(ctx, profile)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := u.recordLogin(ctx, user); err != nil {
		return nil, err
	}

	return u.generateAuthResponse(user)
}

func (u *authUsecase) linkExternalAccount(ctx context.Context, user *authdomain.User, profile *authdomain.ExternalProfile) (*authdomain.User, error) {
	if linked := user.ExternalID(profile.Provider); linked != "" && linked != profile.ExternalID {
		return nil, apperror.Conflict("Email is already linked to a different " + string(profile.Provider) + " account")
	}

	externalID := profile.ExternalID
	update := authdomain.UserUpdate{}
	switch profile.Provider {
	case authdomain.ProviderGoogle:
		update.GoogleID = &externalID
	case authdomain.ProviderFacebook:
		update.FacebookID = &externalID
	default:
		return nil, apperror.BadRequest("Unsupported provider: " + string(profile.Provider))
	}
	if user.Avatar == "" && profile.Avatar != "" {
		avatar := profile.Avatar
		update.Avatar = &avatar
	}

	linked, err := u.userRepo.Update(ctx, user.ID, update)
	if err != nil {
		return nil, err
	}

	log.Printf("[Auth] Linked %s account to user %s", profile.Provider, linked.ID)
	return linked, nil
}

func (u *authUsecase) createExternalUser(ctx context.Context, profile *authdomain.ExternalProfile) (*authdomain.User, error) {
	newUser := &authdomain.NewUser{
		Email:      profile.Email,
		Password:   placeholderPassword(),
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Avatar:     profile.Avatar,
		IsVerified: profile.EmailVerified,
	}
	switch profile.Provider {
	case authdomain.ProviderGoogle:
		newUser.GoogleID = profile.ExternalID
	case authdomain.ProviderFacebook:
		newUser.FacebookID = profile.ExternalID
	default:
		return nil, apperror.BadRequest("Unsupported provider: " + string(profile.Provider))
	}

	user, err := u.userRepo.Create(ctx, newUser)
	if err != nil {
		return nil, err
	}

	log.Printf("[Auth] Created user %s from %s sign-in", user.ID, profile.Provider)
	return user, nil
}

func (u *authUsecase) ExternalSignIn(ctx context.Context, provider authdomain.Provider, req *authdto.ExternalSignInRequest) (*authdto.AuthResponse, error) {
	resolver, err := u.resolver(provider)
	if err != nil {
		return nil, err
	}

	profile, err := resolver.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	return u.ValidateExternalUser(ctx, profile)
}

func (u *authUsecase) ExternalAuthURL(provider authdomain.Provider, state string) (string, error) {
	resolver, err := u.resolver(provider)
	if err != nil {
		return "", err
	}
	return resolver.AuthCodeURL(state), nil
}

func (u *authUsecase) resolver(provider authdomain.Provider) (ProfileResolver, error) {
	resolver, ok := u.resolvers[provider]
	if !ok {
		return nil, apperror.BadRequest(string(provider) + " sign-in is not configured")
	}
	return resolver, nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, refreshToken string) (*authdto.RefreshResponse, error) {
	claims, err := u.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.Unauthorized(msgInvalidRefreshToken)
	}

	user, err := u.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(msgInvalidRefreshToken)
		}
		return nil, err
	}

	accessToken, err := u.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &authdto.RefreshResponse{AccessToken: accessToken}, nil
}

func (u *authUsecase) ValidateToken(accessToken string) (*Claims, error) {
	claims, err := u.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, apperror.Unauthorized(msgInvalidToken)
	}
	return claims, nil
}

func (u *authUsecase) Me(ctx context.Context, userID string) (*authdomain.PublicUser, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// recordLogin stamps the login in the store and on user, so the response
// carries this login rather than the previous one.
func (u *authUsecase) recordLogin(ctx context.Context, user *authdomain.User) error {
	if err := u.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		return err
	}
	now := time.Now()
	user.LastLogin = &now
	return nil
}

func (u *authUsecase) generateAuthResponse(user *authdomain.User) (*authdto.AuthResponse, error) {
	pair, err := u.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}

	return &authdto.AuthResponse{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// placeholderPassword is stored for accounts created through an external
// provider. Nobody knows it, so password login stays closed until a reset.
func placeholderPassword() string {
	return rand.Text() + "Aa1!"
}
