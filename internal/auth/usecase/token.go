package usecase

import (
	"errors"
	"time"

	authdomain "edumee-backend/internal/auth/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of both access and refresh tokens. The subject is the user id.
type Claims struct {
	Email string          `json:"email"`
	Role  authdomain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenConfig holds the signing material. Access and refresh tokens must use
// distinct secrets.
type TokenConfig struct {
	AccessSecret  string
	AccessExpiry  time.Duration
	RefreshSecret string
	RefreshExpiry time.Duration
}

// TokenPair is what a successful sign-in hands back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService signs and verifies HS256 tokens. It holds no mutable state.
type TokenService struct {
	cfg TokenConfig
}

func NewTokenService(cfg TokenConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

func (s *TokenService) IssuePair(user *authdomain.User) (*TokenPair, error) {
	access, err := s.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, s.cfg.RefreshSecret, s.cfg.RefreshExpiry)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) IssueAccessToken(user *authdomain.User) (string, error) {
	return s.sign(user, s.cfg.AccessSecret, s.cfg.AccessExpiry)
}

func (s *TokenService) VerifyAccessToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, s.cfg.AccessSecret)
}

func (s *TokenService) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, s.cfg.RefreshSecret)
}

func (s *TokenService) sign(user *authdomain.User, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("token secret not configured")
	}

	now := time.Now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *TokenService) verify(tokenString, secret string) (*Claims, error) {
	if secret == "" {
		return nil, errors.New("token secret not configured")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}
	return &claims, nil
}
