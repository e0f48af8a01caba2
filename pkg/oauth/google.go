package oauth

import (
	"context"
	"fmt"

	"edumee-backend/internal/apperror"
	authdomain "edumee-backend/internal/auth/domain"
	authdto "edumee-backend/internal/auth/dto"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// GoogleProvider resolves Google ID tokens and authorization codes into profiles.
type GoogleProvider struct {
	config *oauth2.Config

	validateIDToken func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
	fetchUserinfo   func(ctx context.Context, src oauth2.TokenSource) (*googleoauth2.Userinfo, error)
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		validateIDToken: idtoken.Validate,
		fetchUserinfo:   fetchGoogleUserinfo,
	}
}

func (p *GoogleProvider) Provider() authdomain.Provider {
	return authdomain.ProviderGoogle
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GoogleProvider) Resolve(ctx context.Context, req *authdto.ExternalSignInRequest) (*authdomain.ExternalProfile, error) {
	var (
		profile *authdomain.ExternalProfile
		err     error
	)
	if req.IDToken != "" {
		profile, err = p.resolveIDToken(ctx, req.IDToken)
	} else {
		profile, err = p.resolveCode(ctx, req.Code, req.RedirectURI)
	}
	if err != nil {
		return nil, err
	}

	if !profile.EmailVerified {
		return nil, apperror.Unauthorized("Google email is not verified")
	}
	return profile, nil
}

func (p *GoogleProvider) resolveIDToken(ctx context.Context, rawToken string) (*authdomain.ExternalProfile, error) {
	payload, err := p.validateIDToken(ctx, rawToken, p.config.ClientID)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid Google credential")
	}
	return profileFromIDToken(payload), nil
}

func (p *GoogleProvider) resolveCode(ctx context.Context, code, redirectURI string) (*authdomain.ExternalProfile, error) {
	cfg := *p.config
	if redirectURI != "" {
		cfg.RedirectURL = redirectURI
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid Google authorization code")
	}

	info, err := p.fetchUserinfo(ctx, cfg.TokenSource(ctx, token))
	if err != nil {
		return nil, fmt.Errorf("fetch google userinfo: %w", err)
	}

	return &authdomain.ExternalProfile{
		Provider:      authdomain.ProviderGoogle,
		ExternalID:    info.Id,
		Email:         info.Email,
		FirstName:     info.GivenName,
		LastName:      info.FamilyName,
		Avatar:        info.Picture,
		EmailVerified: info.VerifiedEmail != nil && *info.VerifiedEmail,
	}, nil
}

func fetchGoogleUserinfo(ctx context.Context, src oauth2.TokenSource) (*googleoauth2.Userinfo, error) {
	srv, err := googleoauth2.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, err
	}
	return srv.Userinfo.Get().Context(ctx).Do()
}

func profileFromIDToken(payload *idtoken.Payload) *authdomain.ExternalProfile {
	claim := func(key string) string {
		v, _ := payload.Claims[key].(string)
		return v
	}

	verified := false
	switch v := payload.Claims["email_verified"].(type) {
	case bool:
		verified = v
	case string:
		// Google's tokeninfo endpoint returns "true"/"false" strings.
		verified = v == "true"
	}

	return &authdomain.ExternalProfile{
		Provider:      authdomain.ProviderGoogle,
		ExternalID:    payload.Subject,
		Email:         claim("email"),
		FirstName:     claim("given_name"),
		LastName:      claim("family_name"),
		Avatar:        claim("picture"),
		EmailVerified: verified,
	}
}
