package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"edumee-backend/internal/apperror"
	authdomain "edumee-backend/internal/auth/domain"
	authdto "edumee-backend/internal/auth/dto"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

const facebookGraphMeURL = "https://graph.facebook.com/v19.0/me"

// FacebookProvider resolves Facebook authorization codes into profiles.
type FacebookProvider struct {
	config   *oauth2.Config
	graphURL string
}

func NewFacebookProvider(clientID, clientSecret, redirectURL string) *FacebookProvider {
	return &FacebookProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     facebook.Endpoint,
			Scopes:       []string{"email", "public_profile"},
		},
		graphURL: facebookGraphMeURL,
	}
}

func (p *FacebookProvider) Provider() authdomain.Provider {
	return authdomain.ProviderFacebook
}

func (p *FacebookProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

type facebookUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Picture   struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

func (p *FacebookProvider) Resolve(ctx context.Context, req *authdto.ExternalSignInRequest) (*authdomain.ExternalProfile, error) {
	if req.Code == "" {
		return nil, apperror.BadRequest("Facebook sign-in requires an authorization code")
	}

	cfg := *p.config
	if req.RedirectURI != "" {
		cfg.RedirectURL = req.RedirectURI
	}

	token, err := cfg.Exchange(ctx, req.Code)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid Facebook authorization code")
	}

	fbUser, err := p.fetchUser(ctx, cfg.Client(ctx, token))
	if err != nil {
		return nil, err
	}

	return &authdomain.ExternalProfile{
		Provider:   authdomain.ProviderFacebook,
		ExternalID: fbUser.ID,
		Email:      fbUser.Email,
		FirstName:  fbUser.FirstName,
		LastName:   fbUser.LastName,
		Avatar:     fbUser.Picture.Data.URL,
		// Graph only exposes confirmed addresses.
		EmailVerified: fbUser.Email != "",
	}, nil
}

func (p *FacebookProvider) fetchUser(ctx context.Context, client *http.Client) (*facebookUser, error) {
	q := url.Values{}
	q.Set("fields", "id,email,first_name,last_name,picture.type(large)")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.graphURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch facebook profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("fetch facebook profile: status %d, body: %s", resp.StatusCode, string(body))
	}

	var fbUser facebookUser
	if err := json.NewDecoder(resp.Body).Decode(&fbUser); err != nil {
		return nil, fmt.Errorf("decode facebook profile: %w", err)
	}
	return &fbUser, nil
}
