package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"edumee-backend/internal/apperror"
	authdomain "edumee-backend/internal/auth/domain"
	authdto "edumee-backend/internal/auth/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
	googleoauth2 "google.golang.org/api/oauth2/v2"
)

func TestGoogleIDToken(t *testing.T) {
	p := NewGoogleProvider("client-id", "secret", "http://localhost/cb")
	p.validateIDToken = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		assert.Equal(t, "raw-id-token", token)
		assert.Equal(t, "client-id", audience)
		return &idtoken.Payload{
			Subject: "g-123",
			Claims: map[string]interface{}{
				"email":          "jane@example.com",
				"email_verified": true,
				"given_name":     "Jane",
				"family_name":    "Doe",
				"picture":        "https://lh3.example/jane.png",
			},
		}, nil
	}

	profile, err := p.Resolve(context.Background(), &authdto.ExternalSignInRequest{IDToken: "raw-id-token"})
	require.NoError(t, err)
	assert.Equal(t, authdomain.ProviderGoogle, profile.Provider)
	assert.Equal(t, "g-123", profile.ExternalID)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Equal(t, "Doe", profile.LastName)
	assert.True(t, profile.EmailVerified)
}

func TestGoogleRejectsUnverifiedEmail(t *testing.T) {
	p := NewGoogleProvider("client-id", "secret", "")
	p.validateIDToken = func(context.Context, string, string) (*idtoken.Payload, error) {
		return &idtoken.Payload{Subject: "g-1", Claims: map[string]interface{}{"email": "x@example.com", "email_verified": "false"}}, nil
	}

	_, err := p.Resolve(context.Background(), &authdto.ExternalSignInRequest{IDToken: "t"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestGoogleInvalidIDToken(t *testing.T) {
	p := NewGoogleProvider("client-id", "secret", "")
	p.validateIDToken = func(context.Context, string, string) (*idtoken.Payload, error) {
		return nil, errors.New("idtoken: token expired")
	}

	_, err := p.Resolve(context.Background(), &authdto.ExternalSignInRequest{IDToken: "t"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.NotContains(t, err.Error(), "expired")
}

func tokenEndpoint(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"provider-access","token_type":"bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleAuthorizationCode(t *testing.T) {
	srv := tokenEndpoint(t)
	p := NewGoogleProvider("client-id", "secret", "http://localhost/cb")
	p.config.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
	verified := true
	p.fetchUserinfo = func(_ context.Context, src oauth2.TokenSource) (*googleoauth2.Userinfo, error) {
		tok, err := src.Token()
		require.NoError(t, err)
		assert.Equal(t, "provider-access", tok.AccessToken)
		return &googleoauth2.Userinfo{Id: "g-77", Email: "code@example.com", GivenName: "Code", VerifiedEmail: &verified}, nil
	}

	profile, err := p.Resolve(context.Background(), &authdto.ExternalSignInRequest{Code: "good-code"})
	require.NoError(t, err)
	assert.Equal(t, "g-77", profile.ExternalID)
	assert.Equal(t, "Code", profile.FirstName)

	_, err = p.Resolve(context.Background(), &authdto.ExternalSignInRequest{Code: "bad-code"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestGoogleAuthCodeURL(t *testing.T) {
	p := NewGoogleProvider("client-id", "secret", "http://localhost/cb")
	u := p.AuthCodeURL("state-1")
	assert.True(t, strings.HasPrefix(u, "https://accounts.google.com/"))
	assert.Contains(t, u, "state=state-1")
	assert.Contains(t, u, "client_id=client-id")
}

func TestFacebookAuthorizationCode(t *testing.T) {
	srv := tokenEndpoint(t)
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer provider-access", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Query().Get("fields"), "email")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"fb-1","email":"fb@example.com","first_name":"Fay","last_name":"Book","picture":{"data":{"url":"https://fb.example/p.jpg"}}}`))
	}))
	defer graph.Close()

	p := NewFacebookProvider("app-id", "app-secret", "http://localhost/cb")
	p.config.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
	p.graphURL = graph.URL + "/me"

	profile, err := p.Resolve(context.Background(), &authdto.ExternalSignInRequest{Code: "good-code"})
	require.NoError(t, err)
	assert.Equal(t, authdomain.ProviderFacebook, profile.Provider)
	assert.Equal(t, "fb-1", profile.ExternalID)
	assert.Equal(t, "Fay", profile.FirstName)
	assert.Equal(t, "https://fb.example/p.jpg", profile.Avatar)
	assert.True(t, profile.EmailVerified)
}

func TestFacebookGraphFailure(t *testing.T) {
	srv := tokenEndpoint(t)
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer graph.Close()

	p := NewFacebookProvider("app-id", "app-secret", "")
	p.config.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
	p.graphURL = graph.URL + "/me"

	_, err := p.Resolve(context.Background(), &authdto.ExternalSignInRequest{Code: "good-code"})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperror.StatusCode(err))
}

func TestFacebookRequiresCode(t *testing.T) {
	p := NewFacebookProvider("app-id", "app-secret", "")
	_, err := p.Resolve(context.Background(), &authdto.ExternalSignInRequest{IDToken: "x"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}
