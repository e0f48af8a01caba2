package delivery

import (
	"net/http"

	authdomain "edumee-backend/internal/auth/domain"
	authdto "edumee-backend/internal/auth/dto"
	"edumee-backend/internal/auth/usecase"
	"edumee-backend/pkg/httpx"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Routes returns the /auth endpoints.
func (h *AuthHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodPost, Path: "/auth/register", Handler: h.Register},
		{Method: http.MethodPost, Path: "/auth/login", Handler: h.Login},
		{Method: http.MethodPost, Path: "/auth/refresh", Handler: h.RefreshToken},
		{Method: http.MethodPost, Path: "/auth/google", Handler: h.ExternalSignIn(authdomain.ProviderGoogle)},
		{Method: http.MethodPost, Path: "/auth/facebook", Handler: h.ExternalSignIn(authdomain.ProviderFacebook)},
		{Method: http.MethodGet, Path: "/auth/providers/:provider/url", Handler: h.AuthURL},
		{Method: http.MethodGet, Path: "/auth/me", Auth: true, Handler: h.Me},
	}
}

// Register creates an account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	resp, err := h.authUsecase.Register(c.Request.Context(), &req)
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login signs in with email and password
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	resp, err := h.authUsecase.Login(c.Request.Context(), &req)
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExternalSignIn signs in through Google or Facebook
// POST /api/v1/auth/google, POST /api/v1/auth/facebook
func (h *AuthHandler) ExternalSignIn(provider authdomain.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authdto.ExternalSignInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BindError(c, err)
			return
		}

		resp, err := h.authUsecase.ExternalSignIn(c.Request.Context(), provider, &req)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// AuthURL returns the provider consent page
// GET /api/v1/auth/providers/:provider/url?state=...
func (h *AuthHandler) AuthURL(c *gin.Context) {
	provider := authdomain.Provider(c.Param("provider"))
	if !provider.Valid() {
		httpx.Abort(c, http.StatusNotFound, "Unknown provider")
		return
	}

	url, err := h.authUsecase.ExternalAuthURL(provider, c.Query("state"))
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, authdto.AuthURLResponse{URL: url})
}

// RefreshToken mints a new access token
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	resp, err := h.authUsecase.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the signed-in user
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	current := GetCurrentUser(c)

	user, err := h.authUsecase.Me(c.Request.Context(), current.UserID)
	if err != nil {
		httpx.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
