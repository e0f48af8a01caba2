package delivery

import (
	"net/http"

	authdelivery "edumee-backend/internal/auth/delivery"
	authdomain "edumee-backend/internal/auth/domain"
	userdto "edumee-backend/internal/user/dto"
	"edumee-backend/internal/user/usecase"
	"edumee-backend/pkg/httpx"

	"github.com/gin-gonic/gin"
)

// UserHandler handles profile and account management requests
type UserHandler struct {
	userUsecase usecase.UserUsecase
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userUsecase usecase.UserUsecase) *UserHandler {
	return &UserHandler{userUsecase: userUsecase}
}

// Routes returns the /users endpoints.
func (h *UserHandler) Routes() []authdelivery.Route {
	adminOnly := []authdomain.Role{authdomain.RoleAdmin}

	return []authdelivery.Route{
		{Method: http.MethodGet, Path: "/users/me", Auth: true, Handler: h.GetMe},
		{Method: http.MethodPatch, Path: "/users/me", Auth: true, Handler: h.UpdateMe},
		{Method: http.MethodGet, Path: "/users/:id", Roles: adminOnly, Handler: h.GetByID},
		{Method: http.MethodPatch, Path: "/users/:id/role", Roles: adminOnly, Handler: h.ChangeRole},
		{Method: http.MethodPatch, Path: "/users/:id/status", Roles: adminOnly, Handler: h.SetStatus},
	}
}

// GetMe returns the caller's profile
// GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userUsecase.GetProfile(c.Request.Context(), authdelivery.GetCurrentUser(c).UserID)
	if err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe edits the caller's profile
// PATCH /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req userdto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	user, err := h.userUsecase.UpdateProfile(c.Request.Context(), authdelivery.GetCurrentUser(c).UserID, &req)
	if err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetByID returns any user's profile
// GET /api/v1/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.userUsecase.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangeRole assigns a role
// PATCH /api/v1/users/:id/role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	var req userdto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	actor := authdelivery.GetCurrentUser(c)
	user, err := h.userUsecase.ChangeRole(c.Request.Context(), actor.UserID, c.Param("id"), req.Role)
	if err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetStatus activates or deactivates an account
// PATCH /api/v1/users/:id/status
func (h *UserHandler) SetStatus(c *gin.Context) {
	var req userdto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	actor := authdelivery.GetCurrentUser(c)
	user, err := h.userUsecase.SetActive(c.Request.Context(), actor.UserID, c.Param("id"), *req.IsActive)
	if err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
