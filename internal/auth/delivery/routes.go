package delivery

import (
	authdomain "edumee-backend/internal/auth/domain"
	"edumee-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// Route pairs an endpoint with its access rule. A route with Roles is always
// authenticated; Auth alone admits any signed-in caller.
type Route struct {
	Method  string
	Path    string
	Auth    bool
	Roles   []authdomain.Role
	Handler gin.HandlerFunc
}

// RegisterRoutes mounts routes on r, wrapping each with the authentication
// and role checks its descriptor asks for.
func RegisterRoutes(r gin.IRouter, authUsecase usecase.AuthUsecase, routes []Route) {
	authenticate := AuthMiddleware(authUsecase)

	for _, route := range routes {
		handlers := make([]gin.HandlerFunc, 0, 3)
		if route.Auth || len(route.Roles) > 0 {
			handlers = append(handlers, authenticate, RequireRoles(route.Roles...))
		}
		handlers = append(handlers, route.Handler)
		r.Handle(route.Method, route.Path, handlers...)
	}
}
