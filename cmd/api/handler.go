package api

import (
	"fmt"
	"net/http"

	authUsecase "edumee-backend/internal/auth/usecase"
	userUsecase "edumee-backend/internal/user/usecase"
	"edumee-backend/pkg/config"
	"edumee-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase authUsecase.AuthUsecase
	userUsecase userUsecase.UserUsecase
	config      *config.Config
	limiter     *ratelimit.Limiter
}

func NewHandler(authUc authUsecase.AuthUsecase, userUc userUsecase.UserUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase: authUc,
		userUsecase: userUc,
		config:      cfg,
		limiter:     ratelimit.NewLimiter(cfg.ThrottleTTL, cfg.ThrottleLimit),
	}
}

// Engine builds the gin engine with middleware and routes attached.
func (h *Handler) Engine() (*gin.Engine, error) {
	if h.config.GinMode != "" {
		gin.SetMode(h.config.GinMode)
	}

	r := gin.New()
	// ClientIP keys the throttle, so forwarded headers only count from known proxies.
	if err := r.SetTrustedProxies(h.config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(corsMiddleware(h.config.CORSOrigin))
	r.Use(ratelimit.Middleware(h.limiter))

	SetupRoutes(r, h.authUsecase, h.userUsecase)
	return r, nil
}

func (h *Handler) Start(addr string) error {
	r, err := h.Engine()
	if err != nil {
		return err
	}

	h.limiter.Start()
	defer h.limiter.Stop()

	return r.Run(addr)
}

func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (allowedOrigin == "*" || origin == allowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
