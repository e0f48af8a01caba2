package api

import (
	"net/http"

	"edumee-backend/internal/auth/delivery"
	authUsecase "edumee-backend/internal/auth/usecase"
	userDelivery "edumee-backend/internal/user/delivery"
	userUsecase "edumee-backend/internal/user/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, userUsecase userUsecase.UserUsecase) {
	authHandler := delivery.NewAuthHandler(authUsecase)
	userHandler := userDelivery.NewUserHandler(userUsecase)

	api := r.Group("/api/v1")

	// Health check (no auth required)
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes := append(authHandler.Routes(), userHandler.Routes()...)
	delivery.RegisterRoutes(api, authUsecase, routes)
}
