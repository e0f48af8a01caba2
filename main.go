package main

import (
	"context"
	"log"
	"time"

	api "edumee-backend/cmd/api"
	authdomain "edumee-backend/internal/auth/domain"
	authRepo "edumee-backend/internal/auth/repository"
	authUsecase "edumee-backend/internal/auth/usecase"
	userUsecase "edumee-backend/internal/user/usecase"
	"edumee-backend/pkg/config"
	"edumee-backend/pkg/database"
	"edumee-backend/pkg/oauth"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	userRepo, cleanup, err := newUserRepository(cfg)
	if err != nil {
		log.Fatal("Failed to initialize identity store:", err)
	}
	defer cleanup()

	tokens := authUsecase.NewTokenService(authUsecase.TokenConfig{
		AccessSecret:  cfg.JWTSecret,
		AccessExpiry:  cfg.JWTAccessExpiry,
		RefreshSecret: cfg.JWTRefreshSecret,
		RefreshExpiry: cfg.JWTRefreshExpiry,
	})

	var resolvers []authUsecase.ProfileResolver
	if cfg.GoogleEnabled() {
		resolvers = append(resolvers, oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI))
	} else {
		log.Printf("[WARN] GOOGLE_CLIENT_ID not configured, Google sign-in disabled")
	}
	if cfg.FacebookEnabled() {
		resolvers = append(resolvers, oauth.NewFacebookProvider(cfg.FacebookClientID, cfg.FacebookClientSecret, cfg.FacebookRedirectURI))
	} else {
		log.Printf("[WARN] FACEBOOK_CLIENT_ID not configured, Facebook sign-in disabled")
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, tokens, resolvers...)
	userUsecaseInstance := userUsecase.NewUserUsecase(userRepo)

	handler := api.NewHandler(authUsecaseInstance, userUsecaseInstance, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func newUserRepository(cfg *config.Config) (authRepo.UserRepository, func(), error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := database.NewPostgresConnection(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := db.AutoMigrate(&authdomain.User{}); err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		log.Printf("[DB] Using PostgreSQL identity store")
		return authRepo.NewGormUserRepository(db), cleanup, nil

	case config.DriverMemory:
		log.Printf("[DB] Using in-memory identity store, data is lost on restart")
		return authRepo.NewMemoryUserRepository(), func() {}, nil

	default:
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		client, db, err := database.NewMongoConnection(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		repo, err := authRepo.NewMongoUserRepository(ctx, db)
		if err != nil {
			client.Disconnect(context.Background())
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("[DB] Mongo disconnect: %v", err)
			}
		}
		log.Printf("[DB] Using MongoDB identity store (%s)", cfg.MongoDatabase)
		return repo, cleanup, nil
	}
}
