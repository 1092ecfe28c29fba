package v1

import (
	"github.com/finaccosolutions/finacco-backend/internal/auth"
	"github.com/finaccosolutions/finacco-backend/internal/config"
	"github.com/finaccosolutions/finacco-backend/internal/handlers"
	"github.com/finaccosolutions/finacco-backend/internal/middleware"
	"github.com/finaccosolutions/finacco-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
)

func registerAuth(r fiber.Router, jwtService *auth.JWTService) {
	// Initialize handler
	userRepo := repo.NewUserRepository(config.DB)
	profileRepo := repo.NewProfileRepository(config.DB)
	apiKeyRepo := repo.NewApiKeyRepository(config.DB)
	authHandler := handlers.NewAuthHandler(userRepo, profileRepo, apiKeyRepo, jwtService)

	// Register routes
	r.Post("/auth/signup", authHandler.Signup)
	r.Post("/auth/signin", authHandler.Signin)
	r.Post("/auth/refresh", authHandler.Refresh)
	r.Post("/auth/signout", authHandler.Signout)
	r.Get("/auth/session", middleware.RequireAuth(jwtService), authHandler.Session)
}
