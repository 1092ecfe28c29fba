package v1

import (
	"github.com/finaccosolutions/finacco-backend/internal/auth"
	"github.com/finaccosolutions/finacco-backend/internal/config"
	"github.com/finaccosolutions/finacco-backend/internal/handlers"
	"github.com/finaccosolutions/finacco-backend/internal/middleware"
	"github.com/finaccosolutions/finacco-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
)

func registerAccount(r fiber.Router, jwtService *auth.JWTService) {
	// Initialize handlers
	profileRepo := repo.NewProfileRepository(config.DB)
	apiKeyRepo := repo.NewApiKeyRepository(config.DB)
	profileHandler := handlers.NewProfileHandler(profileRepo)
	apiKeyHandler := handlers.NewApiKeyHandler(apiKeyRepo)

	authed := middleware.RequireAuth(jwtService)

	// Register routes
	r.Get("/profile", authed, profileHandler.GetProfile)
	r.Put("/profile", authed, profileHandler.UpdateProfile)
	r.Get("/apikey", authed, apiKeyHandler.GetApiKey)
	r.Put("/apikey", authed, apiKeyHandler.UpdateApiKey)
}
