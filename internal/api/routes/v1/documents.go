package v1

import (
	"github.com/finaccosolutions/finacco-backend/internal/assistant/workflow"
	"github.com/finaccosolutions/finacco-backend/internal/auth"
	"github.com/finaccosolutions/finacco-backend/internal/config"
	"github.com/finaccosolutions/finacco-backend/internal/handlers"
	"github.com/finaccosolutions/finacco-backend/internal/middleware"
	"github.com/finaccosolutions/finacco-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
)

func registerDocuments(r fiber.Router, jwtService *auth.JWTService, engine *workflow.Engine) {
	documentHandler := handlers.NewDocumentHandler(engine, hub)

	authed := middleware.RequireAuth(jwtService)
	withKey := middleware.RequireAPIKey(repo.NewApiKeyRepository(config.DB))

	// Register routes
	r.Post("/documents/schema", authed, withKey, documentHandler.ProposeSchema)
	r.Post("/documents/generate", authed, withKey, documentHandler.GenerateDocument)
	r.Post("/documents/export", authed, withKey, documentHandler.ExportDocument)
}
