package v1

import (
	"github.com/finaccosolutions/finacco-backend/internal/assistant/workflow"
	"github.com/finaccosolutions/finacco-backend/internal/auth"
	"github.com/finaccosolutions/finacco-backend/internal/config"
	"github.com/finaccosolutions/finacco-backend/internal/handlers"
	"github.com/finaccosolutions/finacco-backend/internal/libraries"
	"github.com/finaccosolutions/finacco-backend/internal/middleware"
	"github.com/finaccosolutions/finacco-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
)

var hub *libraries.Hub

func init() {
	// Initialize the Hub once
	hub = libraries.NewHub()
	// Start the Hub in a goroutine
	go hub.Run()
}

func registerChat(r fiber.Router, jwtService *auth.JWTService, historyRepo repo.ChatHistoryRepoInterface, engine *workflow.Engine) {
	chatHandler := handlers.NewChatHandler(historyRepo, engine)
	processor := handlers.NewChatStreamProcessor(engine)

	authed := middleware.RequireAuth(jwtService)
	withKey := middleware.RequireAPIKey(repo.NewApiKeyRepository(config.DB))

	// Register routes
	r.Post("/chat/messages", authed, withKey, chatHandler.SendMessage)
	r.Get("/chat/histories", authed, chatHandler.GetChatHistories)
	r.Get("/chat/histories/:chatId", authed, chatHandler.GetChatHistory)
	r.Delete("/chat/histories/:chatId", authed, chatHandler.DeleteChatHistory)
	r.Delete("/chat/histories", authed, chatHandler.ClearChatHistories)

	// Use the Hub-based WebSocket handler
	r.Get("/ws", authed, withKey, libraries.WebSocketHandler(hub, processor))
}
