package v1

import (
	"os"
	"time"

	"github.com/finaccosolutions/finacco-backend/internal/assistant/workflow"
	"github.com/finaccosolutions/finacco-backend/internal/auth"
	"github.com/finaccosolutions/finacco-backend/internal/config"
	"github.com/finaccosolutions/finacco-backend/internal/ratelimit"
	"github.com/finaccosolutions/finacco-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
)

// chat submissions per user per rolling window
const (
	chatRateLimit  = 3
	chatRateWindow = time.Minute
)

func RegisterRoutes(r fiber.Router) {
	registerHealth(r)

	jwtService := newJWTService()
	historyRepo := repo.NewChatHistoryRepository(config.DB)
	limiter := ratelimit.NewLimiter(chatRateLimit, chatRateWindow)
	engine := workflow.NewEngine(historyRepo, limiter, nil)

	// drop idle limiter entries so the map does not grow forever
	go func() {
		for range time.Tick(10 * time.Minute) {
			limiter.Purge()
		}
	}()

	registerAuth(r, jwtService)
	registerAccount(r, jwtService)
	registerChat(r, jwtService, historyRepo, engine)
	registerDocuments(r, jwtService, engine)
}

func newJWTService() *auth.JWTService {
	expiresIn := 24 * time.Hour
	if v := os.Getenv("JWT_EXPIRES_IN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			expiresIn = d
		}
	}
	return auth.NewJWTService(os.Getenv("JWT_SECRET"), "finacco-backend", expiresIn)
}
