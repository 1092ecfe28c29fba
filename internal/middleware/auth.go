package middleware

import (
	"errors"
	"strings"

	"github.com/finaccosolutions/finacco-backend/internal/auth"
	"github.com/finaccosolutions/finacco-backend/internal/logger"
	"github.com/finaccosolutions/finacco-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RequireAuth validates the bearer token and stores the caller identity in
// locals. Websocket clients cannot set headers so the token may also come
// in as a query parameter.
func RequireAuth(jwtService *auth.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := ""
		if header := c.Get("Authorization"); header != "" {
			if ts, err := auth.ExtractTokenFromHeader(header); err == nil {
				tokenString = ts
			}
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			return signinRequired(c)
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			return signinRequired(c)
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_email", claims.Email)
		return c.Next()
	}
}

// RequireAPIKey loads the caller's stored Gemini key into locals. The
// assistant routes sit behind this so a signed in user without a key gets
// a clear next step instead of a provider error.
func RequireAPIKey(apiKeyRepo repo.ApiKeyRepoInterface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(uuid.UUID)
		if !ok || userID == uuid.Nil {
			return signinRequired(c)
		}

		apiKey, err := apiKeyRepo.GetApiKeyByUserId(userID)
		if err != nil || strings.TrimSpace(apiKey.Key) == "" {
			// lookup errors deny too, there is no partial trust
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Error("api key lookup failed", zap.Error(err))
			}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Add your Gemini API key in settings to use the assistant",
				"code":  "api_key_required",
			})
		}

		c.Locals("gemini_key", apiKey.Key)
		return c.Next()
	}
}

func signinRequired(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Please sign in to continue",
		"code":  "signin_required",
	})
}

// UserID returns the authenticated user id stored by RequireAuth.
func UserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals("user_id").(uuid.UUID)
	return id
}

// GeminiKey returns the stored model credential loaded by RequireAPIKey.
func GeminiKey(c *fiber.Ctx) string {
	key, _ := c.Locals("gemini_key").(string)
	return key
}
