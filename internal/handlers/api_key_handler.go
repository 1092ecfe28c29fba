package handlers

import (
	"errors"
	"strings"

	"github.com/finaccosolutions/finacco-backend/internal/logger"
	"github.com/finaccosolutions/finacco-backend/internal/middleware"
	"github.com/finaccosolutions/finacco-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ApiKeyHandler struct {
	apiKeyRepo repo.ApiKeyRepoInterface
}

func NewApiKeyHandler(apiKeyRepo repo.ApiKeyRepoInterface) *ApiKeyHandler {
	return &ApiKeyHandler{apiKeyRepo: apiKeyRepo}
}

// function to show the stored credential. only the masked form ever leaves
// the server.
func (h *ApiKeyHandler) GetApiKey(c *fiber.Ctx) error {
	apiKey, err := h.apiKeyRepo.GetApiKeyByUserId(middleware.UserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"has_api_key": false,
			})
		}
		logger.Error("failed to get api key", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get API key",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"has_api_key": true,
		"api_key":     apiKey.Masked(),
	})
}

// function to store or replace the credential
func (h *ApiKeyHandler) UpdateApiKey(c *fiber.Ctx) error {
	var dto struct {
		ApiKey string `json:"api_key"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(dto.ApiKey) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "API key is required",
		})
	}

	apiKey, err := h.apiKeyRepo.UpsertApiKey(middleware.UserID(c), dto.ApiKey)
	if err != nil {
		logger.Error("failed to store api key", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store API key",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "API key saved",
		"api_key": apiKey.Masked(),
	})
}
