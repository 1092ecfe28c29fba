package handlers

import (
	"errors"

	"github.com/finaccosolutions/finacco-backend/internal/logger"
	"github.com/finaccosolutions/finacco-backend/internal/middleware"
	"github.com/finaccosolutions/finacco-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProfileHandler struct {
	profileRepo repo.ProfileRepoInterface
}

func NewProfileHandler(profileRepo repo.ProfileRepoInterface) *ProfileHandler {
	return &ProfileHandler{profileRepo: profileRepo}
}

// function to get the caller's profile
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.profileRepo.GetProfileByUserId(middleware.UserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		logger.Error("failed to get profile", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get profile",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"profile": fiber.Map{
			"full_name": profile.FullName,
			"phone":     profile.Phone,
		},
	})
}

// function to update the caller's profile
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	var dto struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := h.profileRepo.UpdateProfile(middleware.UserID(c), dto.FullName, dto.Phone)
	if err != nil {
		logger.Error("failed to update profile", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update profile",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Profile updated",
		"profile": fiber.Map{
			"full_name": profile.FullName,
			"phone":     profile.Phone,
		},
	})
}
