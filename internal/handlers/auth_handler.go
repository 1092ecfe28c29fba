package handlers

import (
	"errors"

	"github.com/finaccosolutions/finacco-backend/internal/auth"
	"github.com/finaccosolutions/finacco-backend/internal/logger"
	"github.com/finaccosolutions/finacco-backend/internal/middleware"
	"github.com/finaccosolutions/finacco-backend/internal/repo"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validate = validator.New()

// for simple account operations service layer is not required
type AuthHandler struct {
	userRepo    repo.UserRepoInterface
	profileRepo repo.ProfileRepoInterface
	apiKeyRepo  repo.ApiKeyRepoInterface
	jwtService  *auth.JWTService
}

func NewAuthHandler(userRepo repo.UserRepoInterface, profileRepo repo.ProfileRepoInterface, apiKeyRepo repo.ApiKeyRepoInterface, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		apiKeyRepo:  apiKeyRepo,
		jwtService:  jwtService,
	}
}

// function to create an account
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var dto struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := validate.Var(dto.Email, "required,email"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A valid email address is required",
		})
	}

	passwordHash, err := auth.HashPassword(dto.Password)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if _, err := h.userRepo.GetUserByEmail(dto.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "An account with this email already exists",
		})
	}

	user, err := h.userRepo.CreateUserWithProfile(dto.Email, passwordHash, dto.FullName, dto.Phone)
	if err != nil {
		logger.Error("failed to create account", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create account",
		})
	}

	token, err := h.jwtService.GenerateToken(user.UUID, user.Email)
	if err != nil {
		logger.Error("failed to issue token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create account",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.UUID.String(),
			"email": user.Email,
		},
	})
}

// function to sign in
func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	var dto struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.userRepo.GetUserByEmail(dto.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, dto.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Incorrect email or password",
		})
	}

	token, err := h.jwtService.GenerateToken(user.UUID, user.Email)
	if err != nil {
		logger.Error("failed to issue token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to sign in",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.UUID.String(),
			"email": user.Email,
		},
	})
}

// function to refresh an unexpired token
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	tokenString, err := auth.ExtractTokenFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Please sign in to continue",
			"code":  "signin_required",
		})
	}

	token, err := h.jwtService.RefreshToken(tokenString)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Please sign in to continue",
			"code":  "signin_required",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": token,
	})
}

// tokens are stateless, signout just acknowledges so the widget can clear its copy
func (h *AuthHandler) Signout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Signed out",
	})
}

// function to describe the current session, the widget calls this on load
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	user, err := h.userRepo.GetUserById(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Please sign in to continue",
			"code":  "signin_required",
		})
	}

	fullName, phone := "", ""
	if profile, err := h.profileRepo.GetProfileByUserId(userID); err == nil {
		fullName = profile.FullName
		phone = profile.Phone
	}

	hasApiKey := false
	if apiKey, err := h.apiKeyRepo.GetApiKeyByUserId(userID); err == nil && apiKey.Key != "" {
		hasApiKey = true
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("failed to check api key", zap.Error(err))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": fiber.Map{
			"id":    user.UUID.String(),
			"email": user.Email,
		},
		"profile": fiber.Map{
			"full_name": fullName,
			"phone":     phone,
		},
		"api_key_configured": hasApiKey,
	})
}
