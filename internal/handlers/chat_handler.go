package handlers

import (
	"errors"
	"math"

	"github.com/finaccosolutions/finacco-backend/internal/assistant/workflow"
	"github.com/finaccosolutions/finacco-backend/internal/logger"
	"github.com/finaccosolutions/finacco-backend/internal/middleware"
	"github.com/finaccosolutions/finacco-backend/internal/models"
	"github.com/finaccosolutions/finacco-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ChatHandler struct {
	historyRepo repo.ChatHistoryRepoInterface
	engine      *workflow.Engine
}

func NewChatHandler(historyRepo repo.ChatHistoryRepoInterface, engine *workflow.Engine) *ChatHandler {
	return &ChatHandler{
		historyRepo: historyRepo,
		engine:      engine,
	}
}

// function to run one chat exchange over plain http. the websocket path
// streams the same exchange word by word.
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	var dto struct {
		ChatID  string `json:"chat_id"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	input := workflow.ExchangeInput{
		UserID:    middleware.UserID(c),
		GeminiKey: middleware.GeminiKey(c),
		Message:   dto.Message,
	}
	if dto.ChatID != "" {
		chatID, err := uuid.Parse(dto.ChatID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid chat ID",
			})
		}
		input.ChatID = &chatID
	}

	result, err := h.engine.RunExchange(c.Context(), input)
	if err != nil {
		return exchangeError(c, err)
	}

	resp := fiber.Map{
		"chat_id":  result.ChatID.String(),
		"title":    result.Title,
		"new_chat": result.NewChat,
		"messages": []models.Message{result.UserMessage, result.Reply},
	}
	if result.DocumentRequest != nil {
		resp["document_request"] = result.DocumentRequest
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// function to list the caller's chats, newest first
func (h *ChatHandler) GetChatHistories(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	histories, total, err := h.historyRepo.GetChatHistoriesByUserId(middleware.UserID(c), page, pageSize,
		"uuid", "title", "messages", "created_at", "updated_at")
	if err != nil {
		logger.Error("failed to list chats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get chat histories",
		})
	}

	items := make([]fiber.Map, 0, len(histories))
	for _, history := range histories {
		msgs, err := history.DecodeMessages()
		if err != nil {
			logger.Warn("failed to decode transcript", zap.String("chat_id", history.UUID.String()), zap.Error(err))
		}
		items = append(items, fiber.Map{
			"uuid":          history.UUID.String(),
			"title":         history.Title,
			"message_count": len(msgs),
			"created_at":    history.CreatedAt,
			"updated_at":    history.UpdatedAt,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"histories": items,
		"total":     total,
	})
}

// function to fetch one transcript with its full message list
func (h *ChatHandler) GetChatHistory(c *fiber.Ctx) error {
	chatID, err := uuid.Parse(c.Params("chatId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid chat ID",
		})
	}

	history, err := h.historyRepo.GetChatHistoryById(chatID, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Chat not found",
			})
		}
		logger.Error("failed to get chat", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get chat",
		})
	}

	messages, err := history.DecodeMessages()
	if err != nil {
		logger.Error("failed to decode transcript", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get chat",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"uuid":       history.UUID.String(),
		"title":      history.Title,
		"messages":   messages,
		"created_at": history.CreatedAt,
		"updated_at": history.UpdatedAt,
	})
}

// function to delete one chat
func (h *ChatHandler) DeleteChatHistory(c *fiber.Ctx) error {
	chatID, err := uuid.Parse(c.Params("chatId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid chat ID",
		})
	}

	if err := h.historyRepo.DeleteChatHistory(chatID, middleware.UserID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Chat not found",
			})
		}
		logger.Error("failed to delete chat", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete chat",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Chat deleted",
	})
}

// function to delete every chat the caller owns
func (h *ChatHandler) ClearChatHistories(c *fiber.Ctx) error {
	if err := h.historyRepo.ClearChatHistories(middleware.UserID(c)); err != nil {
		logger.Error("failed to clear chats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear chat histories",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Chat history cleared",
	})
}

// exchangeError maps conversation loop failures onto the widget's error
// contract
func exchangeError(c *fiber.Ctx, err error) error {
	var limited *workflow.RateLimitedError
	switch {
	case errors.Is(err, workflow.ErrEmptyMessage):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	case errors.As(err, &limited):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":               "You're sending messages too quickly. Please wait a moment.",
			"retry_after_seconds": retryAfterSeconds(limited),
		})
	case errors.Is(err, workflow.ErrBusy):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Please wait for the current reply to finish",
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Chat not found",
		})
	case errors.Is(err, workflow.ErrUpstream):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "The assistant is unavailable right now. Please try again.",
		})
	default:
		logger.Error("chat exchange failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process message",
		})
	}
}

// retryAfterSeconds rounds the wait up so the client never retries early
func retryAfterSeconds(limited *workflow.RateLimitedError) int {
	seconds := int(math.Ceil(limited.RetryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
