package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/finaccosolutions/finacco-backend/internal/assistant/workflow"
	"github.com/finaccosolutions/finacco-backend/internal/libraries"
	"github.com/finaccosolutions/finacco-backend/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChatStreamProcessor bridges websocket chat frames to the conversation
// engine and plays the finished reply back word by word.
type ChatStreamProcessor struct {
	engine *workflow.Engine
}

func NewChatStreamProcessor(engine *workflow.Engine) *ChatStreamProcessor {
	return &ChatStreamProcessor{engine: engine}
}

func (p *ChatStreamProcessor) ProcessChatMessage(hub *libraries.Hub, client *libraries.Client, payload *libraries.ChatMessagePayload) {
	input := workflow.ExchangeInput{
		UserID:    client.UserID,
		GeminiKey: client.GeminiKey,
		Message:   payload.Message,
	}
	if payload.ChatId != "" {
		chatID, err := uuid.Parse(payload.ChatId)
		if err != nil {
			libraries.SendErrorMessage(hub, client, "Invalid chat ID")
			return
		}
		input.ChatID = &chatID
	}

	result, err := p.engine.RunExchange(context.Background(), input)
	if err != nil {
		libraries.SendErrorMessage(hub, client, exchangeErrorText(err))
		return
	}

	starting := &libraries.ChatMessageResponsePayload{
		ChatId:         result.ChatID.String(),
		HumanMessageId: result.UserMessage.ID,
		AiMessageId:    result.Reply.ID,
		Data: fiber.Map{
			"title":    result.Title,
			"new_chat": result.NewChat,
		},
	}
	libraries.SendChatMessageResponse(hub, client, libraries.WebSocketMessageTypeChatStarting, starting)

	// the reply is already final, the frames just simulate typing
	words := strings.Fields(result.Reply.Content)
	accumulated := ""
	for _, word := range words {
		if accumulated == "" {
			accumulated = word
		} else {
			accumulated += " " + word
		}
		frame := &libraries.ChatMessageResponsePayload{
			ChatId:         result.ChatID.String(),
			Message:        accumulated,
			HumanMessageId: result.UserMessage.ID,
			AiMessageId:    result.Reply.ID,
		}
		libraries.SendChatMessageResponse(hub, client, libraries.WebSocketMessageTypeChatResponse, frame)
	}

	completed := &libraries.ChatMessageResponsePayload{
		ChatId:         result.ChatID.String(),
		Message:        result.Reply.Content,
		HumanMessageId: result.UserMessage.ID,
		AiMessageId:    result.Reply.ID,
	}
	if result.DocumentRequest != nil {
		completed.Data = fiber.Map{
			"document_request": result.DocumentRequest,
		}
	}
	libraries.SendChatMessageResponse(hub, client, libraries.WebSocketMessageTypeChatCompleted, completed)
}

// exchangeErrorText is the websocket counterpart of exchangeError
func exchangeErrorText(err error) string {
	var limited *workflow.RateLimitedError
	switch {
	case errors.Is(err, workflow.ErrEmptyMessage):
		return "Message is required"
	case errors.As(err, &limited):
		return fmt.Sprintf("You're sending messages too quickly. Please wait %d seconds.", retryAfterSeconds(limited))
	case errors.Is(err, workflow.ErrBusy):
		return "Please wait for the current reply to finish"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "Chat not found"
	case errors.Is(err, workflow.ErrUpstream):
		return "The assistant is unavailable right now. Please try again."
	default:
		logger.Error("chat exchange failed", zap.Error(err))
		return "Failed to process message"
	}
}
