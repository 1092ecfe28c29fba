package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/finaccosolutions/finacco-backend/internal/assistant/agents"
	"github.com/finaccosolutions/finacco-backend/internal/assistant/documents"
	"github.com/finaccosolutions/finacco-backend/internal/assistant/intent"
	llmHandlers "github.com/finaccosolutions/finacco-backend/internal/llm_handlers"
	"github.com/finaccosolutions/finacco-backend/internal/logger"
	"github.com/finaccosolutions/finacco-backend/internal/metrics"
	"github.com/finaccosolutions/finacco-backend/internal/models"
	"github.com/finaccosolutions/finacco-backend/internal/ratelimit"
	"github.com/finaccosolutions/finacco-backend/internal/repo"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const historyWindow = 20

var (
	ErrEmptyMessage = errors.New("message cannot be empty")
	// ErrBusy means the conversation already has an exchange in flight
	ErrBusy = errors.New("a reply is already being prepared for this conversation")
	// ErrUpstream wraps provider failures so handlers can answer with a banner
	ErrUpstream = errors.New("assistant is unavailable")
)

// RateLimitedError carries the wait estimate the widget shows the user
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit reached, retry in %s", e.RetryAfter.Round(time.Second))
}

// ClientFactory builds a provider client for one exchange. geminiKey is the
// requesting user's stored credential.
type ClientFactory func(ctx context.Context, geminiKey string) (llmHandlers.Client, error)

// Engine runs the conversation loop: rate limit, classify, reply, persist.
// Both the REST handler and the websocket processor call into it.
type Engine struct {
	histories repo.ChatHistoryRepoInterface
	limiter   *ratelimit.Limiter
	newClient ClientFactory

	// one in-flight exchange per conversation
	inFlight sync.Map
}

func NewEngine(histories repo.ChatHistoryRepoInterface, limiter *ratelimit.Limiter, factory ClientFactory) *Engine {
	if factory == nil {
		factory = func(ctx context.Context, geminiKey string) (llmHandlers.Client, error) {
			return llmHandlers.NewLLMClient(ctx, geminiKey)
		}
	}
	return &Engine{
		histories: histories,
		limiter:   limiter,
		newClient: factory,
	}
}

type ExchangeInput struct {
	UserID    uuid.UUID
	GeminiKey string
	ChatID    *uuid.UUID // nil starts a new conversation
	Message   string
}

// DocumentRequest tells the widget to open the field wizard
type DocumentRequest struct {
	DocumentType string `json:"document_type"`
}

type ExchangeResult struct {
	ChatID          uuid.UUID
	Title           string
	UserMessage     models.Message
	Reply           models.Message
	DocumentRequest *DocumentRequest
	NewChat         bool
}

// RunExchange performs one user turn end to end. Nothing is persisted when the
// provider fails, so a failed exchange leaves the transcript untouched.
func (e *Engine) RunExchange(ctx context.Context, in ExchangeInput) (*ExchangeResult, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	// the limiter runs before any network call
	if ok, wait := e.limiter.Allow(in.UserID.String()); !ok {
		metrics.RateLimitRejections.Inc()
		return nil, &RateLimitedError{RetryAfter: wait}
	}

	var history *models.ChatHistory
	var conversation []llmHandlers.Message

	if in.ChatID != nil {
		h, err := e.histories.GetChatHistoryById(*in.ChatID, in.UserID)
		if err != nil {
			return nil, err
		}
		history = h

		if _, loaded := e.inFlight.LoadOrStore(h.UUID.String(), struct{}{}); loaded {
			return nil, ErrBusy
		}
		defer e.inFlight.Delete(h.UUID.String())

		conversation, err = e.histories.GetConversation(h.UUID, in.UserID, historyWindow)
		if err != nil {
			return nil, err
		}
	}

	client, clientErr := e.newClient(ctx, in.GeminiKey)
	if clientErr != nil {
		logger.Warn("provider client unavailable", zap.Error(clientErr))
		client = nil
	}

	userMsg := models.NewMessage(models.RoleUser, message)
	userMsg.Name = "You"

	var reply models.Message
	var docReq *DocumentRequest

	classified := intent.Classify(ctx, tuneForClassification(client), message)
	switch classified.Kind {
	case intent.KindDocument:
		docReq = &DocumentRequest{DocumentType: classified.DocumentType}
		reply = assistantMessage(documentAckHTML(classified.DocumentType))

	case intent.KindFAQ:
		reply = assistantMessage(classified.Answer)

	default:
		if client == nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, clientErr)
		}
		agent := agents.NewAgent(tuneForReply(client))
		start := time.Now()
		answer, err := agent.ProcessRequest(ctx, message, conversation)
		metrics.ObserveLLM("chat_reply", start, err)
		if err != nil {
			logger.Error("assistant reply failed", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		reply = assistantMessage(answer)
	}

	if history == nil {
		created, err := e.histories.CreateChatHistory(in.UserID, models.TitleFromContent(message), []models.Message{userMsg, reply})
		if err != nil {
			return nil, fmt.Errorf("save conversation: %w", err)
		}
		return &ExchangeResult{
			ChatID:          created.UUID,
			Title:           created.Title,
			UserMessage:     userMsg,
			Reply:           reply,
			DocumentRequest: docReq,
			NewChat:         true,
		}, nil
	}

	if _, err := e.histories.AppendMessages(history.UUID, in.UserID, userMsg, reply); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}

	return &ExchangeResult{
		ChatID:          history.UUID,
		Title:           history.Title,
		UserMessage:     userMsg,
		Reply:           reply,
		DocumentRequest: docReq,
	}, nil
}

// AttachDocument appends a finished document to the transcript as an
// assistant message flagged for document rendering.
func (e *Engine) AttachDocument(chatID uuid.UUID, userID uuid.UUID, doc documents.Rendered) (*models.Message, error) {
	msg := assistantMessage(doc.HTML)
	msg.IsDocument = true

	if _, err := e.histories.AppendMessages(chatID, userID, msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// NewClient exposes the factory so document endpoints reuse the same provider
// selection as the chat loop.
func (e *Engine) NewClient(ctx context.Context, geminiKey string) (llmHandlers.Client, error) {
	return e.newClient(ctx, geminiKey)
}

func assistantMessage(html string) models.Message {
	msg := models.NewMessage(models.RoleAssistant, html)
	msg.Name = "Finacco Assistant"
	return msg
}

func documentAckHTML(documentType string) string {
	return "<p>Sure, let's prepare your <b>" + documents.Title(documentType) + "</b>. I'll collect the details in a short form.</p>"
}

// tuneForClassification drops the temperature for the one-line label call.
// Only the gemini client exposes generation knobs; other providers run with
// their defaults.
func tuneForClassification(client llmHandlers.Client) llmHandlers.Client {
	if g, ok := client.(*llmHandlers.GenaiGeminiClient); ok {
		g.Temperature = 0
		g.MaxTokens = 16
	}
	return client
}

func tuneForReply(client llmHandlers.Client) llmHandlers.Client {
	if g, ok := client.(*llmHandlers.GenaiGeminiClient); ok {
		g.Temperature = 0.7
		g.MaxTokens = 1024
	}
	return client
}
