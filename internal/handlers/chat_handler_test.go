package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finaccosolutions/finacco-backend/internal/assistant/workflow"
	llmHandlers "github.com/finaccosolutions/finacco-backend/internal/llm_handlers"
	"github.com/finaccosolutions/finacco-backend/internal/models"
	"github.com/finaccosolutions/finacco-backend/internal/ratelimit"
	"github.com/finaccosolutions/finacco-backend/internal/repo"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeLLM struct {
	replies []string
	err     error
	calls   int
}

func (f *fakeLLM) Chat(ctx context.Context, system string, messages []llmHandlers.Message) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "GENERAL", nil
	}
	idx := f.calls - 1
	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}
	return f.replies[idx], nil
}

type handlerEnv struct {
	app       *fiber.App
	histories repo.ChatHistoryRepoInterface
	engine    *workflow.Engine
	userID    uuid.UUID
}

// newHandlerEnv wires the real engine over an in-memory database, with a
// middleware stub standing in for the auth and api-key gates.
func newHandlerEnv(t *testing.T, client llmHandlers.Client, limiter *ratelimit.Limiter) *handlerEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ChatHistory{}))

	histories := repo.NewChatHistoryRepository(db)
	if limiter == nil {
		limiter = ratelimit.NewLimiter(3, time.Minute)
	}
	factory := func(ctx context.Context, geminiKey string) (llmHandlers.Client, error) {
		if client == nil {
			return nil, errors.New("no provider configured")
		}
		return client, nil
	}
	engine := workflow.NewEngine(histories, limiter, factory)

	env := &handlerEnv{
		histories: histories,
		engine:    engine,
		userID:    uuid.New(),
	}

	chatHandler := NewChatHandler(histories, engine)
	documentHandler := NewDocumentHandler(engine, nil)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", env.userID)
		c.Locals("gemini_key", "AIzaSy-test")
		return c.Next()
	})
	app.Post("/chat/messages", chatHandler.SendMessage)
	app.Get("/chat/histories", chatHandler.GetChatHistories)
	app.Get("/chat/histories/:chatId", chatHandler.GetChatHistory)
	app.Delete("/chat/histories/:chatId", chatHandler.DeleteChatHistory)
	app.Delete("/chat/histories", chatHandler.ClearChatHistories)
	app.Post("/documents/schema", documentHandler.ProposeSchema)
	app.Post("/documents/generate", documentHandler.GenerateDocument)
	app.Post("/documents/export", documentHandler.ExportDocument)

	env.app = app
	return env
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

type exchangeResponse struct {
	ChatID          string           `json:"chat_id"`
	Title           string           `json:"title"`
	NewChat         bool             `json:"new_chat"`
	Messages        []models.Message `json:"messages"`
	DocumentRequest *struct {
		DocumentType string `json:"document_type"`
	} `json:"document_request"`
	Error             string `json:"error"`
	RetryAfterSeconds int    `json:"retry_after_seconds"`
}

func TestSendMessageReturnsExchange(t *testing.T) {
	client := &fakeLLM{replies: []string{"GENERAL", "<p>TDS returns are filed quarterly.</p>"}}
	env := newHandlerEnv(t, client, nil)

	resp := postJSON(t, env.app, "/chat/messages", fiber.Map{
		"message": "When are TDS returns due?",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body exchangeResponse
	decodeBody(t, resp, &body)
	assert.True(t, body.NewChat)
	assert.Equal(t, "When are TDS returns due?", body.Title)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, models.RoleUser, body.Messages[0].Role)
	assert.Equal(t, models.RoleAssistant, body.Messages[1].Role)
	assert.Contains(t, body.Messages[1].Content, "filed quarterly")
	assert.Nil(t, body.DocumentRequest)

	// the exchange is retrievable through the history endpoint
	req := httptest.NewRequest(http.MethodGet, "/chat/histories/"+body.ChatID, nil)
	getResp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, getResp.StatusCode)

	var stored struct {
		Messages []models.Message `json:"messages"`
	}
	decodeBody(t, getResp, &stored)
	assert.Equal(t, body.Messages, stored.Messages)
}

func TestSendMessageDocumentIntent(t *testing.T) {
	env := newHandlerEnv(t, nil, nil)

	resp := postJSON(t, env.app, "/chat/messages", fiber.Map{
		"message": "Draft an invoice for Acme Traders",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body exchangeResponse
	decodeBody(t, resp, &body)
	require.NotNil(t, body.DocumentRequest)
	assert.Equal(t, "invoice", body.DocumentRequest.DocumentType)
}

func TestSendMessageRateLimited(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := ratelimit.NewLimiterWithClock(3, time.Minute, func() time.Time { return current })
	env := newHandlerEnv(t, nil, limiter)

	for i := 0; i < 3; i++ {
		resp := postJSON(t, env.app, "/chat/messages", fiber.Map{"message": "Draft an invoice for load test"})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		resp.Body.Close()
		current = current.Add(5 * time.Second)
	}

	resp := postJSON(t, env.app, "/chat/messages", fiber.Map{"message": "Draft an invoice for load test"})
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	var body exchangeResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, 45, body.RetryAfterSeconds)
	assert.NotEmpty(t, body.Error)
}

func TestSendMessageUpstreamBanner(t *testing.T) {
	client := &fakeLLM{err: errors.New("503 from provider")}
	env := newHandlerEnv(t, client, nil)

	resp := postJSON(t, env.app, "/chat/messages", fiber.Map{
		"message": "Is interest on savings taxable?",
	})
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var body exchangeResponse
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Error)
}

func TestSendMessageRejectsEmpty(t *testing.T) {
	env := newHandlerEnv(t, nil, nil)

	resp := postJSON(t, env.app, "/chat/messages", fiber.Map{"message": "   "})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestHistoryEndpoints(t *testing.T) {
	env := newHandlerEnv(t, nil, nil)

	// two document-intent exchanges, answered offline
	for _, msg := range []string{"Draft an invoice for one", "Draft a receipt for two"} {
		resp := postJSON(t, env.app, "/chat/messages", fiber.Map{"message": msg})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	req := httptest.NewRequest(http.MethodGet, "/chat/histories", nil)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list struct {
		Histories []struct {
			UUID         string `json:"uuid"`
			Title        string `json:"title"`
			MessageCount int    `json:"message_count"`
		} `json:"histories"`
		Total int64 `json:"total"`
	}
	decodeBody(t, resp, &list)
	assert.EqualValues(t, 2, list.Total)
	require.Len(t, list.Histories, 2)
	for _, item := range list.Histories {
		assert.Equal(t, 2, item.MessageCount)
	}

	// delete one, clear the rest
	req = httptest.NewRequest(http.MethodDelete, "/chat/histories/"+list.Histories[0].UUID, nil)
	resp, err = env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodDelete, "/chat/histories", nil)
	resp, err = env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	_, total, err := env.histories.GetChatHistoriesByUserId(env.userID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestHistoryEndpointsValidateChatID(t *testing.T) {
	env := newHandlerEnv(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/chat/histories/not-a-uuid", nil)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodGet, "/chat/histories/"+uuid.NewString(), nil)
	resp, err = env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
