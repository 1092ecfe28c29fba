package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finaccosolutions/finacco-backend/internal/auth"
	"github.com/finaccosolutions/finacco-backend/internal/models"
	"github.com/finaccosolutions/finacco-backend/internal/repo"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func newGateApp(t *testing.T) (*fiber.App, *auth.JWTService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.ApiKey{}))

	jwtService := auth.NewJWTService("gate-test-secret", "finacco-test", time.Hour)

	app := fiber.New()
	app.Get("/assistant",
		RequireAuth(jwtService),
		RequireAPIKey(repo.NewApiKeyRepository(db)),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"user_id": UserID(c).String(),
				"key":     GeminiKey(c),
			})
		},
	)

	return app, jwtService, db
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body errorBody
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestGateRejectsAnonymous(t *testing.T) {
	app, _, _ := newGateApp(t)

	req := httptest.NewRequest(http.MethodGet, "/assistant", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "signin_required", decodeError(t, resp).Code)
}

func TestGateRejectsGarbageToken(t *testing.T) {
	app, _, _ := newGateApp(t)

	req := httptest.NewRequest(http.MethodGet, "/assistant", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "signin_required", decodeError(t, resp).Code)
}

func TestGateRequiresStoredKey(t *testing.T) {
	app, jwtService, _ := newGateApp(t)

	token, err := jwtService.GenerateToken(uuid.New(), "nokey@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/assistant", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "api_key_required", decodeError(t, resp).Code)
}

func TestGatePassesWithKey(t *testing.T) {
	app, jwtService, db := newGateApp(t)

	userID := uuid.New()
	_, err := repo.NewApiKeyRepository(db).UpsertApiKey(userID, "AIzaSy-test-key")
	require.NoError(t, err)

	token, err := jwtService.GenerateToken(userID, "haskey@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/assistant", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body struct {
		UserID string `json:"user_id"`
		Key    string `json:"key"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, userID.String(), body.UserID)
	assert.Equal(t, "AIzaSy-test-key", body.Key)
}

func TestGateAcceptsQueryToken(t *testing.T) {
	app, jwtService, db := newGateApp(t)

	userID := uuid.New()
	_, err := repo.NewApiKeyRepository(db).UpsertApiKey(userID, "AIzaSy-ws-key")
	require.NoError(t, err)

	token, err := jwtService.GenerateToken(userID, "ws@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/assistant?token="+token, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
