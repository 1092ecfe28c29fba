package repo

import (
	"errors"
	"strings"
	"time"

	"github.com/finaccosolutions/finacco-backend/internal/models"

	"gorm.io/gorm"

	"github.com/google/uuid"
)

type ApiKeyRepo struct {
	db *gorm.DB
}

type ApiKeyRepoInterface interface {
	GetApiKeyByUserId(userId uuid.UUID) (*models.ApiKey, error)
	UpsertApiKey(userId uuid.UUID, key string) (*models.ApiKey, error)
}

func NewApiKeyRepository(db *gorm.DB) ApiKeyRepoInterface {
	return &ApiKeyRepo{db: db}
}

func (r *ApiKeyRepo) GetApiKeyByUserId(userId uuid.UUID) (*models.ApiKey, error) {
	var apiKey models.ApiKey
	err := r.db.Where("user_id = ?", userId).First(&apiKey).Error
	if err != nil {
		return nil, err
	}
	return &apiKey, nil
}

// UpsertApiKey stores or replaces the user's credential
func (r *ApiKeyRepo) UpsertApiKey(userId uuid.UUID, key string) (*models.ApiKey, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("api key cannot be empty")
	}

	existing, err := r.GetApiKeyByUserId(userId)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apiKey := &models.ApiKey{
			UUID:      uuid.New(),
			UserID:    userId,
			Key:       key,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := r.db.Create(apiKey).Error; err != nil {
			return nil, err
		}
		return apiKey, nil
	} else if err != nil {
		return nil, err
	}

	existing.Key = key
	existing.UpdatedAt = time.Now()
	if err := r.db.Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}
