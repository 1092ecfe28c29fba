package repo

import (
	"fmt"
	"time"

	llmHandlers "github.com/finaccosolutions/finacco-backend/internal/llm_handlers"
	"github.com/finaccosolutions/finacco-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatHistoryRepo struct {
	db *gorm.DB
}

type ChatHistoryRepoInterface interface {
	CreateChatHistory(userId uuid.UUID, title string, msgs []models.Message) (*models.ChatHistory, error)
	GetChatHistoriesByUserId(userId uuid.UUID, page int, pageSize int, fields ...string) ([]models.ChatHistory, int64, error)
	GetChatHistoryById(id uuid.UUID, userId uuid.UUID) (*models.ChatHistory, error)
	AppendMessages(id uuid.UUID, userId uuid.UUID, msgs ...models.Message) (*models.ChatHistory, error)
	GetConversation(id uuid.UUID, userId uuid.UUID, size int) ([]llmHandlers.Message, error)
	DeleteChatHistory(id uuid.UUID, userId uuid.UUID) error
	ClearChatHistories(userId uuid.UUID) error
}

func NewChatHistoryRepository(db *gorm.DB) ChatHistoryRepoInterface {
	return &ChatHistoryRepo{db: db}
}

func (r *ChatHistoryRepo) CreateChatHistory(userId uuid.UUID, title string, msgs []models.Message) (*models.ChatHistory, error) {
	history := &models.ChatHistory{
		UUID:      uuid.New(),
		UserID:    userId,
		Title:     title,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := history.EncodeMessages(msgs); err != nil {
		return nil, fmt.Errorf("encode messages: %w", err)
	}

	if err := r.db.Create(history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

// signature returns histories, totalCount, error
func (r *ChatHistoryRepo) GetChatHistoriesByUserId(userId uuid.UUID, page int, pageSize int, fields ...string) ([]models.ChatHistory, int64, error) {
	var histories []models.ChatHistory
	var total int64

	// sane defaults + cap
	if page < 1 {
		page = 1
	}
	const DefaultPageSize = 20
	const MaxPageSize = 100
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	offset := (page - 1) * pageSize

	base := r.db.Model(&models.ChatHistory{}).Where("user_id = ?", userId)

	// total count
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// apply select if fields passed
	query := base
	if len(fields) > 0 {
		query = query.Select(fields)
	}

	// newest first
	if err := query.Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&histories).Error; err != nil {
		return nil, 0, err
	}

	return histories, total, nil
}

func (r *ChatHistoryRepo) GetChatHistoryById(id uuid.UUID, userId uuid.UUID) (*models.ChatHistory, error) {
	var history models.ChatHistory
	err := r.db.Where("uuid = ? AND user_id = ?", id, userId).First(&history).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

// AppendMessages loads the transcript, appends the new entries and writes the
// whole document back in one transaction.
func (r *ChatHistoryRepo) AppendMessages(id uuid.UUID, userId uuid.UUID, msgs ...models.Message) (*models.ChatHistory, error) {
	var history models.ChatHistory

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ? AND user_id = ?", id, userId).First(&history).Error; err != nil {
			return err
		}

		existing, err := history.DecodeMessages()
		if err != nil {
			return fmt.Errorf("decode messages: %w", err)
		}

		existing = append(existing, msgs...)
		if err := history.EncodeMessages(existing); err != nil {
			return fmt.Errorf("encode messages: %w", err)
		}
		history.UpdatedAt = time.Now()

		return tx.Save(&history).Error
	})
	if err != nil {
		return nil, err
	}

	return &history, nil
}

// GetConversation returns the last messages in provider form, skipping typing
// placeholders that never held real content.
func (r *ChatHistoryRepo) GetConversation(id uuid.UUID, userId uuid.UUID, size int) ([]llmHandlers.Message, error) {
	history, err := r.GetChatHistoryById(id, userId)
	if err != nil {
		return nil, err
	}

	msgs, err := history.DecodeMessages()
	if err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	// default + cap
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	if len(msgs) > size {
		msgs = msgs[len(msgs)-size:]
	}

	conversation := []llmHandlers.Message{}
	for _, m := range msgs {
		if m.IsTyping {
			continue
		}
		conversation = append(conversation, llmHandlers.Message{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	return conversation, nil
}

func (r *ChatHistoryRepo) DeleteChatHistory(id uuid.UUID, userId uuid.UUID) error {
	result := r.db.Where("uuid = ? AND user_id = ?", id, userId).Delete(&models.ChatHistory{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ChatHistoryRepo) ClearChatHistories(userId uuid.UUID) error {
	return r.db.Where("user_id = ?", userId).Delete(&models.ChatHistory{}).Error
}
