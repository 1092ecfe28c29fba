package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TitleMaxLen caps the history title taken from the first user message.
const TitleMaxLen = 100

// Message is one transcript entry. The list is stored as a single jsonb
// document on ChatHistory and replaced whole after every exchange.
type Message struct {
	ID         string `json:"id"`
	Role       Role   `json:"role"`
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp"`
	Name       string `json:"name,omitempty"`
	IsTyping   bool   `json:"isTyping,omitempty"`
	IsDocument bool   `json:"isDocument,omitempty"`
}

// NewMessage builds a transcript entry with a fresh id and current timestamp.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

type ChatHistory struct {
	UUID      uuid.UUID      `gorm:"type:uuid;primaryKey;" json:"uuid"`
	UserID    uuid.UUID      `gorm:"not null;index" json:"user_id"`
	Title     string         `gorm:"not null" json:"title"`
	Messages  datatypes.JSON `json:"messages"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// DecodeMessages unpacks the jsonb column into the ordered message list.
func (c *ChatHistory) DecodeMessages() ([]Message, error) {
	if len(c.Messages) == 0 {
		return []Message{}, nil
	}
	var msgs []Message
	if err := json.Unmarshal(c.Messages, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// EncodeMessages replaces the stored list with the given one.
func (c *ChatHistory) EncodeMessages(msgs []Message) error {
	raw, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	c.Messages = datatypes.JSON(raw)
	return nil
}

// TitleFromContent derives a history title from the first user message.
func TitleFromContent(content string) string {
	title := strings.TrimSpace(content)
	runes := []rune(title)
	if len(runes) > TitleMaxLen {
		return string(runes[:TitleMaxLen])
	}
	return title
}
