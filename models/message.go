package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Message senders. Messages are create-only: once written they are never
// mutated, only cascade-deleted with their conversation.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

type Message struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"conversation_id"`
	Text           string         `gorm:"type:text" json:"text"`
	Sender         string         `gorm:"not null" json:"sender"`
	FileURLs       pq.StringArray `gorm:"type:text[]" json:"file_urls,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
