package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultConversationTitle is used when a title is missing or blank
const DefaultConversationTitle = "Untitled"

// Conversation is a titled, owned container of ordered messages
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}
