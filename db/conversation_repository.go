package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/nexafin/fincoach/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	CreateConversation(conversation *models.Conversation) error
	GetConversation(id uuid.UUID) (*models.Conversation, error)
	GetConversationsByUser(userID uint) ([]models.Conversation, error)
	UpdateConversationTitle(id uuid.UUID, title string) error
	TouchConversation(id uuid.UUID) error
	DeleteConversation(id uuid.UUID) error
	CreateMessage(message *models.Message) error
	GetMessages(conversationID uuid.UUID) ([]models.Message, error)
	DeleteMessagesByConversation(conversationID uuid.UUID) error
}

type conversationRepo struct {
	DB *gorm.DB
}

func NewConversationRepo(db *GormDB) ConversationRepository {
	return &conversationRepo{db.DB}
}

func (r *conversationRepo) CreateConversation(conversation *models.Conversation) error {
	if conversation == nil {
		return errors.New("conversation is nil")
	}
	if conversation.ID == uuid.Nil {
		conversation.ID = uuid.New()
	}
	if err := r.DB.Create(conversation).Error; err != nil {
		return errors.Wrap(err, "failed to create conversation")
	}
	return nil
}

func (r *conversationRepo) GetConversation(id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.DB.Where("id = ?", id).First(&conversation).Error; err != nil {
		return nil, errors.Wrap(err, "failed to fetch conversation")
	}
	return &conversation, nil
}

// GetConversationsByUser returns the user's conversations, most recently
// active first
func (r *conversationRepo) GetConversationsByUser(userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.DB.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch conversations")
	}
	return conversations, nil
}

func (r *conversationRepo) UpdateConversationTitle(id uuid.UUID, title string) error {
	result := r.DB.Model(&models.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "updated_at": time.Now()})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update conversation title")
	}
	if result.RowsAffected == 0 {
		return errors.New("conversation not found")
	}
	return nil
}

// TouchConversation bumps updated_at so the conversation sorts to the top of
// the sidebar listing
func (r *conversationRepo) TouchConversation(id uuid.UUID) error {
	err := r.DB.Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
	return errors.Wrap(err, "failed to touch conversation")
}

func (r *conversationRepo) DeleteConversation(id uuid.UUID) error {
	result := r.DB.Where("id = ?", id).Delete(&models.Conversation{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete conversation")
	}
	if result.RowsAffected == 0 {
		return errors.New("conversation not found")
	}
	return nil
}

func (r *conversationRepo) CreateMessage(message *models.Message) error {
	if message == nil {
		return errors.New("message is nil")
	}
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if err := r.DB.Create(message).Error; err != nil {
		return errors.Wrap(err, "failed to create message")
	}
	return nil
}

// GetMessages returns the conversation transcript in created_at order, the
// canonical replay order
func (r *conversationRepo) GetMessages(conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.DB.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch messages")
	}
	return messages, nil
}

func (r *conversationRepo) DeleteMessagesByConversation(conversationID uuid.UUID) error {
	err := r.DB.Where("conversation_id = ?", conversationID).Delete(&models.Message{}).Error
	return errors.Wrap(err, "failed to delete messages")
}
