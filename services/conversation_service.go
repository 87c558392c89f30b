package services

import (
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"

	"github.com/nexafin/fincoach/config"
	"github.com/nexafin/fincoach/db"
	"github.com/nexafin/fincoach/models"
)

// GreetingMessage seeds every new conversation so a displayed conversation is
// never empty
const GreetingMessage = "<strong>Welcome:</strong>\nI'm your financial coach. Ask me anything about budgeting, saving, investments or your business finances.\n\n<strong>Next Steps:</strong>\nWhat would you like to work on today?"

// ConversationService is the durable store for conversations, messages and
// their attachments. Failures are logged and surfaced as nil/empty/false so
// the UI can fall back to its prior state.
type ConversationService interface {
	CreateConversation(userID uint, title string) *models.Conversation
	ListConversations(userID uint) []models.Conversation
	GetOwnedConversation(conversationID uuid.UUID, userID uint) *models.Conversation
	AddMessage(conversationID uuid.UUID, text string, sender string, files []*multipart.FileHeader) *models.Message
	ListMessages(conversationID uuid.UUID) []models.Message
	DeleteConversation(conversationID uuid.UUID) bool
	UpdateTitle(conversationID uuid.UUID, title string) bool
}

type conversationService struct {
	Config           *config.Config
	conversationRepo db.ConversationRepository
	mediaService     MediaService
}

// NewConversationService instantiate a conversationService
func NewConversationService(conversationRepo db.ConversationRepository, mediaService MediaService, conf *config.Config) ConversationService {
	return &conversationService{
		Config:           conf,
		conversationRepo: conversationRepo,
		mediaService:     mediaService,
	}
}

func (s *conversationService) CreateConversation(userID uint, title string) *models.Conversation {
	title = strings.TrimSpace(title)
	if title == "" {
		title = models.DefaultConversationTitle
	}

	conversation := &models.Conversation{
		ID:     uuid.New(),
		UserID: userID,
		Title:  title,
	}
	if err := s.conversationRepo.CreateConversation(conversation); err != nil {
		log.Printf("Error creating conversation: %v", err)
		return nil
	}

	greeting := &models.Message{
		ConversationID: conversation.ID,
		Text:           GreetingMessage,
		Sender:         models.SenderAssistant,
	}
	if err := s.conversationRepo.CreateMessage(greeting); err != nil {
		log.Printf("Error seeding greeting message: %v", err)
	}

	return conversation
}

func (s *conversationService) ListConversations(userID uint) []models.Conversation {
	conversations, err := s.conversationRepo.GetConversationsByUser(userID)
	if err != nil {
		log.Printf("Error fetching conversations: %v", err)
		return []models.Conversation{}
	}
	return conversations
}

// GetOwnedConversation returns the conversation only if it belongs to the
// given user
func (s *conversationService) GetOwnedConversation(conversationID uuid.UUID, userID uint) *models.Conversation {
	conversation, err := s.conversationRepo.GetConversation(conversationID)
	if err != nil {
		log.Printf("Error fetching conversation: %v", err)
		return nil
	}
	if conversation.UserID != userID {
		log.Printf("Conversation %s does not belong to user %d", conversationID, userID)
		return nil
	}
	return conversation
}

// AddMessage persists one message. Files that fail to upload are skipped
// individually; a partially attached message still succeeds. This is the only
// place besides title edits where the conversation's updated_at moves.
func (s *conversationService) AddMessage(conversationID uuid.UUID, text string, sender string, files []*multipart.FileHeader) *models.Message {
	var fileURLs []string
	for _, file := range files {
		fileURL, err := s.mediaService.UploadChatFile(file, conversationID.String())
		if err != nil {
			log.Printf("Error uploading file %s: %v", file.Filename, err)
			continue
		}
		fileURLs = append(fileURLs, fileURL)
	}

	if strings.TrimSpace(text) == "" && len(fileURLs) == 0 {
		log.Printf("Error adding message: empty message with no attachments")
		return nil
	}

	message := &models.Message{
		ConversationID: conversationID,
		Text:           text,
		Sender:         sender,
		FileURLs:       fileURLs,
	}
	if err := s.conversationRepo.CreateMessage(message); err != nil {
		log.Printf("Error adding message: %v", err)
		return nil
	}

	if err := s.conversationRepo.TouchConversation(conversationID); err != nil {
		log.Printf("Error updating conversation timestamp: %v", err)
	}

	return message
}

func (s *conversationService) ListMessages(conversationID uuid.UUID) []models.Message {
	messages, err := s.conversationRepo.GetMessages(conversationID)
	if err != nil {
		log.Printf("Error fetching messages: %v", err)
		return []models.Message{}
	}
	return messages
}

// DeleteConversation removes attachment blobs, then messages, then the
// conversation row. Blob deletion is best effort: an orphaned blob beats a
// conversation that can never be deleted.
func (s *conversationService) DeleteConversation(conversationID uuid.UUID) bool {
	messages, err := s.conversationRepo.GetMessages(conversationID)
	if err != nil {
		log.Printf("Error fetching messages for deletion: %v", err)
		return false
	}

	for _, message := range messages {
		for _, fileURL := range message.FileURLs {
			key := attachmentKey(conversationID, fileURL)
			if key == "" {
				continue
			}
			if err := s.mediaService.DeleteChatFile(key); err != nil {
				log.Printf("Error deleting attachment %s: %v", key, err)
			}
		}
	}

	if err := s.conversationRepo.DeleteMessagesByConversation(conversationID); err != nil {
		log.Printf("Error deleting messages: %v", err)
		return false
	}

	if err := s.conversationRepo.DeleteConversation(conversationID); err != nil {
		log.Printf("Error deleting conversation: %v", err)
		return false
	}

	return true
}

// UpdateTitle trims the new title, falling back to the default label when the
// result is blank
func (s *conversationService) UpdateTitle(conversationID uuid.UUID, title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		title = models.DefaultConversationTitle
	}

	if err := s.conversationRepo.UpdateConversationTitle(conversationID, title); err != nil {
		log.Printf("Error updating conversation title: %v", err)
		return false
	}
	return true
}

// attachmentKey rebuilds the blob key from a stored public URL
func attachmentKey(conversationID uuid.UUID, fileURL string) string {
	parts := strings.Split(fileURL, "/")
	name := parts[len(parts)-1]
	if name == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", conversationID, name)
}
