package services

import (
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nexafin/fincoach/config"
	apiError "github.com/nexafin/fincoach/errors"
	"github.com/nexafin/fincoach/models"
)

// chatFallbackMessage is appended as the assistant turn when the provider
// call fails, so the transcript stays coherent for the reader
const chatFallbackMessage = "Sorry, I encountered an error while processing your message. Please try again."

// maxFileContextBytes caps how much extracted document text is forwarded to
// the provider
const maxFileContextBytes = 64 * 1024

// AssistantService ties the conversation store and the chat client together:
// the user's message is durably appended before the completion request is
// issued, and the reply is appended before the caller is told to re-read.
type AssistantService interface {
	ProcessUserMessage(conversationID uuid.UUID, text string, files []*multipart.FileHeader) (*models.Message, *models.TokenUsage, *apiError.Error)
}

type assistantService struct {
	Config              *config.Config
	conversationService ConversationService
	chatService         ChatService
}

// NewAssistantService instantiate an assistantService
func NewAssistantService(conversationService ConversationService, chatService ChatService, conf *config.Config) AssistantService {
	return &assistantService{
		Config:              conf,
		conversationService: conversationService,
		chatService:         chatService,
	}
}

func (s *assistantService) ProcessUserMessage(conversationID uuid.UUID, text string, files []*multipart.FileHeader) (*models.Message, *models.TokenUsage, *apiError.Error) {
	userMessage := s.conversationService.AddMessage(conversationID, text, models.SenderUser, files)
	if userMessage == nil {
		return nil, nil, apiError.New("failed to save your message, please try again", http.StatusInternalServerError)
	}

	fileContext := extractFileContext(files)

	completion, chatErr := s.chatService.Complete(text, fileContext)

	var replyText string
	var usage *models.TokenUsage
	if chatErr != nil {
		log.Printf("Error generating completion: %v", chatErr)
		replyText = chatFallbackMessage
	} else {
		replyText = completion.Message
		usage = completion.Usage
	}

	assistantMessage := s.conversationService.AddMessage(conversationID, replyText, models.SenderAssistant, nil)
	if assistantMessage == nil {
		return nil, nil, apiError.New("failed to save the assistant reply", http.StatusInternalServerError)
	}

	return assistantMessage, usage, nil
}

// extractFileContext reads the first attached document that looks textual and
// forwards it as an auxiliary analysis turn
func extractFileContext(files []*multipart.FileHeader) *models.FileContext {
	for _, fileHeader := range files {
		if !isTextual(fileHeader) {
			continue
		}
		file, err := fileHeader.Open()
		if err != nil {
			log.Printf("Error opening file %s for analysis: %v", fileHeader.Filename, err)
			continue
		}
		content, err := io.ReadAll(io.LimitReader(file, maxFileContextBytes))
		file.Close()
		if err != nil {
			log.Printf("Error reading file %s for analysis: %v", fileHeader.Filename, err)
			continue
		}
		return &models.FileContext{
			Name:    fileHeader.Filename,
			Content: string(content),
		}
	}
	return nil
}

func isTextual(fileHeader *multipart.FileHeader) bool {
	mimeType := fileHeader.Header.Get("Content-Type")
	if strings.HasPrefix(mimeType, "text/") || mimeType == "application/json" || mimeType == "text/csv" {
		return true
	}
	name := strings.ToLower(fileHeader.Filename)
	for _, ext := range []string{".txt", ".csv", ".md", ".json"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
