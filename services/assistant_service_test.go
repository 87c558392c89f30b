package services

import (
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexafin/fincoach/config"
	apiError "github.com/nexafin/fincoach/errors"
	"github.com/nexafin/fincoach/models"
)

// scriptedChatService returns a canned completion or error and records the
// prompt it was asked to complete
type scriptedChatService struct {
	completion *models.ChatCompletion
	err        *apiError.Error
	gotText    string
	gotFile    *models.FileContext
	calls      int
}

func (s *scriptedChatService) Complete(userText string, fileContext *models.FileContext) (*models.ChatCompletion, *apiError.Error) {
	s.calls++
	s.gotText = userText
	s.gotFile = fileContext
	return s.completion, s.err
}

func (s *scriptedChatService) GetTokenBalance() (*models.TokenBalance, *apiError.Error) {
	return nil, apiError.New("not used in these tests", http.StatusInternalServerError)
}

// recordingConversationService captures appended messages in order
type recordingConversationService struct {
	ConversationService
	appended []models.Message
}

func (s *recordingConversationService) AddMessage(conversationID uuid.UUID, text string, sender string, files []*multipart.FileHeader) *models.Message {
	message := models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Text:           text,
		Sender:         sender,
	}
	s.appended = append(s.appended, message)
	return &message
}

func newTestAssistantService(chat *scriptedChatService, store *recordingConversationService) AssistantService {
	return NewAssistantService(store, chat, &config.Config{})
}

func TestProcessUserMessagePersistsPromptThenReply(t *testing.T) {
	chat := &scriptedChatService{
		completion: &models.ChatCompletion{
			Message: "<strong>Welcome:</strong> let's look at that",
			Usage:   &models.TokenUsage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
		},
	}
	store := &recordingConversationService{}
	svc := newTestAssistantService(chat, store)

	conversationID := uuid.New()
	reply, usage, apiErr := svc.ProcessUserMessage(conversationID, "how much should I save?", nil)
	require.Nil(t, apiErr)
	require.NotNil(t, reply)
	require.NotNil(t, usage)
	assert.Equal(t, 30, usage.TotalTokens)

	require.Len(t, store.appended, 2)
	assert.Equal(t, models.SenderUser, store.appended[0].Sender)
	assert.Equal(t, "how much should I save?", store.appended[0].Text)
	assert.Equal(t, models.SenderAssistant, store.appended[1].Sender)
	assert.Equal(t, chat.completion.Message, store.appended[1].Text)
	assert.Equal(t, store.appended[1].ID, reply.ID)

	assert.Equal(t, "how much should I save?", chat.gotText)
	assert.Nil(t, chat.gotFile)
}

func TestProcessUserMessageFallsBackWhenProviderFails(t *testing.T) {
	chat := &scriptedChatService{
		err: apiError.New("assistant provider error, please try again later", http.StatusBadGateway),
	}
	store := &recordingConversationService{}
	svc := newTestAssistantService(chat, store)

	reply, usage, apiErr := svc.ProcessUserMessage(uuid.New(), "hello?", nil)
	require.Nil(t, apiErr, "a provider failure must not fail the request")
	require.NotNil(t, reply)
	assert.Nil(t, usage)

	// the user's message survives and the apology is appended as the reply
	require.Len(t, store.appended, 2)
	assert.Equal(t, "hello?", store.appended[0].Text)
	assert.Equal(t, chatFallbackMessage, store.appended[1].Text)
	assert.Equal(t, models.SenderAssistant, store.appended[1].Sender)
}

type alwaysFailingStore struct {
	ConversationService
}

func (s *alwaysFailingStore) AddMessage(uuid.UUID, string, string, []*multipart.FileHeader) *models.Message {
	return nil
}

func TestProcessUserMessageFailsWhenPromptCannotBeSaved(t *testing.T) {
	chat := &scriptedChatService{completion: &models.ChatCompletion{Message: "never sent"}}
	svc := NewAssistantService(&alwaysFailingStore{}, chat, &config.Config{})

	reply, usage, apiErr := svc.ProcessUserMessage(uuid.New(), "hello", nil)
	assert.Nil(t, reply)
	assert.Nil(t, usage)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Zero(t, chat.calls, "completion must not run when the prompt was not saved")
}

func TestIsTextualMatchesByHeaderAndExtension(t *testing.T) {
	withType := func(name, contentType string) *multipart.FileHeader {
		header := &multipart.FileHeader{Filename: name}
		header.Header = map[string][]string{}
		if contentType != "" {
			header.Header.Set("Content-Type", contentType)
		}
		return header
	}

	assert.True(t, isTextual(withType("notes.bin", "text/plain")))
	assert.True(t, isTextual(withType("data.bin", "application/json")))
	assert.True(t, isTextual(withType("statement.csv", "")))
	assert.True(t, isTextual(withType("README.MD", "")))
	assert.False(t, isTextual(withType("scan.pdf", "application/pdf")))
	assert.False(t, isTextual(withType("photo.png", "image/png")))
}
