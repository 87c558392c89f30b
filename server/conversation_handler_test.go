package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexafin/fincoach/config"
	apiError "github.com/nexafin/fincoach/errors"
	"github.com/nexafin/fincoach/models"
	"github.com/nexafin/fincoach/services"
)

// stubConversationService backs the handler tests with a single in-memory
// conversation owned by ownerID
type stubConversationService struct {
	ownerID      uint
	conversation models.Conversation
	messages     []models.Message

	titleUpdates []string
	deleted      bool
	failDelete   bool
}

func (s *stubConversationService) CreateConversation(userID uint, title string) *models.Conversation {
	title = strings.TrimSpace(title)
	if title == "" {
		title = models.DefaultConversationTitle
	}
	s.conversation = models.Conversation{ID: uuid.New(), UserID: userID, Title: title}
	s.ownerID = userID
	return &s.conversation
}

func (s *stubConversationService) ListConversations(userID uint) []models.Conversation {
	if userID != s.ownerID {
		return []models.Conversation{}
	}
	return []models.Conversation{s.conversation}
}

func (s *stubConversationService) GetOwnedConversation(conversationID uuid.UUID, userID uint) *models.Conversation {
	if conversationID != s.conversation.ID || userID != s.ownerID {
		return nil
	}
	return &s.conversation
}

func (s *stubConversationService) AddMessage(conversationID uuid.UUID, text string, sender string, files []*multipart.FileHeader) *models.Message {
	message := models.Message{ID: uuid.New(), ConversationID: conversationID, Text: text, Sender: sender}
	s.messages = append(s.messages, message)
	return &message
}

func (s *stubConversationService) ListMessages(conversationID uuid.UUID) []models.Message {
	return s.messages
}

func (s *stubConversationService) DeleteConversation(conversationID uuid.UUID) bool {
	if s.failDelete {
		return false
	}
	s.deleted = true
	return true
}

func (s *stubConversationService) UpdateTitle(conversationID uuid.UUID, title string) bool {
	s.titleUpdates = append(s.titleUpdates, title)
	return true
}

// asUser stands in for Authorize in handler tests
func asUser(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func newConversationTestRouter(svc services.ConversationService, userID uint) *gin.Engine {
	s := &Server{
		Config:              &config.Config{},
		ConversationService: svc,
	}
	router := gin.New()
	authorized := router.Group("/api/v1", asUser(userID))
	authorized.POST("/conversations", s.handleCreateConversation())
	authorized.GET("/conversations", s.handleListConversations())
	authorized.GET("/conversations/:id/messages", s.handleListMessages())
	authorized.PUT("/conversations/:id/title", s.handleUpdateConversationTitle())
	authorized.DELETE("/conversations/:id", s.handleDeleteConversation())
	return router
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHandleCreateConversation(t *testing.T) {
	svc := &stubConversationService{}
	router := newConversationTestRouter(svc, 7)

	w := performJSON(router, http.MethodPost, "/api/v1/conversations", models.CreateConversationRequest{Title: "Cash flow"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Cash flow")
	assert.EqualValues(t, 7, svc.ownerID)
}

func TestHandleListMessagesRequiresOwnership(t *testing.T) {
	svc := &stubConversationService{}
	svc.CreateConversation(7, "Mine")
	svc.AddMessage(svc.conversation.ID, "hello", models.SenderUser, nil)

	owner := newConversationTestRouter(svc, 7)
	w := performJSON(owner, http.MethodGet, "/api/v1/conversations/"+svc.conversation.ID.String()+"/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hello")

	stranger := newConversationTestRouter(svc, 8)
	w = performJSON(stranger, http.MethodGet, "/api/v1/conversations/"+svc.conversation.ID.String()+"/messages", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performJSON(owner, http.MethodGet, "/api/v1/conversations/not-a-uuid/messages", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpdateConversationTitle(t *testing.T) {
	svc := &stubConversationService{}
	svc.CreateConversation(7, "Old title")

	router := newConversationTestRouter(svc, 7)
	w := performJSON(router, http.MethodPut, "/api/v1/conversations/"+svc.conversation.ID.String()+"/title",
		models.UpdateTitleRequest{Title: "New title"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.titleUpdates, 1)
	assert.Equal(t, "New title", svc.titleUpdates[0])
}

func TestHandleDeleteConversation(t *testing.T) {
	svc := &stubConversationService{}
	svc.CreateConversation(7, "Doomed")

	router := newConversationTestRouter(svc, 7)
	w := performJSON(router, http.MethodDelete, "/api/v1/conversations/"+svc.conversation.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.deleted)

	stranger := newConversationTestRouter(svc, 8)
	w = performJSON(stranger, http.MethodDelete, "/api/v1/conversations/"+svc.conversation.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// stubAssistantService echoes the prompt back as the assistant reply
type stubAssistantService struct {
	gotText string
	err     *apiError.Error
}

func (s *stubAssistantService) ProcessUserMessage(conversationID uuid.UUID, text string, files []*multipart.FileHeader) (*models.Message, *models.TokenUsage, *apiError.Error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	s.gotText = text
	return &models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Text:           "echo: " + text,
		Sender:         models.SenderAssistant,
	}, &models.TokenUsage{TotalTokens: 30}, nil
}

func newChatTestRouter(conversations services.ConversationService, assistant services.AssistantService, userID uint) *gin.Engine {
	s := &Server{
		Config:              &config.Config{},
		ConversationService: conversations,
		AssistantService:    assistant,
	}
	router := gin.New()
	router.POST("/api/v1/chat/message", asUser(userID), s.handleChatMessage())
	return router
}

func chatForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHandleChatMessage(t *testing.T) {
	conversations := &stubConversationService{}
	conversations.CreateConversation(7, "Chat")
	assistant := &stubAssistantService{}
	router := newChatTestRouter(conversations, assistant, 7)

	body, contentType := chatForm(t, map[string]string{
		"conversation_id": conversations.conversation.ID.String(),
		"text":            "how are my finances?",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/message", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "how are my finances?", assistant.gotText)
	assert.Contains(t, w.Body.String(), "echo: how are my finances?")
	assert.Contains(t, w.Body.String(), "total_tokens")
}

func TestHandleChatMessageValidation(t *testing.T) {
	conversations := &stubConversationService{}
	conversations.CreateConversation(7, "Chat")
	assistant := &stubAssistantService{}
	router := newChatTestRouter(conversations, assistant, 7)

	send := func(fields map[string]string) *httptest.ResponseRecorder {
		body, contentType := chatForm(t, fields)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/message", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)
		return w
	}

	w := send(map[string]string{"conversation_id": "not-a-uuid", "text": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(map[string]string{"conversation_id": conversations.conversation.ID.String(), "text": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(map[string]string{"conversation_id": uuid.NewString(), "text": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
