package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	errs "github.com/nexafin/fincoach/errors"
	"github.com/nexafin/fincoach/models"
	"github.com/nexafin/fincoach/server/response"
)

// handleChatMessage accepts a multipart form with the user's text, the target
// conversation, and optional file attachments. The message is persisted
// before the completion request goes out; the reply is persisted before the
// response returns, so a re-read always sees a prompt with its completion.
func (s *Server) handleChatMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		var request models.ChatMessageRequest
		if err := c.ShouldBind(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid conversation id", http.StatusBadRequest))
			return
		}

		conversationID, err := uuid.Parse(request.ConversationID)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid conversation id", http.StatusBadRequest))
			return
		}

		text := strings.TrimSpace(request.Text)

		form, err := c.MultipartForm()
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid form data", http.StatusBadRequest))
			return
		}
		files := form.File["files"]

		if text == "" && len(files) == 0 {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("message text or a file is required", http.StatusBadRequest))
			return
		}

		if s.ConversationService.GetOwnedConversation(conversationID, userID) == nil {
			response.JSON(c, "", http.StatusNotFound, nil, errs.New("conversation not found", http.StatusNotFound))
			return
		}

		reply, usage, apiErr := s.AssistantService.ProcessUserMessage(conversationID, text, files)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		response.JSON(c, "", http.StatusOK, gin.H{
			"message": reply,
			"usage":   usage,
		}, nil)
	}
}

func (s *Server) handleTokenBalance() gin.HandlerFunc {
	return func(c *gin.Context) {
		balance, apiErr := s.ChatService.GetTokenBalance()
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, balance, nil)
	}
}
