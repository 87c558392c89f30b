package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	errs "github.com/nexafin/fincoach/errors"
	"github.com/nexafin/fincoach/models"
	"github.com/nexafin/fincoach/server/response"
)

func (s *Server) handleCreateConversation() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		var request models.CreateConversationRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		conversation := s.ConversationService.CreateConversation(userID, request.Title)
		if conversation == nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("unable to create conversation", http.StatusInternalServerError))
			return
		}

		response.JSON(c, "conversation created", http.StatusCreated, conversation, nil)
	}
}

func (s *Server) handleListConversations() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		conversations := s.ConversationService.ListConversations(userID)
		response.JSON(c, "", http.StatusOK, conversations, nil)
	}
}

func (s *Server) handleListMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		conversationID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid conversation id", http.StatusBadRequest))
			return
		}

		if s.ConversationService.GetOwnedConversation(conversationID, userID) == nil {
			response.JSON(c, "", http.StatusNotFound, nil, errs.New("conversation not found", http.StatusNotFound))
			return
		}

		messages := s.ConversationService.ListMessages(conversationID)
		response.JSON(c, "", http.StatusOK, messages, nil)
	}
}

func (s *Server) handleUpdateConversationTitle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		conversationID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid conversation id", http.StatusBadRequest))
			return
		}

		var request models.UpdateTitleRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		if s.ConversationService.GetOwnedConversation(conversationID, userID) == nil {
			response.JSON(c, "", http.StatusNotFound, nil, errs.New("conversation not found", http.StatusNotFound))
			return
		}

		if !s.ConversationService.UpdateTitle(conversationID, request.Title) {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("unable to update title", http.StatusInternalServerError))
			return
		}

		response.JSON(c, "title updated", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleDeleteConversation() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		conversationID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid conversation id", http.StatusBadRequest))
			return
		}

		if s.ConversationService.GetOwnedConversation(conversationID, userID) == nil {
			response.JSON(c, "", http.StatusNotFound, nil, errs.New("conversation not found", http.StatusNotFound))
			return
		}

		if !s.ConversationService.DeleteConversation(conversationID) {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("unable to delete conversation", http.StatusInternalServerError))
			return
		}

		response.JSON(c, "conversation deleted", http.StatusOK, nil, nil)
	}
}
