package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/laporinapp/laporin/internal/model"
	"github.com/laporinapp/laporin/internal/service"
)

// ChatHandler handles the REST side of report chat threads
type ChatHandler struct {
	chats *service.ChatService
}

func NewChatHandler(chats *service.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// StartChat godoc
// @Summary Open the chat thread for a report
// @Description Returns the existing thread or creates one; a report has exactly one thread
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} model.Chat
// @Failure 400 {object} model.ErrorResponse
// @Router /reports/{id}/chat [post]
func (h *ChatHandler) StartChat(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid report id"})
		return
	}

	chat, err := h.chats.GetOrCreateChat(reportID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "failed to open chat"})
		return
	}

	c.JSON(http.StatusOK, chat)
}

// GetChatForReport godoc
// @Summary Get the chat thread for a report
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} model.Chat
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /reports/{id}/chat [get]
func (h *ChatHandler) GetChatForReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid report id"})
		return
	}

	chat, err := h.chats.ChatForReport(reportID)
	if err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "chat not found"})
		return
	}

	c.JSON(http.StatusOK, chat)
}

// GetMessages godoc
// @Summary Get chat history
// @Description Messages in chronological order with sender info
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param id path string true "Chat ID"
// @Success 200 {array} model.MessageResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /chats/{id}/messages [get]
func (h *ChatHandler) GetMessages(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid chat id"})
		return
	}

	allowed, err := h.chats.CanAccessChat(chatID, currentUserID(c), currentRole(c))
	if err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "chat not found"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, model.ErrorResponse{Error: "not a participant of this chat"})
		return
	}

	messages, err := h.chats.Messages(chatID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}
