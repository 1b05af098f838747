package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"paggie/trainer-app/internal/service"
)

// ChatHandler serves the trainer assistant conversation.
type ChatHandler struct {
	workspace *service.Workspace
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(workspace *service.Workspace) *ChatHandler {
	return &ChatHandler{workspace: workspace}
}

type ChatRequest struct {
	Message string `json:"message"`
}

func (h *ChatHandler) History(c *gin.Context) {
	c.JSON(http.StatusOK, h.workspace.ChatHistory())
}

// Send posts a message and returns the whole conversation with the reply.
func (h *ChatHandler) Send(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	history, err := h.workspace.SendChat(c.Request.Context(), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
