// README: Chat handlers for ride messages.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hail/internal/modules/chat"
	"hail/internal/types"
)

type ChatHandler struct {
	chat *chat.Service
}

func NewChatHandler(svc *chat.Service) *ChatHandler {
	return &ChatHandler{chat: svc}
}

type messageResponse struct {
	ID        string `json:"id"`
	RideID    string `json:"ride_id"`
	SenderID  string `json:"sender_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func toMessageResponse(m *chat.Message) messageResponse {
	return messageResponse{
		ID:        string(m.ID),
		RideID:    string(m.RideID),
		SenderID:  string(m.SenderID),
		Content:   m.Content,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

type postMessageReq struct {
	Content string `json:"content" binding:"required"`
}

func (h *ChatHandler) Post(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req postMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	m, err := h.chat.Post(c.Request.Context(), actor, types.ID(c.Param("id")), req.Content)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMessageResponse(m))
}

func (h *ChatHandler) List(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	msgs, err := h.chat.List(c.Request.Context(), actor, types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	c.JSON(http.StatusOK, out)
}
