package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"menuchat/internal/core"
	"menuchat/internal/llm"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// chatRequest accepts either a full transcript or a single new message
// with the prior turns.
type chatRequest struct {
	Messages []llm.Message `json:"messages"`
	Message  string        `json:"message"`
	History  []llm.Message `json:"history"`
}

func (r chatRequest) transcript() []llm.Message {
	if len(r.Messages) > 0 {
		return r.Messages
	}
	msgs := append([]llm.Message(nil), r.History...)
	if r.Message != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: r.Message})
	}
	return msgs
}

// --------------------------------------------------
// POST /chat/:id
// --------------------------------------------------
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reply, err := h.service.Reply(c.Request.Context(), c.Param("id"), req.transcript())
	if err != nil {
		_ = c.Error(err)
		c.JSON(core.HTTPStatus(err), gin.H{"error": core.PublicMessage(err)})
		return
	}

	c.JSON(http.StatusOK, reply)
}

// --------------------------------------------------
// GET /restaurants/:id/context
// --------------------------------------------------
func (h *Handler) Context(c *gin.Context) {
	snapshot, err := h.service.Context(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(core.HTTPStatus(err), gin.H{"error": core.PublicMessage(err)})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
