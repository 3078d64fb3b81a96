package chats

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/shared/server/middleware"
	"legaldoc-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the chat service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/questions", h.ask)
	rg.GET("/documents/:documentId/chat", h.history)
}

type askRequest struct {
	DocumentID string `json:"documentId"`
	Question   string `json:"question"`
}

func (h *Handler) ask(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.DocumentID = strings.TrimSpace(req.DocumentID)
	if req.DocumentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "documentId is required", nil)
		return
	}

	c.Set("documentId", req.DocumentID)

	answer, err := h.Svc.Ask(c.Request.Context(), userID, req.DocumentID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyQuestion):
			respond.Error(c, http.StatusBadRequest, "validation_error", "question is required", nil)
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to get answer", nil)
		}
		return
	}

	respond.OK(c, gin.H{"answer": answer})
}

type messageResponse struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("documentId")

	messages, err := h.Svc.History(c.Request.Context(), userID, documentID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch chat history", nil)
		return
	}

	out := make([]messageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, messageResponse{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	respond.OK(c, gin.H{"messages": out})
}
