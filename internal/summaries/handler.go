package summaries

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/inference"
	"legaldoc-backend/internal/shared/server/middleware"
	"legaldoc-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the summarization service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches summary routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/summaries", h.summarize)
}

type summarizeRequest struct {
	DocumentID string `json:"documentId"`
	Level      string `json:"level"`
}

type summarizeResponse struct {
	Success              bool                               `json:"success"`
	Summary              string                             `json:"summary"`
	StructuredData       *documents.StructuredExtraction    `json:"structuredData,omitempty"`
	ComprehensiveSummary *documents.ComprehensiveExtraction `json:"comprehensiveSummary,omitempty"`
	DocumentID           string                             `json:"documentId"`
	Level                string                             `json:"level"`
	Cached               bool                               `json:"cached"`
}

func (h *Handler) summarize(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.DocumentID = strings.TrimSpace(req.DocumentID)
	if req.DocumentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "documentId is required", nil)
		return
	}
	if req.Level == "" {
		req.Level = string(documents.LevelBeginner)
	}

	c.Set("documentId", req.DocumentID)
	c.Set("summaryLevel", req.Level)

	res, err := h.Svc.Summarize(c.Request.Context(), userID, req.DocumentID, documents.Level(req.Level))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidLevel):
			respond.Error(c, http.StatusBadRequest, "validation_error", "level must be beginner, moderate, or expert", nil)
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case inference.IsTransient(err):
			respond.Error(c, http.StatusServiceUnavailable, "ai_unavailable", "failed to summarize document", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to summarize document", nil)
		}
		return
	}

	respond.OK(c, summarizeResponse{
		Success:              true,
		Summary:              res.Summary,
		StructuredData:       res.StructuredData,
		ComprehensiveSummary: res.ComprehensiveSummary,
		DocumentID:           req.DocumentID,
		Level:                req.Level,
		Cached:               res.Cached,
	})
}
