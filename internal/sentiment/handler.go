package sentiment

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"support-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the analyzer.
type Handler struct {
	Analyzer *Analyzer
}

// NewHandler constructs a Handler.
func NewHandler(a *Analyzer) *Handler {
	return &Handler{Analyzer: a}
}

// RegisterRoutes attaches sentiment routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze-sentiment", h.analyzeBatch)
	rg.POST("/analyze-single-ticket", h.analyzeSingle)
}

type analyzeBatchRequest struct {
	Tickets []Ticket `json:"tickets"`
}

func (h *Handler) analyzeBatch(c *gin.Context) {
	var req analyzeBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	if req.Tickets == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "tickets array is required")
		return
	}
	for _, t := range req.Tickets {
		if strings.TrimSpace(t.ID) == "" {
			respond.Error(c, http.StatusBadRequest, "validation_error", "every ticket requires an id")
			return
		}
	}

	results, err := h.Analyzer.AnalyzeBatch(c.Request.Context(), req.Tickets)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to analyze sentiment")
		return
	}
	respond.OK(c, gin.H{"results": results})
}

type analyzeSingleRequest struct {
	Subject         string `json:"subject"`
	Description     string `json:"description"`
	CustomerHistory string `json:"customerHistory"`
}

func (h *Handler) analyzeSingle(c *gin.Context) {
	var req analyzeSingleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Description) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "subject and description are required")
		return
	}

	res := h.Analyzer.AnalyzeTicket(c.Request.Context(), req.Subject, req.Description, req.CustomerHistory)
	c.Header("X-Analysis-Source", string(res.Source))
	respond.OK(c, gin.H{"analysis": res.Analysis})
}
