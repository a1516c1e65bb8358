package recommendations

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"support-backend/internal/manuals"
	"support-backend/internal/sentiment"
	"support-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the engine.
type Handler struct {
	Engine *Engine
}

// NewHandler constructs a Handler.
func NewHandler(e *Engine) *Handler {
	return &Handler{Engine: e}
}

// RegisterRoutes attaches recommendation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate-recommendations", h.generate)
	rg.GET("/recommendations/:ticketId", h.list)
	rg.POST("/execute-action", h.execute)
	rg.POST("/recommendation-feedback", h.feedback)
	rg.GET("/recommendation-feedback/:ticketId", h.feedbackHistory)
}

type contextPayload struct {
	Ticket            *Ticket                `json:"ticket"`
	SentimentAnalysis *sentiment.Analysis    `json:"sentimentAnalysis"`
	ManualGuidance    []manuals.SearchResult `json:"manualGuidance"`
	CustomerHistory   string                 `json:"customerHistory"`
	ManualID          string                 `json:"manualId"`
}

type generateRequest struct {
	Context *contextPayload `json:"context"`
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	if req.Context == nil || req.Context.Ticket == nil || req.Context.SentimentAnalysis == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "context.ticket and context.sentimentAnalysis are required")
		return
	}
	if strings.TrimSpace(req.Context.Ticket.ID) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "context.ticket.id is required")
		return
	}
	c.Set("ticketId", req.Context.Ticket.ID)

	recs, source, err := h.Engine.GenerateRecommendations(c.Request.Context(), Context{
		Ticket:            *req.Context.Ticket,
		SentimentAnalysis: *req.Context.SentimentAnalysis,
		ManualGuidance:    req.Context.ManualGuidance,
		CustomerHistory:   req.Context.CustomerHistory,
		ManualID:          req.Context.ManualID,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to generate recommendations")
		return
	}
	c.Header("X-Recommendation-Source", string(source))
	respond.OK(c, gin.H{"recommendations": recs})
}

func (h *Handler) list(c *gin.Context) {
	ticketID := strings.TrimSpace(c.Param("ticketId"))
	c.Set("ticketId", ticketID)
	recs, err := h.Engine.Recommendations(c.Request.Context(), ticketID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Ticket not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to load recommendations")
		return
	}
	respond.OK(c, gin.H{"recommendations": recs})
}

type executeRequest struct {
	TicketID         string `json:"ticketId"`
	RecommendationID string `json:"recommendationId"`
	StepID           string `json:"stepId"`
}

func (h *Handler) execute(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	if req.TicketID == "" || req.RecommendationID == "" || req.StepID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "ticketId, recommendationId and stepId are required")
		return
	}
	c.Set("ticketId", req.TicketID)

	res, err := h.Engine.ExecuteAction(c.Request.Context(), req.TicketID, req.RecommendationID, req.StepID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to execute action")
		return
	}
	respond.OK(c, res)
}

type feedbackRequest struct {
	TicketID         string    `json:"ticketId"`
	RecommendationID string    `json:"recommendationId"`
	Feedback         *Feedback `json:"feedback"`
}

func (h *Handler) feedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	if req.TicketID == "" || req.RecommendationID == "" || req.Feedback == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "ticketId, recommendationId and feedback are required")
		return
	}
	if req.Feedback.Effectiveness < 1 || req.Feedback.Effectiveness > 5 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "feedback.effectiveness must be between 1 and 5")
		return
	}
	c.Set("ticketId", req.TicketID)

	ok := h.Engine.UpdateRecommendationFeedback(c.Request.Context(), req.TicketID, req.RecommendationID, *req.Feedback)
	respond.OK(c, gin.H{"success": ok})
}

func (h *Handler) feedbackHistory(c *gin.Context) {
	ticketID := strings.TrimSpace(c.Param("ticketId"))
	c.Set("ticketId", ticketID)
	records, err := h.Engine.FeedbackHistory(c.Request.Context(), ticketID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to load feedback")
		return
	}
	respond.OK(c, gin.H{"feedback": records})
}
