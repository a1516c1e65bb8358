package helpdesk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"support-backend/internal/shared/server/respond"
	"support-backend/internal/shared/telemetry"
)

const maxWebhookBytes = 1 << 20

// TicketSource is the read side of the helpdesk.
type TicketSource interface {
	ListTickets(ctx context.Context) ([]Ticket, error)
	GetTicket(ctx context.Context, id string) (Ticket, error)
}

// Handler exposes helpdesk tickets. A nil Tickets means the helpdesk is not
// configured.
type Handler struct {
	Tickets TicketSource
}

// NewHandler constructs a Handler.
func NewHandler(src TicketSource) *Handler {
	return &Handler{Tickets: src}
}

// RegisterRoutes attaches helpdesk routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tickets", h.list)
	rg.GET("/tickets/:id", h.get)
	rg.POST("/webhooks/tickets", h.webhook)
}

func (h *Handler) list(c *gin.Context) {
	if h.Tickets == nil {
		respond.Error(c, http.StatusServiceUnavailable, "not_configured", "Helpdesk is not configured")
		return
	}
	tickets, err := h.Tickets.ListTickets(c.Request.Context())
	if err != nil {
		telemetry.Error("helpdesk.list_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch tickets")
		return
	}
	respond.OK(c, gin.H{"tickets": tickets})
}

func (h *Handler) get(c *gin.Context) {
	if h.Tickets == nil {
		respond.Error(c, http.StatusServiceUnavailable, "not_configured", "Helpdesk is not configured")
		return
	}
	id := c.Param("id")
	c.Set("ticketId", id)
	ticket, err := h.Tickets.GetTicket(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Ticket not found")
			return
		}
		telemetry.Error("helpdesk.get_failed", map[string]any{"ticket_id": id, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch ticket")
		return
	}
	respond.OK(c, gin.H{"ticket": ticket})
}

// webhook acknowledges ticket events without syncing them.
func (h *Handler) webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	fields := map[string]any{"bytes": len(body)}
	var event struct {
		Type   string `json:"type"`
		Ticket struct {
			ID any `json:"id"`
		} `json:"ticket"`
	}
	if err := json.Unmarshal(body, &event); err == nil {
		fields["type"] = event.Type
		if event.Ticket.ID != nil {
			fields["ticket_id"] = event.Ticket.ID
		}
	}
	telemetry.Info("helpdesk.webhook_received", fields)
	respond.Accepted(c, gin.H{"received": true})
}
