package manuals

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"support-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the processor.
type Handler struct {
	Processor *Processor
}

// NewHandler constructs a Handler.
func NewHandler(p *Processor) *Handler {
	return &Handler{Processor: p}
}

// RegisterRoutes attaches manual routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/manuals", h.list)
	rg.GET("/manuals/:id", h.get)
	rg.DELETE("/manuals", h.delete)
	rg.POST("/upload-manual", h.upload)
	rg.POST("/search-manual", h.search)
}

func (h *Handler) list(c *gin.Context) {
	manuals, err := h.Processor.GetAllManuals(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to list manuals")
		return
	}
	respond.OK(c, gin.H{"manuals": manuals})
}

func (h *Handler) get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set("manualId", id)
	m, err := h.Processor.GetManual(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Manual not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch manual")
		return
	}
	respond.OK(c, gin.H{"manual": m})
}

func (h *Handler) delete(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Manual ID is required")
		return
	}
	c.Set("manualId", id)

	deleted, err := h.Processor.DeleteManual(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to delete manual")
		return
	}
	if !deleted {
		respond.Error(c, http.StatusNotFound, "not_found", "Manual not found")
		return
	}
	respond.OK(c, gin.H{"success": true})
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No file provided")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Unable to read file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Unable to read file")
		return
	}

	m, err := h.Processor.UploadManual(c.Request.Context(), Upload{
		Name:        c.PostForm("name"),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyContent):
			respond.Error(c, http.StatusBadRequest, "validation_error", "File content is empty")
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error())
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to process manual")
		}
		return
	}
	c.Set("manualId", m.ID)
	respond.OK(c, gin.H{"success": true, "manual": m})
}

type searchRequest struct {
	ManualID      string         `json:"manualId"`
	Query         string         `json:"query"`
	TicketContext *TicketContext `json:"ticketContext"`
}

func (h *Handler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	req.ManualID = strings.TrimSpace(req.ManualID)
	if req.ManualID == "" || strings.TrimSpace(req.Query) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "manualId and query are required")
		return
	}
	c.Set("manualId", req.ManualID)

	results, source, err := h.Processor.SearchManual(c.Request.Context(), req.ManualID, SearchQuery{
		Query:         req.Query,
		TicketContext: req.TicketContext,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to search manual")
		return
	}
	if source != "" {
		c.Header("X-Search-Source", string(source))
	}
	respond.OK(c, gin.H{"results": results})
}
