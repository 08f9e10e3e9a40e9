package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hamrokrishi/advisory-service/internal/errs"
	"github.com/hamrokrishi/advisory-service/internal/model"
	"github.com/hamrokrishi/advisory-service/internal/notify"
	"github.com/hamrokrishi/advisory-service/internal/service"
)

type TicketHandler struct {
	svc    service.TicketServicer
	notify *notify.Dispatcher
}

func NewTicketHandler(svc service.TicketServicer, dispatcher *notify.Dispatcher) *TicketHandler {
	return &TicketHandler{svc: svc, notify: dispatcher}
}

type createTicketRequest struct {
	FarmerID           string   `json:"farmer_id" binding:"required"`
	OfficeID           uint64   `json:"office_id" binding:"required"`
	CropName           string   `json:"crop_name" binding:"required"`
	ProblemTitle       string   `json:"problem_title" binding:"required"`
	ProblemDescription string   `json:"problem_description" binding:"required"`
	ImageURLs          []string `json:"image_urls"`
}

func (h *TicketHandler) Create(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	ticket, err := h.svc.Create(c.Request.Context(), service.CreateTicketInput{
		FarmerID:           req.FarmerID,
		OfficeID:           req.OfficeID,
		CropName:           req.CropName,
		ProblemTitle:       req.ProblemTitle,
		ProblemDescription: req.ProblemDescription,
		ImageURLs:          req.ImageURLs,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNoTechnician):
			// Distinguishable from a transport failure so the UI can
			// suggest picking a different office.
			c.JSON(http.StatusConflict, gin.H{
				"error":   "no_technician",
				"message": "no staff is currently available for this office",
			})
		case errors.Is(err, errs.ErrOfficeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "office not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create ticket"})
		}
		return
	}
	h.notify.TicketCreatedAsync(ticket, req.ImageURLs)
	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ticket"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TicketHandler) List(c *gin.Context) {
	filter := make(map[string]interface{})
	if v := c.Query("farmer_id"); v != "" {
		filter["farmer_id = ?"] = v
	}
	if v := c.Query("technician_id"); v != "" {
		filter["technician_id = ?"] = v
	}
	if v := c.Query("office_id"); v != "" {
		filter["office_id = ?"] = v
	}
	if v := c.Query("status"); v != "" {
		filter["status = ?"] = v
	}

	limit := 0
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	items, total, err := h.svc.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tickets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tickets": items,
		"total":   total,
	})
}

type markViewedRequest struct {
	Viewer string `json:"viewer" binding:"required,oneof=farmer technician"`
}

func (h *TicketHandler) MarkViewed(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req markViewedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	t, err := h.svc.MarkViewed(c.Request.Context(), id, model.SenderType(req.Viewer))
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark ticket viewed"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TicketHandler) Close(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	t, err := h.svc.Close(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to close ticket"})
		return
	}
	c.JSON(http.StatusOK, t)
}
