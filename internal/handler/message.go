package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hamrokrishi/advisory-service/internal/errs"
	"github.com/hamrokrishi/advisory-service/internal/model"
	"github.com/hamrokrishi/advisory-service/internal/notify"
	"github.com/hamrokrishi/advisory-service/internal/service"
	"github.com/hamrokrishi/advisory-service/internal/ws"
)

type MessageHandler struct {
	svc    service.MessageServicer
	notify *notify.Dispatcher
	hub    *ws.Hub
}

func NewMessageHandler(svc service.MessageServicer, dispatcher *notify.Dispatcher, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{svc: svc, notify: dispatcher, hub: hub}
}

type postMessageRequest struct {
	SenderType  string `json:"sender_type" binding:"required,oneof=farmer technician"`
	SenderID    string `json:"sender_id"`
	MessageText string `json:"message_text"`
	ImageURL    string `json:"image_url"`
}

func (h *MessageHandler) Post(c *gin.Context) {
	ticketID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	msg, ticket, err := h.svc.Post(c.Request.Context(), service.PostMessageInput{
		TicketID:    ticketID,
		SenderType:  model.SenderType(req.SenderType),
		SenderID:    req.SenderID,
		MessageText: req.MessageText,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "message requires text or an image"})
		case errors.Is(err, errs.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		case errors.Is(err, errs.ErrTicketClosed):
			c.JSON(http.StatusConflict, gin.H{
				"error":   "ticket_closed",
				"message": "this ticket is closed; open a new support request",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to post message"})
		}
		return
	}

	h.broadcast(ticketID, msg)
	if msg.SenderType == model.SenderTechnician {
		h.notify.TicketAnsweredAsync(ticket, msg)
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *MessageHandler) List(c *gin.Context) {
	ticketID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}
	messages, err := h.svc.List(c.Request.Context(), ticketID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// broadcast pushes the new message to websocket subscribers watching the
// ticket.
func (h *MessageHandler) broadcast(ticketID uint64, msg *model.Message) {
	if h.hub == nil {
		return
	}
	payload, err := json.Marshal(gin.H{
		"type":      ws.EventMessageCreated,
		"ticket_id": ticketID,
		"message":   msg,
	})
	if err != nil {
		return
	}
	h.hub.BroadcastTicket(ticketID, payload)
}
