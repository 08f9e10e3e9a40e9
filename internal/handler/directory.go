package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hamrokrishi/advisory-service/internal/service"
)

type DirectoryHandler struct {
	svc service.DirectoryServicer
}

func NewDirectoryHandler(svc service.DirectoryServicer) *DirectoryHandler {
	return &DirectoryHandler{svc: svc}
}

func (h *DirectoryHandler) ListOffices(c *gin.Context) {
	offices, err := h.svc.ListOffices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list offices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"offices": offices})
}

func (h *DirectoryHandler) ListTechnicians(c *gin.Context) {
	officeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid office id"})
		return
	}
	technicians, err := h.svc.ListActiveTechnicians(c.Request.Context(), officeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list technicians"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"technicians": technicians})
}
