package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossy-p/livestream-gateway/internal/models"
)

// StartStream starts the livestream pipeline, or does nothing if one is running.
func (h *Handler) StartStream(c *gin.Context) {
	if err := h.gateway.StartStream(c.Request.Context()); err != nil {
		internalError(c, err, "Failed to start stream")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: models.MessageSuccess})
}

// StopStream ends every live streamer and processor.
func (h *Handler) StopStream(c *gin.Context) {
	if err := h.gateway.StopStream(c.Request.Context()); err != nil {
		internalError(c, err, "Failed to stop stream")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: models.MessageSuccess})
}
