package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossy-p/livestream-gateway/internal/models"
)

// Token mints a room-join token for the identity in the request body.
func (h *Handler) Token(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	token, err := h.gateway.RoomToken(req.Identity)
	if err != nil {
		internalError(c, err, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}

// StreamToken mints a playback token, or reports that nothing is streaming.
func (h *Handler) StreamToken(c *gin.Context) {
	token, ok, err := h.gateway.StreamToken(c.Request.Context())
	if err != nil {
		internalError(c, err, "Failed to generate stream token")
		return
	}

	if !ok {
		c.JSON(http.StatusOK, models.StreamTokenResponse{Message: models.MessageNotStreaming})
		return
	}
	c.JSON(http.StatusOK, models.StreamTokenResponse{Token: &token, Message: models.MessageSuccess})
}
