package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Index renders the speaker page. It bootstraps the room as a side effect
// and shows whether a livestream is currently running.
func (h *Handler) Index(c *gin.Context) {
	ctx := c.Request.Context()

	if _, err := h.gateway.EnsureRoom(ctx); err != nil {
		internalError(c, err, "Failed to prepare room")
		return
	}

	status, err := h.gateway.StreamingStatus(ctx)
	if err != nil {
		internalError(c, err, "Failed to check stream status")
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"StreamingStatus": status,
	})
}

// StreamPage renders the audience page.
func (h *Handler) StreamPage(c *gin.Context) {
	c.HTML(http.StatusOK, "stream.html", nil)
}
