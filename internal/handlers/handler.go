package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossy-p/livestream-gateway/internal/livestream"
	"github.com/mossy-p/livestream-gateway/internal/logging"
	"github.com/mossy-p/livestream-gateway/internal/models"
)

// Gateway is what the handlers need from the livestream service.
type Gateway interface {
	EnsureRoom(ctx context.Context) (*livestream.RoomInfo, error)
	StreamingStatus(ctx context.Context) (string, error)
	StartStream(ctx context.Context) error
	StopStream(ctx context.Context) error
	RoomToken(identity string) (string, error)
	StreamToken(ctx context.Context) (token string, ok bool, err error)
}

// Handler serves the gateway routes on top of a Gateway.
type Handler struct {
	gateway Gateway
}

// NewHandler creates a handler backed by gateway.
func NewHandler(gateway Gateway) *Handler {
	return &Handler{gateway: gateway}
}

// RegisterRoutes mounts pages, token endpoints and stream controls on r.
// r must already have the page templates loaded.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	r.GET("/", h.Index)
	r.GET("/stream", h.StreamPage)

	r.POST("/token", h.Token)
	r.POST("/stream-token", h.StreamToken)
	r.GET("/stream-token", h.StreamToken)

	r.GET("/start-stream", h.StartStream)
	r.GET("/stop-stream", h.StopStream)
}

// Health reports liveness only. It does not call the provider.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// internalError logs err against the request and replies with a generic 500.
func internalError(c *gin.Context, err error, msg string) {
	l := logging.Ctx(c.Request.Context())
	l.Error().Err(err).Msg(msg)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: msg})
}
