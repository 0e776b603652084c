package handler

import (
	"io"
	"time"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/events"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const keepAliveInterval = 15 * time.Second

// EventsHandler streams change events to browsers as server-sent events.
type EventsHandler struct {
	broadcaster *events.Broadcaster
	logger      *zap.Logger
	keepAlive   time.Duration
}

func NewEventsHandler(broadcaster *events.Broadcaster, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		broadcaster: broadcaster,
		logger:      logger,
		keepAlive:   keepAliveInterval,
	}
}

// Stream sends one SSE per change event, named by its type
// ("product.updated"). ?entity=alert limits the stream to one entity.
func (h *EventsHandler) Stream(c *gin.Context) {
	ch, unsubscribe := h.broadcaster.Subscribe()
	defer unsubscribe()

	entity := c.Query("entity")
	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	h.logger.Debug("Event stream opened",
		zap.String("client_ip", c.ClientIP()),
		zap.String("entity", entity),
		zap.Int("subscribers", h.broadcaster.Subscribers()))

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			if entity != "" && string(ev.Entity) != entity {
				return true
			}
			c.SSEvent(ev.Type(), ev)
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", t.UTC().Format(time.RFC3339))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})

	h.logger.Debug("Event stream closed", zap.String("client_ip", c.ClientIP()))
}
