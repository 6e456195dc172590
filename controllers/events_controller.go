package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ortega-imprenta/orders-api/services"
)

// StreamOrderEvents handles GET /api/v1/events/orders - a server-sent
// event stream of order change notifications. Clients re-fetch on every
// event; the stream carries no diffs.
func StreamOrderEvents(c *gin.Context) {
	events := services.GetEventsService()
	if events == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EVENTS_UNAVAILABLE",
				"message": "Change notifications are not configured",
			},
		})
		return
	}

	ctx := c.Request.Context()
	stream, cancel, err := events.SubscribeOrderEvents(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SUBSCRIBE_FAILED",
				"message": "Failed to subscribe to order events",
			},
		})
		return
	}
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-stream:
			if !ok {
				return false
			}
			c.SSEvent("order", event)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
