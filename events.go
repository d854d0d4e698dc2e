package main

import "github.com/gin-gonic/gin"

// streamEvents upgrades to a websocket and streams the user's domain events
// (fasting, points, badges, alerts) until the client disconnects.
// GET /api/events (token via Authorization header or ?access_token=)
func (h *Handler) streamEvents(c *gin.Context) {
	h.hub.ServeWS(c.Writer, c.Request, c.GetString("user_id"))
}
