package v1

import (
	"io"

	"github.com/gin-gonic/gin"
)

// @Summary Live incident feed
// @Description Server-Sent Events. "incidents" carries the full incident list on start and on every change,
// @Description "comments" carries the full comment list of one incident, "error" reports a failed reload.
// @Tags Incidents
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {object} FeedEventResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/stream [get]
func (h *Handler) streamIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "streamIncidents")

	sub, err := h.incidentService.Subscribe(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	defer func() {
		if err := sub.Close(); err != nil {
			log.WithError(err).Warn("Failed to close incident subscription")
		}
	}()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		event, ok := <-sub.Events()
		if !ok {
			return false
		}
		c.SSEvent(string(event.Kind), ModelToFeedEventResponse(event))
		return true
	})
}
