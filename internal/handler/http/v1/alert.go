package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/safewalk/internal/models"
)

// @Summary Send an SOS
// @Description Text every emergency contact the user's location. Falls back to the default contacts when the user has none.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param location body LocationRequest true "Current location"
// @Success 202 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "SMS permission not granted"
// @Router /alerts/sos [post]
func (h *Handler) sendSOS(c *gin.Context) {
	h.sendAlert(c, "sendSOS", models.AlertSOS)
}

// @Summary Send a false alarm
// @Description Tell every emergency contact the previous SOS can be disregarded.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param location body LocationRequest true "Current location"
// @Success 202 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "SMS permission not granted"
// @Router /alerts/false-alarm [post]
func (h *Handler) sendFalseAlarm(c *gin.Context) {
	h.sendAlert(c, "sendFalseAlarm", models.AlertFalseAlarm)
}

func (h *Handler) sendAlert(c *gin.Context, method string, kind models.AlertKind) {
	var input LocationRequest
	log := h.logger.WithField("method", method)
	if !h.bindJSON(c, log, &input) {
		return
	}

	location := models.Coordinate{Latitude: *input.Latitude, Longitude: *input.Longitude}
	var (
		result *models.AlertResult
		err    error
	)
	if kind == models.AlertFalseAlarm {
		result, err = h.alertService.SendFalseAlarm(c.Request.Context(), sessionFrom(c), location)
	} else {
		result, err = h.alertService.SendSOS(c.Request.Context(), sessionFrom(c), location)
	}
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusAccepted, ModelToAlertResponse(result))
}
