package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/safewalk/internal/models"
)

// @Summary Find nearby safe places
// @Description Police stations, hospitals, pharmacies and fire stations around a point, nearest first.
// @Description Categories that could not be searched are listed in failures.
// @Tags Places
// @Produce json
// @Security BearerAuth
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param radius query number false "Search radius in meters"
// @Success 200 {object} NearbyPlacesResponse
// @Failure 400 {object} map[string]string "Invalid coordinates"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "All place categories failed"
// @Failure 503 {object} map[string]string "Place search not configured"
// @Router /places/nearby [get]
func (h *Handler) nearbyPlaces(c *gin.Context) {
	var query NearbyQuery
	log := h.logger.WithField("method", "nearbyPlaces")
	if !h.bindQuery(c, log, &query) {
		return
	}

	center := models.Coordinate{Latitude: *query.Latitude, Longitude: *query.Longitude}
	result, err := h.placeService.FindNearby(c.Request.Context(), center, query.Radius)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToNearbyPlacesResponse(result))
}

// @Summary Geocode an address
// @Tags Places
// @Produce json
// @Security BearerAuth
// @Param address query string true "Free-text address"
// @Success 200 {object} GeocodeResponse
// @Failure 400 {object} map[string]string "Address required"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Location not found"
// @Failure 503 {object} map[string]string "Place search not configured"
// @Router /geocode [get]
func (h *Handler) geocode(c *gin.Context) {
	log := h.logger.WithField("method", "geocode")
	address := strings.TrimSpace(c.Query("address"))
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address required"})
		return
	}

	location, err := h.placeService.Geocode(c.Request.Context(), address)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, GeocodeResponse{Latitude: location.Latitude, Longitude: location.Longitude})
}
