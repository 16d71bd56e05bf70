package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/safewalk/internal/config"
	"github.com/shenikar/safewalk/internal/service"
	"github.com/sirupsen/logrus"
)

// Services - зависимости обработчиков
type Services struct {
	Auth      service.AuthService
	Contacts  service.ContactService
	Places    service.PlaceService
	Alerts    service.AlertService
	Incidents service.IncidentService
}

type Handler struct {
	authService     service.AuthService
	contactService  service.ContactService
	placeService    service.PlaceService
	alertService    service.AlertService
	incidentService service.IncidentService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(services Services, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		authService:     services.Auth,
		contactService:  services.Contacts,
		placeService:    services.Places,
		alertService:    services.Alerts,
		incidentService: services.Incidents,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// errorStatuses сопоставляет ошибки сервисов с HTTP-статусами; клиенту уходит текст сентинела
var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrUnauthenticated, http.StatusUnauthorized},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrEmailTaken, http.StatusConflict},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrLocationNotFound, http.StatusNotFound},
	{service.ErrInvalidCategory, http.StatusBadRequest},
	{service.ErrUsernameNotFound, http.StatusBadRequest},
	{service.ErrSMSPermissionDenied, http.StatusForbidden},
	{service.ErrAllCategoriesFailed, http.StatusBadGateway},
	{service.ErrPlacesUnavailable, http.StatusServiceUnavailable},
}

func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			log.WithError(err).Warn("Request rejected by service")
			c.JSON(e.status, gin.H{"error": e.err.Error()})
			return
		}
	}
	// Сообщение удаленного сбоя отдается клиенту без изменений, клиент показывает его пользователю
	log.WithError(err).Error("Service call failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// bindJSON разбирает и валидирует тело запроса; при ошибке ответ уже отправлен
func (h *Handler) bindJSON(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (h *Handler) bindQuery(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindQuery(input); err != nil {
		log.WithError(err).Warn("Failed to bind query")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return false
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// @Summary Get alert statistics
// @Description Get the number of distinct users who raised an SOS within the stats window. Requires API key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	stats, err := h.alertService.GetStats(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, StatsResponse{UserCount: stats.UserCount, WindowMinutes: stats.WindowMinutes})
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
