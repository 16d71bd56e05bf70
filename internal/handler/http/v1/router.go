package v1

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

const rateLimitVisitorTTL = 10 * time.Minute

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(ctx context.Context, api *gin.RouterGroup) {
	// Регистрация и вход без токена
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}

	private := api.Group("", SessionAuthMiddleware(h.authService, h.logger))
	{
		private.POST("/auth/logout", h.logout)
		private.GET("/auth/me", h.me)

		contacts := private.Group("/contacts")
		{
			contacts.GET("", h.listContacts)
			contacts.POST("", h.addContact)
			contacts.PUT("/:id", h.updateContact)
			contacts.DELETE("/:id", h.deleteContact)
		}

		private.GET("/places/nearby", h.nearbyPlaces)
		private.GET("/geocode", h.geocode)

		// Тревоги не ограничиваются: каждое нажатие SOS и отмена должны дойти до контактов
		alerts := private.Group("/alerts")
		{
			alerts.POST("/sos", h.sendSOS)
			alerts.POST("/false-alarm", h.sendFalseAlarm)
		}

		// Публикации в ленту ограничены по частоте для каждого пользователя, чтение нет
		feedWrites := RateLimitMiddleware(ctx, h.cfg.FeedRateLimitRPS, h.cfg.FeedRateLimitBurst, rateLimitVisitorTTL, h.logger)
		incidents := private.Group("/incidents")
		{
			incidents.POST("", feedWrites, h.createIncident)
			incidents.GET("", h.listIncidents)
			incidents.GET("/nearby", h.nearbyIncidents)
			incidents.GET("/stream", h.streamIncidents)
			incidents.GET("/:id", h.getIncident)
			incidents.GET("/:id/comments", h.listComments)
			incidents.POST("/:id/comments", feedWrites, h.addComment)
		}
	}

	// Статистика для администратора по API-ключу
	api.GET("/stats", APIKeyAuthMiddleware(h.cfg, h.logger), h.getStats)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
