package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1.
// Изменяющие маршруты закрыты API-ключом, если ключи заданы в конфигурации.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	mutating := []gin.HandlerFunc{}
	if len(h.cfg.APIKeys) > 0 {
		mutating = append(mutating, APIKeyAuthMiddleware(h.cfg, h.logger))
	}
	protect := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, mutating...), handler)
	}

	// Маршруты для управления активностями
	activities := api.Group("/activities")
	{
		activities.POST("", protect(h.reportActivity)...)
		activities.GET("", h.listActivities)
		activities.GET("/:id", h.getActivity)
		activities.PUT("/:id", protect(h.updateActivity)...)
		activities.POST("/:id/close", protect(h.closeActivity)...)
		activities.GET("/:id/weather", h.getWeather)
	}

	api.GET("/summary", h.getSummary)
	api.GET("/map", h.getMap)
	api.POST("/reports", protect(h.exportReport)...)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
