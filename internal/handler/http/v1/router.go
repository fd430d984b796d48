package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Приём и чтение алертов
	alerts := api.Group("/alerts")
	{
		alerts.POST("", h.createAlert)
		alerts.GET("", h.listAlerts)
		alerts.GET("/stats", h.getStats)
		alerts.GET("/:id", h.getAlert)
		alerts.POST("/:id/notify", h.notifyAlert)
	}

	// Реестр спасательных организаций
	api.GET("/responders", h.listResponders)
	api.GET("/responders/:id", h.getResponder)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
