package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршруты жизненного цикла инцидентов
	incidents := api.Group("/incidents")
	{
		incidents.POST("", h.createIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.PATCH("/:id", h.updateIncident)
		incidents.GET("/:id/photo", h.getIncidentPhoto)
	}

	// Маршрут журнала аудита
	api.GET("/audit/:incidentId", h.getAuditTrail)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
