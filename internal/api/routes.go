package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the valuation API on the router.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.Use(handler.RequestID)

	api := router.Group("/api")
	{
		api.POST("/estimate", handler.Estimate)
		api.POST("/listings", handler.IngestListings)
		api.GET("/investment-analysis", handler.InvestmentAnalysis)

		api.GET("/provinces", handler.lookupHandler("province"))
		api.GET("/districts", handler.lookupHandler("district"))
		api.GET("/neighborhoods/:district", handler.GetNeighborhoods)
		api.GET("/property-types", handler.lookupHandler("property_type"))
		api.GET("/heating-types", handler.lookupHandler("heating_type"))
		api.GET("/room-counts", handler.lookupHandler("room_count"))
		api.GET("/building-ages", handler.lookupHandler("building_age"))
		api.GET("/floor-locations", handler.lookupHandler("floor_location"))
		api.GET("/usage-statuses", handler.lookupHandler("usage_status"))
		api.GET("/deed-statuses", handler.lookupHandler("deed_status"))
	}
}
