package api

import (
	"log"
	stdhttp "net/http"

	intconfig "lrbackend/internal/config"
	h "lrbackend/internal/http/handlers"
	"lrbackend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	_ = env

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	authRequired := middleware.RequireAuth()

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Vehicles
		vehicles := api.Group("/vehicles")
		vehicles.GET("", h.GetVehicles)
		vehicles.GET("/:id", h.GetVehicleByID)
		vehicles.POST("", authRequired, h.CreateVehicle)
		vehicles.PUT("/:id", authRequired, h.UpdateVehicle)
		vehicles.DELETE("/:id", authRequired, h.DeleteVehicle)

		// Drivers
		drivers := api.Group("/drivers")
		drivers.GET("", h.GetDrivers)
		drivers.GET("/:id", h.GetDriverByID)
		drivers.POST("", authRequired, h.CreateDriver)
		drivers.PUT("/:id", authRequired, h.UpdateDriver)
		drivers.DELETE("/:id", authRequired, h.DeleteDriver)

		// Consignors
		consignors := api.Group("/consignors")
		consignors.GET("", h.GetConsignors)
		consignors.GET("/:id", h.GetConsignorByID)
		consignors.POST("", authRequired, h.CreateConsignor)
		consignors.PUT("/:id", authRequired, h.UpdateConsignor)
		consignors.DELETE("/:id", authRequired, h.DeleteConsignor)

		// Consignees
		consignees := api.Group("/consignees")
		consignees.GET("", h.GetConsignees)
		consignees.GET("/:id", h.GetConsigneeByID)
		consignees.POST("", authRequired, h.CreateConsignee)
		consignees.PUT("/:id", authRequired, h.UpdateConsignee)
		consignees.DELETE("/:id", authRequired, h.DeleteConsignee)

		// Freight rates
		rates := api.Group("/freight-rates")
		rates.GET("", h.GetFreightRates)
		rates.GET("/:id", h.GetFreightRateByID)
		rates.POST("", authRequired, h.CreateFreightRate)
		rates.PUT("/:id", authRequired, h.UpdateFreightRate)
		rates.DELETE("/:id", authRequired, h.DeleteFreightRate)

		// Consignment notes
		lrs := api.Group("/lrs")
		lrs.GET("", h.GetLRs)
		lrs.GET("/:id", h.GetLRByID)
		lrs.GET("/:id/pdf", h.GetLRPDF)
		lrs.POST("", authRequired, h.CreateLR)
		lrs.PUT("/:id", authRequired, h.UpdateLR)
		lrs.DELETE("/:id", authRequired, h.DeleteLR)
	}

	return r
}
