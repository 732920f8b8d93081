package handlers

import "github.com/gin-gonic/gin"

func SetupRoutes(router *gin.Engine, d *Deps) {
	router.GET("/health", HealthHandler)
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	v1 := router.Group("/v1")
	{
		v1.GET("/flow", GetFlow(d))
		v1.POST("/flow", PostFlow(d))
		v1.GET("/summary", GetSummary(d))
		v1.GET("/audits", GetAudits(d))
	}
}
