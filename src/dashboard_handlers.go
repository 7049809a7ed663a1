package main

import (
	"voyagemate/src/controllers"

	"github.com/gin-gonic/gin"
)

func dashboardHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.GET("/dashboard", func(ctx *gin.Context) {
		dash, status, err := controllers.DashboardShow(ctx)
		if err != nil {
			controllers.Fail(ctx, status, err)
			return
		}
		ctx.JSON(status, gin.H{"data": dash})
	})
	return g
}
