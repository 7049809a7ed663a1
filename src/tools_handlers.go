package main

import (
	"voyagemate/src/controllers"

	"github.com/gin-gonic/gin"
)

// toolRoutes are the currency converter and weather lookups. Both are
// public and return plain JSON bodies.
func toolRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.
		POST("/currency/convert", func(ctx *gin.Context) {
			res, status, err := controllers.CurrencyConvert(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, res)
		}).
		GET("/weather", func(ctx *gin.Context) {
			w, status, err := controllers.WeatherByLocation(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, w)
		}).
		GET("/weather/:id", func(ctx *gin.Context) {
			w, status, err := controllers.WeatherByDestination(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, w)
		})
	return apiv1
}
