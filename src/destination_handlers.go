package main

import (
	"voyagemate/src/controllers"

	"github.com/gin-gonic/gin"
)

func publicDestinationRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.
		GET("/destinations", func(ctx *gin.Context) {
			page, status, err := controllers.DestinationsList(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, page)
		}).
		GET("/destinations/:id", func(ctx *gin.Context) {
			dest, status, err := controllers.DestinationsShow(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": dest})
		})
	return apiv1
}

func destinationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/destinations/:id/reviews", func(ctx *gin.Context) {
			review, status, err := controllers.DestinationsReview(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": review})
		}).
		POST("/destinations/:id/favorite", func(ctx *gin.Context) {
			fav, status, err := controllers.DestinationsToggleFavorite(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, fav)
		}).
		GET("/destinations/:id/favorite", func(ctx *gin.Context) {
			fav, status, err := controllers.DestinationsFavoriteStatus(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, fav)
		})
	return g
}
