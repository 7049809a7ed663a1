package main

import (
	"os"
	"time"

	"voyagemate/src/config"
	"voyagemate/src/controllers"
	"voyagemate/src/logger"
	"voyagemate/src/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// shareHandlers are the owner's controls over a trip's share link.
func shareHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/trips/:id/share", func(ctx *gin.Context) {
			link, status, err := controllers.ShareCreate(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": link})
		}).
		GET("/trips/:id/share", func(ctx *gin.Context) {
			link, status, err := controllers.ShareShow(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": link})
		}).
		DELETE("/trips/:id/share", func(ctx *gin.Context) {
			status, err := controllers.ShareRevoke(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.Status(status)
		}).
		GET("/trips/:id/share/qrcode", func(ctx *gin.Context) {
			file, status, err := controllers.ShareQRCode(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			defer func() {
				if err := os.Remove(file); err != nil {
					logger.L.Warn("could not remove qrcode file", zap.String("path", file), zap.Error(err))
				}
			}()
			ctx.Header("Content-Type", "image/jpeg")
			ctx.File(file)
		})
	return g
}

// sharedTripRoutes are reachable by anyone holding an active token. Signed
// in visitors are recognised so their own comments stay editable.
func sharedTripRoutes(g *gin.Engine, limiter redis.Cmdable) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	shared := apiv1.Group("/s/:token")
	shared.Use(middlewares.OptionalAuth)
	commentLimit := middlewares.RateLimit(limiter, "comments", config.Get().RateLimit.Comments, time.Minute)
	shared.
		GET("", func(ctx *gin.Context) {
			trip, status, err := controllers.SharedTripShow(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": trip})
		}).
		POST("/comments", commentLimit, func(ctx *gin.Context) {
			comment, status, err := controllers.CommentsCreate(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": comment})
		}).
		PUT("/comments/:commentId", commentLimit, func(ctx *gin.Context) {
			comment, status, err := controllers.CommentsUpdate(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": comment})
		}).
		DELETE("/comments/:commentId", func(ctx *gin.Context) {
			status, err := controllers.CommentsDelete(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.Status(status)
		})
	return shared
}
