package main

import (
	"voyagemate/src/controllers"

	"github.com/gin-gonic/gin"
)

func journalHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	update := func(ctx *gin.Context) {
		entry, status, err := controllers.JournalUpdate(ctx)
		if err != nil {
			controllers.Fail(ctx, status, err)
			return
		}
		ctx.JSON(status, gin.H{"data": entry})
	}
	g.
		GET("/trips/:id/journal", func(ctx *gin.Context) {
			entries, status, err := controllers.JournalList(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": entries})
		}).
		POST("/trips/:id/journal", func(ctx *gin.Context) {
			entry, status, err := controllers.JournalCreate(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": entry})
		}).
		// multipart clients cannot always send PUT bodies, so POST updates too
		PUT("/trips/:id/journal/:entryId", update).
		POST("/trips/:id/journal/:entryId", update).
		DELETE("/trips/:id/journal/:entryId", func(ctx *gin.Context) {
			status, err := controllers.JournalDelete(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.Status(status)
		}).
		POST("/trips/:id/journal/:entryId/images", func(ctx *gin.Context) {
			images, status, err := controllers.JournalUploadImages(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": images})
		}).
		PUT("/trips/:id/journal/:entryId/reorder", func(ctx *gin.Context) {
			status, err := controllers.JournalReorderImages(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.Status(status)
		}).
		DELETE("/trips/:id/journal/:entryId/images/:imageId", func(ctx *gin.Context) {
			status, err := controllers.JournalDeleteImage(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.Status(status)
		})
	return g
}
