package main

import (
	"voyagemate/src/controllers"

	"github.com/gin-gonic/gin"
)

func tripHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/trips", func(ctx *gin.Context) {
			trips, status, err := controllers.TripsList(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": trips})
		}).
		POST("/trips", func(ctx *gin.Context) {
			trip, status, err := controllers.TripsCreate(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": trip})
		}).
		GET("/trips/:id", func(ctx *gin.Context) {
			trip, status, err := controllers.TripsShow(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": trip})
		}).
		PUT("/trips/:id", func(ctx *gin.Context) {
			trip, status, err := controllers.TripsUpdate(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": trip})
		}).
		DELETE("/trips/:id", func(ctx *gin.Context) {
			status, err := controllers.TripsDelete(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.Status(status)
		})

	g.
		POST("/trips/:id/itinerary", func(ctx *gin.Context) {
			item, status, err := controllers.ItineraryCreate(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": item})
		}).
		PUT("/trips/:id/itinerary/:itemId", func(ctx *gin.Context) {
			item, status, err := controllers.ItineraryUpdate(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": item})
		}).
		DELETE("/trips/:id/itinerary/:itemId", func(ctx *gin.Context) {
			status, err := controllers.ItineraryDelete(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.Status(status)
		})

	g.
		POST("/trips/:id/expenses", func(ctx *gin.Context) {
			expense, status, err := controllers.ExpensesCreate(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": expense})
		}).
		PUT("/trips/:id/expenses/:itemId", func(ctx *gin.Context) {
			expense, status, err := controllers.ExpensesUpdate(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": expense})
		}).
		DELETE("/trips/:id/expenses/:itemId", func(ctx *gin.Context) {
			status, err := controllers.ExpensesDelete(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.Status(status)
		})

	g.
		POST("/trips/:id/checklist", func(ctx *gin.Context) {
			item, status, err := controllers.ChecklistCreate(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": item})
		}).
		PUT("/trips/:id/checklist/:itemId", func(ctx *gin.Context) {
			item, status, err := controllers.ChecklistUpdate(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": item})
		}).
		PATCH("/trips/:id/checklist/:itemId/toggle", func(ctx *gin.Context) {
			item, status, err := controllers.ChecklistToggle(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, gin.H{"data": item})
		}).
		DELETE("/trips/:id/checklist/:itemId", func(ctx *gin.Context) {
			status, err := controllers.ChecklistDelete(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.Status(status)
		})
	return g
}
