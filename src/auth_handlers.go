package main

import (
	"net/http"

	"voyagemate/src/controllers"

	"github.com/gin-gonic/gin"
)

func guestAuthRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	guest := apiv1.Group("/auth")
	guest.
		POST("/login", func(ctx *gin.Context) {
			res, status, err := controllers.AuthLogin(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, res)
		}).
		POST("/register", func(ctx *gin.Context) {
			res, status, err := controllers.AuthRegister(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(status, res)
		})
	return guest
}

func accountHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	accounts := g.Group("/accounts")
	accounts.
		GET("/me", func(ctx *gin.Context) {
			user, status, err := controllers.AccountsMe(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": user})
		}).
		GET("/favorites", func(ctx *gin.Context) {
			destinations, status, err := controllers.AccountsFavorites(ctx)
			if err != nil {
				controllers.Fail(ctx, status, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": destinations})
		})
	return g
}
