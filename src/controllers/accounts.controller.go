package controllers

import (
	"net/http"

	"voyagemate/src/common"
	"voyagemate/src/db"
	"voyagemate/src/models"
	"voyagemate/src/models/scopes"

	"github.com/gin-gonic/gin"
)

func AccountsMe(ctx *gin.Context) (*models.User, int, error) {
	var user models.User
	if err := db.GetDb().Scopes(scopes.WithID(ctx.GetUint("id"))).First(&user).Error; err != nil {
		return nil, ErrorStatus(err), err
	}
	return &user, http.StatusOK, nil
}

func AccountsFavorites(ctx *gin.Context) ([]models.Destination, int, error) {
	data, err := common.ListFavoriteDestinations(db.GetDb(), ctx.GetUint("id"))
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return data, http.StatusOK, nil
}
