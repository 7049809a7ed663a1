package controllers

import (
	"net/http"

	"voyagemate/src/common"
	"voyagemate/src/db"
	"voyagemate/src/models"
	"voyagemate/src/types"

	"github.com/gin-gonic/gin"
)

func DestinationsList(ctx *gin.Context) (*common.DestinationPage, int, error) {
	var query types.DestinationQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		status, err := bindStatus(err)
		return nil, status, err
	}
	page, err := common.SearchDestinations(db.GetDb(), &query)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return page, http.StatusOK, nil
}

func DestinationsShow(ctx *gin.Context) (*models.Destination, int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	dest, err := common.GetDestination(db.GetDb(), params.ID)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return dest, http.StatusOK, nil
}

func DestinationsReview(ctx *gin.Context) (*models.Review, int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	var body types.ReviewRequestBody
	if status, err := bindJSON(ctx, &body); err != nil {
		return nil, status, err
	}
	review, err := common.UpsertReview(db.GetDb(), params.ID, ctx.GetUint("id"), &body)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return review, http.StatusOK, nil
}

func DestinationsToggleFavorite(ctx *gin.Context) (*common.FavoriteStatus, int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	status, err := common.ToggleFavorite(db.GetDb(), params.ID, ctx.GetUint("id"))
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return status, http.StatusOK, nil
}

func DestinationsFavoriteStatus(ctx *gin.Context) (*common.FavoriteStatus, int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	fav, err := common.IsFavorited(db.GetDb(), params.ID, ctx.GetUint("id"))
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return &common.FavoriteStatus{IsFavorited: fav}, http.StatusOK, nil
}
