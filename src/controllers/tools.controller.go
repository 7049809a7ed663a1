package controllers

import (
	"net/http"

	"voyagemate/src/common"
	"voyagemate/src/db"
	"voyagemate/src/types"

	"github.com/gin-gonic/gin"
)

func CurrencyConvert(ctx *gin.Context) (*common.Conversion, int, error) {
	var body types.ConvertCurrencyRequestBody
	if status, err := bindJSON(ctx, &body); err != nil {
		return nil, status, err
	}
	res, err := services.Currency.Convert(ctx.Request.Context(), &body)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return res, http.StatusOK, nil
}

func WeatherByDestination(ctx *gin.Context) (*common.Weather, int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	w, err := services.Weather.ForDestination(ctx.Request.Context(), db.GetDb(), params.ID)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return w, http.StatusOK, nil
}

func WeatherByLocation(ctx *gin.Context) (*common.Weather, int, error) {
	var query types.WeatherQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		status, err := bindStatus(err)
		return nil, status, err
	}
	return services.Weather.ByLocation(ctx.Request.Context(), query.City, query.Country), http.StatusOK, nil
}
