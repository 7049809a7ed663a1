package controllers

import (
	"net/http"

	"voyagemate/src/common"
	"voyagemate/src/config"
	"voyagemate/src/db"

	"github.com/gin-gonic/gin"
)

func DashboardShow(ctx *gin.Context) (*common.Dashboard, int, error) {
	dash, err := common.BuildDashboard(db.GetDb(), ctx.GetUint("id"), now(), config.Get().Location())
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return dash, http.StatusOK, nil
}
