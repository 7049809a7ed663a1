package controllers

import (
	"net/http"

	"voyagemate/src/common"
	"voyagemate/src/config"
	"voyagemate/src/db"
	"voyagemate/src/logger"
	"voyagemate/src/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func AuthRegister(ctx *gin.Context) (*common.AuthResult, int, error) {
	var body types.RegisterUserRequestBody
	if status, err := bindJSON(ctx, &body); err != nil {
		return nil, status, err
	}
	c := config.Get()
	res, err := common.RegisterUser(db.GetDb(), &body, []byte(c.JWT.Secret), c.JWT.TTL, now())
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	logger.L.Info("user registered", zap.Uint("user_id", res.User.ID))
	return res, http.StatusCreated, nil
}

func AuthLogin(ctx *gin.Context) (*common.AuthResult, int, error) {
	var body types.LoginRequestBody
	if status, err := bindJSON(ctx, &body); err != nil {
		return nil, status, err
	}
	c := config.Get()
	res, err := common.Login(db.GetDb(), &body, []byte(c.JWT.Secret), c.JWT.TTL, now())
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return res, http.StatusOK, nil
}
