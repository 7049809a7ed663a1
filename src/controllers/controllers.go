package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"voyagemate/src/common"
	"voyagemate/src/lib/storage"
	"voyagemate/src/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services are the collaborators controllers use besides the database.
type Services struct {
	Storage  storage.Provider
	Notifier common.CommentNotifier
	Currency *common.CurrencyConverter
	Weather  *common.WeatherService
	Now      func() time.Time
}

var services = Services{Now: time.Now}

func Configure(s Services) {
	if s.Now == nil {
		s.Now = time.Now
	}
	services = s
}

func now() time.Time {
	return services.Now()
}

// ErrorStatus maps domain errors to HTTP statuses.
func ErrorStatus(err error) int {
	var verr *common.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr), errors.Is(err, common.ErrUnprocessable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// Fail writes err as a JSON error body. Internal errors are logged and
// replaced with a generic message.
func Fail(ctx *gin.Context, status int, err error) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		ctx.AbortWithStatusJSON(status, gin.H{"error": "The given data was invalid.", "fields": verr.Fields})
	case status >= http.StatusInternalServerError && errors.Is(err, common.ErrUpstreamUnavailable):
		ctx.AbortWithStatusJSON(status, gin.H{"error": common.PublicMessage(err)})
	case status >= http.StatusInternalServerError:
		logger.L.Error("request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		ctx.AbortWithStatusJSON(status, gin.H{"error": "Something went wrong."})
	case errors.Is(err, common.ErrUnprocessable):
		ctx.AbortWithStatusJSON(status, gin.H{"error": common.PublicMessage(err)})
	case errors.Is(err, common.ErrForbidden):
		ctx.AbortWithStatusJSON(status, gin.H{"error": "This action is unauthorized."})
	case errors.Is(err, common.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		ctx.AbortWithStatusJSON(status, gin.H{"error": "Not found."})
	default:
		ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
	}
}

// bindStatus tells binding failures apart: payloads that fail validation
// are 422, malformed ones 400.
func bindStatus(err error) (int, error) {
	verr := common.ToValidationError(err)
	if _, ok := verr.(*common.ValidationError); ok {
		return http.StatusUnprocessableEntity, verr
	}
	return http.StatusBadRequest, err
}

func bindJSON(ctx *gin.Context, body any) (int, error) {
	if err := ctx.ShouldBindJSON(body); err != nil {
		return bindStatus(err)
	}
	return 0, nil
}

// decodeJSON fills body without running binding validation, for operations
// that must check access before looking at the payload. An empty body
// leaves body untouched.
func decodeJSON(ctx *gin.Context, body any) (int, error) {
	raw, err := ctx.GetRawData()
	if err != nil {
		return http.StatusBadRequest, err
	}
	if len(raw) == 0 {
		return 0, nil
	}
	if err := json.Unmarshal(raw, body); err != nil {
		return http.StatusBadRequest, err
	}
	return 0, nil
}

func bindUri(ctx *gin.Context, params any) (int, error) {
	if err := ctx.ShouldBindUri(params); err != nil {
		return http.StatusNotFound, common.ErrNotFound
	}
	return 0, nil
}
