package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"voyagemate/src/common"
	"voyagemate/src/config"
	"voyagemate/src/db"
	"voyagemate/src/logger"
	"voyagemate/src/middlewares"
	"voyagemate/src/types"

	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode"
	"go.uber.org/zap"
)

func ShareCreate(ctx *gin.Context) (*common.ShareLinkView, int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	var body types.CreateShareLinkRequestBody
	if ctx.Request.ContentLength != 0 {
		if status, err := bindJSON(ctx, &body); err != nil {
			return nil, status, err
		}
	}
	t := now()
	link, err := common.CreateShareLink(db.GetDb(), params.ID, ctx.GetUint("id"), body.ExpiresAt, t)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return common.NewShareLinkView(link, t), http.StatusCreated, nil
}

// ShareShow returns the trip's latest link with its computed state, or nil
// when it was never shared.
func ShareShow(ctx *gin.Context) (*common.ShareLinkView, int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	link, err := common.LatestShareLink(db.GetDb(), params.ID, ctx.GetUint("id"))
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return common.NewShareLinkView(link, now()), http.StatusOK, nil
}

func ShareRevoke(ctx *gin.Context) (int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return status, err
	}
	if err := common.RevokeShareLink(db.GetDb(), params.ID, ctx.GetUint("id"), now()); err != nil {
		return ErrorStatus(err), err
	}
	return http.StatusNoContent, nil
}

// ShareQRCode renders the active link's public URL as a JPEG into a
// temporary file and returns its path. The caller removes the file.
func ShareQRCode(ctx *gin.Context) (string, int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return "", status, err
	}
	g := db.GetDb()
	link, err := common.CurrentShareLink(g, params.ID, ctx.GetUint("id"))
	if err != nil {
		return "", ErrorStatus(err), err
	}
	if link == nil || link.State(now()) != types.SHARE_LINK_ACTIVE {
		return "", http.StatusNotFound, common.ErrNotFound
	}
	qrc, err := qrcode.New(config.Get().ShareURL(link.Token))
	if err != nil {
		return "", http.StatusInternalServerError, err
	}
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("share-%d-%d.jpeg", link.TripID, link.ID))
	if err := qrc.Save(filename); err != nil {
		logger.L.Error("could not save qrcode", zap.String("path", filename), zap.Error(err))
		return "", http.StatusInternalServerError, err
	}
	return filename, http.StatusOK, nil
}

func SharedTripShow(ctx *gin.Context) (*common.SharedTrip, int, error) {
	var params types.ShareTokenParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	trip, err := common.ViewSharedTrip(db.GetDb(), params.Token, middlewares.ActorID(ctx), now())
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return trip, http.StatusOK, nil
}
