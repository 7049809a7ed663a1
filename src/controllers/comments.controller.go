package controllers

import (
	"net/http"

	"voyagemate/src/common"
	"voyagemate/src/db"
	"voyagemate/src/middlewares"
	"voyagemate/src/models"
	"voyagemate/src/types"

	"github.com/gin-gonic/gin"
)

// Comment payloads are validated by the domain after the token and the
// author have been checked, so a dead link is a 404 whatever the body.
func CommentsCreate(ctx *gin.Context) (*models.TripShareComment, int, error) {
	var params types.ShareTokenParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	var body types.PostCommentRequestBody
	if status, err := decodeJSON(ctx, &body); err != nil {
		return nil, status, err
	}
	comment, err := common.PostComment(ctx.Request.Context(), db.GetDb(), services.Notifier, params.Token, &body, middlewares.ActorID(ctx), now())
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return comment, http.StatusCreated, nil
}

func CommentsUpdate(ctx *gin.Context) (*models.TripShareComment, int, error) {
	var params types.ShareCommentParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	var body types.UpdateCommentRequestBody
	if status, err := decodeJSON(ctx, &body); err != nil {
		return nil, status, err
	}
	comment, err := common.UpdateComment(db.GetDb(), params.Token, params.CommentID, &body, middlewares.ActorID(ctx), now())
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return comment, http.StatusOK, nil
}

func CommentsDelete(ctx *gin.Context) (int, error) {
	var params types.ShareCommentParams
	if status, err := bindUri(ctx, &params); err != nil {
		return status, err
	}
	if err := common.DeleteComment(db.GetDb(), params.Token, params.CommentID, middlewares.ActorID(ctx), now()); err != nil {
		return ErrorStatus(err), err
	}
	return http.StatusNoContent, nil
}
