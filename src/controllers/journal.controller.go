package controllers

import (
	"errors"
	"net/http"

	"voyagemate/src/common"
	"voyagemate/src/db"
	"voyagemate/src/models"
	"voyagemate/src/types"

	"github.com/gin-gonic/gin"
)

// maxMultipartMemory bounds the part of a multipart body kept in memory;
// the rest spills to temporary files.
const maxMultipartMemory = 32 << 20

func journalForm(ctx *gin.Context) (*types.JournalEntryRequestBody, []common.ImageUpload, int, error) {
	var body types.JournalEntryRequestBody
	if err := ctx.ShouldBind(&body); err != nil {
		status, err := bindStatus(err)
		return nil, nil, status, err
	}
	uploads, err := multipartImages(ctx)
	if err != nil {
		return nil, nil, http.StatusBadRequest, err
	}
	return &body, uploads, 0, nil
}

func multipartImages(ctx *gin.Context) ([]common.ImageUpload, error) {
	form, err := ctx.MultipartForm()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return common.UploadsFromMultipart(form.File["images"]), nil
}

func JournalList(ctx *gin.Context) ([]models.TripJournalEntry, int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	entries, err := common.ListJournalEntries(ctx.Request.Context(), db.GetDb(), services.Storage, params.ID, ctx.GetUint("id"))
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return entries, http.StatusOK, nil
}

func JournalCreate(ctx *gin.Context) (*models.TripJournalEntry, int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	body, uploads, status, err := journalForm(ctx)
	if err != nil {
		return nil, status, err
	}
	entry, err := common.CreateJournalEntry(ctx.Request.Context(), db.GetDb(), services.Storage, params.ID, ctx.GetUint("id"), body, uploads)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return entry, http.StatusCreated, nil
}

func JournalUpdate(ctx *gin.Context) (*models.TripJournalEntry, int, error) {
	var params types.JournalEntryRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	body, uploads, status, err := journalForm(ctx)
	if err != nil {
		return nil, status, err
	}
	entry, err := common.UpdateJournalEntry(ctx.Request.Context(), db.GetDb(), services.Storage, params.ID, params.EntryID, ctx.GetUint("id"), body, uploads)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return entry, http.StatusOK, nil
}

func JournalDelete(ctx *gin.Context) (int, error) {
	var params types.JournalEntryRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return status, err
	}
	if err := common.DeleteJournalEntry(ctx.Request.Context(), db.GetDb(), services.Storage, params.ID, params.EntryID, ctx.GetUint("id")); err != nil {
		return ErrorStatus(err), err
	}
	return http.StatusNoContent, nil
}

func JournalUploadImages(ctx *gin.Context) ([]models.TripJournalImage, int, error) {
	var params types.JournalEntryRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	uploads, err := multipartImages(ctx)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	images, err := common.UploadJournalImages(ctx.Request.Context(), db.GetDb(), services.Storage, params.ID, params.EntryID, ctx.GetUint("id"), uploads)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return images, http.StatusCreated, nil
}

func JournalDeleteImage(ctx *gin.Context) (int, error) {
	var params types.JournalImageRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return status, err
	}
	if err := common.DeleteJournalImage(ctx.Request.Context(), db.GetDb(), services.Storage, params.ID, params.EntryID, params.ImageID, ctx.GetUint("id")); err != nil {
		return ErrorStatus(err), err
	}
	return http.StatusNoContent, nil
}

func JournalReorderImages(ctx *gin.Context) (int, error) {
	var params types.JournalEntryRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return status, err
	}
	var body types.ReorderImagesRequestBody
	if status, err := bindJSON(ctx, &body); err != nil {
		return status, err
	}
	if err := common.ReorderJournalImages(db.GetDb(), params.ID, params.EntryID, ctx.GetUint("id"), body.OrderedIDs); err != nil {
		return ErrorStatus(err), err
	}
	return http.StatusNoContent, nil
}
