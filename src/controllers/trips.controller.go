package controllers

import (
	"net/http"

	"voyagemate/src/common"
	"voyagemate/src/db"
	"voyagemate/src/logger"
	"voyagemate/src/models"
	"voyagemate/src/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TripsList(ctx *gin.Context) ([]models.Trip, int, error) {
	trips, err := common.ListTrips(db.GetDb(), ctx.GetUint("id"))
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return trips, http.StatusOK, nil
}

func TripsCreate(ctx *gin.Context) (*models.Trip, int, error) {
	var body types.CreateTripRequestBody
	if status, err := bindJSON(ctx, &body); err != nil {
		return nil, status, err
	}
	trip, err := common.CreateTrip(db.GetDb(), ctx.GetUint("id"), &body)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return trip, http.StatusCreated, nil
}

// TripsShow returns the owner's view of a trip, including its current share
// link.
func TripsShow(ctx *gin.Context) (*common.TripView, int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	g := db.GetDb()
	trip, err := common.GetOwnedTrip(g, params.ID, ctx.GetUint("id"))
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	view, err := common.LoadTripView(g, trip)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	link, err := common.CurrentShareLink(g, trip.ID, ctx.GetUint("id"))
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	view.ShareLink = common.NewShareLinkView(link, now())
	return view, http.StatusOK, nil
}

func TripsUpdate(ctx *gin.Context) (*models.Trip, int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	var body types.UpdateTripRequestBody
	if status, err := bindJSON(ctx, &body); err != nil {
		return nil, status, err
	}
	trip, err := common.UpdateTrip(db.GetDb(), params.ID, ctx.GetUint("id"), &body)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return trip, http.StatusOK, nil
}

func TripsDelete(ctx *gin.Context) (int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return status, err
	}
	if err := common.DeleteTrip(ctx.Request.Context(), db.GetDb(), services.Storage, params.ID, ctx.GetUint("id")); err != nil {
		return ErrorStatus(err), err
	}
	logger.L.Info("trip deleted", zap.Uint("trip_id", params.ID), zap.Uint("user_id", ctx.GetUint("id")))
	return http.StatusNoContent, nil
}

func ItineraryCreate(ctx *gin.Context) (*models.ItineraryItem, int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	var body types.ItineraryItemRequestBody
	if status, err := bindJSON(ctx, &body); err != nil {
		return nil, status, err
	}
	item, err := common.AddItineraryItem(db.GetDb(), params.ID, ctx.GetUint("id"), &body)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return item, http.StatusCreated, nil
}

func ItineraryUpdate(ctx *gin.Context) (*models.ItineraryItem, int, error) {
	var params types.TripItemRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	var body types.ItineraryItemRequestBody
	if status, err := bindJSON(ctx, &body); err != nil {
		return nil, status, err
	}
	item, err := common.UpdateItineraryItem(db.GetDb(), params.ID, params.ItemID, ctx.GetUint("id"), &body)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return item, http.StatusOK, nil
}

func ItineraryDelete(ctx *gin.Context) (int, error) {
	var params types.TripItemRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return status, err
	}
	if err := common.DeleteItineraryItem(db.GetDb(), params.ID, params.ItemID, ctx.GetUint("id")); err != nil {
		return ErrorStatus(err), err
	}
	return http.StatusNoContent, nil
}

func ExpensesCreate(ctx *gin.Context) (*models.Expense, int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	var body types.ExpenseRequestBody
	if status, err := bindJSON(ctx, &body); err != nil {
		return nil, status, err
	}
	expense, err := common.AddExpense(db.GetDb(), params.ID, ctx.GetUint("id"), &body)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return expense, http.StatusCreated, nil
}

func ExpensesUpdate(ctx *gin.Context) (*models.Expense, int, error) {
	var params types.TripItemRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	var body types.ExpenseRequestBody
	if status, err := bindJSON(ctx, &body); err != nil {
		return nil, status, err
	}
	expense, err := common.UpdateExpense(db.GetDb(), params.ID, params.ItemID, ctx.GetUint("id"), &body)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return expense, http.StatusOK, nil
}

func ExpensesDelete(ctx *gin.Context) (int, error) {
	var params types.TripItemRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return status, err
	}
	if err := common.DeleteExpense(db.GetDb(), params.ID, params.ItemID, ctx.GetUint("id")); err != nil {
		return ErrorStatus(err), err
	}
	return http.StatusNoContent, nil
}

func ChecklistCreate(ctx *gin.Context) (*models.ChecklistItem, int, error) {
	var params types.SimpleRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	var body types.CreateChecklistItemRequestBody
	if status, err := bindJSON(ctx, &body); err != nil {
		return nil, status, err
	}
	item, err := common.AddChecklistItem(db.GetDb(), params.ID, ctx.GetUint("id"), &body)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return item, http.StatusCreated, nil
}

func ChecklistUpdate(ctx *gin.Context) (*models.ChecklistItem, int, error) {
	var params types.TripItemRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	var body types.UpdateChecklistItemRequestBody
	if status, err := bindJSON(ctx, &body); err != nil {
		return nil, status, err
	}
	item, err := common.UpdateChecklistItem(db.GetDb(), params.ID, params.ItemID, ctx.GetUint("id"), &body)
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return item, http.StatusOK, nil
}

func ChecklistToggle(ctx *gin.Context) (*models.ChecklistItem, int, error) {
	var params types.TripItemRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return nil, status, err
	}
	item, err := common.ToggleChecklistItem(db.GetDb(), params.ID, params.ItemID, ctx.GetUint("id"))
	if err != nil {
		return nil, ErrorStatus(err), err
	}
	return item, http.StatusOK, nil
}

func ChecklistDelete(ctx *gin.Context) (int, error) {
	var params types.TripItemRequestParams
	if status, err := bindUri(ctx, &params); err != nil {
		return status, err
	}
	if err := common.DeleteChecklistItem(db.GetDb(), params.ID, params.ItemID, ctx.GetUint("id")); err != nil {
		return ErrorStatus(err), err
	}
	return http.StatusNoContent, nil
}
