package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
	"github.com/mdblp/health-tracker/usecase"
)

func (a *API) setFoodHandlers(prefix string, rtr *mux.Router) {
	food := a.logbook.Food.Entries
	rtr.HandleFunc(prefix+"/food/", a.middlewareV1(a.logFood)).Methods(http.MethodPost)
	rtr.HandleFunc(prefix+"/food/", a.middlewareV1(a.listFood)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/food/{id:[0-9]+}", a.middlewareV1(getEntry(food))).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/food/{id:[0-9]+}", a.middlewareV1(updateEntry(food))).Methods(http.MethodPut)
	rtr.HandleFunc(prefix+"/food/{id:[0-9]+}", a.middlewareV1(deleteEntry(food))).Methods(http.MethodDelete)

	catalog := a.logbook.Catalog.Entries
	rtr.HandleFunc(prefix+"/food-database/", a.middlewareV1(a.searchCatalog)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/food-database/", a.middlewareV1(a.addToCatalog)).Methods(http.MethodPost)
	rtr.HandleFunc(prefix+"/food-database/{id:[0-9]+}", a.middlewareV1(getEntry(catalog))).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/food-database/{id:[0-9]+}", a.middlewareV1(updateEntry(catalog))).Methods(http.MethodPut)
	rtr.HandleFunc(prefix+"/food-database/{id:[0-9]+}", a.middlewareV1(a.removeFromCatalog)).Methods(http.MethodDelete)
	rtr.HandleFunc(prefix+"/food-database/{id:[0-9]+}/favorite", a.middlewareV1(a.toggleFavorite)).Methods(http.MethodPost)
}

// @Summary Log a food or a drink
// @Description The food is recorded in the food database unless save_to_database is false.
// @ID health-tracker-api-logfood
// @Accept json
// @Produce json
// @Success 201 {object} schema.FoodEntry
// @Failure 400 {object} common.DetailedError
// @Router /v1/food/ [post]
func (a *API) logFood(ctx context.Context, res *common.HttpResponseWriter) error {
	var req schema.FoodEntryCreate
	if derr := decodeBody(res, &req); derr != nil {
		return res.WriteError(derr)
	}
	entry, derr := a.logbook.Food.Log(ctx, &req)
	return writeResult(res, http.StatusCreated, entry, derr)
}

func (a *API) listFood(ctx context.Context, res *common.HttpResponseWriter) error {
	dates, derr := a.queryDates(res, 0)
	if derr != nil {
		return res.WriteError(derr)
	}
	isDrink, derr := queryBool(res, "is_drink")
	if derr != nil {
		return res.WriteError(derr)
	}
	filter := usecase.FoodFilter{MealType: res.Query().Get("meal_type"), IsDrink: isDrink}
	entries, derr := a.logbook.Food.Between(ctx, dates, filter)
	return writeResult(res, http.StatusOK, entries, derr)
}

// @Summary Search the food database
// @ID health-tracker-api-searchcatalog
// @Produce json
// @Param search query string false "case-insensitive part of the name"
// @Param sort_by query string false "frequent (default), recent or alphabetical"
// @Success 200 {array} schema.FoodDatabaseEntry
// @Router /v1/food-database/ [get]
func (a *API) searchCatalog(ctx context.Context, res *common.HttpResponseWriter) error {
	query := res.Query()
	isDrink, derr := queryBool(res, "is_drink")
	if derr != nil {
		return res.WriteError(derr)
	}
	favorites, derr := queryBool(res, "favorites_only")
	if derr != nil {
		return res.WriteError(derr)
	}
	skip, derr := queryInt(res, "skip", 0)
	if derr != nil {
		return res.WriteError(derr)
	}
	limit, derr := queryInt(res, "limit", 0)
	if derr != nil {
		return res.WriteError(derr)
	}
	items, derr := a.logbook.Catalog.Search(ctx, schema.CatalogQuery{
		Search:        query.Get("search"),
		IsDrink:       isDrink,
		FavoritesOnly: favorites != nil && *favorites,
		SortBy:        query.Get("sort_by"),
		Skip:          skip,
		Limit:         limit,
	})
	return writeResult(res, http.StatusOK, items, derr)
}

func (a *API) addToCatalog(ctx context.Context, res *common.HttpResponseWriter) error {
	var food schema.FoodDatabaseEntry
	if derr := decodeBody(res, &food); derr != nil {
		return res.WriteError(derr)
	}
	created, derr := a.logbook.Catalog.Add(ctx, &food)
	return writeResult(res, http.StatusOK, created, derr)
}

func (a *API) removeFromCatalog(ctx context.Context, res *common.HttpResponseWriter) error {
	id, derr := pathID(res)
	if derr != nil {
		return res.WriteError(derr)
	}
	if derr = a.logbook.Catalog.Delete(ctx, id); derr != nil {
		return res.WriteError(derr)
	}
	return res.WriteJSON(http.StatusOK, schema.ActionResult{Success: true, Message: "Food deleted successfully"})
}

func (a *API) toggleFavorite(ctx context.Context, res *common.HttpResponseWriter) error {
	id, derr := pathID(res)
	if derr != nil {
		return res.WriteError(derr)
	}
	result, derr := a.logbook.Catalog.ToggleFavorite(ctx, id)
	return writeResult(res, http.StatusOK, result, derr)
}
