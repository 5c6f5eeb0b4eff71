package restapi

import (
	"net/http"

	"stopboard.opentransit.org/internal/models"
)

// faresHandler returns the agency fare table. 404 until a fare feed has
// been fetched at least once.
func (api *RestAPI) faresHandler(w http.ResponseWriter, r *http.Request) {
	table, ok := api.ContentService.Fares(r.Context())
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(table, api.Clock))
}

// advertsHandler returns the current advert rotation. An empty list is a
// normal response, not an error.
func (api *RestAPI) advertsHandler(w http.ResponseWriter, r *http.Request) {
	adverts := api.ContentService.Adverts(r.Context())
	api.sendResponse(w, r, models.NewListResponse(adverts, api.Clock))
}
