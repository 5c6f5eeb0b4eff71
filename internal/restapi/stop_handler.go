package restapi

import (
	"errors"
	"net/http"

	"stopboard.opentransit.org/internal/models"
	"stopboard.opentransit.org/internal/schedule"
)

// stopHandler returns the full view of a single stop: amenities, served
// routes with alerts, and the encoded map geometry.
func (api *RestAPI) stopHandler(w http.ResponseWriter, r *http.Request) {
	stopID := pathID(r)
	if stopID == "" {
		api.sendNotFound(w, r)
		return
	}

	view, err := api.ScheduleService.BuildStopViewByID(r.Context(), stopID, schedule.Options{
		IncludeRouteDetail: true,
		IncludeGeometry:    true,
		IncludeAlerts:      true,
	})
	if err != nil {
		if errors.Is(err, schedule.ErrStopNotFound) {
			api.sendNotFound(w, r)
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(view, api.Clock))
}
