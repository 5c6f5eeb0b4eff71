package restapi

import (
	"errors"
	"net/http"

	"stopboard.opentransit.org/internal/models"
	"stopboard.opentransit.org/internal/schedule"
	"stopboard.opentransit.org/internal/utils"
)

// scheduleForStopHandler returns the aggregated departure board for one
// stop on one service date. An unknown stop is a 404; a known stop with no
// departures is a 200 with empty stoptimes.
func (api *RestAPI) scheduleForStopHandler(w http.ResponseWriter, r *http.Request) {
	stopID := pathID(r)
	if stopID == "" {
		api.sendNotFound(w, r)
		return
	}

	date := r.URL.Query().Get("date")
	if err := utils.ValidateDate(date); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"date": {err.Error()},
		})
		return
	}

	routeID := r.URL.Query().Get("route")

	view, err := api.ScheduleService.BuildScheduleView(r.Context(), stopID, date, routeID)
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
