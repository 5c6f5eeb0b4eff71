package restapi

import (
	"net/http"

	"stopboard.opentransit.org/internal/models"
)

// currentTimeHandler writes a JSON response with information about the
// current time.
func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	if !api.TransitManager.IsHealthy(r.Context()) {
		http.Error(w, "Service Unavailable: stop database unreachable", http.StatusServiceUnavailable)
		return
	}

	timeData := models.NewCurrentTimeData(api.Clock.Now())
	api.sendResponse(w, r, models.NewEntryResponse(timeData, api.Clock))
}
