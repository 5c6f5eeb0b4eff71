package restapi

import (
	"net/http"
	"strconv"

	"stopboard.opentransit.org/internal/models"
	"stopboard.opentransit.org/internal/schedule"
)

const (
	defaultStopsForLocationLimit = 10
	maxSearchRadiusMeters        = 5000.0
)

// stopsForLocationHandler returns the stops nearest a coordinate, ranked
// by distance, as lightweight views without route detail or geometry. An
// optional radius in meters trims the ranked list; ranks are assigned
// before trimming, so they stay consistent across radius values.
func (api *RestAPI) stopsForLocationHandler(w http.ResponseWriter, r *http.Request) {
	fieldErrors := map[string][]string{}

	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		fieldErrors["lat"] = []string{"lat must be a number between -90 and 90"}
	}

	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		fieldErrors["lon"] = []string{"lon must be a number between -180 and 180"}
	}

	limit := defaultStopsForLocationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			fieldErrors["limit"] = []string{"limit must be an integer between 1 and 100"}
		} else {
			limit = parsed
		}
	}

	radius := maxSearchRadiusMeters
	if raw := r.URL.Query().Get("radius"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 || parsed > maxSearchRadiusMeters {
			fieldErrors["radius"] = []string{"radius must be a number of meters between 1 and 5000"}
		} else {
			radius = parsed
		}
	}

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	stops, err := api.ScheduleService.NearestStops(r.Context(), lat, lon, limit, schedule.Options{})
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	// The ranked list is ascending by distance; cut at the first stop
	// outside the radius.
	for i, stop := range stops {
		if stop.Distance > radius {
			stops = stops[:i]
			break
		}
	}

	api.sendResponse(w, r, models.NewListResponse(models.StopList{
		Stops: stops,
		Count: len(stops),
	}, api.Clock))
}
