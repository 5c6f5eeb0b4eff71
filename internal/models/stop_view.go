package models

// RouteAlert is a single service alert attached to a route.
type RouteAlert struct {
	RouteID string `json:"routeId"`
	Summary string `json:"summary"`
}

// RouteView is a route serving a stop, shown inline on stop pages.
// A degraded build may carry only the ID and sort order.
type RouteView struct {
	ID        string       `json:"routeId"`
	Name      string       `json:"name,omitempty"`
	URL       string       `json:"routeUrl,omitempty"`
	SortOrder int          `json:"sortOrder"`
	Alerts    []RouteAlert `json:"alerts,omitempty"`
}

// StopView is a transit stop shaped for client display.
type StopView struct {
	ID           string      `json:"stopId"`
	Code         string      `json:"code,omitempty"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	URL          string      `json:"stopUrl,omitempty"`
	Direction    string      `json:"direction"`
	LocationType int         `json:"locationType"`
	Lat          float64     `json:"lat"`
	Lon          float64     `json:"lon"`
	Geometry     string      `json:"geometry,omitempty"`
	Amenities    []string    `json:"amenities"`
	HasAmenities bool        `json:"hasAmenities"`
	Routes       []RouteView `json:"routes"`
	Distance     float64     `json:"distance"`
	Rank         int         `json:"rank,omitempty"`
}

// FindRoute returns the attached RouteView with the given id. The second
// return value is false when the route is not attached, including when no
// routes were attached at all.
func (sv *StopView) FindRoute(routeID string) (RouteView, bool) {
	if sv == nil || routeID == "" {
		return RouteView{}, false
	}
	for _, r := range sv.Routes {
		if r.ID == routeID {
			return r, true
		}
	}
	return RouteView{}, false
}

// StopList is an ordered collection of stop views, typically ranked by
// distance from a query point.
type StopList struct {
	Stops []StopView `json:"stops"`
	Count int        `json:"count"`
}
