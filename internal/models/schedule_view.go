package models

// HeadsignBucket is one deduplicated departure pattern (route + headsign +
// direction) observed at a stop on a service date. Buckets are created on
// first occurrence; their sort order reflects first-seen position among
// distinct buckets and never changes afterwards.
type HeadsignBucket struct {
	ID          string `json:"id"`
	RouteID     string `json:"routeId"`
	Headsign    string `json:"headsign"`
	DirectionID int64  `json:"directionId"`
	SortOrder   int    `json:"sortOrder"`
	LastTime    string `json:"lastTime"`
	NumTrips    int    `json:"numTrips"`
}

// DepartureEntry is one retained departure shown to the client. The short
// JSON keys keep large schedules compact on the wire: t = formatted time,
// h = owning bucket id, o = 1-based position across the whole schedule.
type DepartureEntry struct {
	Time     string `json:"t"`
	BucketID string `json:"h"`
	Order    int    `json:"o"`
}

// ScheduleView is the complete schedule response for one stop and date.
// A valid stop with no qualifying departures yields empty Stoptimes and
// Headsigns with the stop still populated.
type ScheduleView struct {
	Stop            *StopView                  `json:"stop"`
	Date            string                     `json:"date"`
	Stoptimes       []DepartureEntry           `json:"stoptimes"`
	Headsigns       map[string]*HeadsignBucket `json:"headsigns"`
	SingleRouteID   string                     `json:"singleRouteId,omitempty"`
	SingleRouteName string                     `json:"singleRouteName,omitempty"`
}
