package schedule

import (
	"fmt"
	"strings"

	"stopboard.opentransit.org/internal/models"
	"stopboard.opentransit.org/internal/utils"
)

// pickupNotAvailable is the GTFS pickup_type value for stops where riders
// may not board.
const pickupNotAvailable = 1

// BucketID derives the deduplication key for a departure pattern from the
// event's own content. Events on the same route, bound for the same headsign,
// in the same direction collapse into one bucket even when the source repeats
// the pattern across many trips without a shared identifier.
func BucketID(routeID string, directionID int64, headsign string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(headsign)), "-")
	return fmt.Sprintf("%s:%d:%s", routeID, directionID, normalized)
}

// IsBoardingEvent reports whether a rider may board at this event. Events
// that forbid pickup, or whose departure time is absent or unparseable, are
// not boarding events and are filtered rather than rejected.
func IsBoardingEvent(ev RawDepartureEvent) bool {
	if ev.PickupType == pickupNotAvailable {
		return false
	}
	if ev.DepartureTime == "" {
		return false
	}
	_, err := utils.ParseTimeOfDay(ev.DepartureTime)
	return err == nil
}

// AggregateHeadsigns collapses an ordered sequence of raw departure events
// for one stop and date into deduplicated headsign buckets plus the ordered
// list of retained departure entries.
//
// The input order is canonical: bucket sort order reflects the first-seen
// position among distinct buckets, and entry order numbers increase by one
// across the whole retained output. Given identical input, the output is
// byte-for-byte reproducible.
func AggregateHeadsigns(events []RawDepartureEvent) ([]models.DepartureEntry, map[string]*models.HeadsignBucket) {
	entries := make([]models.DepartureEntry, 0, len(events))
	buckets := make(map[string]*models.HeadsignBucket, 8)

	order := 1
	for _, ev := range events {
		if ev.PickupType == pickupNotAvailable || ev.DepartureTime == "" {
			continue
		}
		seconds, err := utils.ParseTimeOfDay(ev.DepartureTime)
		if err != nil {
			continue
		}

		id := BucketID(ev.RouteID, ev.DirectionID, ev.Headsign)
		bucket, ok := buckets[id]
		if !ok {
			bucket = &models.HeadsignBucket{
				ID:          id,
				RouteID:     ev.RouteID,
				Headsign:    ev.Headsign,
				DirectionID: ev.DirectionID,
				SortOrder:   len(buckets) + 1,
			}
			buckets[id] = bucket
		}
		bucket.NumTrips++
		bucket.LastTime = ev.DepartureTime

		entries = append(entries, models.DepartureEntry{
			Time:     utils.FormatTimeOfDay(seconds),
			BucketID: id,
			Order:    order,
		})
		order++
	}

	return entries, buckets
}
