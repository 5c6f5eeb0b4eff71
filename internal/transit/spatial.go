package transit

import (
	"sort"

	"github.com/tidwall/rtree"

	"stopboard.opentransit.org/internal/utils"
	"stopboard.opentransit.org/stopdb"
)

// candidateSearchRadiusMeters bounds the box used when collecting nearest
// stop candidates. Precise ranking happens downstream; this only has to be
// generous enough to contain the true nearest stops.
const candidateSearchRadiusMeters = 5000.0

// stopIndex is an immutable R-tree over stop positions. It is rebuilt
// wholesale on feed reload and swapped in under the manager's lock.
type stopIndex struct {
	tree rtree.RTreeG[stopdb.StopCoordinateRow]
	size int
}

func newStopIndex(coords []stopdb.StopCoordinateRow) *stopIndex {
	idx := &stopIndex{}
	for _, c := range coords {
		point := [2]float64{c.Lon, c.Lat}
		idx.tree.Insert(point, point, c)
	}
	idx.size = len(coords)
	return idx
}

func (idx *stopIndex) Len() int {
	return idx.size
}

// nearest returns up to limit stops around the point, ordered by distance.
// The box search over-collects; the cut to limit happens after an exact
// distance sort so a wide box cannot push out a genuinely closer stop.
func (idx *stopIndex) nearest(lat, lon float64, limit int) []stopdb.StopCoordinateRow {
	bounds := utils.CalculateBounds(lat, lon, candidateSearchRadiusMeters)

	type scored struct {
		row  stopdb.StopCoordinateRow
		dist float64
	}
	var found []scored

	idx.tree.Search(
		[2]float64{bounds.MinLon, bounds.MinLat},
		[2]float64{bounds.MaxLon, bounds.MaxLat},
		func(min, max [2]float64, row stopdb.StopCoordinateRow) bool {
			found = append(found, scored{
				row:  row,
				dist: utils.Distance(lat, lon, row.Lat, row.Lon),
			})
			return true
		},
	)

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].dist < found[j].dist
	})
	if len(found) > limit {
		found = found[:limit]
	}

	rows := make([]stopdb.StopCoordinateRow, 0, len(found))
	for _, s := range found {
		rows = append(rows, s.row)
	}
	return rows
}
