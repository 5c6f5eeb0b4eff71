package transit

import "stopboard.opentransit.org/internal/appconf"

// Config describes where the static schedule data comes from and where it
// is stored.
type Config struct {
	// GTFSSource is a local zip path or an http(s) URL to a GTFS feed.
	GTFSSource string

	// DBPath is the SQLite database path, or ":memory:".
	DBPath string

	Env     appconf.Environment
	Verbose bool
}
