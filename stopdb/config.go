package stopdb

import "stopboard.opentransit.org/internal/appconf"

// Config controls how the stop database is opened and populated.
type Config struct {
	// DBPath is the SQLite database path, or ":memory:".
	DBPath string

	// Env gates safety checks, e.g. tests must use in-memory storage.
	Env appconf.Environment

	verbose bool
}

// NewConfig creates a database configuration.
func NewConfig(dbPath string, env appconf.Environment, verbose bool) Config {
	return Config{
		DBPath:  dbPath,
		Env:     env,
		verbose: verbose,
	}
}
