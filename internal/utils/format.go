package utils

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// directionNames expands the single- and double-letter compass codes found in
// agency feeds to the words riders see.
var directionNames = map[string]string{
	"n":  "north",
	"s":  "south",
	"e":  "east",
	"w":  "west",
	"ne": "northeast",
	"nw": "northwest",
	"se": "southeast",
	"sw": "southwest",
}

// FormatDirection renders a raw stop direction code as a rider-facing label,
// e.g. "n" or "north" becomes "Northbound". An empty code yields "".
func FormatDirection(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if name, ok := directionNames[code]; ok {
		code = name
	}
	return strings.ToUpper(code[:1]) + code[1:] + "bound"
}

// ParseTimeOfDay parses a GTFS "HH:MM:SS" or "HH:MM" time-of-day string into
// seconds past midnight. Hours may exceed 24 for trips that run past the end
// of the service day.
func ParseTimeOfDay(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("malformed time of day %q", s)
	}

	var fields [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("malformed time of day %q", s)
		}
		fields[i] = v
	}
	if fields[1] > 59 || fields[2] > 59 {
		return 0, fmt.Errorf("malformed time of day %q", s)
	}

	return fields[0]*3600 + fields[1]*60 + fields[2], nil
}

// FormatTimeOfDay renders seconds past midnight as a 12-hour clock string
// like "7:05am" or "11:32pm". Times past 24:00:00 wrap into the next day.
func FormatTimeOfDay(seconds int) string {
	seconds %= 24 * 3600
	hour := seconds / 3600
	minute := (seconds % 3600) / 60

	suffix := "am"
	if hour >= 12 {
		suffix = "pm"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}

	return fmt.Sprintf("%d:%02d%s", hour, minute, suffix)
}

// NullStringOrEmpty unwraps a sql.NullString, returning "" when invalid.
func NullStringOrEmpty(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// ValidateDate checks a query-string date parameter. Empty is allowed and
// means "today"; anything else must be YYYY-MM-DD.
func ValidateDate(dateParam string) error {
	if dateParam == "" {
		return nil
	}
	if len(dateParam) != 10 || dateParam[4] != '-' || dateParam[7] != '-' {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
