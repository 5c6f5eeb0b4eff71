package stopdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRouteSortOrder(t *testing.T) {
	assert.Equal(t, int64(90), routeSortOrder("9", 0))
	assert.Equal(t, int64(750), routeSortOrder(" 75 ", 3))
	assert.Equal(t, int64(1000020), routeSortOrder("MAX Blue", 2))
	assert.True(t, routeSortOrder("9", 5) < routeSortOrder("Streetcar", 0),
		"numeric short names sort ahead of named routes")
}

func TestFormatGTFSTime(t *testing.T) {
	assert.Equal(t, "07:05:30", formatGTFSTime(7*time.Hour+5*time.Minute+30*time.Second))
	assert.Equal(t, "00:00:00", formatGTFSTime(0))
	assert.Equal(t, "25:10:00", formatGTFSTime(25*time.Hour+10*time.Minute),
		"times past midnight keep their service-day hour")
	assert.Equal(t, "", formatGTFSTime(-time.Second))
}

func TestCompassOctant(t *testing.T) {
	tests := []struct {
		bearing  float64
		expected string
	}{
		{0, "n"},
		{44, "ne"},
		{90, "e"},
		{135, "se"},
		{180, "s"},
		{225, "sw"},
		{270, "w"},
		{315, "nw"},
		{350, "n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, compassOctant(tt.bearing), "bearing %v", tt.bearing)
	}
}
