package models

import (
	"net/http"
	"time"

	"stopboard.opentransit.org/internal/clock"
)

const responseVersion = 2

// ResponseModel is the envelope wrapped around every JSON API response.
type ResponseModel struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Data        any    `json:"data,omitempty"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

// ResponseCurrentTime returns the envelope timestamp for the given clock.
func ResponseCurrentTime(c clock.Clock) int64 {
	return c.NowUnixMilli()
}

// NewOKResponse wraps data in a 200 envelope.
func NewOKResponse(data any, c clock.Clock) ResponseModel {
	return ResponseModel{
		Code:        http.StatusOK,
		CurrentTime: ResponseCurrentTime(c),
		Data:        data,
		Text:        "OK",
		Version:     responseVersion,
	}
}

// NewEntryResponse wraps a single entry in a 200 envelope.
func NewEntryResponse(entry any, c clock.Clock) ResponseModel {
	return NewOKResponse(map[string]any{"entry": entry}, c)
}

// NewListResponse wraps a list payload in a 200 envelope.
func NewListResponse(list any, c clock.Clock) ResponseModel {
	return NewOKResponse(map[string]any{"list": list}, c)
}

// CurrentTimeData is the payload of the current-time endpoint.
type CurrentTimeData struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
}

// NewCurrentTimeData builds a CurrentTimeData from a wall-clock time.
func NewCurrentTimeData(t time.Time) CurrentTimeData {
	return CurrentTimeData{
		ReadableTime: t.Format(time.RFC3339),
		Time:         t.UnixMilli(),
	}
}
