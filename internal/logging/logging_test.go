package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestWithLoggerAndFromContext(t *testing.T) {
	logger, _ := newBufferLogger()
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestLogOperation(t *testing.T) {
	logger, buf := newBufferLogger()
	LogOperation(logger, "import_completed", slog.Int("stops", 12))

	out := buf.String()
	assert.Contains(t, out, "import_completed")
	assert.Contains(t, out, "stops=12")
}

func TestLogError(t *testing.T) {
	logger, buf := newBufferLogger()
	LogError(logger, "fetch failed", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "fetch failed")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "ERROR")
}

func TestLogHTTPRequest(t *testing.T) {
	logger, buf := newBufferLogger()
	LogHTTPRequest(logger, "GET", "/api/where/stop/7765.json", 200, 1.5)

	out := buf.String()
	assert.Contains(t, out, "http_request")
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "status=200")
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("close failed") }

func TestSafeCloseWithLogging(t *testing.T) {
	logger, buf := newBufferLogger()
	SafeCloseWithLogging(failingCloser{}, logger, "response_body")
	assert.Contains(t, buf.String(), "response_body")

	// nil closer must not panic
	SafeCloseWithLogging(nil, logger, "nothing")
}
