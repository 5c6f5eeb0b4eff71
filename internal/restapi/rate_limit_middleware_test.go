package restapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stopboard.opentransit.org/internal/clock"
)

func newTestLimiter(t *testing.T, ratePerSecond int, exempt []string, c clock.Clock) *RateLimitMiddleware {
	t.Helper()
	rl := NewRateLimitMiddleware(ratePerSecond, time.Second, exempt, c)
	t.Cleanup(rl.Stop)
	return rl
}

func serveThroughLimiter(rl *RateLimitMiddleware, target string) *httptest.ResponseRecorder {
	handler := rl.Handler()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", target, nil))
	return rec
}

func TestRateLimitAllowsWithinBudget(t *testing.T) {
	rl := newTestLimiter(t, 2, nil, clock.NewMockClock(time.Now()))

	assert.Equal(t, http.StatusOK, serveThroughLimiter(rl, "/x?key=abc").Code)
	assert.Equal(t, http.StatusOK, serveThroughLimiter(rl, "/x?key=abc").Code)
}

func TestRateLimitRejectsBeyondBudget(t *testing.T) {
	rl := newTestLimiter(t, 1, nil, clock.NewMockClock(time.Now()))

	assert.Equal(t, http.StatusOK, serveThroughLimiter(rl, "/x?key=abc").Code)

	rec := serveThroughLimiter(rl, "/x?key=abc")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "Rate limit exceeded")
}

func TestRateLimitKeysAreIndependent(t *testing.T) {
	rl := newTestLimiter(t, 1, nil, clock.NewMockClock(time.Now()))

	assert.Equal(t, http.StatusOK, serveThroughLimiter(rl, "/x?key=abc").Code)
	assert.Equal(t, http.StatusOK, serveThroughLimiter(rl, "/x?key=def").Code)
}

func TestRateLimitExemptKey(t *testing.T) {
	rl := newTestLimiter(t, 1, []string{"vip"}, clock.NewMockClock(time.Now()))

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, serveThroughLimiter(rl, "/x?key=vip").Code)
	}
}

func TestRateLimitEvictsIdleClients(t *testing.T) {
	mock := clock.NewMockClock(time.Now())
	rl := newTestLimiter(t, 1, nil, mock)

	serveThroughLimiter(rl, "/x?key=abc")

	rl.mu.RLock()
	assert.Len(t, rl.limiters, 1)
	rl.mu.RUnlock()

	mock.Advance(11 * time.Minute)
	rl.cleanupOnce()

	rl.mu.RLock()
	assert.Empty(t, rl.limiters)
	rl.mu.RUnlock()
}
