package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alchemorsel/mealplanner/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLimiter(t *testing.T, perMin, burst int) (*RateLimiter, *time.Time) {
	t.Helper()
	now := time.Unix(1_700_000_000, 0)
	rl := NewRateLimiter(config.RateLimitConfig{
		RequestsPerMin:  perMin,
		BurstSize:       burst,
		CleanupInterval: time.Hour,
	}, zap.NewNop())
	rl.now = func() time.Time { return now }
	t.Cleanup(rl.Stop)
	return rl, &now
}

func serve(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("BurstThenReject", func(t *testing.T) {
		rl, _ := newTestLimiter(t, 60, 2)
		h := rl.Handler(ok)

		assert.Equal(t, http.StatusOK, serve(h, "10.0.0.1:1000").Code)
		assert.Equal(t, http.StatusOK, serve(h, "10.0.0.1:1001").Code)

		w := serve(h, "10.0.0.1:1002")
		require.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "1", w.Header().Get("Retry-After"))

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "TOO_MANY_REQUESTS", body["error"].(map[string]interface{})["code"])
	})

	t.Run("ClientsAreIndependent", func(t *testing.T) {
		rl, _ := newTestLimiter(t, 60, 1)
		h := rl.Handler(ok)

		assert.Equal(t, http.StatusOK, serve(h, "10.0.0.1:1000").Code)
		assert.Equal(t, http.StatusOK, serve(h, "10.0.0.2:1000").Code)
		assert.Equal(t, http.StatusTooManyRequests, serve(h, "10.0.0.1:1000").Code)
		assert.Equal(t, 2, rl.Clients())
	})

	t.Run("TokensRefillOverTime", func(t *testing.T) {
		rl, now := newTestLimiter(t, 60, 1)
		h := rl.Handler(ok)

		assert.Equal(t, http.StatusOK, serve(h, "10.0.0.1:1000").Code)
		assert.Equal(t, http.StatusTooManyRequests, serve(h, "10.0.0.1:1000").Code)

		*now = now.Add(time.Second)
		assert.Equal(t, http.StatusOK, serve(h, "10.0.0.1:1000").Code)
	})

	t.Run("IdleClientsAreForgotten", func(t *testing.T) {
		rl, now := newTestLimiter(t, 60, 1)
		h := rl.Handler(ok)
		serve(h, "10.0.0.1:1000")

		*now = now.Add(4 * time.Hour)
		rl.forgetIdle()

		assert.Equal(t, 0, rl.Clients())
	})
}
