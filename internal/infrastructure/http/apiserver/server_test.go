package apiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alchemorsel/mealplanner/internal/infrastructure/config"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/monitoring"
	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
	"github.com/alchemorsel/mealplanner/test/mocks"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "mealplanner", Version: "1.2.3"},
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080, RequestTimeout: 5 * time.Second},
		RateLimit: config.RateLimitConfig{
			Enable:          true,
			RequestsPerMin:  60,
			BurstSize:       2,
			CleanupInterval: time.Minute,
		},
	}
}

func TestServer(t *testing.T) {
	service := &mocks.MockPlanService{}
	metrics := monitoring.NewMetricsCollector(prometheus.NewRegistry(), "test", zap.NewNop())
	s := NewServer(testConfig(), service, metrics, zap.NewNop())
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	assert.Equal(t, "127.0.0.1:8080", s.Addr())

	t.Run("RoutesThroughStack", func(t *testing.T) {
		userID := uuid.New()
		service.On("GetTargets", mock.Anything, userID).Return(&inbound.TargetsDTO{Calories: 2030}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID.String()+"/targets", nil)
		req.RemoteAddr = "192.0.2.1:5000"
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
	})

	t.Run("RateLimited", func(t *testing.T) {
		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
			req.RemoteAddr = "192.0.2.9:5000"
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("UnknownRoute_NotFound", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v2/plans", nil)
		req.RemoteAddr = "192.0.2.10:5000"
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	service.AssertExpectations(t)
}
