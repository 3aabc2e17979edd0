package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/blueplayer/internal/playback"
	"github.com/taoyao-code/blueplayer/internal/player"
	"github.com/taoyao-code/blueplayer/internal/serialport"
)

type fakeLink struct {
	running bool
	limiter *serialport.RateLimiter
}

func (l fakeLink) Running() bool                    { return l.running }
func (l fakeLink) Limiter() *serialport.RateLimiter { return l.limiter }

type fakeRedis struct {
	err   error
	stats redis.PoolStats
}

func (r *fakeRedis) HealthCheck(context.Context) error { return r.err }
func (r *fakeRedis) Stats() *redis.PoolStats           { return &r.stats }

func TestSerialChecker(t *testing.T) {
	down := NewSerialChecker("/dev/ttyAMA0", fakeLink{})
	res := down.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, res.Status)
	assert.Equal(t, "/dev/ttyAMA0", res.Details["port"])

	up := NewSerialChecker("/dev/ttyAMA0", fakeLink{running: true, limiter: serialport.NewRateLimiter(20, 5)})
	res = up.Check(context.Background())
	assert.Equal(t, StatusHealthy, res.Status)
	assert.Equal(t, 20, res.Details["write_rate"])
	assert.Equal(t, "serial", up.Name())

	assert.Equal(t, StatusUnhealthy, NewSerialChecker("x", nil).Check(context.Background()).Status)
}

func TestPlayerChecker(t *testing.T) {
	state := playback.New(nil)
	c := NewPlayerChecker(state, nil)
	assert.Equal(t, StatusDegraded, c.Check(context.Background()).Status)

	state.SetConnected(true)
	state.SetAlias("Pixel")
	res := c.Check(context.Background())
	assert.Equal(t, StatusHealthy, res.Status)
	assert.Equal(t, "Pixel", res.Details["device"])

	cb := player.NewCircuitBreaker(1, time.Hour, 1)
	_ = cb.Call(func() error { return errors.New("no reply") }, nil)
	res = NewPlayerChecker(state, cb).Check(context.Background())
	assert.Equal(t, StatusDegraded, res.Status)
	assert.Equal(t, "open", res.Details["circuit_breaker_state"])
}

func TestRedisChecker(t *testing.T) {
	res := NewRedisChecker(&fakeRedis{err: errors.New("refused")}).Check(context.Background())
	assert.Equal(t, StatusDegraded, res.Status)

	res = NewRedisChecker(&fakeRedis{stats: redis.PoolStats{TotalConns: 4, IdleConns: 3, Hits: 10}}).Check(context.Background())
	assert.Equal(t, StatusHealthy, res.Status)
	assert.Equal(t, "25.0%", res.Details["utilization"])
}

func TestRegisterHTTPRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name      string
		status    Status
		readyCode int
		fullCode  int
	}{
		{"healthy", StatusHealthy, http.StatusOK, http.StatusOK},
		{"degraded", StatusDegraded, http.StatusOK, http.StatusOK},
		{"unhealthy", StatusUnhealthy, http.StatusServiceUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			RegisterHTTPRoutes(r, NewAggregator(&mockChecker{"serial", tc.status}))

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			assert.Equal(t, tc.readyCode, rr.Code)

			rr = httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))
			assert.Equal(t, http.StatusOK, rr.Code)

			rr = httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tc.fullCode, rr.Code)
			var report HealthReport
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
			assert.Equal(t, tc.status, report.Status)
			assert.Contains(t, report.Checks, "serial")
		})
	}
}
