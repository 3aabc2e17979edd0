package health

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mockChecker 模拟检查器
type mockChecker struct {
	name   string
	status Status
}

func (m *mockChecker) Name() string {
	return m.name
}

func (m *mockChecker) Check(ctx context.Context) CheckResult {
	return CheckResult{
		Status:  m.status,
		Message: "mock",
		Latency: time.Millisecond,
	}
}

func TestAggregator(t *testing.T) {
	cases := []struct {
		name   string
		checks []Checker
		want   Status
		ready  bool
	}{
		{"全部健康", []Checker{&mockChecker{"serial", StatusHealthy}, &mockChecker{"player", StatusHealthy}}, StatusHealthy, true},
		{"部分降级", []Checker{&mockChecker{"serial", StatusHealthy}, &mockChecker{"player", StatusDegraded}}, StatusDegraded, true},
		{"部分不健康", []Checker{&mockChecker{"serial", StatusUnhealthy}, &mockChecker{"player", StatusDegraded}}, StatusUnhealthy, false},
		{"无检查器", nil, StatusHealthy, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agg := NewAggregator(tc.checks...)
			assert.Equal(t, tc.want, agg.OverallStatus(context.Background()))
			assert.Equal(t, tc.ready, agg.Ready(context.Background()))
		})
	}

	t.Run("动态添加检查器", func(t *testing.T) {
		agg := NewAggregator(&mockChecker{"initial", StatusHealthy})
		agg.AddChecker(&mockChecker{"added", StatusDegraded})

		report := agg.Report(context.Background())
		assert.Len(t, report.Checks, 2)
		assert.Equal(t, StatusDegraded, report.Status)
		assert.False(t, report.Timestamp.IsZero())
	})

	t.Run("Alive始终返回true", func(t *testing.T) {
		assert.True(t, NewAggregator().Alive())
	})
}

func TestReadiness(t *testing.T) {
	r := New()
	assert.False(t, r.Ready())
	r.SetSerialReady(true)
	assert.False(t, r.Ready())
	r.SetBusReady(true)
	assert.True(t, r.Ready())
	r.SetSerialReady(false)
	assert.False(t, r.Ready())
}
