package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics 自定义业务指标
type AppMetrics struct {
	SerialBytesReceived prometheus.Counter
	SerialBytesSent     prometheus.Counter
	SerialWriteDropped  prometheus.Counter
	FrameParseTotal     *prometheus.CounterVec // labels: result=ok|invalid|checksum|unknown|truncated
	FrameRouteTotal     *prometheus.CounterVec // labels: mode, cmd
	FrameSentTotal      *prometheus.CounterVec // labels: mode, cmd
	PlayerEventTotal    *prometheus.CounterVec // labels: iface
	PlayerCallTotal     *prometheus.CounterVec // labels: action, result=ok|error
	PlayerConnected     prometheus.Gauge
	PlaybackStatus      prometheus.Gauge       // 0=stopped 1=playing 2=paused
	NowPlayingPublished *prometheus.CounterVec // labels: result
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg *prometheus.Registry) *AppMetrics {
	m := &AppMetrics{
		SerialBytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serial_bytes_received_total",
			Help: "Total bytes received from the serial port.",
		}),
		SerialBytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serial_bytes_sent_total",
			Help: "Total bytes written to the serial port.",
		}),
		SerialWriteDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serial_write_dropped_total",
			Help: "Frames dropped because the write queue was full.",
		}),
		FrameParseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frame_parse_total",
			Help: "iPod frame parse attempts.",
		}, []string{"result"}),
		FrameRouteTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frame_route_total",
			Help: "Routed iPod frames by mode and command.",
		}, []string{"mode", "cmd"}),
		FrameSentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frame_sent_total",
			Help: "Sent iPod frames by mode and command.",
		}, []string{"mode", "cmd"}),
		PlayerEventTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "player_event_total",
			Help: "Player property change events by interface.",
		}, []string{"iface"}),
		PlayerCallTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "player_call_total",
			Help: "Player control calls by action and result.",
		}, []string{"action", "result"}),
		PlayerConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "player_connected",
			Help: "Whether a media player is connected (1) or not (0).",
		}),
		PlaybackStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "playback_status",
			Help: "Current playback status (0=stopped 1=playing 2=paused).",
		}),
		NowPlayingPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nowplaying_publish_total",
			Help: "Now playing snapshots published to redis.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.SerialBytesReceived, m.SerialBytesSent, m.SerialWriteDropped,
		m.FrameParseTotal, m.FrameRouteTotal, m.FrameSentTotal,
		m.PlayerEventTotal, m.PlayerCallTotal, m.PlayerConnected,
		m.PlaybackStatus, m.NowPlayingPublished,
	)
	return m
}
