package wsbridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records bridge activity. A nil *Metrics records nothing.
type Metrics struct {
	sessions prometheus.Gauge
	frames   *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

// NewMetrics registers the bridge metrics with registry
// (prometheus.DefaultRegisterer when nil).
//
// Metrics collected:
//   - <namespace>_wsbridge_sessions: open sessions
//   - <namespace>_wsbridge_frames_total: frames by direction and type
//   - <namespace>_wsbridge_errors_total: rejected frames by code
func NewMetrics(namespace string, registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "vroute"
	}
	factory := promauto.With(registry)

	return &Metrics{
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "wsbridge",
			Name:      "sessions",
			Help:      "Number of open websocket sessions",
		}),
		frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wsbridge",
			Name:      "frames_total",
			Help:      "Websocket frames by direction and type",
		}, []string{"direction", "type"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wsbridge",
			Name:      "errors_total",
			Help:      "Error frames sent, by error code",
		}, []string{"code"}),
	}
}

func (m *Metrics) sessionOpened() {
	if m != nil {
		m.sessions.Inc()
	}
}

func (m *Metrics) sessionClosed() {
	if m != nil {
		m.sessions.Dec()
	}
}

func (m *Metrics) frame(direction string, t FrameType) {
	if m != nil {
		m.frames.WithLabelValues(direction, string(t)).Inc()
	}
}

func (m *Metrics) rejected(code string) {
	if m != nil {
		m.errors.WithLabelValues(code).Inc()
	}
}
