package metric

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/aaamesh-go/pkg/cluster"
)

const namespace = "aaamesh"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	FramesSent     *prometheus.CounterVec
	FramesReceived *prometheus.CounterVec
	FrameErrors    *prometheus.CounterVec
	Peers          *prometheus.GaugeVec
}

var _ cluster.Metrics = (*Registry)(nil)

// NewRegistry creates a registry with the cluster metrics plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		FramesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "Frames written to peers, by operation and object type.",
		}, []string{"op", "type"}),
		FramesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_received_total",
			Help:      "Frames decoded from peers, by operation and object type.",
		}, []string{"op", "type"}),
		FrameErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_errors_total",
			Help:      "Inbound frames that closed their connection, by reason.",
		}, []string{"reason"}),
		Peers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "peers",
			Help:      "Live peer connections, by direction.",
		}, []string{"direction"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.FramesSent,
		r.FramesReceived,
		r.FrameErrors,
		r.Peers,
	)
	return r
}

// Register adds a collector, ignoring one that is already registered.
func (r *Registry) Register(c prometheus.Collector) error {
	if err := r.registry.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// FrameSent implements cluster.Metrics.
func (r *Registry) FrameSent(op cluster.OpCode, typ string) {
	r.FramesSent.WithLabelValues(op.String(), typ).Inc()
}

// FrameReceived implements cluster.Metrics.
func (r *Registry) FrameReceived(op cluster.OpCode, typ string) {
	r.FramesReceived.WithLabelValues(op.String(), typ).Inc()
}

// FrameError implements cluster.Metrics.
func (r *Registry) FrameError(reason string) {
	r.FrameErrors.WithLabelValues(reason).Inc()
}

// PeerConnected implements cluster.Metrics.
func (r *Registry) PeerConnected(inbound bool) {
	r.Peers.WithLabelValues(direction(inbound)).Inc()
}

// PeerDisconnected implements cluster.Metrics.
func (r *Registry) PeerDisconnected(inbound bool) {
	r.Peers.WithLabelValues(direction(inbound)).Dec()
}

func direction(inbound bool) string {
	if inbound {
		return "inbound"
	}
	return "outbound"
}
