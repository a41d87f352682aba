// Package metrics exports proxy lifecycle and native call counts to
// Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wippyai/comproxy/proxy"
	"github.com/wippyai/comproxy/sim"
)

// Collector counts proxy lifecycle events and simulated native operations.
// It implements proxy.Observer and sim.Observer; register it with a session
// and, when running against the simulator, with the runtime as well.
type Collector struct {
	registry  *prometheus.Registry
	lifecycle *prometheus.CounterVec
	live      *prometheus.GaugeVec
	native    *prometheus.CounterVec
	failures  *prometheus.CounterVec
}

// New creates a collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		lifecycle: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comproxy_proxy_events_total",
				Help: "Proxy lifecycle transitions by native type and event",
			},
			[]string{"type", "event"},
		),
		live: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "comproxy_proxies_live",
				Help: "Proxies created and not yet disposed or finalized",
			},
			[]string{"type"},
		),
		native: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comproxy_native_ops_total",
				Help: "Native runtime operations by kind",
			},
			[]string{"op"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comproxy_native_failures_total",
				Help: "Native runtime operations that returned an error",
			},
			[]string{"op"},
		),
	}
	c.registry.MustRegister(c.lifecycle, c.live, c.native, c.failures)
	return c
}

// OnProxyEvent implements proxy.Observer.
func (c *Collector) OnProxyEvent(e proxy.Event) {
	c.lifecycle.WithLabelValues(e.TypeName, e.Type.String()).Inc()
	switch e.Type {
	case proxy.EventCreated:
		c.live.WithLabelValues(e.TypeName).Inc()
	case proxy.EventDisposed, proxy.EventFinalized:
		c.live.WithLabelValues(e.TypeName).Dec()
	}
}

// OnNativeEvent implements sim.Observer.
func (c *Collector) OnNativeEvent(e sim.Event) {
	op := e.Op.String()
	c.native.WithLabelValues(op).Inc()
	if e.Err != nil {
		c.failures.WithLabelValues(op).Inc()
	}
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler serving the collector's metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

var (
	_ proxy.Observer = (*Collector)(nil)
	_ sim.Observer   = (*Collector)(nil)
)
