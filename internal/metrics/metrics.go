// Package metrics exposes Fuste's run-time counters through Prometheus:
// interpreter steps, ecalls by number, and channel operations by resulting
// status code.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bassosimone/fuste/internal/control"
	"github.com/bassosimone/fuste/internal/machine"
)

// Registry holds the counters a running Fuste interpreter updates.
type Registry struct {
	Ticks   prometheus.Counter
	Ecalls  *prometheus.CounterVec
	Channel *prometheus.CounterVec

	registry *prometheus.Registry
}

// New constructs a fresh, unregistered-with-the-default-registry metrics
// set so multiple Fuste instances in one process never collide.
func New() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.Ticks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fuste_ticks_total",
		Help: "Number of interpreter steps executed.",
	})
	r.Ecalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fuste_ecalls_total",
		Help: "Number of ecalls serviced, by ecall number.",
	}, []string{"number"})
	r.Channel = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fuste_channel_ops_total",
		Help: "Number of channel Open/Check operations, by resulting status code.",
	}, []string{"status"})

	r.registry.MustRegister(r.Ticks, r.Ecalls, r.Channel)
	return r
}

// Serve runs an HTTP server exposing /metrics on addr and blocks until the
// server fails. The CLI calls it on a background goroutine so the
// interpreter's step loop keeps running on the main goroutine while scrapes
// are answered.
func (r *Registry) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	return http.ListenAndServe(addr, mux)
}

// ObserveEcall is the observer the ecall dispatcher calls once per serviced
// trap.
func (r *Registry) ObserveEcall(number uint32) {
	r.Ecalls.WithLabelValues(strconv.FormatUint(uint64(number), 10)).Inc()
}

// ObserveChannel is the observer the channel registry calls once per
// Open/Check, labeled by the resulting wire status code.
func (r *Registry) ObserveChannel(_ string, code int32) {
	r.Channel.WithLabelValues(strconv.FormatInt(int64(code), 10)).Inc()
}

// TickCounter is a composable step hook that counts every interpreter step
// flowing through it before delegating to Inner. It sits at the outermost
// layer of the composer so the counter equals the number of driver ticks.
type TickCounter struct {
	Inner   control.Hook
	Counter prometheus.Counter
}

// Tick implements control.Hook.
func (t *TickCounter) Tick(m *machine.Machine) (control.ControlFlow, error) {
	t.Counter.Inc()
	return t.Inner.Tick(m)
}
