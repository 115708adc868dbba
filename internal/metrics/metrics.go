package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts the service's observable events. Handlers call these with a
// status label ("ok", "invalid", "not_found", "error") so dashboards can
// separate keep-polling traffic from real failures.
type Metrics interface {
	IncSubmitted(status string)
	IncFetched(status string)
	IncLatestQueried(status string)
	IncJobsPublished()
}

// Noop implements Metrics without emitting anything.
type Noop struct{}

func (Noop) IncSubmitted(string)     {}
func (Noop) IncFetched(string)       {}
func (Noop) IncLatestQueried(string) {}
func (Noop) IncJobsPublished()       {}

// Prom implements Metrics backed by Prometheus counters.
type Prom struct {
	submitted     *prometheus.CounterVec
	fetched       *prometheus.CounterVec
	latestQueried *prometheus.CounterVec
	jobsPublished prometheus.Counter
	once          sync.Once
}

// NewProm constructs and registers the counter set under the namespace.
func NewProm(namespace string) *Prom {
	p := &Prom{
		submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_submitted_total",
			Help:      "Result submissions by status",
		}, []string{"status"}),
		fetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_fetched_total",
			Help:      "Fetch-by-id requests by status",
		}, []string{"status"}),
		latestQueried: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "latest_queries_total",
			Help:      "Latest-id queries by status",
		}, []string{"status"}),
		jobsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_published_total",
			Help:      "Transform jobs published to the queue",
		}),
	}
	p.register()
	return p
}

func (p *Prom) register() {
	p.once.Do(func() {
		prometheus.MustRegister(p.submitted, p.fetched, p.latestQueried, p.jobsPublished)
	})
}

func (p *Prom) IncSubmitted(status string) {
	p.submitted.WithLabelValues(status).Inc()
}

func (p *Prom) IncFetched(status string) {
	p.fetched.WithLabelValues(status).Inc()
}

func (p *Prom) IncLatestQueried(status string) {
	p.latestQueried.WithLabelValues(status).Inc()
}

func (p *Prom) IncJobsPublished() {
	p.jobsPublished.Inc()
}

// Handler returns an HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
