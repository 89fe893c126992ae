// Package metrics exposes run counters and latencies in Prometheus format.
// Every Metrics value owns a private registry so tests and concurrent runs
// never collide on the default one.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mutalign/core/partition"
	"mutalign/core/result"
	"mutalign/internal/cluster"
)

type Metrics struct {
	Registry *prometheus.Registry

	queries       *prometheus.CounterVec
	offsets       *prometheus.CounterVec
	candidates    prometheus.Counter
	searchSeconds *prometheus.HistogramVec
	querySeconds  prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mutalign_queries_total",
			Help: "Queries reduced on the coordinator, by whether a result was found",
		}, []string{"found"}),
		offsets: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mutalign_offsets_total",
			Help: "Reference offsets searched, by rank",
		}, []string{"rank"}),
		candidates: f.NewCounter(prometheus.CounterOpts{
			Name: "mutalign_candidates_total",
			Help: "Scored (offset, mutant) candidates",
		}),
		searchSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mutalign_search_duration_seconds",
			Help:    "Local search duration per query, by rank",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}, []string{"rank"}),
		querySeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mutalign_query_duration_seconds",
			Help:    "Query duration on the coordinator including the gather",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}

// Hooks feeds a cluster run into m.
func (m *Metrics) Hooks() cluster.Hooks {
	return cluster.Hooks{
		Searched: func(rank, _ int, r partition.Range, candidates int, d time.Duration) {
			label := strconv.Itoa(rank)
			m.offsets.WithLabelValues(label).Add(float64(r.Len()))
			m.candidates.Add(float64(candidates))
			m.searchSeconds.WithLabelValues(label).Observe(d.Seconds())
		},
		Reduced: func(_ int, r result.Result, d time.Duration) {
			m.queries.WithLabelValues(strconv.FormatBool(r.Found())).Inc()
			m.querySeconds.Observe(d.Seconds())
		},
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Serve exposes /metrics on addr until ctx is done. The returned address is
// the bound one (useful with port 0); errc yields the server's exit error.
func Serve(ctx context.Context, addr string, h http.Handler) (net.Addr, <-chan error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errc <- err
	}()
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()
	return ln.Addr(), errc, nil
}
