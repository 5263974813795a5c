package metrics

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/rover-control/rover/core/metrics"
)

// PromSink records command and acknowledgment events in Prometheus metrics.
type PromSink struct {
	commands *prometheus.CounterVec
	acks     *prometheus.CounterVec
	plans    *prometheus.CounterVec
	latency  prometheus.Histogram
}

// NewPromSink registers the sink metrics on the default Prometheus
// registerer. The Prometheus server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rover_commands_total",
		Help: "Controller commands recorded by the sink",
	}, []string{"mode", "manual"})
	acks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rover_acks_total",
		Help: "Controller acknowledgments recorded by the sink",
	}, []string{"matched"})
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rover_plans_total",
		Help: "Planning calls recorded by the sink",
	}, []string{"source", "failed"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rover_ack_latency_seconds",
		Help:    "Command-to-ack latency recorded by the sink",
		Buckets: prometheus.DefBuckets,
	})
	if err := reg.Register(commands); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			commands = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(acks); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			acks = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(plans); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			plans = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	return &PromSink{commands: commands, acks: acks, plans: plans, latency: latency}, nil
}

// RecordCommand increments the command counter.
func (s *PromSink) RecordCommand(rec coremetrics.CommandRecord) error {
	s.commands.WithLabelValues(rec.Mode.String(), strconv.FormatBool(rec.Manual)).Inc()
	return nil
}

// RecordAck increments the ack counter and observes latency.
func (s *PromSink) RecordAck(rec coremetrics.AckRecord) error {
	s.acks.WithLabelValues(strconv.FormatBool(rec.Matched)).Inc()
	if rec.Matched {
		s.latency.Observe(rec.Latency.Seconds())
	}
	return nil
}

// RecordPlan increments the planning counter.
func (s *PromSink) RecordPlan(rec coremetrics.PlanRecord) error {
	s.plans.WithLabelValues(rec.Source, strconv.FormatBool(rec.Failed)).Inc()
	return nil
}

// StartPromServer starts an HTTP server exposing Prometheus metrics on the
// given address. The server runs until the provided context is canceled.
// A dedicated ServeMux is used to avoid interfering with other handlers.
func StartPromServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("prom server shutdown: %v", err)
		}
		cancel()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
