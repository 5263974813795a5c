package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/rover-control/rover/core/metrics"
	"github.com/rover-control/rover/core/model"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	if err := sink.RecordCommand(coremetrics.CommandRecord{Wire: "FW03", Mode: model.ModePath, Time: time.Now()}); err != nil {
		t.Fatalf("command: %v", err)
	}
	if err := sink.RecordAck(coremetrics.AckRecord{Wire: "FW03", Matched: true, Latency: 20 * time.Millisecond}); err != nil {
		t.Fatalf("ack: %v", err)
	}
	if err := sink.RecordPlan(coremetrics.PlanRecord{Source: "obstacles", Commands: 2}); err != nil {
		t.Fatalf("plan: %v", err)
	}
	if got := testutil.ToFloat64(sink.commands.WithLabelValues("path", "false")); got != 1 {
		t.Fatalf("commands counter = %v", got)
	}
	if got := testutil.ToFloat64(sink.acks.WithLabelValues("true")); got != 1 {
		t.Fatalf("acks counter = %v", got)
	}
	if got := testutil.ToFloat64(sink.plans.WithLabelValues("obstacles", "false")); got != 1 {
		t.Fatalf("plans counter = %v", got)
	}
}

func TestPromSinkDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second: %v", err)
	}
}
