package metrics

import (
	"errors"
	"testing"
	"time"

	coremetrics "github.com/rover-control/rover/core/metrics"
	"github.com/rover-control/rover/core/model"
)

type recordingSink struct {
	commands int
	acks     int
	plans    int
	err      error
}

func (r *recordingSink) RecordCommand(coremetrics.CommandRecord) error {
	r.commands++
	return r.err
}
func (r *recordingSink) RecordAck(coremetrics.AckRecord) error {
	r.acks++
	return r.err
}
func (r *recordingSink) RecordPlan(coremetrics.PlanRecord) error {
	r.plans++
	return r.err
}

func TestMultiSinkFanout(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordCommand(coremetrics.CommandRecord{Wire: "FW03", Mode: model.ModePath, Time: time.Now()}); err != nil {
		t.Fatalf("command: %v", err)
	}
	if err := m.RecordAck(coremetrics.AckRecord{Wire: "FW03", Matched: true}); err != nil {
		t.Fatalf("ack: %v", err)
	}
	if err := m.RecordPlan(coremetrics.PlanRecord{Source: "obstacles", Commands: 2}); err != nil {
		t.Fatalf("plan: %v", err)
	}
	if a.commands != 1 || b.commands != 1 || a.acks != 1 || b.acks != 1 || a.plans != 1 || b.plans != 1 {
		t.Fatalf("records not fanned out: %+v %+v", a, b)
	}
}

func TestMultiSinkFirstError(t *testing.T) {
	boom := errors.New("boom")
	a := &recordingSink{err: boom}
	b := &recordingSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordCommand(coremetrics.CommandRecord{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if b.commands != 0 {
		t.Fatalf("second sink should not have been reached")
	}
}

func TestMultiSinkSkipsUnsupported(t *testing.T) {
	m := NewMultiSink(coremetrics.NopSink{})
	if err := m.RecordAck(coremetrics.AckRecord{}); err != nil {
		t.Fatalf("ack: %v", err)
	}
}
