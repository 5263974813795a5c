package metrics

import (
	"time"

	"github.com/rover-control/rover/core/model"
)

// CommandRecord represents a single controller command to be recorded.
type CommandRecord struct {
	Wire   string
	Mode   model.RobotMode
	Manual bool
	Time   time.Time
}

// Sink records dispatched commands for observability purposes.
type Sink interface {
	RecordCommand(rec CommandRecord) error
}

// AckRecord captures the outcome of a controller acknowledgment.
type AckRecord struct {
	Wire    string
	Matched bool
	Latency time.Duration
	Time    time.Time
}

// AckRecorder records acknowledgment outcomes.
type AckRecorder interface {
	RecordAck(rec AckRecord) error
}

// PlanRecord captures the outcome of a planning call.
type PlanRecord struct {
	Source   string
	Commands int
	Failed   bool
	Time     time.Time
}

// PlanRecorder records planning call outcomes.
type PlanRecorder interface {
	RecordPlan(rec PlanRecord) error
}

// NopSink implements Sink and all optional recorders with no-op methods.
type NopSink struct{}

func (NopSink) RecordCommand(CommandRecord) error { return nil }
func (NopSink) RecordAck(AckRecord) error         { return nil }
func (NopSink) RecordPlan(PlanRecord) error       { return nil }
