package metrics

import coremetrics "github.com/rover-control/rover/core/metrics"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCommand forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordCommand(rec coremetrics.CommandRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordCommand(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordAck forwards ack records to sinks that support them.
func (m *MultiSink) RecordAck(rec coremetrics.AckRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(coremetrics.AckRecorder); ok {
			if err := r.RecordAck(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordPlan forwards plan records to sinks that support them.
func (m *MultiSink) RecordPlan(rec coremetrics.PlanRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(coremetrics.PlanRecorder); ok {
			if err := r.RecordPlan(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
