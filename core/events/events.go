// Package events defines the robot events emitted on the event bus.
//
// Available event types:
//   - CommandEvent: a wire command left for the controller
//   - AckEvent: outcome of a controller acknowledgment
//   - PlanEvent: outcome of a planning call
//   - NotificationEvent: a buzzer notification fired
package events

import (
	"time"

	"github.com/rover-control/rover/core/model"
)

// CommandEvent is published when a command is written to the controller.
type CommandEvent struct {
	Wire   string
	Mode   model.RobotMode
	Manual bool
	Time   time.Time
}

// AckEvent is published for each controller acknowledgment frame.
// Matched is false for duplicate, late or mismatched acks.
type AckEvent struct {
	Echoed   string
	Expected string
	Matched  bool
	Latency  time.Duration
	Time     time.Time
}

// PlanEvent is published when a planning call completes.
// Source is "obstacles" or "single-obstacle".
type PlanEvent struct {
	Source   string
	Commands int
	Err      error
	Time     time.Time
}

// NotificationEvent is published when the core fires a buzzer notification.
type NotificationEvent struct {
	Event model.NotificationEvent
	Beeps int
	Time  time.Time
}
