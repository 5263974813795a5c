package model

import "fmt"

// CommandKind classifies a controller directive by its execution semantics.
type CommandKind int

const (
	// KindMove is a finite straight movement (forward or backward N units).
	KindMove CommandKind = iota
	// KindTurn is a finite turn toward a waypoint.
	KindTurn
	// KindIndefinite is an open-ended manual movement, terminated by STOP.
	KindIndefinite
	// KindStop terminates an indefinite movement.
	KindStop
	// KindSignal drives the buzzer (ZZ0x).
	KindSignal
)

// Command is an immutable controller directive: the 4-character wire string
// plus its decoded kind.
type Command struct {
	Wire string
	Kind CommandKind
}

// NewSignalCommand builds a buzzer command for the given beep count (1-9).
func NewSignalCommand(beeps int) (Command, error) {
	if beeps < 1 || beeps > 9 {
		return Command{}, fmt.Errorf("beep count %d out of range", beeps)
	}
	return Command{Wire: fmt.Sprintf("ZZ0%d", beeps), Kind: KindSignal}, nil
}

// CommandPlan is an ordered sequence of commands produced atomically by the
// planner. The dispatcher owns an active plan exclusively.
type CommandPlan struct {
	Commands  []Command
	Waypoints []Pose
}

// Len returns the number of commands remaining in the plan.
func (p CommandPlan) Len() int { return len(p.Commands) }

// Empty reports whether the plan holds no commands.
func (p CommandPlan) Empty() bool { return len(p.Commands) == 0 }

// DispatchPhase tracks the dispatcher's position in its lifecycle.
type DispatchPhase int

const (
	// PhaseIdle means no plan is held and no command is outstanding.
	PhaseIdle DispatchPhase = iota
	// PhaseDispatching means a plan is loaded but not yet started.
	PhaseDispatching
	// PhaseAwaitingAck means a command is on the wire awaiting its ack.
	PhaseAwaitingAck
)

// String returns a phase name for logs.
func (p DispatchPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDispatching:
		return "dispatching"
	case PhaseAwaitingAck:
		return "awaiting_ack"
	default:
		return fmt.Sprintf("DispatchPhase(%d)", int(p))
	}
}
