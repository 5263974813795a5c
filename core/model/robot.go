package model

import "fmt"

// RobotMode is the operating mode of the rover.
type RobotMode int

const (
	// ModeManual accepts direct, indefinite movement commands.
	ModeManual RobotMode = iota
	// ModePath executes a planned, ack-gated command sequence.
	ModePath
)

// String returns the protocol name of the mode ("manual" or "path").
func (m RobotMode) String() string {
	switch m {
	case ModeManual:
		return "manual"
	case ModePath:
		return "path"
	default:
		return fmt.Sprintf("RobotMode(%d)", int(m))
	}
}

// ParseMode converts a protocol mode value into a RobotMode.
func ParseMode(s string) (RobotMode, error) {
	switch s {
	case "manual":
		return ModeManual, nil
	case "path":
		return ModePath, nil
	default:
		return ModeManual, fmt.Errorf("unknown mode %q", s)
	}
}

// Pose is the robot's last known or commanded location on the arena grid.
type Pose struct {
	X         int `json:"x"`
	Y         int `json:"y"`
	Direction int `json:"d"`
}

// Obstacle is an operator-supplied planning input. Direction identifies the
// face carrying the image target.
type Obstacle struct {
	X         int `json:"x"`
	Y         int `json:"y"`
	ID        int `json:"id"`
	Direction int `json:"d"`
}

// TurningMode selects the wire command set the planner emits.
type TurningMode int

const (
	// TurningIndoor uses the tight-radius command set (FL00, FR00, ...).
	TurningIndoor TurningMode = iota
	// TurningOutdoor uses the wide-radius command set (FL20, FR20, ...).
	TurningOutdoor
)

// ParseTurningMode converts the protocol value ("0" indoor, "1" outdoor).
func ParseTurningMode(s string) (TurningMode, error) {
	switch s {
	case "0":
		return TurningIndoor, nil
	case "1":
		return TurningOutdoor, nil
	default:
		return TurningIndoor, fmt.Errorf("unknown turning mode %q", s)
	}
}
