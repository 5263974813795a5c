package robot

import (
	"errors"
	"fmt"

	"github.com/rover-control/rover/core/model"
)

// Sentinel errors of the coordination core. All of them are recovered
// locally: the router turns them into an error-category operator message and
// the core stays live in its prior state.
var (
	// ErrModeConflict is returned when the requested mode equals the
	// current mode.
	ErrModeConflict = errors.New("mode conflict")
	// ErrModeSwitchBusy is returned when a mode switch is attempted while
	// the dispatcher is not idle.
	ErrModeSwitchBusy = errors.New("mode switch while busy")
	// ErrQueueEmpty is returned by Start when no plan is held, and by Load
	// for a plan without commands.
	ErrQueueEmpty = errors.New("command queue empty")
	// ErrDispatcherBusy is returned by Load while a plan or planning call
	// is active.
	ErrDispatcherBusy = errors.New("dispatcher busy")
)

// modeConflictText is the fixed reply for a same-mode switch request.
func modeConflictText(m model.RobotMode) string {
	return fmt.Sprintf("Robot already in %s mode", m)
}

// modeChangedText is the fixed acknowledgment after a successful switch.
func modeChangedText(m model.RobotMode) string {
	return fmt.Sprintf("Robot is now in %s mode.", m)
}

// Fixed guard violation texts, defined by the operator protocol.
const (
	textObstaclesNeedPath = "Robot must be in Path mode to set obstacles."
	textSingleNeedsPath   = "Robot must be in Path mode to set an obstacle."
	textControlNeedsPath  = "Robot must be in Path mode to start."
	textManualNeedsManual = "Robot must be in Manual mode to send manual commands."
	textModeSwitchBusy    = "Robot is still executing commands, cannot switch mode."
	textQueueEmpty        = "Command queue is empty, nothing to start."
	textDispatcherBusy    = "Robot is still executing a command sequence."
	textPlanningDown      = "Path planning API is down."
	textEmptyPlan         = "Path planning API returned no commands."
)
