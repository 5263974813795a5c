package robot

import (
	"fmt"

	"github.com/rover-control/rover/core/model"
	"github.com/rover-control/rover/core/protocol"
)

// Mode returns the current operating mode.
func (c *Core) Mode() model.RobotMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode switches the operating mode. Switching to the current mode fails
// with ErrModeConflict; switching while the dispatcher is not idle fails
// with ErrModeSwitchBusy. A successful switch clears any stale plan, fires
// the ModeChanged notification and acknowledges to the operator.
func (c *Core) SetMode(requested model.RobotMode) error {
	c.mu.Lock()
	if requested == c.mode {
		cur := c.mode
		c.mu.Unlock()
		c.sendError(modeConflictText(cur))
		return fmt.Errorf("%w: already in %s mode", ErrModeConflict, cur)
	}
	if c.phase != model.PhaseIdle || c.planning || c.manualActive {
		c.mu.Unlock()
		c.sendError(textModeSwitchBusy)
		return ErrModeSwitchBusy
	}
	c.mode = requested
	c.abortLocked()
	c.mu.Unlock()

	modeSwitches.WithLabelValues(requested.String()).Inc()
	c.notify(model.NotifyModeChanged)
	c.sendToOperator(protocol.NewModeMessage(requested))
	c.sendToOperator(protocol.NewInfo(modeChangedText(requested)))
	c.log.Infof("mode switched to %s", requested)
	return nil
}

// abortLocked clears the plan and all dispatch bookkeeping and forces the
// dispatcher idle. In-flight planning results are invalidated through the
// epoch counter. The caller holds the mutex.
func (c *Core) abortLocked() {
	c.plan = model.CommandPlan{}
	c.outstanding = nil
	c.manualActive = false
	c.planning = false
	c.waypointIdx = 0
	c.phase = model.PhaseIdle
	c.epoch++
}

// guard reports whether the inbound category is legal for the current mode.
// The second return value is the fixed protocol reply for a violation.
func (c *Core) guard(category string) (bool, string) {
	c.mu.Lock()
	mode := c.mode
	c.mu.Unlock()
	switch category {
	case protocol.CatObstacles:
		return mode == model.ModePath, textObstaclesNeedPath
	case protocol.CatSingleObstacle:
		return mode == model.ModePath, textSingleNeedsPath
	case protocol.CatControl:
		return mode == model.ModePath, textControlNeedsPath
	case protocol.CatManual:
		return mode == model.ModeManual, textManualNeedsManual
	default:
		// Mode switches are legal in any mode.
		return true, ""
	}
}
