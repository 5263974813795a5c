package robot

import (
	"fmt"

	"github.com/rover-control/rover/core/protocol"
)

// HandleOperatorFrame classifies one inbound operator frame, validates it
// against the current mode and dispatches it to the owning component. Every
// failure is reported back as an error-category message; none is fatal to
// the process.
func (c *Core) HandleOperatorFrame(raw []byte) {
	req, err := protocol.DecodeRequest(raw)
	if err != nil {
		messagesRouted.WithLabelValues("invalid").Inc()
		c.log.Warnf("invalid operator message: %v", err)
		c.sendError(fmt.Sprintf("Invalid message: %v", err))
		return
	}
	messagesRouted.WithLabelValues(req.Category()).Inc()

	if ok, reply := c.guard(req.Category()); !ok {
		c.log.Warnf("%s message rejected in %s mode", req.Category(), c.Mode())
		c.sendError(reply)
		return
	}

	switch r := req.(type) {
	case protocol.ModeRequest:
		// Reply already sent by SetMode on both outcomes.
		_ = c.SetMode(r.Mode)
	case protocol.ObstaclesRequest:
		_ = c.PlanFromObstacles(r.Obstacles, r.Turning)
	case protocol.SingleObstacleRequest:
		_ = c.PlanSingleObstacle(r.Robot, r.Obstacle)
	case protocol.ControlRequest:
		_ = c.Start()
	case protocol.ManualRequest:
		c.handleManual(r.Action)
	default:
		c.log.Errorf("unroutable request %T", req)
		c.sendError("Invalid message: unroutable request")
	}
}

// handleManual routes a manual-mode action: movement codes go straight to
// the controller, the snapshot and challenge actions delegate to the
// external capture/HTTP collaborators.
func (c *Core) handleManual(action string) {
	switch action {
	case protocol.ManualSnapshot:
		c.snapshot()
	case protocol.ManualChallenge1, protocol.ManualChallenge2:
		c.startTask(action)
	default:
		cmd, err := protocol.ParseCommand(action)
		if err != nil {
			c.sendError(fmt.Sprintf("Invalid message: %v", err))
			return
		}
		_ = c.SendManual(cmd)
	}
}
