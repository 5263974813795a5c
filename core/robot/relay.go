package robot

import (
	"context"

	"github.com/rover-control/rover/core/model"
	"github.com/rover-control/rover/core/protocol"
)

// OnOperatorConnected greets a freshly connected (or reconnected) operator:
// a welcome message, the current mode unsolicited, and the connect buzzer.
func (c *Core) OnOperatorConnected() {
	c.sendToOperator(protocol.NewInfo("You are connected to the rover."))
	c.sendToOperator(protocol.NewModeMessage(c.Mode()))
	c.notify(model.NotifyDeviceConnected)
}

// OnOperatorDisconnected signals a dropped operator link on the buzzer.
func (c *Core) OnOperatorDisconnected() {
	c.notify(model.NotifyDeviceDisconnected)
}

// ForwardImageRec relays an externally produced recognition result to the
// operator unchanged.
func (c *Core) ForwardImageRec(res protocol.ImageRecResult) {
	c.sendToOperator(protocol.NewImageRec(res))
}

// snapshot captures a frame and submits it to the recognition service. Both
// steps run outside the serialized region; only the result crosses back as
// an outbound message.
func (c *Core) snapshot() {
	if c.camera == nil || c.recognizer == nil {
		c.sendError("Camera is not available.")
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.plannerTimeout)
		defer cancel()
		img, err := c.camera.Capture(ctx)
		if err != nil {
			c.log.Errorf("snapshot capture: %v", err)
			c.sendError("Failed to capture snapshot.")
			return
		}
		res, err := c.recognizer.Recognize(ctx, img)
		if err != nil {
			c.log.Errorf("image recognition: %v", err)
			c.sendError("Image recognition API is down.")
			c.notify(model.NotifyAPIDown)
			return
		}
		c.ForwardImageRec(protocol.ImageRecResult{ImageID: res.ImageID, ObstacleID: res.ObstacleID})
	}()
}

// startTask triggers a named challenge task on the external service,
// fire-and-forget.
func (c *Core) startTask(name string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.plannerTimeout)
		defer cancel()
		if err := c.planner.StartTask(ctx, name); err != nil {
			c.log.Errorf("task %s: %v", name, err)
			c.sendError(textPlanningDown)
			c.notify(model.NotifyAPIDown)
			return
		}
		c.sendToOperator(protocol.NewInfo("Task " + name + " started."))
	}()
}
