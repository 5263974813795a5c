package robot

import (
	"fmt"
	"time"

	"github.com/rover-control/rover/core/events"
	"github.com/rover-control/rover/core/metrics"
	"github.com/rover-control/rover/core/model"
	"github.com/rover-control/rover/core/protocol"
)

// Load atomically replaces the held plan. It fails with ErrDispatcherBusy
// unless the dispatcher is idle, and with ErrQueueEmpty for a plan without
// commands, leaving any active plan untouched.
func (c *Core) Load(plan model.CommandPlan) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(plan)
}

func (c *Core) loadLocked(plan model.CommandPlan) error {
	if c.phase != model.PhaseIdle || c.manualActive {
		return ErrDispatcherBusy
	}
	// An empty plan never enters Dispatching: the phase only leaves Idle
	// with at least one command to send, so Start cannot strand it.
	if plan.Empty() {
		return ErrQueueEmpty
	}
	c.plan = plan
	c.waypointIdx = 0
	c.phase = model.PhaseDispatching
	plansLoaded.Inc()
	c.log.Infof("plan loaded: %d commands, %d waypoints", plan.Len(), len(plan.Waypoints))
	return nil
}

// Start pops the first command of the held plan, sends it to the controller
// and begins awaiting its acknowledgment. It fails with ErrQueueEmpty when
// no plan is held.
func (c *Core) Start() error {
	c.mu.Lock()
	if c.phase == model.PhaseAwaitingAck {
		c.mu.Unlock()
		c.sendError(textDispatcherBusy)
		return ErrDispatcherBusy
	}
	if c.plan.Empty() {
		c.mu.Unlock()
		c.sendError(textQueueEmpty)
		return ErrQueueEmpty
	}
	if err := c.dispatchNextLocked(); err != nil {
		c.mu.Unlock()
		c.sendError(fmt.Sprintf("Failed to send command to controller: %v", err))
		return err
	}
	c.mu.Unlock()
	c.sendToOperator(protocol.NewStatus(protocol.StatusRunning))
	c.log.Infof("dispatch started")
	return nil
}

// dispatchNextLocked pops the front command, writes it to the controller and
// arms the ack watchdog. The caller holds the mutex and has checked the plan
// is non-empty.
func (c *Core) dispatchNextLocked() error {
	cmd := c.plan.Commands[0]
	if err := c.writeController(cmd, false); err != nil {
		return err
	}
	c.plan.Commands = c.plan.Commands[1:]
	c.outstanding = &cmd
	c.sentAt = time.Now()
	c.phase = model.PhaseAwaitingAck
	c.ackSeq++
	if c.ackTimeout > 0 {
		seq := c.ackSeq
		time.AfterFunc(c.ackTimeout, func() { c.onAckTimeout(seq, cmd.Wire) })
	}
	return nil
}

// onAckTimeout warns when a command stays unacknowledged past the configured
// timeout. It never advances or aborts the plan: the controller owns the
// command already on the wire.
func (c *Core) onAckTimeout(seq uint64, wire string) {
	c.mu.Lock()
	expired := c.phase == model.PhaseAwaitingAck && c.ackSeq == seq
	c.mu.Unlock()
	if !expired {
		return
	}
	ackTimeouts.Inc()
	c.log.Warnf("no ack for %s after %s", wire, c.ackTimeout)
	c.sendError(fmt.Sprintf("Controller has not acknowledged %s yet.", wire))
}

// HandleControllerFrame processes one frame from the controller link.
// Acknowledgment frames drive the dispatcher; anything else is logged and
// dropped.
func (c *Core) HandleControllerFrame(frame string) {
	echoed, ok := protocol.ParseAck(frame)
	if !ok {
		c.log.Debugf("ignoring controller frame %q", frame)
		return
	}
	c.handleAck(echoed)
}

// handleAck advances the plan on a matching acknowledgment. Out-of-order,
// duplicate or mismatched acks are counted and ignored; they never corrupt
// dispatch state or rewind the plan.
func (c *Core) handleAck(echoed string) {
	c.mu.Lock()
	now := time.Now()
	if c.phase != model.PhaseAwaitingAck || c.outstanding == nil {
		c.mu.Unlock()
		acksReceived.WithLabelValues("ignored").Inc()
		c.publish(events.AckEvent{Echoed: echoed, Matched: false, Time: now})
		c.log.Warnf("ignoring unexpected ack %q", echoed)
		return
	}
	expected := c.outstanding.Wire
	if echoed != expected {
		c.mu.Unlock()
		acksReceived.WithLabelValues("mismatch").Inc()
		c.publish(events.AckEvent{Echoed: echoed, Expected: expected, Matched: false, Time: now})
		c.log.Warnf("ack mismatch: got %q, awaiting %q", echoed, expected)
		return
	}

	latency := now.Sub(c.sentAt)
	acksReceived.WithLabelValues("ok").Inc()
	ackLatency.Observe(latency.Seconds())
	c.publish(events.AckEvent{Echoed: echoed, Expected: expected, Matched: true, Latency: latency, Time: now})
	if err := c.recordAck(metrics.AckRecord{Wire: echoed, Matched: true, Latency: latency, Time: now}); err != nil {
		c.log.Errorf("metrics error: %v", err)
	}
	c.outstanding = nil
	c.advancePoseLocked()
	pose := c.pose

	if c.plan.Empty() {
		c.phase = model.PhaseIdle
		c.mu.Unlock()
		c.sendToOperator(protocol.NewLocation(pose))
		c.sendToOperator(protocol.NewStatus(protocol.StatusFinished))
		c.notify(model.NotifyPathFinished)
		c.log.Infof("plan finished")
		return
	}
	err := c.dispatchNextLocked()
	c.mu.Unlock()
	c.sendToOperator(protocol.NewLocation(pose))
	if err != nil {
		c.sendError(fmt.Sprintf("Failed to send command to controller: %v", err))
	}
}

// advancePoseLocked moves the tracked pose to the next path waypoint, if the
// planner supplied one for this step.
func (c *Core) advancePoseLocked() {
	if c.waypointIdx < len(c.plan.Waypoints) {
		c.pose = c.plan.Waypoints[c.waypointIdx]
		c.waypointIdx++
	}
}

// recordAck forwards the ack to the sink when it supports ack records.
func (c *Core) recordAck(rec metrics.AckRecord) error {
	if r, ok := c.sink.(metrics.AckRecorder); ok {
		return r.RecordAck(rec)
	}
	return nil
}

// SendManual writes a manual command straight to the controller, bypassing
// the plan. Manual movement is fire-and-forget: no acknowledgment is
// awaited, and an indefinite movement runs until STOP.
func (c *Core) SendManual(cmd model.Command) error {
	c.mu.Lock()
	if c.phase != model.PhaseIdle {
		c.mu.Unlock()
		c.sendError(textDispatcherBusy)
		return ErrDispatcherBusy
	}
	if err := c.writeController(cmd, true); err != nil {
		c.mu.Unlock()
		c.sendError(fmt.Sprintf("Failed to send command to controller: %v", err))
		return err
	}
	switch cmd.Kind {
	case model.KindIndefinite:
		c.manualActive = true
	case model.KindStop:
		c.manualActive = false
	}
	c.mu.Unlock()
	c.log.Debugf("manual command %s sent", cmd.Wire)
	return nil
}
