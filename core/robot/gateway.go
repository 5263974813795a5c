package robot

import (
	"context"
	"fmt"
	"time"

	"github.com/rover-control/rover/core/events"
	"github.com/rover-control/rover/core/metrics"
	"github.com/rover-control/rover/core/model"
	"github.com/rover-control/rover/core/planner"
	"github.com/rover-control/rover/core/protocol"
)

// Plan sources reported on the event bus and metrics.
const (
	planSourceObstacles = "obstacles"
	planSourceSingle    = "single-obstacle"
)

// PlanFromObstacles starts an asynchronous planning call over the obstacle
// set. While the call is in flight the dispatcher reports busy to further
// plan requests. The result is re-submitted into the serialized core: on
// success the plan is loaded atomically, on failure the dispatcher is left
// untouched and the ApiDown notification fires.
func (c *Core) PlanFromObstacles(obstacles []model.Obstacle, turning model.TurningMode) error {
	epoch, err := c.beginPlanning()
	if err != nil {
		return err
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.plannerTimeout)
		defer cancel()
		res, err := c.planner.PlanPath(ctx, obstacles, turning)
		c.completePlanning(planSourceObstacles, epoch, res, err)
	}()
	return nil
}

// PlanSingleObstacle starts an asynchronous planning call for a
// single-obstacle avoidance maneuver around the given pose pair. Same
// all-or-nothing contract as PlanFromObstacles.
func (c *Core) PlanSingleObstacle(pose model.Pose, obstacle model.Obstacle) error {
	epoch, err := c.beginPlanning()
	if err != nil {
		return err
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.plannerTimeout)
		defer cancel()
		res, err := c.planner.PlanSingleObstacle(ctx, pose, obstacle)
		c.completePlanning(planSourceSingle, epoch, res, err)
	}()
	return nil
}

// beginPlanning marks a planning call in flight. Only one may run at a time
// and only while the dispatcher is idle. The busy reply is sent after the
// mutex is released; no link write happens under the lock.
func (c *Core) beginPlanning() (uint64, error) {
	c.mu.Lock()
	if c.phase != model.PhaseIdle || c.planning || c.manualActive {
		c.mu.Unlock()
		c.sendError(textDispatcherBusy)
		return 0, ErrDispatcherBusy
	}
	c.planning = true
	epoch := c.epoch
	c.mu.Unlock()
	return epoch, nil
}

// completePlanning re-enters the serialized core with the planning result.
// Results from a superseded epoch (mode switch or abort during the call)
// are discarded.
func (c *Core) completePlanning(source string, epoch uint64, res planner.Result, planErr error) {
	now := time.Now()
	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		c.log.Warnf("discarding stale %s planning result", source)
		return
	}
	c.planning = false

	if planErr != nil {
		c.mu.Unlock()
		c.finishPlanRecord(source, 0, planErr, now)
		c.log.Errorf("%s planning failed: %v", source, planErr)
		c.sendError(textPlanningDown)
		c.notify(model.NotifyAPIDown)
		return
	}

	cmds, err := protocol.ParsePlan(res.Commands)
	if err != nil {
		c.mu.Unlock()
		c.finishPlanRecord(source, 0, err, now)
		c.log.Errorf("%s plan rejected: %v", source, err)
		c.sendError(textPlanningDown)
		c.notify(model.NotifyAPIDown)
		return
	}
	if len(cmds) == 0 {
		c.mu.Unlock()
		err := fmt.Errorf("%s plan carries no commands", source)
		c.finishPlanRecord(source, 0, err, now)
		c.log.Errorf("%v", err)
		c.sendError(textEmptyPlan)
		return
	}
	plan := model.CommandPlan{Commands: cmds, Waypoints: res.Waypoints}
	if err := c.loadLocked(plan); err != nil {
		c.mu.Unlock()
		c.finishPlanRecord(source, len(cmds), err, now)
		c.log.Errorf("loading %s plan: %v", source, err)
		c.sendError(textDispatcherBusy)
		return
	}
	c.mu.Unlock()
	c.finishPlanRecord(source, len(cmds), nil, now)
	c.sendToOperator(protocol.NewInfo("Commands and path received from algo API. Robot is ready to move."))
}

func (c *Core) finishPlanRecord(source string, commands int, planErr error, now time.Time) {
	outcome := "ok"
	if planErr != nil {
		outcome = "failed"
	}
	planningCalls.WithLabelValues(source, outcome).Inc()
	c.publish(events.PlanEvent{Source: source, Commands: commands, Err: planErr, Time: now})
	if r, ok := c.sink.(metrics.PlanRecorder); ok {
		if err := r.RecordPlan(metrics.PlanRecord{Source: source, Commands: commands, Failed: planErr != nil, Time: now}); err != nil {
			c.log.Errorf("metrics error: %v", err)
		}
	}
}
