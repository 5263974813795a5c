// Package planner declares the contract with the external path-planning
// service. The core consumes its output; the geometry itself is the
// service's problem.
package planner

import (
	"context"
	"errors"

	"github.com/rover-control/rover/core/model"
)

// ErrUnavailable is returned when the planning service cannot be reached or
// rejects the request.
var ErrUnavailable = errors.New("planning service unavailable")

// Result is a complete plan: the ordered wire commands plus the waypoints
// the path passes through.
type Result struct {
	Commands  []string
	Waypoints []model.Pose
}

// Planner produces command plans from operator-supplied planning input.
type Planner interface {
	// PlanPath plans a full run over the obstacle set.
	PlanPath(ctx context.Context, obstacles []model.Obstacle, turning model.TurningMode) (Result, error)
	// PlanSingleObstacle plans an avoidance maneuver around one obstacle.
	PlanSingleObstacle(ctx context.Context, robot model.Pose, obstacle model.Obstacle) (Result, error)
	// StartTask triggers a named challenge task on the service,
	// fire-and-forget.
	StartTask(ctx context.Context, name string) error
}
