package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/rover-control/rover/core/model"
)

// Inbound operator categories.
const (
	CatMode           = "mode"
	CatObstacles      = "obstacles"
	CatSingleObstacle = "single-obstacle"
	CatControl        = "control"
	CatManual         = "manual"
)

// Outbound operator categories.
const (
	CatInfo     = "info"
	CatError    = "error"
	CatLocation = "location"
	CatImageRec = "image-rec"
	CatStatus   = "status"
)

// Status values.
const (
	StatusRunning  = "running"
	StatusFinished = "finished"
)

// Manual action values.
const (
	ManualSnapshot   = "MANSNAP"
	ManualChallenge1 = "WN01"
	ManualChallenge2 = "WN02"
)

// Request is an inbound operator message decoded into its category variant.
type Request interface{ Category() string }

// ModeRequest asks for a mode switch.
type ModeRequest struct{ Mode model.RobotMode }

// ObstaclesRequest supplies the obstacle set for path planning.
type ObstaclesRequest struct {
	Obstacles []model.Obstacle
	Turning   model.TurningMode
}

// SingleObstacleRequest asks for a single-obstacle avoidance plan.
type SingleObstacleRequest struct {
	Robot    model.Pose
	Obstacle model.Obstacle
}

// ControlRequest carries a dispatch control action; "start" is the only one.
type ControlRequest struct{ Action string }

// ManualRequest carries a manual-mode action: a movement code, STOP, a
// snapshot trigger or a challenge start.
type ManualRequest struct{ Action string }

func (ModeRequest) Category() string           { return CatMode }
func (ObstaclesRequest) Category() string      { return CatObstacles }
func (SingleObstacleRequest) Category() string { return CatSingleObstacle }
func (ControlRequest) Category() string        { return CatControl }
func (ManualRequest) Category() string         { return CatManual }

var manualActions = map[string]bool{
	WireManualForward:  true,
	WireManualBackward: true,
	WireManualLeft:     true,
	WireManualRight:    true,
	WireStop:           true,
	ManualSnapshot:     true,
	ManualChallenge1:   true,
	ManualChallenge2:   true,
}

type envelope struct {
	Cat   string          `json:"cat"`
	Value json.RawMessage `json:"value"`
}

// DecodeRequest parses a raw operator frame into its typed variant. Frames
// outside the known category set, or with malformed payloads, are rejected
// here so the router never acts on a partial interpretation.
func DecodeRequest(raw []byte) (Request, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}
	switch env.Cat {
	case CatMode:
		var v string
		if err := json.Unmarshal(env.Value, &v); err != nil {
			return nil, fmt.Errorf("malformed mode value: %w", err)
		}
		m, err := model.ParseMode(v)
		if err != nil {
			return nil, err
		}
		return ModeRequest{Mode: m}, nil
	case CatObstacles:
		var v struct {
			Obstacles []model.Obstacle `json:"obstacles"`
			Mode      string           `json:"mode"`
		}
		if err := json.Unmarshal(env.Value, &v); err != nil {
			return nil, fmt.Errorf("malformed obstacles value: %w", err)
		}
		if len(v.Obstacles) == 0 {
			return nil, fmt.Errorf("obstacles message carries no obstacles")
		}
		t, err := model.ParseTurningMode(v.Mode)
		if err != nil {
			return nil, err
		}
		return ObstaclesRequest{Obstacles: v.Obstacles, Turning: t}, nil
	case CatSingleObstacle:
		var v struct {
			Robot    model.Pose     `json:"robot"`
			Obstacle model.Obstacle `json:"obstacle"`
		}
		if err := json.Unmarshal(env.Value, &v); err != nil {
			return nil, fmt.Errorf("malformed single-obstacle value: %w", err)
		}
		return SingleObstacleRequest{Robot: v.Robot, Obstacle: v.Obstacle}, nil
	case CatControl:
		var v string
		if err := json.Unmarshal(env.Value, &v); err != nil {
			return nil, fmt.Errorf("malformed control value: %w", err)
		}
		if v != "start" {
			return nil, fmt.Errorf("unknown control action %q", v)
		}
		return ControlRequest{Action: v}, nil
	case CatManual:
		var v string
		if err := json.Unmarshal(env.Value, &v); err != nil {
			return nil, fmt.Errorf("malformed manual value: %w", err)
		}
		if !manualActions[v] {
			return nil, fmt.Errorf("unknown manual action %q", v)
		}
		return ManualRequest{Action: v}, nil
	default:
		return nil, fmt.Errorf("unknown category %q", env.Cat)
	}
}

// Outbound is a message bound for the operator application.
type Outbound struct {
	Cat   string `json:"cat"`
	Value any    `json:"value"`
}

// Encode renders the message as its wire JSON.
func (o Outbound) Encode() ([]byte, error) { return json.Marshal(o) }

// NewInfo builds an informational text message.
func NewInfo(text string) Outbound { return Outbound{Cat: CatInfo, Value: text} }

// NewError builds an error text message.
func NewError(text string) Outbound { return Outbound{Cat: CatError, Value: text} }

// NewLocation reports the robot's pose.
func NewLocation(p model.Pose) Outbound { return Outbound{Cat: CatLocation, Value: p} }

// ImageRecResult is the recognition outcome forwarded to the operator.
type ImageRecResult struct {
	ImageID    string `json:"image_id"`
	ObstacleID string `json:"obstacle_id"`
}

// NewImageRec forwards an image-recognition result.
func NewImageRec(r ImageRecResult) Outbound { return Outbound{Cat: CatImageRec, Value: r} }

// NewModeMessage reports the current operating mode.
func NewModeMessage(m model.RobotMode) Outbound {
	return Outbound{Cat: CatMode, Value: m.String()}
}

// NewStatus reports dispatch progress ("running" or "finished").
func NewStatus(s string) Outbound { return Outbound{Cat: CatStatus, Value: s} }
