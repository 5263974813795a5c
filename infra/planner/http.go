// Package planner implements the path-planning service contract over HTTP.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rover-control/rover/core/model"
	coreplanner "github.com/rover-control/rover/core/planner"
	"github.com/rover-control/rover/infra/logger"
)

// Config defines the algorithm API endpoint.
type Config struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults applies the request timeout default.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("planner: base_url is required")
	}
	return nil
}

// HTTPClient talks JSON to the external algorithm API.
type HTTPClient struct {
	base string
	cli  *http.Client
	log  logger.Logger
}

// Compile-time assertion that HTTPClient implements the core contract.
var _ coreplanner.Planner = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the configured endpoint.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &HTTPClient{
		base: cfg.BaseURL,
		cli:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:  logger.New("planner_client"),
	}, nil
}

type planResponse struct {
	Data struct {
		Commands []string     `json:"commands"`
		Path     []model.Pose `json:"path"`
	} `json:"data"`
	Error string `json:"error"`
}

// PlanPath requests a full-run plan over the obstacle set.
func (c *HTTPClient) PlanPath(ctx context.Context, obstacles []model.Obstacle, turning model.TurningMode) (coreplanner.Result, error) {
	req := struct {
		RequestID string           `json:"request_id"`
		Obstacles []model.Obstacle `json:"obstacles"`
		Mode      string           `json:"mode"`
	}{
		RequestID: uuid.NewString(),
		Obstacles: obstacles,
		Mode:      fmt.Sprintf("%d", int(turning)),
	}
	return c.postPlan(ctx, "/path", req)
}

// PlanSingleObstacle requests an avoidance maneuver around one obstacle.
func (c *HTTPClient) PlanSingleObstacle(ctx context.Context, robot model.Pose, obstacle model.Obstacle) (coreplanner.Result, error) {
	req := struct {
		RequestID string         `json:"request_id"`
		Robot     model.Pose     `json:"robot"`
		Obstacle  model.Obstacle `json:"obstacle"`
	}{
		RequestID: uuid.NewString(),
		Robot:     robot,
		Obstacle:  obstacle,
	}
	return c.postPlan(ctx, "/navigate", req)
}

// StartTask triggers a named challenge task.
func (c *HTTPClient) StartTask(ctx context.Context, name string) error {
	body, err := json.Marshal(struct {
		Name string `json:"name"`
	}{Name: name})
	if err != nil {
		return err
	}
	resp, err := c.post(ctx, "/task", body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: task returned %s", coreplanner.ErrUnavailable, resp.Status)
	}
	return nil
}

func (c *HTTPClient) postPlan(ctx context.Context, path string, payload any) (coreplanner.Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return coreplanner.Result{}, err
	}
	resp, err := c.post(ctx, path, body)
	if err != nil {
		return coreplanner.Result{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return coreplanner.Result{}, fmt.Errorf("%w: %s returned %s", coreplanner.ErrUnavailable, path, resp.Status)
	}
	var pr planResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return coreplanner.Result{}, fmt.Errorf("%w: decode %s response: %v", coreplanner.ErrUnavailable, path, err)
	}
	if pr.Error != "" {
		return coreplanner.Result{}, fmt.Errorf("%w: %s", coreplanner.ErrUnavailable, pr.Error)
	}
	c.log.Debugf("%s returned %d commands", path, len(pr.Data.Commands))
	return coreplanner.Result{Commands: pr.Data.Commands, Waypoints: pr.Data.Path}, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", coreplanner.ErrUnavailable, err)
	}
	return resp, nil
}
