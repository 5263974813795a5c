// Package vision implements the camera and image-recognition ports.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	corevision "github.com/rover-control/rover/core/vision"
	"github.com/rover-control/rover/infra/logger"
)

// Config defines the recognition API endpoint.
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

// HTTPRecognizer submits captured frames to the recognition API.
type HTTPRecognizer struct {
	base string
	cli  *http.Client
	log  logger.Logger
}

var _ corevision.Recognizer = (*HTTPRecognizer)(nil)

// NewHTTPRecognizer creates a recognizer client.
func NewHTTPRecognizer(cfg Config) (*HTTPRecognizer, error) {
	cfg.SetDefaults()
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("vision: base_url is required")
	}
	return &HTTPRecognizer{
		base: cfg.BaseURL,
		cli:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:  logger.New("vision_client"),
	}, nil
}

// Recognize posts the image and returns the identified target.
func (r *HTTPRecognizer) Recognize(ctx context.Context, image []byte) (corevision.Result, error) {
	body, err := json.Marshal(struct {
		RequestID string `json:"request_id"`
		Image     string `json:"image"`
	}{
		RequestID: uuid.NewString(),
		Image:     base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return corevision.Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.base+"/image", bytes.NewReader(body))
	if err != nil {
		return corevision.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.cli.Do(req)
	if err != nil {
		return corevision.Result{}, fmt.Errorf("%w: %v", corevision.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return corevision.Result{}, fmt.Errorf("%w: image returned %s", corevision.ErrUnavailable, resp.Status)
	}
	var out struct {
		ImageID    string `json:"image_id"`
		ObstacleID string `json:"obstacle_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return corevision.Result{}, fmt.Errorf("%w: decode image response: %v", corevision.ErrUnavailable, err)
	}
	r.log.Debugf("recognized image %s on obstacle %s", out.ImageID, out.ObstacleID)
	return corevision.Result{ImageID: out.ImageID, ObstacleID: out.ObstacleID}, nil
}
