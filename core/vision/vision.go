// Package vision declares the camera and image-recognition ports.
package vision

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the recognition service cannot be reached.
var ErrUnavailable = errors.New("recognition service unavailable")

// Result identifies the recognized image on an obstacle face.
type Result struct {
	ImageID    string
	ObstacleID string
}

// Camera captures a still frame. The physical capture is an external
// collaborator; tests use a canned implementation.
type Camera interface {
	Capture(ctx context.Context) ([]byte, error)
}

// Recognizer submits a captured image to the external recognition service.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (Result, error)
}
