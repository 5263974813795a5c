package vision

import (
	"context"
	"fmt"
	"os"

	corevision "github.com/rover-control/rover/core/vision"
)

// FileCamera reads the latest capture from a fixed path. The physical
// capture pipeline writes frames there out of band.
type FileCamera struct {
	Path string
}

var _ corevision.Camera = FileCamera{}

// Capture returns the current frame file contents.
func (c FileCamera) Capture(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("read capture %s: %w", c.Path, err)
	}
	return data, nil
}
