package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/rover-control/rover/infra/link"
	"github.com/rover-control/rover/infra/metrics"
	"github.com/rover-control/rover/infra/planner"
	"github.com/rover-control/rover/infra/vision"
)

// Config is the process configuration, loaded from a yaml or json file with
// ROVER_-prefixed environment overrides.
type Config struct {
	Operator   link.MQTTConfig   `json:"operator"`
	Controller link.SerialConfig `json:"controller"`
	Planner    planner.Config    `json:"planner"`
	Vision     vision.Config     `json:"vision"`
	Robot      RobotConfig       `json:"robot"`
	Metrics    MetricsConfig     `json:"metrics"`
}

// RobotConfig holds the coordination core parameters.
type RobotConfig struct {
	// InitialMode is "manual" or "path". The source protocol leaves the
	// startup mode open; the default is manual.
	InitialMode string `json:"initial_mode"`
	// AckTimeoutSeconds bounds the wait for a controller acknowledgment.
	// Zero waits forever.
	AckTimeoutSeconds int `json:"ack_timeout_seconds"`
	// CameraPath is where the capture pipeline drops the latest frame.
	CameraPath string `json:"camera_path"`
}

// SetDefaults applies robot defaults.
func (c *RobotConfig) SetDefaults() {
	if c.InitialMode == "" {
		c.InitialMode = "manual"
	}
}

// Validate checks the mode value.
func (c RobotConfig) Validate() error {
	if c.InitialMode != "manual" && c.InitialMode != "path" {
		return fmt.Errorf("robot: initial_mode must be manual or path, got %q", c.InitialMode)
	}
	if c.AckTimeoutSeconds < 0 {
		return fmt.Errorf("robot: ack_timeout_seconds must not be negative")
	}
	return nil
}

// MetricsConfig selects the enabled sinks.
type MetricsConfig struct {
	PrometheusEnabled bool                 `json:"prometheus_enabled"`
	PrometheusPort    string               `json:"prometheus_port"`
	InfluxEnabled     bool                 `json:"influx_enabled"`
	Influx            metrics.InfluxConfig `json:"influx"`
}

// SetDefaults applies the metrics defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":2112"
	}
}

// Load reads and validates the configuration file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. ROVER_OPERATOR__BROKER.
	if err := k.Load(env.Provider("ROVER_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "rover_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Operator.SetDefaults()
	cfg.Controller.SetDefaults()
	cfg.Planner.SetDefaults()
	cfg.Vision.SetDefaults()
	cfg.Robot.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Operator.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Planner.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Robot.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
