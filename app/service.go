package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rover-control/rover/config"
	"github.com/rover-control/rover/core/events"
	corelink "github.com/rover-control/rover/core/link"
	coremetrics "github.com/rover-control/rover/core/metrics"
	"github.com/rover-control/rover/core/model"
	"github.com/rover-control/rover/core/robot"
	corevision "github.com/rover-control/rover/core/vision"
	"github.com/rover-control/rover/infra/link"
	"github.com/rover-control/rover/infra/logger"
	"github.com/rover-control/rover/infra/metrics"
	"github.com/rover-control/rover/infra/planner"
	"github.com/rover-control/rover/infra/vision"
	"github.com/rover-control/rover/internal/eventbus"
)

// Service wires the coordination core to its transports and sinks and pumps
// both links until shutdown.
type Service struct {
	Core *robot.Core

	operator   *link.MQTTOperatorLink
	controller corelink.ControllerLink
	bus        eventbus.EventBus
	log        logger.Logger

	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration. The operator link is built
// but not connected; Run connects it so the connect greeting reaches the
// first session.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	operator, err := link.NewMQTTOperatorLink(cfg.Operator)
	if err != nil {
		return nil, fmt.Errorf("operator link: %w", err)
	}
	controller, err := link.OpenSerialControllerLink(cfg.Controller)
	if err != nil {
		return nil, fmt.Errorf("controller link: %w", err)
	}

	plannerClient, err := planner.NewHTTPClient(cfg.Planner)
	if err != nil {
		return nil, fmt.Errorf("planner client: %w", err)
	}

	var camera corevision.Camera
	if cfg.Robot.CameraPath != "" {
		camera = vision.FileCamera{Path: cfg.Robot.CameraPath}
	}
	var recognizer corevision.Recognizer
	if cfg.Vision.BaseURL != "" {
		recognizer, err = vision.NewHTTPRecognizer(cfg.Vision)
		if err != nil {
			return nil, fmt.Errorf("recognizer client: %w", err)
		}
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics.Influx))
	}
	var sink coremetrics.Sink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	initialMode, err := model.ParseMode(cfg.Robot.InitialMode)
	if err != nil {
		return nil, fmt.Errorf("initial mode: %w", err)
	}

	bus := eventbus.New()
	core, err := robot.New(robot.Config{
		Operator:       operator,
		Controller:     controller,
		Planner:        plannerClient,
		Camera:         camera,
		Recognizer:     recognizer,
		Bus:            bus,
		Sink:           sink,
		Logger:         logger.New("robot"),
		InitialMode:    initialMode,
		AckTimeout:     time.Duration(cfg.Robot.AckTimeoutSeconds) * time.Second,
		PlannerTimeout: time.Duration(cfg.Planner.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("robot core: %w", err)
	}
	operator.SetHooks(core.OnOperatorConnected, core.OnOperatorDisconnected)

	return &Service{
		Core:        core,
		operator:    operator,
		controller:  controller,
		bus:         bus,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// Run connects the operator link, pumps both links into the core and blocks
// until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.operator.Connect(); err != nil {
		return fmt.Errorf("connect operator link: %w", err)
	}

	go func() {
		for {
			frame, err := s.operator.Recv()
			if err != nil {
				if !errors.Is(err, link.ErrLinkClosed) {
					s.log.Errorf("operator recv: %v", err)
				}
				return
			}
			s.Core.HandleOperatorFrame(frame)
		}
	}()

	go func() {
		for {
			frame, err := s.controller.Recv()
			if err != nil {
				select {
				case <-ctx.Done():
				default:
					s.log.Errorf("controller recv: %v", err)
				}
				return
			}
			s.Core.HandleControllerFrame(frame)
		}
	}()

	go s.traceEvents()

	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	<-ctx.Done()
	return nil
}

// traceEvents drains the event bus into the debug log. The subscription ends
// when Close shuts the bus down.
func (s *Service) traceEvents() {
	sub := s.bus.Subscribe()
	for e := range sub {
		switch ev := e.(type) {
		case events.CommandEvent:
			s.log.Debugw("command sent", map[string]any{"wire": ev.Wire, "mode": ev.Mode.String(), "manual": ev.Manual})
		case events.AckEvent:
			s.log.Debugw("ack received", map[string]any{"echoed": ev.Echoed, "matched": ev.Matched, "latency_ms": ev.Latency.Milliseconds()})
		case events.PlanEvent:
			s.log.Debugw("planning call", map[string]any{"source": ev.Source, "commands": ev.Commands, "failed": ev.Err != nil})
		case events.NotificationEvent:
			s.log.Debugw("notification", map[string]any{"event": ev.Event.String(), "beeps": ev.Beeps})
		}
	}
}

// Close releases the links and the event bus.
func (s *Service) Close() error {
	var first error
	if err := s.operator.Close(); err != nil {
		first = err
	}
	if err := s.controller.Close(); err != nil && first == nil {
		first = err
	}
	s.bus.Close()
	return first
}
