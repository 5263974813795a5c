package robot

import (
	"fmt"
	"sync"
	"time"

	"github.com/rover-control/rover/core/events"
	"github.com/rover-control/rover/core/logger"
	"github.com/rover-control/rover/core/metrics"
	"github.com/rover-control/rover/core/model"
	"github.com/rover-control/rover/core/planner"
	"github.com/rover-control/rover/core/protocol"
	"github.com/rover-control/rover/core/vision"
	"github.com/rover-control/rover/internal/eventbus"
)

// Config assembles the collaborators of the coordination core.
type Config struct {
	Operator   OperatorSender
	Controller ControllerSender
	Planner    planner.Planner
	Camera     vision.Camera
	Recognizer vision.Recognizer
	Bus        eventbus.EventBus
	Sink       metrics.Sink
	Logger     logger.Logger

	// InitialMode is the operating mode at startup. The source protocol
	// does not pin it down, so it is configurable; the zero value is
	// Manual.
	InitialMode model.RobotMode

	// AckTimeout bounds the wait for a controller acknowledgment. Zero
	// means wait forever. On expiry the core warns the operator but does
	// not advance or abort the plan.
	AckTimeout time.Duration

	// PlannerTimeout bounds each external planning call.
	PlannerTimeout time.Duration
}

// Core is the single owner of the robot's mode and dispatch state. All
// mutations are serialized behind one mutex; no external call is made while
// it is held. Planning and recognition calls run as independent tasks whose
// results are re-submitted into the serialized region.
type Core struct {
	mu sync.Mutex

	mode  model.RobotMode
	phase model.DispatchPhase

	plan        model.CommandPlan
	outstanding *model.Command
	sentAt      time.Time
	ackSeq      uint64

	// manualActive is set while an indefinite manual movement is running;
	// STOP is the only terminator.
	manualActive bool

	// planning is set while an external planning call is in flight. epoch
	// invalidates in-flight results on mode switch or abort.
	planning bool
	epoch    uint64

	pose        model.Pose
	waypointIdx int

	ops        OperatorSender
	ctrl       ControllerSender
	planner    planner.Planner
	camera     vision.Camera
	recognizer vision.Recognizer
	bus        eventbus.EventBus
	sink       metrics.Sink
	log        logger.Logger

	ackTimeout     time.Duration
	plannerTimeout time.Duration
}

// nopLogger keeps the core free of nil checks around logging.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

// New creates the coordination core.
func New(cfg Config) (*Core, error) {
	if cfg.Operator == nil || cfg.Controller == nil || cfg.Planner == nil {
		return nil, fmt.Errorf("robot: nil operator, controller or planner")
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}
	if cfg.Sink == nil {
		cfg.Sink = metrics.NopSink{}
	}
	if cfg.PlannerTimeout <= 0 {
		cfg.PlannerTimeout = 30 * time.Second
	}
	return &Core{
		mode:           cfg.InitialMode,
		phase:          model.PhaseIdle,
		ops:            cfg.Operator,
		ctrl:           cfg.Controller,
		planner:        cfg.Planner,
		camera:         cfg.Camera,
		recognizer:     cfg.Recognizer,
		bus:            cfg.Bus,
		sink:           cfg.Sink,
		log:            cfg.Logger,
		ackTimeout:     cfg.AckTimeout,
		plannerTimeout: cfg.PlannerTimeout,
	}, nil
}

// Pose returns the robot's last known pose.
func (c *Core) Pose() model.Pose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pose
}

// SetPose overrides the robot's pose, e.g. from an initial arena placement.
func (c *Core) SetPose(p model.Pose) {
	c.mu.Lock()
	c.pose = p
	c.mu.Unlock()
}

// Phase returns the dispatcher's current phase.
func (c *Core) Phase() model.DispatchPhase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// sendToOperator encodes and transmits one outbound message. Link failures
// are logged, never fatal.
func (c *Core) sendToOperator(msg protocol.Outbound) {
	frame, err := msg.Encode()
	if err != nil {
		c.log.Errorf("encode %s message: %v", msg.Cat, err)
		return
	}
	if err := c.ops.Send(frame); err != nil {
		c.log.Errorf("send %s message to operator: %v", msg.Cat, err)
	}
}

// sendError reports a recovered failure to the operator.
func (c *Core) sendError(text string) {
	c.sendToOperator(protocol.NewError(text))
}

// publish emits an event on the bus if one is configured.
func (c *Core) publish(e eventbus.Event) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}

// writeController sends one wire command down the controller link and
// records it. Callers hold the core mutex; the send itself is the single
// writer of the controller channel so no further serialization is needed.
func (c *Core) writeController(cmd model.Command, manual bool) error {
	if err := c.ctrl.Send(cmd.Wire); err != nil {
		controllerSendFailures.Inc()
		return err
	}
	commandsSent.WithLabelValues(c.mode.String()).Inc()
	now := time.Now()
	c.publish(events.CommandEvent{Wire: cmd.Wire, Mode: c.mode, Manual: manual, Time: now})
	if err := c.sink.RecordCommand(metrics.CommandRecord{Wire: cmd.Wire, Mode: c.mode, Manual: manual, Time: now}); err != nil {
		c.log.Errorf("metrics error: %v", err)
	}
	return nil
}

// notify fires a buzzer notification, fire-and-forget: the signal command
// is written to the controller without ack bookkeeping.
func (c *Core) notify(ev model.NotificationEvent) {
	cmd, err := model.NewSignalCommand(ev.Beeps())
	if err != nil {
		c.log.Errorf("notification %s: %v", ev, err)
		return
	}
	if err := c.ctrl.Send(cmd.Wire); err != nil {
		c.log.Errorf("buzzer signal %s: %v", ev, err)
		return
	}
	notificationsFired.WithLabelValues(ev.String()).Inc()
	c.publish(events.NotificationEvent{Event: ev, Beeps: ev.Beeps(), Time: time.Now()})
	c.log.Debugf("notification %s (%d beeps)", ev, ev.Beeps())
}
