package robot

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rover-control/rover/core/model"
	"github.com/rover-control/rover/core/planner"
	"github.com/rover-control/rover/core/vision"
)

// operatorMsg is a decoded outbound frame captured by the fake operator link.
type operatorMsg struct {
	Cat   string          `json:"cat"`
	Value json.RawMessage `json:"value"`
}

func (m operatorMsg) text() string {
	var s string
	_ = json.Unmarshal(m.Value, &s)
	return s
}

type fakeOperator struct {
	mu   sync.Mutex
	msgs []operatorMsg
	err  error
}

func (f *fakeOperator) Send(frame []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	var m operatorMsg
	if err := json.Unmarshal(frame, &m); err != nil {
		return err
	}
	f.msgs = append(f.msgs, m)
	return nil
}

func (f *fakeOperator) all() []operatorMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]operatorMsg, len(f.msgs))
	copy(out, f.msgs)
	return out
}

// byCat returns the captured messages of one category, in order.
func (f *fakeOperator) byCat(cat string) []operatorMsg {
	var out []operatorMsg
	for _, m := range f.all() {
		if m.Cat == cat {
			out = append(out, m)
		}
	}
	return out
}

type fakeController struct {
	mu    sync.Mutex
	wires []string
	err   error
}

func (f *fakeController) Send(wire string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.wires = append(f.wires, wire)
	return nil
}

func (f *fakeController) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.wires))
	copy(out, f.wires)
	return out
}

type fakePlanner struct {
	mu      sync.Mutex
	result  planner.Result
	err     error
	taskErr error
	tasks   []string
	calls   int

	// release, when non-nil, holds planning calls open until closed.
	release chan struct{}
}

func (f *fakePlanner) plan(ctx context.Context) (planner.Result, error) {
	f.mu.Lock()
	f.calls++
	release := f.release
	res, err := f.result, f.err
	f.mu.Unlock()
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return planner.Result{}, ctx.Err()
		}
	}
	return res, err
}

func (f *fakePlanner) PlanPath(ctx context.Context, _ []model.Obstacle, _ model.TurningMode) (planner.Result, error) {
	return f.plan(ctx)
}

func (f *fakePlanner) PlanSingleObstacle(ctx context.Context, _ model.Pose, _ model.Obstacle) (planner.Result, error) {
	return f.plan(ctx)
}

func (f *fakePlanner) StartTask(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, name)
	return f.taskErr
}

type fakeCamera struct {
	frame []byte
	err   error
}

func (f *fakeCamera) Capture(context.Context) ([]byte, error) { return f.frame, f.err }

type fakeRecognizer struct {
	result vision.Result
	err    error
}

func (f *fakeRecognizer) Recognize(context.Context, []byte) (vision.Result, error) {
	return f.result, f.err
}

type testRig struct {
	core *Core
	ops  *fakeOperator
	ctrl *fakeController
	pln  *fakePlanner
}

func newTestRig(t *testing.T, mode model.RobotMode) *testRig {
	t.Helper()
	ops := &fakeOperator{}
	ctrl := &fakeController{}
	pln := &fakePlanner{}
	core, err := New(Config{
		Operator:    ops,
		Controller:  ctrl,
		Planner:     pln,
		InitialMode: mode,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &testRig{core: core, ops: ops, ctrl: ctrl, pln: pln}
}

// waitFor polls until cond holds or the deadline passes. Asynchronous paths
// (planning, snapshot) complete on their own goroutines.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

// plan builds a CommandPlan from wire strings, with optional waypoints.
func testPlan(t *testing.T, waypoints []model.Pose, wires ...string) model.CommandPlan {
	t.Helper()
	cmds := make([]model.Command, 0, len(wires))
	for _, w := range wires {
		cmds = append(cmds, model.Command{Wire: w, Kind: model.KindMove})
	}
	return model.CommandPlan{Commands: cmds, Waypoints: waypoints}
}
