package robot

import (
	"errors"
	"testing"

	"github.com/rover-control/rover/core/model"
	"github.com/rover-control/rover/core/protocol"
)

func TestSetModeSwitches(t *testing.T) {
	rig := newTestRig(t, model.ModeManual)
	if err := rig.core.SetMode(model.ModePath); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if rig.core.Mode() != model.ModePath {
		t.Fatalf("mode = %v", rig.core.Mode())
	}

	// One buzz, then the mode echo and the confirmation text.
	if got := rig.ctrl.sent(); len(got) != 1 || got[0] != "ZZ01" {
		t.Fatalf("controller traffic = %v", got)
	}
	modes := rig.ops.byCat(protocol.CatMode)
	if len(modes) != 1 || modes[0].text() != "path" {
		t.Fatalf("mode messages = %v", modes)
	}
	infos := rig.ops.byCat(protocol.CatInfo)
	if len(infos) != 1 || infos[0].text() != "Robot is now in path mode." {
		t.Fatalf("info messages = %v", infos)
	}
}

func TestSetModeConflict(t *testing.T) {
	rig := newTestRig(t, model.ModeManual)
	err := rig.core.SetMode(model.ModeManual)
	if !errors.Is(err, ErrModeConflict) {
		t.Fatalf("SetMode = %v, want ErrModeConflict", err)
	}
	if rig.core.Mode() != model.ModeManual {
		t.Fatalf("mode mutated on conflict")
	}
	errs := rig.ops.byCat(protocol.CatError)
	if len(errs) != 1 || errs[0].text() != "Robot already in manual mode" {
		t.Fatalf("error messages = %v", errs)
	}
	if got := rig.ctrl.sent(); len(got) != 0 {
		t.Fatalf("conflict buzzed: %v", got)
	}
}

func TestSetModeBusy(t *testing.T) {
	rig := newTestRig(t, model.ModePath)
	if err := rig.core.Load(testPlan(t, nil, "FW10", "FR00")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := rig.core.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	err := rig.core.SetMode(model.ModeManual)
	if !errors.Is(err, ErrModeSwitchBusy) {
		t.Fatalf("SetMode = %v, want ErrModeSwitchBusy", err)
	}
	if rig.core.Mode() != model.ModePath {
		t.Fatalf("mode mutated while busy")
	}
	errs := rig.ops.byCat(protocol.CatError)
	if len(errs) != 1 || errs[0].text() != "Robot is still executing commands, cannot switch mode." {
		t.Fatalf("error messages = %v", errs)
	}

	// The in-flight command is unaffected.
	rig.core.HandleControllerFrame("ACK|FW10")
	if got := rig.ctrl.sent(); got[len(got)-1] != "FR00" {
		t.Fatalf("dispatch disturbed by rejected switch: %v", got)
	}
}

func TestSetModeRejectedWithLoadedPlan(t *testing.T) {
	rig := newTestRig(t, model.ModePath)
	if err := rig.core.Load(testPlan(t, nil, "FW10", "FR00")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	// A loaded plan counts as busy even before Start.
	if err := rig.core.SetMode(model.ModeManual); !errors.Is(err, ErrModeSwitchBusy) {
		t.Fatalf("SetMode with loaded plan = %v, want ErrModeSwitchBusy", err)
	}
}

func TestSetModeWhileManualActive(t *testing.T) {
	rig := newTestRig(t, model.ModeManual)
	fw := model.Command{Wire: protocol.WireManualForward, Kind: model.KindIndefinite}
	if err := rig.core.SendManual(fw); err != nil {
		t.Fatalf("SendManual: %v", err)
	}
	if err := rig.core.SetMode(model.ModePath); !errors.Is(err, ErrModeSwitchBusy) {
		t.Fatalf("SetMode during indefinite movement = %v, want ErrModeSwitchBusy", err)
	}

	stop := model.Command{Wire: protocol.WireStop, Kind: model.KindStop}
	if err := rig.core.SendManual(stop); err != nil {
		t.Fatalf("SendManual stop: %v", err)
	}
	if err := rig.core.SetMode(model.ModePath); err != nil {
		t.Fatalf("SetMode after stop: %v", err)
	}
}

func TestGuardTable(t *testing.T) {
	cases := []struct {
		mode     model.RobotMode
		category string
		allowed  bool
		reply    string
	}{
		{model.ModeManual, protocol.CatObstacles, false, "Robot must be in Path mode to set obstacles."},
		{model.ModeManual, protocol.CatSingleObstacle, false, "Robot must be in Path mode to set an obstacle."},
		{model.ModeManual, protocol.CatControl, false, "Robot must be in Path mode to start."},
		{model.ModeManual, protocol.CatManual, true, ""},
		{model.ModePath, protocol.CatObstacles, true, ""},
		{model.ModePath, protocol.CatSingleObstacle, true, ""},
		{model.ModePath, protocol.CatControl, true, ""},
		{model.ModePath, protocol.CatManual, false, "Robot must be in Manual mode to send manual commands."},
		{model.ModeManual, protocol.CatMode, true, ""},
		{model.ModePath, protocol.CatMode, true, ""},
	}
	for _, c := range cases {
		rig := newTestRig(t, c.mode)
		ok, reply := rig.core.guard(c.category)
		if ok != c.allowed {
			t.Errorf("guard(%s, %s) = %v, want %v", c.mode, c.category, ok, c.allowed)
		}
		if !ok && reply != c.reply {
			t.Errorf("guard(%s, %s) reply = %q, want %q", c.mode, c.category, reply, c.reply)
		}
	}
}
