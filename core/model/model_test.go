package model

import "testing"

func TestNewSignalCommand(t *testing.T) {
	cmd, err := NewSignalCommand(4)
	if err != nil {
		t.Fatalf("NewSignalCommand: %v", err)
	}
	if cmd.Wire != "ZZ04" || cmd.Kind != KindSignal {
		t.Fatalf("command = %+v", cmd)
	}
	for _, n := range []int{0, -1, 10} {
		if _, err := NewSignalCommand(n); err == nil {
			t.Errorf("beep count %d accepted", n)
		}
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("path"); err != nil || m != ModePath {
		t.Fatalf("ParseMode(path) = %v, %v", m, err)
	}
	if m, err := ParseMode("manual"); err != nil || m != ModeManual {
		t.Fatalf("ParseMode(manual) = %v, %v", m, err)
	}
	if _, err := ParseMode("turbo"); err == nil {
		t.Fatalf("ParseMode(turbo) accepted")
	}
}

func TestParseTurningMode(t *testing.T) {
	if m, err := ParseTurningMode("0"); err != nil || m != TurningIndoor {
		t.Fatalf("ParseTurningMode(0) = %v, %v", m, err)
	}
	if m, err := ParseTurningMode("1"); err != nil || m != TurningOutdoor {
		t.Fatalf("ParseTurningMode(1) = %v, %v", m, err)
	}
	if _, err := ParseTurningMode("2"); err == nil {
		t.Fatalf("ParseTurningMode(2) accepted")
	}
}

func TestNotificationBeeps(t *testing.T) {
	cases := []struct {
		ev    NotificationEvent
		beeps int
	}{
		{NotifyModeChanged, 1},
		{NotifyPathFinished, 1},
		{NotifyDeviceConnected, 2},
		{NotifyDeviceDisconnected, 3},
		{NotifyAPIDown, 4},
	}
	for _, c := range cases {
		if got := c.ev.Beeps(); got != c.beeps {
			t.Errorf("%s beeps = %d, want %d", c.ev, got, c.beeps)
		}
	}
}

func TestCommandPlan(t *testing.T) {
	var p CommandPlan
	if !p.Empty() || p.Len() != 0 {
		t.Fatalf("zero plan not empty")
	}
	p.Commands = []Command{{Wire: "FW10", Kind: KindMove}}
	if p.Empty() || p.Len() != 1 {
		t.Fatalf("plan = %+v", p)
	}
}
