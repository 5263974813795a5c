package protocol

import (
	"testing"

	"github.com/rover-control/rover/core/model"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		wire string
		kind model.CommandKind
		ok   bool
	}{
		{"FW10", model.KindMove, true},
		{"BW05", model.KindMove, true},
		{"FS03", model.KindMove, true},
		{"BS01", model.KindMove, true},
		{"FL00", model.KindTurn, true},
		{"FR00", model.KindTurn, true},
		{"BL00", model.KindTurn, true},
		{"BR00", model.KindTurn, true},
		{"ZZ02", model.KindSignal, true},
		{"STOP", model.KindStop, true},
		{"FW--", model.KindIndefinite, true},
		{"BW--", model.KindIndefinite, true},
		{"TL--", model.KindIndefinite, true},
		{"TR--", model.KindIndefinite, true},
		{"FWXY", 0, false},
		{"fw10", 0, false},
		{"FW1", 0, false},
		{"FW100", 0, false},
		{"", 0, false},
		{"GO10", 0, false},
	}
	for _, c := range cases {
		cmd, err := ParseCommand(c.wire)
		if c.ok && err != nil {
			t.Errorf("ParseCommand(%q) unexpected error: %v", c.wire, err)
			continue
		}
		if !c.ok {
			if err == nil {
				t.Errorf("ParseCommand(%q) expected error", c.wire)
			}
			continue
		}
		if cmd.Kind != c.kind {
			t.Errorf("ParseCommand(%q) kind = %v, want %v", c.wire, cmd.Kind, c.kind)
		}
		if cmd.Wire != c.wire {
			t.Errorf("ParseCommand(%q) wire = %q", c.wire, cmd.Wire)
		}
	}
}

func TestParsePlanAllOrNothing(t *testing.T) {
	cmds, err := ParsePlan([]string{"FW10", "FR00", "FW05"})
	if err != nil {
		t.Fatalf("ParsePlan: %v", err)
	}
	if len(cmds) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(cmds))
	}

	if _, err := ParsePlan([]string{"FW10", "NOPE", "FW05"}); err == nil {
		t.Fatalf("expected error on malformed entry")
	}
}

func TestParseAck(t *testing.T) {
	echoed, ok := ParseAck("ACK|FW10")
	if !ok || echoed != "FW10" {
		t.Fatalf("ParseAck = %q, %v", echoed, ok)
	}
	if _, ok := ParseAck("FW10"); ok {
		t.Fatalf("frame without prefix should not parse")
	}
	if echoed, ok := ParseAck("ACK|"); !ok || echoed != "" {
		t.Fatalf("empty echo should parse as empty string")
	}
}
