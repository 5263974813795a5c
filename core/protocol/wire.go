package protocol

import (
	"fmt"
	"strings"

	"github.com/rover-control/rover/core/model"
)

// Controller wire commands are fixed 4-character codes. The first two
// characters select the motion primitive, the last two carry a distance in
// grid units, a turn-radius selector, or "--" for indefinite motion.
const (
	WireStop = "STOP"

	// Manual (indefinite) movement codes.
	WireManualForward  = "FW--"
	WireManualBackward = "BW--"
	WireManualLeft     = "TL--"
	WireManualRight    = "TR--"
)

// AckPrefix precedes the echoed command in controller acknowledgment frames.
const AckPrefix = "ACK|"

var indefiniteCodes = map[string]bool{
	WireManualForward:  true,
	WireManualBackward: true,
	WireManualLeft:     true,
	WireManualRight:    true,
}

var movePrefixes = map[string]bool{"FW": true, "BW": true, "FS": true, "BS": true}
var turnPrefixes = map[string]bool{"FL": true, "FR": true, "BL": true, "BR": true}

// ParseCommand decodes a controller wire string into a Command. Unknown
// codes are rejected so a malformed planner response never reaches the
// controller.
func ParseCommand(wire string) (model.Command, error) {
	if wire == WireStop {
		return model.Command{Wire: wire, Kind: model.KindStop}, nil
	}
	if len(wire) != 4 {
		return model.Command{}, fmt.Errorf("wire command %q is not 4 characters", wire)
	}
	if indefiniteCodes[wire] {
		return model.Command{Wire: wire, Kind: model.KindIndefinite}, nil
	}
	prefix, arg := wire[:2], wire[2:]
	switch {
	case prefix == "ZZ" && isDigits(arg):
		return model.Command{Wire: wire, Kind: model.KindSignal}, nil
	case movePrefixes[prefix] && isDigits(arg):
		return model.Command{Wire: wire, Kind: model.KindMove}, nil
	case turnPrefixes[prefix] && isDigits(arg):
		return model.Command{Wire: wire, Kind: model.KindTurn}, nil
	}
	return model.Command{}, fmt.Errorf("unknown wire command %q", wire)
}

// ParsePlan decodes a planner command list, failing on the first unknown
// code so a plan is either fully valid or not loaded at all.
func ParsePlan(wires []string) ([]model.Command, error) {
	cmds := make([]model.Command, 0, len(wires))
	for _, w := range wires {
		c, err := ParseCommand(w)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

// ParseAck extracts the echoed command from a controller frame. It returns
// ok=false for frames that are not acknowledgments.
func ParseAck(frame string) (echoed string, ok bool) {
	frame = strings.TrimSpace(frame)
	if !strings.HasPrefix(frame, AckPrefix) {
		return "", false
	}
	return frame[len(AckPrefix):], true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
