// Package link provides the transport adapters: the operator link over an
// MQTT broker and the controller link over a serial port.
package link

import corelink "github.com/rover-control/rover/core/link"

// Compile-time assertions that the adapters satisfy the core ports.
var (
	_ corelink.OperatorLink   = (*MQTTOperatorLink)(nil)
	_ corelink.ControllerLink = (*SerialControllerLink)(nil)
)
