// Package link defines the transport ports the coordination core talks
// through. Implementations live under infra and are free to frame, retry
// and reconnect however their medium requires; the core only sees opaque
// frames.
package link

// OperatorLink is the bidirectional channel to the remote operator
// application. Send must be safe for concurrent use: the router and the
// telemetry relay both write to it, possibly from the dispatcher's advance
// path.
type OperatorLink interface {
	// Send transmits one encoded operator message.
	Send(frame []byte) error
	// Recv blocks until the next inbound operator frame arrives. It
	// returns an error once the link is closed.
	Recv() ([]byte, error)
	Close() error
}

// ControllerLink is the command/acknowledgment channel to the motion
// controller. The coordination core is its single writer.
type ControllerLink interface {
	// Send transmits one wire command.
	Send(wire string) error
	// Recv blocks until the next controller frame (normally an ack).
	Recv() (string, error)
	Close() error
}
