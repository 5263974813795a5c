package robot

// OperatorSender is the outbound half of the operator link. Implementations
// must be safe for concurrent use: the router and the telemetry relay both
// write, possibly from the dispatcher's advance path. Serialization happens
// at the transport adapter, not here.
type OperatorSender interface {
	Send(frame []byte) error
}

// ControllerSender is the outbound half of the controller link. The core is
// its single writer.
type ControllerSender interface {
	Send(wire string) error
}
