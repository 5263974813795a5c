// Package robot implements the coordination core of the rover: the mode
// state machine, the acknowledgment-gated command dispatcher, the operator
// message router, the planner gateway and the telemetry relay.
//
// Mode and dispatch state have a single logical owner. Every mutation goes
// through one mutex, and no external call that can block for long is made
// while it is held: planning and recognition calls run as independent
// goroutines whose results re-enter the serialized region. The controller
// link has exactly one writer (this package), so commands leave in plan
// order, strictly one at a time, gated on the controller echoing each
// command back as ACK|<command>.
package robot
