package model

// NotificationEvent identifies a condition the rover signals on its buzzer.
type NotificationEvent int

const (
	// NotifyModeChanged fires after a successful mode switch.
	NotifyModeChanged NotificationEvent = iota
	// NotifyPathFinished fires when the last planned command is acked.
	NotifyPathFinished
	// NotifyDeviceConnected fires when the operator link comes up.
	NotifyDeviceConnected
	// NotifyDeviceDisconnected fires when the operator link drops.
	NotifyDeviceDisconnected
	// NotifyAPIDown fires when an external service call fails.
	NotifyAPIDown
)

var beepCounts = map[NotificationEvent]int{
	NotifyModeChanged:        1,
	NotifyPathFinished:       1,
	NotifyDeviceConnected:    2,
	NotifyDeviceDisconnected: 3,
	NotifyAPIDown:            4,
}

// Beeps returns the fixed buzzer count for the event.
func (e NotificationEvent) Beeps() int { return beepCounts[e] }

// String returns an event name for logs.
func (e NotificationEvent) String() string {
	switch e {
	case NotifyModeChanged:
		return "mode_changed"
	case NotifyPathFinished:
		return "path_finished"
	case NotifyDeviceConnected:
		return "device_connected"
	case NotifyDeviceDisconnected:
		return "device_disconnected"
	case NotifyAPIDown:
		return "api_down"
	default:
		return "unknown"
	}
}
