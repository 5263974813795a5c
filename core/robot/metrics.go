package robot

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	commandsSent           *prometheus.CounterVec
	acksReceived           *prometheus.CounterVec
	ackLatency             prometheus.Histogram
	messagesRouted         *prometheus.CounterVec
	planningCalls          *prometheus.CounterVec
	modeSwitches           *prometheus.CounterVec
	notificationsFired     *prometheus.CounterVec
	plansLoaded            prometheus.Counter
	ackTimeouts            prometheus.Counter
	controllerSendFailures prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.CounterVec, prometheus.Histogram, *prometheus.CounterVec, *prometheus.CounterVec, *prometheus.CounterVec, *prometheus.CounterVec, prometheus.Counter, prometheus.Counter, prometheus.Counter) {
	cmds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "controller_commands_sent_total",
		Help: "Number of commands written to the controller link",
	}, []string{"mode"})
	acks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "controller_acks_total",
		Help: "Controller acknowledgments by outcome",
	}, []string{"result"})
	lat := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "controller_ack_latency_seconds",
		Help:    "Latency from command send to matching acknowledgment",
		Buckets: prometheus.DefBuckets,
	})
	msgs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "operator_messages_total",
		Help: "Inbound operator messages by category",
	}, []string{"category"})
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planning_calls_total",
		Help: "External planning calls by source and outcome",
	}, []string{"source", "outcome"})
	modes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mode_switches_total",
		Help: "Successful mode switches by target mode",
	}, []string{"mode"})
	notifs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_fired_total",
		Help: "Buzzer notifications by event",
	}, []string{"event"})
	loaded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plans_loaded_total",
		Help: "Number of command plans loaded into the dispatcher",
	})
	timeouts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ack_timeouts_total",
		Help: "Number of acknowledgment watchdog expiries",
	})
	sendFail := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "controller_send_failures_total",
		Help: "Number of failed controller link writes",
	})
	return cmds, acks, lat, msgs, plans, modes, notifs, loaded, timeouts, sendFail
}

func init() {
	commandsSent, acksReceived, ackLatency, messagesRouted, planningCalls, modeSwitches, notificationsFired, plansLoaded, ackTimeouts, controllerSendFailures = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers the core metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(commandsSent, acksReceived, ackLatency, messagesRouted,
		planningCalls, modeSwitches, notificationsFired, plansLoaded,
		ackTimeouts, controllerSendFailures)
}

// ResetMetrics reinitializes the collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	commandsSent, acksReceived, ackLatency, messagesRouted, planningCalls, modeSwitches, notificationsFired, plansLoaded, ackTimeouts, controllerSendFailures = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
