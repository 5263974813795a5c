package link

import (
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/rover-control/rover/infra/logger"
)

// MQTTConfig defines the connection parameters for the operator link. The
// operator application and the rover meet on a broker: the rover subscribes
// to the inbound topic and publishes on the outbound one.
type MQTTConfig struct {
	Broker        string `json:"broker"`
	ClientID      string `json:"client_id"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	InboundTopic  string `json:"inbound_topic"`
	OutboundTopic string `json:"outbound_topic"`
	QoS           byte   `json:"qos"`
}

// SetDefaults applies topic defaults.
func (c *MQTTConfig) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "rover"
	}
	if c.InboundTopic == "" {
		c.InboundTopic = "rover/operator/in"
	}
	if c.OutboundTopic == "" {
		c.OutboundTopic = "rover/operator/out"
	}
}

// Validate checks mandatory fields.
func (c MQTTConfig) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("operator link: broker is required")
	}
	return nil
}

// pahoClient is the subset of the Paho client the link uses; a seam for
// tests.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// ErrLinkClosed is returned by Recv once the link has been closed.
var ErrLinkClosed = errors.New("operator link closed")

// MQTTOperatorLink carries operator frames over an MQTT broker.
type MQTTOperatorLink struct {
	cli    pahoClient
	cfg    MQTTConfig
	in     chan []byte
	done   chan struct{}
	log    logger.Logger
	onUp   func()
	onDown func()
}

// NewMQTTOperatorLink builds the link without connecting, so connection
// hooks can be registered first.
func NewMQTTOperatorLink(cfg MQTTConfig) (*MQTTOperatorLink, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MQTTOperatorLink{
		cfg:  cfg,
		in:   make(chan []byte, 16),
		done: make(chan struct{}),
		log:  logger.New("operator_link"),
	}, nil
}

// SetHooks registers callbacks fired on (re)connect and on connection loss.
// Must be called before Connect.
func (l *MQTTOperatorLink) SetHooks(onUp, onDown func()) {
	l.onUp = onUp
	l.onDown = onDown
}

// Connect dials the broker and subscribes to the inbound topic. Paho
// auto-reconnects; each successful (re)connect re-subscribes and fires the
// onUp hook.
func (l *MQTTOperatorLink) Connect() error {
	opts := paho.NewClientOptions().AddBroker(l.cfg.Broker).SetClientID(l.cfg.ClientID)
	opts.AutoReconnect = true
	if l.cfg.Username != "" {
		opts.SetUsername(l.cfg.Username)
	}
	if l.cfg.Password != "" {
		opts.SetPassword(l.cfg.Password)
	}
	opts.OnConnect = func(c paho.Client) {
		l.log.Infof("operator link connected")
		if token := c.Subscribe(l.cfg.InboundTopic, l.cfg.QoS, l.onMessage); token.Wait() && token.Error() != nil {
			l.log.Errorf("subscribe error: %v", token.Error())
			return
		}
		if l.onUp != nil {
			l.onUp()
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		l.log.Errorf("operator link lost: %v", err)
		if l.onDown != nil {
			l.onDown()
		}
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		l.log.Warnf("reconnecting to broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	l.cli = c
	return nil
}

func (l *MQTTOperatorLink) onMessage(_ paho.Client, msg paho.Message) {
	payload := append([]byte(nil), msg.Payload()...)
	select {
	case l.in <- payload:
	case <-l.done:
	}
}

// Send publishes one outbound frame. Safe for concurrent use; Paho
// serializes publishes internally.
func (l *MQTTOperatorLink) Send(frame []byte) error {
	if l.cli == nil || !l.cli.IsConnected() {
		return fmt.Errorf("operator link not connected")
	}
	token := l.cli.Publish(l.cfg.OutboundTopic, l.cfg.QoS, false, frame)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timed out")
	}
	return token.Error()
}

// Recv blocks until the next inbound operator frame.
func (l *MQTTOperatorLink) Recv() ([]byte, error) {
	select {
	case frame := <-l.in:
		return frame, nil
	case <-l.done:
		return nil, ErrLinkClosed
	}
}

// Close disconnects from the broker and unblocks Recv.
func (l *MQTTOperatorLink) Close() error {
	close(l.done)
	if l.cli != nil {
		l.cli.Disconnect(250)
	}
	return nil
}
