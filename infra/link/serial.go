package link

import (
	"bufio"
	"fmt"
	"strings"
	"sync"

	"go.bug.st/serial"

	"github.com/rover-control/rover/infra/logger"
)

// SerialConfig defines the controller serial connection.
type SerialConfig struct {
	Port string `json:"port"`
	Baud int    `json:"baud"`
}

// SetDefaults applies the controller board defaults.
func (c *SerialConfig) SetDefaults() {
	if c.Port == "" {
		c.Port = "/dev/ttyUSB0"
	}
	if c.Baud == 0 {
		c.Baud = 115200
	}
}

// SerialControllerLink carries wire commands and acknowledgments over the
// controller's serial port, one line per frame.
type SerialControllerLink struct {
	port serial.Port
	rd   *bufio.Reader
	wmu  sync.Mutex
	log  logger.Logger
}

// OpenSerialControllerLink opens the configured serial port.
func OpenSerialControllerLink(cfg SerialConfig) (*SerialControllerLink, error) {
	cfg.SetDefaults()
	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.Baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Port, err)
	}
	return &SerialControllerLink{
		port: port,
		rd:   bufio.NewReader(port),
		log:  logger.New("controller_link"),
	}, nil
}

// Send writes one wire command, newline-terminated. Writes are serialized
// here so notification signals and motion commands never interleave on the
// wire.
func (l *SerialControllerLink) Send(wire string) error {
	l.wmu.Lock()
	defer l.wmu.Unlock()
	if _, err := l.port.Write([]byte(wire + "\n")); err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	l.log.Debugf("sent to controller: %s", wire)
	return nil
}

// Recv blocks until the next newline-terminated controller frame.
func (l *SerialControllerLink) Recv() (string, error) {
	line, err := l.rd.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("serial read: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Close closes the serial port.
func (l *SerialControllerLink) Close() error {
	return l.port.Close()
}
