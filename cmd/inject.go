package cmd

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rover-control/rover/config"
	"github.com/rover-control/rover/core/protocol"
	"github.com/rover-control/rover/infra/logger"
)

var injectCmd = &cobra.Command{
	Use:   "inject [frame]",
	Short: "Publish a test operator frame to the rover's inbound topic",
	Long: `Publishes one raw operator frame on the configured broker, as the
operator application would. With no argument a mode query round-trip is
exercised by requesting path mode.`,
	Args: cobra.MaximumNArgs(1),
	RunE: inject,
}

func init() {
	rootCmd.AddCommand(injectCmd)
}

func inject(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("inject-command")

	frame := `{"cat":"` + protocol.CatMode + `","value":"path"}`
	if len(args) == 1 {
		frame = args[0]
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Operator.Broker).
		SetClientID("rover-inject-" + uuid.NewString()[:8])
	if cfg.Operator.Username != "" {
		opts.SetUsername(cfg.Operator.Username)
		opts.SetPassword(cfg.Operator.Password)
	}
	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect broker: %w", token.Error())
	}
	defer client.Disconnect(250)

	token := client.Publish(cfg.Operator.InboundTopic, cfg.Operator.QoS, false, frame)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timed out")
	}
	if token.Error() != nil {
		return fmt.Errorf("publish: %w", token.Error())
	}
	logg.Infof("injected frame on %s: %s", cfg.Operator.InboundTopic, frame)
	return nil
}
