package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/smartklingel/klingel/pubsub"
	"github.com/smartklingel/klingel/services"
	"github.com/smartklingel/klingel/util"
)

// connectBroker sets up the Publisher and Subscriber for talking to a running
// klingel over mqtt.
func connectBroker() error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	if conf.Mqtt.Broker == "" {
		return errors.New("needs an mqtt broker")
	}
	services.Config = conf
	return services.SetupBroker()
}

// printEvent writes one line per event. Heartbeats show the uptime, the rest
// their json.
func printEvent(w io.Writer, ev *pubsub.Event) {
	ts := ev.Timestamp.Local().Format("15:04:05")
	if ev.Topic == "heartbeat" {
		uptime := time.Duration(ev.IntField("uptime")) * time.Second
		fmt.Fprintf(w, "%s %s up %s\n", ts, color.CyanString(ev.Topic), util.ShortDuration(uptime))
		return
	}
	fmt.Fprintf(w, "%s %s %s\n", ts, color.CyanString(ev.Topic), ev.String())
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print events from a running klingel",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connectBroker(); err != nil {
			return err
		}
		for ev := range services.Subscriber.Subscribe(pubsub.All()) {
			printEvent(os.Stdout, ev)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running kiosk's screen and theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connectBroker(); err != nil {
			return err
		}
		answer, err := services.RPC("kiosk/status", queryTimeout)
		if err != nil {
			return errors.Wrap(err, "kiosk/status")
		}
		fmt.Println(answer)
		return nil
	},
}

func init() {
	statusCmd.Flags().DurationVarP(&queryTimeout, "timeout", "t", 2*time.Second, "time to wait for an answer")
	rootCmd.AddCommand(watchCmd, statusCmd)
}
