package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/smartklingel/klingel/eventlog"
	"github.com/smartklingel/klingel/hours"
	"github.com/smartklingel/klingel/pubsub"
	"github.com/smartklingel/klingel/services"
	"github.com/smartklingel/klingel/util"
)

var logLines int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the newest event log entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig()
		if err != nil {
			return err
		}
		lines := eventlog.New(conf.General.Log, "", nil).Tail(logLines)
		if len(lines) == 0 {
			fmt.Println("No log available")
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	},
}

// printHours writes the schedule and whether it is open at now.
func printHours(w io.Writer, schedule hours.Schedule, now time.Time) {
	fmt.Fprintln(w, schedule.String())
	state := color.New(color.FgRed, color.Bold).Sprint("CLOSED")
	if schedule.IsOpen(now) {
		state = color.New(color.FgGreen, color.Bold).Sprint("OPEN")
	}
	next := schedule.NextChange(now)
	if next.IsZero() {
		fmt.Fprintln(w, state)
		return
	}
	verb := "opens"
	if schedule.IsOpen(now) {
		verb = "closes"
	}
	fmt.Fprintf(w, "%s, %s in %s\n", state, verb, util.FriendlyDuration(next.Sub(now)))
}

var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Show opening hours",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig()
		if err != nil {
			return err
		}
		printHours(os.Stdout, conf.Schedule, time.Now())
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the door",
	Long: `Opens the door. With an mqtt broker configured the running bridge
service is asked to open it, otherwise the relay is pulsed directly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return err
		}
		defer services.Shutdown()
		if services.Config.Mqtt.Broker != "" {
			ev := pubsub.NewCommand("door", "open")
			ev.SetField("source", "cli")
			services.Publisher.Emit(ev)
			fmt.Println("Sent open command")
			return nil
		}
		services.Log.Record("Command line opening")
		services.Door.Open("cli", os.Getenv("USER"))
		fmt.Println("Door opened")
		return nil
	},
}

var queryTimeout time.Duration

var queryCmd = &cobra.Command{
	Use:   "query QUERY [ARGS...]",
	Short: "Query running services, e.g. kiosk/status",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connectBroker(); err != nil {
			return err
		}
		q := args[0]
		for _, arg := range args[1:] {
			q += " " + arg
		}
		n := 0
		for ev := range services.QueryChannel(q, queryTimeout) {
			fmt.Printf("%s %s\n", color.GreenString(ev.Source()), ev.StringField("message"))
			n++
		}
		if n == 0 {
			fmt.Println("No response")
		}
		return nil
	},
}

func init() {
	logCmd.Flags().IntVarP(&logLines, "lines", "n", 15, "number of entries")
	queryCmd.Flags().DurationVarP(&queryTimeout, "timeout", "t", 2*time.Second, "time to wait for answers")
	rootCmd.AddCommand(logCmd, hoursCmd, openCmd, queryCmd)
}
