// Command klingel runs the doorbell and administers it from the shell.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smartklingel/klingel/config"
	"github.com/smartklingel/klingel/services"
	"github.com/smartklingel/klingel/services/bridge"
	"github.com/smartklingel/klingel/services/console"
	"github.com/smartklingel/klingel/services/keypad"
	"github.com/smartklingel/klingel/services/kiosk"
)

var configFile string

var defaultServices = []string{"kiosk", "console", "bridge"}

func registerServices() {
	services.Register(&kiosk.Service{})
	services.Register(&console.Service{})
	services.Register(&bridge.Service{})
	services.Register(&keypad.Service{})
}

// loadConfig reads --config, or the default file when present.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.Open(configFile)
	}
	filename := config.ConfigPath("klingel.yml")
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Open(filename)
}

// setup loads config and the shared services.
func setup() error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	return services.Setup(conf)
}

var rootCmd = &cobra.Command{
	Use:   "klingel",
	Short: "Doorbell controller",
	Long: `Runs the doorbell kiosk, web console and mqtt bridge, and manages
access codes from the shell.

Examples:
  # Run the default services (kiosk console bridge)
  klingel run

  # Add an access code
  klingel codes add 1234 Anna`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run [services...]",
	Short: "Run services",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = defaultServices
		}
		if err := setup(); err != nil {
			return err
		}
		registerServices()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigs
			log.Println("Received", sig)
			services.Shutdown()
			os.Exit(0)
		}()

		err := services.Launch(args)
		services.Shutdown()
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default $XDG_CONFIG_HOME/klingel/klingel.yml)")
	rootCmd.AddCommand(runCmd)
}

func main() {
	services.SetupLogging()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
