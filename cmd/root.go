package cmd

import (
	"github.com/spf13/cobra"

	"keymon/internal/config"
	"keymon/internal/logger"
)

var (
	// Version is set during build
	Version = "0.1.0-dev"

	configPath string

	rootCmd = &cobra.Command{
		Use:   "keymon",
		Short: "Keymon - keyboard event monitor for Wayland",
		Long: `Keymon captures keyboard input from evdev devices and translates key
codes into the characters the active keyboard layout would produce. It
follows layout switches live through the compositor's IPC (Hyprland,
Sway and Niri are supported).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				config.SetConfigPath(configPath)
			}
			if err := config.Init(); err != nil {
				return err
			}
			if err := config.CreateDefaultIfMissing(); err != nil {
				logger.Debugf("Could not write default config: %v", err)
			}
			if level := config.Get().Logging.LogLevel; level != "" {
				logger.SetLevel(level)
			}
			return nil
		},
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	// Add commands
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(layoutsCmd)
}
