package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"keymon/internal/input"
)

var (
	devicesSelect bool

	devicesCmd = &cobra.Command{
		Use:   "devices",
		Short: "List detected keyboard devices",
		RunE:  runDevices,
	}
)

func init() {
	devicesCmd.Flags().BoolVarP(&devicesSelect, "select", "s", false, "interactively pick a keyboard")
}

func runDevices(cmd *cobra.Command, args []string) error {
	if devicesSelect {
		keyboard, err := input.SelectKeyboard()
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", keyboard.Path, keyboard.Name)
		return nil
	}

	keyboards, err := input.DiscoverKeyboards()
	if err != nil {
		return err
	}

	for _, kb := range keyboards {
		fmt.Printf("%s\t%s\n", kb.Path, kb.Name)
	}
	return nil
}
