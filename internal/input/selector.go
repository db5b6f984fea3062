package input

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"keymon/internal/logger"
)

// SelectKeyboard presents an interactive selection for keyboard devices.
// A single discovered keyboard is used automatically.
func SelectKeyboard() (KeyboardDevice, error) {
	keyboards, err := DiscoverKeyboards()
	if err != nil {
		return KeyboardDevice{}, err
	}

	if len(keyboards) == 1 {
		logger.Infof("Auto-selected keyboard: %s", keyboards[0].Name)
		return keyboards[0], nil
	}

	options := make([]huh.Option[string], len(keyboards))
	for i, kb := range keyboards {
		options[i] = huh.NewOption(fmt.Sprintf("%s (%s)", kb.Name, kb.Path), kb.Path)
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Keyboard").
				Description("Choose the keyboard device to capture input from").
				Options(options...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return KeyboardDevice{}, fmt.Errorf("device selection cancelled: %w", err)
	}

	for _, kb := range keyboards {
		if kb.Path == selected {
			return kb, nil
		}
	}
	return KeyboardDevice{}, fmt.Errorf("selected device %s not found", selected)
}
