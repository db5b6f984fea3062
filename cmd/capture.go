package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	evdev "github.com/holoplot/go-evdev"
	"github.com/spf13/cobra"

	"keymon/internal/compositor"
	"keymon/internal/config"
	"keymon/internal/input"
	"keymon/internal/logger"
	"keymon/internal/xkb"
)

var (
	captureAllKeyboards bool
	captureLayout       string

	captureCmd = &cobra.Command{
		Use:   "capture",
		Short: "Capture keyboard input and print translated keys",
		Long: `Capture reads key events from the selected keyboards and prints each
keystroke as the character the active layout produces. Layout switches
reported by the compositor take effect immediately.`,
		RunE: runCapture,
	}
)

func init() {
	captureCmd.Flags().BoolVarP(&captureAllKeyboards, "all", "a", false, "capture all keyboards regardless of config")
	captureCmd.Flags().StringVarP(&captureLayout, "layout", "l", "", "force a layout instead of querying the compositor")
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	manager := compositor.NewLayoutManager()
	defer manager.Close()

	layoutName := captureLayout
	if layoutName == "" && manager.SupportsLayoutQuery() {
		if err := manager.Init(); err == nil {
			layoutName = manager.CurrentLayoutName()
		}
	}
	if layoutName == "" {
		layoutName = cfg.Layout.Default
	}

	state, err := xkb.NewStateForLayout(layoutName)
	if err != nil {
		return fmt.Errorf("failed to initialize keymap: %w", err)
	}
	logger.Infof("Using keyboard layout: %s", state.LayoutName())

	events := make(chan input.KeyEvent, cfg.Capture.ChannelSize)

	listenerCfg := input.ListenerConfig{
		AllKeyboards: cfg.Capture.AllKeyboards || captureAllKeyboards,
		IgnoredKeys:  input.ParseKeyNames(cfg.Capture.IgnoredKeys),
	}
	listener := input.NewKeyListener(events, listenerCfg)
	if err := listener.Start(); err != nil {
		return err
	}
	defer listener.Stop()

	// Layout events are handed off to the capture loop so the keymap state
	// is only ever touched from one goroutine.
	layoutEvents := make(chan compositor.LayoutEvent, 8)
	if captureLayout == "" {
		manager.StartListener(func(event compositor.LayoutEvent) {
			select {
			case layoutEvents <- event:
			default:
			}
		})
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sig:
			logger.Info("Shutting down")
			return nil

		case event := <-layoutEvents:
			applyLayoutEvent(state, event)

		case event := <-events:
			if out := processKeyEvent(state, cfg, event); out != "" {
				fmt.Println(out)
			}
		}
	}
}

// applyLayoutEvent switches the keymap to match a compositor notification.
func applyLayoutEvent(state *xkb.State, event compositor.LayoutEvent) {
	var name string
	switch e := event.(type) {
	case compositor.LayoutSwitched:
		name = e.Name
	case compositor.LayoutsChanged:
		name = e.Layouts.CurrentName()
	}

	if name == "" || name == state.LayoutName() {
		return
	}
	if state.SetLayout(name) {
		logger.Infof("Switched keyboard layout: %s", name)
	}
}

// processKeyEvent feeds one event into the keymap state and returns the
// line to print, or "" when the event produces no output.
func processKeyEvent(state *xkb.State, cfg *config.Config, event input.KeyEvent) string {
	key := event.Key

	switch event.Kind {
	case input.Released:
		state.UpdateKey(key.Code, false)
		return ""
	case input.AllReleased:
		state.Reset()
		return ""
	}

	if !key.IsRepeat {
		state.UpdateKey(key.Code, true)
	}

	if input.IsModifier(key.Code) {
		if !cfg.Capture.ShowModifiers {
			return ""
		}
		return key.DisplayName
	}

	return formatKey(state, key)
}

// formatKey renders a non-modifier press: shortcuts as modifier-prefixed
// combos, printable keys as the layout's character, everything else as its
// display name.
func formatKey(state *xkb.State, key input.KeyDisplay) string {
	if prefix := shortcutPrefix(state); len(prefix) > 0 {
		return strings.Join(append(prefix, key.DisplayName), "+")
	}

	switch key.Code {
	case evdev.KEY_ENTER, evdev.KEY_KPENTER, evdev.KEY_TAB, evdev.KEY_SPACE:
		return key.DisplayName
	}

	if ch := state.KeyGetUTF8(key.Code); ch != "" {
		return ch
	}
	return key.DisplayName
}

// shortcutPrefix lists the active non-character modifiers. AltGr is
// excluded: it selects characters rather than forming shortcuts.
func shortcutPrefix(state *xkb.State) []string {
	var parts []string
	if state.SuperActive() {
		parts = append(parts, input.KeyDisplayName(evdev.KEY_LEFTMETA))
	}
	if state.CtrlActive() {
		parts = append(parts, input.KeyDisplayName(evdev.KEY_LEFTCTRL))
	}
	if state.AltActive() {
		parts = append(parts, input.KeyDisplayName(evdev.KEY_LEFTALT))
	}
	return parts
}
