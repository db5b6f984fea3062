package input

import (
	"errors"
	"path/filepath"
	"strings"

	evdev "github.com/holoplot/go-evdev"

	"keymon/internal/logger"
)

// ErrNoKeyboardFound is returned when the device scan finds no usable
// keyboard. Callers are expected to degrade rather than abort the process.
var ErrNoKeyboardFound = errors.New("no keyboard devices found (are you in the 'input' group?)")

// KeyboardDevice identifies a keyboard found during discovery.
type KeyboardDevice struct {
	Path string
	Name string
}

// Open opens the underlying evdev device node.
func (k KeyboardDevice) Open() (*evdev.InputDevice, error) {
	return evdev.Open(k.Path)
}

// DiscoverKeyboards scans /dev/input for devices that look like real
// keyboards. Devices that cannot be opened are skipped, not fatal.
func DiscoverKeyboards() ([]KeyboardDevice, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}

	var keyboards []KeyboardDevice
	for _, p := range paths {
		if !strings.HasPrefix(filepath.Base(p.Path), "event") {
			continue
		}

		dev, err := evdev.Open(p.Path)
		if err != nil {
			logger.Debugf("Could not open %s: %v", p.Path, err)
			continue
		}

		if isKeyboard(dev) {
			name, err := dev.Name()
			if err != nil || name == "" {
				name = "Unknown Keyboard"
			}
			logger.Infof("Found keyboard: %s at %s", name, p.Path)
			keyboards = append(keyboards, KeyboardDevice{Path: p.Path, Name: name})
		}

		_ = dev.Close()
	}

	if len(keyboards) == 0 {
		logger.Warn("No keyboard devices found. Ensure you are in the 'input' group.")
		return nil, ErrNoKeyboardFound
	}

	return keyboards, nil
}

// isKeyboard reports whether the device supports key events and the full
// letter range. Requiring A, Z and Space filters out power buttons, media
// remotes and other single-key devices that still advertise EV_KEY.
func isKeyboard(dev *evdev.InputDevice) bool {
	hasKeyEvents := false
	for _, t := range dev.CapableTypes() {
		if t == evdev.EV_KEY {
			hasKeyEvents = true
			break
		}
	}
	if !hasKeyEvents {
		return false
	}

	var hasA, hasZ, hasSpace bool
	for _, code := range dev.CapableEvents(evdev.EV_KEY) {
		switch code {
		case evdev.KEY_A:
			hasA = true
		case evdev.KEY_Z:
			hasZ = true
		case evdev.KEY_SPACE:
			hasSpace = true
		}
	}

	return hasA && hasZ && hasSpace
}

// PrimaryKeyboard returns the first physical keyboard, preferring devices
// whose name does not look like a virtual one.
func PrimaryKeyboard() (KeyboardDevice, error) {
	keyboards, err := DiscoverKeyboards()
	if err != nil {
		return KeyboardDevice{}, err
	}

	if physical := filterPhysical(keyboards); len(physical) > 0 {
		return physical[0], nil
	}

	return keyboards[0], nil
}

func filterPhysical(keyboards []KeyboardDevice) []KeyboardDevice {
	var out []KeyboardDevice
	for _, kb := range keyboards {
		if !strings.Contains(strings.ToLower(kb.Name), "virtual") {
			out = append(out, kb)
		}
	}
	return out
}
