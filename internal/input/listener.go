package input

import (
	"fmt"
	"sync"
	"sync/atomic"

	evdev "github.com/holoplot/go-evdev"

	"keymon/internal/logger"
)

// EventKind tags a KeyEvent variant.
type EventKind int

const (
	Pressed EventKind = iota
	Released
	AllReleased
)

// KeyEvent is the normalized event delivered on the listener channel.
// Repeats are Pressed events with Key.IsRepeat set.
type KeyEvent struct {
	Kind EventKind
	Key  KeyDisplay
}

// ListenerConfig controls which devices and keys are captured. It is
// immutable once the listener starts.
type ListenerConfig struct {
	// AllKeyboards captures every discovered keyboard instead of only the
	// first one.
	AllKeyboards bool

	// IgnoredKeys are dropped before classification.
	IgnoredKeys map[evdev.EvCode]bool
}

// DefaultListenerConfig captures all keyboards and ignores nothing.
func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		AllKeyboards: true,
		IgnoredKeys:  map[evdev.EvCode]bool{},
	}
}

// KeyListener runs one goroutine per selected keyboard and feeds normalized
// events into a bounded channel. The channel is owned by the caller and
// must outlive the listener; sends never block — when the channel is full
// the event is dropped with a warning.
type KeyListener struct {
	events  chan<- KeyEvent
	config  ListenerConfig
	running atomic.Bool

	mu      sync.Mutex
	devices []*evdev.InputDevice
	wg      sync.WaitGroup
}

func NewKeyListener(events chan<- KeyEvent, config ListenerConfig) *KeyListener {
	return &KeyListener{
		events: events,
		config: config,
	}
}

// Start discovers keyboards and spawns one capture goroutine per selected
// device. It fails with ErrNoKeyboardFound when discovery comes up empty.
func (l *KeyListener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running.Load() {
		return fmt.Errorf("listener already running")
	}

	keyboards, err := DiscoverKeyboards()
	if err != nil {
		return err
	}

	if !l.config.AllKeyboards {
		// Prefer a physical keyboard over virtual devices.
		if physical := filterPhysical(keyboards); len(physical) > 0 {
			keyboards = physical[:1]
		} else {
			keyboards = keyboards[:1]
		}
	}

	l.running.Store(true)

	for _, keyboard := range keyboards {
		dev, err := keyboard.Open()
		if err != nil {
			logger.Warnf("Failed to open %s: %v", keyboard.Path, err)
			continue
		}

		l.devices = append(l.devices, dev)
		l.wg.Add(1)
		go l.listenDevice(keyboard, dev)
	}

	if len(l.devices) == 0 {
		l.running.Store(false)
		return ErrNoKeyboardFound
	}

	return nil
}

// Stop requests all capture goroutines to terminate and waits for them.
// Closing the devices unblocks any pending read, so the latency is bounded
// by a single loop iteration rather than by input arriving.
func (l *KeyListener) Stop() {
	l.mu.Lock()
	if !l.running.Swap(false) {
		l.mu.Unlock()
		return
	}

	for _, dev := range l.devices {
		_ = dev.Close()
	}
	l.devices = nil
	l.mu.Unlock()

	l.wg.Wait()
}

// IsRunning reports whether the listener has been started and not stopped.
func (l *KeyListener) IsRunning() bool {
	return l.running.Load()
}

// listenDevice is the per-device capture loop. Errors are fatal to this
// worker only; other devices keep capturing.
func (l *KeyListener) listenDevice(keyboard KeyboardDevice, dev *evdev.InputDevice) {
	defer l.wg.Done()

	logger.Infof("Listening to keyboard: %s", keyboard.Name)

	// Keys this worker believes are currently held. Used to synthesize
	// Released events for keys whose release we never saw.
	pressed := make(map[evdev.EvCode]bool)

	for l.running.Load() {
		ev, err := dev.ReadOne()
		if err != nil {
			if l.running.Load() {
				logger.Errorf("Read error on %s: %v", keyboard.Name, err)
			}
			break
		}

		if ev.Type != evdev.EV_KEY {
			continue
		}

		code := ev.Code
		if l.config.IgnoredKeys[code] {
			continue
		}

		var event KeyEvent
		switch ev.Value {
		case 1:
			pressed[code] = true
			event = KeyEvent{Kind: Pressed, Key: NewKeyDisplay(code, true)}
		case 0:
			delete(pressed, code)
			event = KeyEvent{Kind: Released, Key: NewKeyDisplay(code, false)}
		case 2:
			event = KeyEvent{Kind: Pressed, Key: NewRepeatKeyDisplay(code)}
		default:
			continue
		}

		l.trySend(event)
		l.reconcileStuckKeys(dev, pressed)
	}

	logger.Infof("Stopped listening to keyboard: %s", keyboard.Name)
}

// trySend delivers an event without ever blocking the capture loop.
func (l *KeyListener) trySend(event KeyEvent) {
	select {
	case l.events <- event:
	default:
		logger.Warn("Event channel full, dropping event")
	}
}

// reconcileStuckKeys compares the locally tracked pressed set against the
// device's authoritative key state and synthesizes a Released event for
// every key the device no longer reports as held. Compensates for releases
// missed during focus changes or device replug races.
func (l *KeyListener) reconcileStuckKeys(dev *evdev.InputDevice, pressed map[evdev.EvCode]bool) {
	if len(pressed) == 0 {
		return
	}

	actual, err := dev.State(evdev.EV_KEY)
	if err != nil {
		return
	}

	for _, code := range stuckKeys(pressed, actual) {
		logger.Debugf("Detected stuck key released: %s", KeyDisplayName(code))
		delete(pressed, code)
		l.trySend(KeyEvent{Kind: Released, Key: NewKeyDisplay(code, false)})
	}
}

// stuckKeys returns the keys present in the tracked set that the device
// state no longer reports as held.
func stuckKeys(pressed map[evdev.EvCode]bool, actual evdev.StateMap) []evdev.EvCode {
	var stuck []evdev.EvCode
	for code := range pressed {
		if !actual[code] {
			stuck = append(stuck, code)
		}
	}
	return stuck
}
