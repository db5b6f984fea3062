// Package xkb translates evdev key codes into the characters the active
// keyboard layout would produce, tracking modifier and lock state the way
// a compositor-side keymap would. Layouts are compiled-in tables keyed by
// xkb layout codes; compositor-reported names resolve through
// ResolveLayout.
package xkb

import (
	"errors"
	"fmt"

	evdev "github.com/holoplot/go-evdev"

	"keymon/internal/logger"
)

// Modifier names accepted by ModActive, matching the xkb convention.
const (
	ModNameShift = "Shift"
	ModNameCtrl  = "Control"
	ModNameAlt   = "Mod1"
	ModNameSuper = "Mod4"
)

var (
	// ErrUnknownLayout means no compiled-in table covers the layout code.
	ErrUnknownLayout = errors.New("unknown layout")

	// ErrKeymapCompile means neither the requested layout nor the US
	// fallback could be compiled.
	ErrKeymapCompile = errors.New("keymap compilation failed")
)

// Keymap is one compiled layout table.
type Keymap struct {
	id    LayoutID
	table keymapTable
}

// Compile looks up the table for a layout code and optional variant. An
// unknown variant falls back to the plain layout; an unknown layout is an
// error.
func Compile(layout, variant string) (*Keymap, error) {
	if variant != "" {
		if table, ok := layoutTables[layout+"/"+variant]; ok {
			return &Keymap{id: LayoutID{layout, variant}, table: table}, nil
		}
	}
	if table, ok := layoutTables[layout]; ok {
		return &Keymap{id: LayoutID{Layout: layout, Variant: variant}, table: table}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownLayout, layout)
}

// ID returns the layout code the keymap was compiled for.
func (k *Keymap) ID() LayoutID {
	return k.id
}

// State applies a keymap to a stream of key transitions. Not safe for
// concurrent use; the capture loop is its only caller.
type State struct {
	keymap     *Keymap
	layoutName string

	// held tracks per-key press depth so repeats and overlapping events
	// from multiple devices do not double-count modifiers.
	held map[evdev.EvCode]int

	shift int
	ctrl  int
	alt   int
	super int
	altGr int
	caps  bool
}

// NewState builds a state with the default US layout.
func NewState() (*State, error) {
	return NewStateForLayout("")
}

// NewStateForLayout resolves a compositor-reported layout name and builds
// a state for it. An uncompilable layout falls back to US with a warning.
func NewStateForLayout(name string) (*State, error) {
	id := LayoutID{Layout: "us"}
	layoutName := "default"
	if name != "" {
		id = ResolveLayout(name)
		layoutName = name
	}

	logger.Debugf("Creating keymap state: name=%q -> layout=%q, variant=%q",
		layoutName, id.Layout, id.Variant)

	keymap, err := Compile(id.Layout, id.Variant)
	if err != nil {
		logger.Warnf("Failed to compile keymap for layout %q, trying default: %v", id.Layout, err)
		keymap, err = Compile("us", "")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKeymapCompile, err)
		}
	}

	return &State{
		keymap:     keymap,
		layoutName: layoutName,
		held:       make(map[evdev.EvCode]int),
	}, nil
}

// LayoutName returns the compositor-reported name the state was built or
// last switched for.
func (s *State) LayoutName() string {
	return s.layoutName
}

// SetLayout switches to a new layout, resetting all modifier and key
// state. On failure the previous keymap stays active and false is
// returned.
func (s *State) SetLayout(name string) bool {
	id := ResolveLayout(name)

	logger.Debugf("Switching keymap: %q -> layout=%q, variant=%q", name, id.Layout, id.Variant)

	keymap, err := Compile(id.Layout, id.Variant)
	if err != nil {
		logger.Warnf("Failed to switch to layout %q (%s): %v", name, id.Layout, err)
		return false
	}

	s.keymap = keymap
	s.layoutName = name
	s.Reset()
	return true
}

// Reset clears all held keys, modifiers and locks.
func (s *State) Reset() {
	s.held = make(map[evdev.EvCode]int)
	s.shift = 0
	s.ctrl = 0
	s.alt = 0
	s.super = 0
	s.altGr = 0
	s.caps = false
}

// UpdateKey feeds one key transition into the state. Repeated presses of
// an already-held key and releases of keys never seen are ignored, so
// auto-repeat and reconciliation events cannot skew the modifier counts.
func (s *State) UpdateKey(code evdev.EvCode, pressed bool) {
	if pressed {
		s.held[code]++
		if s.held[code] > 1 {
			return
		}
		s.applyModifier(code, 1)
		if code == evdev.KEY_CAPSLOCK {
			s.caps = !s.caps
		}
		return
	}

	if s.held[code] == 0 {
		return
	}
	s.held[code]--
	if s.held[code] == 0 {
		delete(s.held, code)
		s.applyModifier(code, -1)
	}
}

func (s *State) applyModifier(code evdev.EvCode, delta int) {
	switch code {
	case evdev.KEY_LEFTSHIFT, evdev.KEY_RIGHTSHIFT:
		s.shift += delta
	case evdev.KEY_LEFTCTRL, evdev.KEY_RIGHTCTRL:
		s.ctrl += delta
	case evdev.KEY_LEFTALT:
		s.alt += delta
	case evdev.KEY_RIGHTALT:
		s.altGr += delta
	case evdev.KEY_LEFTMETA, evdev.KEY_RIGHTMETA:
		s.super += delta
	}
}

// KeyGetUTF8 returns the character the active layout produces for a key
// under the current modifier state, or "" for non-printing keys.
func (s *State) KeyGetUTF8(code evdev.EvCode) string {
	e, ok := s.keymap.table[code]
	if !ok {
		return ""
	}

	shifted := s.shift > 0
	if e.Letter {
		// Caps lock inverts shift for letter keys only.
		shifted = shifted != s.caps
	}

	if s.altGr > 0 {
		if shifted && e.ShiftAltGr != "" {
			return e.ShiftAltGr
		}
		if e.AltGr != "" {
			return e.AltGr
		}
		return ""
	}

	if shifted {
		if e.Shift != "" {
			return e.Shift
		}
		return ""
	}
	return e.Base
}

func (s *State) ShiftActive() bool { return s.shift > 0 }
func (s *State) CtrlActive() bool  { return s.ctrl > 0 }
func (s *State) AltActive() bool   { return s.alt > 0 }
func (s *State) AltGrActive() bool { return s.altGr > 0 }
func (s *State) SuperActive() bool { return s.super > 0 }

// ModActive reports whether a named modifier is active.
func (s *State) ModActive(name string) bool {
	switch name {
	case ModNameShift:
		return s.ShiftActive()
	case ModNameCtrl:
		return s.CtrlActive()
	case ModNameAlt:
		return s.AltActive()
	case ModNameSuper:
		return s.SuperActive()
	}
	return false
}
