package input

import (
	"testing"

	evdev "github.com/holoplot/go-evdev"
)

func TestKeyDisplayName(t *testing.T) {
	tests := []struct {
		name string
		code evdev.EvCode
		want string
	}{
		{"letter", evdev.KEY_A, "A"},
		{"digit", evdev.KEY_7, "7"},
		{"function key", evdev.KEY_F5, "F5"},
		{"numpad", evdev.KEY_KP3, "Num3"},
		{"media", evdev.KEY_VOLUMEUP, "Vol+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyDisplayName(tt.code); got != tt.want {
				t.Errorf("KeyDisplayName(%d) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestKeyDisplayNameFallback(t *testing.T) {
	// KEY_MACRO has no display entry; it should fall back to the evdev
	// name without its prefix.
	if got := KeyDisplayName(evdev.KEY_MACRO); got != "MACRO" {
		t.Errorf("KeyDisplayName(KEY_MACRO) = %q, want MACRO", got)
	}
}

func TestNewKeyDisplay(t *testing.T) {
	key := NewKeyDisplay(evdev.KEY_B, true)
	if key.Code != evdev.KEY_B || !key.Pressed || key.IsRepeat {
		t.Errorf("unexpected KeyDisplay: %+v", key)
	}

	repeat := NewRepeatKeyDisplay(evdev.KEY_B)
	if !repeat.Pressed || !repeat.IsRepeat {
		t.Errorf("unexpected repeat KeyDisplay: %+v", repeat)
	}
}

func TestIsModifier(t *testing.T) {
	modifiers := []evdev.EvCode{
		evdev.KEY_LEFTCTRL, evdev.KEY_RIGHTCTRL,
		evdev.KEY_LEFTSHIFT, evdev.KEY_RIGHTSHIFT,
		evdev.KEY_LEFTALT, evdev.KEY_RIGHTALT,
		evdev.KEY_LEFTMETA, evdev.KEY_RIGHTMETA,
	}
	for _, code := range modifiers {
		if !IsModifier(code) {
			t.Errorf("IsModifier(%d) = false, want true", code)
		}
	}

	if IsModifier(evdev.KEY_A) || IsModifier(evdev.KEY_CAPSLOCK) {
		t.Error("non-modifier keys reported as modifiers")
	}
}

func TestNormalizeModifier(t *testing.T) {
	pairs := map[evdev.EvCode]evdev.EvCode{
		evdev.KEY_RIGHTCTRL:  evdev.KEY_LEFTCTRL,
		evdev.KEY_RIGHTSHIFT: evdev.KEY_LEFTSHIFT,
		evdev.KEY_RIGHTALT:   evdev.KEY_LEFTALT,
		evdev.KEY_RIGHTMETA:  evdev.KEY_LEFTMETA,
	}
	for right, left := range pairs {
		if got := NormalizeModifier(right); got != left {
			t.Errorf("NormalizeModifier(%d) = %d, want %d", right, got, left)
		}
	}

	if got := NormalizeModifier(evdev.KEY_A); got != evdev.KEY_A {
		t.Error("non-modifier keys should pass through unchanged")
	}
}

func TestParseKeyNames(t *testing.T) {
	set := ParseKeyNames([]string{"KEY_CAPSLOCK", "esc", "not-a-key"})

	if !set[evdev.KEY_CAPSLOCK] {
		t.Error("KEY_CAPSLOCK should be parsed")
	}
	if !set[evdev.KEY_ESC] {
		t.Error("lowercase names without prefix should be parsed")
	}
	if len(set) != 2 {
		t.Errorf("unknown names should be skipped, got %d entries", len(set))
	}
}
