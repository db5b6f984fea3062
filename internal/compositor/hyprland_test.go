package compositor

import (
	"testing"
)

const hyprlandDevicesResponse = `{
  "keyboards": [
    {
      "name": "power-button",
      "active_keymap": "English (US)"
    },
    {
      "name": "at-translated-set-2-keyboard",
      "active_keymap": "English (US)"
    },
    {
      "name": "usb-keyboard",
      "active_keymap": "German"
    }
  ]
}`

func TestParseHyprlandDevices(t *testing.T) {
	t.Run("deduplicates keymaps in first-seen order", func(t *testing.T) {
		layouts := parseHyprlandDevices(hyprlandDevicesResponse)
		if layouts.Len() != 2 {
			t.Fatalf("expected 2 layouts, got %v", layouts.Names)
		}
		if layouts.Names[0] != "English (US)" || layouts.Names[1] != "German" {
			t.Errorf("unexpected order: %v", layouts.Names)
		}
		if layouts.CurrentIdx != 0 {
			t.Errorf("CurrentIdx = %d, want 0", layouts.CurrentIdx)
		}
	})

	t.Run("handles escaped quotes in keymap names", func(t *testing.T) {
		payload := `{"active_keymap": "Layout \"custom\""}`
		layouts := parseHyprlandDevices(payload)
		if layouts.Len() != 1 || layouts.Names[0] != `Layout "custom"` {
			t.Errorf("got %v", layouts.Names)
		}
	})

	t.Run("empty response yields empty snapshot", func(t *testing.T) {
		layouts := parseHyprlandDevices("")
		if !layouts.IsEmpty() {
			t.Errorf("expected empty, got %v", layouts.Names)
		}
	})

	t.Run("malformed value is skipped", func(t *testing.T) {
		payload := `{"active_keymap": 42, "active_keymap": "German"}`
		layouts := parseHyprlandDevices(payload)
		if layouts.Len() != 1 || layouts.Names[0] != "German" {
			t.Errorf("got %v", layouts.Names)
		}
	})

	t.Run("non-string values never leak adjacent keys", func(t *testing.T) {
		payloads := []string{
			`{"active_keymap": null}`,
			`{"active_keymap": 42}`,
			`{"active_keymap": [1, 2]}`,
			`{"active_keymap": {"nested": true}, "main": false}`,
		}
		for _, payload := range payloads {
			if layouts := parseHyprlandDevices(payload); !layouts.IsEmpty() {
				t.Errorf("parseHyprlandDevices(%q) = %v, want empty", payload, layouts.Names)
			}
		}
	})

	t.Run("idempotent on the same payload", func(t *testing.T) {
		a := parseHyprlandDevices(hyprlandDevicesResponse)
		b := parseHyprlandDevices(hyprlandDevicesResponse)
		if a.Len() != b.Len() || a.CurrentIdx != b.CurrentIdx {
			t.Errorf("parses differ: %v vs %v", a, b)
		}
	})
}

func TestParseHyprlandEvent(t *testing.T) {
	name, data, ok := ParseHyprlandEvent("activelayout>>kbd0,German")
	if !ok || name != "activelayout" || data != "kbd0,German" {
		t.Errorf("got (%q, %q, %v)", name, data, ok)
	}

	if _, _, ok := ParseHyprlandEvent("no delimiter here"); ok {
		t.Error("expected failure without >> delimiter")
	}
}

func TestIsLayoutEvent(t *testing.T) {
	if !IsLayoutEvent("activelayout") {
		t.Error("activelayout should be a layout event")
	}
	if IsLayoutEvent("workspace") {
		t.Error("workspace should not be a layout event")
	}
}

func TestParseLayoutEvent(t *testing.T) {
	t.Run("splits device and layout", func(t *testing.T) {
		device, layout, ok := ParseLayoutEvent("kbd0,German")
		if !ok || device != "kbd0" || layout != "German" {
			t.Errorf("got (%q, %q, %v)", device, layout, ok)
		}
	})

	t.Run("layout names keep embedded commas", func(t *testing.T) {
		_, layout, ok := ParseLayoutEvent("kbd0,English (US, intl.)")
		if !ok || layout != "English (US, intl.)" {
			t.Errorf("got %q", layout)
		}
	})
}
