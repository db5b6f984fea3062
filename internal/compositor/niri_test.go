package compositor

import (
	"testing"
)

const niriLayoutsResponse = `{"Ok":{"KeyboardLayouts":{"names":["English (US)","Spanish (Latin American)"],"current_idx":1}}}`

func TestParseNiriLayouts(t *testing.T) {
	t.Run("extracts names and current index", func(t *testing.T) {
		layouts := parseNiriLayouts(niriLayoutsResponse)
		if layouts.Len() != 2 {
			t.Fatalf("expected 2 layouts, got %v", layouts.Names)
		}
		if layouts.CurrentIdx != 1 {
			t.Errorf("CurrentIdx = %d, want 1", layouts.CurrentIdx)
		}
		if layouts.CurrentName() != "Spanish (Latin American)" {
			t.Errorf("CurrentName = %q", layouts.CurrentName())
		}
	})

	t.Run("deduplicates names", func(t *testing.T) {
		payload := `{"names":["us","us","de"],"current_idx":0}`
		layouts := parseNiriLayouts(payload)
		if layouts.Len() != 2 {
			t.Errorf("got %v", layouts.Names)
		}
	})

	t.Run("missing fields default to zero", func(t *testing.T) {
		layouts := parseNiriLayouts(`{"Ok":null}`)
		if !layouts.IsEmpty() || layouts.CurrentIdx != 0 {
			t.Errorf("got %v", layouts)
		}
	})
}

func TestParseNiriEvent(t *testing.T) {
	t.Run("layout switched carries index only", func(t *testing.T) {
		event := ParseNiriEvent(`{"KeyboardLayoutSwitched":{"idx":2}}`)
		switched, ok := event.(LayoutSwitched)
		if !ok {
			t.Fatalf("expected LayoutSwitched, got %T", event)
		}
		if switched.Index != 2 || switched.Name != "" {
			t.Errorf("got %+v", switched)
		}
	})

	t.Run("layouts changed carries full snapshot", func(t *testing.T) {
		event := ParseNiriEvent(`{"KeyboardLayoutsChanged":{"keyboard_layouts":{"names":["us","de"],"current_idx":1}}}`)
		changed, ok := event.(LayoutsChanged)
		if !ok {
			t.Fatalf("expected LayoutsChanged, got %T", event)
		}
		if changed.Layouts.Len() != 2 || changed.Layouts.CurrentIdx != 1 {
			t.Errorf("got %+v", changed.Layouts)
		}
	})

	t.Run("unrelated events yield nil", func(t *testing.T) {
		if event := ParseNiriEvent(`{"WindowFocusChanged":{"id":4}}`); event != nil {
			t.Errorf("expected nil, got %T", event)
		}
	})

	t.Run("switch without index yields nil", func(t *testing.T) {
		if event := ParseNiriEvent(`{"KeyboardLayoutSwitched":{}}`); event != nil {
			t.Errorf("expected nil, got %T", event)
		}
	})
}
