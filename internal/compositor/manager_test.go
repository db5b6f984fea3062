package compositor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(layouts KeyboardLayouts) *LayoutManager {
	return &LayoutManager{compositor: Hyprland, layouts: layouts}
}

func TestSwitchToName(t *testing.T) {
	t.Run("existing layout moves the index", func(t *testing.T) {
		m := newTestManager(KeyboardLayouts{Names: []string{"English (US)", "German"}})

		idx := m.switchToName("German")
		assert.Equal(t, 1, idx)
		assert.Equal(t, "German", m.CurrentLayoutName())
	})

	t.Run("unseen layout is appended", func(t *testing.T) {
		m := newTestManager(KeyboardLayouts{Names: []string{"English (US)"}})

		idx := m.switchToName("German")
		assert.Equal(t, 1, idx)
		assert.Equal(t, []string{"English (US)", "German"}, m.Layouts().Names)
		assert.Equal(t, "German", m.CurrentLayoutName())
	})

	t.Run("empty cache starts at index zero", func(t *testing.T) {
		m := newTestManager(KeyboardLayouts{})

		idx := m.switchToName("German")
		assert.Equal(t, 0, idx)
		assert.Equal(t, "German", m.CurrentLayoutName())
	})
}

func TestSwitchToIndex(t *testing.T) {
	t.Run("in-range index resolves the name", func(t *testing.T) {
		m := newTestManager(KeyboardLayouts{Names: []string{"us", "de", "fr"}})

		name := m.switchToIndex(2)
		assert.Equal(t, "fr", name)
		assert.Equal(t, 2, m.CurrentLayoutIndex())
	})

	t.Run("out-of-range index leaves the cache alone", func(t *testing.T) {
		m := newTestManager(KeyboardLayouts{Names: []string{"us"}})

		name := m.switchToIndex(7)
		assert.Empty(t, name)
		assert.Equal(t, 0, m.CurrentLayoutIndex())
	})
}

func TestHandleHyprlandEvent(t *testing.T) {
	t.Run("activelayout switches and appends", func(t *testing.T) {
		m := newTestManager(KeyboardLayouts{Names: []string{"English (US)"}})

		event := m.handleHyprlandEvent("activelayout>>at-translated-set-2-keyboard,German")
		require.NotNil(t, event)

		switched, ok := event.(LayoutSwitched)
		require.True(t, ok)
		assert.Equal(t, "German", switched.Name)
		assert.Equal(t, 1, switched.Index)
		assert.Equal(t, "German", m.CurrentLayoutName())
	})

	t.Run("unrelated events are ignored", func(t *testing.T) {
		m := newTestManager(KeyboardLayouts{Names: []string{"English (US)"}})

		assert.Nil(t, m.handleHyprlandEvent("workspace>>3"))
		assert.Nil(t, m.handleHyprlandEvent("not an event line"))
		assert.Equal(t, "English (US)", m.CurrentLayoutName())
	})

	t.Run("activelayout without layout field is ignored", func(t *testing.T) {
		m := newTestManager(KeyboardLayouts{Names: []string{"English (US)"}})
		assert.Nil(t, m.handleHyprlandEvent("activelayout>>nodata"))
	})
}

func TestHandleNiriEvent(t *testing.T) {
	t.Run("switch resolves name from cache", func(t *testing.T) {
		m := newTestManager(KeyboardLayouts{Names: []string{"English (US)", "German"}})

		event := m.handleNiriEvent(`{"KeyboardLayoutSwitched":{"idx":1}}`)
		require.NotNil(t, event)

		switched, ok := event.(LayoutSwitched)
		require.True(t, ok)
		assert.Equal(t, "German", switched.Name)
		assert.Equal(t, 1, m.CurrentLayoutIndex())
	})

	t.Run("switch to unknown index keeps empty name", func(t *testing.T) {
		m := newTestManager(KeyboardLayouts{Names: []string{"English (US)"}})

		event := m.handleNiriEvent(`{"KeyboardLayoutSwitched":{"idx":5}}`)
		require.NotNil(t, event)

		switched := event.(LayoutSwitched)
		assert.Empty(t, switched.Name)
		assert.Equal(t, 0, m.CurrentLayoutIndex())
	})

	t.Run("layouts changed replaces the cache", func(t *testing.T) {
		m := newTestManager(KeyboardLayouts{Names: []string{"us"}})

		event := m.handleNiriEvent(`{"KeyboardLayoutsChanged":{"keyboard_layouts":{"names":["us","de"],"current_idx":1}}}`)
		require.NotNil(t, event)

		assert.Equal(t, []string{"us", "de"}, m.Layouts().Names)
		assert.Equal(t, "de", m.CurrentLayoutName())
	})

	t.Run("unrelated lines yield nil", func(t *testing.T) {
		m := newTestManager(KeyboardLayouts{})
		assert.Nil(t, m.handleNiriEvent(`{"WorkspacesChanged":{}}`))
	})
}

func TestManagerWithoutClient(t *testing.T) {
	m := &LayoutManager{compositor: River}

	require.NoError(t, m.Init())
	assert.True(t, m.Layouts().IsEmpty())
	assert.False(t, m.SupportsLayoutQuery())

	// No event support: StartListener must be a no-op and StopListener
	// must not hang.
	m.StartListener(func(LayoutEvent) { t.Error("callback must not fire") })
	m.StopListener()
}

func TestLayoutsReturnsCopy(t *testing.T) {
	m := newTestManager(KeyboardLayouts{Names: []string{"us", "de"}})

	snapshot := m.Layouts()
	snapshot.Names[0] = "mutated"

	assert.Equal(t, "us", m.Layouts().Names[0])
}
