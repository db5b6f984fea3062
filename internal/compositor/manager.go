package compositor

import (
	"io"
	"sync"
	"sync/atomic"

	"keymon/internal/logger"
)

// LayoutManager owns the cached layout snapshot for the detected
// compositor. The cache has one writer (the background subscriber, or an
// explicit Refresh) and any number of readers behind a read-write lock.
// Callbacks always run outside the lock.
type LayoutManager struct {
	compositor Compositor
	client     Client

	mu      sync.RWMutex
	layouts KeyboardLayouts

	stop      atomic.Bool
	stream    io.Closer
	streamMu  sync.Mutex
	wg        sync.WaitGroup
	listening bool
}

// NewLayoutManager detects the compositor and builds its client, if any.
func NewLayoutManager() *LayoutManager {
	c := Detect()
	client := NewClient(c)

	logger.Infof("Layout manager initialized: compositor=%s, client_available=%t",
		c, client != nil)

	return &LayoutManager{
		compositor: c,
		client:     client,
	}
}

// Compositor returns the detected compositor tag.
func (m *LayoutManager) Compositor() Compositor {
	return m.compositor
}

// SupportsLayoutQuery reports whether layout queries can work at all.
func (m *LayoutManager) SupportsLayoutQuery() bool {
	return m.client != nil && m.compositor.SupportsLayoutQuery()
}

// Init performs the initial synchronous layout query. A failure leaves
// the cache empty and is surfaced to the caller.
func (m *LayoutManager) Init() error {
	layouts, err := m.fetchLayouts()
	if err != nil {
		logger.Warnf("Failed to fetch keyboard layouts: %v", err)
		return err
	}

	logger.Infof("Fetched %d keyboard layout(s), current: %q",
		layouts.Len(), layouts.CurrentName())

	m.mu.Lock()
	m.layouts = layouts
	m.mu.Unlock()
	return nil
}

// Refresh re-queries the compositor and replaces the cache.
func (m *LayoutManager) Refresh() error {
	layouts, err := m.fetchLayouts()
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.layouts = layouts
	m.mu.Unlock()
	return nil
}

func (m *LayoutManager) fetchLayouts() (KeyboardLayouts, error) {
	if m.client == nil {
		logger.Debugf("No compositor client available for %s", m.compositor)
		return KeyboardLayouts{}, nil
	}
	return m.client.KeyboardLayouts()
}

// Layouts returns a copy of the cached snapshot.
func (m *LayoutManager) Layouts() KeyboardLayouts {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.layouts.clone()
}

// CurrentLayoutName returns the cached active layout name, or "".
func (m *LayoutManager) CurrentLayoutName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.layouts.CurrentName()
}

// CurrentLayoutIndex returns the cached active layout index.
func (m *LayoutManager) CurrentLayoutIndex() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.layouts.CurrentIdx
}

// StartListener spawns the single background subscriber goroutine. It is
// a no-op for compositors without event support or when already
// listening. The callback runs on the subscriber goroutine for every
// parsed layout event, after the cache has been updated.
func (m *LayoutManager) StartListener(callback func(LayoutEvent)) {
	if !m.compositor.SupportsLayoutEvents() {
		logger.Debugf("Compositor %s does not support layout events", m.compositor)
		return
	}
	if m.listening {
		return
	}

	m.listening = true
	m.stop.Store(false)
	m.wg.Add(1)

	go func() {
		defer m.wg.Done()
		switch m.compositor {
		case Hyprland:
			m.listenHyprland(callback)
		case Sway:
			m.listenSway(callback)
		case Niri:
			m.listenNiri(callback)
		}
	}()

	logger.Infof("Started layout change listener for %s", m.compositor)
}

// StopListener sets the stop flag, closes the event stream to unblock a
// pending read, and waits for the subscriber goroutine. Safe to call
// multiple times; also called from Close.
func (m *LayoutManager) StopListener() {
	m.stop.Store(true)

	m.streamMu.Lock()
	if m.stream != nil {
		_ = m.stream.Close()
		m.stream = nil
	}
	m.streamMu.Unlock()

	m.wg.Wait()
	m.listening = false
}

// Close tears the manager down, stopping the subscriber if running.
func (m *LayoutManager) Close() {
	m.StopListener()
}

func (m *LayoutManager) setStream(stream io.Closer) bool {
	m.streamMu.Lock()
	defer m.streamMu.Unlock()
	if m.stop.Load() {
		return false
	}
	m.stream = stream
	return true
}

// switchToName moves the cache's current index to the named layout,
// appending it first when unseen, and returns the resulting index.
func (m *LayoutManager) switchToName(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.layouts.Names {
		if existing == name {
			m.layouts.CurrentIdx = i
			return i
		}
	}

	m.layouts.Names = append(m.layouts.Names, name)
	m.layouts.CurrentIdx = len(m.layouts.Names) - 1
	return m.layouts.CurrentIdx
}

// switchToIndex moves the cache's current index and resolves the layout
// name from the snapshot. The name is empty when the index is out of
// range; the stale cache is then refreshed by the next query.
func (m *LayoutManager) switchToIndex(idx int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx >= 0 && idx < len(m.layouts.Names) {
		m.layouts.CurrentIdx = idx
		return m.layouts.Names[idx]
	}
	return ""
}

func (m *LayoutManager) replaceLayouts(layouts KeyboardLayouts) {
	m.mu.Lock()
	m.layouts = layouts
	m.mu.Unlock()
}

// handleHyprlandEvent applies one event-socket line to the cache and
// returns the event to dispatch, or nil for unrelated lines.
func (m *LayoutManager) handleHyprlandEvent(line string) LayoutEvent {
	name, data, ok := ParseHyprlandEvent(line)
	if !ok || !IsLayoutEvent(name) {
		return nil
	}

	_, layoutName, ok := ParseLayoutEvent(data)
	if !ok {
		return nil
	}

	idx := m.switchToName(layoutName)
	return LayoutSwitched{Name: layoutName, Index: idx}
}

// handleNiriEvent applies one event line to the cache and returns the
// event to dispatch, or nil.
func (m *LayoutManager) handleNiriEvent(line string) LayoutEvent {
	switch event := ParseNiriEvent(line).(type) {
	case LayoutSwitched:
		event.Name = m.switchToIndex(event.Index)
		return event
	case LayoutsChanged:
		m.replaceLayouts(event.Layouts)
		return event
	}
	return nil
}

func (m *LayoutManager) listenHyprland(callback func(LayoutEvent)) {
	client, err := NewHyprlandClient()
	if err != nil {
		logger.Warnf("Failed to create Hyprland client for event listener: %v", err)
		return
	}

	stream, err := client.SubscribeEvents()
	if err != nil {
		logger.Warnf("Failed to subscribe to Hyprland events: %v", err)
		return
	}
	if !m.setStream(stream) {
		_ = stream.Close()
		return
	}

	for !m.stop.Load() {
		line, err := stream.ReadLine()
		if err != nil {
			if !m.stop.Load() {
				logger.Debugf("Error reading Hyprland event: %v", err)
			}
			break
		}

		if event := m.handleHyprlandEvent(line); event != nil {
			callback(event)
		}
	}

	logger.Debug("Hyprland event listener stopped")
}

func (m *LayoutManager) listenSway(callback func(LayoutEvent)) {
	client, err := NewSwayClient()
	if err != nil {
		logger.Warnf("Failed to create Sway client for event listener: %v", err)
		return
	}

	conn, err := client.SubscribeEvents()
	if err != nil {
		logger.Warnf("Failed to subscribe to Sway events: %v", err)
		return
	}
	if !m.setStream(conn) {
		_ = conn.Close()
		return
	}

	for !m.stop.Load() {
		_, payload, err := readFrame(conn)
		if err != nil {
			// A magic mismatch invalidates one frame; anything else ends
			// the stream.
			if isMagicMismatch(err) {
				continue
			}
			if !m.stop.Load() {
				logger.Debugf("Error reading Sway event: %v", err)
			}
			break
		}

		if !IsSwayLayoutFrame(string(payload)) {
			continue
		}

		// Sway events do not carry the layout set; re-query it.
		layouts, err := client.KeyboardLayouts()
		if err != nil {
			logger.Debugf("Failed to re-query Sway layouts: %v", err)
			continue
		}

		m.replaceLayouts(layouts)
		callback(LayoutsChanged{Layouts: layouts})
	}

	logger.Debug("Sway event listener stopped")
}

func (m *LayoutManager) listenNiri(callback func(LayoutEvent)) {
	client, err := NewNiriClient()
	if err != nil {
		logger.Warnf("Failed to create Niri client for event listener: %v", err)
		return
	}

	stream, err := client.SubscribeEvents()
	if err != nil {
		logger.Warnf("Failed to subscribe to Niri events: %v", err)
		return
	}
	if !m.setStream(stream) {
		_ = stream.Close()
		return
	}

	for !m.stop.Load() {
		line, err := stream.ReadLine()
		if err != nil {
			if !m.stop.Load() {
				logger.Debugf("Error reading Niri event: %v", err)
			}
			break
		}

		if event := m.handleNiriEvent(line); event != nil {
			callback(event)
		}
	}

	logger.Debug("Niri event listener stopped")
}
