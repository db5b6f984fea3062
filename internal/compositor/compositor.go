// Package compositor detects the running Wayland compositor and speaks its
// native IPC to query and follow keyboard layout state. Hyprland, Sway and
// Niri each use a different wire protocol; everything else degrades to a
// default layout with no event support.
package compositor

import (
	"bufio"
	"errors"
	"net"
	"os"
	"strings"
	"time"
)

// socketTimeout bounds request-socket reads and writes. The Hyprland event
// socket is the one exception: it reads unbounded.
const socketTimeout = 5 * time.Second

// ErrNotAvailable means the compositor's IPC socket could not be found.
var ErrNotAvailable = errors.New("compositor socket not available")

// Compositor tags the detected environment.
type Compositor int

const (
	Unknown Compositor = iota
	Hyprland
	Sway
	Niri
	River
	Dwl
	Labwc
	Wayfire
)

func (c Compositor) String() string {
	switch c {
	case Hyprland:
		return "Hyprland"
	case Sway:
		return "Sway"
	case Niri:
		return "Niri"
	case River:
		return "River"
	case Dwl:
		return "dwl"
	case Labwc:
		return "Labwc"
	case Wayfire:
		return "Wayfire"
	default:
		return "Unknown"
	}
}

// SupportsLayoutQuery reports whether the compositor has an IPC surface we
// can query for keyboard layouts.
func (c Compositor) SupportsLayoutQuery() bool {
	switch c {
	case Hyprland, Sway, Niri:
		return true
	}
	return false
}

// SupportsLayoutEvents reports whether the compositor can push
// layout-change notifications.
func (c Compositor) SupportsLayoutEvents() bool {
	switch c {
	case Hyprland, Sway, Niri:
		return true
	}
	return false
}

// Detect identifies the running compositor from environment signals. The
// instance/socket variables are checked first, then the desktop identifier
// as a substring match.
func Detect() Compositor {
	if os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return Hyprland
	}
	if os.Getenv("SWAYSOCK") != "" {
		return Sway
	}
	if os.Getenv("NIRI_SOCKET") != "" || os.Getenv("NIRI_SOCKET_PATH") != "" {
		return Niri
	}
	if os.Getenv("WAYFIRE_SOCKET") != "" {
		return Wayfire
	}

	desktop := strings.ToLower(os.Getenv("XDG_CURRENT_DESKTOP"))
	switch {
	case strings.Contains(desktop, "river"):
		return River
	case strings.Contains(desktop, "dwl"):
		return Dwl
	case strings.Contains(desktop, "labwc"):
		return Labwc
	case strings.Contains(desktop, "hyprland"):
		return Hyprland
	case strings.Contains(desktop, "sway"):
		return Sway
	case strings.Contains(desktop, "niri"):
		return Niri
	}

	return Unknown
}

// KeyboardLayouts is a snapshot of the compositor's configured layouts.
// Names keep first-seen order with exact-string duplicates suppressed.
// CurrentIdx is only meaningful while Names is non-empty.
type KeyboardLayouts struct {
	Names      []string
	CurrentIdx int
}

// CurrentName returns the active layout name, or "" when the snapshot is
// empty or the index is out of range.
func (k KeyboardLayouts) CurrentName() string {
	if k.CurrentIdx < 0 || k.CurrentIdx >= len(k.Names) {
		return ""
	}
	return k.Names[k.CurrentIdx]
}

func (k KeyboardLayouts) IsEmpty() bool {
	return len(k.Names) == 0
}

func (k KeyboardLayouts) Len() int {
	return len(k.Names)
}

func (k KeyboardLayouts) clone() KeyboardLayouts {
	out := KeyboardLayouts{CurrentIdx: k.CurrentIdx}
	out.Names = append(out.Names, k.Names...)
	return out
}

// LayoutEvent is the closed union of layout notifications. Events are
// constructed and dispatched immediately, never stored.
type LayoutEvent interface {
	isLayoutEvent()
}

// LayoutSwitched reports the active layout changing. Name may be empty
// when the protocol only carries an index and the cache cannot resolve it.
type LayoutSwitched struct {
	Name  string
	Index int
}

// LayoutsChanged reports the full layout set being replaced.
type LayoutsChanged struct {
	Layouts KeyboardLayouts
}

func (LayoutSwitched) isLayoutEvent() {}
func (LayoutsChanged) isLayoutEvent() {}

// Client is the per-compositor IPC surface for layout queries.
type Client interface {
	// KeyboardLayouts queries the current layout set. Malformed responses
	// degrade to an empty snapshot, not an error.
	KeyboardLayouts() (KeyboardLayouts, error)

	// Available reports whether the IPC socket still exists.
	Available() bool
}

// NewClient builds the client for a detected compositor, or nil when it
// has no supported IPC surface.
func NewClient(c Compositor) Client {
	switch c {
	case Hyprland:
		if client, err := NewHyprlandClient(); err == nil {
			return client
		}
	case Sway:
		if client, err := NewSwayClient(); err == nil {
			return client
		}
	case Niri:
		if client, err := NewNiriClient(); err == nil {
			return client
		}
	}
	return nil
}

// EventStream is a line-oriented subscription socket.
type EventStream struct {
	conn   net.Conn
	reader *bufio.Reader
}

func newEventStream(conn net.Conn) *EventStream {
	return &EventStream{conn: conn, reader: bufio.NewReader(conn)}
}

// ReadLine blocks until the next event line arrives or the stream closes.
func (s *EventStream) ReadLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\n"), nil
}

// Close unblocks any pending ReadLine.
func (s *EventStream) Close() error {
	return s.conn.Close()
}

func dialUnix(path string, timeout bool) (net.Conn, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, err
	}
	if timeout {
		deadline := time.Now().Add(socketTimeout)
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	return conn, nil
}

func socketExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
