package compositor

import (
	"fmt"
	"os"
	"strings"

	"keymon/internal/logger"
)

// NiriClient speaks Niri's line-delimited JSON protocol: requests are a
// single JSON string literal plus newline, responses one JSON line.
type NiriClient struct {
	socketPath string
}

func NewNiriClient() (*NiriClient, error) {
	socketPath := os.Getenv("NIRI_SOCKET")
	if socketPath == "" {
		socketPath = os.Getenv("NIRI_SOCKET_PATH")
	}
	if socketPath == "" {
		return nil, fmt.Errorf("%w: NIRI_SOCKET not set", ErrNotAvailable)
	}
	if !socketExists(socketPath) {
		logger.Debugf("Niri socket not found at %s", socketPath)
		return nil, fmt.Errorf("%w: %s", ErrNotAvailable, socketPath)
	}
	return &NiriClient{socketPath: socketPath}, nil
}

func (c *NiriClient) sendRequest(request string) (string, error) {
	conn, err := dialUnix(c.socketPath, true)
	if err != nil {
		return "", fmt.Errorf("dial niri socket: %w", err)
	}
	defer conn.Close()

	if _, err := fmt.Fprintf(conn, "%s\n", request); err != nil {
		return "", fmt.Errorf("write request: %w", err)
	}

	stream := newEventStream(conn)
	line, err := stream.ReadLine()
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	return line, nil
}

// KeyboardLayouts issues the KeyboardLayouts request and parses the
// one-line response.
func (c *NiriClient) KeyboardLayouts() (KeyboardLayouts, error) {
	response, err := c.sendRequest(`"KeyboardLayouts"`)
	if err != nil {
		return KeyboardLayouts{}, err
	}
	return parseNiriLayouts(response), nil
}

// Available reports whether the socket still exists.
func (c *NiriClient) Available() bool {
	return socketExists(c.socketPath)
}

// parseNiriLayouts pulls the "names" array and "current_idx" field out of
// a response line. Missing pieces default to the zero snapshot.
func parseNiriLayouts(payload string) KeyboardLayouts {
	var layouts KeyboardLayouts
	seen := make(map[string]bool)

	for _, name := range extractArrayAfter(payload, `"names"`) {
		if !seen[name] {
			seen[name] = true
			layouts.Names = append(layouts.Names, name)
		}
	}

	if idx, ok := extractIndexAfter(payload, `"current_idx"`); ok {
		layouts.CurrentIdx = idx
	}

	return layouts
}

// SubscribeEvents switches the connection into event-stream mode. The
// "EventStream" request must be acknowledged on the first line or the
// subscription fails.
func (c *NiriClient) SubscribeEvents() (*EventStream, error) {
	conn, err := dialUnix(c.socketPath, false)
	if err != nil {
		return nil, fmt.Errorf("dial niri socket: %w", err)
	}

	if _, err := fmt.Fprintf(conn, "%s\n", `"EventStream"`); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("write event stream request: %w", err)
	}

	stream := newEventStream(conn)
	ack, err := stream.ReadLine()
	if err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("read event stream ack: %w", err)
	}

	if !strings.Contains(ack, `"Ok"`) && !strings.Contains(ack, `"Handled"`) {
		_ = stream.Close()
		return nil, fmt.Errorf("event stream subscription rejected: %s", strings.TrimSpace(ack))
	}

	return stream, nil
}

// ParseNiriEvent recognizes the layout-related events on the stream.
// KeyboardLayoutSwitched carries only an index; the layout manager
// resolves the name from its cached snapshot. Unrelated events yield nil.
func ParseNiriEvent(line string) LayoutEvent {
	if strings.Contains(line, `"KeyboardLayoutSwitched"`) {
		if idx, ok := extractIndexAfter(line, `"idx"`); ok {
			return LayoutSwitched{Index: idx}
		}
	}

	if strings.Contains(line, `"KeyboardLayoutsChanged"`) {
		layouts := parseNiriLayouts(line)
		if !layouts.IsEmpty() {
			return LayoutsChanged{Layouts: layouts}
		}
	}

	return nil
}
