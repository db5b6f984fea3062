package compositor

import (
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"keymon/internal/logger"
)

// HyprlandClient talks to Hyprland's two sockets: .socket.sock for
// request/response commands and .socket2.sock for the event stream.
type HyprlandClient struct {
	socketPath      string
	eventSocketPath string
}

// NewHyprlandClient locates the instance's socket directory from
// HYPRLAND_INSTANCE_SIGNATURE under the runtime dir.
func NewHyprlandClient() (*HyprlandClient, error) {
	dir, err := hyprlandSocketDir()
	if err != nil {
		return nil, err
	}

	client := &HyprlandClient{
		socketPath:      filepath.Join(dir, ".socket.sock"),
		eventSocketPath: filepath.Join(dir, ".socket2.sock"),
	}

	if !socketExists(client.socketPath) {
		logger.Debugf("Hyprland socket not found at %s", client.socketPath)
		return nil, fmt.Errorf("%w: %s", ErrNotAvailable, client.socketPath)
	}

	return client, nil
}

func hyprlandSocketDir() (string, error) {
	signature := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if signature == "" {
		return "", fmt.Errorf("%w: HYPRLAND_INSTANCE_SIGNATURE not set", ErrNotAvailable)
	}

	dir := filepath.Join(xdg.RuntimeDir, "hypr", signature)
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotAvailable, dir)
	}
	return dir, nil
}

// sendCommand writes one command, half-closes the write side, and reads
// the response to EOF.
func (c *HyprlandClient) sendCommand(command string) (string, error) {
	conn, err := dialUnix(c.socketPath, true)
	if err != nil {
		return "", fmt.Errorf("dial hyprland socket: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(command)); err != nil {
		return "", fmt.Errorf("write command: %w", err)
	}
	if uc, ok := conn.(*net.UnixConn); ok {
		_ = uc.CloseWrite()
	}

	response, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	return string(response), nil
}

// KeyboardLayouts queries the device list and collects the distinct
// active keymaps in first-seen order.
func (c *HyprlandClient) KeyboardLayouts() (KeyboardLayouts, error) {
	response, err := c.sendCommand("j/devices")
	if err != nil {
		return KeyboardLayouts{}, err
	}
	return parseHyprlandDevices(response), nil
}

// Available reports whether the request socket still exists.
func (c *HyprlandClient) Available() bool {
	return socketExists(c.socketPath)
}

// parseHyprlandDevices scans the devices response for every
// "active_keymap" value. The payload is whatever the compositor sent;
// anything that does not scan is skipped.
func parseHyprlandDevices(payload string) KeyboardLayouts {
	var layouts KeyboardLayouts
	seen := make(map[string]bool)

	const key = `"active_keymap"`
	rest := payload
	for {
		pos := strings.Index(rest, key)
		if pos < 0 {
			break
		}

		after := rest[pos+len(key):]
		colon := strings.IndexByte(after, ':')
		if colon < 0 {
			rest = rest[pos+1:]
			continue
		}

		// The value must open with a quote right after the colon, or
		// scanQuoted would latch onto the next key literal instead.
		value := after[colon+1:]
		start := skipSpace(value)
		if start >= len(value) || value[start] != '"' {
			rest = rest[pos+1:]
			continue
		}

		name, next, ok := scanQuoted(value[start:])
		if !ok {
			rest = rest[pos+1:]
			continue
		}

		if name != "" && !seen[name] {
			seen[name] = true
			layouts.Names = append(layouts.Names, name)
		}

		rest = value[start+next:]
	}

	return layouts
}

// SubscribeEvents opens the event socket. The stream emits one
// "name>>data" line per event and reads unbounded.
func (c *HyprlandClient) SubscribeEvents() (*EventStream, error) {
	conn, err := dialUnix(c.eventSocketPath, false)
	if err != nil {
		return nil, fmt.Errorf("dial hyprland event socket: %w", err)
	}
	return newEventStream(conn), nil
}

// ParseHyprlandEvent splits an event line into name and data at the first
// ">>" delimiter.
func ParseHyprlandEvent(line string) (name, data string, ok bool) {
	return strings.Cut(line, ">>")
}

// IsLayoutEvent reports whether the event name announces a layout switch.
func IsLayoutEvent(name string) bool {
	return name == "activelayout"
}

// ParseLayoutEvent splits "device,layout" event data at the first comma,
// so layout names containing commas survive intact.
func ParseLayoutEvent(data string) (device, layout string, ok bool) {
	return strings.Cut(data, ",")
}
