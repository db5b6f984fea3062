package compositor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"keymon/internal/logger"
)

// Sway speaks i3-ipc framing: a 14-byte header (6 magic bytes, u32 LE
// payload length, u32 LE message type) followed by the payload.
const (
	ipcHeaderSize = 14

	ipcGetInputs uint32 = 100
	ipcSubscribe uint32 = 2
)

var ipcMagic = [6]byte{'i', '3', '-', 'i', 'p', 'c'}

// errMagicMismatch marks a frame whose magic bytes do not match. Such a
// frame is dropped without trusting its length fields.
var errMagicMismatch = errors.New("invalid i3-ipc header: magic mismatch")

func isMagicMismatch(err error) bool {
	return errors.Is(err, errMagicMismatch)
}

// SwayClient talks to the socket named by SWAYSOCK. The same socket is
// switched into subscribe mode for events.
type SwayClient struct {
	socketPath string
}

func NewSwayClient() (*SwayClient, error) {
	socketPath := os.Getenv("SWAYSOCK")
	if socketPath == "" {
		return nil, fmt.Errorf("%w: SWAYSOCK not set", ErrNotAvailable)
	}
	if !socketExists(socketPath) {
		logger.Debugf("Sway socket not found at %s", socketPath)
		return nil, fmt.Errorf("%w: %s", ErrNotAvailable, socketPath)
	}
	return &SwayClient{socketPath: socketPath}, nil
}

// encodeHeader builds an i3-ipc frame header.
func encodeHeader(payloadLen, messageType uint32) [ipcHeaderSize]byte {
	var header [ipcHeaderSize]byte
	copy(header[0:6], ipcMagic[:])
	binary.LittleEndian.PutUint32(header[6:10], payloadLen)
	binary.LittleEndian.PutUint32(header[10:14], messageType)
	return header
}

// decodeHeader validates the magic and returns the frame's payload length
// and message type.
func decodeHeader(header []byte) (payloadLen, messageType uint32, err error) {
	if len(header) < ipcHeaderSize {
		return 0, 0, fmt.Errorf("short i3-ipc header: %d bytes", len(header))
	}
	if !bytes.Equal(header[0:6], ipcMagic[:]) {
		return 0, 0, errMagicMismatch
	}
	return binary.LittleEndian.Uint32(header[6:10]), binary.LittleEndian.Uint32(header[10:14]), nil
}

// readFrame reads one header-then-payload frame. A magic mismatch is
// returned as an error so the caller can skip the frame instead of
// trusting a bogus length.
func readFrame(conn io.Reader) (messageType uint32, payload []byte, err error) {
	header := make([]byte, ipcHeaderSize)
	if _, err := io.ReadFull(conn, header); err != nil {
		return 0, nil, err
	}

	payloadLen, messageType, err := decodeHeader(header)
	if err != nil {
		return 0, nil, err
	}

	payload = make([]byte, payloadLen)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return 0, nil, err
	}

	return messageType, payload, nil
}

func (c *SwayClient) sendMessage(messageType uint32, payload []byte) (string, error) {
	conn, err := dialUnix(c.socketPath, true)
	if err != nil {
		return "", fmt.Errorf("dial sway socket: %w", err)
	}
	defer conn.Close()

	header := encodeHeader(uint32(len(payload)), messageType)
	if _, err := conn.Write(header[:]); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	if len(payload) > 0 {
		if _, err := conn.Write(payload); err != nil {
			return "", fmt.Errorf("write payload: %w", err)
		}
	}

	_, response, err := readFrame(conn)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	return string(response), nil
}

// KeyboardLayouts queries GET_INPUTS and extracts the xkb layout set.
func (c *SwayClient) KeyboardLayouts() (KeyboardLayouts, error) {
	response, err := c.sendMessage(ipcGetInputs, nil)
	if err != nil {
		return KeyboardLayouts{}, err
	}
	return parseSwayInputs(response), nil
}

// Available reports whether the socket still exists.
func (c *SwayClient) Available() bool {
	return socketExists(c.socketPath)
}

// parseSwayInputs extracts layout names and the active index from a
// GET_INPUTS response. When no name array is present it falls back to the
// single active layout name.
func parseSwayInputs(payload string) KeyboardLayouts {
	var layouts KeyboardLayouts
	seen := make(map[string]bool)

	for _, name := range extractArrayAfter(payload, `"xkb_layout_names"`) {
		if !seen[name] {
			seen[name] = true
			layouts.Names = append(layouts.Names, name)
		}
	}

	if idx, ok := extractIndexAfter(payload, `"xkb_active_layout_index"`); ok {
		layouts.CurrentIdx = idx
	}

	if len(layouts.Names) == 0 {
		if name, ok := extractStringAfter(payload, `"xkb_active_layout_name"`); ok {
			layouts.Names = append(layouts.Names, name)
		}
	}

	return layouts
}

// SubscribeEvents arms the input event stream: a SUBSCRIBE request with
// payload ["input"], acknowledged by one response frame. The returned
// connection then carries unsolicited event frames readable with
// readFrame.
func (c *SwayClient) SubscribeEvents() (net.Conn, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial sway socket: %w", err)
	}

	payload := []byte(`["input"]`)
	header := encodeHeader(uint32(len(payload)), ipcSubscribe)
	if _, err := conn.Write(header[:]); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("write subscribe: %w", err)
	}
	if _, err := conn.Write(payload); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("write subscribe payload: %w", err)
	}

	if _, _, err := readFrame(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read subscribe ack: %w", err)
	}

	return conn, nil
}

// IsSwayLayoutFrame reports whether an event payload is worth a layout
// re-query. Sway does not tag layout switches specifically, so any input
// event mentioning the xkb keys triggers a refresh.
func IsSwayLayoutFrame(payload string) bool {
	return strings.Contains(payload, `"xkb_layout"`) ||
		strings.Contains(payload, `"xkb_keymap"`)
}
