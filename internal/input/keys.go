package input

import (
	"strconv"
	"strings"

	evdev "github.com/holoplot/go-evdev"

	"keymon/internal/logger"
)

// keyNames maps key codes to the compact display form used when a key has
// no layout-dependent character (modifiers, navigation, media keys). The
// glyphs are Nerd Font codepoints.
var keyNames = map[evdev.EvCode]string{
	evdev.KEY_LEFTCTRL:   "\U000f0634",
	evdev.KEY_RIGHTCTRL:  "\U000f0634",
	evdev.KEY_LEFTSHIFT:  "\U000f0636",
	evdev.KEY_RIGHTSHIFT: "\U000f0636",
	evdev.KEY_LEFTALT:    "\U000f0635",
	evdev.KEY_RIGHTALT:   "\U000f0635",
	evdev.KEY_LEFTMETA:   "\U000f05b3",
	evdev.KEY_RIGHTMETA:  "\U000f05b3",
	evdev.KEY_CAPSLOCK:   "\U000f0a9b",

	evdev.KEY_F1:  "F1",
	evdev.KEY_F2:  "F2",
	evdev.KEY_F3:  "F3",
	evdev.KEY_F4:  "F4",
	evdev.KEY_F5:  "F5",
	evdev.KEY_F6:  "F6",
	evdev.KEY_F7:  "F7",
	evdev.KEY_F8:  "F8",
	evdev.KEY_F9:  "F9",
	evdev.KEY_F10: "F10",
	evdev.KEY_F11: "F11",
	evdev.KEY_F12: "F12",

	evdev.KEY_ESC:       "\U000f12b7",
	evdev.KEY_TAB:       "\U000f0312",
	evdev.KEY_BACKSPACE: "\U000f0b5c",
	evdev.KEY_ENTER:     "\U000f0311",
	evdev.KEY_SPACE:     "\U000f1050",
	evdev.KEY_INSERT:    "\U000f0382",
	evdev.KEY_DELETE:    "\U000f0e7e",
	evdev.KEY_HOME:      "\U000f02dc",
	evdev.KEY_END:       "\U000f07c0",
	evdev.KEY_PAGEUP:    "\U000f0795",
	evdev.KEY_PAGEDOWN:  "\U000f0792",
	evdev.KEY_UP:        "\U000f005d",
	evdev.KEY_DOWN:      "\U000f0045",
	evdev.KEY_LEFT:      "\U000f004d",
	evdev.KEY_RIGHT:     "\U000f0054",

	evdev.KEY_0: "0",
	evdev.KEY_1: "1",
	evdev.KEY_2: "2",
	evdev.KEY_3: "3",
	evdev.KEY_4: "4",
	evdev.KEY_5: "5",
	evdev.KEY_6: "6",
	evdev.KEY_7: "7",
	evdev.KEY_8: "8",
	evdev.KEY_9: "9",

	evdev.KEY_A: "A",
	evdev.KEY_B: "B",
	evdev.KEY_C: "C",
	evdev.KEY_D: "D",
	evdev.KEY_E: "E",
	evdev.KEY_F: "F",
	evdev.KEY_G: "G",
	evdev.KEY_H: "H",
	evdev.KEY_I: "I",
	evdev.KEY_J: "J",
	evdev.KEY_K: "K",
	evdev.KEY_L: "L",
	evdev.KEY_M: "M",
	evdev.KEY_N: "N",
	evdev.KEY_O: "O",
	evdev.KEY_P: "P",
	evdev.KEY_Q: "Q",
	evdev.KEY_R: "R",
	evdev.KEY_S: "S",
	evdev.KEY_T: "T",
	evdev.KEY_U: "U",
	evdev.KEY_V: "V",
	evdev.KEY_W: "W",
	evdev.KEY_X: "X",
	evdev.KEY_Y: "Y",
	evdev.KEY_Z: "Z",

	evdev.KEY_MINUS:      "-",
	evdev.KEY_EQUAL:      "=",
	evdev.KEY_LEFTBRACE:  "[",
	evdev.KEY_RIGHTBRACE: "]",
	evdev.KEY_SEMICOLON:  ";",
	evdev.KEY_APOSTROPHE: "'",
	evdev.KEY_GRAVE:      "`",
	evdev.KEY_BACKSLASH:  "\\",
	evdev.KEY_COMMA:      ",",
	evdev.KEY_DOT:        ".",
	evdev.KEY_SLASH:      "/",

	evdev.KEY_NUMLOCK:    "NumLock",
	evdev.KEY_KP0:        "Num0",
	evdev.KEY_KP1:        "Num1",
	evdev.KEY_KP2:        "Num2",
	evdev.KEY_KP3:        "Num3",
	evdev.KEY_KP4:        "Num4",
	evdev.KEY_KP5:        "Num5",
	evdev.KEY_KP6:        "Num6",
	evdev.KEY_KP7:        "Num7",
	evdev.KEY_KP8:        "Num8",
	evdev.KEY_KP9:        "Num9",
	evdev.KEY_KPPLUS:     "Num+",
	evdev.KEY_KPMINUS:    "Num-",
	evdev.KEY_KPASTERISK: "Num*",
	evdev.KEY_KPSLASH:    "Num/",
	evdev.KEY_KPDOT:      "Num.",
	evdev.KEY_KPENTER:    "NumEnter",

	evdev.KEY_MUTE:         "Mute",
	evdev.KEY_VOLUMEDOWN:   "Vol-",
	evdev.KEY_VOLUMEUP:     "Vol+",
	evdev.KEY_PLAYPAUSE:    "Play/Pause",
	evdev.KEY_STOPCD:       "Stop",
	evdev.KEY_PREVIOUSSONG: "Prev",
	evdev.KEY_NEXTSONG:     "Next",

	evdev.KEY_PRINT:      "Print",
	evdev.KEY_SCROLLLOCK: "ScrollLock",
	evdev.KEY_PAUSE:      "Pause",
	evdev.KEY_SYSRQ:      "SysRq",
}

// KeyDisplay is a key event prepared for presentation: the raw code plus
// its layout-independent display form.
type KeyDisplay struct {
	Code        evdev.EvCode
	DisplayName string
	Pressed     bool
	IsRepeat    bool
}

func NewKeyDisplay(code evdev.EvCode, pressed bool) KeyDisplay {
	return KeyDisplay{
		Code:        code,
		DisplayName: KeyDisplayName(code),
		Pressed:     pressed,
	}
}

func NewRepeatKeyDisplay(code evdev.EvCode) KeyDisplay {
	return KeyDisplay{
		Code:        code,
		DisplayName: KeyDisplayName(code),
		Pressed:     true,
		IsRepeat:    true,
	}
}

// KeyDisplayName returns the display form for a key code, falling back to
// the evdev code name without its KEY_ prefix.
func KeyDisplayName(code evdev.EvCode) string {
	if name, ok := keyNames[code]; ok {
		return name
	}
	if name, ok := evdev.KEYToString[code]; ok {
		return strings.TrimPrefix(name, "KEY_")
	}
	return strconv.Itoa(int(code))
}

// IsModifier reports whether the key is a shift/ctrl/alt/super key.
func IsModifier(code evdev.EvCode) bool {
	switch code {
	case evdev.KEY_LEFTCTRL, evdev.KEY_RIGHTCTRL,
		evdev.KEY_LEFTSHIFT, evdev.KEY_RIGHTSHIFT,
		evdev.KEY_LEFTALT, evdev.KEY_RIGHTALT,
		evdev.KEY_LEFTMETA, evdev.KEY_RIGHTMETA:
		return true
	}
	return false
}

// IsSuperKey reports whether the key is the super/meta key.
func IsSuperKey(code evdev.EvCode) bool {
	return code == evdev.KEY_LEFTMETA || code == evdev.KEY_RIGHTMETA
}

// NormalizeModifier folds right-hand modifiers onto their left-hand
// counterpart so both sides compare equal.
func NormalizeModifier(code evdev.EvCode) evdev.EvCode {
	switch code {
	case evdev.KEY_RIGHTCTRL:
		return evdev.KEY_LEFTCTRL
	case evdev.KEY_RIGHTSHIFT:
		return evdev.KEY_LEFTSHIFT
	case evdev.KEY_RIGHTALT:
		return evdev.KEY_LEFTALT
	case evdev.KEY_RIGHTMETA:
		return evdev.KEY_LEFTMETA
	}
	return code
}

// ParseKeyNames converts evdev key names (e.g. "KEY_CAPSLOCK") to a code
// set. Unknown names are skipped with a warning.
func ParseKeyNames(names []string) map[evdev.EvCode]bool {
	set := make(map[evdev.EvCode]bool, len(names))
	for _, name := range names {
		if code, ok := evdev.KEYFromString[name]; ok {
			set[code] = true
		} else if code, ok := evdev.KEYFromString["KEY_"+strings.ToUpper(name)]; ok {
			set[code] = true
		} else {
			logger.Warnf("Unknown key name in config: %q", name)
		}
	}
	return set
}
