package xkb

import (
	evdev "github.com/holoplot/go-evdev"
)

// keyEntry holds the characters a physical key produces at each shift
// level. Empty strings mean the level produces nothing; Shift falls back
// to Base, ShiftAltGr to AltGr.
type keyEntry struct {
	Base       string
	Shift      string
	AltGr      string
	ShiftAltGr string
	Letter     bool
}

type keymapTable map[evdev.EvCode]keyEntry

// layoutTables registers every compiled-in layout, keyed by xkb layout
// code, with variants under "layout/variant".
var layoutTables = map[string]keymapTable{}

func registerLayout(layout, variant string, table keymapTable) {
	key := layout
	if variant != "" {
		key = layout + "/" + variant
	}
	layoutTables[key] = table
}

func letter(lower, upper string) keyEntry {
	return keyEntry{Base: lower, Shift: upper, Letter: true}
}

func entry(base, shift string) keyEntry {
	return keyEntry{Base: base, Shift: shift}
}

func entry3(base, shift, altgr string) keyEntry {
	return keyEntry{Base: base, Shift: shift, AltGr: altgr}
}

// usTable builds a fresh US QWERTY table. The other layouts clone it and
// patch the keys that differ.
func usTable() keymapTable {
	return keymapTable{
		evdev.KEY_A: letter("a", "A"),
		evdev.KEY_B: letter("b", "B"),
		evdev.KEY_C: letter("c", "C"),
		evdev.KEY_D: letter("d", "D"),
		evdev.KEY_E: letter("e", "E"),
		evdev.KEY_F: letter("f", "F"),
		evdev.KEY_G: letter("g", "G"),
		evdev.KEY_H: letter("h", "H"),
		evdev.KEY_I: letter("i", "I"),
		evdev.KEY_J: letter("j", "J"),
		evdev.KEY_K: letter("k", "K"),
		evdev.KEY_L: letter("l", "L"),
		evdev.KEY_M: letter("m", "M"),
		evdev.KEY_N: letter("n", "N"),
		evdev.KEY_O: letter("o", "O"),
		evdev.KEY_P: letter("p", "P"),
		evdev.KEY_Q: letter("q", "Q"),
		evdev.KEY_R: letter("r", "R"),
		evdev.KEY_S: letter("s", "S"),
		evdev.KEY_T: letter("t", "T"),
		evdev.KEY_U: letter("u", "U"),
		evdev.KEY_V: letter("v", "V"),
		evdev.KEY_W: letter("w", "W"),
		evdev.KEY_X: letter("x", "X"),
		evdev.KEY_Y: letter("y", "Y"),
		evdev.KEY_Z: letter("z", "Z"),

		evdev.KEY_1: entry("1", "!"),
		evdev.KEY_2: entry("2", "@"),
		evdev.KEY_3: entry("3", "#"),
		evdev.KEY_4: entry("4", "$"),
		evdev.KEY_5: entry("5", "%"),
		evdev.KEY_6: entry("6", "^"),
		evdev.KEY_7: entry("7", "&"),
		evdev.KEY_8: entry("8", "*"),
		evdev.KEY_9: entry("9", "("),
		evdev.KEY_0: entry("0", ")"),

		evdev.KEY_MINUS:      entry("-", "_"),
		evdev.KEY_EQUAL:      entry("=", "+"),
		evdev.KEY_LEFTBRACE:  entry("[", "{"),
		evdev.KEY_RIGHTBRACE: entry("]", "}"),
		evdev.KEY_BACKSLASH:  entry("\\", "|"),
		evdev.KEY_SEMICOLON:  entry(";", ":"),
		evdev.KEY_APOSTROPHE: entry("'", "\""),
		evdev.KEY_GRAVE:      entry("`", "~"),
		evdev.KEY_COMMA:      entry(",", "<"),
		evdev.KEY_DOT:        entry(".", ">"),
		evdev.KEY_SLASH:      entry("/", "?"),
		evdev.KEY_102ND:      entry("<", ">"),

		evdev.KEY_SPACE:   entry(" ", " "),
		evdev.KEY_TAB:     entry("\t", "\t"),
		evdev.KEY_ENTER:   entry("\r", "\r"),
		evdev.KEY_KPENTER: entry("\r", "\r"),

		evdev.KEY_KP0:        entry("0", ""),
		evdev.KEY_KP1:        entry("1", ""),
		evdev.KEY_KP2:        entry("2", ""),
		evdev.KEY_KP3:        entry("3", ""),
		evdev.KEY_KP4:        entry("4", ""),
		evdev.KEY_KP5:        entry("5", ""),
		evdev.KEY_KP6:        entry("6", ""),
		evdev.KEY_KP7:        entry("7", ""),
		evdev.KEY_KP8:        entry("8", ""),
		evdev.KEY_KP9:        entry("9", ""),
		evdev.KEY_KPDOT:      entry(".", ""),
		evdev.KEY_KPPLUS:     entry("+", "+"),
		evdev.KEY_KPMINUS:    entry("-", "-"),
		evdev.KEY_KPASTERISK: entry("*", "*"),
		evdev.KEY_KPSLASH:    entry("/", "/"),
	}
}

func patched(base keymapTable, patch keymapTable) keymapTable {
	out := make(keymapTable, len(base)+len(patch))
	for code, e := range base {
		out[code] = e
	}
	for code, e := range patch {
		out[code] = e
	}
	return out
}

func init() {
	us := usTable()
	registerLayout("us", "", us)

	registerLayout("gb", "", patched(us, keymapTable{
		evdev.KEY_2:          entry("2", "\""),
		evdev.KEY_3:          entry("3", "£"),
		evdev.KEY_APOSTROPHE: entry("'", "@"),
		evdev.KEY_GRAVE:      entry("`", "¬"),
		evdev.KEY_BACKSLASH:  entry("#", "~"),
		evdev.KEY_102ND:      entry("\\", "|"),
	}))

	registerLayout("de", "", patched(us, keymapTable{
		evdev.KEY_Y: letter("z", "Z"),
		evdev.KEY_Z: letter("y", "Y"),

		evdev.KEY_2: entry3("2", "\"", "²"),
		evdev.KEY_3: entry3("3", "§", "³"),
		evdev.KEY_6: entry("6", "&"),
		evdev.KEY_7: entry3("7", "/", "{"),
		evdev.KEY_8: entry3("8", "(", "["),
		evdev.KEY_9: entry3("9", ")", "]"),
		evdev.KEY_0: entry3("0", "=", "}"),

		evdev.KEY_MINUS:      entry3("ß", "?", "\\"),
		evdev.KEY_EQUAL:      entry("´", "`"),
		evdev.KEY_LEFTBRACE:  letter("ü", "Ü"),
		evdev.KEY_RIGHTBRACE: entry3("+", "*", "~"),
		evdev.KEY_SEMICOLON:  letter("ö", "Ö"),
		evdev.KEY_APOSTROPHE: letter("ä", "Ä"),
		evdev.KEY_GRAVE:      entry("^", "°"),
		evdev.KEY_BACKSLASH:  entry("#", "'"),
		evdev.KEY_COMMA:      entry(",", ";"),
		evdev.KEY_DOT:        entry(".", ":"),
		evdev.KEY_SLASH:      entry("-", "_"),
		evdev.KEY_102ND:      entry3("<", ">", "|"),

		evdev.KEY_Q: keyEntry{Base: "q", Shift: "Q", AltGr: "@", Letter: true},
		evdev.KEY_E: keyEntry{Base: "e", Shift: "E", AltGr: "€", Letter: true},
		evdev.KEY_M: keyEntry{Base: "m", Shift: "M", AltGr: "µ", Letter: true},
	}))

	registerLayout("fr", "", patched(us, keymapTable{
		evdev.KEY_Q:         letter("a", "A"),
		evdev.KEY_A:         letter("q", "Q"),
		evdev.KEY_W:         letter("z", "Z"),
		evdev.KEY_Z:         letter("w", "W"),
		evdev.KEY_SEMICOLON: letter("m", "M"),
		evdev.KEY_M:         entry(",", "?"),

		evdev.KEY_1: entry("&", "1"),
		evdev.KEY_2: entry3("é", "2", "~"),
		evdev.KEY_3: entry3("\"", "3", "#"),
		evdev.KEY_4: entry3("'", "4", "{"),
		evdev.KEY_5: entry3("(", "5", "["),
		evdev.KEY_6: entry3("-", "6", "|"),
		evdev.KEY_7: entry3("è", "7", "`"),
		evdev.KEY_8: entry3("_", "8", "\\"),
		evdev.KEY_9: entry3("ç", "9", "^"),
		evdev.KEY_0: entry3("à", "0", "@"),

		evdev.KEY_MINUS:      entry3(")", "°", "]"),
		evdev.KEY_EQUAL:      entry3("=", "+", "}"),
		evdev.KEY_LEFTBRACE:  entry3("^", "¨", "["),
		evdev.KEY_RIGHTBRACE: entry3("$", "£", "¤"),
		evdev.KEY_APOSTROPHE: entry("ù", "%"),
		evdev.KEY_GRAVE:      entry("²", ""),
		evdev.KEY_BACKSLASH:  entry("*", "µ"),
		evdev.KEY_COMMA:      entry(";", "."),
		evdev.KEY_DOT:        entry(":", "/"),
		evdev.KEY_SLASH:      entry("!", "§"),
		evdev.KEY_102ND:      entry("<", ">"),

		evdev.KEY_E: keyEntry{Base: "e", Shift: "E", AltGr: "€", Letter: true},
	}))

	registerLayout("es", "", patched(us, keymapTable{
		evdev.KEY_2: entry3("2", "\"", "@"),
		evdev.KEY_3: entry3("3", "·", "#"),
		evdev.KEY_6: entry("6", "&"),
		evdev.KEY_7: entry("7", "/"),
		evdev.KEY_8: entry("8", "("),
		evdev.KEY_9: entry("9", ")"),
		evdev.KEY_0: entry("0", "="),

		evdev.KEY_MINUS:      entry("'", "?"),
		evdev.KEY_EQUAL:      entry("¡", "¿"),
		evdev.KEY_LEFTBRACE:  entry3("`", "^", "["),
		evdev.KEY_RIGHTBRACE: entry3("+", "*", "]"),
		evdev.KEY_SEMICOLON:  letter("ñ", "Ñ"),
		evdev.KEY_APOSTROPHE: entry3("´", "¨", "{"),
		evdev.KEY_GRAVE:      entry3("º", "ª", "\\"),
		evdev.KEY_BACKSLASH:  keyEntry{Base: "ç", Shift: "Ç", AltGr: "}", Letter: true},
		evdev.KEY_COMMA:      entry(",", ";"),
		evdev.KEY_DOT:        entry(".", ":"),
		evdev.KEY_SLASH:      entry("-", "_"),
		evdev.KEY_102ND:      entry("<", ">"),

		evdev.KEY_E: keyEntry{Base: "e", Shift: "E", AltGr: "€", Letter: true},
	}))

	registerLayout("latam", "", patched(us, keymapTable{
		evdev.KEY_2: entry("2", "\""),
		evdev.KEY_3: entry("3", "#"),
		evdev.KEY_6: entry("6", "&"),
		evdev.KEY_7: entry("7", "/"),
		evdev.KEY_8: entry("8", "("),
		evdev.KEY_9: entry("9", ")"),
		evdev.KEY_0: entry("0", "="),

		evdev.KEY_MINUS:      entry3("'", "?", "\\"),
		evdev.KEY_EQUAL:      entry("¿", "¡"),
		evdev.KEY_LEFTBRACE:  entry("´", "¨"),
		evdev.KEY_RIGHTBRACE: entry3("+", "*", "~"),
		evdev.KEY_SEMICOLON:  letter("ñ", "Ñ"),
		evdev.KEY_APOSTROPHE: entry("{", "["),
		evdev.KEY_GRAVE:      entry3("|", "°", "¬"),
		evdev.KEY_BACKSLASH:  entry("}", "]"),
		evdev.KEY_COMMA:      entry(",", ";"),
		evdev.KEY_DOT:        entry(".", ":"),
		evdev.KEY_SLASH:      entry("-", "_"),
		evdev.KEY_102ND:      entry("<", ">"),

		evdev.KEY_Q: keyEntry{Base: "q", Shift: "Q", AltGr: "@", Letter: true},
		evdev.KEY_E: keyEntry{Base: "e", Shift: "E", AltGr: "€", Letter: true},
	}))

	registerLayout("ca", "fr", patched(us, keymapTable{
		evdev.KEY_2: entry3("2", "\"", "@"),
		evdev.KEY_3: entry3("3", "/", "£"),
		evdev.KEY_6: entry("6", "?"),

		evdev.KEY_LEFTBRACE:  entry3("^", "^", "["),
		evdev.KEY_RIGHTBRACE: entry3("ç", "¨", "]"),
		evdev.KEY_APOSTROPHE: letter("è", "È"),
		evdev.KEY_GRAVE:      entry3("#", "|", "\\"),
		evdev.KEY_BACKSLASH:  entry3("<", ">", "}"),
		evdev.KEY_SEMICOLON:  entry3(";", ":", "~"),
		evdev.KEY_COMMA:      entry(",", "'"),
		evdev.KEY_DOT:        entry(".", "\""),
		evdev.KEY_SLASH:      letter("é", "É"),
		evdev.KEY_102ND:      entry3("«", "»", "°"),
	}))

	registerLayout("br", "", patched(us, keymapTable{
		evdev.KEY_6: entry("6", "¨"),

		evdev.KEY_LEFTBRACE:  entry("´", "`"),
		evdev.KEY_RIGHTBRACE: entry3("[", "{", "ª"),
		evdev.KEY_SEMICOLON:  letter("ç", "Ç"),
		evdev.KEY_APOSTROPHE: entry("~", "^"),
		evdev.KEY_GRAVE:      entry("'", "\""),
		evdev.KEY_BACKSLASH:  entry3("]", "}", "º"),
		evdev.KEY_COMMA:      entry(",", "<"),
		evdev.KEY_DOT:        entry(".", ">"),
		evdev.KEY_SLASH:      entry(";", ":"),
		evdev.KEY_102ND:      entry("\\", "|"),

		evdev.KEY_Q: keyEntry{Base: "q", Shift: "Q", AltGr: "/", Letter: true},
		evdev.KEY_E: keyEntry{Base: "e", Shift: "E", AltGr: "€", Letter: true},
	}))
}
