package xkb

import (
	"strings"

	"keymon/internal/logger"
)

// layoutNameMap translates the human-readable layout names compositors
// report into xkb layout and variant codes. Keys are matched exactly
// first, then case-insensitively.
var layoutNameMap = map[string]LayoutID{
	"Spanish (Latin American)": {"latam", ""},
	"Spanish":                  {"es", ""},
	"Spanish (Spain)":          {"es", ""},
	"Spanish (Dvorak)":         {"es", "dvorak"},
	"Spanish (Catalan)":        {"es", "cat"},
	"Spanish (Mexico)":         {"latam", ""},
	"Spanish (Argentina)":      {"latam", ""},

	"English (US)":                {"us", ""},
	"English":                     {"us", ""},
	"US":                          {"us", ""},
	"English (UK)":                {"gb", ""},
	"English (British)":           {"gb", ""},
	"British":                     {"gb", ""},
	"English (Dvorak)":            {"us", "dvorak"},
	"English (Colemak)":           {"us", "colemak"},
	"English (intl)":              {"us", "intl"},
	"English (US, intl.)":         {"us", "intl"},
	"English (US, international)": {"us", "intl"},
	"English (US, alt. intl.)":    {"us", "alt-intl"},
	"English (Macintosh)":         {"us", "mac"},

	"German":               {"de", ""},
	"German (Switzerland)": {"ch", "de"},
	"German (Austria)":     {"at", ""},
	"German (Dvorak)":      {"de", "dvorak"},
	"German (Neo)":         {"de", "neo"},

	"French":               {"fr", ""},
	"French (Canada)":      {"ca", "fr"},
	"French (Belgium)":     {"be", ""},
	"French (Switzerland)": {"ch", "fr"},
	"French (AZERTY)":      {"fr", ""},
	"French (Dvorak)":      {"fr", "dvorak"},
	"French (BEPO)":        {"fr", "bepo"},

	"Portuguese":            {"pt", ""},
	"Portuguese (Brazil)":   {"br", ""},
	"Portuguese (Portugal)": {"pt", ""},
	"Brazilian":             {"br", ""},

	"Italian":             {"it", ""},
	"Italian (Macintosh)": {"it", "mac"},

	"Swedish":   {"se", ""},
	"Norwegian": {"no", ""},
	"Danish":    {"dk", ""},
	"Finnish":   {"fi", ""},
	"Icelandic": {"is", ""},

	"Polish":               {"pl", ""},
	"Czech":                {"cz", ""},
	"Slovak":               {"sk", ""},
	"Hungarian":            {"hu", ""},
	"Romanian":             {"ro", ""},
	"Croatian":             {"hr", ""},
	"Serbian":              {"rs", ""},
	"Serbian (Latin)":      {"rs", "latin"},
	"Slovenian":            {"si", ""},
	"Bulgarian":            {"bg", ""},
	"Bulgarian (phonetic)": {"bg", "phonetic"},

	"Russian":            {"ru", ""},
	"Russian (phonetic)": {"ru", "phonetic"},
	"Ukrainian":          {"ua", ""},
	"Belarusian":         {"by", ""},

	"Greek": {"gr", ""},

	"Turkish":     {"tr", ""},
	"Turkish (F)": {"tr", "f"},

	"Arabic": {"ara", ""},

	"Hebrew": {"il", ""},

	"Japanese":        {"jp", ""},
	"Japanese (Kana)": {"jp", "kana"},
	"Korean":          {"kr", ""},
	"Chinese":         {"cn", ""},
	"Thai":            {"th", ""},
	"Vietnamese":      {"vn", ""},

	"Hindi":  {"in", ""},
	"Indian": {"in", ""},

	"Dutch":           {"nl", ""},
	"Dutch (Belgium)": {"be", ""},

	"Esperanto":  {"epo", ""},
	"Irish":      {"ie", ""},
	"Estonian":   {"ee", ""},
	"Latvian":    {"lv", ""},
	"Lithuanian": {"lt", ""},
}

// baseLanguageMap handles names like "French (custom variant)" whose exact
// form is not in layoutNameMap but whose language prefix is recognized.
var baseLanguageMap = map[string]string{
	"spanish":    "es",
	"english":    "us",
	"german":     "de",
	"french":     "fr",
	"portuguese": "pt",
	"italian":    "it",
	"russian":    "ru",
	"polish":     "pl",
	"dutch":      "nl",
	"swedish":    "se",
	"norwegian":  "no",
	"danish":     "dk",
	"finnish":    "fi",
	"japanese":   "jp",
	"korean":     "kr",
	"chinese":    "cn",
}

// LayoutID is an xkb layout code plus optional variant.
type LayoutID struct {
	Layout  string
	Variant string
}

// ResolveLayout maps a compositor-reported layout name to a LayoutID.
// Resolution tries, in order: an exact table match, a case-insensitive
// table match, the language prefix before a parenthesis, a short
// all-lowercase name taken as a literal layout code, and finally US
// English.
func ResolveLayout(name string) LayoutID {
	if id, ok := layoutNameMap[name]; ok {
		return id
	}

	lower := strings.ToLower(name)
	for key, id := range layoutNameMap {
		if strings.ToLower(key) == lower {
			return id
		}
	}

	if paren := strings.IndexByte(name, '('); paren >= 0 {
		base := strings.ToLower(strings.TrimSpace(name[:paren]))
		if layout, ok := baseLanguageMap[base]; ok {
			return LayoutID{Layout: layout}
		}
	}

	trimmed := strings.TrimSpace(name)
	if len(trimmed) > 0 && len(trimmed) <= 5 && isASCIILower(trimmed) {
		return LayoutID{Layout: trimmed}
	}

	logger.Debugf("Unknown layout %q, falling back to US English", name)
	return LayoutID{Layout: "us"}
}

func isASCIILower(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
