package compositor

import (
	"testing"
)

func TestScanQuoted(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"simple", `"hello"`, "hello", true},
		{"leading junk", `  : "value", more`, "value", true},
		{"escaped quote", `"say \"hi\""`, `say "hi"`, true},
		{"escaped backslash", `"a\\b"`, `a\b`, true},
		{"empty string", `""`, "", true},
		{"no quotes", `hello`, "", false},
		{"unterminated", `"hello`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, ok := scanQuoted(tt.input)
			if ok != tt.ok {
				t.Fatalf("scanQuoted(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("scanQuoted(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestScanQuotedOffset(t *testing.T) {
	input := `"first" "second"`
	first, next, ok := scanQuoted(input)
	if !ok || first != "first" {
		t.Fatalf("first scan = %q, ok=%v", first, ok)
	}
	second, _, ok := scanQuoted(input[next:])
	if !ok || second != "second" {
		t.Fatalf("second scan = %q, ok=%v", second, ok)
	}
}

func TestScanStringArray(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"two entries", `["English (US)", "German"]`, []string{"English (US)", "German"}},
		{"escaped entry", `["with \"quote\""]`, []string{`with "quote"`}},
		{"empty array", `[]`, nil},
		{"empties dropped", `["", "x", ""]`, []string{"x"}},
		{"no array", `"not an array"`, nil},
		{"unterminated", `["a", "b"`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scanStringArray(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("scanStringArray(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractStringAfter(t *testing.T) {
	payload := `{"type":"keyboard","xkb_active_layout_name":"German","other":1}`
	got, ok := extractStringAfter(payload, `"xkb_active_layout_name"`)
	if !ok || got != "German" {
		t.Errorf("got %q ok=%v, want German", got, ok)
	}

	if _, ok := extractStringAfter(payload, `"missing"`); ok {
		t.Error("expected miss for absent key")
	}
}

func TestExtractIndexAfter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		key   string
		want  int
		ok    bool
	}{
		{"plain", `"current_idx": 2`, `"current_idx"`, 2, true},
		{"no space", `"idx":14}`, `"idx"`, 14, true},
		{"zero", `"idx": 0`, `"idx"`, 0, true},
		{"missing key", `"other": 1`, `"idx"`, 0, false},
		{"no digits", `"idx": null`, `"idx"`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractIndexAfter(tt.input, tt.key)
			if ok != tt.ok || got != tt.want {
				t.Errorf("extractIndexAfter(%q, %q) = (%d, %v), want (%d, %v)",
					tt.input, tt.key, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestExtractArrayAfter(t *testing.T) {
	payload := `{"names": ["English (US)", "Spanish (Latin American)"], "current_idx": 1}`
	got := extractArrayAfter(payload, `"names"`)
	if len(got) != 2 || got[0] != "English (US)" || got[1] != "Spanish (Latin American)" {
		t.Errorf("extractArrayAfter = %v", got)
	}
}
