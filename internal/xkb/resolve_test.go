package xkb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLayoutDirect(t *testing.T) {
	assert.Equal(t, LayoutID{"latam", ""}, ResolveLayout("Spanish (Latin American)"))
	assert.Equal(t, LayoutID{"us", ""}, ResolveLayout("English (US)"))
	assert.Equal(t, LayoutID{"de", ""}, ResolveLayout("German"))
	assert.Equal(t, LayoutID{"ca", "fr"}, ResolveLayout("French (Canada)"))
	assert.Equal(t, LayoutID{"us", "dvorak"}, ResolveLayout("English (Dvorak)"))
	assert.Equal(t, LayoutID{"ch", "de"}, ResolveLayout("German (Switzerland)"))
}

func TestResolveLayoutCaseInsensitive(t *testing.T) {
	assert.Equal(t, LayoutID{"de", ""}, ResolveLayout("german"))
	assert.Equal(t, LayoutID{"us", ""}, ResolveLayout("ENGLISH (US)"))
}

func TestResolveLayoutBaseLanguage(t *testing.T) {
	// Unmapped variants fall back to the language's base layout.
	assert.Equal(t, LayoutID{"fr", ""}, ResolveLayout("French (some custom variant)"))
	assert.Equal(t, LayoutID{"es", ""}, ResolveLayout("Spanish (Chile)"))
}

func TestResolveLayoutShortCode(t *testing.T) {
	assert.Equal(t, LayoutID{"us", ""}, ResolveLayout("us"))
	assert.Equal(t, LayoutID{"de", ""}, ResolveLayout("de"))
	assert.Equal(t, LayoutID{"latam", ""}, ResolveLayout("latam"))
	assert.Equal(t, LayoutID{"gb", ""}, ResolveLayout(" gb "))
}

func TestResolveLayoutFallback(t *testing.T) {
	assert.Equal(t, LayoutID{"us", ""}, ResolveLayout("Unknown Layout XYZ"))
	assert.Equal(t, LayoutID{"us", ""}, ResolveLayout(""))
	// Too long to be a layout code, not in any table.
	assert.Equal(t, LayoutID{"us", ""}, ResolveLayout("abcdefgh"))
}
