package main

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// NativeTheme is the default fyne theme with the data panel background and
// text size taken from the preferences
type NativeTheme struct {
	fyne.Theme
	isDark bool

	mu         sync.RWMutex
	background color.Color
	textSize   float32
}

func NewNativeTheme(dark bool) *NativeTheme {
	return &NativeTheme{
		Theme:  theme.DefaultTheme(),
		isDark: dark,
	}
}

// SetBackground overrides the background colour; nil restores the default
func (t *NativeTheme) SetBackground(c color.Color) {
	t.mu.Lock()
	t.background = c
	t.mu.Unlock()
}

// SetTextSize overrides the body text size; zero restores the default
func (t *NativeTheme) SetTextSize(size float32) {
	t.mu.Lock()
	t.textSize = size
	t.mu.Unlock()
}

func (t *NativeTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameForeground:
		if t.isDark {
			return color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
		}
		return color.RGBA{0x2e, 0x34, 0x40, 0xff}
	case theme.ColorNameBackground:
		t.mu.RLock()
		bg := t.background
		t.mu.RUnlock()
		if bg != nil {
			return bg
		}
		if t.isDark {
			return color.RGBA{0x1e, 0x1e, 0x1e, 0xff}
		}
		return color.RGBA{0xfa, 0xfa, 0xfa, 0xff}
	case theme.ColorNameSelection:
		if t.isDark {
			return color.RGBA{0x44, 0x47, 0x5a, 0x80}
		}
		return color.RGBA{0x00, 0x7a, 0xcc, 0x40}
	case theme.ColorNamePrimary:
		if t.isDark {
			return color.RGBA{0x00, 0xd4, 0xaa, 0xff}
		}
		return color.RGBA{0x00, 0x78, 0xd4, 0xff}
	}
	return t.Theme.Color(name, variant)
}

func (t *NativeTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameText {
		t.mu.RLock()
		size := t.textSize
		t.mu.RUnlock()
		if size > 0 {
			return size
		}
	}
	return t.Theme.Size(name)
}

func (t *NativeTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}
