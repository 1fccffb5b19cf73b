package prefs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseColor parses a stored colour value. The canonical form is "r,g,b"
// with decimal components; hex forms ("#rrggbb", "rrggbb", "#rgb") are also
// accepted. Returns nil if the string is empty or invalid.
func ParseColor(s string) color.Color {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.Contains(s, ",") {
		return parseRGBList(s)
	}
	return parseHexColor(s)
}

func parseRGBList(s string) color.Color {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return nil
	}
	var c [4]uint8
	c[3] = 255
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return nil
		}
		c[i] = uint8(v)
	}
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

func parseHexColor(hex string) color.Color {
	hex = strings.TrimPrefix(hex, "#")

	// #RGB -> #RRGGBB
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// FormatColor converts c to the canonical "r,g,b" form. Alpha is dropped.
func FormatColor(c color.Color) string {
	if c == nil {
		return ""
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("%d,%d,%d", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// SameColor reports whether a and b have the same RGB components.
func SameColor(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return FormatColor(a) == FormatColor(b)
}
