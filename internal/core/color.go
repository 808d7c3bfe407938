package core

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColor is used when a client asks for a colour that cannot be rendered.
const DefaultColor = "lime"

// namedColors maps the CSS colour keywords accepted from clients to hex values.
var namedColors = map[string]string{
	"aqua":    "#00ffff",
	"black":   "#000000",
	"blue":    "#0000ff",
	"coral":   "#ff7f50",
	"crimson": "#dc143c",
	"cyan":    "#00ffff",
	"fuchsia": "#ff00ff",
	"gold":    "#ffd700",
	"gray":    "#808080",
	"green":   "#008000",
	"grey":    "#808080",
	"hotpink": "#ff69b4",
	"indigo":  "#4b0082",
	"lime":    "#00ff00",
	"magenta": "#ff00ff",
	"maroon":  "#800000",
	"navy":    "#000080",
	"olive":   "#808000",
	"orange":  "#ffa500",
	"orchid":  "#da70d6",
	"pink":    "#ffc0cb",
	"purple":  "#800080",
	"red":     "#ff0000",
	"salmon":  "#fa8072",
	"silver":  "#c0c0c0",
	"teal":    "#008080",
	"tomato":  "#ff6347",
	"violet":  "#ee82ee",
	"white":   "#ffffff",
	"yellow":  "#ffff00",
}

// Palette is the ordered set of colours offered by interactive clients.
var Palette = []string{"lime", "red", "yellow", "cyan", "orange", "hotpink", "violet", "white"}

// ValidColor reports whether s is a renderable colour: a CSS keyword from the
// supported set or a #rgb / #rrggbb hex string.
func ValidColor(s string) bool {
	_, ok := parseColor(s)
	return ok
}

// ColorHex resolves a colour to its #rrggbb form. Unknown colours resolve to
// the default colour.
func ColorHex(s string) string {
	if c, ok := parseColor(s); ok {
		return c.Hex()
	}
	return namedColors[DefaultColor]
}

func parseColor(s string) (colorful.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return colorful.Color{}, false
	}
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}
