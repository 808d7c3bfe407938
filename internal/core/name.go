package core

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// DefaultName is used when a client spawns without a name.
const DefaultName = "Unknown"

// MaxNameWidth is the widest name, in terminal cells, kept for display.
const MaxNameWidth = 16

// SanitizeName strips control characters and surrounding whitespace from a
// player name and truncates it to MaxNameWidth cells. Empty names become
// DefaultName.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	return runewidth.Truncate(name, MaxNameWidth, "")
}
