package app

import (
	"github.com/mattn/go-runewidth"
)

// truncateToWidth clips a string to a display-cell width, appending an
// ellipsis when anything was cut.
func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// padToWidth right-pads a string with spaces up to a display-cell width.
func padToWidth(s string, width int) string {
	return runewidth.FillRight(truncateToWidth(s, width), width)
}
