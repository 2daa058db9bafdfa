// Package palette holds the fixed pastel colors offered for notes.
package palette

import (
	"sort"
	"strings"
)

const (
	Yellow = "#FFF7D1"
	Blue   = "#E2F0FB"
	Green  = "#E2FBE2"
	Pink   = "#FBE2E2"

	// Default is the color of a freshly created note.
	Default = Yellow
)

var named = map[string]string{
	"yellow": Yellow,
	"blue":   Blue,
	"green":  Green,
	"pink":   Pink,
}

// Lookup returns the hex value for a palette name (case-insensitive).
func Lookup(name string) (string, bool) {
	hex, ok := named[strings.ToLower(strings.TrimSpace(name))]
	return hex, ok
}

// Resolve maps a palette name to its hex value. Any other string is
// returned trimmed but otherwise untouched: notes may carry arbitrary colors.
func Resolve(color string) string {
	if hex, ok := Lookup(color); ok {
		return hex
	}
	return strings.TrimSpace(color)
}

// NameOf returns the palette name of a hex color, if it is one of ours.
func NameOf(color string) (string, bool) {
	for name, hex := range named {
		if strings.EqualFold(hex, strings.TrimSpace(color)) {
			return name, true
		}
	}
	return "", false
}

// Names returns the palette names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
