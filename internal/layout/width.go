// Package layout measures and pads terminal text where CJK and fullwidth
// characters take two columns, and draws the boxes the menus are framed in.
package layout

import (
	"strings"
)

// wideRanges are the code point ranges drawn two columns wide
var wideRanges = [...]struct{ lo, hi rune }{
	{0x3000, 0x303F}, // CJK symbols and punctuation
	{0x3040, 0x309F}, // Hiragana
	{0x30A0, 0x30FF}, // Katakana
	{0x3400, 0x4DBF}, // CJK extension A
	{0x4E00, 0x9FFF}, // CJK unified ideographs
	{0xAC00, 0xD7AF}, // Hangul syllables
	{0xFF01, 0xFF5E}, // Fullwidth ASCII variants
}

// RuneWidth returns the number of columns r occupies
func RuneWidth(r rune) int {
	for _, w := range wideRanges {
		if r >= w.lo && r <= w.hi {
			return 2
		}
	}
	return 1
}

// DisplayWidth returns the number of columns s occupies
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += RuneWidth(r)
	}
	return n
}

// Alignment positions text inside a padded field
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// PadToWidth pads text with fill up to width columns. Text that is already
// at least width columns wide is returned unchanged.
func PadToWidth(text string, width int, align Alignment, fill rune) string {
	tw := DisplayWidth(text)
	if tw >= width {
		return text
	}
	pad := width - tw
	f := string(fill)

	switch align {
	case AlignRight:
		return strings.Repeat(f, pad) + text
	case AlignCenter:
		left := pad / 2
		return strings.Repeat(f, left) + text + strings.Repeat(f, pad-left)
	default:
		return text + strings.Repeat(f, pad)
	}
}

// TruncateToWidth cuts text to the longest prefix that fits in width columns.
// A wide rune that would straddle the limit is dropped.
func TruncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	n := 0
	for i, r := range text {
		w := RuneWidth(r)
		if n+w > width {
			return text[:i]
		}
		n += w
	}
	return text
}
