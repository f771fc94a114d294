package layout

import (
	"strings"
)

type glyphs struct {
	topLeft, topRight       string
	bottomLeft, bottomRight string
	midLeft, midRight       string
	horizontal, vertical    string
}

var (
	unicodeGlyphs = glyphs{
		topLeft: "╔", topRight: "╗",
		bottomLeft: "╚", bottomRight: "╝",
		midLeft: "╠", midRight: "╣",
		horizontal: "═", vertical: "║",
	}
	asciiGlyphs = glyphs{
		topLeft: "+", topRight: "+",
		bottomLeft: "+", bottomRight: "+",
		midLeft: "+", midRight: "+",
		horizontal: "-", vertical: "|",
	}
)

// Border draws box lines in the double-line Unicode style or the +-| ASCII
// fallback
type Border struct {
	Unicode bool
}

// NewBorder picks the style that caps supports
func NewBorder(caps Capabilities) Border {
	return Border{Unicode: caps.Unicode}
}

func (b Border) glyphs() glyphs {
	if b.Unicode {
		return unicodeGlyphs
	}
	return asciiGlyphs
}

func (b Border) rule(width int) string {
	if width < 2 {
		width = 2
	}
	return strings.Repeat(b.glyphs().horizontal, width-2)
}

// Top draws the top border with title centered in it. A title that does
// not fit leaves a plain border.
func (b Border) Top(title string, width int) string {
	g := b.glyphs()
	inner := width - 2
	if inner < 0 {
		inner = 0
	}
	padded := " " + title + " "
	tw := DisplayWidth(padded)
	if title == "" || tw >= inner {
		return g.topLeft + strings.Repeat(g.horizontal, inner) + g.topRight
	}
	left := (inner - tw) / 2
	right := inner - tw - left
	return g.topLeft + strings.Repeat(g.horizontal, left) + padded + strings.Repeat(g.horizontal, right) + g.topRight
}

// Separator draws a horizontal divider inside the box
func (b Border) Separator(width int) string {
	g := b.glyphs()
	return g.midLeft + b.rule(width) + g.midRight
}

// Bottom draws the bottom border
func (b Border) Bottom(width int) string {
	g := b.glyphs()
	return g.bottomLeft + b.rule(width) + g.bottomRight
}

// Line wraps text in vertical borders with one space of padding on each
// side, truncating text that does not fit. Widths under 4 leave text as is.
func (b Border) Line(text string, width int, align Alignment) string {
	if width < 4 {
		return text
	}
	g := b.glyphs()
	inner := width - 4
	if DisplayWidth(text) > inner {
		text = TruncateToWidth(text, inner)
	}
	return g.vertical + " " + PadToWidth(text, inner, align, ' ') + " " + g.vertical
}

// BorderedLine is Line in the Unicode style
func BorderedLine(text string, width int, align Alignment) string {
	return Border{Unicode: true}.Line(text, width, align)
}

// OptimalBoxWidth clamps content between minWidth and maxWidth and keeps
// two columns of margin on each side of a terminal termWidth wide
func OptimalBoxWidth(minWidth, maxWidth, content, termWidth int) int {
	usable := termWidth
	if termWidth > 4 {
		usable = termWidth - 4
	}
	w := content
	if w < minWidth {
		w = minWidth
	}
	if w > maxWidth {
		w = maxWidth
	}
	if w > usable {
		w = usable
	}
	return w
}
