package terminal

import "github.com/rivo/uniseg"

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone          Attr = 0
	AttrBold          Attr = 1 << 0
	AttrDim           Attr = 1 << 1
	AttrItalic        Attr = 1 << 2
	AttrUnderline     Attr = 1 << 3
	AttrBlink         Attr = 1 << 4
	AttrReverse       Attr = 1 << 5
	AttrStrikethrough Attr = 1 << 6
	AttrHidden        Attr = 1 << 7
)

// Style bundles foreground, background, and attributes
// Comparable with ==; the zero value is the terminal default
type Style struct {
	Fg    Color
	Bg    Color
	Attrs Attr
}

// StyleDefault is the terminal's default rendition
var StyleDefault = Style{}

// Foreground returns a copy of s with fg set
func (s Style) Foreground(c Color) Style {
	s.Fg = c
	return s
}

// Background returns a copy of s with bg set
func (s Style) Background(c Color) Style {
	s.Bg = c
	return s
}

// With returns a copy of s with attrs added
func (s Style) With(attrs Attr) Style {
	s.Attrs |= attrs
	return s
}

// Without returns a copy of s with attrs cleared
func (s Style) Without(attrs Attr) Style {
	s.Attrs &^= attrs
	return s
}

// Cell represents a single terminal cell
// Width is 0 for the continuation column of a wide grapheme
type Cell struct {
	Content string
	Width   uint8
	Style   Style
}

// BlankCell is a default-styled space
var BlankCell = Cell{Content: " ", Width: 1}

// NewCell builds a cell from a single grapheme cluster, measuring its display width
// Empty content yields a blank; zero-width content is rendered as a blank too
func NewCell(content string, style Style) Cell {
	if content == "" {
		return Cell{Content: " ", Width: 1, Style: style}
	}
	w := uniseg.StringWidth(content)
	switch {
	case w <= 0:
		return Cell{Content: " ", Width: 1, Style: style}
	case w > 2:
		w = 2
	}
	return Cell{Content: content, Width: uint8(w), Style: style}
}

// Equal reports exact match of content, width and style
func (c Cell) Equal(o Cell) bool {
	return c.Content == o.Content && c.Width == o.Width && c.Style == o.Style
}

// IsContinuation reports whether c is the right half of a wide grapheme
func (c Cell) IsContinuation() bool {
	return c.Width == 0
}

func continuationCell(style Style) Cell {
	return Cell{Style: style}
}
