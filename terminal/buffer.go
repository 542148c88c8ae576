package terminal

import (
	"fmt"

	"github.com/rivo/uniseg"
)

// Buffer is a fixed-size grid of cells representing one frame
// Cells are row-major: cells[y*width + x]; dimensions never change after construction
type Buffer struct {
	cells  []Cell
	width  int
	height int
}

// NewBuffer creates a buffer filled with blank cells; negative dimensions are treated as zero
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{
		cells:  make([]Cell, width*height),
		width:  width,
		height: height,
	}
	b.Fill(StyleDefault)
	return b
}

// Width returns the number of columns
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the number of rows
func (b *Buffer) Height() int {
	return b.height
}

// Size returns width and height
func (b *Buffer) Size() (int, int) {
	return b.width, b.height
}

// SameSize reports whether o has identical dimensions
func (b *Buffer) SameSize(o *Buffer) bool {
	return o != nil && b.width == o.width && b.height == o.height
}

// inBounds returns true if in buffer bounds
func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Get returns the cell at (x, y); out of bounds yields a blank cell and false
func (b *Buffer) Get(x, y int) (Cell, bool) {
	if !b.inBounds(x, y) {
		return BlankCell, false
	}
	return b.cells[y*b.width+x], true
}

// Row returns the cells of row y; the slice aliases the buffer and must not be modified
func (b *Buffer) Row(y int) []Cell {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.width
	return b.cells[start : start+b.width : start+b.width]
}

// Set writes a cell at (x, y)
// A wide cell that does not fit in the last column is written as a blank with the same style
// Overwriting either half of an existing wide cell blanks the other half
func (b *Buffer) Set(x, y int, c Cell) error {
	if !b.inBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, b.width, b.height)
	}
	if c.Content == "" || c.Width == 0 {
		c = Cell{Content: " ", Width: 1, Style: c.Style}
	}
	if c.Width > 2 {
		c.Width = 2
	}

	b.release(x, y)
	idx := y*b.width + x

	if c.Width == 2 {
		if x+1 >= b.width {
			b.cells[idx] = Cell{Content: " ", Width: 1, Style: c.Style}
			return nil
		}
		b.release(x+1, y)
		b.cells[idx] = c
		b.cells[idx+1] = continuationCell(c.Style)
		return nil
	}

	b.cells[idx] = c
	return nil
}

// SetContent writes a single grapheme cluster at (x, y)
func (b *Buffer) SetContent(x, y int, content string, style Style) error {
	return b.Set(x, y, NewCell(content, style))
}

// SetString writes s starting at (x, y), one grapheme per cell, clipping at the right edge
// Returns the number of columns written
func (b *Buffer) SetString(x, y int, s string, style Style) int {
	if y < 0 || y >= b.height {
		return 0
	}
	col := x
	state := -1
	for len(s) > 0 {
		var cluster string
		var w int
		cluster, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		if w <= 0 {
			// Zero-width clusters (stray combining marks, controls) occupy no cell
			continue
		}
		if w > 2 {
			w = 2
		}
		if col >= b.width {
			break
		}
		if col >= 0 {
			_ = b.Set(col, y, Cell{Content: cluster, Width: uint8(w), Style: style})
		}
		col += w
	}
	if col > b.width {
		col = b.width
	}
	if x < 0 {
		x = 0
	}
	if col < x {
		return 0
	}
	return col - x
}

// Fill sets every cell to a blank with the given style
func (b *Buffer) Fill(style Style) {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = Cell{Content: " ", Width: 1, Style: style}
	// Exponential copy
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// Clear resets every cell to the default blank
func (b *Buffer) Clear() {
	b.Fill(StyleDefault)
}

// Clone returns an independent copy
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{
		cells:  make([]Cell, len(b.cells)),
		width:  b.width,
		height: b.height,
	}
	copy(c.cells, b.cells)
	return c
}

// Equal reports whether o has the same dimensions and identical cells
func (b *Buffer) Equal(o *Buffer) bool {
	if !b.SameSize(o) {
		return false
	}
	for i := range b.cells {
		if !b.cells[i].Equal(o.cells[i]) {
			return false
		}
	}
	return true
}

// release blanks the partner half of a wide cell overlapping (x, y)
func (b *Buffer) release(x, y int) {
	idx := y*b.width + x
	cur := b.cells[idx]
	switch {
	case cur.Width == 0 && x > 0:
		head := &b.cells[idx-1]
		if head.Width == 2 {
			*head = Cell{Content: " ", Width: 1, Style: head.Style}
		}
	case cur.Width == 2 && x+1 < b.width:
		b.cells[idx+1] = Cell{Content: " ", Width: 1, Style: cur.Style}
	}
}
