package terminal

import "strings"

// Diff computes the operations that turn a terminal showing prev into one showing next
//
// A nil prev, or one with different dimensions, forces a full repaint of next.
// Changed cells are grouped into maximal runs per row: one cursor move per run,
// one text write per same-style stretch, and a style change only when the style
// differs from the last one set in this patch. Unchanged cells emit nothing.
// A wide cell and its continuation column are compared and written as one unit.
func Diff(prev, next *Buffer) Patch {
	if next == nil {
		return nil
	}
	full := !next.SameSize(prev)

	d := differ{}
	for y := 0; y < next.height; y++ {
		row := next.Row(y)
		var old []Cell
		if !full {
			old = prev.Row(y)
		}

		x := 0
		for x < next.width {
			if !full && !cellChanged(old, row, x) {
				x += cellSpan(row, x)
				continue
			}

			// Start of run: position once, then write every contiguous changed cell
			d.ops = append(d.ops, MoveTo(x, y))
			for x < next.width && (full || cellChanged(old, row, x)) {
				c := row[x]
				content := c.Content
				if c.IsContinuation() || content == "" {
					// Orphaned continuation has no head to draw it
					content = " "
				}
				d.style(c.Style)
				d.text.WriteString(content)
				x += cellSpan(row, x)
			}
			d.flushText()
		}
	}
	return d.ops
}

// differ accumulates patch operations and the style state for coalescing
type differ struct {
	ops       []Op
	text      strings.Builder
	lastStyle Style
	lastValid bool
}

// style emits a style change only when s differs from the last style set
func (d *differ) style(s Style) {
	if d.lastValid && s == d.lastStyle {
		return
	}
	d.flushText()
	d.ops = append(d.ops, SetStyle(s))
	d.lastStyle = s
	d.lastValid = true
}

func (d *differ) flushText() {
	if d.text.Len() == 0 {
		return
	}
	d.ops = append(d.ops, WriteText(d.text.String()))
	d.text.Reset()
}

// cellChanged reports whether the unit starting at x differs, including a wide cell's continuation
func cellChanged(old, row []Cell, x int) bool {
	if !row[x].Equal(old[x]) {
		return true
	}
	if row[x].Width == 2 && x+1 < len(row) {
		return !row[x+1].Equal(old[x+1])
	}
	return false
}

// cellSpan returns the columns occupied by the cell at x
func cellSpan(row []Cell, x int) int {
	if row[x].Width == 2 && x+1 < len(row) {
		return 2
	}
	return 1
}
