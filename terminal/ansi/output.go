package ansi

import (
	"bufio"
	"io"

	"github.com/lixenwraith/cellterm/terminal"
)

// output buffers escape sequences until flush, coalescing style changes into single SGR sequences
type output struct {
	w     *bufio.Writer
	depth terminal.ColorDepth

	// Style state for coalescing
	last      terminal.Style
	lastValid bool
}

func newOutput(w io.Writer, depth terminal.ColorDepth) *output {
	return &output{
		w:     bufio.NewWriterSize(w, 131072), // 128KB buffer
		depth: depth,
	}
}

// err reports the first write failure; bufio errors are sticky
func (o *output) err() error {
	_, err := o.w.Write(nil)
	return err
}

func (o *output) moveTo(x, y int) {
	writeCursorPos(o.w, x, y)
}

func (o *output) text(s string) {
	o.w.WriteString(s)
}

func (o *output) raw(seq []byte) {
	o.w.Write(seq)
}

// clear erases the screen with default colors and homes the cursor
func (o *output) clear() {
	o.w.Write(csiClear)
	o.lastValid = false
}

// reset returns to default rendition
func (o *output) reset() {
	o.w.Write(csiSGR0)
	o.lastValid = false
}

func (o *output) flush() error {
	return o.w.Flush()
}

// setStyle emits a single combined SGR sequence when style changes
func (o *output) setStyle(s terminal.Style) {
	s.Fg = s.Fg.Downsample(o.depth)
	s.Bg = s.Bg.Downsample(o.depth)

	fgChanged := !o.lastValid || s.Fg != o.last.Fg
	bgChanged := !o.lastValid || s.Bg != o.last.Bg
	attrChanged := !o.lastValid || s.Attrs != o.last.Attrs

	if !fgChanged && !bgChanged && !attrChanged {
		return
	}

	w := o.w
	w.Write(csi)
	if attrChanged {
		// Attributes can only be cleared by a reset, colors are re-sent after it
		w.WriteByte('0')
		for _, a := range sgrAttrs {
			if s.Attrs&a.attr != 0 {
				w.WriteByte(';')
				w.WriteByte(a.param)
			}
		}
		if !s.Fg.IsDefault() {
			w.WriteByte(';')
			writeColor(w, s.Fg, true)
		}
		if !s.Bg.IsDefault() {
			w.WriteByte(';')
			writeColor(w, s.Bg, false)
		}
	} else {
		// Only colors changed, emit minimal sequence
		if fgChanged {
			writeColor(w, s.Fg, true)
		}
		if fgChanged && bgChanged {
			w.WriteByte(';')
		}
		if bgChanged {
			writeColor(w, s.Bg, false)
		}
	}
	w.WriteByte('m')

	o.last = s
	o.lastValid = true
}

// writeColor writes SGR color parameters (no CSI prefix, no 'm' suffix)
func writeColor(w *bufio.Writer, c terminal.Color, fg bool) {
	if c.IsDefault() {
		if fg {
			w.WriteString("39")
		} else {
			w.WriteString("49")
		}
		return
	}

	if idx, ok := c.Index(); ok {
		switch {
		case idx < 8:
			base := 30
			if !fg {
				base = 40
			}
			writeInt(w, base+int(idx))
		case idx < 16:
			base := 90
			if !fg {
				base = 100
			}
			writeInt(w, base+int(idx)-8)
		default:
			if fg {
				w.WriteString("38;5;")
			} else {
				w.WriteString("48;5;")
			}
			writeInt(w, int(idx))
		}
		return
	}

	r, g, b := c.RGB()
	if fg {
		w.WriteString("38;2;")
	} else {
		w.WriteString("48;2;")
	}
	writeInt(w, int(r))
	w.WriteByte(';')
	writeInt(w, int(g))
	w.WriteByte(';')
	writeInt(w, int(b))
}
