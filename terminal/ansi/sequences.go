package ansi

import (
	"bufio"

	"github.com/lixenwraith/cellterm/terminal"
)

// Pre-allocated ANSI sequence fragments (avoid allocations during render)
var (
	csi      = []byte("\x1b[")
	csiSGR0  = []byte("\x1b[0m")
	csiClear = []byte("\x1b[0m\x1b[2J\x1b[H")

	// Cursor control
	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	// Screen modes
	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	// DECAWM off: cursor sticks at the right edge, writing the bottom-right cell never scrolls
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")

	// Button, drag, urxvt and SGR mouse reporting
	csiMouseEnable  = []byte("\x1b[?1000h\x1b[?1002h\x1b[?1015h\x1b[?1006h")
	csiMouseDisable = []byte("\x1b[?1006l\x1b[?1015l\x1b[?1002l\x1b[?1000l")
)

// SGR attribute parameters in emission order
var sgrAttrs = [...]struct {
	attr  terminal.Attr
	param byte
}{
	{terminal.AttrBold, '1'},
	{terminal.AttrDim, '2'},
	{terminal.AttrItalic, '3'},
	{terminal.AttrUnderline, '4'},
	{terminal.AttrBlink, '5'},
	{terminal.AttrReverse, '7'},
	{terminal.AttrHidden, '8'},
	{terminal.AttrStrikethrough, '9'},
}

// writeInt writes an integer without allocation
// Optimized for terminal values (0-255 common, 0-999 typical max)
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	if n < 1000 {
		w.WriteByte(byte(n/100) + '0')
		w.WriteByte(byte(n/10%10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [20]byte
	i := len(buf) - 1
	for n > 0 {
		buf[i] = byte(n%10) + '0'
		n /= 10
		i--
	}
	w.Write(buf[i+1:])
}

// writeCursorPos writes cursor positioning sequence (0-indexed input)
func writeCursorPos(w *bufio.Writer, x, y int) {
	w.Write(csi)
	writeInt(w, y+1)
	w.WriteByte(';')
	writeInt(w, x+1)
	w.WriteByte('H')
}
