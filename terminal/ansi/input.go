package ansi

import (
	"unicode/utf8"

	"github.com/lixenwraith/cellterm/terminal"
)

// keyInput is a keystroke as the terminal encoded it
type keyInput struct {
	key   terminal.Key // KeyRune for characters and raw control bytes
	r     rune
	ctrl  bool // r holds a raw C0 control byte
	param int  // xterm modifier parameter (1 + bits), 0 when absent
	esc   bool // ESC prefix (Alt)
}

// mouseInput is an SGR, urxvt or X10 mouse report
type mouseInput struct {
	cb      int  // Button code including modifier and motion bits
	x, y    int  // 1-based
	release bool // SGR final 'm'
	legacy  bool // X10 or urxvt encoding, release reported as button 3
}

// resizeInput reports a SIGWINCH with the size read after it
type resizeInput struct {
	width, height int
}

// unknownInput is a well-formed sequence without a known meaning
type unknownInput struct {
	seq string
}

// maxCSI bounds the scan for a CSI terminator before the sequence is discarded
const maxCSI = 32

// parser assembles the raw input stream into native events
type parser struct {
	// Persistent buffer for stream assembly, keeps partial sequences and UTF-8 across reads
	buf    []byte
	events []terminal.NativeEvent
}

// feed appends data and decodes every complete sequence
func (p *parser) feed(data []byte) {
	p.buf = append(p.buf, data...)
	p.parse()
}

// pending reports whether an incomplete sequence waits for more bytes
func (p *parser) pending() bool {
	return len(p.buf) > 0
}

// expire resolves an incomplete sequence after the escape timeout
// A lone ESC becomes the Escape key. ESC followed by the start of a sequence that
// never completed is Alt plus that character, and the bytes after it are parsed again.
func (p *parser) expire() {
	for len(p.buf) > 0 {
		skip := 1
		switch {
		case p.buf[0] != 0x1b:
			// Truncated UTF-8 is dropped
		case len(p.buf) > 1 && p.buf[1] >= 0x20 && p.buf[1] < 0x7f:
			p.emit(keyInput{key: terminal.KeyRune, r: rune(p.buf[1]), esc: true})
			skip = 2
		default:
			p.emit(keyInput{key: terminal.KeyEscape})
		}
		p.buf = p.buf[skip:]
		p.parse()
	}
}

// next pops the oldest decoded event
func (p *parser) next() (terminal.NativeEvent, bool) {
	if len(p.events) == 0 {
		return nil, false
	}
	ev := p.events[0]
	p.events[0] = nil
	p.events = p.events[1:]
	return ev, true
}

func (p *parser) emit(ev terminal.NativeEvent) {
	p.events = append(p.events, ev)
}

func (p *parser) parse() {
	consumed := p.parseInput(p.buf)
	if consumed >= len(p.buf) {
		p.buf = p.buf[:0]
		return
	}
	n := copy(p.buf, p.buf[consumed:])
	p.buf = p.buf[:n]
}

// parseInput decodes data and returns bytes consumed (stop on incomplete sequence)
func (p *parser) parseInput(data []byte) int {
	i := 0
	n := len(data)

	for i < n {
		b := data[i]

		switch {
		case b >= 0x20 && b < 0x7f:
			p.emit(keyInput{key: terminal.KeyRune, r: rune(b)})
			i++

		case b == 0x1b:
			if i+1 >= n {
				return i // Wait for more data or the escape timeout
			}
			consumed, ev := parseEscape(data[i:])
			if consumed == 0 {
				return i
			}
			p.emit(ev)
			i += consumed

		case b < 0x20:
			p.emit(keyInput{key: terminal.KeyRune, r: rune(b), ctrl: true})
			i++

		case b == 0x7f:
			p.emit(keyInput{key: terminal.KeyBackspace})
			i++

		default:
			r, size, ok := decodeRune(data[i:])
			if !ok {
				return i
			}
			if r == utf8.RuneError && size == 1 {
				// Invalid byte
				i++
				continue
			}
			p.emit(keyInput{key: terminal.KeyRune, r: r})
			i += size
		}
	}
	return i
}

// decodeRune decodes one UTF-8 rune; ok is false while the sequence is incomplete
func decodeRune(data []byte) (rune, int, bool) {
	if !utf8.FullRune(data) {
		return 0, 0, false
	}
	r, size := utf8.DecodeRune(data)
	return r, size, true
}

// parseEscape decodes a sequence starting with ESC, returns 0 on incomplete
func parseEscape(data []byte) (int, terminal.NativeEvent) {
	switch b := data[1]; {
	case b == 0x1b:
		// ESC ESC -> Alt+Escape
		return 2, keyInput{key: terminal.KeyEscape, esc: true}
	case b == '[':
		return parseCSI(data)
	case b == 'O':
		return parseSS3(data)
	case b < 0x20:
		return 2, keyInput{key: terminal.KeyRune, r: rune(b), ctrl: true, esc: true}
	case b == 0x7f:
		return 2, keyInput{key: terminal.KeyBackspace, esc: true}
	case b < 0x80:
		return 2, keyInput{key: terminal.KeyRune, r: rune(b), esc: true}
	}

	r, size, ok := decodeRune(data[1:])
	if !ok {
		return 0, nil
	}
	return 1 + size, keyInput{key: terminal.KeyRune, r: r, esc: true}
}

// parseCSI decodes ESC [ ..., including mouse reports
func parseCSI(data []byte) (int, terminal.NativeEvent) {
	if len(data) < 3 {
		return 0, nil
	}

	switch data[2] {
	case '<':
		return parseSGRMouse(data)
	case 'M':
		return parseX10Mouse(data)
	}

	end := 2
	for ; end < len(data); end++ {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if b < 0x20 || b > 0x3f {
			// Not a CSI parameter byte, discard what was scanned
			return end, unknownInput{seq: string(data[:end])}
		}
		if end-2 >= maxCSI {
			return end, unknownInput{seq: string(data[:end])}
		}
	}
	if end >= len(data) {
		return 0, nil // Incomplete
	}

	seq := string(data[:end+1])
	params, ok := parseParams(data[2:end])
	if !ok {
		return end + 1, unknownInput{seq: seq}
	}
	if data[end] == 'M' && len(params) == 3 {
		// urxvt 1015: ESC [ cb ; x ; y M, cb offset by 32 as in X10
		return end + 1, mouseInput{
			cb:     params[0] - 32,
			x:      params[1],
			y:      params[2],
			legacy: true,
		}
	}
	if ev, ok := lookupCSI(data[end], params); ok {
		return end + 1, ev
	}
	return end + 1, unknownInput{seq: seq}
}

// parseSS3 decodes ESC O x, sent for F1-F4 and in application cursor mode
func parseSS3(data []byte) (int, terminal.NativeEvent) {
	if len(data) < 3 {
		return 0, nil
	}
	if key, ok := ss3Keys[data[2]]; ok {
		return 3, keyInput{key: key}
	}
	return 3, unknownInput{seq: string(data[:3])}
}

// parseSGRMouse parses ESC [ < Btn ; X ; Y M/m
func parseSGRMouse(data []byte) (int, terminal.NativeEvent) {
	end := 3
	for end < len(data) && data[end] != 'M' && data[end] != 'm' {
		b := data[end]
		if (b < '0' || b > '9') && b != ';' {
			return end, unknownInput{seq: string(data[:end])}
		}
		if end-3 >= maxCSI {
			return end, unknownInput{seq: string(data[:end])}
		}
		end++
	}
	if end >= len(data) {
		return 0, nil
	}

	params, ok := parseParams(data[3:end])
	if !ok || len(params) != 3 {
		return end + 1, unknownInput{seq: string(data[:end+1])}
	}
	return end + 1, mouseInput{
		cb:      params[0],
		x:       params[1],
		y:       params[2],
		release: data[end] == 'm',
	}
}

// parseX10Mouse parses ESC [ M cb cx cy, each byte offset by 32
func parseX10Mouse(data []byte) (int, terminal.NativeEvent) {
	if len(data) < 6 {
		return 0, nil
	}
	return 6, mouseInput{
		cb:     int(data[3]) - 32,
		x:      int(data[4]) - 32,
		y:      int(data[5]) - 32,
		legacy: true,
	}
}

// parseParams splits "1;5" style parameters; empty parameters are 0
func parseParams(data []byte) ([]int, bool) {
	if len(data) == 0 {
		return nil, true
	}
	params := make([]int, 1, 4)
	for _, b := range data {
		switch {
		case b == ';':
			params = append(params, 0)
		case b >= '0' && b <= '9':
			v := &params[len(params)-1]
			*v = *v*10 + int(b-'0')
			if *v > 9999 { // Sanity limit
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return params, true
}
