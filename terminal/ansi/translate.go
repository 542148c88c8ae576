package ansi

import "github.com/lixenwraith/cellterm/terminal"

// xterm modifier parameter bits, after subtracting 1
const (
	xtermShift = 1
	xtermAlt   = 2
	xtermCtrl  = 4
	xtermMeta  = 8
)

// Mouse button code bits shared by SGR and X10 reports
const (
	mouseShift  = 4
	mouseAlt    = 8
	mouseCtrl   = 16
	mouseMotion = 32
	mouseWheel  = 64
)

// translate maps a native event to a canonical one
func translate(ev terminal.NativeEvent) (terminal.Event, bool) {
	switch e := ev.(type) {
	case keyInput:
		return translateKey(e)
	case mouseInput:
		return translateMouse(e)
	case resizeInput:
		if e.width <= 0 || e.height <= 0 {
			return terminal.Event{}, false
		}
		return terminal.ResizeEvent(e.width, e.height), true
	}
	return terminal.Event{}, false
}

func translateKey(k keyInput) (terminal.Event, bool) {
	var mods terminal.Modifier
	if k.param > 1 {
		bits := k.param - 1
		if bits&xtermShift != 0 {
			mods |= terminal.ModShift
		}
		if bits&(xtermAlt|xtermMeta) != 0 {
			mods |= terminal.ModAlt
		}
		if bits&xtermCtrl != 0 {
			mods |= terminal.ModCtrl
		}
	}
	if k.esc {
		mods |= terminal.ModAlt
	}

	if !k.ctrl {
		if k.key == terminal.KeyNone {
			return terminal.Event{}, false
		}
		r := k.r
		if k.key != terminal.KeyRune {
			r = 0
		}
		return terminal.KeyEvent(k.key, r, mods), true
	}

	// Raw C0 control byte
	switch b := byte(k.r); {
	case b == 0x08:
		return terminal.KeyEvent(terminal.KeyBackspace, 0, mods), true
	case b == 0x09:
		return terminal.KeyEvent(terminal.KeyTab, 0, mods), true
	case b == 0x0a || b == 0x0d:
		return terminal.KeyEvent(terminal.KeyEnter, 0, mods), true
	case b == 0x1b:
		return terminal.KeyEvent(terminal.KeyEscape, 0, mods), true
	case b == 0x00:
		return terminal.RuneEvent(' ', mods|terminal.ModCtrl), true
	case b >= 0x01 && b <= 0x1a:
		return terminal.RuneEvent(rune('a'+b-1), mods|terminal.ModCtrl), true
	case b >= 0x1c && b <= 0x1f:
		// Ctrl+\ Ctrl+] Ctrl+^ Ctrl+_
		return terminal.RuneEvent(rune(b+0x40), mods|terminal.ModCtrl), true
	}
	return terminal.Event{}, false
}

func translateMouse(m mouseInput) (terminal.Event, bool) {
	x, y := m.x-1, m.y-1
	if x < 0 || y < 0 || m.cb < 0 {
		return terminal.Event{}, false
	}

	var mods terminal.Modifier
	if m.cb&mouseShift != 0 {
		mods |= terminal.ModShift
	}
	if m.cb&mouseAlt != 0 {
		mods |= terminal.ModAlt
	}
	if m.cb&mouseCtrl != 0 {
		mods |= terminal.ModCtrl
	}

	low := m.cb & 0x03
	if m.cb&mouseWheel != 0 {
		// Low bits 2 and 3 are horizontal scroll, which has no canonical button
		wheel := terminal.MouseBtnNone
		switch low {
		case 0:
			wheel = terminal.MouseBtnWheelUp
		case 1:
			wheel = terminal.MouseBtnWheelDown
		}
		return terminal.WheelEvent(wheel, x, y, mods)
	}

	btn := terminal.MouseBtnNone
	switch low {
	case 0:
		btn = terminal.MouseBtnLeft
	case 1:
		btn = terminal.MouseBtnMiddle
	case 2:
		btn = terminal.MouseBtnRight
	}

	var action terminal.MouseAction
	switch {
	case m.cb&mouseMotion != 0 && btn == terminal.MouseBtnNone:
		action = terminal.MouseActionMove
	case m.cb&mouseMotion != 0:
		action = terminal.MouseActionDrag
	case m.release, m.legacy && btn == terminal.MouseBtnNone:
		action = terminal.MouseActionRelease
	default:
		action = terminal.MouseActionPress
	}
	if action == terminal.MouseActionPress && btn == terminal.MouseBtnNone {
		return terminal.Event{}, false
	}
	return terminal.MouseEvent(btn, action, x, y, mods), true
}
