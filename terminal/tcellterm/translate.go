package tcellterm

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cellterm/terminal"
)

// specialKeys maps tcell keys with a canonical name
// tcell aliases Enter, Tab, Backspace and Escape to control codes, so they are matched here first
var specialKeys = map[tcell.Key]terminal.Key{
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyBacktab:    terminal.KeyBacktab,
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyDelete:     terminal.KeyDelete,
	tcell.KeyInsert:     terminal.KeyInsert,
	tcell.KeyUp:         terminal.KeyUp,
	tcell.KeyDown:       terminal.KeyDown,
	tcell.KeyLeft:       terminal.KeyLeft,
	tcell.KeyRight:      terminal.KeyRight,
	tcell.KeyHome:       terminal.KeyHome,
	tcell.KeyEnd:        terminal.KeyEnd,
	tcell.KeyPgUp:       terminal.KeyPageUp,
	tcell.KeyPgDn:       terminal.KeyPageDown,
	tcell.KeyF1:         terminal.KeyF1,
	tcell.KeyF2:         terminal.KeyF2,
	tcell.KeyF3:         terminal.KeyF3,
	tcell.KeyF4:         terminal.KeyF4,
	tcell.KeyF5:         terminal.KeyF5,
	tcell.KeyF6:         terminal.KeyF6,
	tcell.KeyF7:         terminal.KeyF7,
	tcell.KeyF8:         terminal.KeyF8,
	tcell.KeyF9:         terminal.KeyF9,
	tcell.KeyF10:        terminal.KeyF10,
	tcell.KeyF11:        terminal.KeyF11,
	tcell.KeyF12:        terminal.KeyF12,
}

func convertMods(m tcell.ModMask) terminal.Modifier {
	var mods terminal.Modifier
	if m&tcell.ModShift != 0 {
		mods |= terminal.ModShift
	}
	if m&(tcell.ModAlt|tcell.ModMeta) != 0 {
		mods |= terminal.ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		mods |= terminal.ModCtrl
	}
	return mods
}

func translateKey(ev *tcell.EventKey) (terminal.Event, bool) {
	mods := convertMods(ev.Modifiers())
	key := ev.Key()

	if key == tcell.KeyRune {
		r := ev.Rune()
		// Ctrl+letter reported as a rune carries the letter in either case
		if mods&terminal.ModCtrl != 0 && mods&terminal.ModShift == 0 {
			r = unicode.ToLower(r)
		}
		return terminal.RuneEvent(r, mods), true
	}
	if k, ok := specialKeys[key]; ok {
		return terminal.KeyEvent(k, 0, mods), true
	}

	// tcell reports a control byte b as KeyCtrlSpace+b, so the key value is the
	// character that was pressed with Ctrl
	switch {
	case key == tcell.KeyCtrlSpace:
		return terminal.RuneEvent(' ', mods|terminal.ModCtrl), true
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
		return terminal.RuneEvent(rune('a'+key-tcell.KeyCtrlA), mods|terminal.ModCtrl), true
	case key >= tcell.KeyCtrlBackslash && key <= tcell.KeyCtrlUnderscore:
		return terminal.RuneEvent(rune(key), mods|terminal.ModCtrl), true
	case key >= tcell.KeySOH && key <= tcell.KeySUB:
		// Raw C0 codes, e.g. from Screen.InjectKeyBytes
		return terminal.RuneEvent(rune('a'+key-tcell.KeySOH), mods|terminal.ModCtrl), true
	}
	return terminal.Event{}, false
}

const primaryButtons = tcell.Button1 | tcell.Button2 | tcell.Button3

func buttonOf(m tcell.ButtonMask) terminal.MouseButton {
	switch {
	case m&tcell.Button1 != 0:
		return terminal.MouseBtnLeft
	case m&tcell.Button3 != 0:
		return terminal.MouseBtnMiddle
	case m&tcell.Button2 != 0:
		return terminal.MouseBtnRight
	}
	return terminal.MouseBtnNone
}

func wheelOf(m tcell.ButtonMask) terminal.MouseButton {
	switch {
	case m&tcell.WheelUp != 0:
		return terminal.MouseBtnWheelUp
	case m&tcell.WheelDown != 0:
		return terminal.MouseBtnWheelDown
	}
	return terminal.MouseBtnNone
}

// translateMouse derives the action from the buttons held at the previous event
func (b *Backend) translateMouse(ev *tcell.EventMouse) (terminal.Event, bool) {
	x, y := ev.Position()
	if x < 0 || y < 0 {
		return terminal.Event{}, false
	}
	mods := convertMods(ev.Modifiers())
	buttons := ev.Buttons()

	if buttons&(tcell.WheelUp|tcell.WheelDown|tcell.WheelLeft|tcell.WheelRight) != 0 {
		// Horizontal scroll maps to no button and is dropped
		return terminal.WheelEvent(wheelOf(buttons), x, y, mods)
	}

	held := buttons & primaryButtons
	prev := b.lastButtons
	b.lastButtons = held

	switch {
	case held != 0 && prev&held == held:
		return terminal.MouseEvent(buttonOf(held), terminal.MouseActionDrag, x, y, mods), true
	case held != 0:
		return terminal.MouseEvent(buttonOf(held&^prev), terminal.MouseActionPress, x, y, mods), true
	case prev != 0:
		return terminal.MouseEvent(buttonOf(prev), terminal.MouseActionRelease, x, y, mods), true
	}
	return terminal.MouseEvent(terminal.MouseBtnNone, terminal.MouseActionMove, x, y, mods), true
}
