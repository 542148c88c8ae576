package terminal

// MouseButton names the button in a mouse event
// Wheel notches are reported as buttons that are pressed and never released.
type MouseButton uint8

const (
	MouseBtnNone MouseButton = iota // Motion or release with nothing held
	MouseBtnLeft
	MouseBtnMiddle
	MouseBtnRight
	MouseBtnWheelUp
	MouseBtnWheelDown
)

var buttonNames = [...]string{
	MouseBtnNone:      "None",
	MouseBtnLeft:      "Left",
	MouseBtnMiddle:    "Middle",
	MouseBtnRight:     "Right",
	MouseBtnWheelUp:   "WheelUp",
	MouseBtnWheelDown: "WheelDown",
}

func (b MouseButton) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return "None"
}

// IsWheel reports whether b is a scroll notch
func (b MouseButton) IsWheel() bool {
	return b == MouseBtnWheelUp || b == MouseBtnWheelDown
}

// MouseAction is what happened to the button
// Drag is motion with a button held, Move is motion with none.
type MouseAction uint8

const (
	MouseActionNone MouseAction = iota
	MouseActionPress
	MouseActionRelease
	MouseActionMove
	MouseActionDrag
)

var actionNames = [...]string{
	MouseActionNone:    "None",
	MouseActionPress:   "Press",
	MouseActionRelease: "Release",
	MouseActionMove:    "Move",
	MouseActionDrag:    "Drag",
}

func (a MouseAction) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "None"
}

// WheelEvent builds the single event a scroll notch produces; false when btn is not a wheel
func WheelEvent(btn MouseButton, x, y int, mods Modifier) (Event, bool) {
	if !btn.IsWheel() {
		return Event{}, false
	}
	return MouseEvent(btn, MouseActionPress, x, y, mods), true
}
