package ansi

import "github.com/lixenwraith/cellterm/terminal"

// csiFinal maps CSI final bytes of the form ESC [ 1 ; m X
var csiFinal = map[byte]terminal.Key{
	'A': terminal.KeyUp,
	'B': terminal.KeyDown,
	'C': terminal.KeyRight,
	'D': terminal.KeyLeft,
	'H': terminal.KeyHome,
	'F': terminal.KeyEnd,
	'P': terminal.KeyF1,
	'Q': terminal.KeyF2,
	'R': terminal.KeyF3,
	'S': terminal.KeyF4,
	'Z': terminal.KeyBacktab,
}

// csiTilde maps the first parameter of ESC [ n ; m ~ (VT220 style)
var csiTilde = map[int]terminal.Key{
	1:  terminal.KeyHome,
	2:  terminal.KeyInsert,
	3:  terminal.KeyDelete,
	4:  terminal.KeyEnd,
	5:  terminal.KeyPageUp,
	6:  terminal.KeyPageDown,
	7:  terminal.KeyHome, // rxvt
	8:  terminal.KeyEnd,  // rxvt
	11: terminal.KeyF1,
	12: terminal.KeyF2,
	13: terminal.KeyF3,
	14: terminal.KeyF4,
	15: terminal.KeyF5,
	17: terminal.KeyF6,
	18: terminal.KeyF7,
	19: terminal.KeyF8,
	20: terminal.KeyF9,
	21: terminal.KeyF10,
	23: terminal.KeyF11,
	24: terminal.KeyF12,
}

// ss3Keys maps ESC O x
var ss3Keys = map[byte]terminal.Key{
	'A': terminal.KeyUp,
	'B': terminal.KeyDown,
	'C': terminal.KeyRight,
	'D': terminal.KeyLeft,
	'H': terminal.KeyHome,
	'F': terminal.KeyEnd,
	'P': terminal.KeyF1,
	'Q': terminal.KeyF2,
	'R': terminal.KeyF3,
	'S': terminal.KeyF4,
}

// lookupCSI resolves a CSI key sequence, keeping the raw modifier parameter
func lookupCSI(final byte, params []int) (keyInput, bool) {
	param := func(i int) int {
		if i < len(params) {
			return params[i]
		}
		return 0
	}

	if final == '~' {
		key, ok := csiTilde[param(0)]
		if !ok {
			return keyInput{}, false
		}
		return keyInput{key: key, param: param(1)}, true
	}

	key, ok := csiFinal[final]
	if !ok {
		return keyInput{}, false
	}
	// Bare forms like ESC [ A carry no parameters; ESC [ 1 ; 5 A carries modifier 5
	if len(params) > 2 || (len(params) == 2 && params[0] != 1) {
		return keyInput{}, false
	}
	return keyInput{key: key, param: param(1)}, true
}
