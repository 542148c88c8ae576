package terminal

import (
	"fmt"
	"strings"
)

// OpKind identifies a primitive render operation
type OpKind uint8

const (
	OpMoveTo OpKind = iota
	OpSetStyle
	OpWriteText
)

// Op is one primitive render operation; only the fields relevant to Kind are set
type Op struct {
	Kind  OpKind
	X, Y  int
	Style Style
	Text  string
}

// MoveTo builds a cursor move operation
func MoveTo(x, y int) Op {
	return Op{Kind: OpMoveTo, X: x, Y: y}
}

// SetStyle builds a style change operation
func SetStyle(s Style) Op {
	return Op{Kind: OpSetStyle, Style: s}
}

// WriteText builds a text write operation
func WriteText(s string) Op {
	return Op{Kind: OpWriteText, Text: s}
}

// String returns a compact human-readable form, used in test failures and debug logs
func (op Op) String() string {
	switch op.Kind {
	case OpMoveTo:
		return fmt.Sprintf("move(%d,%d)", op.X, op.Y)
	case OpSetStyle:
		return fmt.Sprintf("style(fg=%s,bg=%s,attrs=%#02x)", op.Style.Fg, op.Style.Bg, uint8(op.Style.Attrs))
	case OpWriteText:
		return fmt.Sprintf("write(%q)", op.Text)
	}
	return "unknown"
}

// Patch is an ordered sequence of render operations produced by Diff
type Patch []Op

// Apply executes the patch against a backend, stopping at the first failure
func (p Patch) Apply(b Backend) error {
	for _, op := range p {
		var err error
		switch op.Kind {
		case OpMoveTo:
			err = b.MoveCursorTo(op.X, op.Y)
		case OpSetStyle:
			err = b.SetStyle(op.Style)
		case OpWriteText:
			err = b.WriteText(op.Text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// StyleChanges returns the number of style operations
func (p Patch) StyleChanges() int {
	return p.count(OpSetStyle)
}

// CursorMoves returns the number of cursor move operations
func (p Patch) CursorMoves() int {
	return p.count(OpMoveTo)
}

func (p Patch) count(kind OpKind) int {
	n := 0
	for _, op := range p {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// String joins the operations with spaces
func (p Patch) String() string {
	parts := make([]string, len(p))
	for i, op := range p {
		parts[i] = op.String()
	}
	return strings.Join(parts, " ")
}
