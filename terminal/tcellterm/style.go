package tcellterm

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cellterm/terminal"
)

// convertStyle maps a cell style to tcell, downsampling colors to depth
func convertStyle(s terminal.Style, depth terminal.ColorDepth) tcell.Style {
	fg := convertColor(s.Fg.Downsample(depth))
	bg := convertColor(s.Bg.Downsample(depth))
	if s.Attrs&terminal.AttrHidden != 0 {
		fg = bg
	}

	return tcell.StyleDefault.
		Foreground(fg).
		Background(bg).
		Bold(s.Attrs&terminal.AttrBold != 0).
		Dim(s.Attrs&terminal.AttrDim != 0).
		Italic(s.Attrs&terminal.AttrItalic != 0).
		Underline(s.Attrs&terminal.AttrUnderline != 0).
		Blink(s.Attrs&terminal.AttrBlink != 0).
		Reverse(s.Attrs&terminal.AttrReverse != 0).
		StrikeThrough(s.Attrs&terminal.AttrStrikethrough != 0)
}

func convertColor(c terminal.Color) tcell.Color {
	if idx, ok := c.Index(); ok {
		return tcell.PaletteColor(int(idx))
	}
	if c.IsRGB() {
		r, g, b := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return tcell.ColorDefault
}
