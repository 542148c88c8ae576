package terminal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

type colorKind uint8

const (
	colorDefault colorKind = iota
	colorPalette
	colorRGB
)

// Color is a terminal color: the terminal default, an xterm 256-palette index, or 24-bit RGB
// The zero value is the terminal default color
type Color struct {
	kind    colorKind
	r, g, b uint8 // palette index is stored in r
}

// ColorDefault leaves the color to the terminal
var ColorDefault = Color{}

// ANSI base colors (palette 0-15)
var (
	ColorBlack         = Palette(0)
	ColorRed           = Palette(1)
	ColorGreen         = Palette(2)
	ColorYellow        = Palette(3)
	ColorBlue          = Palette(4)
	ColorMagenta       = Palette(5)
	ColorCyan          = Palette(6)
	ColorWhite         = Palette(7)
	ColorBrightBlack   = Palette(8)
	ColorBrightRed     = Palette(9)
	ColorBrightGreen   = Palette(10)
	ColorBrightYellow  = Palette(11)
	ColorBrightBlue    = Palette(12)
	ColorBrightMagenta = Palette(13)
	ColorBrightCyan    = Palette(14)
	ColorBrightWhite   = Palette(15)
)

// Palette returns an xterm 256-palette color
func Palette(index uint8) Color {
	return Color{kind: colorPalette, r: index}
}

// TrueColor returns a 24-bit color
func TrueColor(r, g, b uint8) Color {
	return Color{kind: colorRGB, r: r, g: g, b: b}
}

// IsDefault reports whether c is the terminal default color
func (c Color) IsDefault() bool {
	return c.kind == colorDefault
}

// Index returns the palette index if c is a palette color
func (c Color) Index() (uint8, bool) {
	if c.kind != colorPalette {
		return 0, false
	}
	return c.r, true
}

// IsRGB reports whether c is a 24-bit color
func (c Color) IsRGB() bool {
	return c.kind == colorRGB
}

// RGB returns the 24-bit value of c, resolving palette indices with the xterm defaults
// The default color resolves to black
func (c Color) RGB() (r, g, b uint8) {
	switch c.kind {
	case colorRGB:
		return c.r, c.g, c.b
	case colorPalette:
		return paletteRGB(c.r)
	}
	return 0, 0, 0
}

// To256 returns the nearest palette color; default and palette colors are returned unchanged
func (c Color) To256() Color {
	if c.kind != colorRGB {
		return c
	}
	return Palette(nearest256(c.r, c.g, c.b))
}

// To16 returns the nearest ANSI base color (palette 0-15) by CIE Lab distance
func (c Color) To16() Color {
	switch c.kind {
	case colorDefault:
		return c
	case colorPalette:
		if c.r < 16 {
			return c
		}
	}
	r, g, b := c.RGB()
	target := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}

	best := uint8(0)
	bestDist := -1.0
	for i := uint8(0); i < 16; i++ {
		pr, pg, pb := paletteRGB(i)
		cand := colorful.Color{R: float64(pr) / 255, G: float64(pg) / 255, B: float64(pb) / 255}
		d := target.DistanceLab(cand)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return Palette(best)
}

// String returns the form accepted by ParseColor
func (c Color) String() string {
	switch c.kind {
	case colorPalette:
		return strconv.Itoa(int(c.r))
	case colorRGB:
		return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
	}
	return "default"
}

var colorNames = map[string]Color{
	"black":          ColorBlack,
	"red":            ColorRed,
	"green":          ColorGreen,
	"yellow":         ColorYellow,
	"blue":           ColorBlue,
	"magenta":        ColorMagenta,
	"cyan":           ColorCyan,
	"white":          ColorWhite,
	"gray":           ColorBrightBlack,
	"grey":           ColorBrightBlack,
	"bright-black":   ColorBrightBlack,
	"bright-red":     ColorBrightRed,
	"bright-green":   ColorBrightGreen,
	"bright-yellow":  ColorBrightYellow,
	"bright-blue":    ColorBrightBlue,
	"bright-magenta": ColorBrightMagenta,
	"bright-cyan":    ColorBrightCyan,
	"bright-white":   ColorBrightWhite,
}

// ParseColor parses "default", an ANSI color name, a palette index "0"-"255", or "#rrggbb"
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "default" {
		return ColorDefault, nil
	}
	if c, ok := colorNames[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		hc, err := colorful.Hex(s)
		if err != nil {
			return ColorDefault, fmt.Errorf("parse color %q: %w", s, err)
		}
		r, g, b := hc.RGB255()
		return TrueColor(r, g, b), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 255 {
		return ColorDefault, fmt.Errorf("parse color %q: not a name, palette index or hex value", s)
	}
	return Palette(uint8(n)), nil
}

// ansiBase holds the xterm default RGB values of palette 0-15
var ansiBase = [16][3]uint8{
	{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
	{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
	{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

// Color cube values for 6x6x6 palette (indices 16-231)
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// grayscaleStart is the first grayscale index (232-255 = 24 shades)
const grayscaleStart = 232

func paletteRGB(i uint8) (r, g, b uint8) {
	switch {
	case i < 16:
		v := ansiBase[i]
		return v[0], v[1], v[2]
	case i < grayscaleStart:
		n := i - 16
		return cubeValues[n/36], cubeValues[(n%36)/6], cubeValues[n%6]
	default:
		level := 8 + (i-grayscaleStart)*10
		return level, level, level
	}
}

// cubeIndex maps a channel value to the nearest cube level 0-5
func cubeIndex(v uint8) uint8 {
	best := uint8(0)
	bestDist := absDiff(v, cubeValues[0])
	for j := uint8(1); j < 6; j++ {
		if d := absDiff(v, cubeValues[j]); d < bestDist {
			bestDist = d
			best = j
		}
	}
	return best
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// nearest256 finds the nearest 256-color palette index for an RGB value
// Prefers the grayscale ramp when the color is near-achromatic and closer there
func nearest256(r, g, b uint8) uint8 {
	cr, cg, cb := cubeIndex(r), cubeIndex(g), cubeIndex(b)
	cube := 16 + 36*cr + 6*cg + cb

	gray := (int(r) + int(g) + int(b)) / 3
	maxDiff := max(abs(int(r)-gray), abs(int(g)-gray), abs(int(b)-gray))
	if maxDiff >= 10 || gray < 4 || gray > 243 {
		return cube
	}

	step := (gray - 8) / 10
	if step < 0 {
		step = 0
	}
	if step > 23 {
		step = 23
	}
	grayLevel := 8 + step*10
	grayDist := abs(int(r)-grayLevel) + abs(int(g)-grayLevel) + abs(int(b)-grayLevel)
	cubeDist := absDiff(r, cubeValues[cr]) + absDiff(g, cubeValues[cg]) + absDiff(b, cubeValues[cb])

	if grayDist < cubeDist {
		return uint8(grayscaleStart + step)
	}
	return cube
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
