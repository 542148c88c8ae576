package terminal

import (
	"fmt"
	"strings"
)

// ColorDepth is the number of colors a terminal can display
type ColorDepth uint8

const (
	DepthAuto      ColorDepth = iota // Detect from the environment
	DepthTrueColor                   // 24-bit
	Depth256                         // xterm 256 palette
	Depth16                          // ANSI base and bright colors
	DepthNone                        // Attributes only
)

var depthNames = map[ColorDepth]string{
	DepthAuto:      "auto",
	DepthTrueColor: "truecolor",
	Depth256:       "256",
	Depth16:        "16",
	DepthNone:      "none",
}

// String returns the configuration name of d
func (d ColorDepth) String() string {
	if name, ok := depthNames[d]; ok {
		return name
	}
	return "unknown"
}

// ParseColorDepth accepts the names returned by ColorDepth.String
func ParseColorDepth(s string) (ColorDepth, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DepthAuto, nil
	}
	for d, name := range depthNames {
		if name == s {
			return d, nil
		}
	}
	return DepthAuto, fmt.Errorf("unknown color mode %q", s)
}

// Downsample converts c to the nearest color representable at depth d
// DepthNone maps every color to the default; DepthAuto and DepthTrueColor leave c unchanged.
func (c Color) Downsample(d ColorDepth) Color {
	switch d {
	case Depth256:
		return c.To256()
	case Depth16:
		return c.To16()
	case DepthNone:
		return ColorDefault
	}
	return c
}
