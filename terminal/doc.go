// Package terminal renders styled cell grids to a terminal through a swappable backend.
//
// Features:
//   - Styled cells with 256-color and 24-bit color support
//   - Fixed-size screen buffers with grapheme-aware text writes
//   - Buffer diffing into minimal cursor/style/text patches
//   - Session lifecycle with guaranteed raw-mode and alternate-screen restoration
//   - Canonical key, mouse and resize events independent of the backend
//
// Concrete backends live in subpackages (ansi, tcellterm); the backend
// subpackage selects exactly one of them at build time.
package terminal
