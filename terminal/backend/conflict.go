//go:build tcell && ansi

package backend

// The ansi and tcell tags each select a backend; build with at most one of them
var _ = buildTagsAnsiAndTcellAreMutuallyExclusive
