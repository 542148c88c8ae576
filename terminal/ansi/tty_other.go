//go:build !unix

package ansi

import (
	"fmt"
	"runtime"

	"github.com/lixenwraith/cellterm/terminal"
)

func openTTY() (device, error) {
	return nil, terminal.WrapUnavailable(fmt.Errorf("raw terminal mode not supported on %s", runtime.GOOS))
}
