package ansi

import (
	"io"
	"os"
	"time"

	"github.com/muesli/termenv"
)

// device is the controlling terminal: raw-mode switch, output stream and timed input
type device interface {
	io.Writer

	MakeRaw() error
	// Restore undoes MakeRaw; a no-op when not raw
	Restore() error
	Size() (width, height int, err error)
	// ReadTimeout waits up to timeout for input, negative blocks; (0, nil) on timeout
	ReadTimeout(p []byte, timeout time.Duration) (int, error)
	// Profile reports the color support advertised by the environment
	Profile() termenv.Profile
	// NotifyResize delivers window size changes on ch until StopResize
	NotifyResize(ch chan<- os.Signal)
	StopResize(ch chan<- os.Signal)
}
