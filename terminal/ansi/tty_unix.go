//go:build unix

package ansi

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/muesli/termenv"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/lixenwraith/cellterm/terminal"
)

type ttyDevice struct {
	in    *os.File
	out   *os.File
	inFd  int
	outFd int
	old   *term.State
}

func openTTY() (device, error) {
	d := &ttyDevice{
		in:    os.Stdin,
		out:   os.Stdout,
		inFd:  int(os.Stdin.Fd()),
		outFd: int(os.Stdout.Fd()),
	}
	if !term.IsTerminal(d.inFd) {
		return nil, terminal.WrapUnavailable(errors.New("stdin is not a terminal"))
	}
	if !term.IsTerminal(d.outFd) {
		return nil, terminal.WrapUnavailable(errors.New("stdout is not a terminal"))
	}
	return d, nil
}

func (d *ttyDevice) Write(p []byte) (int, error) {
	return d.out.Write(p)
}

func (d *ttyDevice) MakeRaw() error {
	if d.old != nil {
		return nil
	}
	old, err := term.MakeRaw(d.inFd)
	if err != nil {
		return err
	}
	d.old = old
	return nil
}

func (d *ttyDevice) Restore() error {
	if d.old == nil {
		return nil
	}
	err := term.Restore(d.inFd, d.old)
	d.old = nil
	return err
}

func (d *ttyDevice) Size() (int, int, error) {
	ws, err := unix.IoctlGetWinsize(d.outFd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}

func (d *ttyDevice) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
		if ms == 0 && timeout > 0 {
			ms = 1
		}
	}

	fds := []unix.PollFd{
		{Fd: int32(d.inFd), Events: unix.POLLIN},
	}
	n, err := unix.Poll(fds, ms)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("poll: %w", err)
	}
	if n == 0 {
		return 0, nil // Timeout
	}
	if fds[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 && fds[0].Revents&unix.POLLIN == 0 {
		return 0, io.EOF
	}

	rn, err := unix.Read(d.inFd, p)
	if err != nil {
		if err == unix.EINTR || err == unix.EAGAIN {
			return 0, nil
		}
		return 0, fmt.Errorf("read: %w", err)
	}
	if rn == 0 {
		return 0, io.EOF
	}
	return rn, nil
}

func (d *ttyDevice) Profile() termenv.Profile {
	return termenv.NewOutput(d.out).EnvColorProfile()
}

func (d *ttyDevice) NotifyResize(ch chan<- os.Signal) {
	signal.Notify(ch, unix.SIGWINCH)
}

func (d *ttyDevice) StopResize(ch chan<- os.Signal) {
	signal.Stop(ch)
}
