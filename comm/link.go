package comm

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tarm/serial"
	"golang.org/x/sys/unix"
)

var ErrWouldBlock = errors.New("link not ready, frame not sent")

// Link is the byte sink the dispatcher writes frames to. TryWrite makes a
// single attempt and must not wait for the device to accept data.
type Link interface {
	TryWrite(p []byte) (int, error)
}

type fileLink struct {
	f *os.File
}

// NewFileLink wraps a file whose descriptor is in non-blocking mode, such as
// one opened with O_NONBLOCK or created by os.Pipe. A full device buffer is
// reported as ErrWouldBlock.
func NewFileLink(f *os.File) Link {
	return fileLink{f: f}
}

func (l fileLink) TryWrite(p []byte) (int, error) {
	rc, err := l.f.SyscallConn()
	if err != nil {
		return 0, err
	}
	var (
		n    int
		werr error
	)
	// returning true from the callback skips the poller wait
	err = rc.Write(func(fd uintptr) bool {
		n, werr = unix.Write(int(fd), p)
		return true
	})
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n = 0
	}
	if errors.Is(werr, unix.EAGAIN) {
		return n, ErrWouldBlock
	}
	return n, werr
}

type writerLink struct {
	w io.Writer
}

// NewWriterLink adapts a writer that never blocks, such as an in-memory
// buffer. Use NewFileLink for devices.
func NewWriterLink(w io.Writer) Link {
	return writerLink{w: w}
}

func (l writerLink) TryWrite(p []byte) (int, error) {
	return l.w.Write(p)
}

// SerialPort is an open serial device. tarm/serial sets the line
// parameters on its own descriptor and leaves it blocking, so frames go out
// through a second, non-blocking descriptor on the same device.
type SerialPort struct {
	port *serial.Port
	out  *os.File
	Link
}

// OpenPort opens the serial device the dispatcher writes to.
func OpenPort(name string, baud int) (*SerialPort, error) {
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", name, err)
	}
	out, err := os.OpenFile(name, os.O_WRONLY|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("could not open %s for writing: %w", name, err)
	}
	return &SerialPort{port: port, out: out, Link: NewFileLink(out)}, nil
}

func (p *SerialPort) Close() error {
	err := p.out.Close()
	if perr := p.port.Close(); err == nil {
		err = perr
	}
	return err
}
