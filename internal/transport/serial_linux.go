package transport

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/Iron-Ham/chessbridge/internal/errors"
)

var baudRates = map[int]uint32{
	1200:   unix.B1200,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
}

func openDevice(device string) (*os.File, error) {
	// O_NOCTTY keeps the device from becoming our controlling terminal.
	return os.OpenFile(device, os.O_RDWR|unix.O_NOCTTY, 0)
}

// configure applies opts through the termios interface.
func configure(f *os.File, opts SerialOptions) error {
	speed, ok := baudRates[opts.BaudRate]
	if !ok {
		return fmt.Errorf("unsupported baud rate %d", opts.BaudRate)
	}

	// Fd() would switch the file to blocking mode and stop Close from
	// interrupting a pending Read, so go through the raw conn.
	rc, err := f.SyscallConn()
	if err != nil {
		return err
	}
	var opErr error
	err = rc.Control(func(fd uintptr) {
		t, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
		if err != nil {
			opErr = errors.Wrap(err, "not a terminal device")
			return
		}

		if opts.Raw {
			makeRaw(t)
		}
		t.Cflag &^= unix.CBAUD
		t.Cflag |= speed
		t.Ispeed = speed
		t.Ospeed = speed

		if err := unix.IoctlSetTermios(int(fd), unix.TCSETS, t); err != nil {
			opErr = errors.Wrap(err, "failed to set terminal attributes")
		}
	})
	if err != nil {
		return err
	}
	return opErr
}

// makeRaw mirrors cfmakeraw(3), with a blocking one-byte minimum read.
func makeRaw(t *unix.Termios) {
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
}
