package transport

import (
	"fmt"
	"os"

	"github.com/Iron-Ham/chessbridge/internal/errors"
)

// SerialOptions configures the serial line.
type SerialOptions struct {
	// BaudRate is the line speed in bits per second.
	BaudRate int
	// Raw disables line discipline processing: no echo, no canonical mode,
	// no CR/NL translation, 8N1.
	Raw bool
}

// DefaultSerialOptions matches the board firmware: 9600 baud, raw.
func DefaultSerialOptions() SerialOptions {
	return SerialOptions{BaudRate: 9600, Raw: true}
}

// Port is an open serial device. Snapshots are read from it and hardware
// acknowledgements are written back to it.
type Port struct {
	file    *os.File
	name    string
	release func()
}

// Read implements io.Reader.
func (p *Port) Read(b []byte) (int, error) { return p.file.Read(b) }

// Write implements io.Writer.
func (p *Port) Write(b []byte) (int, error) { return p.file.Write(b) }

// Close closes the device and drops its claim. A Read blocked in another
// goroutine returns.
func (p *Port) Close() error {
	err := p.file.Close()
	if p.release != nil {
		p.release()
		p.release = nil
	}
	return err
}

// Name returns the device path.
func (p *Port) Name() string { return p.name }

// OpenSerial opens device for reading and writing and applies opts.
func OpenSerial(device string, opts SerialOptions) (*Port, error) {
	f, err := openDevice(device)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrTransportUnavailable, device, err)
	}
	if err := configure(f, opts); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrTransportUnavailable, device, err)
	}
	return &Port{file: f, name: device}, nil
}

// Claim reserves a device before it is opened. The returned release runs
// when the port closes, or straight away if the device fails to open.
type Claim func(device string) (release func(), err error)

// OpenFirst tries each device in order and returns the first that opens.
// When claim is set, a device is only opened once claimed, and a device
// whose claim fails is skipped untouched. The error lists every failure
// when no device opens.
func OpenFirst(devices []string, opts SerialOptions, claim Claim) (*Port, error) {
	if len(devices) == 0 {
		return nil, fmt.Errorf("%w: no serial device configured", errors.ErrTransportUnavailable)
	}
	var errs []error
	for _, d := range devices {
		var release func()
		if claim != nil {
			var err error
			if release, err = claim(d); err != nil {
				errs = append(errs, errors.Wrap(err, d))
				continue
			}
		}
		p, err := OpenSerial(d, opts)
		if err != nil {
			if release != nil {
				release()
			}
			errs = append(errs, err)
			continue
		}
		p.release = release
		return p, nil
	}
	return nil, errors.Join(errs...)
}
