//go:build !linux

package transport

import (
	"fmt"
	"os"
	"runtime"
)

func openDevice(device string) (*os.File, error) {
	return os.OpenFile(device, os.O_RDWR, 0)
}

// configure cannot set line attributes outside Linux. The device is usable
// only if it was prepared beforehand, e.g. with stty.
func configure(f *os.File, opts SerialOptions) error {
	if opts.Raw {
		return fmt.Errorf("raw serial mode is not supported on %s; set serial.raw to false and configure the device with stty", runtime.GOOS)
	}
	return nil
}
