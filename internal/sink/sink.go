// Package sink writes the session's results to its two output channels: the
// downstream consumer, which receives one move per line, and the board
// controller, which receives "MOVE:" acknowledgements and "ERROR:"
// diagnostics.
package sink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"unicode"

	"github.com/spf13/afero"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Iron-Ham/chessbridge/internal/errors"
)

// Names used in SinkError and log records.
const (
	NameConsumer = "consumer"
	NameHardware = "hardware"
)

// StdoutPath selects standard output as the consumer destination.
const StdoutPath = "-"

// lineWriter serializes whole-line writes to w.
type lineWriter struct {
	name   string
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

func (l *lineWriter) writeLine(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.w == nil {
		return errors.NewSinkError(l.name, errors.ErrSinkUnavailable)
	}
	if _, err := io.WriteString(l.w, line+"\n"); err != nil {
		return errors.NewSinkError(l.name, err)
	}
	if s, ok := l.w.(interface{ Sync() error }); ok && l.closer != nil {
		if err := s.Sync(); err != nil {
			return errors.NewSinkError(l.name, err)
		}
	}
	return nil
}

func (l *lineWriter) close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.closer
	l.w = nil
	l.closer = nil
	if c == nil {
		return nil
	}
	return c.Close()
}

// Consumer writes accepted moves in notation, one per line.
type Consumer struct {
	lw lineWriter
}

// NewConsumer wraps w. The caller keeps ownership of w.
func NewConsumer(w io.Writer) *Consumer {
	return &Consumer{lw: lineWriter{name: NameConsumer, w: w}}
}

// OpenConsumer opens path on fs for writing, truncating an existing file and
// creating its parent directory. StdoutPath writes to os.Stdout.
func OpenConsumer(fs afero.Fs, path string) (*Consumer, error) {
	if path == StdoutPath {
		return NewConsumer(os.Stdout), nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", errors.ErrSinkUnavailable, path, err)
		}
	}
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrSinkUnavailable, path, err)
	}
	return &Consumer{lw: lineWriter{name: NameConsumer, w: f, closer: f}}, nil
}

// WriteMove writes "<notation>\n".
func (c *Consumer) WriteMove(notation string) error {
	return c.lw.writeLine(notation)
}

// Close closes the underlying file, if the consumer owns one.
func (c *Consumer) Close() error {
	return c.lw.close()
}

// Hardware writes acknowledgements and diagnostics back to the board
// controller, normally the same serial device the snapshots arrive on.
type Hardware struct {
	lw lineWriter
}

// NewHardware wraps w. The caller keeps ownership of w.
func NewHardware(w io.Writer) *Hardware {
	return &Hardware{lw: lineWriter{name: NameHardware, w: w}}
}

// Acknowledge writes "MOVE:<notation>\n".
func (h *Hardware) Acknowledge(notation string) error {
	return h.lw.writeLine("MOVE:" + notation)
}

// Report writes "ERROR:<message>\n" with message reduced to printable ASCII.
func (h *Hardware) Report(message string) error {
	return h.lw.writeLine("ERROR:" + Sanitize(message))
}

// Sanitize reduces s to printable 7-bit ASCII. Accented letters keep their
// base letter; everything else outside 0x20-0x7E is dropped.
func Sanitize(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool {
			return r < 0x20 || r > 0x7e
		})),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return asciiOnly(s)
	}
	return out
}

func asciiOnly(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x20 && s[i] <= 0x7e {
			b = append(b, s[i])
		}
	}
	return string(b)
}
