// Package transport delivers raw sensor records to the session: from the
// board's serial link, from a capture file, or from a capture file that is
// still being written.
//
// Every source is reduced to line records. A record is handed on as read,
// without framing checks; the session decides whether it is a snapshot.
package transport

import (
	"bufio"
	"context"
	"io"

	"github.com/Iron-Ham/chessbridge/internal/errors"
)

// MaxLineLength bounds a single record. Longer lines are cut to
// MaxLineLength+1 bytes, which the framing check then rejects.
const MaxLineLength = 256

// ReadLines calls handle for each line read from r, with the line ending
// removed, until r reports EOF or ctx is cancelled. If r is an io.Closer,
// cancelling ctx closes it so a blocked read returns. A final line without
// a terminator is delivered at EOF.
func ReadLines(ctx context.Context, r io.Reader, handle func(string)) error {
	if c, ok := r.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stop()
	}

	br := bufio.NewReaderSize(r, 4096)
	line := make([]byte, 0, 128)
	for {
		chunk, isPrefix, err := br.ReadLine()
		if room := MaxLineLength + 1 - len(line); room > 0 {
			if len(chunk) > room {
				chunk = chunk[:room]
			}
			line = append(line, chunk...)
		}

		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if err == io.EOF {
				if len(line) > 0 {
					handle(string(line))
				}
				return nil
			}
			return errors.Wrap(err, "read failed")
		}
		if isPrefix {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		handle(string(line))
		line = line[:0]
	}
}
