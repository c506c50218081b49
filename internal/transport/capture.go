package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/Iron-Ham/chessbridge/internal/errors"
)

// OpenCapture opens a recorded stream of snapshot records for replay.
// "-" reads standard input.
func OpenCapture(fs afero.Fs, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrTransportUnavailable, path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrTransportUnavailable, path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", errors.ErrTransportUnavailable, path)
	}
	return f, nil
}

// Follow delivers the lines already in path and then every line appended to
// it, like tail -f, until ctx is cancelled or the file is removed or
// renamed. A file truncated in place is read again from the start. An
// unterminated final line is held until its newline arrives.
func Follow(ctx context.Context, path string, handle func(string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errors.ErrTransportUnavailable, path, err)
	}
	defer f.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return errors.Wrapf(err, "failed to watch %s", path)
	}

	t := &tail{file: f, reader: bufio.NewReader(f), handle: handle}
	if err := t.drain(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				return fmt.Errorf("%w: %s was removed", errors.ErrTransportUnavailable, path)
			}
			// While we hold the file open an unlink arrives as Chmod.
			if event.Has(fsnotify.Chmod) {
				if _, err := os.Stat(path); os.IsNotExist(err) {
					return fmt.Errorf("%w: %s was removed", errors.ErrTransportUnavailable, path)
				}
			}
			if event.Has(fsnotify.Write) {
				if err := t.checkTruncated(); err != nil {
					return err
				}
				if err := t.drain(); err != nil {
					return err
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return errors.Wrap(err, "watch error")
		}
	}
}

type tail struct {
	file    *os.File
	reader  *bufio.Reader
	offset  int64
	partial strings.Builder
	handle  func(string)
}

// drain reads up to the current end of file.
func (t *tail) drain() error {
	for {
		chunk, err := t.reader.ReadString('\n')
		t.offset += int64(len(chunk))
		t.partial.WriteString(chunk)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "read failed")
		}
		line := strings.TrimRight(t.partial.String(), "\r\n")
		t.partial.Reset()
		if len(line) > MaxLineLength {
			line = line[:MaxLineLength+1]
		}
		t.handle(line)
	}
}

func (t *tail) checkTruncated() error {
	info, err := t.file.Stat()
	if err != nil {
		return errors.Wrap(err, "failed to stat")
	}
	if info.Size() >= t.offset {
		return nil
	}
	if _, err := t.file.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "failed to rewind")
	}
	t.reader.Reset(t.file)
	t.offset = 0
	t.partial.Reset()
	return nil
}
