// Package fileio reads a file into lines and writes lines back to it.
//
// Lines are split on '\n' only; any '\r' stays part of the line. Save joins
// lines with '\n' and writes no newline after the last one.
package fileio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/xonecas/led/internal/buffer"
	"github.com/xonecas/led/internal/constants"
)

// Load reads path and returns its lines and modification time. A line longer
// than constants.MaxLineLength fails the whole load with buffer.ErrLineTooLong.
func Load(path string) ([][]byte, time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}

	var lines [][]byte
	sc := bufio.NewScanner(f)
	// One extra byte leaves room for the '\n' of a line at the limit.
	sc.Buffer(make([]byte, 0, 512), constants.MaxLineLength+1)
	sc.Split(scanLines)
	for sc.Scan() {
		tok := sc.Bytes()
		if len(tok) > constants.MaxLineLength {
			return nil, time.Time{}, fmt.Errorf("%s line %d: %w", path, len(lines)+1, buffer.ErrLineTooLong)
		}
		lines = append(lines, bytes.Clone(tok))
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, time.Time{}, fmt.Errorf("%s line %d: %w", path, len(lines)+1, buffer.ErrLineTooLong)
		}
		return nil, time.Time{}, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, info.ModTime(), nil
}

// scanLines is bufio.ScanLines without the carriage return stripping.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Save writes lines to path, truncates the file to exactly the written
// length and flushes it to storage. It returns the new modification time.
// The file is rewritten in place so its permissions and identity survive.
func Save(path string, lines [][]byte) (time.Time, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, constants.FileMode)
	if err != nil {
		return time.Time{}, fmt.Errorf("open %s: %w", path, err)
	}

	n, err := writeLines(f, lines)
	if err == nil {
		err = f.Truncate(n)
	}
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("save %s: %w", path, err)
	}
	return ModTime(path)
}

func writeLines(f *os.File, lines [][]byte) (int64, error) {
	w := bufio.NewWriter(f)
	var n int64
	for i, line := range lines {
		if i > 0 {
			if err := w.WriteByte('\n'); err != nil {
				return 0, err
			}
			n++
		}
		m, err := w.Write(line)
		if err != nil {
			return 0, err
		}
		n += int64(m)
	}
	return n, w.Flush()
}

// ModTime returns the modification time of path.
func ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.ModTime(), nil
}
