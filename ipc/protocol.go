package ipc

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// maxLineSize guards against a runaway frame; real frames are a few
// hundred kilobytes at most.
const maxLineSize = 16 << 20

var errLineTooLong = errors.New("line too long")

// ReadLine reads one newline-terminated message. Blank lines are skipped.
// io.EOF is returned unwrapped when the stream ends cleanly.
func ReadLine(r *bufio.Reader) ([]byte, error) {
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > maxLineSize {
			return nil, fmt.Errorf("read line: %w: %d bytes", errLineTooLong, len(line))
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			return line, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read line: %w", err)
		}
	}
}

// WriteLine writes v as a single JSON line.
func WriteLine(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal line: %w", err)
	}
	payload = append(payload, '\n')
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}
