// Package input reads toast requests from a stream.
package input

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/toast"
)

// maxInputSize bounds how much is read from a stream.
const maxInputSize = 10 * 1024 * 1024

// Request is a toast to show.
type Request struct {
	Message    string           `json:"message"`
	Title      string           `json:"title,omitempty"`
	Type       toast.Type       `json:"type,omitempty"`
	Position   toast.Position   `json:"position,omitempty"`
	Duration   *config.Duration `json:"duration,omitempty"`
	Persistent bool             `json:"persistent,omitempty"`
}

// Timeout returns the requested auto-dismiss delay, nil for the default and
// zero for a persistent toast.
func (r Request) Timeout() *time.Duration {
	switch {
	case r.Persistent:
		d := time.Duration(0)
		return &d
	case r.Duration != nil:
		d := r.Duration.Duration()
		return &d
	default:
		return nil
	}
}

// Validate checks that the request carries a message. Type and position are
// passed through as given and normalized when the toast is shown.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return errors.New("message is required")
	}
	return nil
}

// InputError reports a request that could not be read.
type InputError struct {
	Line    int
	Message string
	Err     error
}

func (e *InputError) Error() string {
	msg := e.Message
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// StreamReader reads requests from a stream.
type StreamReader struct {
	reader io.Reader
}

// NewStdinReader creates a StreamReader reading from os.Stdin.
func NewStdinReader() *StreamReader {
	return &StreamReader{reader: os.Stdin}
}

// NewStreamReader creates a StreamReader with a custom reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{reader: r}
}

// Read parses every request in the stream. It supports three formats:
//  1. a JSON array of requests
//  2. one JSON object per line
//  3. plain text, one message per line
//
// Formats 2 and 3 may be mixed. Blank lines are skipped.
func (s *StreamReader) Read(ctx context.Context) ([]Request, error) {
	data, err := io.ReadAll(io.LimitReader(s.reader, maxInputSize+1))
	if err != nil {
		return nil, &InputError{Message: "failed to read input", Err: err}
	}
	if len(data) > maxInputSize {
		return nil, &InputError{Message: "input too large"}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		return parseJSONArray(trimmed)
	}
	return parseLines(ctx, data)
}

func parseJSONArray(data []byte) ([]Request, error) {
	var reqs []Request
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, &InputError{Message: "failed to parse JSON array", Err: err}
	}
	for i, r := range reqs {
		if err := r.Validate(); err != nil {
			return nil, &InputError{Message: fmt.Sprintf("entry %d", i+1), Err: err}
		}
	}
	return reqs, nil
}

func parseLines(ctx context.Context, data []byte) ([]Request, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), maxInputSize)

	var reqs []Request
	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var r Request
		if strings.HasPrefix(text, "{") {
			if err := json.Unmarshal([]byte(text), &r); err != nil {
				return nil, &InputError{Line: line, Message: "invalid JSON", Err: err}
			}
		} else {
			r.Message = text
		}

		if err := r.Validate(); err != nil {
			return nil, &InputError{Line: line, Message: "invalid request", Err: err}
		}
		reqs = append(reqs, r)
	}

	if err := scanner.Err(); err != nil {
		return nil, &InputError{Message: "failed to scan input", Err: err}
	}
	return reqs, nil
}
