package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Recorder appends FrameStats rows to a CSV stream. A nil *Recorder
// discards everything, so callers need no enabled check.
type Recorder struct {
	w             io.Writer
	closer        io.Closer
	headerWritten bool
}

// NewRecorder creates the CSV file at path, and any missing parent
// directories. Returns nil if path is empty (telemetry disabled).
func NewRecorder(path string) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating telemetry directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	return &Recorder{w: f, closer: f}, nil
}

// NewWriterRecorder writes rows to w. Close leaves w open.
func NewWriterRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// Write appends one frame row, preceded by the header on the first call.
func (r *Recorder) Write(stats FrameStats) error {
	if r == nil {
		return nil
	}

	records := []FrameStats{stats}

	if !r.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, r.w); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	// Subsequent writes skip headers
	if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Close closes the underlying file, if the recorder opened one.
func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
