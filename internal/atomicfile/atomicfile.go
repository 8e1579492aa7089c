// Package atomicfile writes a file by staging it next to its final path
// and renaming it into place on a successful Close, so a reader never
// observes a partially written simfile.
package atomicfile

import (
	"fmt"
	"os"
)

// Writer stages writes to path+".tmp" and renames it onto path when Close
// succeeds. If Abort is called instead, the temp file is removed and path
// is left untouched.
type Writer struct {
	path    string
	tmpPath string
	f       *os.File
	closed  bool
}

// New creates the temp file alongside path, ready for writes.
func New(path string) (*Writer, error) {
	tmp, err := os.Create(path + ".tmp")
	if err != nil {
		return nil, fmt.Errorf("atomicfile: create temp: %w", err)
	}
	return &Writer{path: path, tmpPath: tmp.Name(), f: tmp}, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	return w.f.Write(p)
}

// Close flushes and renames the temp file onto the final path.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.f.Sync(); err != nil {
		w.f.Close()
		os.Remove(w.tmpPath)
		return fmt.Errorf("atomicfile: sync: %w", err)
	}
	if err := w.f.Close(); err != nil {
		os.Remove(w.tmpPath)
		return fmt.Errorf("atomicfile: close temp: %w", err)
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		os.Remove(w.tmpPath)
		return fmt.Errorf("atomicfile: rename into place: %w", err)
	}
	return nil
}

// Abort discards the temp file without touching path. Safe to call after
// Close; it is then a no-op.
func (w *Writer) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.f.Close()
	return os.Remove(w.tmpPath)
}
