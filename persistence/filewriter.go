// Package persistence provides the on-disk layout for a dataset: a set of
// fixed-size label files plus a JSON metadata sidecar (spec §6.4),
// adapted from the teacher's persistence.FileWriter/FileReader.
package persistence

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spacemeshos/postcore/shared"
)

// FileWriter appends label bytes to a single dataset file, buffering writes
// the way the teacher's FileWriter does.
type FileWriter struct {
	file *os.File
	buf  *bufio.Writer
}

// NewFileWriter opens (creating if necessary) filename for append-only
// writes.
func NewFileWriter(filename string) (*FileWriter, error) {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, shared.OwnerReadWrite)
	if err != nil {
		return nil, err
	}
	return &FileWriter{file: f, buf: bufio.NewWriter(f)}, nil
}

// Write appends b to the file.
func (w *FileWriter) Write(b []byte) error {
	_, err := w.buf.Write(b)
	return err
}

// NumLabelsWritten returns how many whole labels are currently on disk,
// including bytes still sitting in the bufio buffer.
func (w *FileWriter) NumLabelsWritten() (uint64, error) {
	if err := w.buf.Flush(); err != nil {
		return 0, fmt.Errorf("flushing before stat: %w", err)
	}
	info, err := w.file.Stat()
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()) / shared.LabelSize, nil
}

// Flush flushes buffered writes to the underlying file.
func (w *FileWriter) Flush() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush disk writer: %w", err)
	}
	return nil
}

// Close flushes and closes the file.
func (w *FileWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	return w.file.Close()
}
