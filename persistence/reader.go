package persistence

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spacemeshos/postcore/shared"
)

// FileReader provides random access to the labels stored in a single
// dataset file.
type FileReader struct {
	file *os.File
}

func NewFileReader(filename string) (*FileReader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	return &FileReader{file: f}, nil
}

// NumLabels returns how many whole labels the file holds.
func (r *FileReader) NumLabels() (uint64, error) {
	info, err := r.file.Stat()
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()) / shared.LabelSize, nil
}

// ReadLabel reads the label at local index i within this file.
func (r *FileReader) ReadLabel(i uint64) ([]byte, error) {
	buf := make([]byte, shared.LabelSize)
	if _, err := r.file.ReadAt(buf, int64(i*shared.LabelSize)); err != nil {
		return nil, fmt.Errorf("reading label %d: %w", i, err)
	}
	return buf, nil
}

// ReadRange reads the contiguous local-index range [start, end).
func (r *FileReader) ReadRange(start, end uint64) ([]byte, error) {
	if end < start {
		return nil, fmt.Errorf("invalid range: start (%d) > end (%d)", start, end)
	}
	n := end - start
	buf := make([]byte, n*shared.LabelSize)
	if _, err := r.file.ReadAt(buf, int64(start*shared.LabelSize)); err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading range [%d,%d): %w", start, end, err)
	}
	return buf, nil
}

func (r *FileReader) Close() error {
	return r.file.Close()
}

// DatasetReader provides a unified, global-index view across all of a
// dataset's files, mirroring the teacher's grouped Reader returned by
// NewLabelsReader.
type DatasetReader struct {
	readers       []*FileReader
	fileNumLabels uint64
}

// OpenDataset opens all dataset files under datadir, each expected to hold
// fileNumLabels labels.
func OpenDataset(datadir string, fileNumLabels uint64) (*DatasetReader, error) {
	files, err := DataFiles(datadir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no dataset files found in %q", datadir)
	}

	readers := make([]*FileReader, 0, len(files))
	for _, info := range files {
		r, err := NewFileReader(filepath.Join(datadir, info.Name()))
		if err != nil {
			for _, opened := range readers {
				opened.Close()
			}
			return nil, err
		}
		readers = append(readers, r)
	}
	return &DatasetReader{readers: readers, fileNumLabels: fileNumLabels}, nil
}

// ReadLabel reads the label at global index i.
func (d *DatasetReader) ReadLabel(i uint64) ([]byte, error) {
	fileIdx := i / d.fileNumLabels
	localIdx := i % d.fileNumLabels
	if int(fileIdx) >= len(d.readers) {
		return nil, fmt.Errorf("index %d out of range", i)
	}
	return d.readers[fileIdx].ReadLabel(localIdx)
}

// ReadRange reads the contiguous global-index range [start, end), spanning
// file boundaries as needed. Used by the proving pipeline to stream the
// dataset chunk by chunk instead of recomputing labels.
func (d *DatasetReader) ReadRange(start, end uint64) ([]byte, error) {
	if end < start {
		return nil, fmt.Errorf("invalid range: start (%d) > end (%d)", start, end)
	}
	out := make([]byte, 0, (end-start)*shared.LabelSize)
	for start < end {
		fileIdx := start / d.fileNumLabels
		if int(fileIdx) >= len(d.readers) {
			return nil, fmt.Errorf("range exceeds dataset: start %d", start)
		}
		localStart := start % d.fileNumLabels
		localEnd := localStart + (end - start)
		if remaining := d.fileNumLabels - localStart; localEnd-localStart > remaining {
			localEnd = d.fileNumLabels
		}
		chunk, err := d.readers[fileIdx].ReadRange(localStart, localEnd)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
		start += localEnd - localStart
	}
	return out, nil
}

// NumLabels returns the nominal number of labels across all files: the
// file count times fileNumLabels. The files' actual sizes are not checked.
func (d *DatasetReader) NumLabels() uint64 {
	return uint64(len(d.readers)) * d.fileNumLabels
}

func (d *DatasetReader) Close() error {
	var firstErr error
	for _, r := range d.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
