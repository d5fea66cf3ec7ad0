package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileWriterAppendAndCount(t *testing.T) {
	r := require.New(t)

	path := filepath.Join(t.TempDir(), "postdata_0.bin")
	w, err := NewFileWriter(path)
	r.NoError(err)

	label := make([]byte, 16)
	for i := 0; i < 3; i++ {
		r.NoError(w.Write(label))
	}

	n, err := w.NumLabelsWritten()
	r.NoError(err)
	r.EqualValues(3, n)

	r.NoError(w.Close())

	reader, err := NewFileReader(path)
	r.NoError(err)
	defer reader.Close()

	numLabels, err := reader.NumLabels()
	r.NoError(err)
	r.EqualValues(3, numLabels)
}
