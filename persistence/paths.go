package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

const (
	dataFilePrefix = "postdata_"
	dataFileSuffix = ".bin"
	metadataName   = "postdata_metadata.json"
)

var dataFileRegexp = regexp.MustCompile(`^` + dataFilePrefix + `(\d+)` + dataFileSuffix + `$`)

// DataFileName returns the on-disk name of the i-th dataset file.
func DataFileName(index int) string {
	return fmt.Sprintf("%s%d%s", dataFilePrefix, index, dataFileSuffix)
}

// MetadataFileName returns the on-disk name of the metadata file.
func MetadataFileName() string {
	return metadataName
}

// IsDataFile reports whether info names a dataset file written by a
// FileWriter.
func IsDataFile(info os.FileInfo) bool {
	return !info.IsDir() && dataFileRegexp.MatchString(info.Name())
}

// ParseFileIndex extracts the numerical index from a dataset filename.
func ParseFileIndex(name string) (int, error) {
	m := dataFileRegexp.FindStringSubmatch(name)
	if m == nil {
		return 0, fmt.Errorf("not a dataset file: %q", name)
	}
	return strconv.Atoi(m[1])
}

// NumericalSorter sorts os.FileInfo slices by their embedded dataset index
// rather than lexicographically, so postdata_2.bin sorts before
// postdata_10.bin.
type NumericalSorter []os.FileInfo

func (s NumericalSorter) Len() int      { return len(s) }
func (s NumericalSorter) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s NumericalSorter) Less(i, j int) bool {
	idxI, errI := ParseFileIndex(s[i].Name())
	idxJ, errJ := ParseFileIndex(s[j].Name())
	if errI != nil || errJ != nil {
		return s[i].Name() < s[j].Name()
	}
	return idxI < idxJ
}

// DataFiles returns the dataset files in datadir, sorted by index.
func DataFiles(datadir string) ([]os.FileInfo, error) {
	entries, err := os.ReadDir(datadir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []os.FileInfo
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if IsDataFile(info) {
			files = append(files, info)
		}
	}
	sort.Sort(NumericalSorter(files))
	return files, nil
}

func DataFilePath(datadir string, index int) string {
	return filepath.Join(datadir, DataFileName(index))
}
