package tunefile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Image is a calibration image loaded into memory: a flat address space all
// table and axis offsets index into. The buffer is mutated in place by
// successive edits and persisted once at the end; the file it was loaded
// from is never touched.
type Image struct {
	path string
	data []byte
}

// LoadImage reads a calibration image from disk.
func LoadImage(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return &Image{path: path, data: data}, nil
}

// NewImage wraps an in-memory buffer. The buffer is used directly, not
// copied.
func NewImage(data []byte) *Image {
	return &Image{data: data}
}

// Bytes returns the live buffer. Edits encode into it in place.
func (im *Image) Bytes() []byte {
	return im.data
}

// Len returns the buffer length in bytes.
func (im *Image) Len() int {
	return len(im.data)
}

// Path returns the file the image was loaded from, if any.
func (im *Image) Path() string {
	return im.path
}

// SaveModified persists the buffer as "modified_<name>" beside the source
// file and returns the written path. The source file is left as loaded.
func (im *Image) SaveModified() (string, error) {
	if im.path == "" {
		return "", fmt.Errorf("image has no source path")
	}
	out := filepath.Join(filepath.Dir(im.path), "modified_"+filepath.Base(im.path))
	if err := os.WriteFile(out, im.data, 0o644); err != nil {
		return "", fmt.Errorf("write modified image: %w", err)
	}
	return out, nil
}
