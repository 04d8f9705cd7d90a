//go:build !unix

package source

import (
	"os"

	"golang.org/x/exp/mmap"
)

// mapFile falls back to golang.org/x/exp/mmap where raw mappings are not exposed as a byte
// slice. The mapping is copied once into a single buffer that lives as long as the view.
func mapFile(f *os.File, size int) ([]byte, func() error, error) {
	r, err := mmap.Open(f.Name())
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	data := make([]byte, size)
	if _, err := r.ReadAt(data, 0); err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
