package source

import (
	"fmt"
	"os"
	"sync"
)

// View is a read-only, contiguous view of an input file. The backing memory stays valid
// until Close; nothing in this module writes to it, so any number of goroutines may read
// it concurrently.
type View struct {
	path string
	data []byte

	closeOnce sync.Once
	closeErr  error
	release   func() error
}

// Open maps the file at path into memory. Empty files yield an empty view without a mapping.
func Open(path string) (*View, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %w", ErrIO, path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, path, ErrNotRegularFile)
	}

	size := info.Size()
	if size == 0 {
		return &View{path: path}, nil
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("%w: %s (%d bytes): %w", ErrIO, path, size, ErrTooLarge)
	}

	data, release, err := mapFile(f, int(size))
	if err != nil {
		return nil, fmt.Errorf("%w: map %s: %w", ErrIO, path, err)
	}
	return &View{path: path, data: data, release: release}, nil
}

// FromBytes wraps an in-memory buffer. The caller must not modify b while the view is in use.
func FromBytes(b []byte) *View {
	return &View{path: "<memory>", data: b}
}

// Bytes returns the whole content. The slice must be treated as read-only.
func (v *View) Bytes() []byte { return v.data }

// Len returns the size of the content in bytes.
func (v *View) Len() int { return len(v.data) }

// Path returns the path the view was opened from.
func (v *View) Path() string { return v.path }

// Close releases the mapping. Strings borrowed from the view must not be used afterwards.
// Calling Close more than once is safe.
func (v *View) Close() error {
	v.closeOnce.Do(func() {
		if v.release != nil {
			v.closeErr = v.release()
		}
		v.data = nil
	})
	return v.closeErr
}
