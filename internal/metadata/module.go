package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"asmemit/internal/hashalg"
)

// Module is a secondary module file. The image is parsed on first use and
// the outcome, success or failure, is memoized.
type Module struct {
	path  string
	name  string
	hash  []byte
	size  int
	image func() (*Image, error)
}

// Open reads the module at path and hashes it with alg. A malformed image is
// not an error here; it surfaces from EmbeddedResources.
func Open(path string, alg hashalg.Algorithm) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open module: %w", err)
	}
	m := FromBytes(filepath.Base(path), data, alg)
	m.path = path
	return m, nil
}

// FromBytes wraps an in-memory image. name is the file name written into the
// output's file table.
func FromBytes(name string, data []byte, alg hashalg.Algorithm) *Module {
	return &Module{
		path: name,
		name: name,
		hash: hashalg.Sum(alg, data),
		size: len(data),
		image: sync.OnceValues(func() (*Image, error) {
			return Decode(data)
		}),
	}
}

// Name is the module's file name.
func (m *Module) Name() string { return m.name }

// Path is where the module was read from.
func (m *Module) Path() string { return m.path }

// Hash is the content digest, nil when the algorithm yields none.
func (m *Module) Hash() []byte { return slices.Clone(m.hash) }

// Size is the file size in bytes.
func (m *Module) Size() int { return m.size }

// Image returns the parsed image.
func (m *Module) Image() (*Image, error) {
	img, err := m.image()
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", m.name, err)
	}
	return img, nil
}

// EmbeddedResources returns the raw resource table. The error wraps
// ErrBadImageFormat when the image is malformed.
func (m *Module) EmbeddedResources() ([]EmbeddedResource, error) {
	img, err := m.Image()
	if err != nil {
		return nil, err
	}
	return slices.Clone(img.Resources), nil
}
