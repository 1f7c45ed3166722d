package emit

import "asmemit/internal/metadata"

// SecondaryModule is a read-only view of a module merged into the output.
type SecondaryModule interface {
	// Name is the file name written into the file table.
	Name() string
	// Hash is the file's content digest.
	Hash() []byte
	// EmbeddedResources returns the raw resource table. A malformed image
	// yields an error wrapping metadata.ErrBadImageFormat.
	EmbeddedResources() ([]metadata.EmbeddedResource, error)
}

var _ SecondaryModule = (*metadata.Module)(nil)

// SourceModule stands for the primary module at index 0 of a module list.
// It is never translated into a file reference.
type SourceModule struct {
	ModuleName string
}

func (m SourceModule) Name() string { return m.ModuleName }
func (SourceModule) Hash() []byte   { return nil }

func (SourceModule) EmbeddedResources() ([]metadata.EmbeddedResource, error) {
	return nil, nil
}
