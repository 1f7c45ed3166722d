package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrBadImageFormat marks a module image that cannot be parsed.
var ErrBadImageFormat = errors.New("bad module image format")

const (
	imageMagic = "ASMMOD"
	// Current schema version - increment when Image layout changes
	imageSchemaVersion uint16 = 1
)

// ManifestResourceAttributes are the visibility bits of a manifest resource.
type ManifestResourceAttributes uint32

const (
	Public         ManifestResourceAttributes = 0x0001
	Private        ManifestResourceAttributes = 0x0002
	VisibilityMask ManifestResourceAttributes = 0x0007
)

func (a ManifestResourceAttributes) String() string {
	switch a & VisibilityMask {
	case Public:
		return "public"
	case Private:
		return "private"
	default:
		return fmt.Sprintf("0x%x", uint32(a))
	}
}

// EmbeddedResource is a resource table entry as stored in a module image.
type EmbeddedResource struct {
	Name       string                     `msgpack:"name"`
	Attributes ManifestResourceAttributes `msgpack:"attrs"`
	Offset     uint32                     `msgpack:"offset"`
}

// Image is the decoded form of a module file.
type Image struct {
	Magic     string             `msgpack:"magic"`
	Schema    uint16             `msgpack:"schema"`
	Name      string             `msgpack:"name"`
	Resources []EmbeddedResource `msgpack:"resources"`
	Payload   []byte             `msgpack:"payload"`
}

// NewImage returns an empty image for a module called name.
func NewImage(name string) *Image {
	return &Image{Magic: imageMagic, Schema: imageSchemaVersion, Name: name}
}

// AddResource appends data to the payload and records it in the resource table.
func (img *Image) AddResource(name string, attrs ManifestResourceAttributes, data []byte) (EmbeddedResource, error) {
	offset, err := safecast.Conv[uint32](len(img.Payload))
	if err != nil {
		return EmbeddedResource{}, fmt.Errorf("resource %q: payload too large: %w", name, err)
	}
	size, err := safecast.Conv[uint32](len(data))
	if err != nil {
		return EmbeddedResource{}, fmt.Errorf("resource %q: %w", name, err)
	}
	img.Payload = binary.LittleEndian.AppendUint32(img.Payload, size)
	img.Payload = append(img.Payload, data...)
	res := EmbeddedResource{Name: name, Attributes: attrs, Offset: offset}
	img.Resources = append(img.Resources, res)
	return res, nil
}

// Encode serializes img.
func Encode(img *Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.Encode(img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses and validates a module image. Every failure wraps ErrBadImageFormat.
func Decode(data []byte) (*Image, error) {
	if err := CheckLengths(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImageFormat, err)
	}
	var img Image
	if err := msgpack.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImageFormat, err)
	}
	if err := img.validate(); err != nil {
		return nil, err
	}
	return &img, nil
}

func (img *Image) validate() error {
	if img.Magic != imageMagic {
		return fmt.Errorf("%w: bad magic %q", ErrBadImageFormat, img.Magic)
	}
	if img.Schema != imageSchemaVersion {
		return fmt.Errorf("%w: unsupported schema %d", ErrBadImageFormat, img.Schema)
	}
	for _, r := range img.Resources {
		if _, err := img.entry(r); err != nil {
			return err
		}
	}
	return nil
}

// entry returns the bytes stored for r.
func (img *Image) entry(r EmbeddedResource) ([]byte, error) {
	total, err := safecast.Conv[uint32](len(img.Payload))
	if err != nil {
		return nil, fmt.Errorf("%w: payload too large", ErrBadImageFormat)
	}
	if r.Offset > total || total-r.Offset < 4 {
		return nil, fmt.Errorf("%w: resource %q offset %d outside payload", ErrBadImageFormat, r.Name, r.Offset)
	}
	size := binary.LittleEndian.Uint32(img.Payload[r.Offset:])
	start := r.Offset + 4
	if size > total-start {
		return nil, fmt.Errorf("%w: resource %q length %d overruns payload", ErrBadImageFormat, r.Name, size)
	}
	return img.Payload[start : start+size], nil
}

// ResourceData returns the bytes of r without copying.
func (img *Image) ResourceData(r EmbeddedResource) ([]byte, error) {
	return img.entry(r)
}
