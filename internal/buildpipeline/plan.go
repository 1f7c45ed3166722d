package buildpipeline

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"asmemit/internal/emit"
	"asmemit/internal/marker"
	"asmemit/internal/metadata"
)

// Current schema version - increment when Plan layout changes
const planSchemaVersion uint16 = 1

// PlanExt is appended to the output path to name the plan file.
const PlanExt = ".plan"

// ErrBadPlan marks a plan file that cannot be read back.
var ErrBadPlan = errors.New("bad emission plan")

// Plan is everything the binary writer needs from this stage.
type Plan struct {
	Schema uint16 `msgpack:"schema"`

	MetadataName   string `msgpack:"metadata_name"`
	Identity       string `msgpack:"identity"`
	VersionPattern string `msgpack:"version_pattern,omitempty"`
	OutputKind     string `msgpack:"output_kind"`
	HashAlgorithm  string `msgpack:"hash_algorithm"`

	InjectedTypes   []PlanType     `msgpack:"injected_types"`
	AdditionalTypes []string       `msgpack:"additional_types,omitempty"`
	Files           []PlanFile     `msgpack:"files"`
	Resources       []PlanResource `msgpack:"resources"`
}

// PlanType is a synthesized top-level type.
type PlanType struct {
	Name  string   `msgpack:"name"`
	Base  string   `msgpack:"base"`
	Ctors []string `msgpack:"ctors"`
}

// PlanFile is a file table entry.
type PlanFile struct {
	Name        string `msgpack:"name"`
	Hash        []byte `msgpack:"hash,omitempty"`
	HasMetadata bool   `msgpack:"has_metadata"`
}

// PlanResource is a manifest resource. File is empty for resources embedded
// in the primary module.
type PlanResource struct {
	Name   string `msgpack:"name"`
	Public bool   `msgpack:"public"`
	File   string `msgpack:"file,omitempty"`
	Offset uint32 `msgpack:"offset"`
	Lifted bool   `msgpack:"lifted"`
}

// BuildPlan collects the writer's view of b.
func BuildPlan(b *emit.AssemblyBuilder, snap *marker.Snapshot, files []emit.FileReference, lifted []emit.ManagedResource) *Plan {
	p := &Plan{
		Schema:        planSchemaVersion,
		MetadataName:  b.Name(),
		Identity:      b.Identity().String(),
		OutputKind:    b.OutputKind().String(),
		HashAlgorithm: b.HashAlgorithm().String(),
	}
	if vp := b.VersionPattern(); vp != nil {
		p.VersionPattern = vp.String()
	}
	for _, t := range snap.Types() {
		pt := PlanType{Name: t.FullName}
		if t.Base != nil {
			pt.Base = t.Base.FullName
		}
		for _, c := range t.Ctors {
			pt.Ctors = append(pt.Ctors, c.Signature())
		}
		p.InjectedTypes = append(p.InjectedTypes, pt)
	}
	for _, t := range b.AdditionalTopLevelTypes() {
		p.AdditionalTypes = append(p.AdditionalTypes, t.FullName)
	}
	for _, f := range files {
		p.Files = append(p.Files, PlanFile{Name: f.Name, Hash: f.Hash, HasMetadata: f.HasMetadata})
	}
	for _, r := range b.ManifestResources() {
		pr := PlanResource{Name: r.Name, Public: r.Public}
		if !r.Embedded {
			pr.File = r.FileReference().Name
		}
		p.Resources = append(p.Resources, pr)
	}
	for _, r := range lifted {
		pr := PlanResource{Name: r.Name, Public: r.Public, Offset: r.Offset, Lifted: true}
		if r.File != nil {
			pr.File = r.File.Name
		}
		p.Resources = append(p.Resources, pr)
	}
	return p
}

// WritePlan serializes p to path, replacing any existing file atomically.
func WritePlan(path string, p *Plan) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".plan-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if err = msgpack.NewEncoder(f).Encode(p); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadPlan loads a plan written by WritePlan.
func ReadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodePlan(data)
}

// DecodePlan parses a serialized plan.
func DecodePlan(data []byte) (*Plan, error) {
	if err := metadata.CheckLengths(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPlan, err)
	}
	var p Plan
	if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPlan, err)
	}
	if p.Schema != planSchemaVersion {
		return nil, fmt.Errorf("%w: unsupported schema %d", ErrBadPlan, p.Schema)
	}
	return &p, nil
}
