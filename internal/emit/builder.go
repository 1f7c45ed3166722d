package emit

import (
	"slices"
	"strconv"

	"asmemit/internal/diag"
	"asmemit/internal/hashalg"
	"asmemit/internal/identity"
	"asmemit/internal/marker"
	"asmemit/internal/symbols"
	"asmemit/internal/trace"
)

// Config is the input of one emission pass.
type Config struct {
	Identity       identity.Identity
	VersionPattern *identity.VersionPattern
	OutputKind     identity.OutputKind
	HashAlgorithm  hashalg.Algorithm
	// OutputName overrides the metadata name; its extension is stripped.
	OutputName string

	// Modules lists the assembly's modules. Index 0 is the primary source
	// module and never appears in the file table.
	Modules   []SecondaryModule
	Resources []ResourceDescription

	AdditionalTopLevelTypes []*symbols.Type

	// LiftLimit bounds concurrent module lifting; 0 means GOMAXPROCS.
	LiftLimit int
	// OnLifted, when set, is called once per lifted secondary module.
	OnLifted func(mod SecondaryModule, resources int, malformed bool)

	Tracer trace.Tracer
}

// AssemblyBuilder is the build state of one emission pass.
type AssemblyBuilder struct {
	name       string
	identity   identity.Identity
	pattern    *identity.VersionPattern
	outputKind identity.OutputKind
	hashAlg    hashalg.Algorithm
	modules    []SecondaryModule
	resources  []ResourceDescription
	additional []*symbols.Type
	liftLimit  int
	onLifted   func(SecondaryModule, int, bool)
	tracer     trace.Tracer

	markers *marker.Registry
	files   once[[]FileReference]
	lifted  once[liftResult]
}

// New creates the build state for comp.
func New(comp symbols.Compilation, cfg Config) *AssemblyBuilder {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	return &AssemblyBuilder{
		name:       identity.MetadataName(cfg.Identity.Name, cfg.OutputName),
		identity:   cfg.Identity,
		pattern:    cfg.VersionPattern,
		outputKind: cfg.OutputKind,
		hashAlg:    cfg.HashAlgorithm,
		modules:    slices.Clone(cfg.Modules),
		resources:  slices.Clone(cfg.Resources),
		additional: slices.Clone(cfg.AdditionalTopLevelTypes),
		liftLimit:  cfg.LiftLimit,
		onLifted:   cfg.OnLifted,
		tracer:     tracer,
		markers:    marker.NewRegistry(comp),
	}
}

// Name is the output's metadata name.
func (b *AssemblyBuilder) Name() string { return b.name }

func (b *AssemblyBuilder) Identity() identity.Identity { return b.identity }

// VersionPattern is nil unless the version contained wildcards.
func (b *AssemblyBuilder) VersionPattern() *identity.VersionPattern { return b.pattern }

func (b *AssemblyBuilder) OutputKind() identity.OutputKind { return b.outputKind }

func (b *AssemblyBuilder) HashAlgorithm() hashalg.Algorithm { return b.hashAlg }

// Markers is the registry compilation work reports marker needs to.
func (b *AssemblyBuilder) Markers() *marker.Registry { return b.markers }

func (b *AssemblyBuilder) Modules() []SecondaryModule { return slices.Clone(b.modules) }

func (b *AssemblyBuilder) ManifestResources() []ResourceDescription {
	return slices.Clone(b.resources)
}

// AdditionalTopLevelTypes returns the extra types supplied at construction.
func (b *AssemblyBuilder) AdditionalTopLevelTypes() []*symbols.Type {
	return slices.Clone(b.additional)
}

// InjectedTypes freezes the marker registry and returns the injected types.
// After the first call any further marker request panics.
func (b *AssemblyBuilder) InjectedTypes(sink diag.Reporter) *marker.Snapshot {
	if snap := b.markers.Snapshot(); snap != nil {
		return snap
	}
	span := trace.Begin(b.tracer, trace.ScopePass, "freeze", 0)
	snap := b.markers.Freeze(sink)
	span.WithExtra("types", itoa(snap.Len())).End("")
	return snap
}

func itoa(n int) string { return strconv.Itoa(n) }
