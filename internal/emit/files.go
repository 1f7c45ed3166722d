package emit

import (
	"slices"

	"asmemit/internal/diag"
	"asmemit/internal/hashalg"
	"asmemit/internal/source"
	"asmemit/internal/trace"
)

// FileReference is an entry of the assembly's file table.
type FileReference struct {
	Name string
	Hash []byte
	// HasMetadata is set for modules and clear for plain resource files.
	HasMetadata bool
}

// ResourceDescription is a manifest resource of the output assembly.
type ResourceDescription struct {
	Name string
	// FileName is the linked file for non-embedded resources.
	FileName string
	Embedded bool
	Public   bool
	// Hash is the digest of the linked file.
	Hash []byte
}

// FileReference translates a linked resource into a file table entry.
func (r ResourceDescription) FileReference() FileReference {
	name := r.FileName
	if name == "" {
		name = r.Name
	}
	return FileReference{Name: name, Hash: slices.Clone(r.Hash)}
}

func translateModule(m SecondaryModule) FileReference {
	return FileReference{Name: m.Name(), Hash: m.Hash(), HasMetadata: true}
}

// Files returns the file table: every secondary module in order, then every
// non-embedded manifest resource. When the table is not empty the publishing
// call checks that the hash algorithm is supported.
func (b *AssemblyBuilder) Files(sink diag.Reporter) []FileReference {
	if files := b.files.load(); files != nil {
		return cloneFiles(*files)
	}

	span := trace.Begin(b.tracer, trace.ScopePass, "files", 0)
	list := make([]FileReference, 0, len(b.modules)+len(b.resources))
	for i := 1; i < len(b.modules); i++ {
		list = append(list, translateModule(b.modules[i]))
	}
	for _, r := range b.resources {
		if !r.Embedded {
			list = append(list, r.FileReference())
		}
	}

	files, won := b.files.publish(&list)
	if won && len(list) > 0 && !hashalg.IsSupported(b.hashAlg) {
		diag.ReportError(sink, diag.EmitCryptoHashFailed, source.NoSpan,
			"cryptographic failure while creating hashes: algorithm "+b.hashAlg.String()+" is not supported").Emit()
	}
	span.WithExtra("files", itoa(len(*files))).End("")
	return cloneFiles(*files)
}

// clone returns a copy that shares no memory with r.
func (r FileReference) clone() FileReference {
	r.Hash = slices.Clone(r.Hash)
	return r
}

func cloneFiles(files []FileReference) []FileReference {
	out := make([]FileReference, len(files))
	for i, f := range files {
		out[i] = f.clone()
	}
	return out
}
