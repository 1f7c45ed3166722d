package descriptor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"asmemit/internal/hashalg"
	"asmemit/internal/identity"
	"asmemit/internal/marker"
)

// ErrInvalid marks a descriptor that cannot be used at all.
var ErrInvalid = errors.New("invalid assembly descriptor")

// DefaultFileName is looked up when no descriptor path is given.
const DefaultFileName = "asm.toml"

type assemblyFile struct {
	Assembly    assemblyConfig    `toml:"assembly"`
	Modules     []moduleConfig    `toml:"modules"`
	Resources   []resourceConfig  `toml:"resources"`
	Types       []typeConfig      `toml:"types"`
	Compilation compilationConfig `toml:"compilation"`
	Units       []unitConfig      `toml:"units"`
}

type assemblyConfig struct {
	Name          string `toml:"name"`
	Version       string `toml:"version"`
	Culture       string `toml:"culture"`
	OutputKind    string `toml:"output_kind"`
	HashAlgorithm string `toml:"hash_algorithm"`
	Out           string `toml:"out"`
}

type moduleConfig struct {
	Path string `toml:"path"`
}

type resourceConfig struct {
	Name     string `toml:"name"`
	File     string `toml:"file"`
	Embedded bool   `toml:"embedded"`
	Public   *bool  `toml:"public"`
}

type typeConfig struct {
	Name string `toml:"name"`
}

type compilationConfig struct {
	Missing []string `toml:"missing"`
}

type unitConfig struct {
	Name  string   `toml:"name"`
	Needs []string `toml:"needs"`
}

// Resource is a manifest resource entry.
type Resource struct {
	Name     string
	File     string // relative to the descriptor
	Embedded bool
	Public   bool
}

// Unit is a compilation work item and the markers it requests.
type Unit struct {
	Name    string
	Needs   []marker.Kind
	Unknown []string
}

// Descriptor is a loaded asm.toml.
type Descriptor struct {
	Path    string
	Root    string
	Content []byte

	Name           string
	Identity       identity.Identity
	VersionPattern *identity.VersionPattern
	OutputKind     identity.OutputKind
	HashAlgorithm  hashalg.Algorithm
	Out            string

	Modules   []string // relative to the descriptor
	Resources []Resource
	Types     []string
	Missing   []string
	Units     []Unit
}

// Load reads and decodes the descriptor at path.
func Load(path string) (*Descriptor, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Parse(path, content)
}

// Parse decodes content as if read from path.
func Parse(path string, content []byte) (*Descriptor, error) {
	var raw assemblyFile
	meta, err := toml.NewDecoder(bytes.NewReader(content)).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("assembly") {
		return nil, fmt.Errorf("%s: missing [assembly]: %w", path, ErrInvalid)
	}
	if !meta.IsDefined("assembly", "name") || strings.TrimSpace(raw.Assembly.Name) == "" {
		return nil, fmt.Errorf("%s: missing [assembly].name: %w", path, ErrInvalid)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q: %w", path, undecoded[0].String(), ErrInvalid)
	}

	d := &Descriptor{
		Path:    path,
		Root:    filepath.Dir(path),
		Content: content,
		Name:    strings.TrimSpace(raw.Assembly.Name),
		Out:     strings.TrimSpace(raw.Assembly.Out),
		Missing: raw.Compilation.Missing,
	}
	d.Identity = identity.Identity{Name: d.Name, Culture: raw.Assembly.Culture}

	if meta.IsDefined("assembly", "version") {
		v, pattern, err := identity.ParseVersion(raw.Assembly.Version)
		if err != nil {
			return nil, fmt.Errorf("%s: [assembly].version: %w: %w", path, err, ErrInvalid)
		}
		d.Identity.Version = v
		d.VersionPattern = pattern
	}

	d.OutputKind, err = identity.ParseOutputKind(raw.Assembly.OutputKind)
	if err != nil {
		return nil, fmt.Errorf("%s: [assembly].output_kind: %w: %w", path, err, ErrInvalid)
	}

	d.HashAlgorithm = hashalg.Default
	if meta.IsDefined("assembly", "hash_algorithm") {
		d.HashAlgorithm, err = hashalg.Parse(raw.Assembly.HashAlgorithm)
		if err != nil {
			return nil, fmt.Errorf("%s: [assembly].hash_algorithm: %w: %w", path, err, ErrInvalid)
		}
	}

	for _, m := range raw.Modules {
		d.Modules = append(d.Modules, strings.TrimSpace(m.Path))
	}
	for _, r := range raw.Resources {
		res := Resource{Name: strings.TrimSpace(r.Name), File: strings.TrimSpace(r.File), Embedded: r.Embedded, Public: true}
		if r.Public != nil {
			res.Public = *r.Public
		}
		d.Resources = append(d.Resources, res)
	}
	for _, t := range raw.Types {
		d.Types = append(d.Types, strings.TrimSpace(t.Name))
	}
	for _, u := range raw.Units {
		unit := Unit{Name: u.Name}
		for _, need := range u.Needs {
			if k, ok := marker.ParseKind(need); ok {
				unit.Needs = append(unit.Needs, k)
			} else {
				unit.Unknown = append(unit.Unknown, need)
			}
		}
		d.Units = append(d.Units, unit)
	}
	return d, nil
}

// Resolve turns a descriptor-relative path into one usable from the process.
func (d *Descriptor) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(d.Root, filepath.FromSlash(rel))
}

// OutputPath is where the plan is written: [assembly].out or <name>.<ext>.
func (d *Descriptor) OutputPath() string {
	if d.Out != "" {
		return d.Resolve(d.Out)
	}
	ext := ".dll"
	switch d.OutputKind {
	case identity.ConsoleApplication, identity.WindowsApplication, identity.WindowsRuntimeApplication:
		ext = ".exe"
	case identity.NetModule:
		ext = ".netmodule"
	case identity.WindowsRuntimeMetadata:
		ext = ".winmdobj"
	}
	return filepath.Join(d.Root, d.Name+ext)
}

// Locate returns the byte range of the first quoted occurrence of literal
// in the descriptor, or ok=false.
func (d *Descriptor) Locate(literal string, from int) (start, end int, ok bool) {
	if from < 0 || from > len(d.Content) {
		return 0, 0, false
	}
	needle := []byte(`"` + literal + `"`)
	i := bytes.Index(d.Content[from:], needle)
	if i < 0 {
		return 0, 0, false
	}
	start = from + i + 1
	return start, start + len(literal), true
}
