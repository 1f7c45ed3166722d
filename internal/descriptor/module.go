package descriptor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ModuleFileName is the conventional name of a module source descriptor.
const ModuleFileName = "module.toml"

type moduleFile struct {
	Module    moduleHeader           `toml:"module"`
	Resources []moduleResourceConfig `toml:"resources"`
}

type moduleHeader struct {
	Name string `toml:"name"`
}

type moduleResourceConfig struct {
	Name   string `toml:"name"`
	File   string `toml:"file"`
	Public *bool  `toml:"public"`
}

// ModuleResource is an embedded resource of a module being packed.
type ModuleResource struct {
	Name   string
	File   string // absolute or relative to the process
	Public bool
}

// ModuleSource describes a module image to pack.
type ModuleSource struct {
	Path      string
	Name      string
	Resources []ModuleResource
}

// LoadModule reads a module.toml.
func LoadModule(path string) (*ModuleSource, error) {
	var raw moduleFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("module", "name") || strings.TrimSpace(raw.Module.Name) == "" {
		return nil, fmt.Errorf("%s: missing [module].name: %w", path, ErrInvalid)
	}
	root := filepath.Dir(path)
	src := &ModuleSource{Path: path, Name: strings.TrimSpace(raw.Module.Name)}
	seen := map[string]bool{}
	for i, r := range raw.Resources {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("%s: resources[%d]: missing name: %w", path, i, ErrInvalid)
		}
		if seen[name] {
			return nil, fmt.Errorf("%s: duplicate resource %q: %w", path, name, ErrInvalid)
		}
		seen[name] = true
		file := strings.TrimSpace(r.File)
		if file == "" {
			return nil, fmt.Errorf("%s: resource %q: missing file: %w", path, name, ErrInvalid)
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(root, filepath.FromSlash(file))
		}
		res := ModuleResource{Name: name, File: file, Public: true}
		if r.Public != nil {
			res.Public = *r.Public
		}
		src.Resources = append(src.Resources, res)
	}
	return src, nil
}

// ReadResources loads every resource file of src in order.
func (src *ModuleSource) ReadResources() ([][]byte, error) {
	out := make([][]byte, 0, len(src.Resources))
	for _, r := range src.Resources {
		data, err := os.ReadFile(r.File)
		if err != nil {
			return nil, fmt.Errorf("resource %q: %w", r.Name, err)
		}
		out = append(out, data)
	}
	return out, nil
}
