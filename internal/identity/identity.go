// Package identity models the name, version and kind of the assembly being
// emitted.
package identity

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Version is a four-part assembly version.
type Version struct {
	Major, Minor, Build, Revision uint16
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// VersionPattern is a version whose trailing parts are filled in at emit
// time ("1.2.*" or "1.2.3.*").
type VersionPattern struct {
	Version
	WildBuild    bool
	WildRevision bool
}

func (p VersionPattern) String() string {
	switch {
	case p.WildBuild:
		return fmt.Sprintf("%d.%d.*", p.Major, p.Minor)
	case p.WildRevision:
		return fmt.Sprintf("%d.%d.%d.*", p.Major, p.Minor, p.Build)
	}
	return p.Version.String()
}

// ParseVersion parses "major[.minor[.build[.revision]]]". A '*' in the build
// or revision position turns the result into a pattern; pattern is nil for
// plain versions.
func ParseVersion(s string) (Version, *VersionPattern, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, nil, nil
	}
	parts := strings.Split(s, ".")
	if len(parts) > 4 {
		return Version{}, nil, fmt.Errorf("invalid version %q: too many parts", s)
	}
	var nums [4]uint16
	for i, part := range parts {
		if part == "*" {
			if i < 2 || i != len(parts)-1 {
				return Version{}, nil, fmt.Errorf("invalid version %q: '*' only allowed as the last build or revision part", s)
			}
			v := Version{Major: nums[0], Minor: nums[1], Build: nums[2]}
			return v, &VersionPattern{Version: v, WildBuild: i == 2, WildRevision: i == 3}, nil
		}
		n, err := strconv.ParseUint(part, 10, 16)
		if err != nil || n == 0xFFFF {
			return Version{}, nil, fmt.Errorf("invalid version %q: part %q", s, part)
		}
		nums[i] = uint16(n)
	}
	return Version{Major: nums[0], Minor: nums[1], Build: nums[2], Revision: nums[3]}, nil, nil
}

// Identity is the assembly's strong name without the public key.
type Identity struct {
	Name    string
	Version Version
	Culture string
}

func (id Identity) String() string {
	culture := id.Culture
	if culture == "" {
		culture = "neutral"
	}
	return fmt.Sprintf("%s, Version=%s, Culture=%s", id.Name, id.Version, culture)
}

// OutputKind selects what the emitted primary module is.
type OutputKind uint8

const (
	ConsoleApplication OutputKind = iota
	WindowsApplication
	DynamicallyLinkedLibrary
	NetModule
	WindowsRuntimeMetadata
	WindowsRuntimeApplication
)

var outputKindNames = [...]string{
	ConsoleApplication:        "exe",
	WindowsApplication:        "winexe",
	DynamicallyLinkedLibrary:  "dll",
	NetModule:                 "module",
	WindowsRuntimeMetadata:    "winmdobj",
	WindowsRuntimeApplication: "appcontainer",
}

func (k OutputKind) String() string {
	if int(k) < len(outputKindNames) {
		return outputKindNames[k]
	}
	return "unknown"
}

// ParseOutputKind maps the descriptor spelling onto an OutputKind.
func ParseOutputKind(s string) (OutputKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DynamicallyLinkedLibrary, nil
	}
	for k, name := range outputKindNames {
		if name == s {
			return OutputKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown output kind %q (expected exe|winexe|dll|module|winmdobj|appcontainer)", s)
}

// IsAssembly reports whether the output carries an assembly manifest.
func (k OutputKind) IsAssembly() bool {
	return k != NetModule
}

// MetadataName returns the name written into the assembly's metadata: the
// output override with its extension removed when one is given, otherwise
// the assembly name.
func MetadataName(assemblyName, outputOverride string) string {
	if outputOverride == "" {
		return assemblyName
	}
	base := path.Base(strings.ReplaceAll(outputOverride, "\\", "/"))
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
