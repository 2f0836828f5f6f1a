package types

import (
	"fmt"

	"github.com/arthur-debert/mozart/pkg/autoload"
)

// Package is an installed composer package. Its identity is the canonical
// path of its manifest: the catalog hands out one *Package per path.
type Package struct {
	// Name is the name declared in composer.json
	Name string

	// Path is the absolute install directory
	Path string

	// ManifestPath is the canonical path of composer.json
	ManifestPath string

	// Requires are the declared dependency slugs, sorted
	Requires []string

	// Dependencies are the resolved packages behind Requires
	Dependencies []*Package

	// Autoloaders are the mappings relocated and rewritten for this package
	Autoloaders []autoload.Descriptor

	directoryName string
}

// NewPackage creates a package. directoryName may be empty.
func NewPackage(name, manifestPath, path, directoryName string) *Package {
	return &Package{
		Name:          name,
		ManifestPath:  manifestPath,
		Path:          path,
		directoryName: directoryName,
	}
}

// DirectoryName is the install path below the vendor directory, such as
// "vendor/package-path". It falls back to Name.
func (p *Package) DirectoryName() string {
	if p.directoryName != "" {
		return p.directoryName
	}
	return p.Name
}

// AddDependency records dep once.
func (p *Package) AddDependency(dep *Package) {
	for _, existing := range p.Dependencies {
		if existing == dep {
			return
		}
	}
	p.Dependencies = append(p.Dependencies, dep)
}

// HasStandard reports whether any autoloader uses one of standards.
func (p *Package) HasStandard(standards ...string) bool {
	return autoload.HasStandard(p.Autoloaders, standards...)
}

func (p *Package) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.DirectoryName())
}
