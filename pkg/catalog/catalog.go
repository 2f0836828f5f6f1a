// Package catalog turns manifest paths into Package values and keeps one
// instance per canonical path for the duration of a run.
package catalog

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/mozart/pkg/autoload"
	"github.com/arthur-debert/mozart/pkg/filesystem"
	"github.com/arthur-debert/mozart/pkg/logging"
	"github.com/arthur-debert/mozart/pkg/manifest"
	"github.com/arthur-debert/mozart/pkg/types"
)

// Catalog caches packages by canonical manifest path.
type Catalog struct {
	fs        *filesystem.Handler
	vendorDir string
	cache     map[string]*types.Package
	logger    zerolog.Logger
}

// New creates an empty catalog. vendorDir is used to derive directory
// names and may be empty.
func New(fs *filesystem.Handler, vendorDir string) *Catalog {
	c := &Catalog{
		fs:     fs,
		cache:  make(map[string]*types.Package),
		logger: logging.GetLogger("catalog"),
	}
	if vendorDir != "" {
		c.vendorDir = fs.Canonical(vendorDir)
	}
	return c
}

// Resolve returns the package described by the manifest at manifestPath.
// A non-nil override replaces the package's own autoload section. Repeated
// calls for the same canonical path return the same instance; a later
// override replaces the descriptors of the cached instance.
func (c *Catalog) Resolve(manifestPath string, override *manifest.Autoload) (*types.Package, error) {
	key := c.fs.Canonical(manifestPath)

	if pkg, ok := c.cache[key]; ok {
		if override != nil {
			pkg.Autoloaders = autoload.FromManifest(*override)
		}
		return pkg, nil
	}

	doc, err := manifest.Read(c.fs, key)
	if err != nil {
		return nil, err
	}

	installDir := filepath.Dir(key)
	pkg := types.NewPackage(doc.Name, key, installDir, c.directoryName(installDir))
	pkg.Requires = doc.Requires()

	section := doc.Autoload
	if override != nil {
		section = *override
		c.logger.Debug().Str("package", doc.Name).Msg("Using override autoload")
	}
	pkg.Autoloaders = autoload.FromManifest(section)

	c.cache[key] = pkg
	c.logger.Debug().
		Str("package", pkg.Name).
		Str("directory", pkg.DirectoryName()).
		Int("autoloaders", len(pkg.Autoloaders)).
		Msg("Package created")

	return pkg, nil
}

// Len returns the number of cached packages.
func (c *Catalog) Len() int {
	return len(c.cache)
}

// directoryName derives "vendor-name/package-dir" from an install path.
func (c *Catalog) directoryName(installDir string) string {
	if c.vendorDir != "" {
		rel, err := filepath.Rel(c.vendorDir, installDir)
		if err == nil && rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.ToSlash(rel)
		}
	}

	parts := strings.Split(filepath.ToSlash(installDir), "/")
	if n := len(parts); n >= 3 && parts[n-3] == "vendor" {
		return parts[n-2] + "/" + parts[n-1]
	}
	return ""
}
