// Package resolver computes the transitive set of installed packages a
// host project depends on.
package resolver

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/mozart/pkg/catalog"
	"github.com/arthur-debert/mozart/pkg/errors"
	"github.com/arthur-debert/mozart/pkg/filesystem"
	"github.com/arthur-debert/mozart/pkg/logging"
	"github.com/arthur-debert/mozart/pkg/manifest"
	"github.com/arthur-debert/mozart/pkg/types"
)

// ResolvedSet is the ordered, deduplicated list of packages of a run, in
// order of first discovery. The root package is never part of it.
type ResolvedSet []*types.Package

// Slugs returns the package names in order.
func (s ResolvedSet) Slugs() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Name
	}
	return out
}

// Contains reports whether pkg is in the set.
func (s ResolvedSet) Contains(pkg *types.Package) bool {
	for _, p := range s {
		if p == pkg {
			return true
		}
	}
	return false
}

var pseudoPackages = map[string]bool{
	"php":                  true,
	"hhvm":                 true,
	"composer":             true,
	"composer-plugin-api":  true,
	"composer-runtime-api": true,
}

// IsPseudoPackage reports whether slug names a platform requirement
// rather than an installable package. Installable packages are always
// named vendor/name.
func IsPseudoPackage(slug string) bool {
	slug = strings.ToLower(slug)
	if pseudoPackages[slug] || !strings.Contains(slug, "/") {
		return true
	}
	for _, prefix := range []string{"php-", "ext-", "lib-"} {
		if strings.HasPrefix(slug, prefix) {
			return true
		}
	}
	return false
}

// Resolver finds installed packages below <workingDir>/vendor.
type Resolver struct {
	fs        *filesystem.Handler
	catalog   *catalog.Catalog
	vendorDir string
	overrides map[string]manifest.Autoload
	logger    zerolog.Logger
}

// New creates a resolver. overrides maps package slugs to the autoload
// section replacing their own.
func New(fs *filesystem.Handler, cat *catalog.Catalog, workingDir string, overrides map[string]manifest.Autoload) *Resolver {
	return &Resolver{
		fs:        fs,
		catalog:   cat,
		vendorDir: filepath.Join(workingDir, "vendor"),
		overrides: overrides,
		logger:    logging.GetLogger("resolver"),
	}
}

// Resolve returns the packages reachable from slugs. Pseudo packages are
// dropped; every other slug must be installed.
func (r *Resolver) Resolve(slugs []string) (ResolvedSet, error) {
	var set ResolvedSet
	if err := r.collect(slugs, nil, &set); err != nil {
		return nil, err
	}
	r.logger.Info().Int("packages", len(set)).Msg("Dependencies resolved")
	return set, nil
}

// PackageBySlug resolves a single slug. It returns nil for pseudo packages.
func (r *Resolver) PackageBySlug(slug string) (*types.Package, error) {
	if IsPseudoPackage(slug) {
		return nil, nil
	}

	manifestPath := filepath.Join(r.vendorDir, filepath.FromSlash(slug), manifest.FileName)
	if !r.fs.Exists(manifestPath) {
		return nil, errors.New(errors.ErrResolution, "could not locate installed package for slug").
			WithDetail("slug", slug).
			WithDetail("path", manifestPath)
	}

	var override *manifest.Autoload
	if section, ok := r.overrides[slug]; ok {
		override = &section
	}
	return r.catalog.Resolve(manifestPath, override)
}

func (r *Resolver) collect(slugs []string, parent *types.Package, set *ResolvedSet) error {
	for _, slug := range slugs {
		pkg, err := r.PackageBySlug(slug)
		if err != nil {
			return err
		}
		if pkg == nil {
			r.logger.Trace().Str("slug", slug).Msg("Skipping pseudo package")
			continue
		}
		if parent != nil {
			parent.AddDependency(pkg)
		}
		if set.Contains(pkg) {
			continue
		}
		*set = append(*set, pkg)
		r.logger.Debug().Str("package", pkg.Name).Msg("Package found")

		if err := r.collect(pkg.Requires, pkg, set); err != nil {
			return err
		}
	}
	return nil
}
