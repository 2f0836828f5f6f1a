// Package relocate copies the autoloaded files of resolved packages into
// the host's output directories and cleans up the original copies.
//
// The operations run in a fixed order: DeleteTargetDirs, MovePackages and,
// once rewriting finished, DeletePackageVendorDirectories.
package relocate

import (
	stderrors "errors"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/mozart/pkg/autoload"
	"github.com/arthur-debert/mozart/pkg/config"
	"github.com/arthur-debert/mozart/pkg/errors"
	"github.com/arthur-debert/mozart/pkg/filesystem"
	"github.com/arthur-debert/mozart/pkg/logging"
	"github.com/arthur-debert/mozart/pkg/types"
)

// Relocator moves package files for one run.
type Relocator struct {
	fs     *filesystem.Handler
	cfg    *config.Config
	dests  autoload.Destinations
	moved  []*types.Package
	logger zerolog.Logger
}

// New creates a relocator writing below the directories configured in cfg.
func New(fs *filesystem.Handler, cfg *config.Config) *Relocator {
	return &Relocator{
		fs:  fs,
		cfg: cfg,
		dests: autoload.Destinations{
			DepDirectory:      cfg.DepPath(),
			ClassmapDirectory: cfg.ClassmapPath(),
		},
		logger: logging.GetLogger("relocate"),
	}
}

// Destinations returns the absolute output directories.
func (r *Relocator) Destinations() autoload.Destinations {
	return r.dests
}

// TargetDir is where desc relocates the files of pkg, or "" when the
// descriptor has no configured destination.
func (r *Relocator) TargetDir(pkg *types.Package, desc autoload.Descriptor) string {
	return autoload.TargetDir(desc, r.dests, pkg.DirectoryName())
}

// DeleteTargetDirs removes the output subtrees of every non-excluded
// package so stale files from earlier runs disappear.
func (r *Relocator) DeleteTargetDirs(packages []*types.Package) error {
	for _, pkg := range packages {
		if r.cfg.IsExcludedPackage(pkg.Name) {
			continue
		}
		for _, dir := range r.targetDirs(pkg) {
			if err := r.fs.DeleteDirectory(dir); err != nil {
				return err
			}
			r.logger.Debug().Str("package", pkg.Name).Str("dir", dir).Msg("Target directory cleared")
		}
	}
	return nil
}

// MovePackages copies the mapped sources of every non-excluded package to
// <destination>/<directoryName>/<source>. Every package is attempted; the
// failures are returned together.
func (r *Relocator) MovePackages(packages []*types.Package) error {
	var failures []error
	var failed []string

	for _, pkg := range packages {
		if r.cfg.IsExcludedPackage(pkg.Name) {
			r.logger.Debug().Str("package", pkg.Name).Msg("Skipping excluded package")
			continue
		}
		if err := r.movePackage(pkg); err != nil {
			failures = append(failures, err)
			failed = append(failed, pkg.Name)
			r.logger.Error().Err(err).Str("package", pkg.Name).Msg("Failed to relocate package")
			continue
		}
		r.moved = append(r.moved, pkg)
	}

	if len(failures) > 0 {
		return errors.Wrap(stderrors.Join(failures...), errors.ErrFileOperation, "failed to relocate packages").
			WithDetail("packages", failed)
	}
	return nil
}

// Moved returns the packages relocated by MovePackages.
func (r *Relocator) Moved() []*types.Package {
	return r.moved
}

// DeletePackageVendorDirectories removes the install directories of the
// relocated packages, and their vendor-name directory once it is empty.
// It does nothing unless delete_vendor_directories is set.
func (r *Relocator) DeletePackageVendorDirectories() error {
	if !r.cfg.DeleteVendorDirectories {
		return nil
	}

	vendor := r.cfg.VendorPath()
	for _, pkg := range r.moved {
		if !isBelow(vendor, pkg.Path) {
			r.logger.Warn().Str("package", pkg.Name).Str("path", pkg.Path).Msg("Install directory outside vendor, not deleted")
			continue
		}
		if err := r.fs.DeleteDirectory(pkg.Path); err != nil {
			return err
		}
		r.logger.Info().Str("package", pkg.Name).Msg("Vendor directory deleted")

		parent := filepath.Dir(pkg.Path)
		if isBelow(vendor, parent) && r.fs.IsDirectoryEmpty(parent) {
			if err := r.fs.DeleteDirectory(parent); err != nil {
				return err
			}
		}
	}
	r.moved = nil
	return nil
}

func (r *Relocator) movePackage(pkg *types.Package) error {
	for _, desc := range pkg.Autoloaders {
		target := r.TargetDir(pkg, desc)
		if target == "" {
			return errors.New(errors.ErrConfiguration, "no destination configured").
				WithDetail("standard", desc.Standard())
		}
		for _, source := range desc.Sources() {
			src := filepath.Join(pkg.Path, filepath.FromSlash(source))
			if !r.fs.Exists(src) {
				r.logger.Warn().Str("package", pkg.Name).Str("source", source).Msg("Autoload source missing, skipped")
				continue
			}
			if err := r.fs.CopyTree(src, filepath.Join(target, filepath.FromSlash(source))); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Relocator) targetDirs(pkg *types.Package) []string {
	var dirs []string
	seen := map[string]bool{}
	for _, desc := range pkg.Autoloaders {
		dir := r.TargetDir(pkg, desc)
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return dirs
}

func isBelow(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
