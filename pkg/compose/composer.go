package compose

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/mozart/pkg/autoload"
	"github.com/arthur-debert/mozart/pkg/catalog"
	"github.com/arthur-debert/mozart/pkg/config"
	"github.com/arthur-debert/mozart/pkg/filesystem"
	"github.com/arthur-debert/mozart/pkg/logging"
	"github.com/arthur-debert/mozart/pkg/relocate"
	"github.com/arthur-debert/mozart/pkg/resolver"
	"github.com/arthur-debert/mozart/pkg/rewrite"
	"github.com/arthur-debert/mozart/pkg/types"
)

// Composer holds the collaborators of a single run. Nothing is shared
// between runs.
type Composer struct {
	RunID string

	fs        *filesystem.Handler
	cfg       *config.Config
	resolver  *resolver.Resolver
	relocator *relocate.Relocator
	engine    *rewrite.Engine
	logger    zerolog.Logger
}

// NewComposer wires a run over fs for cfg.
func NewComposer(fs afero.Fs, cfg *config.Config) *Composer {
	h := filesystem.NewHandler(fs, cfg.WorkingDir)
	cat := catalog.New(h, cfg.VendorPath())
	runID := uuid.NewString()

	return &Composer{
		RunID:     runID,
		fs:        h,
		cfg:       cfg,
		resolver:  resolver.New(h, cat, cfg.WorkingDir, cfg.OverrideAutoload),
		relocator: relocate.New(h, cfg),
		engine:    rewrite.New(h, cfg),
		logger:    logging.GetLogger("compose").With().Str("run", runID).Logger(),
	}
}

// Resolve returns the dependency set of the configured root packages.
func (c *Composer) Resolve() (resolver.ResolvedSet, error) {
	return c.resolver.Resolve(c.cfg.Packages)
}

// Compose runs the whole pipeline. Configuration and resolution problems
// are reported before the filesystem is modified.
func (c *Composer) Compose() (*Result, error) {
	start := time.Now()
	done := logging.LogOperationStart(c.logger, "compose")
	defer done()

	packages, err := c.Resolve()
	if err != nil {
		return nil, err
	}
	if c.needsClassmap(packages) {
		if err := c.cfg.ValidateClassmap(); err != nil {
			return nil, err
		}
	}

	if err := c.relocator.DeleteTargetDirs(packages); err != nil {
		return nil, err
	}
	if err := c.relocator.MovePackages(packages); err != nil {
		return nil, err
	}

	if err := c.engine.ReplacePackages(packages); err != nil {
		return nil, err
	}
	if err := c.engine.ReplaceParentInTree(packages); err != nil {
		return nil, err
	}
	if dir := c.cfg.ClassmapPath(); dir != "" {
		if err := c.engine.ReplaceParentClassesInDirectory(dir); err != nil {
			return nil, err
		}
	}

	if err := c.relocator.DeletePackageVendorDirectories(); err != nil {
		return nil, err
	}

	result := c.result("compose", packages)
	result.Renames = c.engine.Renames()
	result.Stats = c.engine.Stats()
	result.VendorDeleted = c.cfg.DeleteVendorDirectories
	result.Duration = time.Since(start)

	c.logger.Info().
		Int("packages", result.Relocated()).
		Int("renames", len(result.Renames)).
		Int("rewritten", result.Stats.FilesRewritten).
		Msg("Compose completed")

	return result, nil
}

// List resolves the dependency set without touching any file.
func (c *Composer) List() (*Result, error) {
	start := time.Now()
	packages, err := c.Resolve()
	if err != nil {
		return nil, err
	}
	result := c.result("list", packages)
	result.Duration = time.Since(start)
	return result, nil
}

func (c *Composer) needsClassmap(packages []*types.Package) bool {
	for _, pkg := range packages {
		if c.cfg.IsExcludedPackage(pkg.Name) {
			continue
		}
		if pkg.HasStandard(autoload.StandardClassmap, autoload.StandardFiles) {
			return true
		}
	}
	return false
}

func (c *Composer) result(command string, packages []*types.Package) *Result {
	result := &Result{
		RunID:      c.RunID,
		Command:    command,
		WorkingDir: c.cfg.WorkingDir,
		Packages:   make([]PackageResult, 0, len(packages)),
	}
	for _, pkg := range packages {
		pr := PackageResult{
			Name:          pkg.Name,
			DirectoryName: pkg.DirectoryName(),
			Excluded:      c.cfg.IsExcludedPackage(pkg.Name),
		}
		for _, dep := range pkg.Dependencies {
			pr.Dependencies = append(pr.Dependencies, dep.Name)
		}
		for _, desc := range pkg.Autoloaders {
			pr.Autoloaders = append(pr.Autoloaders, fmt.Sprint(desc))
		}
		result.Packages = append(result.Packages, pr)
	}
	return result
}
